package model

import (
	"fmt"
	"strings"
	"time"

	"hotelsearch/internal/errs"

	"github.com/shopspring/decimal"
)

// DateLayout is the ISO 8601 calendar date format used on every wire.
const DateLayout = "2006-01-02"

// Coordinates is a point in decimal degrees
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Valid reports whether the point lies within WGS84 bounds
func (c Coordinates) Valid() bool {
	return c.Latitude >= -90 && c.Latitude <= 90 && c.Longitude >= -180 && c.Longitude <= 180
}

func (c Coordinates) String() string {
	return fmt.Sprintf("%.6f,%.6f", c.Latitude, c.Longitude)
}

// SearchCriteria is an immutable hotel query. Build it with NewSearchCriteria.
type SearchCriteria struct {
	Coordinates  Coordinates
	Arrival      time.Time
	Departure    time.Time
	Adults       int
	Rooms        int
	ChildrenAges []int
	Currency     string
}

// NewSearchCriteria validates the inputs and returns a criteria value
func NewSearchCriteria(coords Coordinates, arrival, departure time.Time, adults, rooms int, childrenAges []int, currency string) (SearchCriteria, error) {
	if !coords.Valid() {
		return SearchCriteria{}, errs.Validation("coordinates out of range: %s", coords)
	}
	if adults < 1 {
		return SearchCriteria{}, errs.Validation("adults must be at least 1, got %d", adults)
	}
	if rooms < 1 {
		return SearchCriteria{}, errs.Validation("rooms must be at least 1, got %d", rooms)
	}
	if !departure.After(arrival) {
		return SearchCriteria{}, errs.Validation("departure date %s must be after arrival date %s",
			departure.Format(DateLayout), arrival.Format(DateLayout))
	}
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if len(currency) != 3 {
		return SearchCriteria{}, errs.Validation("currency code must have 3 letters, got %q", currency)
	}
	for _, age := range childrenAges {
		if age < 0 || age > 17 {
			return SearchCriteria{}, errs.Validation("child age %d out of range 0-17", age)
		}
	}

	ages := make([]int, len(childrenAges))
	copy(ages, childrenAges)

	return SearchCriteria{
		Coordinates:  coords,
		Arrival:      arrival,
		Departure:    departure,
		Adults:       adults,
		Rooms:        rooms,
		ChildrenAges: ages,
		Currency:     currency,
	}, nil
}

// Nights returns the length of stay in days
func (c SearchCriteria) Nights() int {
	return int(c.Departure.Sub(c.Arrival).Hours() / 24)
}

// Money is an amount tagged with its currency
type Money struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

func (m Money) String() string {
	return m.Amount.StringFixed(2) + " " + m.Currency
}

// PriceItem is one line charge or discount of a price breakdown
type PriceItem struct {
	Name    string `json:"name"`
	Kind    string `json:"kind,omitempty"`
	Details string `json:"details,omitempty"`
	Amount  *Money `json:"amount,omitempty"`
}

// PriceBreakdown is the optional structured price detail of a hotel offer
type PriceBreakdown struct {
	Gross         *Money      `json:"gross_amount,omitempty"`
	Net           *Money      `json:"net_amount,omitempty"`
	Excluded      *Money      `json:"excluded_amount,omitempty"`
	AllInclusive  *Money      `json:"all_inclusive_amount,omitempty"`
	Discounted    *Money      `json:"discounted_amount,omitempty"`
	Strikethrough *Money      `json:"strikethrough_amount,omitempty"`
	Items         []PriceItem `json:"items,omitempty"`
}

// Badge is a provider label attached to an offer
type Badge struct {
	ID      string `json:"id"`
	Text    string `json:"text"`
	Variant string `json:"variant"`
}

// HotelRecord is a validated hotel offer
type HotelRecord struct {
	ID                int64           `json:"hotel_id"`
	Name              string          `json:"hotel_name"`
	City              string          `json:"city"`
	CountryCode       string          `json:"country_code"`
	Coordinates       Coordinates     `json:"coordinates"`
	Price             Money           `json:"price"`
	ReviewScore       *float64        `json:"rating"`
	ReviewScoreWord   *string         `json:"rating_description"`
	ReviewCount       *int            `json:"review_count"`
	FreeCancellation  bool            `json:"free_cancellation"`
	Badges            []Badge         `json:"badges"`
	PriceBreakdown    *PriceBreakdown `json:"price_breakdown"`
	AccommodationType *int            `json:"accommodation_type"`
	Timezone          *string         `json:"timezone"`
	PhotoURL          string          `json:"photo_url"`
	BookingURL        string          `json:"booking_url"`
}

// RankedHotelRecord is a hotel with its distance from the search point
type RankedHotelRecord struct {
	HotelRecord
	DistanceKm float64 `json:"distance_km"`
}
