package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"hotelsearch/internal/errs"
	"hotelsearch/internal/model"
)

// Preference field names accepted by Update
const (
	FieldCity        = "city"
	FieldLatitude    = "latitude"
	FieldLongitude   = "longitude"
	FieldCheckIn     = "check_in"
	FieldCheckOut    = "check_out"
	FieldNights      = "nights"
	FieldAdults      = "adults"
	FieldRooms       = "rooms"
	FieldRoomQty     = "room_qty"
	FieldChildrenAge = "children_age"
	FieldCurrency    = "currency_code"
)

// PreferenceState is the booking criteria collected during one conversation.
// Every slot starts empty. Adults, rooms and nights are positive when set and
// check_out is after check_in whenever both are set.
type PreferenceState struct {
	City        *string    `json:"city,omitempty"`
	Latitude    *float64   `json:"latitude,omitempty"`
	Longitude   *float64   `json:"longitude,omitempty"`
	CheckIn     *time.Time `json:"check_in,omitempty"`
	CheckOut    *time.Time `json:"check_out,omitempty"`
	Nights      *int       `json:"nights,omitempty"`
	Adults      *int       `json:"adults,omitempty"`
	Rooms       *int       `json:"rooms,omitempty"`
	ChildrenAge *string    `json:"children_age,omitempty"`
	Currency    *string    `json:"currency_code,omitempty"`
}

// NewPreferenceState returns an empty state
func NewPreferenceState() *PreferenceState {
	return &PreferenceState{}
}

// Update sets one slot from its raw text value and returns a confirmation.
// On error the state is left unchanged.
func (p *PreferenceState) Update(field, raw string) (string, error) {
	field = strings.ToLower(strings.TrimSpace(field))
	value := strings.TrimSpace(raw)

	switch field {
	case FieldCity:
		if value == "" {
			return "", errs.Validation("invalid city value: must not be empty")
		}
		if p.City == nil || !strings.EqualFold(*p.City, value) {
			// coordinates belong to the previous city
			p.Latitude, p.Longitude = nil, nil
		}
		p.City = &value

	case FieldLatitude, FieldLongitude:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return "", errs.Validation("invalid %s value: %s, must be a number", field, value)
		}
		if field == FieldLatitude {
			if f < -90 || f > 90 {
				return "", errs.Validation("invalid latitude value: %s, must be between -90 and 90", value)
			}
			p.Latitude = &f
		} else {
			if f < -180 || f > 180 {
				return "", errs.Validation("invalid longitude value: %s, must be between -180 and 180", value)
			}
			p.Longitude = &f
		}

	case FieldCheckIn:
		d, err := parseISODate(field, value)
		if err != nil {
			return "", err
		}
		return p.setCheckIn(d)

	case FieldCheckOut:
		d, err := parseISODate(field, value)
		if err != nil {
			return "", err
		}
		return p.setCheckOut(d)

	case FieldNights:
		n, err := parsePositiveInt(field, value)
		if err != nil {
			return "", err
		}
		p.Nights = &n
		if p.CheckIn != nil {
			out := p.CheckIn.AddDate(0, 0, n)
			p.CheckOut = &out
			return fmt.Sprintf("Updated nights to %d (check_out %s)", n, out.Format(model.DateLayout)), nil
		}

	case FieldAdults:
		n, err := parsePositiveInt(field, value)
		if err != nil {
			return "", err
		}
		p.Adults = &n

	case FieldRooms, FieldRoomQty:
		n, err := parsePositiveInt(field, value)
		if err != nil {
			return "", err
		}
		p.Rooms = &n

	case FieldChildrenAge:
		p.ChildrenAge = &value

	case FieldCurrency, "currency":
		code := strings.ToUpper(value)
		p.Currency = &code
		value = code

	default:
		return "", errs.Validation("unknown field: %s", field)
	}

	return fmt.Sprintf("Updated %s to %s", field, value), nil
}

func (p *PreferenceState) setCheckIn(d time.Time) (string, error) {
	switch {
	case p.Nights != nil:
		out := d.AddDate(0, 0, *p.Nights)
		p.CheckIn, p.CheckOut = &d, &out
		return fmt.Sprintf("Updated check_in to %s (check_out %s)", d.Format(model.DateLayout), out.Format(model.DateLayout)), nil
	case p.CheckOut != nil:
		nights := daysBetween(d, *p.CheckOut)
		if nights < 1 {
			return "", errs.Validation("invalid check_in value: %s, must be before check_out %s",
				d.Format(model.DateLayout), p.CheckOut.Format(model.DateLayout))
		}
		p.CheckIn, p.Nights = &d, &nights
		return fmt.Sprintf("Updated check_in to %s (%d nights)", d.Format(model.DateLayout), nights), nil
	default:
		p.CheckIn = &d
		return fmt.Sprintf("Updated check_in to %s", d.Format(model.DateLayout)), nil
	}
}

func (p *PreferenceState) setCheckOut(d time.Time) (string, error) {
	if p.CheckIn == nil {
		p.CheckOut = &d
		return fmt.Sprintf("Updated check_out to %s", d.Format(model.DateLayout)), nil
	}
	nights := daysBetween(*p.CheckIn, d)
	if nights < 1 {
		return "", errs.Validation("invalid check_out value: %s, must be after check_in %s",
			d.Format(model.DateLayout), p.CheckIn.Format(model.DateLayout))
	}
	p.CheckOut, p.Nights = &d, &nights
	return fmt.Sprintf("Updated check_out to %s (%d nights)", d.Format(model.DateLayout), nights), nil
}

// ApplyUpdates applies "field=value" pairs separated by commas, in order, all or
// nothing. A segment without "=" continues the previous value, so children_age=4,9 works.
func (p *PreferenceState) ApplyUpdates(input string) (string, error) {
	type pair struct{ field, value string }
	var pairs []pair
	for _, seg := range strings.Split(input, ",") {
		if k, v, ok := strings.Cut(seg, "="); ok {
			pairs = append(pairs, pair{field: strings.TrimSpace(k), value: strings.TrimSpace(v)})
			continue
		}
		if len(pairs) == 0 {
			return "", errs.Validation("invalid update %q, expected field=value", strings.TrimSpace(seg))
		}
		pairs[len(pairs)-1].value += "," + strings.TrimSpace(seg)
	}
	if len(pairs) == 0 {
		return "", errs.Validation("no updates given, expected field=value")
	}

	// Update never mutates through slot pointers, so a shallow copy isolates the batch
	next := *p
	confirmations := make([]string, 0, len(pairs))
	for _, pr := range pairs {
		msg, err := next.Update(pr.field, pr.value)
		if err != nil {
			return "", err
		}
		confirmations = append(confirmations, msg)
	}
	*p = next
	return strings.Join(confirmations, "; "), nil
}

// SetLocation stores a geocoded city in one step
func (p *PreferenceState) SetLocation(city string, coords model.Coordinates) {
	lat, lon := coords.Latitude, coords.Longitude
	p.City = &city
	p.Latitude, p.Longitude = &lat, &lon
}

// IsReadyForSearch reports whether every slot a search needs is set
func (p *PreferenceState) IsReadyForSearch() bool {
	return p.Latitude != nil && p.Longitude != nil &&
		p.CheckIn != nil && p.CheckOut != nil &&
		p.Adults != nil && p.Rooms != nil
}

// Missing lists the unset required slots in asking order
func (p *PreferenceState) Missing() []string {
	var missing []string
	if p.Latitude == nil || p.Longitude == nil {
		missing = append(missing, "location coordinates")
	}
	if p.CheckIn == nil {
		missing = append(missing, "check-in date")
	}
	if p.CheckOut == nil {
		missing = append(missing, "check-out date")
	}
	if p.Adults == nil {
		missing = append(missing, "number of adults")
	}
	if p.Rooms == nil {
		missing = append(missing, "number of rooms")
	}
	return missing
}

// Criteria snapshots the state into search criteria
func (p *PreferenceState) Criteria(defaultCurrency string) (model.SearchCriteria, error) {
	if !p.IsReadyForSearch() {
		return model.SearchCriteria{}, errs.Validation("missing information: %s", strings.Join(p.Missing(), ", "))
	}
	currency := defaultCurrency
	if p.Currency != nil && *p.Currency != "" {
		currency = *p.Currency
	}
	var ages []int
	if p.ChildrenAge != nil {
		var err error
		if ages, err = ParseChildrenAges(*p.ChildrenAge); err != nil {
			return model.SearchCriteria{}, err
		}
	}
	return model.NewSearchCriteria(
		model.Coordinates{Latitude: *p.Latitude, Longitude: *p.Longitude},
		*p.CheckIn, *p.CheckOut, *p.Adults, *p.Rooms, ages, currency,
	)
}

func parseISODate(field, value string) (time.Time, error) {
	d, err := time.Parse(model.DateLayout, value)
	if err != nil {
		return time.Time{}, errs.Validation("invalid %s value: %s, must be a date in YYYY-MM-DD format", field, value)
	}
	return d, nil
}

func parsePositiveInt(field, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil || n < 1 {
		return 0, errs.Validation("invalid %s value: %s, must be a positive number", field, value)
	}
	return n, nil
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}
