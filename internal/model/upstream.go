package model

import "encoding/json"

// UpstreamEnvelope is the hotel-search provider response envelope.
// Every field is optional; the client validates shape before use.
type UpstreamEnvelope struct {
	Status  *bool         `json:"status"`
	Message string        `json:"message"`
	Data    *UpstreamData `json:"data"`
}

// UpstreamData holds the result page
type UpstreamData struct {
	Result []json.RawMessage `json:"result"`
	Count  *int              `json:"count,omitempty"`
}

// UpstreamHotel mirrors one provider result item. Numbers that the provider
// sometimes sends as strings are kept raw and coerced by the mapper.
type UpstreamHotel struct {
	HotelID                 *int64          `json:"hotel_id"`
	HotelName               *string         `json:"hotel_name"`
	City                    *string         `json:"city"`
	CountryCode             *string         `json:"countrycode"`
	Latitude                *float64        `json:"latitude"`
	Longitude               *float64        `json:"longitude"`
	ReviewScore             json.RawMessage `json:"review_score"`
	ReviewScoreWord         *string         `json:"review_score_word"`
	ReviewNr                *int            `json:"review_nr"`
	MainPhotoURL            *string         `json:"main_photo_url"`
	URL                     *string         `json:"url"`
	MinTotalPrice           json.RawMessage `json:"min_total_price"`
	CurrencyCode            *string         `json:"currencycode"`
	IsFreeCancellable       json.RawMessage `json:"is_free_cancellable"`
	CompositePriceBreakdown json.RawMessage `json:"composite_price_breakdown"`
	Badges                  []UpstreamBadge `json:"badges"`
	AccommodationType       *int            `json:"accommodation_type"`
	Timezone                *string         `json:"timezone"`
}

// UpstreamBadge is a provider badge
type UpstreamBadge struct {
	ID           string `json:"id"`
	Text         string `json:"text"`
	BadgeVariant string `json:"badge_variant"`
}

// UpstreamAmount is the provider's monetary object
type UpstreamAmount struct {
	Value    json.RawMessage `json:"value"`
	Currency string          `json:"currency"`
}

// UpstreamPriceItem is a provider breakdown line
type UpstreamPriceItem struct {
	Name       string          `json:"name"`
	Kind       string          `json:"kind"`
	Details    string          `json:"details"`
	ItemAmount *UpstreamAmount `json:"item_amount"`
}

// UpstreamPriceBreakdown is the provider's composite_price_breakdown
type UpstreamPriceBreakdown struct {
	GrossAmount         *UpstreamAmount     `json:"gross_amount"`
	NetAmount           *UpstreamAmount     `json:"net_amount"`
	ExcludedAmount      *UpstreamAmount     `json:"excluded_amount"`
	AllInclusiveAmount  *UpstreamAmount     `json:"all_inclusive_amount"`
	DiscountedAmount    *UpstreamAmount     `json:"discounted_amount"`
	StrikethroughAmount *UpstreamAmount     `json:"strikethrough_amount"`
	Items               []UpstreamPriceItem `json:"items"`
}
