package service

import (
	"bytes"
	"encoding/json"
	"strings"

	"hotelsearch/internal/errs"
	"hotelsearch/internal/model"

	"github.com/shopspring/decimal"
)

// mapHotel validates one provider item and converts it to a HotelRecord.
// Any missing required field or non-numeric price is a ValidationError.
func mapHotel(raw json.RawMessage, fallbackCurrency string) (model.HotelRecord, error) {
	var h model.UpstreamHotel
	if err := json.Unmarshal(raw, &h); err != nil {
		return model.HotelRecord{}, errs.Mark(errs.Wrap(err, "decode hotel"), errs.ErrValidation)
	}

	if h.HotelID == nil {
		return model.HotelRecord{}, errs.Validation("missing hotel_id")
	}
	if h.HotelName == nil || strings.TrimSpace(*h.HotelName) == "" {
		return model.HotelRecord{}, errs.Validation("hotel %d: missing hotel_name", *h.HotelID)
	}
	if h.Latitude == nil || h.Longitude == nil {
		return model.HotelRecord{}, errs.Validation("hotel %d: missing coordinates", *h.HotelID)
	}
	coords := model.Coordinates{Latitude: *h.Latitude, Longitude: *h.Longitude}
	if !coords.Valid() {
		return model.HotelRecord{}, errs.Validation("hotel %d: coordinates out of range", *h.HotelID)
	}
	price, ok := parseDecimal(h.MinTotalPrice)
	if !ok || price.IsNegative() {
		return model.HotelRecord{}, errs.Validation("hotel %d: invalid min_total_price %s", *h.HotelID, string(h.MinTotalPrice))
	}

	currency := fallbackCurrency
	if h.CurrencyCode != nil && strings.TrimSpace(*h.CurrencyCode) != "" {
		currency = strings.ToUpper(strings.TrimSpace(*h.CurrencyCode))
	}

	record := model.HotelRecord{
		ID:                *h.HotelID,
		Name:              strings.TrimSpace(*h.HotelName),
		City:              deref(h.City),
		CountryCode:       strings.ToUpper(deref(h.CountryCode)),
		Coordinates:       coords,
		Price:             model.Money{Amount: price.Round(2), Currency: currency},
		ReviewScore:       parseReviewScore(h.ReviewScore),
		ReviewScoreWord:   nonEmpty(h.ReviewScoreWord),
		ReviewCount:       h.ReviewNr,
		FreeCancellation:  parseBool(h.IsFreeCancellable),
		Badges:            make([]model.Badge, 0, len(h.Badges)),
		PriceBreakdown:    mapBreakdown(h.CompositePriceBreakdown),
		AccommodationType: h.AccommodationType,
		Timezone:          nonEmpty(h.Timezone),
		PhotoURL:          deref(h.MainPhotoURL),
		BookingURL:        deref(h.URL),
	}
	for _, b := range h.Badges {
		record.Badges = append(record.Badges, model.Badge{ID: b.ID, Text: b.Text, Variant: b.BadgeVariant})
	}

	return record, nil
}

// mapBreakdown converts composite_price_breakdown; anything malformed becomes nil
func mapBreakdown(raw json.RawMessage) *model.PriceBreakdown {
	if isNull(raw) {
		return nil
	}
	var b model.UpstreamPriceBreakdown
	if err := json.Unmarshal(raw, &b); err != nil {
		return nil
	}

	out := &model.PriceBreakdown{
		Gross:         mapAmount(b.GrossAmount),
		Net:           mapAmount(b.NetAmount),
		Excluded:      mapAmount(b.ExcludedAmount),
		AllInclusive:  mapAmount(b.AllInclusiveAmount),
		Discounted:    mapAmount(b.DiscountedAmount),
		Strikethrough: mapAmount(b.StrikethroughAmount),
	}
	for _, item := range b.Items {
		out.Items = append(out.Items, model.PriceItem{
			Name:    item.Name,
			Kind:    item.Kind,
			Details: item.Details,
			Amount:  mapAmount(item.ItemAmount),
		})
	}
	return out
}

func mapAmount(a *model.UpstreamAmount) *model.Money {
	if a == nil {
		return nil
	}
	v, ok := parseDecimal(a.Value)
	if !ok {
		return nil
	}
	return &model.Money{Amount: v.Round(2), Currency: strings.ToUpper(a.Currency)}
}

// parseDecimal accepts a JSON number or a numeric string
func parseDecimal(raw json.RawMessage) (decimal.Decimal, bool) {
	if isNull(raw) {
		return decimal.Decimal{}, false
	}
	s := string(bytes.TrimSpace(raw))
	if strings.HasPrefix(s, `"`) {
		if err := json.Unmarshal(raw, &s); err != nil {
			return decimal.Decimal{}, false
		}
		s = strings.TrimSpace(s)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

// parseReviewScore returns nil for absent, non-numeric or out-of-range scores
func parseReviewScore(raw json.RawMessage) *float64 {
	d, ok := parseDecimal(raw)
	if !ok {
		return nil
	}
	score, _ := d.Round(1).Float64()
	if score < 0 || score > 10 {
		return nil
	}
	return &score
}

// parseBool accepts true/false and 0/1
func parseBool(raw json.RawMessage) bool {
	switch strings.Trim(string(bytes.TrimSpace(raw)), `"`) {
	case "true", "1":
		return true
	default:
		return false
	}
}

func isNull(raw json.RawMessage) bool {
	s := bytes.TrimSpace(raw)
	return len(s) == 0 || bytes.Equal(s, []byte("null"))
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

func nonEmpty(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
