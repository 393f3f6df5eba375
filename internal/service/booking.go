package service

import (
	"fmt"
	"strings"
	"time"

	"hotelsearch/internal/model"
	"hotelsearch/internal/utils"
)

// BookingRoomTypes is the room selection attached to every mock booking
var BookingRoomTypes = []string{"Standard"}

// findHotel returns the first result whose name matches the user's wording
func findHotel(results []model.RankedHotelRecord, name string) (model.RankedHotelRecord, bool) {
	for _, r := range results {
		if strings.EqualFold(strings.TrimSpace(r.Name), strings.TrimSpace(name)) {
			return r, true
		}
	}
	for _, r := range results {
		if utils.FuzzyMatchName(name, r.Name) {
			return r, true
		}
	}
	return model.RankedHotelRecord{}, false
}

// newBookingConfirmation builds a confirmation for hotel; no booking is persisted
func newBookingConfirmation(hotel model.RankedHotelRecord, prefs *PreferenceState, now time.Time) model.BookingConfirmation {
	c := model.BookingConfirmation{
		Reference:   "BOK" + now.Format("20060102150405"),
		HotelID:     hotel.ID,
		HotelName:   hotel.Name,
		Address:     formatAddress(hotel.HotelRecord),
		Price:       hotel.Price,
		RoomTypes:   BookingRoomTypes,
		ConfirmedAt: now,
	}
	if prefs.CheckIn != nil {
		c.CheckIn = prefs.CheckIn.Format(model.DateLayout)
	}
	if prefs.CheckOut != nil {
		c.CheckOut = prefs.CheckOut.Format(model.DateLayout)
	}
	if prefs.Adults != nil {
		c.Adults = *prefs.Adults
	}
	if prefs.Rooms != nil {
		c.Rooms = *prefs.Rooms
	}
	return c
}

func formatAddress(h model.HotelRecord) string {
	parts := make([]string, 0, 2)
	if h.City != "" {
		parts = append(parts, h.City)
	}
	if h.CountryCode != "" {
		parts = append(parts, h.CountryCode)
	}
	return strings.Join(parts, ", ")
}

func formatBooking(c model.BookingConfirmation) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Booking confirmed for %s.\n", c.HotelName)
	if c.Address != "" {
		fmt.Fprintf(&b, "Address: %s\n", c.Address)
	}
	fmt.Fprintf(&b, "Price: %s\n", c.Price)
	fmt.Fprintf(&b, "Dates: %s to %s\n", c.CheckIn, c.CheckOut)
	fmt.Fprintf(&b, "Guests: %d adults, %d rooms (%s)\n", c.Adults, c.Rooms, strings.Join(c.RoomTypes, ", "))
	fmt.Fprintf(&b, "Reference: %s", c.Reference)
	return b.String()
}
