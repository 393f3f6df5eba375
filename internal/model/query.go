package model

// SearchRequest is the inbound search operation. Either Location or both
// Latitude and Longitude must be given; coordinates win when both are present.
type SearchRequest struct {
	Location      string   `json:"location" form:"location"`
	Latitude      *float64 `json:"latitude,omitempty" form:"latitude"`
	Longitude     *float64 `json:"longitude,omitempty" form:"longitude"`
	ArrivalDate   string   `json:"arrival_date" form:"arrival_date" binding:"required"`
	DepartureDate string   `json:"departure_date" form:"departure_date" binding:"required"`
	Adults        int      `json:"adults" form:"adults"`
	Rooms         int      `json:"room_qty" form:"room_qty"`
	ChildrenAge   string   `json:"children_age,omitempty" form:"children_age"`
	MaxDistanceKm float64  `json:"max_distance_km,omitempty" form:"max_distance_km"`
	CurrencyCode  string   `json:"currency_code,omitempty" form:"currency_code"`
}

// SearchResponse is the ranked result of a search
type SearchResponse struct {
	SearchID      string              `json:"search_id"`
	Location      string              `json:"location,omitempty"`
	Center        Coordinates         `json:"center"`
	MaxDistanceKm float64             `json:"max_distance_km"`
	Count         int                 `json:"count"`
	Outcome       string              `json:"outcome"`
	Hotels        []RankedHotelRecord `json:"hotels"`
	Took          int64               `json:"took_ms"`
}
