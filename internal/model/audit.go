package model

import "time"

// SearchLog is one row of the search audit table
type SearchLog struct {
	ID             string    `db:"id"`
	Source         string    `db:"source"`
	Location       string    `db:"location"`
	Latitude       float64   `db:"latitude"`
	Longitude      float64   `db:"longitude"`
	ArrivalDate    string    `db:"arrival_date"`
	DepartureDate  string    `db:"departure_date"`
	Adults         int       `db:"adults"`
	Rooms          int       `db:"rooms"`
	Currency       string    `db:"currency"`
	MaxDistanceKm  float64   `db:"max_distance_km"`
	Outcome        string    `db:"outcome"`
	ResultCount    int       `db:"result_count"`
	HotelIDs       []int64   `db:"-"`
	ResponseTimeMs int       `db:"response_time_ms"`
	CreatedAt      time.Time `db:"created_at"`
}

// ConversationEntry is one message stored in conversation history
type ConversationEntry struct {
	SessionID string    `db:"session_id" json:"session_id"`
	Role      string    `db:"role" json:"role"`
	Content   string    `db:"content" json:"content"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
