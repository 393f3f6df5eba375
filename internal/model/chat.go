package model

import "time"

// ChatRequest is one user utterance for a conversation
type ChatRequest struct {
	SessionID string `json:"session_id" binding:"required"`
	Message   string `json:"message" binding:"required"`
}

// ChatResponse is the assistant reply for a turn
type ChatResponse struct {
	SessionID string `json:"session_id"`
	Reply     string `json:"reply"`
	Ready     bool   `json:"ready_for_search"`
}

// SessionResponse describes a conversation session
type SessionResponse struct {
	SessionID   string      `json:"session_id"`
	Preferences interface{} `json:"preferences"`
	Ready       bool        `json:"ready_for_search"`
	Missing     []string    `json:"missing,omitempty"`
}

// BookingConfirmation is the mock confirmation returned by the book tool
type BookingConfirmation struct {
	Reference   string    `json:"reference"`
	HotelID     int64     `json:"hotel_id"`
	HotelName   string    `json:"hotel_name"`
	Address     string    `json:"address"`
	Price       Money     `json:"price"`
	CheckIn     string    `json:"check_in"`
	CheckOut    string    `json:"check_out"`
	Adults      int       `json:"adults"`
	Rooms       int       `json:"rooms"`
	RoomTypes   []string  `json:"room_types"`
	ConfirmedAt time.Time `json:"confirmed_at"`
}
