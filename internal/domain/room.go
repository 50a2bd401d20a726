package domain

import "errors"

// DateLayout is the calendar-date format used for every record date.
const DateLayout = "2006-01-02"

var ErrNotFound = errors.New("room not found")

// BookingRecord is one day's availability and price entry for a room.
type BookingRecord struct {
	Date     string  `json:"date"`
	IsBooked bool    `json:"is_booked"`
	Rate     float64 `json:"rate"`
}

// Dataset is the complete generated collection written to db.json.
type Dataset struct {
	Rooms map[string][]BookingRecord `json:"rooms"`
}
