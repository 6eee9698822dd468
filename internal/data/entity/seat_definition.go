package entity

import "github.com/google/uuid"

// SeatDefinition is a static layout entry in a seat map. Immutable once
// trips reference it, except for the active flag.
type SeatDefinition struct {
	Base
	SeatMapID  uuid.UUID `db:"seat_map_id"`
	Code       string    `db:"code"` // A1, A2, B1, etc. unique per seat map
	SeatRow    string    `db:"seat_row"`
	SeatColumn int       `db:"seat_column"`
	BasePrice  float64   `db:"base_price"`
	IsActive   bool      `db:"is_active"`
}
