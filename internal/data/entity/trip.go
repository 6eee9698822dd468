package entity

import (
	"time"

	"github.com/google/uuid"
)

type Trip struct {
	Base
	BusID       uuid.UUID `db:"bus_id"`
	Origin      string    `db:"origin"`
	Destination string    `db:"destination"`
	DepartureAt time.Time `db:"departure_at"`
}
