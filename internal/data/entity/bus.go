package entity

import "github.com/google/uuid"

// Bus references its seat map; trips materialize trip seats from it.
// SeatMapID is nil for buses whose layout has not been configured yet;
// such buses cannot be assigned to trips.
type Bus struct {
	Base
	Name        string     `db:"name"`
	PlateNumber string     `db:"plate_number"`
	SeatMapID   *uuid.UUID `db:"seat_map_id"`
}
