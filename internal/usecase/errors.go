package usecase

import (
	"fmt"
	"strings"
)

// SeatConflictError reports exactly which seats could not be claimed,
// whether already leased by another token or already booked. Clients
// use the list to highlight seats to re-pick.
type SeatConflictError struct {
	Seats []string
}

func (e *SeatConflictError) Error() string {
	return fmt.Sprintf("seats not available: %s", strings.Join(e.Seats, ", "))
}

// SeatUnauthorizedError reports seats a token tried to act on without
// owning their leases.
type SeatUnauthorizedError struct {
	Seats []string
}

func (e *SeatUnauthorizedError) Error() string {
	return fmt.Sprintf("token does not own seats: %s", strings.Join(e.Seats, ", "))
}
