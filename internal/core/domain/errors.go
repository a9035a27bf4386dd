package domain

import "errors"

var (
	ErrUnknownMovie    = errors.New("invalid movie code")
	ErrInvalidDate     = errors.New("invalid date")
	ErrInvalidShowtime = errors.New("invalid showtime")
	ErrOverbooking     = errors.New("not enough seats available")

	ErrCatalogRead  = errors.New("catalog read failed")
	ErrCatalogWrite = errors.New("catalog write failed")

	ErrHoldPending    = errors.New("another reservation hold is still pending")
	ErrHoldNotPending = errors.New("reservation hold is not pending")
)

// IsUserInput reports whether err is a recoverable input error the cashier
// can fix by answering the prompt again.
func IsUserInput(err error) bool {
	return errors.Is(err, ErrUnknownMovie) ||
		errors.Is(err, ErrInvalidDate) ||
		errors.Is(err, ErrInvalidShowtime) ||
		errors.Is(err, ErrOverbooking)
}
