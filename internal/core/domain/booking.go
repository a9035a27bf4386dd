package domain

import (
	"time"

	"github.com/google/uuid"
)

type BookingRequest struct {
	MovieCode string
	Date      string
	Showtime  string
	Quantity  int
}

type HoldState string

const (
	HoldPending   HoldState = "PENDING"
	HoldConfirmed HoldState = "CONFIRMED"
	HoldReleased  HoldState = "RELEASED"
)

type ReservationHold struct {
	ID           uuid.UUID
	Key          ShowingKey
	MovieName    string
	UnitPrice    float64
	Quantity     int
	PreHoldSeats int
	State        HoldState
	CreatedAt    time.Time
}

func (h *ReservationHold) IsPending() bool {
	return h.State == HoldPending
}

func (h *ReservationHold) LineTotal() float64 {
	return float64(h.Quantity) * h.UnitPrice
}

type LedgerEntry struct {
	HoldID    uuid.UUID
	MovieName string
	Date      string
	Showtime  Showtime
	Quantity  int
	UnitPrice float64
	LineTotal float64
}

type SessionBill struct {
	SessionID   uuid.UUID
	Entries     []LedgerEntry
	Total       float64
	Recipient   string
	FinalizedAt time.Time
}
