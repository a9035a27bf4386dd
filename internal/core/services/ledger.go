package services

import (
	"time"

	"github.com/google/uuid"
	"github.com/srgjo27/movie_cashier/internal/core/domain"
)

// Ledger collects the confirmed line items of one cashier session.
type Ledger struct {
	sessionID uuid.UUID
	entries   []domain.LedgerEntry
	total     float64
	now       func() time.Time
}

func NewLedger() *Ledger {
	return &Ledger{
		sessionID: uuid.New(),
		now:       time.Now,
	}
}

func (l *Ledger) SessionID() uuid.UUID {
	return l.sessionID
}

func (l *Ledger) Append(entry domain.LedgerEntry) {
	l.entries = append(l.entries, entry)
	l.total += entry.LineTotal
}

func (l *Ledger) Total() float64 {
	return l.total
}

func (l *Ledger) Len() int {
	return len(l.entries)
}

func (l *Ledger) Entries() []domain.LedgerEntry {
	out := make([]domain.LedgerEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

func (l *Ledger) Finalize(recipient string) domain.SessionBill {
	return domain.SessionBill{
		SessionID:   l.sessionID,
		Entries:     l.Entries(),
		Total:       l.total,
		Recipient:   recipient,
		FinalizedAt: l.now(),
	}
}
