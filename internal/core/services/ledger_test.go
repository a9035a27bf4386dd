package services_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/srgjo27/movie_cashier/internal/core/domain"
	"github.com/srgjo27/movie_cashier/internal/core/services"
)

func TestLedger_FinalizeSnapshotsEntries(t *testing.T) {
	ledger := services.NewLedger()
	assert.NotEqual(t, uuid.Nil, ledger.SessionID())

	ledger.Append(domain.LedgerEntry{MovieName: "Inception", Quantity: 2, LineTotal: 20})
	ledger.Append(domain.LedgerEntry{MovieName: "Up", Quantity: 1, LineTotal: 7.5})

	bill := ledger.Finalize("guest@example.com")

	assert.Equal(t, ledger.SessionID(), bill.SessionID)
	assert.Equal(t, 27.5, bill.Total)
	assert.Equal(t, "guest@example.com", bill.Recipient)
	assert.Len(t, bill.Entries, 2)
	assert.False(t, bill.FinalizedAt.IsZero())

	bill.Entries[0].Quantity = 99
	assert.Equal(t, 2, ledger.Entries()[0].Quantity)
}

func TestLedger_SessionsAreIndependent(t *testing.T) {
	a, b := services.NewLedger(), services.NewLedger()
	a.Append(domain.LedgerEntry{LineTotal: 10})

	assert.Equal(t, 0.0, b.Total())
	assert.Equal(t, 0, b.Len())
	assert.NotEqual(t, a.SessionID(), b.SessionID())
}
