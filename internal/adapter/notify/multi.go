package notify

import (
	"context"
	"errors"

	"github.com/srgjo27/movie_cashier/internal/core/domain"
	"github.com/srgjo27/movie_cashier/internal/core/ports"
)

// MultiSender tries every sender and joins their errors.
type MultiSender []ports.BillSender

func (m MultiSender) SendBill(ctx context.Context, recipient string, bill domain.SessionBill) error {
	var errs []error
	for _, s := range m {
		if err := s.SendBill(ctx, recipient, bill); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
