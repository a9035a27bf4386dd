package ports

import (
	"context"

	"github.com/srgjo27/movie_cashier/internal/core/domain"
)

type CatalogStore interface {
	Load(ctx context.Context) (*domain.Catalog, error)
	Persist(ctx context.Context, catalog *domain.Catalog) error
}

type AvailabilityMirror interface {
	Publish(ctx context.Context, showing domain.Showing) error
}

type LineReader interface {
	ReadLine(ctx context.Context) (string, error)
}

type BillExporter interface {
	Export(ctx context.Context, bill domain.SessionBill) error
}

type BillSender interface {
	SendBill(ctx context.Context, recipient string, bill domain.SessionBill) error
}
