package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/srgjo27/movie_cashier/internal/core/domain"
	"github.com/srgjo27/movie_cashier/internal/core/ports"
	"github.com/srgjo27/movie_cashier/internal/platform/logger"
	"github.com/srgjo27/movie_cashier/internal/platform/metrics"
)

type ReservationService struct {
	mu      sync.Mutex
	store   ports.CatalogStore
	mirror  ports.AvailabilityMirror
	metrics *metrics.Metrics
	catalog *domain.Catalog
	pending *domain.ReservationHold
	now     func() time.Time
}

type Option func(*ReservationService)

func WithMirror(mirror ports.AvailabilityMirror) Option {
	return func(s *ReservationService) { s.mirror = mirror }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *ReservationService) { s.metrics = m }
}

func NewReservationService(store ports.CatalogStore, opts ...Option) *ReservationService {
	s := &ReservationService{
		store: store,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Load replaces the in-memory catalog. It refuses while a hold is pending,
// since that hold's decrement is already on disk.
func (s *ReservationService) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending != nil {
		return fmt.Errorf("%w: hold %s", domain.ErrHoldPending, s.pending.ID)
	}

	catalog, err := s.store.Load(ctx)
	if err != nil {
		return err
	}
	s.catalog = catalog

	logger.WithFields("movies", len(catalog.Movies), "showings", len(catalog.Rows)).Info("Catalog loaded")

	return nil
}

func (s *ReservationService) ListAvailableDates(movieCode string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	movie, err := s.movie(movieCode)
	if err != nil {
		return nil, err
	}

	return movie.Dates(), nil
}

func (s *ReservationService) SeatsAvailable(movieCode, date string, showtime domain.Showtime) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	showing := s.showing(movieCode, date, showtime)
	if showing == nil || showing.Available < 0 {
		return 0
	}

	return showing.Available
}

func (s *ReservationService) Pending() *domain.ReservationHold {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.pending
}

// Reserve validates the request and decrements the showing's seats. The new
// count is persisted before the hold is handed out.
func (s *ReservationService) Reserve(ctx context.Context, req domain.BookingRequest) (*domain.ReservationHold, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending != nil {
		return nil, fmt.Errorf("%w: hold %s", domain.ErrHoldPending, s.pending.ID)
	}

	showing, err := s.validate(req)
	if err != nil {
		s.metrics.ReserveOutcome(outcomeLabel(err))
		return nil, err
	}

	preHold := showing.Available
	showing.Available = preHold - req.Quantity

	if err := s.persist(ctx, showing); err != nil {
		showing.Available = preHold
		s.metrics.ReserveOutcome("persist_failed")
		return nil, err
	}

	hold := &domain.ReservationHold{
		ID:           uuid.New(),
		Key:          showing.Key,
		MovieName:    showing.MovieName,
		UnitPrice:    showing.Price,
		Quantity:     req.Quantity,
		PreHoldSeats: preHold,
		State:        domain.HoldPending,
		CreatedAt:    s.now(),
	}
	s.pending = hold
	s.metrics.ReserveOutcome("ok")

	logger.WithFields(
		"hold_id", hold.ID,
		"showing", hold.Key.String(),
		"quantity", hold.Quantity,
		"available", showing.Available,
	).Info("Seats held")

	return hold, nil
}

func (s *ReservationService) Confirm(ctx context.Context, hold *domain.ReservationHold) (domain.LedgerEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkOutstanding(hold); err != nil {
		return domain.LedgerEntry{}, err
	}

	hold.State = domain.HoldConfirmed
	s.pending = nil

	entry := domain.LedgerEntry{
		HoldID:    hold.ID,
		MovieName: hold.MovieName,
		Date:      hold.Key.Date,
		Showtime:  hold.Key.Showtime,
		Quantity:  hold.Quantity,
		UnitPrice: hold.UnitPrice,
		LineTotal: hold.LineTotal(),
	}
	s.metrics.HoldConfirmed(entry.Quantity, entry.LineTotal)

	logger.WithFields("hold_id", hold.ID, "line_total", entry.LineTotal).Info("Hold confirmed")

	return entry, nil
}

// Release gives the held seats back. The hold is released in memory even when
// the rewrite fails; the write error is still returned.
func (s *ReservationService) Release(ctx context.Context, hold *domain.ReservationHold) error {
	return s.release(ctx, hold, "released")
}

// Expire is Release for a hold whose confirmation window elapsed.
func (s *ReservationService) Expire(ctx context.Context, hold *domain.ReservationHold) error {
	return s.release(ctx, hold, "timed_out")
}

func (s *ReservationService) release(ctx context.Context, hold *domain.ReservationHold, resolution string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkOutstanding(hold); err != nil {
		return err
	}

	hold.State = domain.HoldReleased
	s.pending = nil

	showing := s.showing(hold.Key.MovieCode, hold.Key.Date, hold.Key.Showtime)
	if showing == nil {
		return fmt.Errorf("%w: showing %s vanished from catalog", domain.ErrHoldNotPending, hold.Key)
	}

	restored := showing.Available + hold.Quantity
	if restored > showing.Capacity {
		restored = showing.Capacity
	}
	showing.Available = restored
	s.metrics.HoldReleased(resolution)

	logger.WithFields(
		"hold_id", hold.ID,
		"showing", hold.Key.String(),
		"resolution", resolution,
		"available", showing.Available,
	).Info("Hold released")

	return s.persist(ctx, showing)
}

func (s *ReservationService) validate(req domain.BookingRequest) (*domain.Showing, error) {
	movie, err := s.movie(req.MovieCode)
	if err != nil {
		return nil, err
	}

	if !movie.HasDate(req.Date) {
		return nil, fmt.Errorf("%w: %q is not a date of %s", domain.ErrInvalidDate, req.Date, movie.Code)
	}

	showtime, err := domain.ParseShowtime(req.Showtime)
	if err != nil {
		return nil, err
	}

	if req.Quantity < 1 {
		return nil, fmt.Errorf("%w: at least one ticket is required", domain.ErrOverbooking)
	}

	showing := movie.Showing(req.Date, showtime)
	if showing == nil || !showing.CanHold(req.Quantity) {
		available := 0
		if showing != nil {
			available = showing.Available
		}
		return nil, fmt.Errorf("%w: requested %d, available %d", domain.ErrOverbooking, req.Quantity, available)
	}

	return showing, nil
}

func (s *ReservationService) checkOutstanding(hold *domain.ReservationHold) error {
	if hold == nil || !hold.IsPending() || s.pending != hold {
		id := "<nil>"
		if hold != nil {
			id = hold.ID.String()
		}
		return fmt.Errorf("%w: %s", domain.ErrHoldNotPending, id)
	}

	return nil
}

func (s *ReservationService) persist(ctx context.Context, showing *domain.Showing) error {
	if err := s.store.Persist(ctx, s.catalog); err != nil {
		s.metrics.PersistFailed()
		logger.WithFields("showing", showing.Key.String(), "error", err).Error("Catalog rewrite failed, seat counts may diverge from disk")
		if !errors.Is(err, domain.ErrCatalogWrite) {
			err = fmt.Errorf("%w: %v", domain.ErrCatalogWrite, err)
		}
		return err
	}

	if s.mirror != nil {
		if err := s.mirror.Publish(ctx, *showing); err != nil {
			logger.WithFields("showing", showing.Key.String(), "error", err).Warn("Failed to mirror availability")
		}
	}

	return nil
}

func (s *ReservationService) movie(code string) (*domain.Movie, error) {
	if s.catalog == nil {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownMovie, code)
	}

	movie, ok := s.catalog.Movies[code]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownMovie, code)
	}

	return movie, nil
}

func (s *ReservationService) showing(code, date string, showtime domain.Showtime) *domain.Showing {
	movie, err := s.movie(code)
	if err != nil {
		return nil
	}

	return movie.Showing(date, showtime)
}

func outcomeLabel(err error) string {
	switch {
	case errors.Is(err, domain.ErrUnknownMovie):
		return "unknown_movie"
	case errors.Is(err, domain.ErrInvalidDate):
		return "invalid_date"
	case errors.Is(err, domain.ErrInvalidShowtime):
		return "invalid_showtime"
	case errors.Is(err, domain.ErrOverbooking):
		return "overbooking"
	default:
		return "error"
	}
}
