package handler_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/srgjo27/movie_cashier/internal/adapter/export"
	"github.com/srgjo27/movie_cashier/internal/adapter/handler"
	"github.com/srgjo27/movie_cashier/internal/adapter/repository/csvfile"
	"github.com/srgjo27/movie_cashier/internal/core/domain"
	"github.com/srgjo27/movie_cashier/internal/core/ports"
	"github.com/srgjo27/movie_cashier/internal/core/ports/mocks"
	"github.com/srgjo27/movie_cashier/internal/core/services"
)

// stall makes scriptedInput block until the read's deadline passes.
const stall = "\x00stall"

type scriptedInput struct {
	lines []string
	next  int
}

func (s *scriptedInput) ReadLine(ctx context.Context) (string, error) {
	if s.next >= len(s.lines) {
		return "", io.EOF
	}
	line := s.lines[s.next]
	s.next++

	if line == stall {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return line, nil
}

const table = `MovieCode,MovieName,Date,Showtime,Hall,AvailableSeats,Price
M1,Inception,2025-01-01,Morning,H1,5,10.0
M2,Up,2025-01-02,Evening,H2,10,7.5
M3,Heat,2025-01-03,Morning,H3,0,9.0
`

type fixture struct {
	path    string
	svc     *services.ReservationService
	out     *bytes.Buffer
	billTxt string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "movies.csv")
	require.NoError(t, os.WriteFile(path, []byte(table), 0o644))

	svc := services.NewReservationService(csvfile.NewCatalogRepository(path))
	require.NoError(t, svc.Load(context.Background()))

	return &fixture{path: path, svc: svc, out: &bytes.Buffer{}, billTxt: filepath.Join(dir, "bill.txt")}
}

func (f *fixture) run(t *testing.T, opts handler.Options, lines ...string) *handler.SessionResult {
	t.Helper()
	if opts.ConfirmTimeout == 0 {
		opts.ConfirmTimeout = time.Second
	}
	if opts.Exporters == nil {
		opts.Exporters = append(opts.Exporters, export.NewStatementWriter(f.billTxt))
	}

	h := handler.NewCashierHandler(f.svc, &scriptedInput{lines: lines}, f.out, opts)
	res, err := h.Run(context.Background())
	require.NoError(t, err)
	return res
}

func (f *fixture) seatsOnDisk(t *testing.T, code, date string, st domain.Showtime) int {
	t.Helper()
	catalog, err := csvfile.NewCatalogRepository(f.path).Load(context.Background())
	require.NoError(t, err)
	return catalog.Movies[code].Showing(date, st).Available
}

func TestRun_BookAndConfirm(t *testing.T) {
	f := newFixture(t)
	sender := mocks.NewBillSender(t)
	sender.On("SendBill", mock.Anything, "guest@example.com", mock.AnythingOfType("domain.SessionBill")).Return(nil)

	res := f.run(t, handler.Options{Sender: sender},
		"M1", "2025-01-01", "Morning", "2", "yes", "no", "guest@example.com")

	assert.False(t, res.TimedOut)
	assert.Equal(t, 20.0, res.Bill.Total)
	assert.Equal(t, "guest@example.com", res.Bill.Recipient)
	require.Len(t, res.Bill.Entries, 1)

	assert.Equal(t, 3, f.svc.SeatsAvailable("M1", "2025-01-01", domain.ShowtimeMorning))
	assert.Equal(t, 3, f.seatsOnDisk(t, "M1", "2025-01-01", domain.ShowtimeMorning))

	bill, err := os.ReadFile(f.billTxt)
	require.NoError(t, err)
	assert.Contains(t, string(bill), "Movie: Inception | Date: 2025-01-01 | Showtime: Morning | Tickets: 2 | Price: $20.00")
	assert.Contains(t, string(bill), "Total Bill: $20.00")
	assert.Contains(t, string(bill), "Email: guest@example.com")
	assert.Contains(t, f.out.String(), "Bill sent successfully to guest@example.com")
}

func TestRun_TimeoutReleasesHoldAndEndsSession(t *testing.T) {
	f := newFixture(t)

	res := f.run(t, handler.Options{ConfirmTimeout: 20 * time.Millisecond},
		"M2", "2025-01-02", "Evening", "3", stall, "never read")

	assert.True(t, res.TimedOut)
	assert.Empty(t, res.Bill.Entries)
	assert.Nil(t, f.svc.Pending())
	assert.Equal(t, 10, f.svc.SeatsAvailable("M2", "2025-01-02", domain.ShowtimeEvening))
	assert.Equal(t, 10, f.seatsOnDisk(t, "M2", "2025-01-02", domain.ShowtimeEvening))
	assert.Contains(t, f.out.String(), "Session timed out! Exiting the system.")
	assert.NotContains(t, f.out.String(), "Do you want another booking?")

	_, err := os.Stat(f.billTxt)
	assert.True(t, os.IsNotExist(err), "no bill for a session without bookings")
}

func TestRun_DeclineReleasesImmediately(t *testing.T) {
	f := newFixture(t)

	res := f.run(t, handler.Options{},
		"M1", "2025-01-01", "Morning", "4", "no", "yes",
		"M1", "2025-01-01", "Morning", "5", "yes", "no", "")

	require.Len(t, res.Bill.Entries, 1)
	assert.Equal(t, 5, res.Bill.Entries[0].Quantity)
	assert.Equal(t, 50.0, res.Bill.Total)
	assert.Equal(t, 0, f.seatsOnDisk(t, "M1", "2025-01-01", domain.ShowtimeMorning))
	assert.Contains(t, f.out.String(), "Booking cancelled, seats released.")
}

func TestRun_RepromptsOnInvalidInput(t *testing.T) {
	f := newFixture(t)

	f.run(t, handler.Options{},
		"XX",
		"M3", "2025-01-03", "Morning",
		"M1", "2024-12-31", "2025-01-01", "Midnight", "morning", "abc", "9", "0", "1", "yes", "no", "")

	out := f.out.String()
	assert.Contains(t, out, "Invalid movie code! Please try again.")
	assert.Contains(t, out, "No seats available for this showtime. Please choose another.")
	assert.Contains(t, out, "Invalid date! Please choose from the available dates.")
	assert.Contains(t, out, "Invalid showtime! Please enter Morning, Afternoon, or Evening.")
	assert.Contains(t, out, "Not enough seats available.")
	assert.Contains(t, out, "Invalid number of tickets! Available: 5")
	assert.Equal(t, 4, f.seatsOnDisk(t, "M1", "2025-01-01", domain.ShowtimeMorning))
}

func TestRun_LongInputLineIsReprompted(t *testing.T) {
	f := newFixture(t)
	h := handler.NewCashierHandler(f.svc,
		handler.NewConsole(strings.NewReader(strings.Repeat("M", 100*1024)+"\nM1\n2025-01-01\nMorning\n1\nyes\nno\n\n")),
		f.out, handler.Options{ConfirmTimeout: time.Second, Exporters: []ports.BillExporter{export.NewStatementWriter(f.billTxt)}})

	res, err := h.Run(context.Background())

	require.NoError(t, err)
	assert.Contains(t, f.out.String(), "Invalid movie code! Please try again.")
	assert.Equal(t, 10.0, res.Bill.Total)
	assert.Equal(t, 4, f.seatsOnDisk(t, "M1", "2025-01-01", domain.ShowtimeMorning))
}

func TestRun_EndOfInputReleasesPendingHold(t *testing.T) {
	f := newFixture(t)

	res := f.run(t, handler.Options{}, "M2", "2025-01-02", "Evening", "6")

	assert.False(t, res.TimedOut)
	assert.Nil(t, f.svc.Pending())
	assert.Equal(t, 10, f.seatsOnDisk(t, "M2", "2025-01-02", domain.ShowtimeEvening))
}

func TestRun_SenderFailureDoesNotAbortSession(t *testing.T) {
	f := newFixture(t)
	sender := mocks.NewBillSender(t)
	sender.On("SendBill", mock.Anything, "guest@example.com", mock.Anything).Return(errors.New("smtp down"))

	exporter := mocks.NewBillExporter(t)
	exporter.On("Export", mock.Anything, mock.Anything).Return(errors.New("disk full"))

	res := f.run(t, handler.Options{Sender: sender, Exporters: []ports.BillExporter{exporter}},
		"M1", "2025-01-01", "Morning", "1", "y", "no", "guest@example.com")

	assert.Equal(t, 10.0, res.Bill.Total)
	out := f.out.String()
	assert.Contains(t, out, "Error saving final bill.")
	assert.Contains(t, out, "Could not send bill to guest@example.com.")
	assert.True(t, strings.HasSuffix(out, "Exiting system. Goodbye!\n"))
}
