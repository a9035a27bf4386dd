package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/srgjo27/movie_cashier/internal/adapter/export"
	"github.com/srgjo27/movie_cashier/internal/core/domain"
	"github.com/srgjo27/movie_cashier/internal/core/ports"
	"github.com/srgjo27/movie_cashier/internal/core/services"
	"github.com/srgjo27/movie_cashier/internal/platform/logger"
)

const DefaultConfirmTimeout = 30 * time.Second

type bookingOutcome int

const (
	outcomeConfirmed bookingOutcome = iota
	outcomeDeclined
	outcomeTimedOut
)

type Options struct {
	ConfirmTimeout time.Duration
	Exporters      []ports.BillExporter
	Sender         ports.BillSender
}

type SessionResult struct {
	Bill     domain.SessionBill
	TimedOut bool
}

// CashierHandler drives one interactive booking session on a terminal.
type CashierHandler struct {
	svc       *services.ReservationService
	input     ports.LineReader
	confirmer *services.ConfirmationController
	out       io.Writer
	opts      Options
}

func NewCashierHandler(svc *services.ReservationService, input ports.LineReader, out io.Writer, opts Options) *CashierHandler {
	if opts.ConfirmTimeout <= 0 {
		opts.ConfirmTimeout = DefaultConfirmTimeout
	}

	return &CashierHandler{
		svc:       svc,
		input:     input,
		confirmer: services.NewConfirmationController(input),
		out:       out,
		opts:      opts,
	}
}

// Run loops over bookings until the cashier exits, input ends or a
// confirmation times out. The returned error is only set for failures the
// session cannot recover from.
func (h *CashierHandler) Run(ctx context.Context) (*SessionResult, error) {
	ledger := services.NewLedger()
	log := logger.WithSessionID(ledger.SessionID().String())
	log.Info("Cashier session started")

	for {
		outcome, err := h.book(ctx, ledger, log)
		if errors.Is(err, io.EOF) {
			log.Info("Input closed, ending session")
			return h.finish(ctx, ledger, "", false, log), nil
		}
		if err != nil {
			h.releasePending(ctx, log)
			return nil, err
		}

		if outcome == outcomeTimedOut {
			fmt.Fprintln(h.out, "Session timed out! Exiting the system.")
			return h.finish(ctx, ledger, "", true, log), nil
		}

		again, err := h.prompt(ctx, "Do you want another booking? (yes/no): ")
		if errors.Is(err, io.EOF) {
			return h.finish(ctx, ledger, "", false, log), nil
		}
		if err != nil {
			return nil, err
		}
		if services.ParseAnswer(again) == services.ConfirmYes {
			continue
		}

		email, err := h.prompt(ctx, "Enter your email to receive the bill: ")
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}

		return h.finish(ctx, ledger, strings.TrimSpace(email), false, log), nil
	}
}

func (h *CashierHandler) book(ctx context.Context, ledger *services.Ledger, log *slog.Logger) (bookingOutcome, error) {
restart:
	for {
		code, err := h.prompt(ctx, "Enter Movie Code: ")
		if err != nil {
			return 0, err
		}
		code = strings.TrimSpace(code)

		dates, err := h.svc.ListAvailableDates(code)
		if err != nil {
			fmt.Fprintln(h.out, "Invalid movie code! Please try again.")
			continue
		}

		var date string
		for {
			fmt.Fprintln(h.out, "Available Dates: "+strings.Join(dates, ", "))
			if date, err = h.prompt(ctx, "Enter Date (YYYY-MM-DD): "); err != nil {
				return 0, err
			}
			date = strings.TrimSpace(date)
			if slices.Contains(dates, date) {
				break
			}
			fmt.Fprintln(h.out, "Invalid date! Please choose from the available dates.")
		}

		var showtime domain.Showtime
		for {
			line, err := h.prompt(ctx, "Enter Showtime (Morning/Afternoon/Evening): ")
			if err != nil {
				return 0, err
			}
			if showtime, err = domain.ParseShowtime(line); err == nil {
				break
			}
			fmt.Fprintln(h.out, "Invalid showtime! Please enter Morning, Afternoon, or Evening.")
		}

		available := h.svc.SeatsAvailable(code, date, showtime)
		if available <= 0 {
			fmt.Fprintln(h.out, "No seats available for this showtime. Please choose another.")
			continue
		}

		for {
			line, err := h.prompt(ctx, fmt.Sprintf("Enter Number of Tickets (Available: %d): ", available))
			if err != nil {
				return 0, err
			}

			quantity, convErr := strconv.Atoi(strings.TrimSpace(line))
			if convErr != nil {
				fmt.Fprintf(h.out, "Invalid number of tickets! Available: %d\n", available)
				continue
			}

			hold, err := h.svc.Reserve(ctx, domain.BookingRequest{
				MovieCode: code,
				Date:      date,
				Showtime:  string(showtime),
				Quantity:  quantity,
			})
			switch {
			case err == nil:
				return h.resolve(ctx, ledger, hold, log)
			case errors.Is(err, domain.ErrOverbooking) && quantity > available:
				fmt.Fprintln(h.out, "Not enough seats available.")
			case errors.Is(err, domain.ErrOverbooking):
				fmt.Fprintf(h.out, "Invalid number of tickets! Available: %d\n", available)
			case errors.Is(err, domain.ErrCatalogWrite):
				fmt.Fprintf(h.out, "ERROR: seat counts could not be saved, booking aborted (%v)\n", err)
				continue restart
			case domain.IsUserInput(err):
				fmt.Fprintln(h.out, err)
				continue restart
			default:
				return 0, err
			}
		}
	}
}

func (h *CashierHandler) resolve(ctx context.Context, ledger *services.Ledger, hold *domain.ReservationHold, log *slog.Logger) (bookingOutcome, error) {
	fmt.Fprint(h.out, "Confirm Booking? (yes/no): ")

	answer, err := h.confirmer.Await(ctx, h.opts.ConfirmTimeout)
	if err != nil {
		return 0, err
	}

	switch answer {
	case services.ConfirmYes:
		entry, err := h.svc.Confirm(ctx, hold)
		if err != nil {
			return 0, err
		}
		ledger.Append(entry)
		fmt.Fprintln(h.out, "Booked: "+export.FormatEntry(entry))
		return outcomeConfirmed, nil

	case services.ConfirmTimedOut:
		fmt.Fprintln(h.out)
		log.Warn("Confirmation timed out", "hold_id", hold.ID, "timeout", h.opts.ConfirmTimeout)
		if err := h.reportRelease(h.svc.Expire(ctx, hold)); err != nil {
			return 0, err
		}
		return outcomeTimedOut, nil

	default:
		if err := h.reportRelease(h.svc.Release(ctx, hold)); err != nil {
			return 0, err
		}
		fmt.Fprintln(h.out, "Booking cancelled, seats released.")
		return outcomeDeclined, nil
	}
}

// reportRelease surfaces a failed rewrite after a release and passes through
// anything that is not a catalog write failure.
func (h *CashierHandler) reportRelease(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrCatalogWrite) {
		fmt.Fprintf(h.out, "WARNING: seats were released but the catalog could not be saved (%v)\n", err)
		return nil
	}
	return err
}

func (h *CashierHandler) releasePending(ctx context.Context, log *slog.Logger) {
	hold := h.svc.Pending()
	if hold == nil {
		return
	}

	if err := h.svc.Release(context.WithoutCancel(ctx), hold); err != nil {
		log.Error("Failed to release pending hold", "hold_id", hold.ID, "error", err)
	}
}

func (h *CashierHandler) finish(ctx context.Context, ledger *services.Ledger, recipient string, timedOut bool, log *slog.Logger) *SessionResult {
	h.releasePending(ctx, log)

	bill := ledger.Finalize(recipient)
	ctx = context.WithoutCancel(ctx)

	if !timedOut || ledger.Len() > 0 {
		fmt.Fprint(h.out, "\nFinal Bill:")
		export.WriteStatement(h.out, bill)

		for _, exp := range h.opts.Exporters {
			if err := exp.Export(ctx, bill); err != nil {
				log.Error("Failed to export bill", "error", err)
				fmt.Fprintln(h.out, "Error saving final bill.")
			}
		}
	}

	if recipient != "" && h.opts.Sender != nil {
		fmt.Fprintf(h.out, "Sending bill to %s...\n", recipient)
		if err := h.opts.Sender.SendBill(ctx, recipient, bill); err != nil {
			log.Error("Failed to send bill", "to", recipient, "error", err)
			fmt.Fprintf(h.out, "Could not send bill to %s.\n", recipient)
		} else {
			fmt.Fprintf(h.out, "Bill sent successfully to %s\n", recipient)
		}
	}

	fmt.Fprintln(h.out, "Exiting system. Goodbye!")
	log.Info("Cashier session ended", "entries", ledger.Len(), "total", bill.Total, "timed_out", timedOut)

	return &SessionResult{Bill: bill, TimedOut: timedOut}
}

func (h *CashierHandler) prompt(ctx context.Context, msg string) (string, error) {
	fmt.Fprint(h.out, msg)
	return h.input.ReadLine(ctx)
}
