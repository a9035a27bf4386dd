package export

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/srgjo27/movie_cashier/internal/core/domain"
)

// StatementWriter writes the final bill as plain text.
type StatementWriter struct {
	path string
}

func NewStatementWriter(path string) *StatementWriter {
	return &StatementWriter{path: path}
}

func (w *StatementWriter) Export(ctx context.Context, bill domain.SessionBill) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.WriteFile(w.path, []byte(FormatStatement(bill)), 0o644); err != nil {
		return fmt.Errorf("failed to save final bill: %w", err)
	}

	return nil
}

func FormatStatement(bill domain.SessionBill) string {
	var b strings.Builder
	WriteStatement(&b, bill)
	return b.String()
}

func WriteStatement(w io.Writer, bill domain.SessionBill) {
	fmt.Fprint(w, "\n--- Final Bill ---\n")
	for _, e := range bill.Entries {
		fmt.Fprintln(w, FormatEntry(e))
	}
	fmt.Fprintf(w, "Total Bill: $%.2f\n", bill.Total)
	fmt.Fprintf(w, "Email: %s\n", bill.Recipient)
	fmt.Fprint(w, "----------------------\n")
}

func FormatEntry(e domain.LedgerEntry) string {
	return fmt.Sprintf("Movie: %s | Date: %s | Showtime: %s | Tickets: %d | Price: $%.2f",
		e.MovieName, e.Date, e.Showtime, e.Quantity, e.LineTotal)
}
