package export

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/jung-kurt/gofpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/srgjo27/movie_cashier/internal/core/domain"
)

// RenderPDF lays the bill out on one A4 page with a QR code of the session id.
func RenderPDF(bill domain.SessionBill) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 12, "Final Bill", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, "Session: "+bill.SessionID.String(), "", 1, "L", false, 0, "")
	if !bill.FinalizedAt.IsZero() {
		pdf.CellFormat(0, 6, "Issued: "+bill.FinalizedAt.Format("2006-01-02 15:04"), "", 1, "L", false, 0, "")
	}
	if bill.Recipient != "" {
		pdf.CellFormat(0, 6, "Email: "+bill.Recipient, "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	widths := []float64{60, 30, 30, 25, 35}
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for i, h := range []string{"Movie", "Date", "Showtime", "Tickets", "Price"} {
		pdf.CellFormat(widths[i], 8, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, e := range bill.Entries {
		pdf.CellFormat(widths[0], 8, e.MovieName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 8, e.Date, "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[2], 8, string(e.Showtime), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[3], 8, fmt.Sprintf("%d", e.Quantity), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[4], 8, fmt.Sprintf("$%.2f", e.LineTotal), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(widths[0]+widths[1]+widths[2]+widths[3], 9, "Total", "1", 0, "R", false, 0, "")
	pdf.CellFormat(widths[4], 9, fmt.Sprintf("$%.2f", bill.Total), "1", 1, "R", false, 0, "")

	png, err := qrcode.Encode(bill.SessionID.String(), qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("failed to encode session qr code: %w", err)
	}

	opts := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
	pdf.RegisterImageOptionsReader("session-qr", opts, bytes.NewReader(png))
	pdf.ImageOptions("session-qr", 150, pdf.GetY()+10, 40, 40, false, opts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render bill pdf: %w", err)
	}

	return buf.Bytes(), nil
}

// PDFWriter stores the rendered bill at a fixed path.
type PDFWriter struct {
	path string
}

func NewPDFWriter(path string) *PDFWriter {
	return &PDFWriter{path: path}
}

func (w *PDFWriter) Export(ctx context.Context, bill domain.SessionBill) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := RenderPDF(bill)
	if err != nil {
		return err
	}

	if err := os.WriteFile(w.path, body, 0o644); err != nil {
		return fmt.Errorf("failed to save bill pdf: %w", err)
	}

	return nil
}
