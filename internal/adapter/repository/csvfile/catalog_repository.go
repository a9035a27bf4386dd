package csvfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/srgjo27/movie_cashier/internal/core/domain"
)

const (
	colCode = iota
	colName
	colDate
	colShowtime
	colAux
	colSeats
	colPrice
	columnCount
)

var defaultHeader = []string{"MovieCode", "MovieName", "Date", "Showtime", "Reserved", "AvailableSeats", "Price"}

type CatalogRepository struct {
	path string
}

func NewCatalogRepository(path string) *CatalogRepository {
	return &CatalogRepository{path: path}
}

func (r *CatalogRepository) Load(ctx context.Context) (*domain.Catalog, error) {
	file, err := os.Open(r.path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogRead, err)
	}
	defer file.Close()

	catalog, err := parse(ctx, file)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrCatalogRead, r.path, err)
	}

	return catalog, nil
}

func parse(ctx context.Context, src io.Reader) (*domain.Catalog, error) {
	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("missing header row")
		}
		return nil, err
	}

	catalog := domain.NewCatalog(header)

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		if isBlank(record) {
			continue
		}
		line, _ := reader.FieldPos(0)

		showing, err := parseRow(record)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		if err := catalog.Add(showing); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
	}

	return catalog, nil
}

func parseRow(record []string) (*domain.Showing, error) {
	if len(record) < columnCount {
		return nil, fmt.Errorf("expected %d fields, got %d", columnCount, len(record))
	}

	for i := range record {
		record[i] = strings.TrimSpace(record[i])
	}

	if record[colCode] == "" {
		return nil, errors.New("empty movie code")
	}

	showtime, err := domain.ParseShowtime(record[colShowtime])
	if err != nil {
		return nil, err
	}

	seats, err := strconv.Atoi(record[colSeats])
	if err != nil || seats < 0 {
		return nil, fmt.Errorf("invalid seat count %q", record[colSeats])
	}

	price, err := strconv.ParseFloat(record[colPrice], 64)
	if err != nil || price < 0 {
		return nil, fmt.Errorf("invalid price %q", record[colPrice])
	}

	return &domain.Showing{
		Key: domain.ShowingKey{
			MovieCode: record[colCode],
			Date:      record[colDate],
			Showtime:  showtime,
		},
		MovieName: record[colName],
		Aux:       record[colAux],
		Capacity:  seats,
		Available: seats,
		Price:     price,
		PriceText: record[colPrice],
	}, nil
}

// Persist rewrites the whole table into a temp file next to the catalog and
// renames it into place, so readers never observe a truncated table.
func (r *CatalogRepository) Persist(ctx context.Context, catalog *domain.Catalog) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrCatalogWrite, err)
	}

	dir, base := filepath.Split(r.path)
	if dir == "" {
		dir = "."
	}

	tmp, err := os.CreateTemp(dir, "."+base+".*.tmp")
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrCatalogWrite, err)
	}
	tmpName := tmp.Name()

	mode := os.FileMode(0o644)
	if info, err := os.Stat(r.path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := tmp.Chmod(mode); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", domain.ErrCatalogWrite, err)
	}

	if err := write(tmp, catalog); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", domain.ErrCatalogWrite, err)
	}

	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", domain.ErrCatalogWrite, err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", domain.ErrCatalogWrite, err)
	}

	if err := os.Rename(tmpName, r.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %v", domain.ErrCatalogWrite, err)
	}

	return nil
}

func write(w io.Writer, catalog *domain.Catalog) error {
	writer := csv.NewWriter(w)

	header := catalog.Header
	if len(header) == 0 {
		header = defaultHeader
	}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, s := range catalog.Rows {
		record := []string{
			s.Key.MovieCode,
			s.MovieName,
			s.Key.Date,
			string(s.Key.Showtime),
			s.Aux,
			strconv.Itoa(s.Available),
			priceText(s),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// priceText keeps the cell as it was read so a rewrite only touches seats.
func priceText(s *domain.Showing) string {
	if s.PriceText != "" {
		return s.PriceText
	}
	return strconv.FormatFloat(s.Price, 'f', -1, 64)
}

func isBlank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
