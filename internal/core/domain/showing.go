package domain

import (
	"fmt"
	"strings"
)

type Showtime string

const (
	ShowtimeMorning   Showtime = "Morning"
	ShowtimeAfternoon Showtime = "Afternoon"
	ShowtimeEvening   Showtime = "Evening"
)

var Showtimes = []Showtime{ShowtimeMorning, ShowtimeAfternoon, ShowtimeEvening}

// ParseShowtime matches case-insensitively and returns the canonical value.
func ParseShowtime(s string) (Showtime, error) {
	s = strings.TrimSpace(s)
	for _, st := range Showtimes {
		if strings.EqualFold(s, string(st)) {
			return st, nil
		}
	}

	return "", fmt.Errorf("%w: %q", ErrInvalidShowtime, s)
}

type ShowingKey struct {
	MovieCode string
	Date      string
	Showtime  Showtime
}

func (k ShowingKey) String() string {
	return fmt.Sprintf("%s/%s/%s", k.MovieCode, k.Date, k.Showtime)
}

type Showing struct {
	Key       ShowingKey
	MovieName string
	Aux       string
	Capacity  int
	Available int
	Price     float64
	PriceText string
}

func (s *Showing) CanHold(quantity int) bool {
	return quantity >= 1 && quantity <= s.Available
}

type Movie struct {
	Code     string
	Name     string
	Price    float64
	Showings []*Showing
}

// Dates returns the distinct dates of the movie in first-seen order.
func (m *Movie) Dates() []string {
	seen := make(map[string]bool, len(m.Showings))
	dates := make([]string, 0, len(m.Showings))
	for _, s := range m.Showings {
		if seen[s.Key.Date] {
			continue
		}
		seen[s.Key.Date] = true
		dates = append(dates, s.Key.Date)
	}

	return dates
}

func (m *Movie) HasDate(date string) bool {
	for _, s := range m.Showings {
		if s.Key.Date == date {
			return true
		}
	}

	return false
}

func (m *Movie) Showing(date string, showtime Showtime) *Showing {
	for _, s := range m.Showings {
		if s.Key.Date == date && s.Key.Showtime == showtime {
			return s
		}
	}

	return nil
}

type Catalog struct {
	Header []string
	Movies map[string]*Movie
	Rows   []*Showing
}

func NewCatalog(header []string) *Catalog {
	return &Catalog{
		Header: header,
		Movies: make(map[string]*Movie),
	}
}

// Add appends a showing in row order and files it under its movie. The first
// row of a movie code fixes the movie's name and price.
func (c *Catalog) Add(s *Showing) error {
	movie, ok := c.Movies[s.Key.MovieCode]
	if !ok {
		movie = &Movie{Code: s.Key.MovieCode, Name: s.MovieName, Price: s.Price}
		c.Movies[movie.Code] = movie
	}

	if movie.Showing(s.Key.Date, s.Key.Showtime) != nil {
		return fmt.Errorf("duplicate showing %s", s.Key)
	}

	movie.Showings = append(movie.Showings, s)
	c.Rows = append(c.Rows, s)

	return nil
}
