package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "cashier"

// Metrics counts reservation outcomes for one process. Every method is safe
// to call on a nil *Metrics.
type Metrics struct {
	Registry *prometheus.Registry

	reservations *prometheus.CounterVec
	holds        *prometheus.CounterVec
	ticketsSold  prometheus.Counter
	revenue      prometheus.Counter
	persistFails prometheus.Counter
}

func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		reservations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reservations_total",
			Help:      "Reserve attempts by outcome.",
		}, []string{"outcome"}),
		holds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "holds_resolved_total",
			Help:      "Reservation holds by resolution.",
		}, []string{"resolution"}),
		ticketsSold: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tickets_sold_total",
			Help:      "Tickets in confirmed holds.",
		}),
		revenue: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "revenue_total",
			Help:      "Sum of confirmed line totals.",
		}),
		persistFails: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_persist_failures_total",
			Help:      "Catalog rewrites that failed.",
		}),
	}

	m.Registry.MustRegister(m.reservations, m.holds, m.ticketsSold, m.revenue, m.persistFails)

	return m
}

func (m *Metrics) ReserveOutcome(outcome string) {
	if m == nil {
		return
	}
	m.reservations.WithLabelValues(outcome).Inc()
}

func (m *Metrics) HoldConfirmed(quantity int, lineTotal float64) {
	if m == nil {
		return
	}
	m.holds.WithLabelValues("confirmed").Inc()
	m.ticketsSold.Add(float64(quantity))
	m.revenue.Add(lineTotal)
}

func (m *Metrics) HoldReleased(resolution string) {
	if m == nil {
		return
	}
	m.holds.WithLabelValues(resolution).Inc()
}

func (m *Metrics) PersistFailed() {
	if m == nil {
		return
	}
	m.persistFails.Inc()
}

// WriteTextfile dumps the registry in the node_exporter textfile format.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.Registry)
}

func (m *Metrics) Reservations(outcome string) prometheus.Counter {
	return m.reservations.WithLabelValues(outcome)
}

func (m *Metrics) Holds(resolution string) prometheus.Counter {
	return m.holds.WithLabelValues(resolution)
}

func (m *Metrics) TicketsSold() prometheus.Counter {
	return m.ticketsSold
}
