package catalog

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	opAdd    = "add"
	opUpdate = "update"
	opDelete = "delete"

	resultOK        = "ok"
	resultInvalid   = "invalid"
	resultDuplicate = "duplicate"
	resultNotFound  = "not_found"
	resultError     = "error"
)

// Metrics are the store-level collectors. A nil *Metrics records nothing.
type Metrics struct {
	Products        prometheus.Gauge
	Mutations       *prometheus.CounterVec
	PersistFailures prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Products: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "catalog_products",
			Help: "Products currently held by the store",
		}),
		Mutations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "catalog_mutations_total",
				Help: "Store mutations by operation and result",
			},
			[]string{"op", "result"},
		),
		PersistFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "catalog_persist_failures_total",
			Help: "Failed writes of the backing file",
		}),
	}

	reg.MustRegister(m.Products, m.Mutations, m.PersistFailures)
	return m
}

func (m *Metrics) mutation(op string, err error) {
	if m == nil {
		return
	}
	m.Mutations.WithLabelValues(op, resultOf(err)).Inc()
}

func (m *Metrics) setProducts(n int) {
	if m == nil {
		return
	}
	m.Products.Set(float64(n))
}

func (m *Metrics) persistFailed() {
	if m == nil {
		return
	}
	m.PersistFailures.Inc()
}

func resultOf(err error) string {
	switch {
	case err == nil:
		return resultOK
	case errors.Is(err, ErrMissingFields):
		return resultInvalid
	case errors.Is(err, ErrDuplicateCode):
		return resultDuplicate
	case errors.Is(err, ErrNotFound):
		return resultNotFound
	default:
		return resultError
	}
}
