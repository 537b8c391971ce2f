package engine

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes engine Prometheus metrics. A nil *Metrics is a no-op.
type Metrics struct {
	gatherer prometheus.Gatherer

	Queries       *prometheus.CounterVec
	QueryDuration *prometheus.HistogramVec
	CatalogStars  *prometheus.GaugeVec
	CatalogLoads  *prometheus.CounterVec
}

// NewMetrics registers engine metrics against reg. A nil reg selects the
// default registerer.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	queries, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "almanac_queries_total",
		Help: "Position queries by target kind and result.",
	}, []string{"target", "result"}), "almanac_queries_total")
	if err != nil {
		return nil, err
	}

	duration, err := registerHistogramVec(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "almanac_query_duration_seconds",
		Help:    "Duration of position queries by target kind.",
		Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
	}, []string{"target"}), "almanac_query_duration_seconds")
	if err != nil {
		return nil, err
	}

	stars, err := registerGaugeVec(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "almanac_catalog_stars",
		Help: "Stars in the active catalog, total and navigational.",
	}, []string{"set"}), "almanac_catalog_stars")
	if err != nil {
		return nil, err
	}

	loads, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "almanac_catalog_loads_total",
		Help: "Catalog load attempts by result.",
	}, []string{"result"}), "almanac_catalog_loads_total")
	if err != nil {
		return nil, err
	}

	return &Metrics{
		gatherer:      gatherer,
		Queries:       queries,
		QueryDuration: duration,
		CatalogStars:  stars,
		CatalogLoads:  loads,
	}, nil
}

// Gatherer returns the Prometheus gatherer the metrics were registered with.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	if m == nil {
		return nil
	}
	return m.gatherer
}

// observeQuery records one query outcome.
func (m *Metrics) observeQuery(target string, start time.Time, err error) {
	if m == nil {
		return
	}
	m.Queries.WithLabelValues(target, resultLabel(err)).Inc()
	m.QueryDuration.WithLabelValues(target).Observe(time.Since(start).Seconds())
}

// observeLoad records a catalog load and the resulting counts.
func (m *Metrics) observeLoad(total, nav int, err error) {
	if m == nil {
		return
	}
	m.CatalogLoads.WithLabelValues(resultLabel(err)).Inc()
	m.setCounts(total, nav)
}

func (m *Metrics) setCounts(total, nav int) {
	if m == nil {
		return
	}
	m.CatalogStars.WithLabelValues("total").Set(float64(total))
	m.CatalogStars.WithLabelValues("navigational").Set(float64(nav))
}

func resultLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func registerCounterVec(reg prometheus.Registerer, c *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return c, nil
}

func registerHistogramVec(reg prometheus.Registerer, h *prometheus.HistogramVec, name string) (*prometheus.HistogramVec, error) {
	if err := reg.Register(h); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return h, nil
}

func registerGaugeVec(reg prometheus.Registerer, g *prometheus.GaugeVec, name string) (*prometheus.GaugeVec, error) {
	if err := reg.Register(g); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.GaugeVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return g, nil
}
