package telemetry

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Layr-Labs/disputectl/internal/config"
)

var ErrNoMetricsContext = errors.New("no metrics context found")

type Metric struct {
	Name       string            `json:"name"`
	Value      float64           `json:"value"`
	Dimensions map[string]string `json:"dimensions"`
}

// MetricsContext collects the metrics of a single command run. Properties
// are shared by every metric and merged in by Snapshot.
type MetricsContext struct {
	mu       sync.Mutex
	started  time.Time
	recorded []Metric
	props    map[string]string
}

func NewMetricsContext() *MetricsContext {
	return &MetricsContext{
		started: time.Now(),
		props:   map[string]string{},
	}
}

func WithMetricsContext(ctx context.Context, metrics *MetricsContext) context.Context {
	return context.WithValue(ctx, config.MetricsContextKey, metrics)
}

func MetricsFromContext(ctx context.Context) (*MetricsContext, error) {
	if m, ok := ctx.Value(config.MetricsContextKey).(*MetricsContext); ok && m != nil {
		return m, nil
	}
	return nil, ErrNoMetricsContext
}

func (m *MetricsContext) AddMetric(name string, value float64) {
	m.AddMetricWithDimensions(name, value, nil)
}

func (m *MetricsContext) AddMetricWithDimensions(name string, value float64, dimensions map[string]string) {
	dims := make(map[string]string, len(dimensions))
	for k, v := range dimensions {
		dims[k] = v
	}

	m.mu.Lock()
	m.recorded = append(m.recorded, Metric{Name: name, Value: value, Dimensions: dims})
	m.mu.Unlock()
}

func (m *MetricsContext) AddProperty(key, value string) {
	m.mu.Lock()
	m.props[key] = value
	m.mu.Unlock()
}

// Snapshot returns copies of the recorded metrics with the properties merged
// into their dimensions. A metric's own dimension wins over a property.
func (m *MetricsContext) Snapshot() []Metric {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Metric, len(m.recorded))
	for i, rec := range m.recorded {
		dims := make(map[string]string, len(m.props)+len(rec.Dimensions))
		for k, v := range m.props {
			dims[k] = v
		}
		for k, v := range rec.Dimensions {
			dims[k] = v
		}
		out[i] = Metric{Name: rec.Name, Value: rec.Value, Dimensions: dims}
	}
	return out
}

// Duration is the time elapsed since the context was created.
func (m *MetricsContext) Duration() time.Duration {
	return time.Since(m.started)
}
