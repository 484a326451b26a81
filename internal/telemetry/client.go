package telemetry

import "context"

// Client receives command metrics.
type Client interface {
	AddMetric(ctx context.Context, metric Metric) error
	Close() error
}

// NoopClient drops every metric. It stands in whenever telemetry is off.
type NoopClient struct{}

func NewNoopClient() *NoopClient {
	return &NoopClient{}
}

func (*NoopClient) AddMetric(context.Context, Metric) error { return nil }

func (*NoopClient) Close() error { return nil }
