package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Layr-Labs/disputectl/internal/config"
)

func boolPtr(b bool) *bool { return &b }

func TestInit_DisabledUsesNoop(t *testing.T) {
	t.Setenv(EnabledEnv, "")
	Init(&config.Config{TelemetryEnabled: boolPtr(false)})
	_, ok := GetGlobalClient().(*NoopClient)
	assert.True(t, ok)

	t.Setenv(EnabledEnv, "false")
	Init(&config.Config{TelemetryEnabled: boolPtr(true), PostHogAPIKey: "phc_test"})
	_, ok = GetGlobalClient().(*NoopClient)
	assert.True(t, ok)
}

func TestNewPostHogClient_NoKey(t *testing.T) {
	t.Setenv(EnabledEnv, "1")
	t.Setenv(APIKeyEnv, "")
	client, err := NewPostHogClient(&config.Config{}, namespace)
	require.NoError(t, err)
	assert.Nil(t, client)

	// a nil client is safe to use
	assert.NoError(t, client.AddMetric(context.Background(), Metric{Name: "Count"}))
	assert.NoError(t, client.Close())
}

func TestWalletAccount(t *testing.T) {
	cfg := &config.Config{
		CurrentContext: "dev",
		Contexts: map[string]*config.Context{
			"dev": {Wallet: &config.WalletConfig{Account: "0xa1"}},
		},
	}
	assert.Equal(t, "0xa1", WalletAccount(cfg))

	cfg.TelemetryAnonymous = boolPtr(true)
	assert.Empty(t, WalletAccount(cfg))
	assert.Empty(t, WalletAccount(nil))
}

func TestMetricsContext(t *testing.T) {
	ctx := context.Background()
	_, err := MetricsFromContext(ctx)
	assert.ErrorIs(t, err, ErrNoMetricsContext)

	m := NewMetricsContext()
	ctx = WithMetricsContext(ctx, m)
	got, err := MetricsFromContext(ctx)
	require.NoError(t, err)
	assert.Same(t, m, got)

	m.AddProperty("command", "claim create")
	m.AddMetric("Count", 1)
	m.AddMetricWithDimensions("Failure", 1, map[string]string{"error": "boom"})

	snapshot := m.Snapshot()
	require.Len(t, snapshot, 2)
	assert.Equal(t, "claim create", snapshot[0].Dimensions["command"])
	assert.Equal(t, "boom", snapshot[1].Dimensions["error"])

	snapshot[0].Dimensions["command"] = "changed"
	assert.Equal(t, "claim create", m.Snapshot()[0].Dimensions["command"])
}

func TestClientContext(t *testing.T) {
	_, ok := ClientFromContext(context.Background())
	assert.False(t, ok)

	ctx := ContextWithClient(context.Background(), NewNoopClient())
	client, ok := ClientFromContext(ctx)
	require.True(t, ok)
	assert.NoError(t, client.AddMetric(ctx, Metric{}))
}
