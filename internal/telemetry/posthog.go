package telemetry

import (
	"context"
	"os"

	"github.com/posthog/posthog-go"

	"github.com/Layr-Labs/disputectl/internal/config"
)

// Environment overrides, checked before the config file.
const (
	EnabledEnv  = "DISPUTECTL_TELEMETRY_ENABLED"
	APIKeyEnv   = "DISPUTECTL_POSTHOG_KEY"
	EndpointEnv = "DISPUTECTL_POSTHOG_ENDPOINT"
)

const defaultEndpoint = "https://us.i.posthog.com"

// settings is the effective telemetry configuration after env overrides.
type settings struct {
	enabled  bool
	apiKey   string
	endpoint string
	account  string
}

func resolveSettings(cfg *config.Config) settings {
	s := settings{apiKey: embeddedTelemetryApiKey, endpoint: defaultEndpoint}

	if cfg != nil {
		if cfg.TelemetryEnabled != nil {
			s.enabled = *cfg.TelemetryEnabled
		}
		if cfg.PostHogAPIKey != "" {
			s.apiKey = cfg.PostHogAPIKey
		}
		anonymous := cfg.TelemetryAnonymous != nil && *cfg.TelemetryAnonymous
		if !anonymous {
			s.account = currentWalletAccount(cfg)
		}
	}

	if v := os.Getenv(EnabledEnv); v != "" {
		s.enabled = v == "1" || v == "true"
	}
	if v := os.Getenv(APIKeyEnv); v != "" {
		s.apiKey = v
	}
	if v := os.Getenv(EndpointEnv); v != "" {
		s.endpoint = v
	}
	return s
}

func currentWalletAccount(cfg *config.Config) string {
	ctx := cfg.Contexts[cfg.CurrentContext]
	if ctx == nil || ctx.Wallet == nil {
		return ""
	}
	return ctx.Wallet.Account
}

// PostHogClient sends every metric as one PostHog event named after the CLI.
type PostHogClient struct {
	event      string
	distinctID string
	account    string
	ph         posthog.Client
}

// NewPostHogClient returns nil without error when telemetry is disabled or
// no API key is available. A nil *PostHogClient is a valid no-op Client.
func NewPostHogClient(cfg *config.Config, event string) (*PostHogClient, error) {
	s := resolveSettings(cfg)
	if !s.enabled || s.apiKey == "" {
		return nil, nil
	}

	ph, err := posthog.NewWithConfig(s.apiKey, posthog.Config{Endpoint: s.endpoint})
	if err != nil {
		return nil, err
	}
	return &PostHogClient{
		event:      event,
		distinctID: machineFingerprint(),
		account:    s.account,
		ph:         ph,
	}, nil
}

func (p *PostHogClient) AddMetric(_ context.Context, m Metric) error {
	if p == nil {
		return nil
	}

	props := posthog.NewProperties().
		Set("metric_name", m.Name).
		Set("metric_value", m.Value)
	if p.account != "" {
		props.Set("wallet_account", p.account)
	}
	for k, v := range m.Dimensions {
		props.Set(k, v)
	}

	// Enqueue only fails once the client is closed.
	_ = p.ph.Enqueue(posthog.Capture{
		DistinctId: p.distinctID,
		Event:      p.event,
		Properties: props,
	})
	return nil
}

func (p *PostHogClient) Close() error {
	if p == nil {
		return nil
	}
	return p.ph.Close()
}
