package telemetry

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"runtime"
	"sync"

	"github.com/denisbrodbeck/machineid"

	"github.com/Layr-Labs/disputectl/internal/config"
)

// Set with -ldflags "-X .../internal/telemetry.embeddedTelemetryApiKey=..." for release builds.
var embeddedTelemetryApiKey string

const namespace = "Disputectl"

var (
	mu     sync.Mutex
	global Client = NewNoopClient()
)

// Init replaces the process-wide client according to cfg. Any failure to
// build a PostHog client leaves telemetry off.
func Init(cfg *config.Config) {
	var next Client = NewNoopClient()
	if ph, err := NewPostHogClient(cfg, namespace); err == nil && ph != nil {
		next = ph
	}

	mu.Lock()
	prev := global
	global = next
	mu.Unlock()

	if prev != nil && prev != next {
		_ = prev.Close()
	}
}

func GetGlobalClient() Client {
	mu.Lock()
	defer mu.Unlock()
	return global
}

// Close flushes queued events of the process-wide client.
func Close() {
	_ = GetGlobalClient().Close()
}

func ContextWithClient(ctx context.Context, client Client) context.Context {
	return context.WithValue(ctx, config.TelemetryContextKey, client)
}

func ClientFromContext(ctx context.Context) (Client, bool) {
	client, ok := ctx.Value(config.TelemetryContextKey).(Client)
	return client, ok
}

// WalletAccount is the account attached to metrics: the current context's
// wallet account, or empty when telemetry is anonymous.
func WalletAccount(cfg *config.Config) string {
	if cfg == nil {
		return ""
	}
	return resolveSettings(cfg).account
}

// machineFingerprint identifies the installation without exposing the raw
// machine id.
func machineFingerprint() string {
	id, err := machineid.ID()
	if err != nil {
		host, _ := os.Hostname()
		id = runtime.GOOS + "/" + runtime.GOARCH + "/" + host
	}
	sum := sha256.Sum256([]byte(id))
	return hex.EncodeToString(sum[:8])
}
