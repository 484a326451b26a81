package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Layr-Labs/disputectl/internal/logger"
)

type contextKey string

var (
	ContextKey          contextKey = "currentContext"
	ConfigKey           contextKey = "config"
	LoggerKey           contextKey = "loggerKey"
	ControllerKey       contextKey = "controller"
	TelemetryContextKey contextKey = "telemetry"
	MetricsContextKey   contextKey = "metrics"
)

const (
	ConfigDirEnv     = "DISPUTECTL_CONFIG_DIR"
	PrivateKeyEnv    = "PRIVATE_KEY"
	KeystorePassword = "KEYSTORE_PASSWORD"

	// DefaultRPCURL is the node used when a context does not name one.
	DefaultRPCURL = "https://ropsten.infura.io"

	DefaultContextName = "default"
)

const (
	WalletTypeProvider   = "provider"
	WalletTypeKeystore   = "keystore"
	WalletTypePrivateKey = "privatekey"
)

type WalletConfig struct {
	Type         string `yaml:"type"`
	ProviderURL  string `yaml:"providerUrl,omitempty"`
	Account      string `yaml:"account,omitempty"`
	KeystorePath string `yaml:"keystorePath,omitempty"`
}

type ConfirmationConfig struct {
	PollInterval time.Duration `yaml:"pollInterval,omitempty"`
	Timeout      time.Duration `yaml:"timeout,omitempty"`
	MaxAttempts  int           `yaml:"maxAttempts,omitempty"`
}

type Context struct {
	Name                 string `yaml:"-"`
	RPCUrl               string `yaml:"rpcUrl,omitempty"`
	ChainID              uint64 `yaml:"chainId,omitempty"`
	ClaimsHandlerAddress string `yaml:"claimsHandlerAddress,omitempty"`
	TokenAddress         string `yaml:"tokenAddress,omitempty"`

	// Directory holding the claim id store; defaults to <config dir>/data/<context>
	DataDir string `yaml:"dataDir,omitempty"`

	// Path to a KEY=VALUE secrets file loaded into the environment
	EnvSecretsPath string `yaml:"envSecretsPath"`

	Wallet       *WalletConfig       `yaml:"wallet,omitempty"`
	Confirmation *ConfirmationConfig `yaml:"confirmation,omitempty"`
}

type Config struct {
	CurrentContext     string              `yaml:"currentContext"`
	Contexts           map[string]*Context `yaml:"contexts"`
	TelemetryEnabled   *bool               `yaml:"telemetryEnabled,omitempty"`
	TelemetryAnonymous *bool               `yaml:"telemetryAnonymous,omitempty"`
	PostHogAPIKey      string              `yaml:"posthogApiKey,omitempty"`
}

// LoggerFromContext retrieves the logger from the context
func LoggerFromContext(ctx context.Context) logger.Logger {
	if l, ok := ctx.Value(LoggerKey).(logger.Logger); ok {
		return l
	}
	return logger.FromContext(ctx)
}

func LoadConfig() (*Config, error) {
	data, err := os.ReadFile(getConfigPath())
	if err != nil {
		if os.IsNotExist(err) {
			return defaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if config.Contexts == nil {
		config.Contexts = make(map[string]*Context)
	}

	for name, ctx := range config.Contexts {
		ctx.Name = name
	}

	return &config, nil
}

func SaveConfig(config *Config) error {
	configPath := getConfigPath()

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

func GetCurrentContext() (*Context, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}

	ctx, ok := cfg.Contexts[cfg.CurrentContext]
	if !ok {
		return nil, fmt.Errorf("current context '%s' not found", cfg.CurrentContext)
	}

	return ctx, nil
}

func GetConfigDir() string {
	if dir := os.Getenv(ConfigDirEnv); dir != "" {
		return dir
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".disputectl")
}

func getConfigPath() string {
	return filepath.Join(GetConfigDir(), "config.yaml")
}

func defaultConfig() *Config {
	return &Config{
		CurrentContext: DefaultContextName,
		Contexts: map[string]*Context{
			DefaultContextName: NewContext(DefaultContextName),
		},
	}
}

// NewContext returns a context pointing at the default node with a provider wallet.
func NewContext(name string) *Context {
	return &Context{
		Name:   name,
		RPCUrl: DefaultRPCURL,
		Wallet: &WalletConfig{
			Type:        WalletTypeProvider,
			ProviderURL: "http://localhost:8545",
		},
	}
}

// StoreDir is where the claim id store for this context lives.
func (c *Context) StoreDir() string {
	if c.DataDir != "" {
		return c.DataDir
	}
	return filepath.Join(GetConfigDir(), "data", c.Name)
}

// RPCEndpoint returns the configured node or the default one.
func (c *Context) RPCEndpoint() string {
	if c.RPCUrl == "" {
		return DefaultRPCURL
	}
	return c.RPCUrl
}

// Validate checks that everything a chain-touching command needs is present.
func (c *Context) Validate() error {
	if c.ClaimsHandlerAddress == "" {
		return fmt.Errorf("claims handler address is required (use `disputectl context set --claims-handler`)")
	}
	if c.TokenAddress == "" {
		return fmt.Errorf("token address is required (use `disputectl context set --token`)")
	}
	if c.Wallet == nil || c.Wallet.Type == "" {
		return fmt.Errorf("wallet is not configured (use `disputectl context set --wallet-type`)")
	}
	return nil
}

// ToMap converts the Context to a map for display purposes
func (c *Context) ToMap() map[string]interface{} {
	result := make(map[string]interface{})

	result["rpc-url"] = c.RPCEndpoint()

	if c.ChainID != 0 {
		result["chain-id"] = c.ChainID
	}
	if c.ClaimsHandlerAddress != "" {
		result["claims-handler"] = c.ClaimsHandlerAddress
	}
	if c.TokenAddress != "" {
		result["token"] = c.TokenAddress
	}
	if c.DataDir != "" {
		result["data-dir"] = c.DataDir
	}
	if c.EnvSecretsPath != "" {
		result["env-secrets-path"] = c.EnvSecretsPath
	}

	if c.Wallet != nil {
		wallet := map[string]string{"type": c.Wallet.Type}
		if c.Wallet.ProviderURL != "" {
			wallet["provider-url"] = c.Wallet.ProviderURL
		}
		if c.Wallet.Account != "" {
			wallet["account"] = c.Wallet.Account
		}
		if c.Wallet.KeystorePath != "" {
			wallet["keystore-path"] = c.Wallet.KeystorePath
		}
		result["wallet"] = wallet
	}

	if c.Confirmation != nil {
		confirmation := make(map[string]string)
		if c.Confirmation.PollInterval > 0 {
			confirmation["poll-interval"] = c.Confirmation.PollInterval.String()
		}
		if c.Confirmation.Timeout > 0 {
			confirmation["timeout"] = c.Confirmation.Timeout.String()
		}
		if c.Confirmation.MaxAttempts > 0 {
			confirmation["max-attempts"] = fmt.Sprintf("%d", c.Confirmation.MaxAttempts)
		}
		if len(confirmation) > 0 {
			result["confirmation"] = confirmation
		}
	}

	return result
}
