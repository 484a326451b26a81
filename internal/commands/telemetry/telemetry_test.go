package telemetry

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/Layr-Labs/disputectl/internal/config"
	"github.com/Layr-Labs/disputectl/internal/telemetry"
)

func run(t *testing.T, args ...string) (string, error) {
	var out bytes.Buffer
	app := &cli.App{
		Name:      "disputectl",
		Writer:    &out,
		ErrWriter: &bytes.Buffer{},
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "output", Value: "json"},
		},
		Commands: []*cli.Command{Command()},
	}
	err := app.Run(append([]string{"disputectl", "telemetry"}, args...))
	return out.String(), err
}

func TestEnableDisable(t *testing.T) {
	t.Setenv(config.ConfigDirEnv, t.TempDir())

	_, err := run(t, "enable", "--anonymous")
	require.NoError(t, err)

	cfg, err := config.LoadConfig()
	require.NoError(t, err)
	require.NotNil(t, cfg.TelemetryEnabled)
	assert.True(t, *cfg.TelemetryEnabled)
	require.NotNil(t, cfg.TelemetryAnonymous)
	assert.True(t, *cfg.TelemetryAnonymous)

	out, err := run(t, "status")
	require.NoError(t, err)
	assert.Contains(t, out, `"Anonymous"`)

	_, err = run(t, "disable")
	require.NoError(t, err)

	cfg, err = config.LoadConfig()
	require.NoError(t, err)
	assert.False(t, *cfg.TelemetryEnabled)

	out, err = run(t, "status")
	require.NoError(t, err)
	assert.Contains(t, out, `"Disabled"`)
}

func TestStatus_EnvOverrides(t *testing.T) {
	t.Setenv(config.ConfigDirEnv, t.TempDir())
	t.Setenv(telemetry.EnabledEnv, "1")
	t.Setenv(telemetry.APIKeyEnv, "phc_secret")

	out, err := run(t, "status")
	require.NoError(t, err)
	assert.Contains(t, out, telemetry.EnabledEnv)
	assert.Contains(t, out, "***configured***")
	assert.NotContains(t, out, "phc_secret")
}
