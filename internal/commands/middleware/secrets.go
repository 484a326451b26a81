package middleware

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

// SecretsBeforeFunc exports the variables of the context's env secrets file
// into the process environment. A variable that is already set is kept.
func SecretsBeforeFunc(c *cli.Context) error {
	log := GetLogger(c)

	ctx, ok := CurrentContext(c)
	if !ok || ctx.EnvSecretsPath == "" {
		return nil
	}

	path := expandPath(ctx.EnvSecretsPath)
	vars, err := godotenv.Read(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		log.Warn("Secrets file not found", zap.String("context", ctx.Name), zap.String("path", path))
		return nil
	case err != nil:
		return fmt.Errorf("reading secrets file %s: %w", path, err)
	}

	exported := 0
	for key, value := range vars {
		if os.Getenv(key) != "" {
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			return fmt.Errorf("exporting %s from %s: %w", key, path, err)
		}
		exported++
	}

	log.Debug("Secrets loaded",
		zap.String("path", path),
		zap.Int("exported", exported),
		zap.Int("skipped", len(vars)-exported))
	return nil
}

// expandPath resolves a leading "~/" against the home directory.
func expandPath(path string) string {
	rest, found := strings.CutPrefix(path, "~/")
	if !found {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, rest)
}
