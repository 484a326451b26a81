package logger

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

func TestNewLoggerWithWriter(t *testing.T) {
	t.Run("info is written, debug is filtered", func(t *testing.T) {
		var buf bytes.Buffer
		l := NewLoggerWithWriter(false, &buf)

		l.Info("claim loaded", zap.Uint64("claimId", 7))
		l.Debug("hidden")

		out := buf.String()
		assert.Contains(t, out, "INFO")
		assert.Contains(t, out, "claim loaded")
		assert.Contains(t, out, "\"claimId\": 7")
		assert.NotContains(t, out, "hidden")
	})

	t.Run("verbose enables debug", func(t *testing.T) {
		var buf bytes.Buffer
		l := NewLoggerWithWriter(true, &buf)

		l.Debug("polling receipt")
		assert.Contains(t, buf.String(), "polling receipt")
	})

	t.Run("title goes to the writer", func(t *testing.T) {
		var buf bytes.Buffer
		l := NewLoggerWithWriter(false, &buf)

		l.Title("Dispute flow")
		assert.Contains(t, buf.String(), "Dispute flow")
	})
}

func TestFromContext(t *testing.T) {
	l := Wrap(zaptest.NewLogger(t), nil)

	ctx := WithLogger(context.Background(), l)
	assert.Same(t, l, FromContext(ctx))

	assert.NotNil(t, FromContext(context.Background()))
}
