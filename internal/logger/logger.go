package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/fatih/color"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Logger interface {
	Info(msg string, fields ...zap.Field)
	Warn(msg string, fields ...zap.Field)
	Error(msg string, fields ...zap.Field)
	Debug(msg string, fields ...zap.Field)
	Fatal(msg string, fields ...zap.Field)
	Title(msg string)
	Sugar() *zap.SugaredLogger
	Zap() *zap.Logger
}

// ZapLogger is the console logger used by the CLI. Titles are written
// straight to the same writer as the log lines.
type ZapLogger struct {
	*zap.Logger
	out io.Writer
}

var levelStyles = map[zapcore.Level]*color.Color{
	zapcore.DebugLevel: color.New(color.FgWhite),
	zapcore.InfoLevel:  color.New(color.FgBlue),
	zapcore.WarnLevel:  color.New(color.FgYellow),
	zapcore.ErrorLevel: color.New(color.FgRed),
	zapcore.FatalLevel: color.New(color.FgRed, color.Bold),
}

var (
	titleStyle = color.New(color.FgCyan, color.Bold)
	clockStyle = color.New(color.FgWhite)
)

// NewLogger returns a logger on stderr.
func NewLogger(verbose bool) Logger {
	return NewLoggerWithWriter(verbose, os.Stderr)
}

// NewLoggerWithWriter returns a console logger on w. Debug lines are only
// written when verbose is set.
func NewLoggerWithWriter(verbose bool, w io.Writer) Logger {
	if w == nil {
		w = os.Stderr
	}

	minLevel := zapcore.InfoLevel
	if verbose {
		minLevel = zapcore.DebugLevel
	}

	encoder := zapcore.NewConsoleEncoder(zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    encodeLevel,
		EncodeTime:     encodeClock,
		EncodeDuration: zapcore.StringDurationEncoder,
	})

	core := zapcore.NewCore(encoder, zapcore.AddSync(w), minLevel)
	return &ZapLogger{Logger: zap.New(core), out: w}
}

// Wrap adapts an existing zap logger, e.g. one built by zaptest. Titles go to
// w, or nowhere when w is nil.
func Wrap(l *zap.Logger, w io.Writer) Logger {
	if w == nil {
		w = io.Discard
	}
	return &ZapLogger{Logger: l, out: w}
}

func (l *ZapLogger) Zap() *zap.Logger {
	return l.Logger
}

func (l *ZapLogger) Title(msg string) {
	fmt.Fprintf(l.out, "\n%s\n\n", titleStyle.Sprint(msg))
}

func encodeLevel(lvl zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	style, ok := levelStyles[lvl]
	if !ok {
		enc.AppendString(lvl.CapitalString())
		return
	}
	enc.AppendString(style.Sprint(lvl.CapitalString()))
}

func encodeClock(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(clockStyle.Sprintf("[%s]", t.Format("15:04:05")))
}

var (
	globalMu     sync.RWMutex
	globalLogger Logger
)

// InitGlobalLogger replaces the process-wide logger with one on stderr.
func InitGlobalLogger(verbose bool) {
	InitGlobalLoggerWithWriter(verbose, os.Stderr)
}

func InitGlobalLoggerWithWriter(verbose bool, w io.Writer) {
	l := NewLoggerWithWriter(verbose, w)
	globalMu.Lock()
	globalLogger = l
	globalMu.Unlock()
}

// GetLogger returns the process-wide logger, creating a quiet one on first use.
func GetLogger() Logger {
	globalMu.RLock()
	l := globalLogger
	globalMu.RUnlock()
	if l != nil {
		return l
	}

	globalMu.Lock()
	defer globalMu.Unlock()
	if globalLogger == nil {
		globalLogger = NewLogger(false)
	}
	return globalLogger
}
