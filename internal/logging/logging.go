// Package logging builds the zap logger shared by the CLI and the TUI.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"regexp"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	maxSizeMB  = 10
	maxBackups = 3
	maxAgeDays = 14
)

// Options configures New. An empty Path disables the file sink.
type Options struct {
	Path  string
	Debug bool
	// Console, when set, receives a human readable copy of every entry.
	Console io.Writer
}

// DefaultPath places the log under the user's state directory.
func DefaultPath() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = os.TempDir()
	}
	return filepath.Join(base, "studyshift", "studyshift.log")
}

// New returns a logger writing JSON to a rotating file and, optionally,
// console-formatted entries to Console. With neither sink it returns a no-op
// logger.
func New(opts Options) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if opts.Debug {
		level = zapcore.DebugLevel
	}

	var cores []zapcore.Core
	if opts.Path != "" {
		if err := os.MkdirAll(filepath.Dir(opts.Path), 0o755); err != nil {
			return nil, err
		}
		file := zapcore.AddSync(&lumberjack.Logger{
			Filename:   opts.Path,
			MaxSize:    maxSizeMB,
			MaxBackups: maxBackups,
			MaxAge:     maxAgeDays,
			Compress:   true,
		})
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig()), redacting{file}, level))
	}
	if opts.Console != nil {
		cfg := encoderConfig()
		cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		cfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		cores = append(cores, zapcore.NewCore(zapcore.NewConsoleEncoder(cfg), redacting{zapcore.AddSync(opts.Console)}, level))
	}
	if len(cores) == 0 {
		return zap.NewNop(), nil
	}
	return zap.New(zapcore.NewTee(cores...), zap.AddCaller()), nil
}

func encoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "ts"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg
}

var secretPattern = regexp.MustCompile(`(AIza[0-9A-Za-z_\-]{35}|sk-[A-Za-z0-9_\-]{20,})`)

// Redact masks API keys that leak into error strings.
func Redact(s string) string {
	return secretPattern.ReplaceAllString(s, "[REDACTED]")
}

type redacting struct {
	zapcore.WriteSyncer
}

func (r redacting) Write(p []byte) (int, error) {
	masked := secretPattern.ReplaceAll(p, []byte("[REDACTED]"))
	if _, err := r.WriteSyncer.Write(masked); err != nil {
		return 0, err
	}
	return len(p), nil
}
