// Package logger builds the process-wide zap logger.
package logger

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options mirrors the log section of the service configuration.
type Options struct {
	Level  string
	Output string
	File   string
}

// LumberjackConfig controls file rotation when Output is "file".
type LumberjackConfig struct {
	MaxSize    int // megabytes
	MaxBackups int
	MaxAge     int // days
	Compress   bool
}

var defaultRotation = LumberjackConfig{
	MaxSize:    100,
	MaxBackups: 3,
	MaxAge:     28,
	Compress:   true,
}

// New creates a JSON logger writing to stdout, stderr or a rotating file.
func New(opts Options) (*zap.Logger, error) {
	level, err := parseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	encoderConfig.EncodeCaller = zapcore.ShortCallerEncoder
	encoderConfig.MessageKey = "message"

	var sink zapcore.WriteSyncer
	switch strings.ToLower(opts.Output) {
	case "", "stdout":
		sink = zapcore.Lock(os.Stdout)
	case "stderr":
		sink = zapcore.Lock(os.Stderr)
	case "file":
		if opts.File == "" {
			return nil, fmt.Errorf("log output is file but no log file was configured")
		}
		sink = zapcore.AddSync(&lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    defaultRotation.MaxSize,
			MaxBackups: defaultRotation.MaxBackups,
			MaxAge:     defaultRotation.MaxAge,
			Compress:   defaultRotation.Compress,
		})
	default:
		return nil, fmt.Errorf("unknown log output %q", opts.Output)
	}

	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), sink, level)
	return zap.New(core, zap.AddCaller()), nil
}

func parseLevel(level string) (zapcore.Level, error) {
	if level == "" {
		return zapcore.InfoLevel, nil
	}
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
		return l, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return l, nil
}
