package logging

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/nikbrunner/folio/internal/config"
)

// Options controls where a logger writes.
type Options struct {
	// Console receives human or JSON output. Nil disables the console sink,
	// which the TUI needs since any write would corrupt the screen.
	Console io.Writer
}

// New builds a logger from cfg. The file sink, when configured, is always
// JSON and rotated by lumberjack. The returned cleanup flushes and closes it.
func New(cfg config.LoggerConfig, opts Options) (*zap.Logger, func(), error) {
	level := zap.NewAtomicLevel()
	if cfg.Level != "" {
		if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
			return nil, nil, fmt.Errorf("log level %q: %w", cfg.Level, err)
		}
	}

	var cores []zapcore.Core
	if opts.Console != nil {
		cores = append(cores, zapcore.NewCore(encoder(cfg.Format), zapcore.Lock(zapcore.AddSync(opts.Console)), level))
	}

	var rotator *lumberjack.Logger
	if cfg.File != "" {
		rotator = &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   cfg.Compress,
		}
		cores = append(cores, zapcore.NewCore(encoder("json"), zapcore.AddSync(rotator), level))
	}

	if len(cores) == 0 {
		return zap.NewNop(), func() {}, nil
	}

	logger := zap.New(zapcore.NewTee(cores...), zap.AddStacktrace(zap.ErrorLevel)).Named("folio")
	cleanup := func() {
		_ = logger.Sync()
		if rotator != nil {
			_ = rotator.Close()
		}
	}
	return logger, cleanup, nil
}

// NewConsole is New writing to stderr, for the non-interactive commands.
func NewConsole(cfg config.LoggerConfig) (*zap.Logger, func(), error) {
	return New(cfg, Options{Console: os.Stderr})
}

func encoder(format string) zapcore.Encoder {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02T15:04:05.000Z07:00")

	if format == "json" {
		encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		return zapcore.NewJSONEncoder(encoderConfig)
	}

	encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	encoderConfig.EncodeName = func(name string, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(name + ".")
	}
	return zapcore.NewConsoleEncoder(encoderConfig)
}
