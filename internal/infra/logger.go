package infra

import (
	"os"

	"github.com/kardianos/service"
	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// systemLogName is the source name used in the Windows Event Log / syslog.
const systemLogName = "FocusApp"

// LoggerOptions selects the logger outputs.
type LoggerOptions struct {
	Level     string
	Console   bool // also log human-readable lines to stderr when it is a terminal
	SystemLog bool // tee warnings and errors to the OS log
}

// NewLogger builds the JSON file logger under paths. Falls back to stderr if the
// files cannot be opened.
func NewLogger(paths *Paths, opts LoggerOptions) *zap.Logger {
	level, err := zap.ParseAtomicLevel(opts.Level)
	if err != nil {
		level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	config := zap.NewProductionConfig()
	config.Level = level
	config.OutputPaths = []string{paths.LogPath}
	config.ErrorOutputPaths = []string{paths.ErrorLogPath}
	config.EncoderConfig.TimeKey = "time"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var logger *zap.Logger
	if err := paths.EnsureDataDir(); err == nil {
		logger, err = config.Build()
		if err != nil {
			logger = nil
		}
	}
	if logger == nil {
		// Fallback to stderr if file logging fails
		logger, _ = zap.NewProduction()
	}

	var cores []zapcore.Core
	if opts.Console && isatty.IsTerminal(os.Stderr.Fd()) {
		enc := zap.NewDevelopmentEncoderConfig()
		enc.EncodeLevel = zapcore.CapitalColorLevelEncoder
		cores = append(cores, zapcore.NewCore(
			zapcore.NewConsoleEncoder(enc), zapcore.Lock(os.Stderr), level))
	}
	if opts.SystemLog {
		if core, err := NewSystemLogCore(systemLogName, zapcore.WarnLevel); err == nil {
			cores = append(cores, core)
		} else {
			logger.Warn("system log unavailable", zap.Error(err))
		}
	}

	if len(cores) == 0 {
		return logger
	}
	return logger.WithOptions(zap.WrapCore(func(c zapcore.Core) zapcore.Core {
		return zapcore.NewTee(append([]zapcore.Core{c}, cores...)...)
	}))
}

// logOnlyProgram satisfies service.Interface; the service is never run.
type logOnlyProgram struct{}

func (logOnlyProgram) Start(service.Service) error { return nil }
func (logOnlyProgram) Stop(service.Service) error  { return nil }

// systemLogCore forwards zap entries to a kardianos service.Logger
// (Event Log on Windows, syslog or journald elsewhere).
type systemLogCore struct {
	zapcore.LevelEnabler
	enc    zapcore.Encoder
	logger service.Logger
}

// NewSystemLogCore returns a zap core writing entries at or above level to the OS log.
func NewSystemLogCore(name string, level zapcore.Level) (zapcore.Core, error) {
	svc, err := service.New(logOnlyProgram{}, &service.Config{
		Name:        name,
		DisplayName: name,
		Description: name,
	})
	if err != nil {
		return nil, err
	}

	logger, err := svc.SystemLogger(nil)
	if err != nil {
		return nil, err
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "" // the OS log stamps entries itself
	return &systemLogCore{
		LevelEnabler: level,
		enc:          zapcore.NewJSONEncoder(encCfg),
		logger:       logger,
	}, nil
}

func (c *systemLogCore) With(fields []zapcore.Field) zapcore.Core {
	clone := &systemLogCore{
		LevelEnabler: c.LevelEnabler,
		enc:          c.enc.Clone(),
		logger:       c.logger,
	}
	for _, f := range fields {
		f.AddTo(clone.enc)
	}
	return clone
}

func (c *systemLogCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

func (c *systemLogCore) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	buf, err := c.enc.EncodeEntry(ent, fields)
	if err != nil {
		return err
	}
	line := buf.String()
	buf.Free()

	switch {
	case ent.Level >= zapcore.ErrorLevel:
		return c.logger.Error(line)
	case ent.Level == zapcore.WarnLevel:
		return c.logger.Warning(line)
	default:
		return c.logger.Info(line)
	}
}

func (c *systemLogCore) Sync() error { return nil }
