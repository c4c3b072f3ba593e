/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package flogging

import (
	"io"
	"os"
	"sync"

	zaplogfmt "github.com/sykesm/zap-logfmt"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Encoding is the selected format for encoded log records.
type Encoding int8

const (
	CONSOLE = iota
	JSON
	LOGFMT
)

// Config is used to provide dependencies to a Logging instance.
type Config struct {
	// Format selects the log record encoding. The strings "json" and
	// "logfmt" select the corresponding structured encoders; anything else
	// (including empty) selects the console encoder.
	Format string

	// LogSpec determines the log levels that are enabled for the logging
	// system. The spec must be in a format that can be processed by
	// ActivateSpec. If LogSpec is not provided, loggers are enabled at the
	// INFO level.
	LogSpec string

	// Writer is the sink for encoded and formatted log records.
	//
	// If a Writer is not provided, os.Stderr will be used as the log sink.
	Writer io.Writer
}

// Logging maintains the state associated with the logging system. It bridges
// named logger levels to the structured, leveled logging provided by zap.
type Logging struct {
	*LoggerLevels

	mutex         sync.RWMutex
	encoding      Encoding
	encoderConfig zapcore.EncoderConfig
	writer        zapcore.WriteSyncer
}

// New creates a new logging system and initializes it with the provided
// configuration.
func New(c Config) (*Logging, error) {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.NameKey = "name"

	l := &Logging{
		LoggerLevels: &LoggerLevels{
			defaultLevel: defaultLevel,
		},
		encoderConfig: encoderConfig,
	}

	if err := l.Apply(c); err != nil {
		return nil, err
	}
	return l, nil
}

// Apply applies the provided configuration to the logging system.
func (l *Logging) Apply(c Config) error {
	l.SetFormat(c.Format)

	if c.LogSpec == "" {
		c.LogSpec = os.Getenv("MPIACCEL_LOGGING_SPEC")
	}
	if c.LogSpec == "" {
		c.LogSpec = defaultLevel.String()
	}
	if err := l.ActivateSpec(c.LogSpec); err != nil {
		return err
	}

	if c.Writer == nil {
		c.Writer = os.Stderr
	}
	l.SetWriter(c.Writer)

	return nil
}

// SetFormat updates how log records are formatted and encoded. Log entries
// created after this method has completed will use the new format.
func (l *Logging) SetFormat(format string) {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	switch format {
	case "json":
		l.encoding = JSON
	case "logfmt":
		l.encoding = LOGFMT
	default:
		l.encoding = CONSOLE
	}
}

// SetWriter controls which writer formatted log records are written to.
// Writers, with the exception of an *os.File, need to be safe for concurrent
// use by multiple go routines.
func (l *Logging) SetWriter(w io.Writer) {
	var sw zapcore.WriteSyncer
	switch t := w.(type) {
	case *os.File:
		sw = zapcore.Lock(t)
	case zapcore.WriteSyncer:
		sw = t
	default:
		sw = zapcore.AddSync(w)
	}

	l.mutex.Lock()
	l.writer = sw
	l.mutex.Unlock()
}

// Write satisfies the io.Writer contract. The zap Core uses this when
// encoding log records so that SetWriter takes effect on live loggers.
func (l *Logging) Write(b []byte) (int, error) {
	l.mutex.RLock()
	w := l.writer
	l.mutex.RUnlock()

	return w.Write(b)
}

// Sync satisfies the zapcore.WriteSyncer interface. It is used by the Core
// to flush log records before terminating the process.
func (l *Logging) Sync() error {
	l.mutex.RLock()
	w := l.writer
	l.mutex.RUnlock()

	return w.Sync()
}

// ZapLogger instantiates a new zap.Logger with the specified name. The name
// is used to determine which log levels are enabled.
func (l *Logging) ZapLogger(name string) *zap.Logger {
	l.mutex.RLock()
	var encoder zapcore.Encoder
	switch l.encoding {
	case JSON:
		encoder = zapcore.NewJSONEncoder(l.encoderConfig)
	case LOGFMT:
		encoder = zaplogfmt.NewEncoder(l.encoderConfig)
	default:
		cfg := l.encoderConfig
		cfg.EncodeTime = zapcore.ISO8601TimeEncoder
		cfg.EncodeLevel = zapcore.CapitalLevelEncoder
		encoder = zapcore.NewConsoleEncoder(cfg)
	}
	enabler := zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
		return l.LoggerLevels.Level(name).Enabled(lvl)
	})
	core := zapcore.NewCore(encoder, l, enabler)
	l.mutex.RUnlock()

	return NewZapLogger(core).Named(name)
}

// Logger instantiates a new Logger with the specified name. The name is used
// to determine which log levels are enabled.
func (l *Logging) Logger(name string) *Logger {
	return NewLogger(l.ZapLogger(name))
}
