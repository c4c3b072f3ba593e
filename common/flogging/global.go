/*
Copyright IBM Corp. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package flogging

import (
	"io"
	"regexp"

	"go.uber.org/zap"
)

const defaultFormat = "console"

var Global *Logging

func init() {
	logging, err := New(Config{})
	if err != nil {
		panic(err)
	}
	Global = logging
}

// Init initializes the global logging system with the provided configuration.
// Init should be called once at process startup, before loggers are in use.
func Init(config Config) {
	if err := Global.Apply(config); err != nil {
		panic(err)
	}
}

// Reset sets the global logging system to its defaults. It is intended to be
// used in tests.
func Reset() {
	Global.Apply(Config{})
}

// MustGetLogger creates a logger with the specified name. If an invalid name
// is provided, the operation will panic.
func MustGetLogger(name string) *Logger {
	if !isValidLoggerName(name) {
		panic("invalid logger name: " + name)
	}
	return Global.Logger(name)
}

// ActivateSpec sets the active logging spec on the global logging system.
// The spec is not validated before activation so an invalid spec will panic.
func ActivateSpec(spec string) {
	if err := Global.ActivateSpec(spec); err != nil {
		panic(err)
	}
}

// SetWriter replaces the sink of the global logging system.
func SetWriter(w io.Writer) {
	Global.SetWriter(w)
}

// NewTestLogger returns a logger suitable for tests: records are written to
// w at debug level, independent of the global logging system.
func NewTestLogger(w io.Writer) *Logger {
	logging, err := New(Config{Writer: w, LogSpec: "debug"})
	if err != nil {
		panic(err)
	}
	return NewLogger(logging.ZapLogger("test"), zap.WithCaller(false))
}

var loggerNameRegexp = regexp.MustCompile(`^[[:alnum:]_#:-]+(\.[[:alnum:]_#:-]+)*$`)

func isValidLoggerName(loggerName string) bool {
	return loggerNameRegexp.MatchString(loggerName)
}
