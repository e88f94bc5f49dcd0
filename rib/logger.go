/* SPDX-License-Identifier: MIT
 *
 * Copyright (C) 2017-2025 WireGuard LLC. All Rights Reserved.
 */

package rib

import (
	"os"

	"github.com/rs/zerolog"
)

// Logger wraps a zerolog.Logger behind a small Verbosef/Errorf
// call-site shape, so table lifecycle events and invariant violations
// get structured log lines. A nil *Logger is valid and every call
// becomes a no-op, so a table constructed without WithLogger stays
// silent rather than panicking.
type Logger struct {
	zl zerolog.Logger
}

// NewLogger builds a Logger writing to os.Stderr at the given level.
func NewLogger(level zerolog.Level) *Logger {
	return &Logger{zl: zerolog.New(os.Stderr).With().Timestamp().Logger().Level(level)}
}

// NewLoggerFrom adapts an existing zerolog.Logger, for callers that
// already have one configured rather than wanting a new one built.
func NewLoggerFrom(zl zerolog.Logger) *Logger {
	return &Logger{zl: zl}
}

func (l *Logger) Verbosef(format string, args ...any) {
	if l == nil {
		return
	}
	l.zl.Debug().Msgf(format, args...)
}

func (l *Logger) Errorf(format string, args ...any) {
	if l == nil {
		return
	}
	l.zl.Error().Msgf(format, args...)
}
