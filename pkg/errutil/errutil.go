// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Avalon Contributors

// Package errutil logs and asserts on coded pipeline errors.
package errutil

import (
	"log/slog"

	"github.com/samber/oops"
)

// attrs extracts structured attributes from a coded error.
func attrs(err error) []any {
	if oopsErr, ok := oops.AsOops(err); ok {
		out := []any{"error", oopsErr.Error()}
		if code := oopsErr.Code(); code != "" {
			out = append(out, "code", code)
		}
		if ctx := oopsErr.Context(); len(ctx) > 0 {
			out = append(out, "context", ctx)
		}
		return out
	}
	return []any{"error", err}
}

// LogError logs err at error level, with code and context when err
// carries them.
func LogError(logger *slog.Logger, msg string, err error) {
	logger.Error(msg, attrs(err)...)
}

// LogWarn logs err at warning level, with code and context when err
// carries them. Used where a failure is tolerated rather than surfaced,
// such as a skipped extension.
func LogWarn(logger *slog.Logger, msg string, err error) {
	logger.Warn(msg, attrs(err)...)
}
