// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Avalon Contributors

// Package logging routes log records into the Fusion console.
package logging

import (
	"context"
	"log/slog"

	"github.com/getavalon/fusion-pipeline/pkg/fusion"
)

// compHandler is a slog.Handler that prints each record to the
// session's current comp console.
//
// Records are dropped, not queued, while no comp is reachable: the
// console belongs to whatever comp the artist has open, and replaying
// stale records into a newly opened comp would be worse than losing
// them. The console line is the bare message; structured attributes
// stay on whatever secondary handler the caller also installs.
type compHandler struct {
	session fusion.Session
	level   slog.Level
}

// NewCompHandler creates a handler printing to session's current comp.
// Records below level are discarded.
func NewCompHandler(session fusion.Session, level slog.Level) slog.Handler {
	return &compHandler{session: session, level: level}
}

// Enabled reports whether records at level are printed.
func (h *compHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

// Handle prints the record's message to the current comp console.
func (h *compHandler) Handle(_ context.Context, r slog.Record) error {
	comp := h.session.CurrentComp()
	if comp == nil {
		return nil
	}
	// A failing console is treated the same as an absent one.
	_ = comp.Print(r.Message + "\n")
	return nil
}

// WithAttrs returns h unchanged; the comp console shows bare messages.
func (h *compHandler) WithAttrs(_ []slog.Attr) slog.Handler { return h }

// WithGroup returns h unchanged; the comp console shows bare messages.
func (h *compHandler) WithGroup(_ string) slog.Handler { return h }

// Setup creates a logger routing to session's comp console.
func Setup(session fusion.Session, level slog.Level) *slog.Logger {
	return slog.New(NewCompHandler(session, level))
}

// SetDefault installs the comp-routing logger as the process default.
func SetDefault(session fusion.Session, level slog.Level) {
	slog.SetDefault(Setup(session, level))
}
