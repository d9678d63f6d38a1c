// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Avalon Contributors

// Package fusiontest provides in-memory fakes of the Fusion scripting
// surface for tests.
package fusiontest

import (
	"errors"
	"sync"

	"github.com/getavalon/fusion-pipeline/pkg/fusion"
)

// ErrUnavailable is returned by fakes configured as unreachable.
var ErrUnavailable = errors.New("host object unavailable")

// Tool is an in-memory fusion.Tool.
type Tool struct {
	ToolName string
	Kind     string // tool ID, e.g. "Loader"

	// FailSetData and FailGetData make the corresponding call fail
	// with ErrUnavailable.
	FailSetData bool
	FailGetData bool

	mu   sync.Mutex
	data map[string]string
}

// NewLoader creates a fake tool of the "Loader" kind.
func NewLoader(name string) *Tool {
	return &Tool{ToolName: name, Kind: "Loader"}
}

// Name returns the tool's display name.
func (t *Tool) Name() string { return t.ToolName }

// ID returns the tool's kind.
func (t *Tool) ID() string { return t.Kind }

// SetData stores a key/value pair.
func (t *Tool) SetData(key, value string) error {
	if t.FailSetData {
		return ErrUnavailable
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.data == nil {
		t.data = make(map[string]string)
	}
	t.data[key] = value
	return nil
}

// GetData reads a stored value. Absent keys yield ("", nil).
func (t *Tool) GetData(key string) (string, error) {
	if t.FailGetData {
		return "", ErrUnavailable
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.data[key], nil
}

// Data returns a copy of the stored key/value pairs.
func (t *Tool) Data() map[string]string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(map[string]string, len(t.data))
	for k, v := range t.data {
		out[k] = v
	}
	return out
}

// Comp is an in-memory fusion.Comp that records lock/undo balance and
// console output.
type Comp struct {
	CompName string
	Tools    []fusion.Tool

	// Failure injection, one call each.
	FailLock      bool
	FailStartUndo bool
	FailPrint     bool
	FailToolList  bool

	mu         sync.Mutex
	lockDepth  int
	undoLabels []string // currently open undo boundaries
	printed    []string
}

// NewComp creates a fake comp holding the given tools.
func NewComp(name string, tools ...fusion.Tool) *Comp {
	return &Comp{CompName: name, Tools: tools}
}

// Name returns the comp's display name.
func (c *Comp) Name() string { return c.CompName }

// ToolList returns the comp's tools of the given kind.
func (c *Comp) ToolList(kind string) ([]fusion.Tool, error) {
	if c.FailToolList {
		return nil, ErrUnavailable
	}
	if kind == "" {
		return append([]fusion.Tool(nil), c.Tools...), nil
	}
	var out []fusion.Tool
	for _, t := range c.Tools {
		if t.ID() == kind {
			out = append(out, t)
		}
	}
	return out, nil
}

// Print records a console message.
func (c *Comp) Print(message string) error {
	if c.FailPrint {
		return ErrUnavailable
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.printed = append(c.printed, message)
	return nil
}

// Printed returns the console messages recorded so far.
func (c *Comp) Printed() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.printed...)
}

// Lock acquires the fake edit lock.
func (c *Comp) Lock() error {
	if c.FailLock {
		return ErrUnavailable
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lockDepth++
	return nil
}

// Unlock releases the fake edit lock.
func (c *Comp) Unlock() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lockDepth--
	return nil
}

// LockDepth returns the current lock balance; 0 means fully released.
func (c *Comp) LockDepth() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lockDepth
}

// StartUndo opens a fake undo boundary.
func (c *Comp) StartUndo(label string) error {
	if c.FailStartUndo {
		return ErrUnavailable
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.undoLabels = append(c.undoLabels, label)
	return nil
}

// EndUndo closes the most recent undo boundary.
func (c *Comp) EndUndo() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.undoLabels) > 0 {
		c.undoLabels = c.undoLabels[:len(c.undoLabels)-1]
	}
	return nil
}

// OpenUndos returns the count of undo boundaries still open.
func (c *Comp) OpenUndos() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.undoLabels)
}

// Session is a fusion.Session serving a fixed comp.
type Session struct {
	Comp fusion.Comp
}

// NewSession creates a session whose current comp is comp.
// A nil comp models a host with nothing open.
func NewSession(comp fusion.Comp) *Session {
	return &Session{Comp: comp}
}

// CurrentComp returns the session's comp, or nil when none is set.
func (s *Session) CurrentComp() fusion.Comp {
	if s.Comp == nil {
		return nil
	}
	return s.Comp
}
