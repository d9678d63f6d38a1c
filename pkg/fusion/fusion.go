// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Avalon Contributors

// Package fusion models the scripting surface of the Fusion host
// application. The pipeline is a client of this surface, never an
// implementor: real handles are provided by the host process, fakes by
// package fusiontest.
package fusion

// Tool is a node in the host's flow graph, usually a Loader.
type Tool interface {
	// Name returns the tool's display name.
	Name() string

	// ID returns the tool's kind, e.g. "Loader".
	ID() string

	// SetData attaches a persistent key/value pair to the tool.
	SetData(key, value string) error

	// GetData reads a persistent value. An absent key yields ("", nil);
	// an error means the tool handle itself is unreachable.
	GetData(key string) (string, error)
}

// Comp is the host's active composition document.
type Comp interface {
	// Name returns the composition's display name.
	Name() string

	// ToolList returns the comp's tools of the given kind.
	// An empty kind returns every tool.
	ToolList(kind string) ([]Tool, error)

	// Print writes a message to the comp's output console.
	Print(message string) error

	Lock() error
	Unlock() error

	// StartUndo opens a named undo-history boundary.
	StartUndo(label string) error
	EndUndo() error
}

// Session is a connection to one running host instance.
type Session interface {
	// CurrentComp returns the comp open in the host, or nil when none is.
	CurrentComp() Comp
}
