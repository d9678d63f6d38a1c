// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Avalon Contributors

// Package container reads and writes pipeline container metadata on
// Fusion tools.
//
// A container is a tool, usually a Loader, tagged with identity and
// provenance for an asset the pipeline loaded into the comp. The tag is
// a fixed set of key/value pairs under the "avalon." key namespace;
// readers and writers on any host must agree on those exact keys.
package container

import (
	"iter"

	"github.com/samber/oops"

	"github.com/getavalon/fusion-pipeline/pkg/fusion"
)

// Schema identifies the container record format. Any change to the
// field set below requires a new schema generation.
const Schema = "avalon-core:container-2.0"

// ID marks a tool as pipeline-managed.
const ID = "pyblish.avalon.container"

// keyPrefix namespaces container keys on the tool.
const keyPrefix = "avalon."

// fields are the persisted container keys, without the prefix.
var fields = []string{"schema", "id", "name", "namespace", "loader", "representation"}

// Representation identifies one published version of an asset.
type Representation struct {
	ID string
}

// Context carries the asset information a loader resolved before
// loading, of which the representation is the part imprinted here.
type Context struct {
	Representation Representation
}

// Container is the parsed metadata record of an imprinted tool.
//
// All fields are free-form strings. Parse does not check Schema or ID;
// callers filtering for pipeline-managed tools compare them against the
// package constants themselves. Duplicate Name/Namespace pairs across
// containers are permitted.
type Container struct {
	Schema         string
	ID             string
	Name           string
	Namespace      string
	Loader         string
	Representation string

	// ObjectName is the tool's own display name, derived at parse time.
	ObjectName string

	// Tool is the live handle the record was read from.
	Tool fusion.Tool
}

// ImprintOption configures Imprint.
type ImprintOption func(*imprintConfig)

type imprintConfig struct {
	loader string
}

// WithLoader records the name of the loader that produced the container.
func WithLoader(loader string) ImprintOption {
	return func(cfg *imprintConfig) {
		cfg.loader = loader
	}
}

// Imprint tags a tool as a container.
//
// Re-imprinting overwrites every key, so the last write wins in full;
// no validation is done on name or namespace. The representation is
// taken from ctx and must be set.
func Imprint(tool fusion.Tool, name, namespace string, ctx Context, opts ...ImprintOption) error {
	var cfg imprintConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	if ctx.Representation.ID == "" {
		return oops.Code("CONTAINER_CONTEXT_INVALID").
			With("name", name).
			Errorf("context has no representation id")
	}

	data := []struct{ key, value string }{
		{"schema", Schema},
		{"id", ID},
		{"name", name},
		{"namespace", namespace},
		{"loader", cfg.loader},
		{"representation", ctx.Representation.ID},
	}

	for _, kv := range data {
		if err := tool.SetData(keyPrefix+kv.key, kv.value); err != nil {
			return oops.Code("HOST_OBJECT_UNSUPPORTED").
				With("tool", tool.Name()).
				With("key", keyPrefix+kv.key).
				Wrap(err)
		}
	}

	return nil
}

// Parse reads a tool's container record.
//
// Keys that were never imprinted read back empty; a record is returned
// either way. The only failure mode is an unreachable tool handle.
func Parse(tool fusion.Tool) (Container, error) {
	values := make(map[string]string, len(fields))
	for _, field := range fields {
		value, err := tool.GetData(keyPrefix + field)
		if err != nil {
			return Container{}, oops.Code("HOST_OBJECT_UNAVAILABLE").
				With("tool", tool.Name()).
				With("key", keyPrefix+field).
				Wrap(err)
		}
		values[field] = value
	}

	return Container{
		Schema:         values["schema"],
		ID:             values["id"],
		Name:           values["name"],
		Namespace:      values["namespace"],
		Loader:         values["loader"],
		Representation: values["representation"],
		ObjectName:     tool.Name(),
		Tool:           tool,
	}, nil
}

// List scans the comp's Loader tools and parses each into a container.
//
// The sequence is lazy and one-shot, reflecting the live tool list at
// call time; re-invoke List to re-scan. Tools are not filtered on the
// Schema/ID markers.
func List(comp fusion.Comp) iter.Seq2[Container, error] {
	return func(yield func(Container, error) bool) {
		tools, err := comp.ToolList("Loader")
		if err != nil {
			yield(Container{}, oops.Code("HOST_OBJECT_UNAVAILABLE").
				With("comp", comp.Name()).
				Wrap(err))
			return
		}
		for _, tool := range tools {
			if !yield(Parse(tool)) {
				return
			}
		}
	}
}
