// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Avalon Contributors

package container_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getavalon/fusion-pipeline/pkg/container"
	"github.com/getavalon/fusion-pipeline/pkg/errutil"
	"github.com/getavalon/fusion-pipeline/pkg/fusion/fusiontest"
)

func chairContext() container.Context {
	return container.Context{
		Representation: container.Representation{ID: "60f1a2b3c4d5e6f7a8b9c0d1"},
	}
}

func TestImprintParse_RoundTrip(t *testing.T) {
	tool := fusiontest.NewLoader("chair_01_LD")

	err := container.Imprint(tool, "chair_01", "charA", chairContext(),
		container.WithLoader("ModelLoader"))
	require.NoError(t, err)

	got, err := container.Parse(tool)
	require.NoError(t, err)

	assert.Equal(t, container.Schema, got.Schema)
	assert.Equal(t, container.ID, got.ID)
	assert.Equal(t, "chair_01", got.Name)
	assert.Equal(t, "charA", got.Namespace)
	assert.Equal(t, "ModelLoader", got.Loader)
	assert.Equal(t, "60f1a2b3c4d5e6f7a8b9c0d1", got.Representation)
	assert.Equal(t, "chair_01_LD", got.ObjectName)
	assert.Same(t, tool, got.Tool)
}

func TestImprint_KeysAreExact(t *testing.T) {
	tool := fusiontest.NewLoader("chair_01_LD")

	require.NoError(t, container.Imprint(tool, "chair_01", "charA", chairContext()))

	// The key strings are a durable external contract shared with every
	// other host integration.
	assert.Equal(t, map[string]string{
		"avalon.schema":         "avalon-core:container-2.0",
		"avalon.id":             "pyblish.avalon.container",
		"avalon.name":           "chair_01",
		"avalon.namespace":      "charA",
		"avalon.loader":         "",
		"avalon.representation": "60f1a2b3c4d5e6f7a8b9c0d1",
	}, tool.Data())
}

func TestImprint_Overwrites(t *testing.T) {
	tool := fusiontest.NewLoader("chair_01_LD")

	require.NoError(t, container.Imprint(tool, "chair_01", "charA", chairContext(),
		container.WithLoader("ModelLoader")))

	second := container.Context{Representation: container.Representation{ID: "61aabbccddeeff0011223344"}}
	require.NoError(t, container.Imprint(tool, "chair_02", "charB", second))

	got, err := container.Parse(tool)
	require.NoError(t, err)
	assert.Equal(t, "chair_02", got.Name)
	assert.Equal(t, "charB", got.Namespace)
	assert.Equal(t, "", got.Loader, "loader from the first imprint must not survive")
	assert.Equal(t, "61aabbccddeeff0011223344", got.Representation)
}

func TestImprint_MissingRepresentation(t *testing.T) {
	tool := fusiontest.NewLoader("chair_01_LD")

	err := container.Imprint(tool, "chair_01", "charA", container.Context{})

	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "CONTAINER_CONTEXT_INVALID")
	assert.Empty(t, tool.Data(), "nothing may be written on a malformed context")
}

func TestImprint_UnsupportedTool(t *testing.T) {
	tool := fusiontest.NewLoader("chair_01_LD")
	tool.FailSetData = true

	err := container.Imprint(tool, "chair_01", "charA", chairContext())

	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "HOST_OBJECT_UNSUPPORTED")
}

func TestParse_NeverImprinted(t *testing.T) {
	tool := fusiontest.NewLoader("bare_LD")

	got, err := container.Parse(tool)

	require.NoError(t, err, "missing keys are not an error")
	assert.Empty(t, got.Schema)
	assert.Empty(t, got.ID)
	assert.Empty(t, got.Name)
	assert.Empty(t, got.Namespace)
	assert.Empty(t, got.Loader)
	assert.Empty(t, got.Representation)
	assert.Equal(t, "bare_LD", got.ObjectName)
	assert.Same(t, tool, got.Tool)
}

func TestParse_UnreachableTool(t *testing.T) {
	tool := fusiontest.NewLoader("gone_LD")
	tool.FailGetData = true

	_, err := container.Parse(tool)

	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "HOST_OBJECT_UNAVAILABLE")
}

func TestList_ParsesLoadersOnly(t *testing.T) {
	chair := fusiontest.NewLoader("chair_01_LD")
	require.NoError(t, container.Imprint(chair, "chair_01", "charA", chairContext()))

	table := fusiontest.NewLoader("table_01_LD")
	require.NoError(t, container.Imprint(table, "table_01", "charA", chairContext()))

	merge := &fusiontest.Tool{ToolName: "merge1", Kind: "Merge"}
	comp := fusiontest.NewComp("shot010", chair, merge, table)

	var names []string
	for c, err := range container.List(comp) {
		require.NoError(t, err)
		names = append(names, c.Name)
	}

	assert.Equal(t, []string{"chair_01", "table_01"}, names)
}

func TestList_IncludesBareLoaders(t *testing.T) {
	// Tools are not filtered on the schema marker; callers do that.
	bare := fusiontest.NewLoader("bare_LD")
	comp := fusiontest.NewComp("shot010", bare)

	var got []container.Container
	for c, err := range container.List(comp) {
		require.NoError(t, err)
		got = append(got, c)
	}

	require.Len(t, got, 1)
	assert.Empty(t, got[0].Schema)
	assert.Equal(t, "bare_LD", got[0].ObjectName)
}

func TestList_CompUnavailable(t *testing.T) {
	comp := fusiontest.NewComp("shot010")
	comp.FailToolList = true

	var errs []error
	for _, err := range container.List(comp) {
		errs = append(errs, err)
	}

	require.Len(t, errs, 1)
	errutil.AssertErrorCode(t, errs[0], "HOST_OBJECT_UNAVAILABLE")
}

func TestList_StopsEarly(t *testing.T) {
	comp := fusiontest.NewComp("shot010",
		fusiontest.NewLoader("a_LD"), fusiontest.NewLoader("b_LD"))

	count := 0
	for range container.List(comp) {
		count++
		break
	}

	assert.Equal(t, 1, count)
}
