package cli

import (
	"bytes"
	"fmt"
	"testing"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arc-language/pyman/pkg/core"
)

func withOutput(t *testing.T, format string) {
	t.Helper()
	prev, prevColor := output, color.NoColor
	output, color.NoColor = format, true
	t.Cleanup(func() { output, color.NoColor = prev, prevColor })
}

var sampleEnvs = []core.EnvironmentRecord{
	{Name: "web", Path: "/envs/web", Kind: core.KindVanilla},
	{Name: "data", Path: "/envs/data", Kind: core.KindConda, DistributionPath: "/opt/conda"},
}

func envTable(w *tabwriter.Writer) {
	for _, env := range sampleEnvs {
		fmt.Fprintf(w, "%s\t%s\n", env.Name, env.Kind)
	}
}

func TestRenderTable(t *testing.T) {
	withOutput(t, "table")
	var buf bytes.Buffer
	require.NoError(t, render(&buf, sampleEnvs, envTable))
	assert.Equal(t, "web   vanilla\ndata  conda\n", buf.String())
}

func TestRenderJSON(t *testing.T) {
	withOutput(t, "json")
	var buf bytes.Buffer
	require.NoError(t, render(&buf, sampleEnvs, envTable))
	assert.Contains(t, buf.String(), `"kind": "conda"`)
	assert.Contains(t, buf.String(), `"distribution_path": "/opt/conda"`)
}

func TestRenderYAML(t *testing.T) {
	withOutput(t, "yaml")
	var buf bytes.Buffer
	require.NoError(t, render(&buf, sampleEnvs, envTable))
	assert.Contains(t, buf.String(), "- name: web\n")
	assert.Contains(t, buf.String(), "kind: vanilla")
}

func TestRenderUnknownFormat(t *testing.T) {
	withOutput(t, "xml")
	err := render(&bytes.Buffer{}, sampleEnvs, envTable)
	assert.Error(t, err)
}

func TestCommandTree(t *testing.T) {
	for _, path := range [][]string{
		{"interpreters"},
		{"envs", "list"},
		{"envs", "create"},
		{"envs", "delete"},
		{"envs", "run"},
		{"envs", "install"},
		{"config", "show"},
		{"config", "set"},
		{"config", "set-default"},
		{"config", "add-path"},
		{"config", "remove-path"},
		{"install", "python"},
		{"install", "miniforge"},
		{"catalog"},
		{"uninstall"},
		{"version"},
	} {
		cmd, _, err := rootCmd.Find(path)
		require.NoError(t, err, path)
		assert.Equal(t, path[len(path)-1], cmd.Name())
	}
}
