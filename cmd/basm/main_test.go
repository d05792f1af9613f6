package main

import (
	"bytes"
	"io"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the CLI with a fresh command tree and captured output. The
// config lookup is pointed at an empty directory so a developer's own
// configuration cannot leak into test results.
func execute(t *testing.T, stdin io.Reader, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	prev := color.NoColor
	t.Cleanup(func() { color.NoColor = prev })

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	if stdin != nil {
		root.SetIn(stdin)
	}
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := execute(t, nil, "version")
	require.NoError(t, err)
	assert.Equal(t, "basm dev (commit unknown, built unknown)\n", out)
}

func TestVersionJSON(t *testing.T) {
	out, err := execute(t, nil, "version", "--output", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"version": "dev"`)
	assert.Contains(t, out, `"commit": "unknown"`)
}

func TestUnknownColorMode(t *testing.T) {
	_, err := execute(t, nil, "--color", "purple", "version")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown color mode")
}

func TestUnknownLogLevel(t *testing.T) {
	_, err := execute(t, nil, "--log-level", "loud", "version")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown log level")
}
