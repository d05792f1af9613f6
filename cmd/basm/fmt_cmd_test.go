package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const messySrc = "method   f  ()V\n%a:\n  ldc   1\n  istore 0\n\tgoto %a\nend"

const tidySrc = "method f ()V\n%a:\n    ldc 1\n    istore 0\n    goto %a\nend\n"

func TestFmtStdout(t *testing.T) {
	out, err := execute(t, nil, "fmt", "-c", messySrc)
	require.NoError(t, err)
	assert.Equal(t, tidySrc, out)
}

func TestFmtStdin(t *testing.T) {
	out, err := execute(t, strings.NewReader(messySrc), "fmt", "--stdin")
	require.NoError(t, err)
	assert.Equal(t, tidySrc, out)
}

func TestFmtWriteBack(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f.basm")
	require.NoError(t, os.WriteFile(path, []byte(messySrc), 0o644))

	out, err := execute(t, nil, "fmt", "-w", path)
	require.NoError(t, err)
	assert.Empty(t, out)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, tidySrc, string(got))
}

func TestFmtIndentFromConfig(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(cfg, []byte("indent = 2\n"), 0o644))

	out, err := execute(t, nil, "--config", cfg, "fmt", "-c", "method f ()V\n    nop\nend")
	require.NoError(t, err)
	assert.Equal(t, "method f ()V\n  nop\nend\n", out)
}

func TestFmtConflictingInputs(t *testing.T) {
	_, err := execute(t, strings.NewReader(messySrc), "fmt", "-c", messySrc, "--stdin")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "multiple input sources")
}

func TestFmtNoInput(t *testing.T) {
	_, err := execute(t, nil, "fmt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no input provided")
}
