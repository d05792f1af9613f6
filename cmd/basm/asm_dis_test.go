package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/basm-lang/basm/bytecode"
	"github.com/basm-lang/basm/errors"
)

const countdownSrc = `method public static count (I)V
%loop:
    iload 0
    ifle %done
    iinc 0 -1
    goto %loop
%done:
    return
end`

func TestAsmWritesArtifact(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "count.basmc")

	out, err := execute(t, nil, "asm", "-c", countdownSrc, "-o", path)
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	unit, err := bytecode.Unmarshal(data)
	require.NoError(t, err)

	m, ok := unit.AsMethod()
	require.True(t, ok)
	assert.Equal(t, "count", m.Name())
	assert.Equal(t, 11, m.CodeLen())
}

func TestAsmFieldArtifact(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "max.basmc")

	_, err := execute(t, nil, "asm", "-c", "field public static final MAX I = 100", "-o", path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	unit, err := bytecode.Unmarshal(data)
	require.NoError(t, err)

	f, ok := unit.AsField()
	require.True(t, ok)
	v, ok := f.Value()
	require.True(t, ok)
	assert.Equal(t, int64(100), v.Int)
}

func TestAsmDisRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "count.basmc")

	_, err := execute(t, nil, "asm", "-c", countdownSrc, "-o", path)
	require.NoError(t, err)

	out, err := execute(t, nil, "--color", "never", "dis", path)
	require.NoError(t, err)

	want := "method public static count (I)V\n" +
		"%L0:\n" +
		"    iload 0\n" +
		"    ifle %L1\n" +
		"    iinc 0 -1\n" +
		"    goto %L0\n" +
		"%L1:\n" +
		"    return\n" +
		"end\n"
	assert.Equal(t, want, out)
}

func TestAsmReportsSyntaxErrors(t *testing.T) {
	_, err := execute(t, nil, "--color", "never", "asm", "-c", "method f ()V\n    iloda 1\nend")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "iloda")
}

func TestDisListingTable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "count.basmc")

	_, err := execute(t, nil, "asm", "-c", countdownSrc, "-o", path)
	require.NoError(t, err)

	out, err := execute(t, nil, "--color", "never", "dis", "--listing", path)
	require.NoError(t, err)
	assert.Contains(t, out, "OFFSET")
	assert.Contains(t, out, "iload_0")
	assert.Contains(t, out, "-> 10")
	assert.Contains(t, out, "-> 0")
}

func TestDisListingPlainStyle(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(cfg, []byte("[listing]\nstyle = \"plain\"\n"), 0o644))
	path := filepath.Join(dir, "count.basmc")

	_, err := execute(t, nil, "asm", "-c", countdownSrc, "-o", path)
	require.NoError(t, err)

	out, err := execute(t, nil, "--config", cfg, "--color", "never", "dis", "--listing", path)
	require.NoError(t, err)
	assert.Contains(t, out, "0: iload_0\n")
	assert.Contains(t, out, "-> 10")
	assert.NotContains(t, out, "OFFSET")
}

func TestDisListingRejectsFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "max.basmc")

	_, err := execute(t, nil, "asm", "-c", "field static MAX I", "-o", path)
	require.NoError(t, err)

	_, err = execute(t, nil, "dis", "--listing", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no code listing")
}

func TestDisRejectsMalformedContainer(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.basmc")
	require.NoError(t, os.WriteFile(path, []byte("this is not bytecode"), 0o644))

	_, err := execute(t, nil, "dis", path)
	require.Error(t, err)

	var diag *errors.Diagnostic
	require.ErrorAs(t, err, &diag)
	assert.Equal(t, errors.E4006, diag.Code)
	assert.Contains(t, diag.Message, "bad.basmc")
}
