package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusCommand(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	dataset := filepath.Join(dir, "items.yaml")
	require.NoError(t, os.WriteFile(dataset, []byte("- id: a\n  triplet: Hello there\n- id: b\n  triplet: Bye\n"), 0o644))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"status", "--dataset", dataset, "--store", "file", "--out", filepath.Join(dir, "out"), "--triples=2"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "items:     2\n")
	assert.Contains(t, out.String(), "remaining: 2\n")
}

func TestConfigFlagRejectsBadTriples(t *testing.T) {
	t.Chdir(t.TempDir())

	rootCmd.SetArgs([]string{"status", "--triples=-2"})
	rootCmd.SetErr(&bytes.Buffer{})
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetErr(nil)
	})

	err := rootCmd.Execute()
	assert.ErrorContains(t, err, "num_triples")
}
