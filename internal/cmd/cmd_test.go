package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestGenAndList(t *testing.T) {
	root := t.TempDir()
	out := filepath.Join(t.TempDir(), "copy.png")

	got, err := run(t, "gen", "--root", root, "--data", "hello", "--name", "greet", "--out", out)
	require.NoError(t, err)
	assert.Contains(t, got, "Generated:")
	assert.Contains(t, got, "URL: http://localhost:5000/qr_codes/greet.png")

	_, err = os.Stat(filepath.Join(root, "static", "qr_codes", "greet.png"))
	assert.NoError(t, err)
	_, err = os.Stat(out)
	assert.NoError(t, err)

	got, err = run(t, "gen", "--root", root, "--data", "hello", "--name", "greet", "--out", out)
	require.NoError(t, err)
	assert.Contains(t, got, "Reused:")

	got, err = run(t, "ls", "--root", root)
	require.NoError(t, err)
	assert.Contains(t, got, "greet.png")
	assert.Contains(t, got, "hello")
}

func TestLsFailsOnMalformedMapping(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "qr_codes.json"), []byte("{broken"), 0644))

	_, err := run(t, "ls", "--root", root)
	assert.Error(t, err)
}

func TestConfigPrintsYAML(t *testing.T) {
	got, err := run(t, "config", "--root", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, got, "listen: 127.0.0.1:5000")
	assert.Contains(t, got, "module_pixels: 10")
}

func TestVersion(t *testing.T) {
	got, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, got, "qrdrop dev")
}
