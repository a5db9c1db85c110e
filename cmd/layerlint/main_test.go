package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modulant/servicelayer"
)

func writeManifest(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func runLint(args ...string) (string, error) {
	root := newRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestValidateAcceptsResolvableManifest(t *testing.T) {
	path := writeManifest(t, "layer.yaml", `
packages:
  - name: geo
    services:
      - name: store
        provides:
          - interface: geo.Store
      - name: api
        requires:
          - interface: geo.Store
    references:
      - interface: geo.Store
`)

	out, err := runLint("validate", path)
	require.NoError(t, err)
	assert.Contains(t, out, "OK: 1 package(s) validated")
}

func TestValidateRejectsMissingProvider(t *testing.T) {
	path := writeManifest(t, "layer.yaml", `
packages:
  - name: geo
    services:
      - name: api
        requires:
          - interface: geo.Store
`)

	_, err := runLint("validate", path)
	require.Error(t, err)
	assert.ErrorIs(t, err, servicelayer.ErrDependencyNotResolvable)
}

func TestValidateRejectsUnreadableManifest(t *testing.T) {
	_, err := runLint("validate", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
