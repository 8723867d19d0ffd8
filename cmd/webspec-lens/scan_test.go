package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/webspec-lens/webspec-lens/internal/log"
)

const testRegistry = `
specs:
  - spec: HTML
    base_url: https://html.spec.whatwg.org
sections:
  - spec: HTML
    anchor: navigate
    title: Navigate
    type: Algorithm
    content: |
      1. First step.
      2. Second step.
`

func writeTemp(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRunScan_MissingRegistry(t *testing.T) {
	cfg := &scanConfig{logConfig: log.NewConfig()}
	err := runScan(cfg, []string{"whatever.cpp"})
	assert.ErrorIs(t, err, ErrMissingRegistry)
}

func TestRunScan_ReportsGaps(t *testing.T) {
	dir := t.TempDir()
	registryPath := writeTemp(t, dir, "registry.yaml", testRegistry)
	srcPath := writeTemp(t, dir, "main.cpp",
		"// See https://html.spec.whatwg.org/multipage/browsing-the-web.html#navigate\n"+
			"// Step 1. First step.\n")

	cfg := &scanConfig{logConfig: log.NewConfig(), registryPath: registryPath, fuzzyThreshold: 0.85}
	err := runScan(cfg, []string{srcPath})
	assert.Error(t, err) // step 2 is missing
}

func TestRunScan_FullCoverageSucceeds(t *testing.T) {
	dir := t.TempDir()
	registryPath := writeTemp(t, dir, "registry.yaml", testRegistry)
	srcPath := writeTemp(t, dir, "main.cpp",
		"// See https://html.spec.whatwg.org/multipage/browsing-the-web.html#navigate\n"+
			"// Step 1. First step.\n"+
			"// Step 2. Second step.\n")

	cfg := &scanConfig{logConfig: log.NewConfig(), registryPath: registryPath, fuzzyThreshold: 0.85}
	err := runScan(cfg, []string{srcPath})
	assert.NoError(t, err)
}

func TestRunScan_MissingFileErrors(t *testing.T) {
	dir := t.TempDir()
	registryPath := writeTemp(t, dir, "registry.yaml", testRegistry)

	cfg := &scanConfig{logConfig: log.NewConfig(), registryPath: registryPath}
	err := runScan(cfg, []string{filepath.Join(dir, "nope.cpp")})
	assert.Error(t, err)
}
