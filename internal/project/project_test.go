package project

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devbot/internal/config"
	"devbot/internal/gitops"
)

func writeFile(t *testing.T, root, name, content string) {
	t.Helper()
	path := filepath.Join(root, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestMetricsCountsSourceFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "main.go", "package main\nfunc main() {}\n")
	writeFile(t, root, "lib/util.ts", "export const x = 1\n")
	writeFile(t, root, "image.png", "not counted")
	writeFile(t, root, "node_modules/dep/index.js", "ignored\n")
	writeFile(t, root, "package.json", `{"dependencies":{"a":"1","b":"2"},"devDependencies":{"c":"3"}}`)

	cfg := config.Config{ProjectRoot: root}
	svc := NewService(cfg, gitops.NewClient(cfg))

	metrics := svc.Metrics(context.Background())
	// main.go, lib/util.ts, package.json; png and node_modules excluded.
	assert.Equal(t, 3, metrics.TotalFiles)
	assert.Equal(t, 1, metrics.Languages[".go"])
	assert.Equal(t, 1, metrics.Languages[".ts"])
	assert.Equal(t, 2, metrics.Dependencies)
	assert.Equal(t, 1, metrics.DevDependencies)
	// Not a git repo: history fields degrade quietly.
	assert.Empty(t, metrics.LastCommit)
	assert.Empty(t, metrics.Contributors)
}

func TestMetricsDegradesOnEmptyRoot(t *testing.T) {
	cfg := config.Config{ProjectRoot: filepath.Join(t.TempDir(), "does-not-exist")}
	svc := NewService(cfg, nil)
	metrics := svc.Metrics(context.Background())
	assert.Zero(t, metrics.TotalFiles)
	assert.Zero(t, metrics.TotalLines)
}

func TestListEnvironments(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".env.production", "API_URL=https://prod.example.com\n# comment\n\nDEBUG=false\n")
	writeFile(t, root, ".env.staging", "API_URL=https://staging.example.com\n")
	writeFile(t, root, ".env", "IGNORED=yes\n")

	svc := NewService(config.Config{ProjectRoot: root, CurrentEnv: "staging"}, nil)
	envs := svc.ListEnvironments()
	require.Len(t, envs, 2)

	assert.Equal(t, "production", envs[0].Name)
	assert.False(t, envs[0].IsActive)
	assert.Equal(t, map[string]string{
		"API_URL": "https://prod.example.com",
		"DEBUG":   "false",
	}, envs[0].Variables)

	assert.Equal(t, "staging", envs[1].Name)
	assert.True(t, envs[1].IsActive)
}

func TestListEnvironmentsNoMarker(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".env.dev", "A=1\n")
	svc := NewService(config.Config{ProjectRoot: root}, nil)
	envs := svc.ListEnvironments()
	require.Len(t, envs, 1)
	assert.False(t, envs[0].IsActive)
}
