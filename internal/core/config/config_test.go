package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	dataDir := t.TempDir()

	cfg, err := Load(filepath.Join(dataDir, "nope.yaml"), dataDir)
	require.NoError(t, err)

	want := DefaultConfig()
	want.DataDir = dataDir
	assert.Equal(t, &want, cfg)
}

func TestLoad_EmptyPathUsesDefaults(t *testing.T) {
	cfg, err := Load("", "/tmp/inn")
	require.NoError(t, err)
	assert.Equal(t, ".inn.yaml", cfg.Extension)
	assert.Equal(t, time.Hour, cfg.Timebox.DefaultBudget)
	assert.Equal(t, "/tmp/inn", cfg.DataDir)
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
extension: .list.yaml
documents_dir: lists
starter_name: welcome
timebox:
  default_budget: 25m
render:
  style: light
  theme: gruvbox
  width: 100
`)

	cfg, err := Load(path, "/data")
	require.NoError(t, err)

	assert.Equal(t, ".list.yaml", cfg.Extension)
	assert.Equal(t, "welcome", cfg.StarterName)
	assert.Equal(t, 25*time.Minute, cfg.Timebox.DefaultBudget)
	assert.Equal(t, "light", cfg.Render.Style)
	assert.Equal(t, "gruvbox", cfg.Render.Theme)
	assert.Equal(t, 100, cfg.Render.Width)
	assert.Equal(t, "/data", cfg.DataDir)
	assert.Equal(t, filepath.Join("/data", "lists"), cfg.DocumentsPath())
}

func TestLoad_ZeroBudgetIsKept(t *testing.T) {
	path := writeConfig(t, "timebox:\n  default_budget: 0s\n")

	cfg, err := Load(path, "/data")
	require.NoError(t, err)
	assert.Zero(t, cfg.Timebox.DefaultBudget)
}

func TestLoad_PartialSectionsFilledByDefaults(t *testing.T) {
	path := writeConfig(t, "render:\n  style: \"\"\nstarter_name: \"\"\n")

	cfg, err := Load(path, "/data")
	require.NoError(t, err)
	assert.Equal(t, "dark", cfg.Render.Style)
	assert.Equal(t, 80, cfg.Render.Width)
	assert.Equal(t, "tokyo-night", cfg.Render.Theme)
	assert.Equal(t, "starter", cfg.StarterName)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{name: "malformed yaml", body: "extension: [", wantErr: "parse config file"},
		{name: "bad extension", body: "extension: yaml", wantErr: "extension"},
		{name: "negative budget", body: "timebox:\n  default_budget: -1m", wantErr: "timebox.default_budget"},
		{name: "unknown style", body: "render:\n  style: neon", wantErr: "render.style"},
		{name: "bad starter name", body: "starter_name: ../x", wantErr: "starter_name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body), "/data")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDocumentsPath(t *testing.T) {
	tests := []struct {
		name string
		dir  string
		want string
	}{
		{name: "default", dir: "", want: "/data"},
		{name: "absolute", dir: "/docs", want: "/docs"},
		{name: "relative", dir: "docs", want: filepath.Join("/data", "docs")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.DataDir = "/data"
			cfg.DocumentsDir = tt.dir
			assert.Equal(t, tt.want, cfg.DocumentsPath())
		})
	}
}

func TestStateFile(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DataDir = "/data"
	assert.Equal(t, filepath.Join("/data", "state.yaml"), cfg.StateFile())
}
