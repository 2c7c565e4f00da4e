package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestConfigDirEnv(t *testing.T) {
	t.Setenv("TATEDIT_CONFIG_HOME", "/tmp/tatedit-config")
	dir, err := ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir error: %v", err)
	}
	if dir != "/tmp/tatedit-config" {
		t.Fatalf("ConfigDir = %q, want %q", dir, "/tmp/tatedit-config")
	}

	t.Setenv("TATEDIT_CONFIG_HOME", "")
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	dir, err = ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir error: %v", err)
	}
	if dir != "/tmp/xdg/tatedit" {
		t.Fatalf("ConfigDir = %q, want %q", dir, "/tmp/xdg/tatedit")
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TATEDIT_CONFIG_HOME", dir)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Editor.GridRows != 40 || cfg.Editor.GridCols != 40 {
		t.Fatalf("grid = %dx%d, want 40x40", cfg.Editor.GridRows, cfg.Editor.GridCols)
	}
	if !cfg.Editor.GridVisible() {
		t.Fatalf("GridVisible = false, want true")
	}
	if cfg.Theme.Theme != "soft_light" {
		t.Fatalf("Theme = %q, want %q", cfg.Theme.Theme, "soft_light")
	}
}

func TestLoadWithThemeAndOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TATEDIT_CONFIG_HOME", dir)

	writeFile(t, filepath.Join(dir, "config.toml"), `
[editor]
grid-rows = 20
grid-cols = 30
show-grid = "off"
autosave-interval-sec = 60

[theme]
theme = "soft_dark"
statusline-background = "#123456"
`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Editor.GridRows != 20 {
		t.Fatalf("GridRows = %d, want 20", cfg.Editor.GridRows)
	}
	if cfg.Editor.GridCols != 30 {
		t.Fatalf("GridCols = %d, want 30", cfg.Editor.GridCols)
	}
	if cfg.Editor.GridVisible() {
		t.Fatalf("GridVisible = true, want false")
	}
	if cfg.Editor.AutosaveIntervalSec != 60 {
		t.Fatalf("AutosaveIntervalSec = %d, want 60", cfg.Editor.AutosaveIntervalSec)
	}
	if cfg.Theme.Background != "#20262E" {
		t.Fatalf("Background = %q, want %q", cfg.Theme.Background, "#20262E")
	}
	if cfg.Theme.StatuslineBackground != "#123456" {
		t.Fatalf("StatuslineBackground = %q, want %q", cfg.Theme.StatuslineBackground, "#123456")
	}
}

func TestLoadClampsGrid(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TATEDIT_CONFIG_HOME", dir)

	writeFile(t, filepath.Join(dir, "config.toml"), `
[editor]
grid-rows = 3
grid-cols = 500
`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Editor.GridRows != 8 {
		t.Fatalf("GridRows = %d, want 8", cfg.Editor.GridRows)
	}
	if cfg.Editor.GridCols != 80 {
		t.Fatalf("GridCols = %d, want 80", cfg.Editor.GridCols)
	}
}

func TestLoadThemeFileOverridesBuiltin(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TATEDIT_CONFIG_HOME", dir)

	writeFile(t, filepath.Join(dir, "theme", "soft_dark.toml"), `
foreground = "#aaaaaa"
`)

	theme, err := LoadTheme("soft_dark")
	if err != nil {
		t.Fatalf("LoadTheme error: %v", err)
	}
	if theme.Foreground != "#aaaaaa" {
		t.Fatalf("Foreground = %q, want %q", theme.Foreground, "#aaaaaa")
	}
	if theme.Background != "#20262E" {
		t.Fatalf("Background = %q, want %q", theme.Background, "#20262E")
	}
}

func TestLoadUnknownThemeFallsBack(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TATEDIT_CONFIG_HOME", dir)

	theme, err := LoadTheme("no_such_theme")
	if err != nil {
		t.Fatalf("LoadTheme error: %v", err)
	}
	if theme.Theme != "soft_light" {
		t.Fatalf("Theme = %q, want fallback %q", theme.Theme, "soft_light")
	}

	writeFile(t, filepath.Join(dir, "config.toml"), `
[theme]
theme = "no_such_theme"
`)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Theme.Background == "" {
		t.Fatalf("unknown theme left the palette empty")
	}
}

func TestLoadThemeWrapped(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TATEDIT_CONFIG_HOME", dir)

	writeFile(t, filepath.Join(dir, "theme", "wrapped.toml"), `
[theme]
foreground = "#aaaaaa"
background = "#bbbbbb"
`)

	theme, err := LoadTheme("wrapped")
	if err != nil {
		t.Fatalf("LoadTheme error: %v", err)
	}
	if theme.Foreground != "#aaaaaa" {
		t.Fatalf("Foreground = %q, want %q", theme.Foreground, "#aaaaaa")
	}
	if theme.Background != "#bbbbbb" {
		t.Fatalf("Background = %q, want %q", theme.Background, "#bbbbbb")
	}
}
