package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/yomogi/tatedit/internal/layout"
)

type EditorOptions struct {
	GridRows            int    `toml:"grid-rows"`
	GridCols            int    `toml:"grid-cols"`
	ShowGrid            string `toml:"show-grid"`
	AutosaveIntervalSec int    `toml:"autosave-interval-sec"`
	DailyTargetChars    int    `toml:"daily-target-chars"`
}

type Theme struct {
	Theme                  string `toml:"theme"`
	Foreground             string `toml:"foreground"`
	Background             string `toml:"background"`
	PageBackground         string `toml:"page-background"`
	GridLineForeground     string `toml:"grid-line-foreground"`
	SelectionForeground    string `toml:"selection-foreground"`
	SelectionBackground    string `toml:"selection-background"`
	SearchPromptForeground string `toml:"search-prompt-foreground"`
	SearchPromptBackground string `toml:"search-prompt-background"`
	StatuslineForeground   string `toml:"statusline-foreground"`
	StatuslineBackground   string `toml:"statusline-background"`
	CommandlineForeground  string `toml:"commandline-foreground"`
	CommandlineBackground  string `toml:"commandline-background"`
	PreeditForeground      string `toml:"preedit-foreground"`
	PreeditBackground      string `toml:"preedit-background"`
}

type Config struct {
	Editor EditorOptions `toml:"editor"`
	Theme  Theme         `toml:"theme"`
}

func Default() Config {
	return Config{
		Editor: EditorOptions{
			GridRows:            40,
			GridCols:            40,
			ShowGrid:            "on",
			AutosaveIntervalSec: 15,
			DailyTargetChars:    2000,
		},
		Theme: softLight(),
	}
}

// softLight is the default palette, warm paper tones for long sessions.
func softLight() Theme {
	return Theme{
		Theme:                  "soft_light",
		Foreground:             "#3A2D24",
		Background:             "#F3E9DE",
		PageBackground:         "#FFFAF4",
		GridLineForeground:     "#D8C6B2",
		SelectionForeground:    "#3A2D24",
		SelectionBackground:    "#D7E3F5",
		SearchPromptForeground: "#3A2D24",
		SearchPromptBackground: "#EBD9BE",
		StatuslineForeground:   "#3A2D24",
		StatuslineBackground:   "#E3D5C4",
		CommandlineForeground:  "#3A2D24",
		CommandlineBackground:  "#E3D5C4",
		PreeditForeground:      "#7C4F2F",
		PreeditBackground:      "#F0E2CC",
	}
}

func softDark() Theme {
	return Theme{
		Theme:                  "soft_dark",
		Foreground:             "#DCE3EC",
		Background:             "#20262E",
		PageBackground:         "#2A313B",
		GridLineForeground:     "#46515F",
		SelectionForeground:    "#DCE3EC",
		SelectionBackground:    "#4D6EA1",
		SearchPromptForeground: "#DCE3EC",
		SearchPromptBackground: "#39404B",
		StatuslineForeground:   "#DCE3EC",
		StatuslineBackground:   "#161B21",
		CommandlineForeground:  "#DCE3EC",
		CommandlineBackground:  "#161B21",
		PreeditForeground:      "#8BB7FF",
		PreeditBackground:      "#33415A",
	}
}

func Load() (Config, error) {
	cfg := Default()
	path, err := ConfigPath()
	if err != nil {
		return cfg, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	var userCfg Config
	if _, err := toml.Decode(string(data), &userCfg); err != nil {
		return cfg, err
	}

	if userCfg.Editor.GridRows > 0 {
		cfg.Editor.GridRows = userCfg.Editor.GridRows
	}
	if userCfg.Editor.GridCols > 0 {
		cfg.Editor.GridCols = userCfg.Editor.GridCols
	}
	if userCfg.Editor.ShowGrid != "" {
		cfg.Editor.ShowGrid = userCfg.Editor.ShowGrid
	}
	if userCfg.Editor.AutosaveIntervalSec > 0 {
		cfg.Editor.AutosaveIntervalSec = userCfg.Editor.AutosaveIntervalSec
	}
	if userCfg.Editor.DailyTargetChars > 0 {
		cfg.Editor.DailyTargetChars = userCfg.Editor.DailyTargetChars
	}

	if userCfg.Theme.Theme != "" {
		cfg.Theme.Theme = userCfg.Theme.Theme
	}
	if cfg.Theme.Theme != "" {
		theme, err := LoadTheme(cfg.Theme.Theme)
		if err != nil {
			return cfg, err
		}
		mergeTheme(&cfg.Theme, theme)
	}
	mergeTheme(&cfg.Theme, userCfg.Theme)

	cfg.Editor.GridRows, cfg.Editor.GridCols = layout.ClampGrid(cfg.Editor.GridRows, cfg.Editor.GridCols)
	return cfg, nil
}

// GridVisible reports whether the cell grid lines should be drawn.
func (o EditorOptions) GridVisible() bool {
	return o.ShowGrid != "off"
}

func mergeTheme(dst *Theme, src Theme) {
	if src.Foreground != "" {
		dst.Foreground = src.Foreground
	}
	if src.Background != "" {
		dst.Background = src.Background
	}
	if src.PageBackground != "" {
		dst.PageBackground = src.PageBackground
	}
	if src.GridLineForeground != "" {
		dst.GridLineForeground = src.GridLineForeground
	}
	if src.SelectionForeground != "" {
		dst.SelectionForeground = src.SelectionForeground
	}
	if src.SelectionBackground != "" {
		dst.SelectionBackground = src.SelectionBackground
	}
	if src.SearchPromptForeground != "" {
		dst.SearchPromptForeground = src.SearchPromptForeground
	}
	if src.SearchPromptBackground != "" {
		dst.SearchPromptBackground = src.SearchPromptBackground
	}
	if src.StatuslineForeground != "" {
		dst.StatuslineForeground = src.StatuslineForeground
	}
	if src.StatuslineBackground != "" {
		dst.StatuslineBackground = src.StatuslineBackground
	}
	if src.CommandlineForeground != "" {
		dst.CommandlineForeground = src.CommandlineForeground
	}
	if src.CommandlineBackground != "" {
		dst.CommandlineBackground = src.CommandlineBackground
	}
	if src.PreeditForeground != "" {
		dst.PreeditForeground = src.PreeditForeground
	}
	if src.PreeditBackground != "" {
		dst.PreeditBackground = src.PreeditBackground
	}
}

func ThemePath(name string) (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "theme", name+".toml"), nil
}

// LoadTheme resolves a theme name to a palette. Builtin names work
// without any file on disk; a theme file in the config directory
// overrides the builtin of the same name. A name that matches neither
// falls back to the default palette rather than failing startup.
func LoadTheme(name string) (Theme, error) {
	base := Theme{}
	switch name {
	case "soft_light":
		base = softLight()
	case "soft_dark":
		base = softDark()
	}
	path, err := ThemePath(name)
	if err != nil {
		return base, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			if base.Theme == "" {
				base = softLight()
			}
			return base, nil
		}
		return base, err
	}
	var t Theme
	if _, err := toml.Decode(string(data), &t); err == nil && t != (Theme{}) {
		mergeTheme(&base, t)
		return base, nil
	}
	var wrap struct {
		Theme Theme `toml:"theme"`
	}
	if _, err := toml.Decode(string(data), &wrap); err != nil {
		return base, err
	}
	mergeTheme(&base, wrap.Theme)
	return base, nil
}

func ConfigDir() (string, error) {
	if v := os.Getenv("TATEDIT_CONFIG_HOME"); v != "" {
		return filepath.Join(v), nil
	}
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "tatedit"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "tatedit"), nil
}

func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}
