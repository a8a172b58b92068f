package config

import (
	"slices"

	"github.com/san-kum/bridgeviz/internal/source"
)

// Presets are complete configurations for the known input layouts.
var Presets = map[string]func() *Config{
	// bridge reads the structural model workbooks as exported by the
	// analysis: geometry in data.xlsx, results and sensors in Data_.xlsx.
	"bridge": DefaultConfig,
	"csv": func() *Config {
		cfg := DefaultConfig()
		cfg.Source.Format = source.FormatCSV
		cfg.Source.Variables = nil
		cfg.Source.Steps = 0
		cfg.Render.Variable = ""
		return cfg
	},
	"demo": func() *Config {
		cfg := DefaultConfig()
		cfg.Source.Format = source.FormatDemo
		cfg.Render.RangeMode = "global"
		cfg.View.Labels = true
		return cfg
	},
	"global": func() *Config {
		cfg := DefaultConfig()
		cfg.Render.RangeMode = "global"
		return cfg
	},
}

func GetPreset(name string) *Config {
	fn, ok := Presets[name]
	if !ok {
		return nil
	}
	return fn()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
