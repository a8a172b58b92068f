package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/bridgeviz/internal/source"
)

const (
	DefaultVariable  = "U1"
	DefaultMargin    = 0.5
	DefaultRangeMode = "step"
	DefaultTick      = 1.0
	DefaultWidth     = 100
	DefaultHeight    = 32
	DefaultTheme     = "ocean"
	DefaultDataDir   = "bridgeviz-data"
)

type Config struct {
	Source  source.Layout `yaml:"source"`
	Render  RenderConfig  `yaml:"render"`
	View    ViewConfig    `yaml:"view"`
	Log     LogConfig     `yaml:"log"`
	DataDir string        `yaml:"data_dir" validate:"required"`
}

type RenderConfig struct {
	Variable  string  `yaml:"variable"`
	Margin    float64 `yaml:"margin" validate:"gt=0"`
	RangeMode string  `yaml:"range_mode" validate:"oneof=step global"`
	// Tick is the animation interval in seconds.
	Tick float64 `yaml:"tick" validate:"gt=0"`
}

type ViewConfig struct {
	Theme    string  `yaml:"theme"`
	Width    int     `yaml:"width" validate:"gte=20,lte=1000"`
	Height   int     `yaml:"height" validate:"gte=8,lte=500"`
	Labels   bool    `yaml:"labels"`
	Sensors  bool    `yaml:"sensors"`
	Yaw      float64 `yaml:"yaw"`
	Pitch    float64 `yaml:"pitch"`
	Zoom     float64 `yaml:"zoom" validate:"gt=0"`
	PNGScale float64 `yaml:"png_scale" validate:"gt=0"`
}

type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=text json"`
}

func DefaultConfig() *Config {
	return &Config{
		Source: source.DefaultLayout(),
		Render: RenderConfig{
			Variable:  DefaultVariable,
			Margin:    DefaultMargin,
			RangeMode: DefaultRangeMode,
			Tick:      DefaultTick,
		},
		View: ViewConfig{
			Theme:    DefaultTheme,
			Width:    DefaultWidth,
			Height:   DefaultHeight,
			Sensors:  true,
			Yaw:      0.6,
			Pitch:    0.45,
			Zoom:     1,
			PNGScale: 1,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		DataDir: DefaultDataDir,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
