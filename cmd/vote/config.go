package main

import (
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the optional YAML configuration file every subcommand
// accepts via --config (SPEC_FULL.md §C), modeled on dshills/dungo's
// theme-pack config structs: typed fields, commented, hand-editable,
// sane zero values when absent.
type Config struct {
	// Workers sizes the workqueue pool used by accuracy, robustness, and
	// mnist. Zero means "let workqueue.Run pick 1". throughput takes its
	// pool size from its own --workers flag instead.
	Workers int `yaml:"workers,omitempty"`

	// Epsilon is the default perturbation radius robustness uses when the
	// command line doesn't override it.
	Epsilon float64 `yaml:"epsilon,omitempty"`

	// AcasXuOverrides replaces entries in the built-in ACAS-Xu property
	// catalogue (cmd/vote/acasxu.go) by property index.
	AcasXuOverrides map[int]AcasXuProperty `yaml:"acasxu_overrides,omitempty"`

	// Render holds iospace's SVG defaults. iospace reads Width and
	// Height; XDim and YDim are decoded but not read, since iospace
	// takes the plotted dimensions from its --x-dim and --y-dim flags.
	Render struct {
		Width  int `yaml:"width,omitempty"`
		Height int `yaml:"height,omitempty"`
		XDim   int `yaml:"x_dim,omitempty"`
		YDim   int `yaml:"y_dim,omitempty"`
	} `yaml:"render,omitempty"`
}

// loadConfig reads path as YAML into a Config. An empty path returns
// the zero Config, which every subcommand treats as "use built-in
// defaults."
func loadConfig(path string) (*Config, error) {
	cfg := &Config{}
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
