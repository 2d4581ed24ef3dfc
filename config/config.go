package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/soocke/cellcount-go/domain/classify"
)

// DefaultPath is the configuration file used when none is given.
const DefaultPath = "cellcount.json"

// Config holds runtime configuration for the demo and the analyze command.
// Fields may be loaded from a JSON or YAML file and overridden by
// command-line flags.
type Config struct {
	Debug bool `json:"debug" yaml:"debug"`
	// Classifier preselected in the UI.
	DefaultClassifier string `json:"default_classifier" yaml:"default_classifier"`

	// Mock classifier latency bounds
	MinDelayMs int `json:"min_delay_ms" yaml:"min_delay_ms"`
	MaxDelayMs int `json:"max_delay_ms" yaml:"max_delay_ms"`

	AnimationMs      int `json:"animation_ms" yaml:"animation_ms"`
	ResizeDebounceMs int `json:"resize_debounce_ms" yaml:"resize_debounce_ms"`
	FrameIntervalMs  int `json:"frame_interval_ms" yaml:"frame_interval_ms"`

	PreviewMaxW int `json:"preview_max_w" yaml:"preview_max_w"`
	PreviewMaxH int `json:"preview_max_h" yaml:"preview_max_h"`
	WindowW     int `json:"window_w" yaml:"window_w"`
	WindowH     int `json:"window_h" yaml:"window_h"`

	// Seed for the random sources; zero picks a random seed per run.
	Seed uint64 `json:"seed" yaml:"seed"`
}

// DefaultConfig returns a Config populated with standard defaults.
func DefaultConfig() *Config {
	return &Config{
		Debug:             false,
		DefaultClassifier: string(classify.KNNCosine),
		MinDelayMs:        2000,
		MaxDelayMs:        3000,
		AnimationMs:       1500,
		ResizeDebounceMs:  250,
		FrameIntervalMs:   16,
		PreviewMaxW:       720,
		PreviewMaxH:       520,
		WindowW:           1100,
		WindowH:           680,
		Seed:              0,
	}
}

// Validate clamps/normalizes values to safe ranges.
func (c *Config) Validate() error {
	d := DefaultConfig()
	if id, ok := classify.ParseClassifier(c.DefaultClassifier); ok {
		c.DefaultClassifier = string(id)
	} else {
		c.DefaultClassifier = d.DefaultClassifier
	}
	if c.MinDelayMs < 0 {
		c.MinDelayMs = 0
	}
	if c.MaxDelayMs < c.MinDelayMs {
		c.MaxDelayMs = c.MinDelayMs
	}
	if c.AnimationMs < 0 {
		c.AnimationMs = d.AnimationMs
	}
	if c.ResizeDebounceMs < 0 {
		c.ResizeDebounceMs = d.ResizeDebounceMs
	}
	if c.FrameIntervalMs <= 0 || c.FrameIntervalMs > 1000 {
		c.FrameIntervalMs = d.FrameIntervalMs
	}
	if c.PreviewMaxW < 64 {
		c.PreviewMaxW = d.PreviewMaxW
	}
	if c.PreviewMaxH < 64 {
		c.PreviewMaxH = d.PreviewMaxH
	}
	if c.WindowW < 320 {
		c.WindowW = d.WindowW
	}
	if c.WindowH < 240 {
		c.WindowH = d.WindowH
	}
	return nil
}

// Classifier returns the validated default classifier id.
func (c *Config) Classifier() classify.ClassifierID {
	id, ok := classify.ParseClassifier(c.DefaultClassifier)
	if !ok {
		return classify.KNNCosine
	}
	return id
}

func (c *Config) MinDelay() time.Duration       { return ms(c.MinDelayMs) }
func (c *Config) MaxDelay() time.Duration       { return ms(c.MaxDelayMs) }
func (c *Config) Animation() time.Duration      { return ms(c.AnimationMs) }
func (c *Config) ResizeDebounce() time.Duration { return ms(c.ResizeDebounceMs) }
func (c *Config) FrameInterval() time.Duration  { return ms(c.FrameIntervalMs) }

func ms(n int) time.Duration { return time.Duration(n) * time.Millisecond }

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// Load attempts to read configuration from the given file path. Paths ending
// in .yaml or .yml are parsed as YAML, everything else as JSON. If the file
// does not exist it returns DefaultConfig(). On parse error it returns
// defaults with the error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	defer f.Close()
	if isYAML(path) {
		err = yaml.NewDecoder(f).Decode(cfg)
	} else {
		err = json.NewDecoder(f).Decode(cfg)
	}
	if err != nil {
		return DefaultConfig(), fmt.Errorf("parse %s: %w", path, err)
	}
	_ = cfg.Validate()
	return cfg, nil
}

// Save writes the configuration to the given path, as YAML or JSON by
// extension.
func (c *Config) Save(path string) error {
	_ = c.Validate()
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if isYAML(path) {
		enc := yaml.NewEncoder(f)
		enc.SetIndent(2)
		if err := enc.Encode(c); err != nil {
			return err
		}
		return enc.Close()
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(c)
}
