// Package config loads the optional markguard.yaml project configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// FileName is the project-level config file looked up under the project root.
const FileName = "markguard.yaml"

// Config is the complete markguard configuration. Every component receives
// its inputs from here; nothing reads the working directory or environment
// on its own.
type Config struct {
	// Ecosystem overrides auto-detection ("nextjs", "react", "vue", "html").
	Ecosystem string `yaml:"ecosystem"`
	// Ignore lists extra glob patterns (doublestar syntax) pruned from the
	// source set, e.g. "**/generated/**".
	Ignore []string `yaml:"ignore"`
	// ReportDir is where reports are written, relative to the project root.
	ReportDir string `yaml:"reportDir"`
	// HandlerTimeout bounds a single fix handler invocation.
	HandlerTimeout time.Duration `yaml:"handlerTimeout"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Ecosystem:      "",
		Ignore:         nil,
		ReportDir:      ".markguard",
		HandlerTimeout: 10 * time.Second,
	}
}

// UnmarshalYAML decodes over whatever defaults c already holds, so unset
// fields keep their default values. handlerTimeout accepts Go duration
// syntax ("30s"), which yaml does not decode into time.Duration natively.
func (c *Config) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		Ecosystem      string   `yaml:"ecosystem"`
		Ignore         []string `yaml:"ignore"`
		ReportDir      string   `yaml:"reportDir"`
		HandlerTimeout string   `yaml:"handlerTimeout"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}

	if raw.Ecosystem != "" {
		c.Ecosystem = raw.Ecosystem
	}
	if raw.Ignore != nil {
		c.Ignore = raw.Ignore
	}
	if raw.ReportDir != "" {
		c.ReportDir = raw.ReportDir
	}
	if raw.HandlerTimeout != "" {
		d, err := time.ParseDuration(raw.HandlerTimeout)
		if err != nil {
			return fmt.Errorf("handlerTimeout: %w", err)
		}
		c.HandlerTimeout = d
	}
	return nil
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	switch c.Ecosystem {
	case "", "nextjs", "react", "vue", "html":
	default:
		return fmt.Errorf("ecosystem %q is not one of nextjs, react, vue, html", c.Ecosystem)
	}
	if c.ReportDir == "" {
		return fmt.Errorf("reportDir must not be empty")
	}
	if c.HandlerTimeout <= 0 {
		return fmt.Errorf("handlerTimeout must be positive")
	}
	return nil
}

// Load reads markguard.yaml from the project root, falling back to defaults
// when the file is absent. A present but malformed file is an error; silent
// misconfiguration is worse than a crash here.
func Load(projectRoot string) (*Config, error) {
	cfg := DefaultConfig()

	path := filepath.Join(projectRoot, FileName)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", FileName, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", FileName, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", FileName, err)
	}
	return cfg, nil
}
