package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up in the standard locations.
const FileName = "phyllo.yaml"

// Load loads configuration with priority: defaults < file < flags.
func Load(o Overrides) (*Config, error) {
	cfg := Default()

	// An explicit path must exist; the standard locations are optional.
	configPath := o.ConfigPath
	if configPath == "" {
		configPath = findConfigFile()
	}

	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", configPath, err)
		}
		cfg.Path = configPath
	}

	o.apply(cfg)

	return cfg, nil
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		"./" + FileName,
		filepath.Join(ConfigDir(), FileName),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "Phyllo")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "Phyllo")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "phyllo")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "phyllo")
	}
}

// loadFromFile loads config from a YAML file, merging with existing values.
// Unknown keys are rejected.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return err
	}
	return overlayVariants(cfg, data)
}

// variantSections mirrors batch.variants with each section left undecoded.
type variantSections struct {
	Batch struct {
		Variants []struct {
			Leaf   yaml.Node `yaml:"leaf"`
			Palm   yaml.Node `yaml:"palm"`
			Trunk  yaml.Node `yaml:"trunk"`
			Flower yaml.Node `yaml:"flower"`
		} `yaml:"variants"`
	} `yaml:"batch"`
}

// overlayVariants re-decodes every variant section on top of a copy of the
// matching top-level section, so keys a variant leaves out keep the preset.
func overlayVariants(cfg *Config, data []byte) error {
	var raw variantSections
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return err
	}
	for i, rv := range raw.Batch.Variants {
		if i >= len(cfg.Batch.Variants) {
			break
		}
		v := &cfg.Batch.Variants[i]
		if err := overlay(&rv.Leaf, cfg.Leaf, &v.Leaf); err != nil {
			return fmt.Errorf("batch.variants[%d].leaf: %w", i, err)
		}
		if err := overlay(&rv.Palm, cfg.Palm, &v.Palm); err != nil {
			return fmt.Errorf("batch.variants[%d].palm: %w", i, err)
		}
		if err := overlay(&rv.Trunk, cfg.Trunk, &v.Trunk); err != nil {
			return fmt.Errorf("batch.variants[%d].trunk: %w", i, err)
		}
		if err := overlay(&rv.Flower, cfg.Flower, &v.Flower); err != nil {
			return fmt.Errorf("batch.variants[%d].flower: %w", i, err)
		}
	}
	return nil
}

// overlay decodes n over a copy of base into *dst. Absent or null sections
// leave *dst untouched.
func overlay[T any](n *yaml.Node, base T, dst **T) error {
	if n.Kind == 0 || n.Tag == "!!null" {
		return nil
	}
	merged := base
	if err := n.Decode(&merged); err != nil {
		return err
	}
	*dst = &merged
	return nil
}
