// Package config loads jnicall.yaml and holds the package-name registry
// read by export renaming.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/dhamidi/jnicall/codegen"
)

const FileName = "jnicall.yaml"

type Config struct {
	// Package is the Java package exported functions belong to.
	Package    string `yaml:"package"`
	Bridge     string `yaml:"bridge"`
	BridgeName string `yaml:"bridge_name"`
	Marker     string `yaml:"marker"`
	BuildTag   string `yaml:"build_tag"`
	Suffix     string `yaml:"suffix"`
}

func Default() *Config {
	return &Config{
		Bridge:     codegen.DefaultBridge,
		BridgeName: "jni",
		Marker:     "jnicall.Call",
		BuildTag:   "jnicall",
		Suffix:     "_gen.go",
	}
}

// Parse validates data against the schema and fills the unset fields with
// defaults.
func Parse(data []byte) (*Config, error) {
	if err := ValidateSchema(data); err != nil {
		return nil, fmt.Errorf("schema validation: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}
	return cfg, nil
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading configuration: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Find loads jnicall.yaml from dir or the closest parent that has one.
// Without a file it returns the defaults.
func Find(dir string) (*Config, string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return nil, "", fmt.Errorf("resolving %s: %w", dir, err)
	}
	for {
		path := filepath.Join(dir, FileName)
		cfg, err := Load(path)
		if err == nil {
			return cfg, path, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, "", err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return Default(), "", nil
		}
		dir = parent
	}
}

// Options returns the rendering options for generated code.
func (c *Config) Options(env string) codegen.Options {
	return codegen.Options{
		Bridge:     c.Bridge,
		BridgeName: c.BridgeName,
		Env:        env,
	}
}
