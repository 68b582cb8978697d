package lint

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFiles are looked up in the root directory, in order, when no
// configuration path is given.
var DefaultConfigFiles = []string{".pystyle.yaml", ".pystyle.yml", ".pystyle.toml"}

// DefaultTestFile is skipped during directory traversal.
const DefaultTestFile = "tests.py"

// Config represents the project configuration.
type Config struct {
	Name string `yaml:"name" toml:"name"`
	// Exclude lists path globs skipped while walking directories.
	Exclude  []string `yaml:"exclude,omitempty" toml:"exclude,omitempty"`
	TestFile string   `yaml:"test-file" toml:"test-file"`
	// Workers bounds how many files are checked at once; zero means one per CPU.
	Workers int  `yaml:"workers" toml:"workers"`
	Noqa    bool `yaml:"noqa" toml:"noqa"`
}

func DefaultConfig() Config {
	return Config{
		Name:     "pystyle",
		Exclude:  []string{".git", ".venv", "venv", "__pycache__"},
		TestFile: DefaultTestFile,
	}
}

// LoadConfig reads the configuration at path. With an empty path it looks
// for one of DefaultConfigFiles under rootDir and falls back to
// DefaultConfig when none exists.
func LoadConfig(rootDir, path string) (Config, error) {
	if path == "" {
		for _, name := range DefaultConfigFiles {
			candidate := filepath.Join(rootDir, name)
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
				break
			}
		}
		if path == "" {
			return DefaultConfig(), nil
		}
	}
	return parseConfigurationFile(path)
}

func parseConfigurationFile(path string) (Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return config, fmt.Errorf("error reading config file: %w", err)
	}

	if isTOML(path) {
		meta, err := toml.Decode(string(data), &config)
		if err != nil {
			return config, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			return config, fmt.Errorf("%s: unknown key %q", path, undecoded[0].String())
		}
	} else {
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		if err := decoder.Decode(&config); err != nil && !errors.Is(err, io.EOF) {
			return config, fmt.Errorf("%s: failed to parse YAML: %w", path, err)
		}
	}

	if err := config.validate(); err != nil {
		return config, fmt.Errorf("%s: %w", path, err)
	}
	return config, nil
}

func (c Config) validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	for _, pattern := range c.Exclude {
		if _, err := filepath.Match(pattern, ""); err != nil {
			return fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}
	}
	return nil
}

// WriteConfig writes config to path, as TOML or YAML depending on the extension.
func WriteConfig(path string, config Config) error {
	var buf bytes.Buffer
	if isTOML(path) {
		if err := toml.NewEncoder(&buf).Encode(config); err != nil {
			return fmt.Errorf("error encoding config: %w", err)
		}
	} else {
		encoder := yaml.NewEncoder(&buf)
		encoder.SetIndent(2)
		if err := encoder.Encode(config); err != nil {
			return fmt.Errorf("error encoding config: %w", err)
		}
		if err := encoder.Close(); err != nil {
			return fmt.Errorf("error encoding config: %w", err)
		}
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}
	return nil
}

func isTOML(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".toml")
}
