package settings

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
	"github.com/google/jsonschema-go/jsonschema"
	"github.com/google/shlex"
)

// Sentinel errors returned by this package.
var (
	ErrInvalidSettings = errors.New("invalid settings")
	ErrReadSettings    = errors.New("read settings")
)

// CargoEnv is the environment variable cargo sets to its own path when it
// runs a subcommand.
const CargoEnv = "CARGO"

// Settings are the values read from the settings file.
type Settings struct {
	Cargo         string `json:"cargo,omitempty" yaml:"cargo,omitempty" jsonschema:"path to the cargo binary"`
	Heaptrack     string `json:"heaptrack,omitempty" yaml:"heaptrack,omitempty" jsonschema:"path to the heaptrack binary"`
	HeaptrackArgs string `json:"heaptrackArgs,omitempty" yaml:"heaptrackArgs,omitempty" jsonschema:"extra heaptrack arguments split like a shell would"`
}

// Schema returns the JSON Schema settings documents must satisfy.
func Schema() (*jsonschema.Schema, error) {
	s, err := jsonschema.For[Settings](nil)
	if err != nil {
		return nil, fmt.Errorf("infer settings schema: %w", err)
	}

	s.Schema = "https://json-schema.org/draft/2020-12/schema"
	s.Title = "cargo-heaptrack settings"

	return s, nil
}

// DefaultPath returns the settings file looked up when none is given:
// cargo-heaptrack/config.yaml under the user configuration directory.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}

	return filepath.Join(dir, "cargo-heaptrack", "config.yaml")
}

// Load reads the settings file at path. A missing file yields empty settings
// when optional is set, which is how the default path is treated.
func Load(path string, optional bool) (*Settings, error) {
	if path == "" {
		return &Settings{}, nil
	}

	data, err := os.ReadFile(path) //nolint:gosec // Settings path from CLI flag is expected.
	if err != nil {
		if optional && errors.Is(err, fs.ErrNotExist) {
			return &Settings{}, nil
		}

		return nil, fmt.Errorf("%w: %w", ErrReadSettings, err)
	}

	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return s, nil
}

// Parse validates and decodes a YAML settings document. An empty document
// yields empty settings.
func Parse(data []byte) (*Settings, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return &Settings{}, nil
	}

	var doc any

	err := yaml.Unmarshal(data, &doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSettings, err)
	}

	if doc == nil {
		return &Settings{}, nil
	}

	schema, err := Schema()
	if err != nil {
		return nil, err
	}

	resolved, err := schema.Resolve(nil)
	if err != nil {
		return nil, fmt.Errorf("resolve settings schema: %w", err)
	}

	err = resolved.Validate(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSettings, err)
	}

	var s Settings

	err = yaml.Unmarshal(data, &s)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSettings, err)
	}

	return &s, nil
}

// CargoBinary returns the cargo binary to run: the configured one, else the
// value of getenv([CargoEnv]), else "cargo".
func (s *Settings) CargoBinary(getenv func(string) string) string {
	if s.Cargo != "" {
		return s.Cargo
	}

	if v := getenv(CargoEnv); v != "" {
		return v
	}

	return "cargo"
}

// HeaptrackBinary returns the heaptrack binary to run.
func (s *Settings) HeaptrackBinary() string {
	if s.Heaptrack != "" {
		return s.Heaptrack
	}

	return "heaptrack"
}

// ExtraHeaptrackArgs splits HeaptrackArgs into arguments.
func (s *Settings) ExtraHeaptrackArgs() ([]string, error) {
	if s.HeaptrackArgs == "" {
		return nil, nil
	}

	args, err := shlex.Split(s.HeaptrackArgs)
	if err != nil {
		return nil, fmt.Errorf("%w: heaptrackArgs: %w", ErrInvalidSettings, err)
	}

	return args, nil
}
