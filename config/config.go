// Package config loads codec settings.
//
// Settings come from a single YAML file passed explicitly; the only
// override is the DCXML_MAX_ITEMS environment variable.
//
//	maxItems: 10000
//	indent: "  "
//	namespaces:
//	  example.com/geo: urn:geo
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/goccy/go-yaml"
)

// DefaultMaxItems bounds the number of elements one serialize call may write.
const DefaultMaxItems = 65536

// MaxItemsEnv overrides Settings.MaxItems when set.
const MaxItemsEnv = "DCXML_MAX_ITEMS"

// ErrInvalid is wrapped by validation errors.
var ErrInvalid = errors.New("invalid settings")

// Settings configures the codec.
type Settings struct {
	// MaxItems is the element ceiling of one serialize call. Zero disables
	// the ceiling.
	MaxItems int `yaml:"maxItems"`

	// Indent, when not empty, indents written documents. Canonical output
	// has no indentation.
	Indent string `yaml:"indent"`

	// Namespaces maps Go package paths to contract namespaces, overriding
	// the derived default namespace.
	Namespaces map[string]string `yaml:"namespaces"`
}

// Default returns the default settings.
func Default() *Settings {
	return &Settings{MaxItems: DefaultMaxItems}
}

// Load reads settings from a YAML file.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read %q: %w", path, err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Parse decodes YAML settings on top of the defaults, applies the
// environment override and validates the result. Unknown keys are errors.
func Parse(data []byte) (*Settings, error) {
	s := Default()
	if err := yaml.UnmarshalWithOptions(data, s, yaml.Strict()); err != nil {
		return nil, err
	}
	if err := s.applyEnv(); err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// FromEnv returns the default settings with the environment override applied.
func FromEnv() (*Settings, error) {
	s := Default()
	if err := s.applyEnv(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Settings) applyEnv() error {
	v := os.Getenv(MaxItemsEnv)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%w: %s=%q is not an integer", ErrInvalid, MaxItemsEnv, v)
	}
	s.MaxItems = n
	return nil
}

// Validate checks the settings.
func (s *Settings) Validate() error {
	if s.MaxItems < 0 {
		return fmt.Errorf("%w: maxItems must not be negative, got %d", ErrInvalid, s.MaxItems)
	}
	for pkg, ns := range s.Namespaces {
		if pkg == "" {
			return fmt.Errorf("%w: empty package path in namespaces", ErrInvalid)
		}
		if ns == "" {
			return fmt.Errorf("%w: empty namespace for package %q", ErrInvalid, pkg)
		}
	}
	return nil
}
