package config

import (
	"bytes"
	"fmt"
	"os"

	"github.com/macropower/ktconf/pkg/yaml"
)

// Validator validates configuration data against a schema.
type Validator interface {
	Validate(data any) error
}

// LoaderOpt configures a [Loader].
type LoaderOpt func(*Loader)

// WithValidator sets a custom validator.
func WithValidator(v Validator) LoaderOpt {
	return func(l *Loader) {
		l.validator = v
	}
}

// Loader validates and parses a project configuration document.
type Loader struct {
	validator Validator
	yamlError *yaml.ErrorWrapper
	data      []byte
}

// NewLoaderFromBytes creates a [Loader] from byte data.
func NewLoaderFromBytes(data []byte, opts ...LoaderOpt) *Loader {
	l := &Loader{
		validator: DefaultValidator,
		data:      data,
		yamlError: yaml.NewErrorWrapper(yaml.WithSource(data)),
	}
	for _, opt := range opts {
		opt(l)
	}

	return l
}

// NewLoaderFromFile creates a [Loader] from a file path.
func NewLoaderFromFile(path string, opts ...LoaderOpt) (*Loader, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: User-provided config path.
	if err != nil {
		return nil, fmt.Errorf("read project config file: %w", err)
	}

	return NewLoaderFromBytes(data, opts...), nil
}

// Validate validates the configuration data against the schema.
func (l *Loader) Validate() error {
	var anyConfig any

	err := yaml.NewDecoder(bytes.NewReader(l.data)).Decode(&anyConfig)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, l.yamlError.Wrap(err))
	}

	if anyConfig == nil {
		return fmt.Errorf("%w: empty document", ErrInvalidConfig)
	}

	if l.validator != nil {
		err = l.validator.Validate(anyConfig)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidConfig, l.yamlError.Wrap(err))
		}
	}

	return nil
}

// Load parses and returns the [ProjectConfig].
func (l *Loader) Load() (*ProjectConfig, error) {
	c := NewProjectConfig()

	err := yaml.NewDecoder(bytes.NewReader(l.data)).Decode(c)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, l.yamlError.Wrap(err))
	}

	c.EnsureDefaults()

	return c, nil
}

// LoadFile validates and loads the project configuration at path.
func LoadFile(path string) (*ProjectConfig, error) {
	l, err := NewLoaderFromFile(path)
	if err != nil {
		return nil, err
	}

	err = l.Validate()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	c, err := l.Load()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return c, nil
}
