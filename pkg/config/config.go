package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	goyaml "github.com/goccy/go-yaml"
	"github.com/invopop/jsonschema"

	"github.com/macropower/ktconf/pkg/override"
	"github.com/macropower/ktconf/pkg/rules"
	"github.com/macropower/ktconf/pkg/watch"
	"github.com/macropower/ktconf/pkg/yaml"
)

//go:generate go run ../../internal/schemagen/main.go -o ktconf.v1beta1.json

const (
	APIVersion = "ktconf.macropower.dev/v1beta1"
	Kind       = "ProjectConfiguration"
)

var (
	// ProjectConfigFileNames contains the valid names for project configuration files.
	ProjectConfigFileNames = []string{
		".ktconf.yaml",
		"ktconf.yaml",
	}

	// ErrInvalidConfig is returned when a configuration file fails validation.
	ErrInvalidConfig = errors.New("invalid configuration")

	// DefaultValidator validates project configuration against the JSON schema
	// reflected from [ProjectConfig].
	DefaultValidator = yaml.MustNewValidator("/ktconf.v1beta1.json", MustSchema())
)

// ProjectConfig represents project-level configuration.
type ProjectConfig struct {
	Watch *WatchConfig `json:"watch,omitempty" jsonschema:"title=Watch"`
	// APIVersion specifies the API version for this configuration.
	APIVersion string `json:"apiVersion" jsonschema:"title=API Version"`
	// Kind defines the type of configuration.
	Kind string `json:"kind" jsonschema:"title=Kind"`
	// DisabledRules lists rule identifiers to disable. Rules from rule sets
	// other than the standard one are written as "<ruleset>:<rule>".
	DisabledRules []string `json:"disabledRules,omitempty" jsonschema:"title=Disabled Rules"`
	// ExperimentalRules enables all experimental rules.
	ExperimentalRules bool `json:"experimentalRules,omitempty" jsonschema:"title=Experimental Rules"`
}

// WatchConfig configures `ktconf watch`.
type WatchConfig struct {
	// Debounce is how long to wait for further changes before invalidating,
	// as a Go duration string.
	Debounce string `json:"debounce,omitempty" jsonschema:"title=Debounce,pattern=^([0-9]+(\\.[0-9]+)?(ns|us|µs|ms|s|m|h))+$"`
}

// NewProjectConfig creates a new [ProjectConfig].
func NewProjectConfig() *ProjectConfig {
	return &ProjectConfig{
		APIVersion: APIVersion,
		Kind:       Kind,
	}
}

func (c ProjectConfig) JSONSchemaExtend(jss *jsonschema.Schema) {
	apiVersion, ok := jss.Properties.Get("apiVersion")
	if ok {
		apiVersion.Const = APIVersion
	}

	kind, ok := jss.Properties.Get("kind")
	if ok {
		kind.Const = Kind
	}

	disabledRules, ok := jss.Properties.Get("disabledRules")
	if ok && disabledRules.Items != nil {
		minLength := uint64(1)
		disabledRules.Items.MinLength = &minLength
	}
}

// EnsureDefaults fills unset optional fields.
func (c *ProjectConfig) EnsureDefaults() {
	if c.Watch == nil {
		c.Watch = &WatchConfig{}
	}

	c.DisabledRules = rules.Normalize(c.DisabledRules)
}

// Params converts the configuration to [override.Params].
func (c *ProjectConfig) Params() override.Params {
	return override.Params{
		DisabledRules:     rules.Normalize(c.DisabledRules),
		ExperimentalRules: c.ExperimentalRules,
	}
}

// GetDebounce returns the debounce window, falling back to
// [watch.DefaultDebounce] when unset or invalid.
func (w *WatchConfig) GetDebounce() time.Duration {
	if w == nil || w.Debounce == "" {
		return watch.DefaultDebounce
	}

	d, err := time.ParseDuration(w.Debounce)
	if err != nil || d <= 0 {
		return watch.DefaultDebounce
	}

	return d
}

// MarshalYAML serializes the configuration with sequences indented under
// their key, the layout of the files ktconf reads.
func (c *ProjectConfig) MarshalYAML() ([]byte, error) {
	b, err := goyaml.MarshalWithOptions(*c, goyaml.Indent(2), goyaml.IndentSequence(true))
	if err != nil {
		return nil, fmt.Errorf("marshal yaml: %w", err)
	}

	return b, nil
}

// Schema returns the JSON schema for [ProjectConfig].
func Schema() ([]byte, error) {
	return yaml.NewSchemaGenerator(NewProjectConfig()).Generate() //nolint:wrapcheck // Already wrapped.
}

// MustSchema is like [Schema] but panics on error.
func MustSchema() []byte {
	data, err := Schema()
	if err != nil {
		panic(err)
	}

	return data
}

// FindProjectConfig searches for a project config file starting from targetPath
// and walking up the directory tree until the filesystem root.
// It checks for all [ProjectConfigFileNames] in each directory.
// Returns the path to the config file if found, or empty string if not found.
func FindProjectConfig(targetPath string) (string, error) {
	absPath, err := filepath.Abs(targetPath)
	if err != nil {
		return "", fmt.Errorf("get absolute path: %w", err)
	}

	// If targetPath is a file, start from its directory.
	info, err := os.Stat(absPath)
	if err != nil {
		return "", fmt.Errorf("stat path: %w", err)
	}

	searchDir := absPath
	if !info.IsDir() {
		searchDir = filepath.Dir(absPath)
	}

	for {
		for _, fileName := range ProjectConfigFileNames {
			configPath := filepath.Join(searchDir, fileName)

			info, statErr := os.Stat(configPath)
			if statErr == nil && info.Mode().IsRegular() {
				return configPath, nil
			}
			if statErr != nil && !errors.Is(statErr, fs.ErrNotExist) {
				return "", fmt.Errorf("stat %s: %w", configPath, statErr)
			}
		}

		parent := filepath.Dir(searchDir)
		if parent == searchDir {
			// Reached the root, no config found.
			return "", nil
		}

		searchDir = parent
	}
}
