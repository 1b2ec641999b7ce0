package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	kjson "github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed schema.json
var schemaJSON []byte

const schemaURL = "https://github.com/panbanda/mehen/config.schema.json"

// ErrInvalid wraps schema violations found while loading a config file.
var ErrInvalid = errors.New("invalid configuration")

// Config holds all configuration options for mehen.
type Config struct {
	// Analysis settings
	Analysis AnalysisConfig `koanf:"analysis" toml:"analysis" json:"analysis"`

	// File exclusion patterns
	Exclude ExcludeConfig `koanf:"exclude" toml:"exclude" json:"exclude"`

	// Output settings
	Output OutputConfig `koanf:"output" toml:"output" json:"output"`

	// Revision diff settings
	Diff DiffConfig `koanf:"diff" toml:"diff" json:"diff"`

	// Cache settings
	Cache CacheConfig `koanf:"cache" toml:"cache" json:"cache"`
}

// AnalysisConfig controls how files are found and analyzed.
type AnalysisConfig struct {
	Jobs        int      `koanf:"jobs" toml:"jobs" json:"jobs"`                            // 0 means NumCPU * 2
	MaxFileSize int64    `koanf:"max_file_size" toml:"max_file_size" json:"max_file_size"` // bytes, 0 disables
	Language    string   `koanf:"language" toml:"language" json:"language"`                // forces a language when set
	Include     []string `koanf:"include" toml:"include" json:"include"`
}

// ExcludeConfig defines file exclusion patterns.
type ExcludeConfig struct {
	Patterns  []string `koanf:"patterns" toml:"patterns" json:"patterns"`
	Dirs      []string `koanf:"dirs" toml:"dirs" json:"dirs"`
	Gitignore bool     `koanf:"gitignore" toml:"gitignore" json:"gitignore"`
}

// OutputConfig controls output formatting.
type OutputConfig struct {
	Format string `koanf:"format" toml:"format" json:"format"` // text, json, yaml, toml, toon, markdown
	Pretty bool   `koanf:"pretty" toml:"pretty" json:"pretty"`
	Color  bool   `koanf:"color" toml:"color" json:"color"`
}

// DiffConfig holds defaults for the diff command.
type DiffConfig struct {
	Metrics       []string `koanf:"metrics" toml:"metrics" json:"metrics"`
	Include       []string `koanf:"include" toml:"include" json:"include"`
	Exclude       []string `koanf:"exclude" toml:"exclude" json:"exclude"`
	ShowUnchanged bool     `koanf:"show_unchanged" toml:"show_unchanged" json:"show_unchanged"`
}

// CacheConfig controls caching behavior.
type CacheConfig struct {
	Enabled bool   `koanf:"enabled" toml:"enabled" json:"enabled"`
	Dir     string `koanf:"dir" toml:"dir" json:"dir"`
	TTL     int    `koanf:"ttl" toml:"ttl" json:"ttl"` // TTL in hours
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Analysis: AnalysisConfig{
			Jobs:        0,
			MaxFileSize: 0,
		},
		Exclude: ExcludeConfig{
			Patterns: []string{
				"*.min.js",
				"*.d.ts",
			},
			Dirs: []string{
				"vendor",
				"node_modules",
				"target",
				".git",
				".mehen",
				"dist",
				"build",
				"__pycache__",
			},
			Gitignore: true,
		},
		Output: OutputConfig{
			Format: "text",
			Pretty: false,
			Color:  true,
		},
		Diff: DiffConfig{
			Metrics: []string{"cyclomatic", "cognitive", "nom.functions", "loc.lloc"},
		},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     ".mehen/cache",
			TTL:     24,
		},
	}
}

// LoadResult is a loaded configuration and the file it came from. Source is
// empty when no file was found and the defaults are in effect.
type LoadResult struct {
	Config *Config
	Source string
}

// LoadOption customizes LoadConfig.
type LoadOption func(*loadOptions)

type loadOptions struct {
	path string
	dirs []string
}

// WithPath loads the given file instead of searching the standard locations.
func WithPath(path string) LoadOption {
	return func(o *loadOptions) { o.path = path }
}

// WithSearchDirs overrides the directories searched for a config file.
func WithSearchDirs(dirs ...string) LoadOption {
	return func(o *loadOptions) { o.dirs = dirs }
}

// configNames are the file names searched for, in order.
var configNames = []string{
	"mehen.toml",
	"mehen.yaml",
	"mehen.yml",
	"mehen.json",
	".mehen.toml",
	".mehen.yaml",
	".mehen.yml",
	".mehen.json",
}

// LoadConfig loads the configuration named by WithPath, or the first config
// file found in "." and ".mehen", or the defaults.
func LoadConfig(opts ...LoadOption) (*LoadResult, error) {
	o := loadOptions{dirs: []string{".", ".mehen"}}
	for _, opt := range opts {
		opt(&o)
	}

	if o.path != "" {
		cfg, err := Load(o.path)
		if err != nil {
			return nil, err
		}
		return &LoadResult{Config: cfg, Source: o.path}, nil
	}

	for _, dir := range o.dirs {
		for _, name := range configNames {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err != nil {
				continue
			}
			cfg, err := Load(path)
			if err != nil {
				return nil, err
			}
			return &LoadResult{Config: cfg, Source: path}, nil
		}
	}

	return &LoadResult{Config: DefaultConfig()}, nil
}

// Load loads configuration from a file, validating it against the embedded
// schema before merging it over the defaults.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	if err := k.Load(file.Provider(path), parserFor(path)); err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}

	if err := Validate(k.Raw()); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	return cfg, nil
}

// LoadOrDefault tries to load config from standard locations or returns defaults.
func LoadOrDefault() *Config {
	res, err := LoadConfig()
	if err != nil {
		return DefaultConfig()
	}
	return res.Config
}

func parserFor(path string) koanf.Parser {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Parser()
	case ".json":
		return kjson.Parser()
	default:
		return toml.Parser()
	}
}

// Validate checks a decoded configuration document against the schema.
func Validate(doc map[string]any) error {
	sch, err := compileSchema()
	if err != nil {
		return err
	}

	// Parsers disagree on numeric types; a JSON round trip gives the
	// validator one representation.
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if err := sch.Validate(inst); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

func compileSchema() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
	if err != nil {
		return nil, fmt.Errorf("config schema: %w", err)
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(schemaURL, doc); err != nil {
		return nil, fmt.Errorf("config schema: %w", err)
	}
	return c.Compile(schemaURL)
}
