// Package config provides hierarchical configuration management for convlog using koanf.
// Configuration is loaded with priority: environment variables > project config (.convlog.yml)
// > user config (~/.config/convlog/config.yml) > defaults. The project config may also be
// written as .convlog.json; it is ignored with a warning when the YAML file exists.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ariel-frischer/convlog/internal/changelog"
	"github.com/ariel-frischer/convlog/internal/generator"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of environment variables read as configuration.
// A double underscore separates nested keys: CONVLOG_GENERATOR__PRESET -> generator.preset.
const EnvPrefix = "CONVLOG_"

// Configuration represents the convlog configuration
type Configuration struct {
	// Infile is the changelog file. Empty disables the update step.
	Infile string `koanf:"infile" yaml:"infile"`
	// TagName is the tag template, e.g. "v${version}". Empty infers it from the previous tag.
	TagName string `koanf:"tag_name" yaml:"tag_name"`
	DryRun  bool   `koanf:"dry_run" yaml:"dry_run"`
	Debug   bool   `koanf:"debug" yaml:"debug"`

	// Generator is forwarded to the changelog engine.
	Generator GeneratorConfig `koanf:"generator" yaml:"generator"`
}

// GeneratorConfig holds the options forwarded to the changelog engine.
type GeneratorConfig struct {
	Engine        string                 `koanf:"engine" yaml:"engine"`
	Preset        string                 `koanf:"preset" yaml:"preset"`
	ReleaseCount  int                    `koanf:"release_count" yaml:"release_count"`
	RepositoryURL string                 `koanf:"repository_url" yaml:"repository_url"`
	Command       string                 `koanf:"command" yaml:"command"`
	Args          []string               `koanf:"args" yaml:"args"`
	Types         []changelog.TypeConfig `koanf:"types" yaml:"types,omitempty"`
}

// LoadOptions configures how configuration is loaded
type LoadOptions struct {
	// ProjectConfigPath overrides the project config path (default: .convlog.yml)
	ProjectConfigPath string
	// UserConfigPath overrides the user config path (default: XDG config dir)
	UserConfigPath string
	// WarningWriter receives warnings (default: os.Stderr)
	WarningWriter io.Writer
	// SkipWarnings suppresses warnings
	SkipWarnings bool
}

// Load loads configuration from user, project, and environment sources.
// Priority: Environment variables > Project config > User config > Defaults
func Load(projectConfigPath string) (*Configuration, error) {
	return LoadWithOptions(LoadOptions{ProjectConfigPath: projectConfigPath})
}

// LoadWithOptions loads configuration with custom options
func LoadWithOptions(opts LoadOptions) (*Configuration, error) {
	k := koanf.New(".")
	warningWriter := getWarningWriter(opts.WarningWriter)

	loadDefaults(k)

	if err := loadUserConfig(k, opts.UserConfigPath); err != nil {
		return nil, err
	}

	if err := loadProjectConfig(k, opts.ProjectConfigPath, warningWriter, opts.SkipWarnings); err != nil {
		return nil, err
	}

	if err := loadEnvironmentConfig(k); err != nil {
		return nil, err
	}

	return finalizeConfig(k)
}

// getWarningWriter returns the warning writer or defaults to stderr
func getWarningWriter(w io.Writer) io.Writer {
	if w == nil {
		return os.Stderr
	}
	return w
}

// loadDefaults applies default configuration values
func loadDefaults(k *koanf.Koanf) {
	for key, value := range GetDefaults() {
		k.Set(key, value)
	}
}

// loadUserConfig loads the user-level YAML config if it exists.
func loadUserConfig(k *koanf.Koanf, customPath string) error {
	path := customPath
	if path == "" {
		path, _ = UserConfigPath()
	}
	if !fileExists(path) {
		return nil
	}
	if err := loadConfigFile(k, path, "user"); err != nil {
		return fmt.Errorf("loading user config: %w", err)
	}
	return nil
}

// loadProjectConfig loads project-level config. YAML is preferred; the JSON
// file is read only when the YAML file is absent and is otherwise reported
// as ignored. A custom path (from --config) is loaded by its extension.
func loadProjectConfig(k *koanf.Koanf, customPath string, warningWriter io.Writer, skipWarnings bool) error {
	if customPath != "" {
		if !fileExists(customPath) {
			return &ValidationError{FilePath: customPath, Message: "config file not found"}
		}
		if err := loadConfigFile(k, customPath, "project"); err != nil {
			return fmt.Errorf("loading project config: %w", err)
		}
		return nil
	}

	yamlPath := ProjectConfigPath()
	jsonPath := ProjectJSONConfigPath()
	yamlExists := fileExists(yamlPath)
	jsonExists := fileExists(jsonPath)

	switch {
	case yamlExists:
		if err := loadConfigFile(k, yamlPath, "project"); err != nil {
			return fmt.Errorf("loading project config: %w", err)
		}
		if jsonExists && !skipWarnings {
			fmt.Fprintf(warningWriter, "Warning: %s found alongside %s (ignored, using %s)\n\n", jsonPath, yamlPath, yamlPath)
		}
	case jsonExists:
		if err := loadConfigFile(k, jsonPath, "project"); err != nil {
			return fmt.Errorf("loading project config: %w", err)
		}
	}
	return nil
}

// loadConfigFile validates and loads a YAML or JSON config file, chosen by extension.
func loadConfigFile(k *koanf.Koanf, path, configType string) error {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		if err := k.Load(file.Provider(path), json.Parser()); err != nil {
			return &ValidationError{FilePath: path, Message: fmt.Sprintf("invalid JSON in %s config: %v", configType, err)}
		}
		return nil
	}

	if err := ValidateYAMLSyntax(path); err != nil {
		return fmt.Errorf("validating YAML syntax for %s config: %w", configType, err)
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("failed to load %s config %s: %w", configType, path, err)
	}
	return nil
}

// loadEnvironmentConfig loads environment variable overrides
func loadEnvironmentConfig(k *koanf.Koanf) error {
	if err := k.Load(env.Provider(EnvPrefix, ".", envTransform), nil); err != nil {
		return fmt.Errorf("failed to load environment config: %w", err)
	}
	return nil
}

// finalizeConfig unmarshals and validates the merged configuration
func finalizeConfig(k *koanf.Koanf) (*Configuration, error) {
	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := ValidateConfigValues(&cfg, "config"); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	cfg.Infile = expandHomePath(cfg.Infile)

	return &cfg, nil
}

// fileExists returns true if the file exists and is readable
func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}

// envTransform converts environment variable names to config keys
// Example: CONVLOG_GENERATOR__RELEASE_COUNT -> generator.release_count
func envTransform(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
}

// expandHomePath expands ~ to the user's home directory
func expandHomePath(path string) string {
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(homeDir, path[2:])
		}
	}
	return path
}

// GeneratorOptions converts the configuration into the options handed to a
// changelog generator. dir is the repository directory.
func (c *Configuration) GeneratorOptions(dir string) generator.Options {
	return generator.Options{
		Infile:        c.Infile,
		TagName:       c.TagName,
		Engine:        c.Generator.Engine,
		Preset:        c.Generator.Preset,
		ReleaseCount:  c.Generator.ReleaseCount,
		RepositoryURL: c.Generator.RepositoryURL,
		Types:         c.Generator.Types,
		Command:       c.Generator.Command,
		Args:          c.Generator.Args,
		Dir:           dir,
	}
}
