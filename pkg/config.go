package release

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is looked up in the project directory when no config
// path is given.
const DefaultConfigFile = ".release.yaml"

// Config describes how the pipeline talks to the package manager and git.
type Config struct {
	Metadata       string  `yaml:"metadata"`
	PackageManager string  `yaml:"packageManager"`
	Remote         string  `yaml:"remote"`
	TagPrefix      string  `yaml:"tagPrefix"`
	Scripts        Scripts `yaml:"scripts"`
}

// Scripts holds the package manager arguments for each pipeline step.
type Scripts struct {
	TypeCheck   []string `yaml:"typeCheck"`
	Lint        []string `yaml:"lint"`
	Test        []string `yaml:"test"`
	Clean       []string `yaml:"clean"`
	BuildTypes  []string `yaml:"buildTypes"`
	BuildBundle []string `yaml:"buildBundle"`
	Changelog   []string `yaml:"changelog"`
	Publish     []string `yaml:"publish"`
}

// DefaultConfig returns the configuration for a pnpm project published from
// the "origin" remote.
func DefaultConfig() Config {
	return Config{
		Metadata:       "package.json",
		PackageManager: "pnpm",
		Remote:         "origin",
		TagPrefix:      "v",
		Scripts: Scripts{
			TypeCheck:   []string{"run", "type:check", "--bail"},
			Lint:        []string{"run", "lint", "--bail"},
			Test:        []string{"test:unit", "--bail"},
			Clean:       []string{"run", "clean", "--bail"},
			BuildTypes:  []string{"run", "type:build", "--bail"},
			BuildBundle: []string{"run", "build:js", "--bail"},
			Changelog:   []string{"run", "changelog", "--bail"},
			Publish:     []string{"publish"},
		},
	}
}

// LoadConfig reads the YAML file at path on top of DefaultConfig. A missing
// file is only an error when required is set.
func LoadConfig(path string, required bool) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("unable to parse YAML config file %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks that every required setting is present.
func (c Config) Validate() error {
	var errs []error
	if c.Metadata == "" {
		errs = append(errs, errors.New("metadata must be set"))
	}
	if c.PackageManager == "" {
		errs = append(errs, errors.New("packageManager must be set"))
	}
	if c.Remote == "" {
		errs = append(errs, errors.New("remote must be set"))
	}
	scripts := map[string][]string{
		"typeCheck":   c.Scripts.TypeCheck,
		"lint":        c.Scripts.Lint,
		"test":        c.Scripts.Test,
		"clean":       c.Scripts.Clean,
		"buildTypes":  c.Scripts.BuildTypes,
		"buildBundle": c.Scripts.BuildBundle,
		"changelog":   c.Scripts.Changelog,
		"publish":     c.Scripts.Publish,
	}
	for _, name := range []string{"typeCheck", "lint", "test", "clean", "buildTypes", "buildBundle", "changelog", "publish"} {
		if len(scripts[name]) == 0 {
			errs = append(errs, fmt.Errorf("scripts.%s must not be empty", name))
		}
	}
	return errors.Join(errs...)
}

// Tag returns the git tag name for version.
func (c Config) Tag(version string) string {
	return c.TagPrefix + version
}
