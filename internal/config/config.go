// Package config handles configuration loading and management for mas.
// It supports XDG config paths, project-level overrides, and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const (
	appName           = "mas"
	projectConfigName = ".mas.yaml"
	envPrefix         = "MAS"
)

// Config holds all configuration for mas.
type Config struct {
	Workers      WorkersConfig      `mapstructure:"workers"`
	Orchestrator OrchestratorConfig `mapstructure:"orchestrator"`
	Registry     RegistryConfig     `mapstructure:"registry"`
	Agents       AgentsConfig       `mapstructure:"agents"`
	Log          LogConfig          `mapstructure:"log"`
	Tracing      TracingConfig      `mapstructure:"tracing"`
	Output       OutputConfig       `mapstructure:"output"`
}

// WorkersConfig lists the agents the orchestrator discovers.
type WorkersConfig struct {
	Addresses []string `mapstructure:"addresses" validate:"required,dive,url"`
}

// OrchestratorConfig holds delegation settings.
type OrchestratorConfig struct {
	CallTimeout time.Duration `mapstructure:"call_timeout" validate:"gt=0"`
}

// RegistryConfig holds discovery settings.
type RegistryConfig struct {
	DiscoveryTimeout     time.Duration `mapstructure:"discovery_timeout" validate:"gte=0"`
	DiscoveryConcurrency int           `mapstructure:"discovery_concurrency" validate:"gte=1"`
}

// AgentsConfig holds the settings of the bundled agents served by start-agents.
type AgentsConfig struct {
	Host string     `mapstructure:"host"`
	Web  PortConfig `mapstructure:"web"`
	CRM  PortConfig `mapstructure:"crm"`
}

// PortConfig holds a listening port.
type PortConfig struct {
	Port int `mapstructure:"port" validate:"min=1,max=65535"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level string `mapstructure:"level" validate:"oneof=error warn warning info debug"`
	File  string `mapstructure:"file"`
}

// TracingConfig toggles span export.
type TracingConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// OutputConfig holds CLI rendering settings.
type OutputConfig struct {
	Format string `mapstructure:"format" validate:"oneof=text json yaml"`
}

// Load loads configuration from XDG paths, project overrides, and environment variables.
// Precedence (highest to lowest):
// 1. Environment variables (MAS_*, plus LOG_LEVEL)
// 2. Project config (.mas.yaml in current directory or parent)
// 3. User config (~/.config/mas/config.yaml)
// 4. Built-in defaults
func Load() (*Config, error) {
	v, err := newViper()
	if err != nil {
		return nil, err
	}
	return decode(v)
}

func newViper() (*viper.Viper, error) {
	v := viper.New()

	setDefaults(v)

	// Load user config from XDG path
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(getUserConfigDir())

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading user config: %w", err)
		}
	}

	// Load project config if present
	if projectConfig := findProjectConfig(); projectConfig != "" {
		projectViper := viper.New()
		projectViper.SetConfigFile(projectConfig)
		if err := projectViper.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading project config: %w", err)
		}
		if err := v.MergeConfigMap(projectViper.AllSettings()); err != nil {
			return nil, fmt.Errorf("merging project config: %w", err)
		}
	}

	bindEnv(v)
	return v, nil
}

// LoadFromPath loads configuration from a specific file over the defaults.
// Environment variables still apply.
func LoadFromPath(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}

	bindEnv(v)
	return decode(v)
}

// Watch reloads the config file at path whenever it changes and passes the
// result to fn. Reload errors are passed to fn with a nil Config.
func Watch(path string, fn func(*Config, error)) error {
	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("reading config from %s: %w", path, err)
	}
	bindEnv(v)

	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		fn(decode(v))
	})
	v.WatchConfig()
	return nil
}

func bindEnv(v *viper.Viper) {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// LOG_LEVEL is honoured without the prefix.
	v.BindEnv("log.level", envPrefix+"_LOG_LEVEL", "LOG_LEVEL")
}

func decode(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	cfg.Log.File = os.ExpandEnv(cfg.Log.File)
	cfg.Log.Level = strings.ToLower(cfg.Log.Level)
	cfg.Output.Format = strings.ToLower(cfg.Output.Format)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges and formats.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Save writes the configuration to the user config file.
func Save(cfg *Config) error {
	return SaveTo(GetUserConfigPath(), cfg)
}

// SaveTo writes the configuration to path.
func SaveTo(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	for key, value := range cfg.Values() {
		v.Set(key, value)
	}

	return v.WriteConfig()
}

// GetUserConfigPath returns the path to the user config file.
func GetUserConfigPath() string {
	return filepath.Join(getUserConfigDir(), "config.yaml")
}

// GetProjectConfigPath returns the path to the project config file if it exists.
func GetProjectConfigPath() string {
	return findProjectConfig()
}

// ActiveConfigPath returns the project config if present, otherwise the user
// config if it exists, otherwise "".
func ActiveConfigPath() string {
	if p := findProjectConfig(); p != "" {
		return p
	}
	if p := GetUserConfigPath(); fileExists(p) {
		return p
	}
	return ""
}

// setDefaults configures default values.
func setDefaults(v *viper.Viper) {
	d := Default()
	for key, value := range d.Values() {
		v.SetDefault(key, value)
	}
}

// getUserConfigDir returns the XDG config directory for mas.
func getUserConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, appName)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", appName)
	}
	return filepath.Join(home, ".config", appName)
}

// findProjectConfig searches for .mas.yaml in the current directory and parents.
func findProjectConfig() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		configPath := filepath.Join(cwd, projectConfigName)
		if fileExists(configPath) {
			return configPath
		}

		parent := filepath.Dir(cwd)
		if parent == cwd {
			break
		}
		cwd = parent
	}

	return ""
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Workers: WorkersConfig{
			Addresses: []string{"http://localhost:3001", "http://localhost:3002"},
		},
		Orchestrator: OrchestratorConfig{
			CallTimeout: 30 * time.Second,
		},
		Registry: RegistryConfig{
			DiscoveryTimeout:     5 * time.Second,
			DiscoveryConcurrency: 8,
		},
		Agents: AgentsConfig{
			Host: "localhost",
			Web:  PortConfig{Port: 3001},
			CRM:  PortConfig{Port: 3002},
		},
		Log: LogConfig{
			Level: "info",
		},
		Output: OutputConfig{
			Format: "text",
		},
	}
}
