// Package config loads funil's settings. Sources are layered, lowest to highest:
// built-in defaults, the YAML config file, FUNIL_* environment variables and
// explicitly set command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/thenoetrevino/funil/internal/config/colors"
)

// EnvPrefix is the prefix of environment overrides, e.g. FUNIL_API_ORIGIN
const EnvPrefix = "FUNIL_"

// ThemeFileEnv names an extra YAML file whose theme section is merged last
const ThemeFileEnv = "FUNIL_THEME_FILE"

// Defaults
const (
	DefaultOrigin          = "http://localhost:3000/api"
	DefaultAPITimeout      = 15 * time.Second
	DefaultCommitTimeout   = 20 * time.Second
	DefaultRefreshInterval = time.Minute
	DefaultServerAddr      = "127.0.0.1:3000"
	DefaultLogLevel        = "info"
)

// Config represents the application configuration
type Config struct {
	API       APIConfig       `koanf:"api" yaml:"api"`
	Session   SessionConfig   `koanf:"session" yaml:"session"`
	SellerID  int             `koanf:"seller_id" yaml:"seller_id" validate:"gte=0"`
	Board     BoardConfig     `koanf:"board" yaml:"board"`
	Dashboard DashboardConfig `koanf:"dashboard" yaml:"dashboard"`
	LogLevel  string          `koanf:"log_level" yaml:"log_level" validate:"oneof=debug info warn error"`
	Server    ServerConfig    `koanf:"server" yaml:"server"`

	KeyMappings KeyMappings        `koanf:"key_mappings" yaml:"key_mappings"`
	ColorScheme colors.ColorScheme `koanf:"theme" yaml:"theme"`

	// path is the file the config was read from, or would be saved to
	path string
}

// APIConfig locates the CRM backend
type APIConfig struct {
	Origin  string        `koanf:"origin" yaml:"origin" validate:"required,url"`
	Timeout time.Duration `koanf:"timeout" yaml:"timeout" validate:"gt=0"`
}

// SessionConfig holds the identifiers sent on every request
type SessionConfig struct {
	Tenant string `koanf:"tenant" yaml:"tenant"`
	Token  string `koanf:"token" yaml:"token"`
}

// BoardConfig tunes the pipeline board
type BoardConfig struct {
	CommitTimeout time.Duration `koanf:"commit_timeout" yaml:"commit_timeout" validate:"gt=0"`
	Rollback      string        `koanf:"rollback" yaml:"rollback" validate:"oneof=snapshot invert"`
}

// DashboardConfig tunes the dashboard tab
type DashboardConfig struct {
	RefreshInterval time.Duration `koanf:"refresh_interval" yaml:"refresh_interval" validate:"gte=1s"`
}

// ServerConfig configures the development backend
type ServerConfig struct {
	Addr      string `koanf:"addr" yaml:"addr" validate:"required"`
	Database  string `koanf:"database" yaml:"database"`
	FailMoves bool   `koanf:"fail_moves" yaml:"fail_moves"`
}

// sections are the top-level keys that env variables may address with one
// underscore, e.g. FUNIL_BOARD_COMMIT_TIMEOUT -> board.commit_timeout
var sections = []string{"api", "session", "board", "dashboard", "server", "key_mappings", "theme"}

// flagKeys maps command-line flag names to config keys
var flagKeys = map[string]string{
	"api-origin": "api.origin",
	"timeout":    "api.timeout",
	"tenant":     "session.tenant",
	"token":      "session.token",
	"seller":     "seller_id",
	"log-level":  "log_level",
	"rollback":   "board.rollback",
	"refresh":    "dashboard.refresh_interval",
	"addr":       "server.addr",
	"database":   "server.database",
	"fail-moves": "server.fail_moves",
}

var validate = validator.New()

func defaults() map[string]any {
	m := map[string]any{
		"api.origin":                 DefaultOrigin,
		"api.timeout":                DefaultAPITimeout,
		"seller_id":                  0,
		"board.commit_timeout":       DefaultCommitTimeout,
		"board.rollback":             "snapshot",
		"dashboard.refresh_interval": DefaultRefreshInterval,
		"log_level":                  DefaultLogLevel,
		"server.addr":                DefaultServerAddr,
		"server.database":            "",
	}
	for key, value := range DefaultKeyMappings().defaults() {
		m[key] = value
	}
	return m
}

// envKey maps FUNIL_API_ORIGIN to api.origin. Unknown variables are skipped.
func envKey(name string) string {
	if name == ThemeFileEnv {
		return ""
	}
	key := strings.ToLower(strings.TrimPrefix(name, EnvPrefix))
	for _, section := range sections {
		if rest, ok := strings.CutPrefix(key, section+"_"); ok {
			return section + "." + rest
		}
	}
	return key
}

// Load reads the configuration. cfgFile overrides the default location; flags may
// be nil, and only flags the user actually set take part.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file
	path := cfgFile
	if path == "" {
		var err error
		if path, err = DefaultPath(); err != nil {
			path = ""
		}
	}
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("error reading config file %s: %w", path, err)
			}
		} else if cfgFile != "" {
			return nil, fmt.Errorf("config file %s: %w", cfgFile, err)
		}
	}

	// 3. Environment
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags that were explicitly set
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			if !f.Changed {
				return "", nil
			}
			key, ok := flagKeys[f.Name]
			if !ok {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.path = path

	loadThemeFile(&cfg)
	cfg.ColorScheme.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the built-in configuration
func Default() *Config {
	cfg := &Config{
		API:       APIConfig{Origin: DefaultOrigin, Timeout: DefaultAPITimeout},
		Board:     BoardConfig{CommitTimeout: DefaultCommitTimeout, Rollback: "snapshot"},
		Dashboard: DashboardConfig{RefreshInterval: DefaultRefreshInterval},
		LogLevel:  DefaultLogLevel,
		Server:    ServerConfig{Addr: DefaultServerAddr},

		KeyMappings: DefaultKeyMappings(),
		ColorScheme: DefaultColorScheme(),
	}
	cfg.path, _ = DefaultPath()
	return cfg
}

// Validate checks field constraints
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("invalid config: %s failed %q", verrs[0].Namespace(), verrs[0].Tag())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := PresetColorScheme(c.ColorScheme.Preset); err != nil {
		return err
	}
	return nil
}

// Path returns the file the config was loaded from, or will be saved to
func (c *Config) Path() string {
	return c.path
}

// SetPath changes where Save writes
func (c *Config) SetPath(path string) {
	c.path = path
}

// loadThemeFile merges the theme section of FUNIL_THEME_FILE, if set
func loadThemeFile(config *Config) {
	themeFile := os.Getenv(ThemeFileEnv)
	if themeFile == "" {
		return
	}

	themeData, err := os.ReadFile(themeFile)
	if err != nil {
		return
	}

	var themeConfig struct {
		Theme colors.ColorScheme `yaml:"theme"`
	}
	if yamlv3.Unmarshal(themeData, &themeConfig) == nil {
		config.ColorScheme.MergeFrom(themeConfig.Theme)
	}
}

// Save writes the config as YAML to its path
func (c *Config) Save() error {
	configPath := c.path
	if configPath == "" {
		var err error
		if configPath, err = DefaultPath(); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return err
	}

	data, err := yamlv3.Marshal(c)
	if err != nil {
		return err
	}

	// the file may hold a session token
	return os.WriteFile(configPath, data, 0o600)
}

// DefaultPath returns $XDG_CONFIG_HOME/funil/config.yaml, falling back to ~/.config
func DefaultPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "funil", "config.yaml"), nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(homeDir, ".config", "funil", "config.yaml"), nil
}
