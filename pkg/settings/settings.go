// Package settings loads planlog's configuration using Viper.
//
// Values are resolved in order of precedence: flags bound with BindFlag,
// PLANLOG_* environment variables, the config file, then defaults.
package settings

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/stefanpenner/planlog/pkg/store"
)

const envPrefix = "PLANLOG"

// Settings holds the resolved configuration.
type Settings struct {
	Dir string    `mapstructure:"dir"`
	Log LogConfig `mapstructure:"log"`

	// ConfigFile is the file values were read from, empty when none was found.
	ConfigFile string `mapstructure:"-"`
}

// LogConfig controls the diagnostic logger.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Loader accumulates flag bindings before Load.
type Loader struct {
	v          *viper.Viper
	configPath string
}

// NewLoader creates a Loader. An empty configPath searches the default
// config directory for config.yaml; a missing default file is not an error.
func NewLoader(configPath string) *Loader {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return &Loader{v: v, configPath: configPath}
}

// BindFlag lets a command-line flag override key when the flag was set.
func (l *Loader) BindFlag(key string, flag *pflag.Flag) error {
	if flag == nil {
		return fmt.Errorf("binding %s: flag not defined", key)
	}
	return l.v.BindPFlag(key, flag)
}

// Load reads the config file, if any, and returns the merged settings.
func (l *Loader) Load() (*Settings, error) {
	if l.configPath != "" {
		l.v.SetConfigFile(l.configPath)
	} else {
		l.v.AddConfigPath(DefaultConfigDir())
		l.v.SetConfigName("config")
		l.v.SetConfigType("yaml")
	}

	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if l.configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var s Settings
	if err := l.v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	s.ConfigFile = l.v.ConfigFileUsed()
	s.Dir = expandHome(s.Dir)

	if _, err := s.Log.level(); err != nil {
		return nil, err
	}
	return &s, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("dir", store.DefaultDataDir())
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "text")
}

// DefaultConfigDir is where config.yaml is looked up.
func DefaultConfigDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "planlog")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".planlog")
}

func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}

func (c LogConfig) level() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.Level)); err != nil {
		return 0, fmt.Errorf("invalid log.level %q: %w", c.Level, err)
	}
	return lvl, nil
}

// NewLogger builds the diagnostic logger described by c, writing to w.
func (c LogConfig) NewLogger(w io.Writer) *slog.Logger {
	lvl, err := c.level()
	if err != nil {
		lvl = slog.LevelWarn
	}
	opts := &slog.HandlerOptions{Level: lvl}

	if strings.EqualFold(c.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
