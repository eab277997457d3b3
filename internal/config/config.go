// Package config layers defaults, an optional YAML file, EMOTIONSCOPE_*
// environment variables and command-line flags into one Config.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const EnvPrefix = "EMOTIONSCOPE"

type Backend struct {
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type Upload struct {
	MaxBytes int64 `mapstructure:"max_bytes"`
}

type Log struct {
	Dir   string `mapstructure:"dir"`
	Level string `mapstructure:"level"`
}

type Scale struct {
	Path string `mapstructure:"path"`
}

type UI struct {
	AltScreen bool `mapstructure:"alt_screen"`
}

type Config struct {
	Backend Backend `mapstructure:"backend"`
	Upload  Upload  `mapstructure:"upload"`
	Log     Log     `mapstructure:"log"`
	Scale   Scale   `mapstructure:"scale"`
	UI      UI      `mapstructure:"ui"`
}

// FlagKeys maps flag names to the config keys they override.
var FlagKeys = map[string]string{
	"backend":       "backend.url",
	"timeout":       "backend.timeout",
	"max-bytes":     "upload.max_bytes",
	"log-dir":       "log.dir",
	"log-level":     "log.level",
	"scale":         "scale.path",
	"no-alt-screen": "ui.alt_screen",
}

func defaultLogDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "emotionscope")
	}
	return filepath.Join(os.TempDir(), "emotionscope")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("backend.url", "http://localhost:5000")
	v.SetDefault("backend.timeout", 5*time.Minute)
	v.SetDefault("upload.max_bytes", int64(50*1024*1024))
	v.SetDefault("log.dir", defaultLogDir())
	v.SetDefault("log.level", "info")
	v.SetDefault("scale.path", "")
	v.SetDefault("ui.alt_screen", true)
}

// Load reads configuration. path may be empty, in which case only defaults,
// the environment and flags apply. flags may be nil.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	if flags != nil {
		for name, key := range FlagKeys {
			f := flags.Lookup(name)
			if f == nil || !f.Changed {
				continue
			}
			if name == "no-alt-screen" {
				v.Set(key, f.Value.String() != "true")
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return Config{}, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Backend.URL) == "" {
		errs = append(errs, errors.New("backend.url must not be empty"))
	}
	if c.Backend.Timeout < 0 {
		errs = append(errs, errors.New("backend.timeout must not be negative"))
	}
	if c.Upload.MaxBytes <= 0 {
		errs = append(errs, errors.New("upload.max_bytes must be positive"))
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level %q is not one of debug, info, warn, error", c.Log.Level))
	}
	return errors.Join(errs...)
}
