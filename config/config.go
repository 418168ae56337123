// Package config loads thumbcache settings from an optional YAML file and
// THUMBCACHE_* environment variables.
package config

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"thumbcache/domain"
)

// EnvPrefix is prepended to every environment variable, with dots in keys
// replaced by underscores: cache.expire -> THUMBCACHE_CACHE_EXPIRE.
const EnvPrefix = "THUMBCACHE"

type Config struct {
	Cache   CacheConfig   `mapstructure:"cache"`
	Public  PublicConfig  `mapstructure:"public"`
	Source  SourceConfig  `mapstructure:"source"`
	Image   ImageConfig   `mapstructure:"image"`
	HTTP    HTTPConfig    `mapstructure:"http"`
	Server  ServerConfig  `mapstructure:"server"`
	Logging LoggingConfig `mapstructure:"logging"`
}

type CacheConfig struct {
	Root string `mapstructure:"root"`
	// Expire of zero keeps entries forever.
	Expire        time.Duration `mapstructure:"expire"`
	SingleFlight  bool          `mapstructure:"single_flight"`
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
}

type PublicConfig struct {
	// Root is either a path ("/assets/thumbnails") or an absolute URL.
	Root string `mapstructure:"root"`
}

type SourceConfig struct {
	// Root resolves relative local sources. Empty means the working directory.
	Root string `mapstructure:"root"`
}

type ImageConfig struct {
	Quality       int    `mapstructure:"quality"`
	Mode          string `mapstructure:"mode"`
	CacheMode     string `mapstructure:"cache_mode"`
	PictureFormat string `mapstructure:"picture_format"`
}

type HTTPConfig struct {
	ClientTimeout time.Duration `mapstructure:"client_timeout"`
	MaxBodyBytes  int64         `mapstructure:"max_body_bytes"`
	HostInterval  time.Duration `mapstructure:"host_interval"`
	UserAgent     string        `mapstructure:"user_agent"`
}

type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from cfgFile (or .thumbcache.yaml in the usual
// places) and the environment, applies defaults and validates the result.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(".thumbcache")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/thumbcache")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		secondsToDurationHook(),
		mapstructure.StringToTimeDurationHookFunc(),
	))); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("cache.root", "web/assets/thumbnails")
	v.SetDefault("cache.expire", "0s")
	v.SetDefault("cache.single_flight", false)
	v.SetDefault("cache.sweep_interval", "0s")

	v.SetDefault("public.root", "/assets/thumbnails")
	v.SetDefault("source.root", "")

	v.SetDefault("image.quality", domain.DefaultQuality)
	v.SetDefault("image.mode", string(domain.ModeOutbound))
	v.SetDefault("image.cache_mode", domain.StalenessNone.String())
	v.SetDefault("image.picture_format", "png")

	v.SetDefault("http.client_timeout", "30s")
	v.SetDefault("http.max_body_bytes", 20*1024*1024)
	v.SetDefault("http.host_interval", "0s")
	v.SetDefault("http.user_agent", "thumbcache/1.0")

	v.SetDefault("server.port", 9000)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "30s")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// secondsToDurationHook lets durations be written as bare seconds
// ("3600" or 3600) as well as Go duration strings.
func secondsToDurationHook() mapstructure.DecodeHookFuncType {
	durationType := reflect.TypeOf(time.Duration(0))
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != durationType {
			return data, nil
		}
		switch v := data.(type) {
		case string:
			if n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err == nil {
				return time.Duration(n) * time.Second, nil
			}
		case int:
			return time.Duration(v) * time.Second, nil
		case int64:
			return time.Duration(v) * time.Second, nil
		case float64:
			return time.Duration(v * float64(time.Second)), nil
		}
		return data, nil
	}
}

// ThumbnailDefaults converts the image section into usecase defaults.
// It cannot fail after Load has validated the config.
func (c *Config) ThumbnailDefaults() domain.ThumbnailOptions {
	mode, _ := domain.ParseResizeMode(c.Image.Mode)
	policy, _ := domain.ParseStalenessPolicy(c.Image.CacheMode)
	return domain.ThumbnailOptions{
		Mode:      mode,
		Quality:   domain.Quality(c.Image.Quality),
		CacheMode: policy,
	}
}

// PublicRootIsURL reports whether the public root points at another host,
// in which case the cache root is not served locally.
func (c *Config) PublicRootIsURL() bool {
	return domain.IsRemoteSource(c.Public.Root)
}
