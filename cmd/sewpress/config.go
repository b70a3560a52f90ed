package main

import (
	"errors"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	SiteName        string `mapstructure:"SITE_NAME"`
	SiteURL         string `mapstructure:"SITE_URL"`
	SiteDescription string `mapstructure:"SITE_DESCRIPTION"`
	SiteAuthor      string `mapstructure:"SITE_AUTHOR"`

	Addr         string `mapstructure:"ADDR"`
	DatabasePath string `mapstructure:"DATABASE_PATH"`
	StaticDir    string `mapstructure:"STATIC_DIR"`

	SessionSecret string `mapstructure:"SESSION_SECRET"`
	CookieSecure  bool   `mapstructure:"COOKIE_SECURE"`

	OpenAIKey string `mapstructure:"OPENAI_API_KEY"`

	PostCacheTTL time.Duration `mapstructure:"POST_CACHE_TTL"`

	// Seed credentials for the first admin profile. Applied on boot when
	// both are set; the profile is upserted by email.
	AdminEmail    string `mapstructure:"ADMIN_EMAIL"`
	AdminPassword string `mapstructure:"ADMIN_PASSWORD"`
}

func loadConfig(path string) (*Config, error) {
	viper.SetConfigFile(path)
	viper.SetConfigType("env")
	viper.AutomaticEnv()

	// A missing .env is fine in production where everything comes from the
	// environment.
	if err := viper.ReadInConfig(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	for _, key := range []string{
		"SITE_NAME", "SITE_URL", "SITE_DESCRIPTION", "SITE_AUTHOR",
		"ADDR", "DATABASE_PATH", "STATIC_DIR",
		"SESSION_SECRET", "COOKIE_SECURE", "OPENAI_API_KEY",
		"POST_CACHE_TTL", "ADMIN_EMAIL", "ADMIN_PASSWORD",
	} {
		viper.BindEnv(key)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}
