package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	configFileName = "display"
	configFileType = "yaml"

	cfgKeyAPIURL          = "api_url"
	cfgKeyEmail           = "email"
	cfgKeyPassword        = "password"
	cfgKeyDisplayToken    = "display_token"
	cfgKeyBoard           = "board"
	cfgKeyRefreshInterval = "refresh_interval"
	cfgKeyRequestTimeout  = "request_timeout"
	cfgKeyLogLevel        = "log_level"
)

// displayConfig is the resolved kiosk configuration
type displayConfig struct {
	APIURL          string
	Email           string
	Password        string
	DisplayToken    string
	Board           string
	RefreshInterval time.Duration
	RequestTimeout  time.Duration
	LogLevel        string
}

// loadConfig reads display.yaml from configDir (optional) and lets
// GUIDELIGHT_* environment variables override it
func loadConfig(configDir string) (*viper.Viper, error) {
	v := viper.New()
	v.SetDefault(cfgKeyAPIURL, "http://localhost:8080")
	v.SetDefault(cfgKeyBoard, "default")
	v.SetDefault(cfgKeyRefreshInterval, "30s")
	v.SetDefault(cfgKeyRequestTimeout, "15s")
	v.SetDefault(cfgKeyLogLevel, "info")

	v.SetEnvPrefix("GUIDELIGHT")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	return v, nil
}

func resolve(v *viper.Viper) (*displayConfig, error) {
	cfg := &displayConfig{
		APIURL:          v.GetString(cfgKeyAPIURL),
		Email:           v.GetString(cfgKeyEmail),
		Password:        v.GetString(cfgKeyPassword),
		DisplayToken:    v.GetString(cfgKeyDisplayToken),
		Board:           v.GetString(cfgKeyBoard),
		RefreshInterval: v.GetDuration(cfgKeyRefreshInterval),
		RequestTimeout:  v.GetDuration(cfgKeyRequestTimeout),
		LogLevel:        v.GetString(cfgKeyLogLevel),
	}
	if cfg.Email == "" || cfg.Password == "" {
		return nil, fmt.Errorf("email and password are required (config file or GUIDELIGHT_EMAIL / GUIDELIGHT_PASSWORD)")
	}
	if cfg.RefreshInterval <= 0 {
		return nil, fmt.Errorf("%s must be a positive duration", cfgKeyRefreshInterval)
	}
	return cfg, nil
}

// defaultConfigDir is $XDG_CONFIG_HOME/guidelight or ~/.config/guidelight
func defaultConfigDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "guidelight")
	}
	return "."
}
