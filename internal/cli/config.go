package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"pilot_logbook/internal/cache"
	"pilot_logbook/internal/pipeline"
)

// Config is the CLI's view of where the API lives and who is using it.
type Config struct {
	APIURL     string
	UserID     uint
	Token      string
	CachePath  string
	CacheQuota int64
	MaxAge     time.Duration
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("api_url", "http://localhost:8080/api")
	v.SetDefault("user_id", 1)
	v.SetDefault("token", "")
	v.SetDefault("cache_path", "")
	v.SetDefault("cache_quota", 5*1024*1024)
	v.SetDefault("max_age", pipeline.DefaultMaxAge)

	v.SetEnvPrefix("LOGBOOK")
	v.AutomaticEnv()
	return v
}

// configFile is the YAML file the CLI reads settings from and saves tokens to.
func configFile() (string, error) {
	if path := os.Getenv("LOGBOOK_CLI_CONFIG"); path != "" {
		return path, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "pilot_logbook", "cli.yaml"), nil
}

func readConfig(v *viper.Viper) error {
	path, err := configFile()
	if err != nil {
		return nil
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}
	return nil
}

func loadConfig(v *viper.Viper) (Config, error) {
	cfg := Config{
		APIURL:     v.GetString("api_url"),
		UserID:     v.GetUint("user_id"),
		Token:      v.GetString("token"),
		CachePath:  v.GetString("cache_path"),
		CacheQuota: v.GetInt64("cache_quota"),
		MaxAge:     v.GetDuration("max_age"),
	}
	if cfg.APIURL == "" {
		return cfg, errors.New("api_url is required")
	}
	if cfg.UserID == 0 {
		return cfg, errors.New("user_id must be a positive number")
	}
	if cfg.CachePath == "" {
		path, err := cache.DefaultPath()
		if err != nil {
			return cfg, fmt.Errorf("locate cache dir: %w", err)
		}
		cfg.CachePath = path
	}
	return cfg, nil
}

// saveSession stores the login token and user id in the config file.
func saveSession(v *viper.Viper, token string, userID uint) (string, error) {
	path, err := configFile()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return "", err
	}
	v.Set("token", token)
	v.Set("user_id", userID)
	if err := v.WriteConfigAs(path); err != nil {
		return "", err
	}
	return path, os.Chmod(path, 0o600)
}
