package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

const (
	envPrefix      = "LUNALOG"
	configFileName = "lunalog"
	dataDirName    = "lunalog"
)

type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

type LogConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

type SecretsConfig struct {
	Backend string `mapstructure:"backend"`
	Service string `mapstructure:"service"`
	Dir     string `mapstructure:"dir"`
}

type SecurityConfig struct {
	BcryptCost int `mapstructure:"bcrypt_cost"`
}

type SessionConfig struct {
	UnlockTTL time.Duration `mapstructure:"unlock_ttl"`
}

type ExportConfig struct {
	Dir string `mapstructure:"dir"`
}

type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`
	Secrets  SecretsConfig  `mapstructure:"secrets"`
	Security SecurityConfig `mapstructure:"security"`
	Session  SessionConfig  `mapstructure:"session"`
	Export   ExportConfig   `mapstructure:"export"`
}

// Load reads configuration in increasing precedence: built-in defaults,
// lunalog.yaml (from path, or the working and data directories when path is
// empty), a .env file in the working directory, then LUNALOG_* variables
// such as LUNALOG_DATABASE_PATH.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	dataDir := DefaultDataDir()
	v := viper.New()
	setDefaults(v, dataDir)

	if path == "" {
		v.SetConfigName(configFileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(dataDir)
	} else {
		v.SetConfigFile(path)
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func setDefaults(v *viper.Viper, dataDir string) {
	v.SetDefault("database.path", filepath.Join(dataDir, "period_tracker.db"))
	v.SetDefault("log.file", filepath.Join(dataDir, "logs", "lunalog.log"))
	v.SetDefault("log.level", "info")
	v.SetDefault("secrets.backend", "keyring")
	v.SetDefault("secrets.service", "lunalog")
	v.SetDefault("secrets.dir", filepath.Join(dataDir, "secrets"))
	v.SetDefault("security.bcrypt_cost", bcrypt.DefaultCost)
	v.SetDefault("session.unlock_ttl", "15m")
	v.SetDefault("export.dir", ".")
}

func (c *Config) validate() error {
	switch c.Secrets.Backend {
	case "keyring", "file":
	default:
		return fmt.Errorf("secrets.backend must be keyring or file, got %q", c.Secrets.Backend)
	}
	if strings.TrimSpace(c.Database.Path) == "" {
		return errors.New("database.path is required")
	}
	if c.Security.BcryptCost < bcrypt.MinCost || c.Security.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("security.bcrypt_cost must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	if c.Session.UnlockTTL <= 0 {
		return errors.New("session.unlock_ttl must be positive")
	}
	return nil
}

// DefaultDataDir is the per-user directory for the database, logs and file
// secrets.
func DefaultDataDir() string {
	base, err := os.UserConfigDir()
	if err != nil || base == "" {
		return "." + dataDirName
	}
	return filepath.Join(base, dataDirName)
}
