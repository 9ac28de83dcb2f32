package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config holds all runtime settings for the gradebook CLI.
type Config struct {
	Env string

	Database DatabaseConfig
	Export   ExportConfig
	Backup   BackupConfig
	Log      LogConfig
	Trends   TrendsConfig
}

// DatabaseConfig locates the local SQLite store.
type DatabaseConfig struct {
	Path         string
	MaxOpenConns int
	MaxIdleConns int
}

// ExportConfig controls file export destinations.
type ExportConfig struct {
	Dir           string
	DefaultFormat string
}

// BackupConfig controls database snapshot storage.
type BackupConfig struct {
	Dir string
}

// LogConfig tunes the zap logger.
type LogConfig struct {
	Level  string
	Format string
}

// TrendsConfig tunes the trend view defaults.
type TrendsConfig struct {
	WindowDays int
}

// Load reads configuration from the environment with ~/.gradebook defaults.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			if _, statErr := os.Stat(".env"); statErr == nil {
				return nil, err
			}
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")

	cfg.Database = DatabaseConfig{
		Path:         expandHome(v.GetString("GRADEBOOK_DB_PATH")),
		MaxOpenConns: v.GetInt("GRADEBOOK_DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("GRADEBOOK_DB_MAX_IDLE_CONNS"),
	}

	cfg.Export = ExportConfig{
		Dir:           expandHome(v.GetString("GRADEBOOK_EXPORT_DIR")),
		DefaultFormat: v.GetString("GRADEBOOK_EXPORT_FORMAT"),
	}

	cfg.Backup = BackupConfig{
		Dir: expandHome(v.GetString("GRADEBOOK_BACKUP_DIR")),
	}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Trends = TrendsConfig{
		WindowDays: v.GetInt("TREND_WINDOW_DAYS"),
	}
	if cfg.Trends.WindowDays <= 0 {
		cfg.Trends.WindowDays = 30
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)

	v.SetDefault("GRADEBOOK_DB_PATH", "~/.gradebook/gradebook.db")
	v.SetDefault("GRADEBOOK_DB_MAX_OPEN_CONNS", 1)
	v.SetDefault("GRADEBOOK_DB_MAX_IDLE_CONNS", 1)

	v.SetDefault("GRADEBOOK_EXPORT_DIR", "~/.gradebook/exports")
	v.SetDefault("GRADEBOOK_EXPORT_FORMAT", "txt")

	v.SetDefault("GRADEBOOK_BACKUP_DIR", "~/.gradebook/backups")

	v.SetDefault("LOG_LEVEL", "warn")
	v.SetDefault("LOG_FORMAT", "console")

	v.SetDefault("TREND_WINDOW_DAYS", 30)
}

func expandHome(path string) string {
	if path == "" || !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
