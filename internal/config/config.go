package config

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config is the immutable per-run configuration. It is loaded once and
// passed by value into every component; nothing mutates it after Load.
type Config struct {
	App       AppConfig        `mapstructure:"app"`
	Server    ServerConfig     `mapstructure:"server"`
	Backup    BackupConfig     `mapstructure:"backup"`
	Databases []DatabaseConfig `mapstructure:"databases"`
}

type AppConfig struct {
	Name     string `mapstructure:"name"`
	LogLevel string `mapstructure:"log_level"`
	LogFile  string `mapstructure:"log_file"`
}

// ServerConfig describes the one MySQL-family server this tool manages.
type ServerConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`

	// DataDir is the server's data directory; each database is a
	// subdirectory whose mtime drives change detection.
	DataDir string `mapstructure:"data_dir"`

	// BinlogDir is where the server writes its binary logs.
	BinlogDir string `mapstructure:"binlog_dir"`

	// BinlogBase is the binlog base name, e.g. "mysql-bin" for segments
	// named mysql-bin.000001.
	BinlogBase string `mapstructure:"binlog_base"`
}

type BackupConfig struct {
	// Dir holds the artifacts, the binlog markers and the log-bin archive
	// subdirectory.
	Dir           string         `mapstructure:"dir"`
	CompressLevel int            `mapstructure:"compress_level"`
	UploadTargets []UploadTarget `mapstructure:"upload_targets"`
}

type DatabaseConfig struct {
	Name     string `mapstructure:"name"`
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule"`

	// DumpOptions, when set, is passed to the dump tool verbatim instead of
	// the engine-derived option set.
	DumpOptions []string `mapstructure:"dump_options"`
}

type UploadTarget struct {
	Type    string `mapstructure:"type"`
	Enabled bool   `mapstructure:"enabled"`

	// Local mirror directory
	Path string `mapstructure:"path"`

	// Google Drive
	CredentialsFile string `mapstructure:"credentials_file"`
	FolderID        string `mapstructure:"folder_id"`

	// AWS S3
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Prefix    string `mapstructure:"prefix"`

	// Telegram
	BotToken string `mapstructure:"bot_token"`
	ChatID   string `mapstructure:"chat_id"`
	SendFile bool   `mapstructure:"send_file"`
}

func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetDefault("app.name", "rewind")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.port", 3306)
	v.SetDefault("server.binlog_base", "mysql-bin")
	v.SetDefault("backup.compress_level", 6)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.User == "" {
		return fmt.Errorf("server.user is required")
	}
	if c.Server.DataDir == "" {
		return fmt.Errorf("server.data_dir is required")
	}
	if c.Server.BinlogDir == "" {
		return fmt.Errorf("server.binlog_dir is required")
	}
	if c.Backup.Dir == "" {
		return fmt.Errorf("backup.dir is required")
	}
	if len(c.Databases) == 0 {
		return fmt.Errorf("at least one database is required")
	}

	for i, db := range c.Databases {
		if db.Name == "" {
			return fmt.Errorf("databases[%d]: name is required", i)
		}
	}
	return nil
}

// LogArchiveDir is where closed binlog segments are collected.
func (c *Config) LogArchiveDir() string {
	return filepath.Join(c.Backup.Dir, "log-bin")
}

func (c *Config) EnabledDatabases() []DatabaseConfig {
	var enabled []DatabaseConfig
	for _, db := range c.Databases {
		if db.Enabled {
			enabled = append(enabled, db)
		}
	}
	return enabled
}

func (c *Config) EnabledUploadTargets() []UploadTarget {
	var enabled []UploadTarget
	for _, t := range c.Backup.UploadTargets {
		if t.Enabled {
			enabled = append(enabled, t)
		}
	}
	return enabled
}
