package config

import (
	"os"

	"github.com/TebbyShelby/pricecatcher/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config represents the server configuration
type Config struct {
	Log    LogConfig    `yaml:"log"`
	Server ServerConfig `yaml:"server"`
	Drive  DriveConfig  `yaml:"drive"`
}

// LogConfig represents logging configuration
type LogConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"`      // "json" or "console"
	FilePath   string `yaml:"file_path"`   // Path to log file
	Console    bool   `yaml:"console"`     // Whether to log to console
	MaxSize    int    `yaml:"max_size"`    // Max file size in MB
	MaxBackups int    `yaml:"max_backups"` // Max number of backup files
	Cleanup    bool   `yaml:"cleanup"`     // Whether to cleanup log file on startup
}

// ServerConfig represents the HTTP listen surface
type ServerConfig struct {
	Address string `yaml:"address"`
	Port    int    `yaml:"port"`
}

// DriveConfig represents the remote database location.
// Defaults point at the published pricecatcher file; overrides exist
// for pointing a deployment at a staging copy.
type DriveConfig struct {
	FolderID string `yaml:"folder_id"`
	FileName string `yaml:"file_name"`
}

// LoadDefaultConfig returns a default configuration
func LoadDefaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			Level:      "info",
			Format:     "console",
			FilePath:   "logs/pricecatcher-server.log",
			Console:    true,
			MaxSize:    100, // 100MB
			MaxBackups: 3,
			Cleanup:    true,
		},
		Server: ServerConfig{
			Address: DEFAULT_SERVER_ADDRESS,
			Port:    HTTP_SERVER_PORT,
		},
		Drive: DriveConfig{
			FolderID: DRIVE_FOLDER_ID,
			FileName: DRIVE_DB_NAME,
		},
	}
}

// LoadConfig loads configuration from a file
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.New(ErrConfigFileReadFailed, "failed to read config file", err)
	}

	config := LoadDefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, errors.New(ErrConfigFileParseFailed, "failed to parse config file", err)
	}

	if err := config.Validate(); err != nil {
		return nil, errors.New(ErrConfigValidationFailed, "configuration validation failed", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if !IsValidPort(c.Server.Port) {
		return errors.Newf(ErrServerPortInvalid, nil, "server port %d out of range", c.Server.Port)
	}

	if c.Drive.FolderID == "" {
		return errors.New(ErrDriveFolderRequired, "drive folder_id is required", nil)
	}

	if c.Drive.FileName == "" {
		return errors.New(ErrDriveFileNameRequired, "drive file_name is required", nil)
	}

	return nil
}
