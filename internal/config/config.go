package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Project settings
	ProjectPath string
	TestPath    string

	// Output settings
	OutputJSONFile string
	OutputJSONDir  string

	// Paths to ignore when scanning
	PathsToIgnore []string

	// Run settings handed to discovery
	Settings *RunSettings

	// Command flags
	Flags Flags
}

// Flags holds command-line flags
type Flags struct {
	TestPath     string
	NameFilter   string
	SettingsFile string
	MySQL        bool
	NoSave       bool
	Progress     bool
	ShowCases    bool
	Verbosity    int
}

// New creates a new Config with defaults
func New() *Config {
	cfg := &Config{
		ProjectPath:    DefaultProjectPath,
		TestPath:       DefaultTestPath,
		OutputJSONFile: DefaultOutputJSONFile,
		OutputJSONDir:  DefaultOutputJSONDir,
		Settings:       DefaultRunSettings(),
		Flags:          Flags{Verbosity: -1},
	}
	// Copy default paths to ignore
	cfg.PathsToIgnore = make([]string, len(DefaultPathsToIgnore))
	copy(cfg.PathsToIgnore, DefaultPathsToIgnore)
	return cfg
}

// Load creates a config, reads the project's .env and run-settings file and
// applies flags
func Load(flags Flags) (*Config, error) {
	cfg := New()
	cfg.Flags = flags

	// .env is optional, the process environment is used as-is without it
	_ = godotenv.Load(filepath.Join(cfg.ProjectPath, ".env"))

	settings, err := LoadRunSettings(cfg.GetSettingsPath())
	if err != nil {
		return nil, err
	}
	if err := settings.ApplyEnv(); err != nil {
		return nil, err
	}
	if flags.Verbosity >= 0 {
		settings.Verbosity = flags.Verbosity
	}
	settings.DeriveSeed()
	cfg.Settings = settings

	return cfg, nil
}

// GetTestPath returns the scan root, using flag if provided
func (c *Config) GetTestPath() string {
	if c.Flags.TestPath != "" {
		// If TestPath is provided, make it relative to ProjectPath if it's not absolute
		if filepath.IsAbs(c.Flags.TestPath) {
			return c.Flags.TestPath
		}
		return filepath.Join(c.ProjectPath, c.Flags.TestPath)
	}

	return filepath.Join(c.ProjectPath, c.TestPath)
}

// GetSettingsPath returns the run-settings file path
func (c *Config) GetSettingsPath() string {
	if c.Flags.SettingsFile != "" {
		return c.Flags.SettingsFile
	}
	return filepath.Join(c.ProjectPath, DefaultSettingsFile)
}

// GetOutputPath returns the absolute path of the discovery output JSON file.
func (c *Config) GetOutputPath() string {
	p := filepath.Join(c.ProjectPath, c.OutputJSONDir, c.OutputJSONFile)
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

// GetDatabaseDSN builds the MySQL DSN for the discovered-case catalog from
// DB_* environment variables
func (c *Config) GetDatabaseDSN() string {
	dsn := mysql.NewConfig()
	dsn.User = envOr("DB_USERNAME", "root")
	dsn.Passwd = os.Getenv("DB_PASSWORD")
	dsn.Net = "tcp"
	dsn.Addr = fmt.Sprintf("%s:%s", envOr("DB_HOST", "127.0.0.1"), envOr("DB_PORT", "3306"))
	dsn.DBName = envOr("DB_DATABASE", "tda")
	dsn.ParseTime = true
	return dsn.FormatDSN()
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
