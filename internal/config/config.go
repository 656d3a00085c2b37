package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Sheet backends.
const (
	BackendSQLite = "sqlite"
	BackendNotion = "notion"
)

// Config holds the application configuration
type Config struct {
	DataFile   string `mapstructure:"data_file"`
	ExportFile string `mapstructure:"export_file"`
	// Sheet backend: sqlite, notion
	SheetBackend     string `mapstructure:"sheet_backend"`
	SheetPath        string `mapstructure:"sheet_path"`
	SheetTab         string `mapstructure:"sheet_tab"`
	NotionToken      string `mapstructure:"notion_token"`
	NotionDatabaseID string `mapstructure:"notion_database_id"`
	RedisURL         string `mapstructure:"redis_url"`
	LogLevel         string `mapstructure:"log_level"`
}

var AppConfig *Config

// HomeEnv overrides the configuration directory.
const HomeEnv = "PLACEMENT_HOME"

// Dir returns the configuration directory: $PLACEMENT_HOME, or ~/.placement.
func Dir() (string, error) {
	if dir := os.Getenv(HomeEnv); dir != "" {
		return dir, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".placement"), nil
}

// Initialize loads or creates the configuration file
func Initialize() error {
	// .env is optional
	_ = godotenv.Load()

	configDir, err := Dir()
	if err != nil {
		return err
	}
	configFile := filepath.Join(configDir, "config.yaml")

	// Create config directory if it doesn't exist
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Create default config if it doesn't exist
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		if err := createDefaultConfig(configFile, configDir); err != nil {
			return err
		}
	}

	viper.SetConfigFile(configFile)
	viper.SetConfigType("yaml")

	viper.SetEnvPrefix("PLACEMENT")
	viper.AutomaticEnv()

	// Set defaults
	for key, value := range defaults(configDir) {
		viper.SetDefault(key, value)
	}

	// Read config
	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}

	return load()
}

func load() error {
	cfg := &Config{}
	if err := viper.Unmarshal(cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.SheetBackend = strings.ToLower(strings.TrimSpace(cfg.SheetBackend))
	AppConfig = cfg
	return nil
}

func defaults(configDir string) map[string]string {
	return map[string]string{
		"data_file":          filepath.Join(configDir, "board.json"),
		"export_file":        "placement_data.json",
		"sheet_backend":      BackendSQLite,
		"sheet_path":         filepath.Join(configDir, "workbook.db"),
		"sheet_tab":          "Applications",
		"notion_token":       "",
		"notion_database_id": "",
		"redis_url":          "",
		"log_level":          "warn",
	}
}

// Keys lists every configuration key in name order.
func Keys() []string {
	keys := make([]string, 0, 9)
	for key := range defaults("") {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// createDefaultConfig creates a default config file
func createDefaultConfig(path, configDir string) error {
	defaultConfig := fmt.Sprintf(`# Placement Tracker Configuration
# Working board, rewritten after every change
data_file: %q
# Default target of "placement export"
export_file: placement_data.json

# Sheet backend for push/pull: sqlite, notion
sheet_backend: sqlite
sheet_path: %q
sheet_tab: Applications

# Notion integration (keep this file secure!)
notion_token: ""
notion_database_id: ""

# Optional Redis URL for board change events, e.g. redis://localhost:6379/0
redis_url: ""

# debug, info, warn, error
log_level: warn
`, filepath.Join(configDir, "board.json"), filepath.Join(configDir, "workbook.db"))
	return os.WriteFile(path, []byte(defaultConfig), 0600)
}

// Set updates a configuration value
func Set(key, value string) error {
	key = strings.ToLower(strings.TrimSpace(key))
	if _, ok := defaults("")[key]; !ok {
		return fmt.Errorf("unknown config key %q (valid: %s)", key, strings.Join(Keys(), ", "))
	}
	if key == "sheet_backend" {
		switch strings.ToLower(value) {
		case BackendSQLite, BackendNotion:
		default:
			return fmt.Errorf("sheet_backend must be %s or %s", BackendSQLite, BackendNotion)
		}
	}

	viper.Set(key, value)
	if err := viper.WriteConfig(); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return load()
}

// Get retrieves a configuration value
func Get(key string) string {
	return viper.GetString(key)
}

// GetConfigPath returns the path to the config file
func GetConfigPath() string {
	configDir, _ := Dir()
	return filepath.Join(configDir, "config.yaml")
}
