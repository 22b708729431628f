package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/agentx-labs/frictionless/internal/branding"
	"github.com/agentx-labs/frictionless/internal/logging"
	"github.com/spf13/viper"
)

const (
	fileName = "config"
	fileType = "yaml"
)

// Recognized keys.
const (
	KeyPackageManager = "package_manager"
	KeyInstallTimeout = "install_timeout"
	KeyHistoryLimit   = "history_limit"
	KeyConcurrency    = "concurrency"
	KeyAutoFix        = "auto_fix"
	KeyLogLevel       = "log.level"
	KeyLogFormat      = "log.format"
	KeyLogOutput      = "log.output"
)

// Keys lists every recognized key, in display order.
var Keys = []string{
	KeyPackageManager, KeyInstallTimeout, KeyHistoryLimit, KeyConcurrency,
	KeyAutoFix, KeyLogLevel, KeyLogFormat, KeyLogOutput,
}

// Settings is the typed view of the loaded configuration.
type Settings struct {
	PackageManager string
	InstallTimeout time.Duration
	HistoryLimit   int
	Concurrency    int
	AutoFix        bool
	Log            logging.Options
}

var configFile string

// Dir returns the path to the config directory (~/.frictionless/).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the config file in use: the one set with SetFile, or
// ~/.frictionless/config.yaml.
func FilePath() string {
	if configFile != "" {
		return configFile
	}
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// SetFile overrides the config file location. Call before Load.
func SetFile(path string) {
	configFile = path
}

// EnsureDir creates the directory of the config file if it does not exist.
func EnsureDir() error {
	dir := filepath.Dir(FilePath())
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return nil
}

// Load initializes Viper to read from the config file and environment.
func Load() {
	viper.SetConfigFile(FilePath())
	viper.SetConfigType(fileType)
	viper.SetEnvPrefix(branding.EnvPrefix())
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault(KeyPackageManager, "")
	viper.SetDefault(KeyInstallTimeout, "5m")
	viper.SetDefault(KeyHistoryLimit, 10000)
	viper.SetDefault(KeyConcurrency, 8)
	viper.SetDefault(KeyAutoFix, false)
	viper.SetDefault(KeyLogLevel, logging.DefaultOptions.Level)
	viper.SetDefault(KeyLogFormat, logging.DefaultOptions.Format)
	viper.SetDefault(KeyLogOutput, logging.DefaultOptions.Output)

	// Ignore error if config file doesn't exist yet.
	_ = viper.ReadInConfig()
}

// Current returns the typed settings from the loaded configuration.
func Current() Settings {
	return Settings{
		PackageManager: viper.GetString(KeyPackageManager),
		InstallTimeout: viper.GetDuration(KeyInstallTimeout),
		HistoryLimit:   viper.GetInt(KeyHistoryLimit),
		Concurrency:    viper.GetInt(KeyConcurrency),
		AutoFix:        viper.GetBool(KeyAutoFix),
		Log: logging.Options{
			Level:  viper.GetString(KeyLogLevel),
			Format: viper.GetString(KeyLogFormat),
			Output: viper.GetString(KeyLogOutput),
		},
	}
}

// Get returns a config value by key. Returns empty string if not set.
func Get(key string) string {
	return viper.GetString(key)
}

// Known reports whether key is a recognized setting.
func Known(key string) bool {
	for _, k := range Keys {
		if k == key {
			return true
		}
	}
	return false
}

// Set writes a config key-value pair and saves the config file.
func Set(key, value string) error {
	if !Known(key) {
		return fmt.Errorf("unknown config key %q", key)
	}
	if err := EnsureDir(); err != nil {
		return err
	}

	viper.Set(key, value)

	configFile := FilePath()

	// Create the file if it doesn't exist.
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		f, err := os.Create(configFile)
		if err != nil {
			return fmt.Errorf("creating config file %s: %w", configFile, err)
		}
		f.Close()
	}

	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
