// Config loading for the webindex CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	defaultConfigDirName = ".webindex"
	envConfigDir         = "WEBINDEX_CONFIG_DIR"
	envPrefix            = "WEBINDEX"

	// Config keys.
	cfgKeyEndpoint    = "endpoint"
	cfgKeyBucket      = "bucket"
	cfgKeyAccessKey   = "access_key"
	cfgKeySecretKey   = "secret_key"
	cfgKeyRegion      = "region"
	cfgKeyUseSSL      = "use_ssl"
	cfgKeyManifestDir = "manifest_dir"
)

// defaultConfigYAML is the content written to config.yaml on first run.
const defaultConfigYAML = `# Webindex CLI configuration.
# Every key is overridable through the environment as WEBINDEX_<KEY>.

# Object store connection
endpoint: localhost:9000
bucket: web-index
access_key: ""
secret_key: ""
region: ""
use_ssl: false

# Upload journal location (optional; deterministic lookups need it)
# manifest_dir:
`

// resolveConfigDir returns the configuration directory:
// --config-dir flag > WEBINDEX_CONFIG_DIR env > $(CWD)/.webindex.
func resolveConfigDir() (string, error) {
	if flagConfigDir != "" {
		return flagConfigDir, nil
	}
	if dir := os.Getenv(envConfigDir); dir != "" {
		return dir, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(cwd, defaultConfigDirName), nil
}

// loadConfig reads config.yaml from the resolved config directory using
// Viper. It creates the config directory and a default config.yaml on first
// run; a missing config.yaml is not an error.
func loadConfig(configDir string) (*viper.Viper, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}

	if err := ensureDefaultConfigFile(configDir); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyEndpoint, "localhost:9000")
	v.SetDefault(cfgKeyBucket, "web-index")
	v.SetDefault(cfgKeyUseSSL, false)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	return v, nil
}

// ensureDefaultConfigFile creates a default config.yaml if the file does not
// exist in the config directory.
func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, configFileExt)

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}

	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}
