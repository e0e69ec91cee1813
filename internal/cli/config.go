package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mesh-intelligence/tableland/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"
	envPrefix      = "TABLELAND"

	cfgKeyChain       = "chain"
	cfgKeyBaseURL     = "base_url"
	cfgKeyProviderURL = "provider_url"
	cfgKeyPrivateKey  = "private_key"
	cfgKeyAutoWait    = "auto_wait"
	cfgKeyLogLevel    = "log_level"
	cfgKeyLogFormat   = "log_format"
	cfgKeyDataDir     = "data_dir"
	cfgKeyListen      = "listen"

	flagBaseURL     = "base-url"
	flagProviderURL = "provider-url"
	flagPrivateKey  = "private-key"
	flagLogLevel    = "log-level"
	flagLogFormat   = "log-format"

	defaultListen = "127.0.0.1:8080"
)

// flagKeys maps persistent flag names to config keys.
var flagKeys = map[string]string{
	cfgKeyChain:     cfgKeyChain,
	flagBaseURL:     cfgKeyBaseURL,
	flagProviderURL: cfgKeyProviderURL,
	flagPrivateKey:  cfgKeyPrivateKey,
	flagLogLevel:    cfgKeyLogLevel,
	flagLogFormat:   cfgKeyLogFormat,
}

// defaultConfigYAML is written to config.yaml on first run.
const defaultConfigYAML = `# tableland CLI configuration
# Environment variables TABLELAND_<KEY> and flags override these values.

# Network name or chain id, e.g. base-sepolia or 84532
# chain:

# Read API and provider overrides (default: the network's)
# base_url:
# provider_url:

# Wait for receipts after exec
auto_wait: false

# Logging
log_level: info
log_format: text

# Local node state for "tableland serve"
# data_dir:
# listen: 127.0.0.1:8080
`

// loadConfig reads config.yaml from configDir, creating the directory and a
// default file on first run, and layers environment variables and flags on
// top. A missing config.yaml is not an error.
func loadConfig(configDir string, cmd *cobra.Command) (*viper.Viper, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := ensureDefaultConfigFile(configDir); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyLogLevel, "info")
	v.SetDefault(cfgKeyLogFormat, "text")
	v.SetDefault(cfgKeyListen, defaultListen)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	flags := cmd.Root().PersistentFlags()
	for name, key := range flagKeys {
		if f := flags.Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return nil, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// ensureDefaultConfigFile creates config.yaml when it does not exist.
func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, configFileExt)

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}
	return os.WriteFile(path, []byte(defaultConfigYAML), 0o600)
}

// connectionConfig builds and validates the library configuration.
func connectionConfig(v *viper.Viper) (types.Config, error) {
	cfg := types.Config{
		PrivateKey:  v.GetString(cfgKeyPrivateKey),
		Chain:       v.GetString(cfgKeyChain),
		ProviderURL: v.GetString(cfgKeyProviderURL),
		BaseURL:     v.GetString(cfgKeyBaseURL),
		AutoWait:    v.GetBool(cfgKeyAutoWait),
	}
	if err := cfg.Validate(); err != nil {
		return types.Config{}, err
	}
	return cfg, nil
}
