// Config loading for the larder CLI.
package main

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/larder/internal/bundle"
	"github.com/mesh-intelligence/larder/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	cfgKeyBackend        = "backend"
	cfgKeyDataDir        = "data_dir"
	cfgKeyDataset        = "dataset"
	cfgKeySugarPolicy    = "sugar_policy"
	cfgKeyLogLevel       = "log_level"
	cfgKeyLogFormat      = "log_format"
	cfgKeyServeAddr      = "serve.addr"
	cfgKeyServeDev       = "serve.dev"
	cfgKeyServeCORS      = "serve.cors_origins"
	cfgKeyServeRateLimit = "serve.rate_limit"
	cfgKeyServeRateBurst = "serve.rate_burst"
	cfgKeyServeProxy     = "serve.trust_proxy"
	cfgKeyBuild          = "build"

	defaultServeAddr = ":8080"
)

// envBindings maps config keys to the environment variables that override
// them. data_dir is absent because LARDER_DATA_DIR ranks below config.yaml.
var envBindings = map[string]string{
	cfgKeyBackend:        "LARDER_BACKEND",
	cfgKeyDataset:        "LARDER_DATASET",
	cfgKeySugarPolicy:    "LARDER_SUGAR_POLICY",
	cfgKeyLogLevel:       "LARDER_LOG_LEVEL",
	cfgKeyLogFormat:      "LARDER_LOG_FORMAT",
	cfgKeyServeAddr:      "LARDER_SERVE_ADDR",
	cfgKeyServeDev:       "LARDER_SERVE_DEV",
	cfgKeyServeCORS:      "LARDER_SERVE_CORS_ORIGINS",
	cfgKeyServeRateLimit: "LARDER_SERVE_RATE_LIMIT",
	cfgKeyServeRateBurst: "LARDER_SERVE_RATE_BURST",
	cfgKeyServeProxy:     "LARDER_SERVE_TRUST_PROXY",
}

// defaultConfigYAML is written to config.yaml on first run.
const defaultConfigYAML = `# Larder configuration

# Storage backend
backend: sqlite

# Data directory (optional; overridable by --data-dir flag)
# data_dir:

# Dataset seeded by "larder init" on first run (default: embedded table)
# dataset: foods.yaml

# How sugar is counted by the energy estimate:
#   additive  sugar is added on top of carbohydrates (front-end behavior)
#   included  sugar is part of carbohydrates and not added again
sugar_policy: additive

log_level: info
log_format: text

serve:
  addr: ":8080"
  dev: true
  # cors_origins: ["http://localhost:5173"]
  # Requests per second per client; 0 disables limiting.
  rate_limit: 0
  # rate_burst: 20
  # Take client addresses from X-Forwarded-For (only behind a proxy).
  trust_proxy: false

# Front-end build profile overrides; see "larder profile" for the defaults.
# build:
#   target: es2015
#   assets_inline_limit: 4096
`

// loadConfig reads config.yaml from the resolved config directory using Viper.
// It creates the config directory and a default config.yaml on first run.
// A missing config.yaml is not an error.
func loadConfig(configDir string) (*viper.Viper, error) {
	if err := ensureConfigDir(configDir); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}

	if err := ensureDefaultConfigFile(configDir); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyBackend, types.BackendSQLite)
	v.SetDefault(cfgKeySugarPolicy, string(types.SugarAdditive))
	v.SetDefault(cfgKeyLogLevel, "info")
	v.SetDefault(cfgKeyLogFormat, "text")
	v.SetDefault(cfgKeyServeAddr, defaultServeAddr)
	v.SetDefault(cfgKeyServeDev, true)
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", env, err)
		}
	}

	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	return v, nil
}

// ensureConfigDir creates the config directory if it does not exist.
func ensureConfigDir(configDir string) error {
	return os.MkdirAll(configDir, 0o755)
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

// loadProfile overlays the build section of config.yaml on the default
// profile and validates the result.
func loadProfile(v *viper.Viper) (bundle.Profile, error) {
	p := bundle.Default()
	if v.IsSet(cfgKeyBuild) {
		if err := v.UnmarshalKey(cfgKeyBuild, &p); err != nil {
			return bundle.Profile{}, fmt.Errorf("decode %s: %w", cfgKeyBuild, err)
		}
		if err := overlayBuildMaps(&p, v.ConfigFileUsed()); err != nil {
			return bundle.Profile{}, err
		}
	}
	if err := p.Validate(); err != nil {
		return bundle.Profile{}, err
	}
	return p, nil
}

// buildMaps holds the build maps whose keys are case-sensitive. Viper
// lowercases every key, so these are read from the file with yaml.v3.
type buildMaps struct {
	Build struct {
		ManualChunks map[string][]string `yaml:"manual_chunks"`
		Aliases      map[string]string   `yaml:"aliases"`
	} `yaml:"build"`
}

// overlayBuildMaps replaces the case-folded chunk and alias maps decoded by
// viper with the defaults plus the entries exactly as written in path.
func overlayBuildMaps(p *bundle.Profile, path string) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	var raw buildMaps
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode %s: %w", cfgKeyBuild, err)
	}

	def := bundle.Default()
	if raw.Build.ManualChunks != nil {
		p.ManualChunks = def.ManualChunks
		maps.Copy(p.ManualChunks, raw.Build.ManualChunks)
	}
	if raw.Build.Aliases != nil {
		p.Aliases = def.Aliases
		maps.Copy(p.Aliases, raw.Build.Aliases)
	}
	return nil
}
