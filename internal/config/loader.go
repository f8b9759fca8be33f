package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rileyhilliard/pem/internal/errors"
	"github.com/spf13/viper"
)

const (
	// ConfigFileName is the settings file looked up in the current directory.
	ConfigFileName = ".pem.yaml"
	// GlobalConfigDir is the directory for the per-user settings file.
	GlobalConfigDir = ".config/pem"
	// GlobalConfigFile is the per-user settings file name.
	GlobalConfigFile = "config.yaml"
	// EnvPrefix prefixes environment overrides, e.g. PEM_PROMETHEUS_CONFIG.
	EnvPrefix = "PEM"
)

// Load reads settings from path, layered over the defaults and under the
// PEM_* environment. An empty path loads defaults and environment only.
func Load(path string) (*Config, error) {
	v := newViper()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if os.IsNotExist(err) {
				return nil, errors.WrapWithCode(err, errors.ErrConfig,
					"Settings file not found",
					"Check the path given with --config")
			}
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Failed to read settings file",
				"Check the file exists and is valid YAML")
		}
	}

	return parseConfig(v, path)
}

// Find locates the settings file using the search order:
// 1. Explicit path (from --config flag)
// 2. .pem.yaml in the current directory
// 3. ~/.config/pem/config.yaml
//
// Returns the path to the settings file, or empty string if not found.
func Find(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			if os.IsNotExist(err) {
				return "", errors.WrapWithCode(err, errors.ErrConfig,
					"Specified settings file not found: "+explicit,
					"Check the path is correct")
			}
			return "", errors.WrapWithCode(err, errors.ErrConfig,
				"Cannot access settings file: "+explicit,
				"Check file permissions")
		}
		return explicit, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot determine current directory",
			"Check directory permissions")
	}

	localConfig := filepath.Join(cwd, ConfigFileName)
	if _, err := os.Stat(localConfig); err == nil {
		return localConfig, nil
	}

	if home, _ := os.UserHomeDir(); home != "" {
		globalConfig := filepath.Join(home, GlobalConfigDir, GlobalConfigFile)
		if _, err := os.Stat(globalConfig); err == nil {
			return globalConfig, nil
		}
	}

	return "", nil
}

// LoadOrDefault finds the settings file, loads it and validates the result.
// With no file found the defaults (plus environment) are used.
func LoadOrDefault(explicit string) (*Config, string, error) {
	path, err := Find(explicit)
	if err != nil {
		return nil, "", err
	}

	cfg, err := Load(path)
	if err != nil {
		return nil, path, err
	}

	if err := Validate(cfg); err != nil {
		return nil, path, err
	}
	return cfg, path, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// setDefaults registers every key so environment overrides apply to all of
// them during Unmarshal.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("prometheus_config", d.PrometheusConfig)
	v.SetDefault("targets_v4", d.TargetsV4)
	v.SetDefault("targets_v6", d.TargetsV6)
	v.SetDefault("match", d.Match)
	v.SetDefault("backup", d.Backup)
	v.SetDefault("ports.node", d.Ports.Node)
	v.SetDefault("ports.probe", d.Ports.Probe)
	v.SetDefault("probe.module", d.Probe.Module)
	v.SetDefault("probe.sd_files", d.Probe.SDFiles)
	v.SetDefault("restart.container", d.Restart.Container)
	v.SetDefault("restart.command", d.Restart.Command)
	v.SetDefault("restart.timeout", d.Restart.Timeout.String())
}

// parseConfig converts viper config to our Config struct with defaults merged in.
func parseConfig(v *viper.Viper, path string) (*Config, error) {
	cfg := DefaultConfig()

	if err := v.Unmarshal(cfg); err != nil {
		where := "the PEM_* environment"
		if path != "" {
			where = path
		}
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Invalid settings format",
			"Check the values in "+where)
	}

	cfg.PrometheusConfig = ExpandPath(cfg.PrometheusConfig)
	cfg.TargetsV4 = ExpandPath(cfg.TargetsV4)
	cfg.TargetsV6 = ExpandPath(cfg.TargetsV6)

	return cfg, nil
}
