package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/orieldave/half-baked/internal/paths"
	"github.com/orieldave/half-baked/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"
	envPrefix      = "HALFBAKED"

	cfgKeyBackend    = "backend"
	cfgKeyDataDir    = "data_dir"
	cfgKeyLogLevel   = "log_level"
	cfgKeyTemp       = "defaults.temp"
	cfgKeyDoubleTemp = "defaults.double_temp"
	cfgKeyInoc       = "defaults.inoc"

	defaultLogLevel = "info"
)

// configFile holds the structure written to config.yaml by init.
type configFile struct {
	Backend  string                `yaml:"backend"`
	DataDir  string                `yaml:"data_dir,omitempty"`
	LogLevel string                `yaml:"log_level"`
	Defaults types.FermentDefaults `yaml:"defaults"`
}

// loadConfig reads config.yaml from configDir, or the file named by
// HALFBAKED_CONFIG when set. A missing config.yaml in configDir is not an
// error; a missing explicit file is. Keys can be overridden from the
// environment with the HALFBAKED_ prefix, dots replaced by underscores.
func loadConfig(configDir string) (*viper.Viper, error) {
	v := viper.New()
	d := types.DefaultFermentDefaults()
	v.SetDefault(cfgKeyBackend, types.BackendSQLite)
	v.SetDefault(cfgKeyLogLevel, defaultLogLevel)
	v.SetDefault(cfgKeyTemp, d.Temp)
	v.SetDefault(cfgKeyDoubleTemp, d.DoubleTemp)
	v.SetDefault(cfgKeyInoc, d.Inoc)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file := paths.ConfigFile(); file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(configFileName)
		v.SetConfigType(configFileType)
		v.AddConfigPath(configDir)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// fermentDefaults returns the stage defaults configured under defaults.*.
func fermentDefaults(v *viper.Viper) types.FermentDefaults {
	return types.FermentDefaults{
		Temp:       v.GetFloat64(cfgKeyTemp),
		DoubleTemp: v.GetFloat64(cfgKeyDoubleTemp),
		Inoc:       v.GetFloat64(cfgKeyInoc),
	}
}

// configPath returns where init writes the configuration file.
func configPath(configDir string) string {
	if file := paths.ConfigFile(); file != "" {
		return file
	}
	return filepath.Join(configDir, configFileExt)
}

// writeConfigIfMissing creates the config file with default values. An
// existing file is left alone. Reports whether a file was written.
func writeConfigIfMissing(path, dataDir string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("stat config file: %w", err)
	}

	cfg := configFile{
		Backend:  types.BackendSQLite,
		DataDir:  dataDir,
		LogLevel: defaultLogLevel,
		Defaults: types.DefaultFermentDefaults(),
	}
	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return false, fmt.Errorf("marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return false, err
	}
	return true, nil
}
