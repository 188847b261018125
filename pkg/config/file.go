package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/nodewee/fulltext/pkg/constants"
	"github.com/nodewee/fulltext/pkg/utils"
)

const (
	ConfigFileName = "config.yml"
	AppDirName     = ".fulltext"
)

// ConfigFile represents the YAML configuration file structure
type ConfigFile struct {
	TextExtractors map[string][]string `yaml:"text_extractors,omitempty"`
	CommandTimeout string              `yaml:"command_timeout,omitempty"`
	LogLevel       string              `yaml:"log_level,omitempty"`
	Verbose        *bool               `yaml:"verbose,omitempty"`
	DataDir        string              `yaml:"data_dir,omitempty"`
	ListenAddr     string              `yaml:"listen_addr,omitempty"`
	Workers        int                 `yaml:"workers,omitempty"`
}

// GetConfigDir returns the user configuration directory (~/.fulltext)
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", utils.WrapError(err, utils.ErrorTypeIO, "failed to get user home directory")
	}
	return filepath.Join(homeDir, AppDirName), nil
}

// GetConfigFilePath returns the full path to the default configuration file
func GetConfigFilePath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, ConfigFileName), nil
}

// LoadConfig reads the configuration file at path, or the default location
// when path is empty. A missing file yields the defaults.
func LoadConfig(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		defaultPath, err := GetConfigFilePath()
		if err != nil {
			return DefaultConfig(), nil
		}
		path = defaultPath
	}

	expanded, err := utils.ExpandPath(path)
	if err != nil {
		return nil, utils.WrapError(err, utils.ErrorTypeIO, "failed to resolve config path")
	}

	data, err := os.ReadFile(expanded)
	if errors.Is(err, fs.ErrNotExist) && !explicit {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, utils.WrapError(err, utils.ErrorTypeIO, "failed to read config file")
	}

	config, err := ParseConfig(data)
	if err != nil {
		return nil, err
	}
	config.Source = expanded
	return config, nil
}

// ParseConfig decodes YAML configuration data on top of the defaults
func ParseConfig(data []byte) (*Config, error) {
	var cf ConfigFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, utils.NewValidationError("failed to parse config file", err)
	}
	return configFileToConfig(&cf)
}

// configFileToConfig converts ConfigFile to Config
func configFileToConfig(cf *ConfigFile) (*Config, error) {
	config := DefaultConfig()

	for tool, argv := range cf.TextExtractors {
		config.TextExtractors[tool] = append([]string(nil), argv...)
	}
	if cf.CommandTimeout != "" {
		d, err := time.ParseDuration(cf.CommandTimeout)
		if err != nil {
			return nil, utils.NewValidationError(fmt.Sprintf("invalid command_timeout %q", cf.CommandTimeout), err)
		}
		config.CommandTimeout = d
	}
	if cf.LogLevel != "" {
		config.LogLevel = cf.LogLevel
	}
	if cf.Verbose != nil {
		config.EnableVerbose = *cf.Verbose
	}
	if cf.DataDir != "" {
		config.DataDir = cf.DataDir
	}
	if cf.ListenAddr != "" {
		config.ListenAddr = cf.ListenAddr
	}
	if cf.Workers != 0 {
		config.Workers = cf.Workers
	}
	return config, nil
}

// configToConfigFile converts Config to ConfigFile
func configToConfigFile(c *Config) *ConfigFile {
	verbose := c.EnableVerbose
	return &ConfigFile{
		TextExtractors: c.TextExtractors,
		CommandTimeout: c.CommandTimeout.String(),
		LogLevel:       c.LogLevel,
		Verbose:        &verbose,
		DataDir:        c.DataDir,
		ListenAddr:     c.ListenAddr,
		Workers:        c.Workers,
	}
}

// SaveConfig writes the configuration to path as YAML
func SaveConfig(config *Config, path string) error {
	data, err := yaml.Marshal(configToConfigFile(config))
	if err != nil {
		return utils.WrapError(err, utils.ErrorTypeIO, "failed to marshal config")
	}

	if err := utils.EnsureDir(filepath.Dir(path)); err != nil {
		return utils.WrapError(err, utils.ErrorTypeIO, "failed to create config directory")
	}
	if err := os.WriteFile(path, data, constants.DefaultFilePermission); err != nil {
		return utils.WrapError(err, utils.ErrorTypeIO, "failed to write config file")
	}
	return nil
}

// GetToolCommand returns the argv used for tool and whether it is overridden
func GetToolCommand(config *Config, tool string) ([]string, bool, error) {
	if !IsKnownTool(tool) {
		return nil, false, utils.NewValidationError(fmt.Sprintf("unknown converter: %s", tool), nil)
	}
	return config.Command(tool), config.IsOverridden(tool), nil
}

// SetToolCommand stores an argv override for tool in the file at path
func SetToolCommand(path, tool string, argv []string) error {
	if !IsKnownTool(tool) {
		return utils.NewValidationError(fmt.Sprintf("unknown converter: %s", tool), nil)
	}

	config, err := LoadConfig(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	if config == nil {
		config = DefaultConfig()
	}

	updated := config.Clone()
	updated.TextExtractors[tool] = append([]string(nil), argv...)
	if err := updated.Validate(); err != nil {
		return err
	}
	return SaveConfig(updated, path)
}

// IsKnownTool reports whether tool is a configurable converter
func IsKnownTool(tool string) bool {
	for _, name := range constants.ToolNames {
		if name == tool {
			return true
		}
	}
	return false
}
