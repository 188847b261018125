package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/nodewee/fulltext/pkg/constants"
)

// Default values
const (
	DefaultLogLevel      = "info"
	DefaultEnableVerbose = false
	DefaultDataDir       = "./data"
)

// Config holds application configuration. It is built once at startup and
// only read afterwards.
type Config struct {
	// Converter argv overrides keyed by tool name; missing tools use the
	// compiled-in defaults
	TextExtractors map[string][]string

	CommandTimeout time.Duration
	LogLevel       string
	EnableVerbose  bool

	// Service settings
	DataDir    string
	ListenAddr string
	Workers    int

	// Path of the file the configuration was read from, if any
	Source string
}

// DefaultConfig returns the compiled-in configuration
func DefaultConfig() *Config {
	return &Config{
		TextExtractors: map[string][]string{},
		CommandTimeout: constants.DefaultCommandTimeout,
		LogLevel:       DefaultLogLevel,
		EnableVerbose:  DefaultEnableVerbose,
		DataDir:        DefaultDataDir,
		ListenAddr:     constants.DefaultListenAddr,
		Workers:        constants.DefaultWorkers,
	}
}

// LoadConfigWithEnvOverrides loads .env, then the config file at path (or
// FULLTEXT_CONFIG, or the default location) and applies environment overrides
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	// A missing .env file is not an error
	_ = godotenv.Load()

	if path == "" {
		path = os.Getenv("FULLTEXT_CONFIG")
	}

	config, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	if value := os.Getenv("FULLTEXT_COMMAND_TIMEOUT"); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			config.CommandTimeout = d
		}
	}
	if value := os.Getenv("FULLTEXT_LOG_LEVEL"); value != "" {
		config.LogLevel = value
	}
	if value := os.Getenv("FULLTEXT_VERBOSE"); value != "" {
		config.EnableVerbose = parseBool(value)
	}
	if value := os.Getenv("FULLTEXT_DATA_DIR"); value != "" {
		config.DataDir = value
	}
	if value := os.Getenv("FULLTEXT_LISTEN_ADDR"); value != "" {
		config.ListenAddr = value
	}
	if value := os.Getenv("FULLTEXT_WORKERS"); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			config.Workers = intVal
		}
	}

	return config, nil
}

func parseBool(value string) bool {
	switch strings.ToLower(value) {
	case "true", "1", "yes":
		return true
	}
	return false
}

// Command returns the argv configured for tool, or its compiled-in default
func (c *Config) Command(tool string) []string {
	if argv, ok := c.TextExtractors[tool]; ok {
		return append([]string(nil), argv...)
	}
	return constants.DefaultCommands()[tool]
}

// IsOverridden reports whether tool has a configured argv
func (c *Config) IsOverridden(tool string) bool {
	_, ok := c.TextExtractors[tool]
	return ok
}

// Validate validates the configuration
func (c *Config) Validate() error {
	validator := NewConfigValidator()
	return validator.Validate(c)
}

// Clone creates a deep copy of the configuration
func (c *Config) Clone() *Config {
	extractors := make(map[string][]string, len(c.TextExtractors))
	for tool, argv := range c.TextExtractors {
		extractors[tool] = append([]string(nil), argv...)
	}
	clone := *c
	clone.TextExtractors = extractors
	return &clone
}

// String returns a string representation of the configuration
func (c *Config) String() string {
	return fmt.Sprintf("Config{CommandTimeout: %s, LogLevel: %s, Verbose: %v, Workers: %d}",
		c.CommandTimeout, c.LogLevel, c.EnableVerbose, c.Workers)
}
