package config

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/nodewee/fulltext/pkg/constants"
	"github.com/nodewee/fulltext/pkg/utils"
)

// ConfigValidator checks a Config before it is used
type ConfigValidator struct{}

// NewConfigValidator creates a config validator
func NewConfigValidator() *ConfigValidator {
	return &ConfigValidator{}
}

// Validate validates the configuration
func (v *ConfigValidator) Validate(c *Config) error {
	var errors []string

	if err := v.validateTextExtractors(c.TextExtractors); err != nil {
		errors = append(errors, err.Error())
	}

	if err := v.validateNumericValues(c); err != nil {
		errors = append(errors, err.Error())
	}

	if err := v.validateLogLevel(c.LogLevel); err != nil {
		errors = append(errors, err.Error())
	}

	if len(errors) > 0 {
		return utils.NewValidationError("configuration validation failed",
			fmt.Errorf("validation errors: %s", strings.Join(errors, "; ")))
	}

	return nil
}

// validateTextExtractors checks every converter override
func (v *ConfigValidator) validateTextExtractors(extractors map[string][]string) error {
	tools := make([]string, 0, len(extractors))
	for tool := range extractors {
		tools = append(tools, tool)
	}
	sort.Strings(tools)

	for _, tool := range tools {
		argv := extractors[tool]
		if !IsKnownTool(tool) {
			return fmt.Errorf("unknown converter %q", tool)
		}
		if len(argv) == 0 {
			return fmt.Errorf("converter %s: empty command", tool)
		}
		if !filepath.IsAbs(argv[0]) {
			return fmt.Errorf("converter %s: executable must be an absolute path, got %q", tool, argv[0])
		}
		placeholders := 0
		for _, arg := range argv {
			if arg == constants.FilePlaceholder {
				placeholders++
			}
		}
		if placeholders != 1 {
			return fmt.Errorf("converter %s: %s must appear exactly once", tool, constants.FilePlaceholder)
		}
	}
	return nil
}

// validateNumericValues checks timeouts and pool sizes
func (v *ConfigValidator) validateNumericValues(c *Config) error {
	if c.CommandTimeout <= 0 {
		return fmt.Errorf("command timeout must be positive")
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1")
	}
	if c.Workers > constants.MaxWorkers {
		return fmt.Errorf("workers should not exceed %d", constants.MaxWorkers)
	}
	return nil
}

// validateLogLevel checks the log level name
func (v *ConfigValidator) validateLogLevel(level string) error {
	validLevels := []string{"debug", "info", "warn", "error"}

	for _, valid := range validLevels {
		if strings.ToLower(level) == valid {
			return nil
		}
	}

	return fmt.Errorf("invalid log level: %s", level)
}
