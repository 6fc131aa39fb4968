// Package config provides centralized configuration validation.
package config

import (
	"fmt"
	"strings"

	"github.com/scriptedworld/raptar/internal/utils"
)

// ValidKeys returns all valid configuration keys.
func ValidKeys() []string {
	return []string{
		KeyIgnoreUse,
		KeyIgnoreAlwaysExclude,
		KeyIgnoreAlwaysInclude,
		KeyIgnoreWithoutNames,
		KeyIgnoreWithout,
		KeyDefaultsFormat,
		KeyDefaultsCompression,
		KeyDefaultsReproducible,
		KeyDefaultsDereference,
		KeyDefaultsMaxFileSize,
	}
}

// IsValidKey checks if the given key is a valid configuration key.
func IsValidKey(key string) bool {
	for _, validKey := range ValidKeys() {
		if key == validKey {
			return true
		}
	}
	return false
}

// ValidateValue validates a configuration value for the given key. List
// keys (ignore.*) are not checked here or by config set, which stores
// their comma-separated elements as given.
func ValidateValue(key, value string) error {
	switch key {
	case KeyDefaultsMaxFileSize:
		if value == "" {
			return nil
		}
		return validateSizeFormat(value)
	case KeyDefaultsReproducible, KeyDefaultsDereference:
		return validateBooleanValue(value)
	case KeyDefaultsFormat:
		return validateEnum(value, "tar", "zip")
	case KeyDefaultsCompression:
		return validateEnum(value, "none", "gzip", "bzip2", "zstd")
	}

	return nil
}

// ConvertValue converts a string configuration value to the appropriate type.
func ConvertValue(key, value string) (interface{}, error) {
	switch key {
	case KeyDefaultsReproducible, KeyDefaultsDereference:
		return strings.ToLower(value) == "true", nil
	default:
		return value, nil
	}
}

func validateSizeFormat(value string) error {
	if _, err := utils.ParseSize(value); err != nil {
		return fmt.Errorf("expected size format (e.g., 1MB, 500KB): %w", err)
	}
	return nil
}

func validateBooleanValue(value string) error {
	lower := strings.ToLower(value)
	if lower != "true" && lower != "false" {
		return fmt.Errorf("expected 'true' or 'false', got '%s'", value)
	}
	return nil
}

func validateEnum(value string, options ...string) error {
	for _, opt := range options {
		if value == opt {
			return nil
		}
	}
	return fmt.Errorf("expected one of: %s", strings.Join(options, ", "))
}
