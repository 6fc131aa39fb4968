// Package config provides centralized configuration metadata.
package config

// ConfigType represents the type of a configuration value.
type ConfigType int

const (
	// TypeString represents a free-form string value.
	TypeString ConfigType = iota
	// TypeInt represents an integer value.
	TypeInt
	// TypeBool represents a boolean value.
	TypeBool
	// TypeSize represents a size format value (e.g., '10MB', '500KB').
	TypeSize
	// TypePath represents a file system path.
	TypePath
	// TypeEnum represents a value from a predefined set.
	TypeEnum
	// TypeStringList represents an ordered list of free-form strings
	// (e.g. ignore.always-exclude pattern list).
	TypeStringList
)

// String returns the string representation of ConfigType.
func (t ConfigType) String() string {
	switch t {
	case TypeString:
		return "string"
	case TypeInt:
		return "int"
	case TypeBool:
		return "bool"
	case TypeSize:
		return "size"
	case TypePath:
		return "path"
	case TypeEnum:
		return "enum"
	case TypeStringList:
		return "string-list"
	default:
		return "unknown"
	}
}

// ConfigCategory represents a logical grouping of configuration keys.
type ConfigCategory string

const (
	// CategoryIgnore groups ignore-rule layering configuration.
	CategoryIgnore ConfigCategory = "Ignore"
	// CategoryDefaults groups archive-encoding defaults.
	CategoryDefaults ConfigCategory = "Defaults"
)

// ConfigMetadata describes a single configuration key.
type ConfigMetadata struct {
	// Key is the configuration key (e.g., "defaults.format").
	Key string
	// Category is the logical grouping for this key.
	Category ConfigCategory
	// Type is the value type for validation and UI rendering.
	Type ConfigType
	// Description is a human-readable description of the key.
	Description string
	// DefaultValue is the default value for this key.
	DefaultValue interface{}
	// EnumOptions lists valid values for TypeEnum keys.
	EnumOptions []string
	// MinValue is the minimum value for TypeInt keys.
	MinValue int
	// MaxValue is the maximum value for TypeInt keys.
	MaxValue int
}

// allMetadata holds all configuration metadata, built once at init.
var allMetadata []ConfigMetadata

func init() {
	allMetadata = buildAllMetadata()
}

// AllConfigMetadata returns all configuration metadata.
func AllConfigMetadata() []ConfigMetadata {
	return allMetadata
}

// GetMetadata returns metadata for a specific key.
func GetMetadata(key string) (ConfigMetadata, bool) {
	for _, m := range allMetadata {
		if m.Key == key {
			return m, true
		}
	}
	return ConfigMetadata{}, false
}

// GetByCategory returns all metadata for a specific category.
func GetByCategory(category ConfigCategory) []ConfigMetadata {
	var result []ConfigMetadata
	for _, m := range allMetadata {
		if m.Category == category {
			result = append(result, m)
		}
	}
	return result
}

// AllCategories returns all categories in display order.
func AllCategories() []ConfigCategory {
	return []ConfigCategory{
		CategoryIgnore,
		CategoryDefaults,
	}
}

// buildAllMetadata constructs the complete metadata list.
func buildAllMetadata() []ConfigMetadata {
	return []ConfigMetadata{
		// Ignore layering (5 keys)
		{
			Key:          KeyIgnoreUse,
			Category:     CategoryIgnore,
			Type:         TypeStringList,
			Description:  "Additional ignore files to load at config_use priority",
			DefaultValue: []string{},
		},
		{
			Key:          KeyIgnoreAlwaysExclude,
			Category:     CategoryIgnore,
			Type:         TypeStringList,
			Description:  "Patterns always excluded regardless of other sources",
			DefaultValue: []string{},
		},
		{
			Key:          KeyIgnoreAlwaysInclude,
			Category:     CategoryIgnore,
			Type:         TypeStringList,
			Description:  "Patterns always included regardless of other sources",
			DefaultValue: []string{},
		},
		{
			Key:          KeyIgnoreWithoutNames,
			Category:     CategoryIgnore,
			Type:         TypeStringList,
			Description:  "Ignore-file basenames to stop honoring (e.g. .gitignore)",
			DefaultValue: []string{},
		},
		{
			Key:          KeyIgnoreWithout,
			Category:     CategoryIgnore,
			Type:         TypeStringList,
			Description:  "On-disk ignore file paths; stored, but archive, list and watch do not read this key",
			DefaultValue: []string{},
		},

		// Defaults (5 keys)
		{
			Key:          KeyDefaultsFormat,
			Category:     CategoryDefaults,
			Type:         TypeEnum,
			Description:  "Archive container format used when --format is omitted",
			DefaultValue: "tar",
			EnumOptions:  []string{"tar", "zip"},
		},
		{
			Key:          KeyDefaultsCompression,
			Category:     CategoryDefaults,
			Type:         TypeEnum,
			Description:  "Tar compression codec used when --compression is omitted",
			DefaultValue: "gzip",
			EnumOptions:  []string{"none", "gzip", "bzip2", "zstd"},
		},
		{
			Key:          KeyDefaultsReproducible,
			Category:     CategoryDefaults,
			Type:         TypeBool,
			Description:  "Zero timestamps and mask modes for byte-identical output",
			DefaultValue: false,
		},
		{
			Key:          KeyDefaultsDereference,
			Category:     CategoryDefaults,
			Type:         TypeBool,
			Description:  "Follow symlinks and archive their targets",
			DefaultValue: false,
		},
		{
			Key:          KeyDefaultsMaxFileSize,
			Category:     CategoryDefaults,
			Type:         TypeSize,
			Description:  "File size limit (e.g. 100MB); validated and stored, but archive, list and watch do not apply it",
			DefaultValue: "",
		},
	}
}
