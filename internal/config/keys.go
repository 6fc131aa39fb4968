// Package config provides centralized configuration key constants.
package config

const (
	// Ignore layering ("config_use"/"config_always_exclude"/"config_always_include")
	KeyIgnoreUse           = "ignore.use"
	KeyIgnoreAlwaysExclude = "ignore.always-exclude"
	KeyIgnoreAlwaysInclude = "ignore.always-include"
	KeyIgnoreWithoutNames  = "ignore.without-ignorefile-names"
	KeyIgnoreWithout       = "ignore.without-ignorefiles"

	// Defaults applied when the equivalent CLI flag is not given
	KeyDefaultsFormat       = "defaults.format"
	KeyDefaultsCompression  = "defaults.compression"
	KeyDefaultsReproducible = "defaults.reproducible"
	KeyDefaultsDereference  = "defaults.dereference"
	KeyDefaultsMaxFileSize  = "defaults.max-file-size"

	// Global
	KeyVerbose = "verbose"
	KeyQuiet   = "quiet"
)
