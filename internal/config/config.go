package config

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// ErrInvalidConfig is returned by Load when the resolved configuration
// record fails validation.
var ErrInvalidConfig = errors.New("invalid configuration")

// IgnoreRecord holds the layered-ignore portion of the configuration
// ("config_use" / "config_always_exclude" / "config_always_include").
type IgnoreRecord struct {
	Use                  []string `mapstructure:"use"`
	AlwaysExclude        []string `mapstructure:"always-exclude"`
	AlwaysInclude        []string `mapstructure:"always-include"`
	WithoutIgnorefileNames []string `mapstructure:"without-ignorefile-names"`
	WithoutIgnorefiles   []string `mapstructure:"without-ignorefiles"`
}

// DefaultsRecord holds the archive-encoding defaults applied when the
// corresponding CLI flag is not given.
type DefaultsRecord struct {
	Format       string `mapstructure:"format" validate:"oneof=tar zip"`
	Compression  string `mapstructure:"compression" validate:"oneof=none gzip bzip2 zstd"`
	Reproducible bool   `mapstructure:"reproducible"`
	Dereference  bool   `mapstructure:"dereference"`
	MaxFileSize  string `mapstructure:"max-file-size"`
}

// Record is the plain configuration value the viper-backed loader
// produces: the "config file parser" external collaborator's output type.
type Record struct {
	Ignore   IgnoreRecord   `mapstructure:"ignore"`
	Defaults DefaultsRecord `mapstructure:"defaults" validate:"required"`
}

var validate = validator.New()

// Load reads the Record out of viper's already-resolved state (defaults,
// config file, environment, flags) and validates it.
func Load() (Record, error) {
	var rec Record
	if err := viper.Unmarshal(&rec); err != nil {
		return Record{}, fmt.Errorf("decoding configuration: %w", err)
	}

	if err := validate.Struct(rec); err != nil {
		return Record{}, fmt.Errorf("%w: %s", ErrInvalidConfig, err)
	}

	return rec, nil
}
