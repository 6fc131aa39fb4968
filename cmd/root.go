package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/scriptedworld/raptar/internal/config"
)

var (
	version = "dev" // Will be set during build
	cfgFile string
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "raptar",
	Short: "Package a directory tree into a tar or zip archive",
	Long: `raptar packages a directory tree into a single tar or zip archive while
honoring gitignore-style exclusion rules drawn from on-disk ignore files,
embedded ecosystem templates, persistent configuration, and command-line
flags.

Run "raptar archive" to build an archive, or "raptar list" to preview which
paths would be included without writing one.`,
	Version: version,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		return fmt.Errorf("command execution failed: %w", err)
	}

	return nil
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/raptar/config.toml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output, including provenance")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "quiet output")

	rootCmd.CompletionOptions.HiddenDefaultCmd = true
}

func initConfig() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: "15:04:05",
	})

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(getConfigDir())
		viper.AddConfigPath(".")
		viper.SetConfigType("toml")
		viper.SetConfigName("config")
	}

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()
	viper.SetEnvPrefix("RAPTAR")

	setConfigDefaults()

	if f := rootCmd.PersistentFlags().Lookup("verbose"); f != nil {
		_ = viper.BindPFlag(config.KeyVerbose, f)
	}
	if f := rootCmd.PersistentFlags().Lookup("quiet"); f != nil {
		_ = viper.BindPFlag(config.KeyQuiet, f)
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			log.Debug().Msg("no config file found, using defaults")
		} else {
			log.Debug().Err(err).Msg("error reading config file")
		}
	} else {
		log.Debug().Str("config", viper.ConfigFileUsed()).Msg("using config file")
	}

	updateLoggingLevel()
}

// getConfigDir resolves raptar's configuration directory via XDG base
// directory conventions.
func getConfigDir() string {
	xdg.Reload()
	return filepath.Join(xdg.ConfigHome, "raptar")
}

func setConfigDefaults() {
	viper.SetDefault(config.KeyIgnoreUse, []string{})
	viper.SetDefault(config.KeyIgnoreAlwaysExclude, []string{})
	viper.SetDefault(config.KeyIgnoreAlwaysInclude, []string{})
	viper.SetDefault(config.KeyIgnoreWithoutNames, []string{})
	viper.SetDefault(config.KeyIgnoreWithout, []string{})

	viper.SetDefault(config.KeyDefaultsFormat, "tar")
	viper.SetDefault(config.KeyDefaultsCompression, "gzip")
	viper.SetDefault(config.KeyDefaultsReproducible, false)
	viper.SetDefault(config.KeyDefaultsDereference, false)
	viper.SetDefault(config.KeyDefaultsMaxFileSize, "")
}

func updateLoggingLevel() {
	level := zerolog.InfoLevel

	if viper.GetBool(config.KeyQuiet) {
		level = zerolog.ErrorLevel
	} else if viper.GetBool(config.KeyVerbose) {
		level = zerolog.DebugLevel
	}

	zerolog.SetGlobalLevel(level)
}
