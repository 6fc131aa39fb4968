package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/scriptedworld/raptar/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management",
	Long: `Commands for viewing and modifying raptar's configuration.

Subcommands:
  dump      Display the resolved configuration
  set       Set a specific configuration value
  edit      Open the config file in $EDITOR
  validate  Check the resolved configuration for errors

Examples:
  # Show current configuration
  raptar config dump

  # Set a configuration value
  raptar config set defaults.format zip`,
}

var configDumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Display the resolved configuration",
	Long: `Display the current configuration values with their sources.

Shows every ignore.* and defaults.* value, whether it comes from a default,
the config file or an environment variable.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return dumpConfig()
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a configuration value",
	Long: `Set a configuration value in the config file.

Supported keys:

  Ignore layering:
    ignore.use                      - additional ignore files (list)
    ignore.always-exclude           - patterns always excluded (list)
    ignore.always-include           - patterns always included (list)
    ignore.without-ignorefile-names - ignore-file basenames to stop honoring (list)
    ignore.without-ignorefiles      - ignore file paths; stored, not applied by archive/list/watch (list)

  Defaults:
    defaults.format       - archive format: tar, zip (default: "tar")
    defaults.compression  - tar compression: none, gzip, bzip2, zstd (default: "gzip")
    defaults.reproducible - zero timestamps/modes for reproducible output (default: false)
    defaults.dereference  - follow symlinks (default: false)
    defaults.max-file-size - file size limit; validated and stored, not applied by archive/list/watch

List-valued keys take a comma-separated value:
  raptar config set ignore.always-exclude "*.log,/tmp/**"`,
	Args: cobra.ExactArgs(2),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		key := args[0]
		if !config.IsValidKey(key) {
			return fmt.Errorf("invalid configuration key '%s'. Use 'raptar config dump' to see available keys", key)
		}

		if isListKey(key) {
			return nil
		}

		if err := config.ValidateValue(key, args[1]); err != nil {
			return fmt.Errorf("invalid value for '%s': %w", key, err)
		}

		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]

		if err := setConfigValue(key, value); err != nil {
			return fmt.Errorf("failed to set configuration: %w", err)
		}

		configPath := viper.ConfigFileUsed()
		if configPath == "" {
			configPath = getDefaultConfigPath()
		}
		fmt.Printf("set %s = %s\n", key, value)
		fmt.Printf("config file: %s\n", configPath)

		return nil
	},
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the resolved configuration for errors",
	RunE: func(cmd *cobra.Command, args []string) error {
		return validateResolvedConfig()
	},
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open the config file in $EDITOR",
	RunE: func(cmd *cobra.Command, args []string) error {
		return editConfigFile()
	},
}

func isListKey(key string) bool {
	switch key {
	case config.KeyIgnoreUse, config.KeyIgnoreAlwaysExclude, config.KeyIgnoreAlwaysInclude,
		config.KeyIgnoreWithoutNames, config.KeyIgnoreWithout:
		return true
	}
	return false
}

func dumpConfig() error {
	configPath := viper.ConfigFileUsed()
	if configPath == "" {
		fmt.Println("config file: not found (using defaults)")
	} else {
		fmt.Printf("config file: %s\n", configPath)
	}
	fmt.Println()

	allKeys := viper.AllKeys()
	sort.Strings(allKeys)

	categories := make(map[string][]string)
	for _, key := range allKeys {
		parts := strings.SplitN(key, ".", 2)
		category := parts[0]
		categories[category] = append(categories[category], key)
	}

	for _, category := range []string{"ignore", "defaults"} {
		keys, exists := categories[category]
		if !exists {
			continue
		}
		fmt.Printf("[%s]\n", strings.ToUpper(category))
		for _, key := range keys {
			value := viper.Get(key)
			source := getConfigSource(key)
			fmt.Printf("  %-30s = %-20v (%s)\n", key, formatValue(value), source)
		}
		fmt.Println()
	}

	return nil
}

func validateResolvedConfig() error {
	rec, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		return fmt.Errorf("%w", config.ErrInvalidConfig)
	}
	_ = rec
	fmt.Println("configuration is valid")
	return nil
}

func setConfigValue(key, value string) error {
	var converted interface{} = value
	if isListKey(key) {
		converted = splitList(value)
	} else {
		var err error
		converted, err = config.ConvertValue(key, value)
		if err != nil {
			return err
		}
	}

	viper.Set(key, converted)

	configPath := viper.ConfigFileUsed()
	if configPath == "" {
		configPath = getDefaultConfigPath()
		viper.SetConfigFile(configPath)
	}

	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0o750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := viper.WriteConfig(); err != nil {
		if os.IsNotExist(err) {
			if err := viper.SafeWriteConfig(); err != nil {
				return fmt.Errorf("failed to create config file: %w", err)
			}
		} else {
			return fmt.Errorf("failed to write config file: %w", err)
		}
	}

	log.Debug().Str("key", key).Interface("value", converted).Str("path", configPath).Msg("configuration updated")

	return nil
}

func splitList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return []string{}
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, strings.TrimSpace(p))
	}
	return out
}

func getConfigSource(key string) string {
	if !viper.IsSet(key) {
		return "default"
	}
	if viper.ConfigFileUsed() != "" {
		return "config file"
	}

	envKey := "RAPTAR_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
	if os.Getenv(envKey) != "" {
		return "environment"
	}

	return "flag/default"
}

func formatValue(value interface{}) string {
	if value == nil {
		return "<nil>"
	}

	switch v := value.(type) {
	case string:
		if v == "" {
			return `""`
		}
		return fmt.Sprintf(`"%s"`, v)
	case bool:
		return fmt.Sprintf("%t", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func getDefaultConfigPath() string {
	return filepath.Join(getConfigDir(), "config.toml")
}

func editConfigFile() error {
	configPath := viper.ConfigFileUsed()
	if configPath == "" {
		configPath = getDefaultConfigPath()
	}

	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0o750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := os.WriteFile(configPath, []byte("# raptar configuration\n"), 0o600); err != nil {
			return fmt.Errorf("failed to create config file: %w", err)
		}
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "vi"
	}

	editCmd := exec.Command(editor, configPath) // #nosec G204 -- editor comes from the user's own environment
	editCmd.Stdin = os.Stdin
	editCmd.Stdout = os.Stdout
	editCmd.Stderr = os.Stderr

	return editCmd.Run()
}

func init() {
	configCmd.AddCommand(configDumpCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configEditCmd)
	configCmd.AddCommand(configValidateCmd)
	rootCmd.AddCommand(configCmd)
}
