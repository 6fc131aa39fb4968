package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func restoreViperState() {
	viper.Reset()
}

func TestDumpConfig_Empty(t *testing.T) {
	restoreViperState()
	t.Cleanup(viper.Reset)

	err := dumpConfig()
	require.NoError(t, err)
}

func TestDumpConfig_WithValues(t *testing.T) {
	restoreViperState()
	t.Cleanup(viper.Reset)

	viper.Set("defaults.format", "zip")
	viper.Set("defaults.compression", "zstd")
	viper.Set("ignore.always-exclude", []string{"*.log"})

	err := dumpConfig()
	require.NoError(t, err)
}

func TestSetConfigValue_ScalarKey(t *testing.T) {
	restoreViperState()
	viper.SetConfigFile(t.TempDir() + "/config.toml")
	t.Cleanup(viper.Reset)

	err := setConfigValue("defaults.format", "zip")
	require.NoError(t, err)
}

func TestSetConfigValue_BooleanKey(t *testing.T) {
	restoreViperState()
	viper.SetConfigFile(t.TempDir() + "/config.toml")
	t.Cleanup(viper.Reset)

	err := setConfigValue("defaults.reproducible", "true")
	require.NoError(t, err)
	require.True(t, viper.GetBool("defaults.reproducible"))
}

func TestSetConfigValue_ListKey(t *testing.T) {
	restoreViperState()
	viper.SetConfigFile(t.TempDir() + "/config.toml")
	t.Cleanup(viper.Reset)

	err := setConfigValue("ignore.always-exclude", "*.log, /tmp/**")
	require.NoError(t, err)
	require.Equal(t, []string{"*.log", "/tmp/**"}, viper.GetStringSlice("ignore.always-exclude"))
}

func TestSetConfigValue_AllValidScalarKeys(t *testing.T) {
	restoreViperState()
	viper.SetConfigFile(t.TempDir() + "/config.toml")
	t.Cleanup(viper.Reset)

	validSettings := map[string]string{
		"defaults.format":        "tar",
		"defaults.compression":   "gzip",
		"defaults.reproducible":  "true",
		"defaults.dereference":   "false",
		"defaults.max-file-size": "100MB",
	}

	for key, value := range validSettings {
		t.Run(key, func(t *testing.T) {
			err := setConfigValue(key, value)
			require.NoError(t, err, "setting %s should not error", key)
		})
	}
}

func TestIsListKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		key  string
		want bool
	}{
		{"ignore.use", true},
		{"ignore.always-exclude", true},
		{"ignore.always-include", true},
		{"ignore.without-ignorefile-names", true},
		{"ignore.without-ignorefiles", true},
		{"defaults.format", false},
		{"defaults.reproducible", false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Parallel()
			if got := isListKey(tt.key); got != tt.want {
				t.Errorf("isListKey(%q) = %v, want %v", tt.key, got, tt.want)
			}
		})
	}
}

func TestSplitList(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  []string
	}{
		{"", []string{}},
		{"  ", []string{}},
		{"*.log", []string{"*.log"}},
		{"*.log,*.tmp", []string{"*.log", "*.tmp"}},
		{"*.log, *.tmp , /tmp/**", []string{"*.log", "*.tmp", "/tmp/**"}},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			got := splitList(tt.input)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestGetDefaultConfigPath(t *testing.T) {
	path := getDefaultConfigPath()

	if path == "" {
		t.Fatal("getDefaultConfigPath() returned empty string")
	}
	if !strings.HasSuffix(filepath.Base(path), "config.toml") {
		t.Errorf("expected path to end with 'config.toml', got: %s", path)
	}
	if !filepath.IsAbs(path) {
		t.Errorf("expected absolute path, got: %s", path)
	}
}

func TestGetDefaultConfigPath_XDGConfigHome(t *testing.T) {
	original, exists := os.LookupEnv("XDG_CONFIG_HOME")
	if exists {
		defer func() { _ = os.Setenv("XDG_CONFIG_HOME", original) }()
	} else {
		defer func() { _ = os.Unsetenv("XDG_CONFIG_HOME") }()
	}

	customDir := "/tmp/test-xdg-config"
	_ = os.Setenv("XDG_CONFIG_HOME", customDir)

	path := getDefaultConfigPath()

	if !strings.Contains(path, customDir) {
		t.Errorf("expected path to contain '%s', got: %s", customDir, path)
	}
	if !strings.HasSuffix(filepath.Base(path), "config.toml") {
		t.Errorf("expected path to end with 'config.toml', got: %s", path)
	}
}

func TestGetConfigSource_NotSet(t *testing.T) {
	restoreViperState()
	t.Cleanup(viper.Reset)

	source := getConfigSource("defaults.format")
	if source != "default" {
		t.Errorf("expected 'default', got: %s", source)
	}
}

func TestGetConfigSource_FromConfigFile(t *testing.T) {
	restoreViperState()
	t.Cleanup(viper.Reset)

	viper.SetConfigFile(t.TempDir() + "/config.toml")
	viper.Set("defaults.format", "zip")

	source := getConfigSource("defaults.format")
	if source != "config file" {
		t.Errorf("expected 'config file', got: %s", source)
	}
}

func TestFormatValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value interface{}
		want  string
	}{
		{"nil", nil, "<nil>"},
		{"empty string", "", `""`},
		{"string", "tar", `"tar"`},
		{"bool true", true, "true"},
		{"bool false", false, "false"},
		{"int", 5, "5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := formatValue(tt.value); got != tt.want {
				t.Errorf("formatValue(%v) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}

