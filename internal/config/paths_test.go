package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testHome = "/home/testuser"

func TestDefaultConfigDir_NonEmpty(t *testing.T) {
	dir := DefaultConfigDir()
	assert.NotEmpty(t, dir)
	assert.True(t, strings.Contains(dir, appName))
}

func TestDefaultConfigPath_EndsWithConfigToml(t *testing.T) {
	path := DefaultConfigPath()
	assert.NotEmpty(t, path)
	assert.True(t, strings.HasSuffix(path, "config.toml"))
}

func TestDefaultConfigDir_MacOS(t *testing.T) {
	if runtime.GOOS != platformDarwin {
		t.Skip("macOS-only test")
	}

	dir := DefaultConfigDir()
	assert.Contains(t, dir, "Library/Application Support")
}

func TestLinuxConfigDir_XDGSet(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/custom/config")

	assert.Equal(t, filepath.Join("/custom/config", appName), linuxConfigDir(testHome))
}

func TestLinuxConfigDir_XDGUnset(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")

	assert.Equal(t, filepath.Join(testHome, ".config", appName), linuxConfigDir(testHome))
}

func TestExpandTilde(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "media"), expandTilde("~/media"))
	assert.Equal(t, "/abs/path", expandTilde("/abs/path"))
	assert.Equal(t, "~user/x", expandTilde("~user/x"))
	assert.Equal(t, "", expandTilde(""))
}

func TestLinuxDataDir_XDGSet(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/custom/data")

	assert.Equal(t, filepath.Join("/custom/data", appName), linuxDataDir(testHome))
}

func TestLinuxDataDir_XDGUnset(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "")

	assert.Equal(t, filepath.Join(testHome, ".local", "share", appName), linuxDataDir(testHome))
}

func TestDefaultPIDPath_InDataDir(t *testing.T) {
	path := DefaultPIDPath()
	assert.Equal(t, filepath.Join(DefaultDataDir(), "watch.pid"), path)
}
