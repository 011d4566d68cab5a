package logger

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewConsoleOnly(t *testing.T) {
	l, closer, err := New(Config{Level: "debug"})
	require.NoError(t, err)
	require.NotNil(t, l)
	require.NoError(t, closer())
}

func TestNewWithRotatedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "bytekv.log")

	l, closer, err := New(Config{Level: "info", FilePath: path, MaxSizeMB: 1})
	require.NoError(t, err)

	l.Info("hello")
	require.NoError(t, closer())
	require.FileExists(t, path)
}

func TestParseLevelDefaultsToInfo(t *testing.T) {
	require.Equal(t, parseLevel("").String(), "info")
	require.Equal(t, parseLevel("bogus").String(), "info")
	require.Equal(t, parseLevel("debug").String(), "debug")
}
