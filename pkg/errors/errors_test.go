package errors_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/geoffoxholm/retropie-scripts/pkg/errors"
)

func TestNew(t *testing.T) {
	err := pkgerrors.New("test error")
	assert.NotNil(t, err)
	assert.Equal(t, "test error", err.Error())
}

func TestParseError(t *testing.T) {
	t.Run("with file", func(t *testing.T) {
		err := &pkgerrors.ParseError{Format: "xml", File: "gamelist.xml", Message: "unexpected EOF"}
		assert.Equal(t, "parse error in xml file gamelist.xml: unexpected EOF", err.Error())
		assert.True(t, pkgerrors.IsParse(err))
	})

	t.Run("wrap helper", func(t *testing.T) {
		base := errors.New("yaml: line 3")
		err := pkgerrors.WrapParse("yaml", "kidlist.yaml", base)
		require.Error(t, err)
		assert.True(t, pkgerrors.IsParse(err))
		assert.Equal(t, base, errors.Unwrap(err))
	})

	t.Run("wrap nil", func(t *testing.T) {
		assert.NoError(t, pkgerrors.WrapParse("yaml", "kidlist.yaml", nil))
	})
}

func TestIOError(t *testing.T) {
	base := errors.New("permission denied")
	err := pkgerrors.WrapIO("write", "/roms/snes/gamelist.xml", base)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "write")
	assert.Contains(t, err.Error(), "/roms/snes/gamelist.xml")
	assert.Equal(t, base, errors.Unwrap(err))

	assert.NoError(t, pkgerrors.WrapIO("write", "x", nil))
}

func TestIdentityConflictError(t *testing.T) {
	err := &pkgerrors.IdentityConflictError{
		System:   "snes",
		Identity: "a",
		Paths:    []string{"./a.zip", "./sub/a.zip"},
	}
	assert.Contains(t, err.Error(), "snes")
	assert.Contains(t, err.Error(), `"a"`)
	assert.True(t, errors.Is(err, pkgerrors.ErrConflict))
}

func TestNoBackupError(t *testing.T) {
	t.Run("scoped", func(t *testing.T) {
		err := &pkgerrors.NoBackupError{Scope: []string{"snes"}}
		assert.Contains(t, err.Error(), "snes")
		assert.True(t, pkgerrors.IsNoBackup(err))
	})

	t.Run("unscoped", func(t *testing.T) {
		err := &pkgerrors.NoBackupError{}
		assert.Equal(t, "no backup available", err.Error())
		assert.True(t, errors.Is(err, pkgerrors.ErrNoBackup))
	})
}

func TestMissingAssetWarning(t *testing.T) {
	err := &pkgerrors.MissingAssetWarning{System: "snes", Name: "A", Asset: "video", Path: "./media/a.mp4"}
	assert.Equal(t, "snes/A: missing video ./media/a.mp4", err.Error())
}

func TestConfigError(t *testing.T) {
	err := &pkgerrors.ConfigError{Component: "library", Message: "no gamelist found for system nes"}
	assert.Contains(t, err.Error(), "library")
	assert.Contains(t, err.Error(), "no gamelist found")
}

func TestProcessError(t *testing.T) {
	base := errors.New("exit status 1")
	err := &pkgerrors.ProcessError{Operation: "convert", Command: "ffmpeg", Output: "unknown codec", Err: base}
	assert.Contains(t, err.Error(), "ffmpeg")
	assert.Contains(t, err.Error(), "unknown codec")
	assert.Equal(t, base, errors.Unwrap(err))
}
