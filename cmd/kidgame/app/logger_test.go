package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetermineLogLevel(t *testing.T) {
	tests := []struct {
		name   string
		config Config
		want   string
	}{
		{"default", Config{}, "info"},
		{"verbose", Config{Verbose: true}, "debug"},
		{"quiet", Config{Quiet: true}, "warn"},
		{"both flags prefers quiet", Config{Verbose: true, Quiet: true}, "warn"},
		{"explicit level wins", Config{Verbose: true, LogLevel: "error"}, "error"},
		{"invalid level falls back", Config{LogLevel: "noisy"}, "info"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, determineLogLevel(&tt.config))
		})
	}
}

func TestValidateLogLevel(t *testing.T) {
	for _, level := range []string{"trace", "debug", "info", "warn", "error"} {
		assert.Equal(t, level, validateLogLevel(level))
	}
	assert.Equal(t, "info", validateLogLevel("verbose"))
	assert.Equal(t, "info", validateLogLevel(""))
}

func TestUpdateFromFlags(t *testing.T) {
	config := &Config{
		RomsDir:     "/from/config",
		OverlayPath: "/from/config/kidlist.yaml",
		LogLevel:    "debug",
	}

	config.UpdateFromFlags(true, false, true, true, []string{"snes"}, "/from/flag", "", "")

	assert.True(t, config.Verbose)
	assert.True(t, config.NoColor)
	assert.True(t, config.DryRun)
	assert.Equal(t, []string{"snes"}, config.Systems)
	assert.Equal(t, "/from/flag", config.RomsDir, "flags override the config file")
	assert.Equal(t, "/from/config/kidlist.yaml", config.OverlayPath, "an empty flag keeps the configured value")
	assert.Equal(t, "debug", config.LogLevel)
}
