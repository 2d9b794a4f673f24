package app

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from environment
// variables, .env files, and an optional config file, later overridden by
// command-line flags.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	DryRun  bool
	Systems []string

	// Config file
	ConfigFile string

	// Library configuration
	RomsDir     string
	OverlayPath string
	BackupsDir  string

	// Video conversion
	FFmpeg       string
	FFprobe      string
	VideoWorkers int

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (applied later by cobra via UpdateFromFlags)
// 2. Environment variables (KIDGAME_ prefix)
// 3. .env files
// 4. Config file (~/.kidgame.yaml)
// 5. Defaults
func LoadConfig() (*Config, error) {
	// Load .env files before Viper env binding
	loadEnvFiles()

	viper.SetEnvPrefix("kidgame")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	configFile := viper.GetString("config")
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
			viper.AddConfigPath(".")
			viper.SetConfigType("yaml")
			viper.SetConfigName(".kidgame")
		}
	}

	// Ignore a missing config file; the defaults work without one.
	_ = viper.ReadInConfig()

	config := &Config{
		Verbose: viper.GetBool("verbose"),
		Quiet:   viper.GetBool("quiet"),
		NoColor: viper.GetBool("no-color"),

		ConfigFile: viper.ConfigFileUsed(),

		RomsDir:     viper.GetString("roms"),
		OverlayPath: viper.GetString("kidlist"),
		BackupsDir:  viper.GetString("backups"),

		FFmpeg:       viper.GetString("ffmpeg"),
		FFprobe:      viper.GetString("ffprobe"),
		VideoWorkers: viper.GetInt("video_workers"),

		LogLevel:  getEnvOrDefault("LOG_LEVEL", ""),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "auto"),
		LogOutput: getEnvOrDefault("LOG_OUTPUT", "stderr"),
	}

	return config, nil
}

// UpdateFromFlags updates config values from parsed command flags so flag
// values take precedence over config file and env vars.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor, dryRun bool, systems []string, roms, overlay, logLevel string) {
	c.Verbose = verbose
	c.Quiet = quiet
	c.NoColor = noColor
	c.DryRun = dryRun
	if len(systems) > 0 {
		c.Systems = systems
	}
	if roms != "" {
		c.RomsDir = roms
	}
	if overlay != "" {
		c.OverlayPath = overlay
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// loadEnvFiles loads environment variables from .env files.
// .env.local overrides .env.
func loadEnvFiles() {
	envFiles := []string{
		".env",
		".env.local",
	}
	for _, envFile := range envFiles {
		_ = godotenv.Load(envFile)
	}
}

// getEnvOrDefault returns the environment variable value or the default if
// not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
