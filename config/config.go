// Package config manages application configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all settings for a transcript fetch run.
type Config struct {
	// ChannelURL is the channel to enumerate. Mutually exclusive with PlaylistID.
	ChannelURL string
	// PlaylistID is the playlist to enumerate. Mutually exclusive with ChannelURL.
	PlaylistID string
	// APIKey is the YouTube Data API key.
	APIKey string

	// MonthsBack is the calendar-month lookback for the date window.
	MonthsBack int
	// MinDuration is the minimum video length in seconds (0 = no minimum).
	MinDuration int
	// MaxDuration is the maximum video length in seconds (0 = no maximum).
	MaxDuration int

	// OutputDir is where transcript files and the index are written.
	OutputDir string

	// Delay is the wait between consecutive transcript requests.
	Delay time.Duration
	// BatchSize is the number of transcripts fetched between batch pauses.
	BatchSize int
	// BatchPause is the wait after each full batch.
	BatchPause time.Duration

	// MaxRetries is the retry budget for rate-limited transcript requests.
	MaxRetries int
	// InitialBackoff is the first retry delay.
	InitialBackoff time.Duration
	// MaxBackoff caps the exponential backoff growth.
	MaxBackoff time.Duration
}

// DefaultConfig returns configuration with safe defaults.
func DefaultConfig() *Config {
	return &Config{
		MonthsBack:     3,
		OutputDir:      "transcripts",
		Delay:          2 * time.Second,
		BatchSize:      10,
		BatchPause:     30 * time.Second,
		MaxRetries:     5,
		InitialBackoff: 5 * time.Second,
		MaxBackoff:     5 * time.Minute,
	}
}

// Load builds configuration from defaults overridden by environment
// variables. Flag values are applied by the caller on top of the result.
func Load() (*Config, error) {
	cfg := DefaultConfig()
	cfg.loadFromEnv()
	return cfg, nil
}

// loadFromEnv overrides config with environment variables.
func (c *Config) loadFromEnv() {
	if v := os.Getenv("YOUTUBE_API_KEY"); v != "" {
		c.APIKey = v
	}
	if v := os.Getenv("YTFETCH_CHANNEL_URL"); v != "" {
		c.ChannelURL = v
	}
	if v := os.Getenv("YTFETCH_PLAYLIST_ID"); v != "" {
		c.PlaylistID = v
	}
	if v := os.Getenv("YTFETCH_OUTPUT_DIR"); v != "" {
		c.OutputDir = v
	}
	if v := os.Getenv("YTFETCH_MONTHS_BACK"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MonthsBack = n
		}
	}
	if v := os.Getenv("YTFETCH_MIN_DURATION"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MinDuration = n
		}
	}
	if v := os.Getenv("YTFETCH_MAX_DURATION"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxDuration = n
		}
	}
	if v := os.Getenv("YTFETCH_DELAY"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Delay = d
		}
	}
	if v := os.Getenv("YTFETCH_BATCH_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.BatchSize = n
		}
	}
	if v := os.Getenv("YTFETCH_BATCH_PAUSE"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.BatchPause = d
		}
	}
	if v := os.Getenv("YTFETCH_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxRetries = n
		}
	}
	if v := os.Getenv("YTFETCH_INITIAL_BACKOFF"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.InitialBackoff = d
		}
	}
	if v := os.Getenv("YTFETCH_MAX_BACKOFF"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.MaxBackoff = d
		}
	}
}

// Validate checks that configuration values are valid and consistent.
func (c *Config) Validate() error {
	if c.ChannelURL == "" && c.PlaylistID == "" {
		return fmt.Errorf("either channel URL or playlist ID is required")
	}
	if c.ChannelURL != "" && c.PlaylistID != "" {
		return fmt.Errorf("channel URL and playlist ID are mutually exclusive")
	}
	if c.APIKey == "" {
		return fmt.Errorf("YouTube API key is required (set YOUTUBE_API_KEY)")
	}
	if c.MonthsBack <= 0 {
		return fmt.Errorf("months_back must be positive")
	}
	if c.MinDuration < 0 {
		return fmt.Errorf("min_duration must be non-negative")
	}
	if c.MaxDuration < 0 {
		return fmt.Errorf("max_duration must be non-negative")
	}
	if c.MaxDuration > 0 && c.MaxDuration < c.MinDuration {
		return fmt.Errorf("max_duration must be >= min_duration")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("output directory is required")
	}
	if c.Delay < 0 {
		return fmt.Errorf("delay must be non-negative")
	}
	if c.BatchSize < 0 {
		return fmt.Errorf("batch_size must be non-negative")
	}
	if c.BatchPause < 0 {
		return fmt.Errorf("batch_pause must be non-negative")
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max_retries must be non-negative")
	}
	if c.InitialBackoff <= 0 {
		return fmt.Errorf("initial_backoff must be positive")
	}
	if c.MaxBackoff > 0 && c.MaxBackoff < c.InitialBackoff {
		return fmt.Errorf("max_backoff must be >= initial_backoff")
	}
	return nil
}
