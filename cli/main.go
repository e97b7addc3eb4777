package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"ytfetch"
	"ytfetch/config"
)

func main() {
	fs := flag.NewFlagSet("ytfetch", flag.ExitOnError)
	channelURL := fs.String("channel-url", "", "YouTube channel URL to enumerate")
	playlistID := fs.String("playlist-id", "", "YouTube playlist ID to enumerate")
	outputDir := fs.String("out", "", "Output directory for transcripts and index.csv")
	monthsBack := fs.Int("months-back", 0, "Only fetch videos published within the last N calendar months")
	minDuration := fs.Int("min-duration", 0, "Minimum video duration in seconds")
	maxDuration := fs.Int("max-duration", 0, "Maximum video duration in seconds (0 = no maximum)")
	delay := fs.Duration("delay", 0, "Delay between transcript requests")
	batchSize := fs.Int("batch-size", 0, "Transcripts per batch before the long pause")
	batchPause := fs.Duration("batch-pause", 0, "Pause between batches")
	verbose := fs.Bool("verbose", false, "Enable debug logging")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `ytfetch - bulk transcript fetcher for YouTube channels and playlists

Usage:
  ytfetch -channel-url <url> [flags]
  ytfetch -playlist-id <id> [flags]

The YouTube Data API key is read from the YOUTUBE_API_KEY environment
variable (a .env file in the working directory is honored).

Flags:
`)
		fs.PrintDefaults()
	}
	fs.Parse(os.Args[1:])

	// A missing .env file is fine; the environment may carry the key.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Error loading .env: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	applyFlags(cfg, fs, *channelURL, *playlistID, *outputDir, *monthsBack,
		*minDuration, *maxDuration, *delay, *batchSize, *batchPause)

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fs.Usage()
		os.Exit(1)
	}

	logger, err := newLogger(*verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	summary, err := ytfetch.Run(ctx, cfg, logger)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Fprintf(os.Stderr, "Interrupted after %d of %d videos.\n",
				summary.Report.Processed, summary.Accepted)
			os.Exit(130)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Processed %d videos: %d transcribed, %d without transcripts, %d rate limited, %d errors.\n",
		summary.Report.Processed,
		summary.Report.Transcribed,
		summary.Report.NoTranscript,
		summary.Report.RateLimited,
		summary.Report.Errors)
	fmt.Printf("Output written to %s\n", cfg.OutputDir)
}

// applyFlags overrides config values with flags that were explicitly set,
// so env and default values survive when a flag is absent.
func applyFlags(cfg *config.Config, fs *flag.FlagSet, channelURL, playlistID, outputDir string,
	monthsBack, minDuration, maxDuration int, delay time.Duration, batchSize int, batchPause time.Duration) {
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "channel-url":
			cfg.ChannelURL = channelURL
		case "playlist-id":
			cfg.PlaylistID = playlistID
		case "out":
			cfg.OutputDir = outputDir
		case "months-back":
			cfg.MonthsBack = monthsBack
		case "min-duration":
			cfg.MinDuration = minDuration
		case "max-duration":
			cfg.MaxDuration = maxDuration
		case "delay":
			cfg.Delay = delay
		case "batch-size":
			cfg.BatchSize = batchSize
		case "batch-pause":
			cfg.BatchPause = batchPause
		}
	})
}

// newLogger builds a console logger writing to stderr so stdout stays
// reserved for the final summary.
func newLogger(verbose bool) (*zap.Logger, error) {
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(zapcore.InfoLevel),
		Encoding:         "console",
		EncoderConfig:    encCfg,
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return cfg.Build()
}
