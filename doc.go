// Package ytfetch bulk-fetches English transcripts for recent videos of a
// YouTube channel or playlist.
//
// A run enumerates candidate videos through the YouTube Data API, filters
// them by privacy, publication window, and duration, then fetches the
// transcript for each survivor while pacing requests and backing off on
// rate limits. Every processed video gets a row in a CSV index; videos with
// a transcript also get an individual text file.
//
// # Quick Start
//
//	cfg := config.DefaultConfig()
//	cfg.ChannelURL = "https://www.youtube.com/@somechannel"
//	cfg.APIKey = os.Getenv("YOUTUBE_API_KEY")
//
//	summary, err := ytfetch.Run(ctx, cfg, logger)
//	if err != nil {
//		log.Fatal(err)
//	}
//	fmt.Printf("transcribed %d of %d videos\n", summary.Report.Transcribed, summary.Accepted)
//
// # Error Handling
//
// Operations return errors that work with errors.Is and errors.As:
//
//	if errors.Is(err, ytfetch.ErrQuotaExhausted) {
//		fmt.Println("daily API quota spent, try tomorrow")
//	}
//
//	var listerErr *ytfetch.ListerError
//	if errors.As(err, &listerErr) {
//		fmt.Printf("listing %s failed: %v\n", listerErr.Source, listerErr.Err)
//	}
//
// # Sub-packages
//
// For more control, use the sub-packages directly:
//
//   - youtube: API enumeration and transcript retrieval
//   - filter: candidate selection rules
//   - fetch: the paced per-video fetch protocol
//   - output: transcript files and the CSV index
//   - config: configuration management
//   - retry: exponential backoff retry logic
package ytfetch
