package output

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"ytfetch/fetch"
	"ytfetch/youtube"
)

// Writer persists fetch outcomes to a local directory: one transcript file
// per video that yielded a transcript, plus a CSV index row for every
// processed video regardless of outcome.
type Writer struct {
	dir    string
	index  *IndexWriter
	logger *zap.Logger
}

// NewWriter prepares the output directory and opens the metadata index.
func NewWriter(dir string, logger *zap.Logger) (*Writer, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	index, err := NewIndexWriter(filepath.Join(dir, IndexFilename))
	if err != nil {
		return nil, err
	}

	return &Writer{dir: dir, index: index, logger: logger}, nil
}

// TranscriptFilename derives the deterministic transcript file name for a
// video: publication date, video ID, and the sanitized title.
func TranscriptFilename(v youtube.Video) string {
	return fmt.Sprintf("%s__%s__%s.txt",
		v.Published.UTC().Format("2006-01-02"), v.ID, SanitizeTitle(v.Title))
}

// Commit finalizes one outcome: writes the transcript file when there is a
// transcript, then appends the index row. The row is written even when the
// transcript file is not, so the index stays a complete record of the run.
func (w *Writer) Commit(video youtube.Video, outcome fetch.Outcome) error {
	row := IndexRow{
		VideoID:   video.ID,
		Title:     video.Title,
		Published: video.Published,
		VideoURL:  video.VideoURL(),
		Duration:  video.Duration,
	}

	if outcome.Status == fetch.StatusTranscribed {
		name := TranscriptFilename(video)
		if err := w.writeTranscript(name, video, outcome.Transcript); err != nil {
			return err
		}
		row.HasTranscript = true
		row.TranscriptPath = name
		w.logger.Debug("transcript written",
			zap.String("video_id", video.ID),
			zap.String("path", name))
	}

	return w.index.Append(row)
}

func (w *Writer) writeTranscript(name string, video youtube.Video, body string) error {
	content := fmt.Sprintf("Title: %s\nVideo URL: %s\nPublished: %s\nDuration: %d seconds\n\n%s",
		video.Title,
		video.VideoURL(),
		video.Published.UTC().Format(time.RFC3339),
		video.Duration,
		body)

	path := filepath.Join(w.dir, name)
	if err := writeFileAtomic(path, []byte(content)); err != nil {
		return fmt.Errorf("write transcript %s: %w", video.ID, err)
	}
	return nil
}

// Close closes the metadata index.
func (w *Writer) Close() error {
	return w.index.Close()
}
