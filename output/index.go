package output

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"
)

// IndexFilename is the metadata index file name inside the output directory.
const IndexFilename = "index.csv"

var indexColumns = []string{
	"video_id",
	"title",
	"published_at",
	"video_url",
	"duration",
	"has_transcript",
	"transcript_path",
}

// IndexRow is one line of the metadata index: a flattened projection of a
// candidate and its fetch outcome.
type IndexRow struct {
	VideoID        string
	Title          string
	Published      time.Time
	VideoURL       string
	Duration       int
	HasTranscript  bool
	TranscriptPath string // relative path, empty when no transcript was written
}

// IndexWriter appends rows to the metadata index in the order outcomes
// finalize. The file is truncated on open, so re-runs against unchanged
// upstream data produce byte-identical indexes.
type IndexWriter struct {
	file *os.File
	csv  *csv.Writer
}

// NewIndexWriter creates the index file and writes the header row.
func NewIndexWriter(path string) (*IndexWriter, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create index: %w", err)
	}

	w := &IndexWriter{file: file, csv: csv.NewWriter(file)}
	if err := w.csv.Write(indexColumns); err != nil {
		file.Close()
		return nil, fmt.Errorf("write index header: %w", err)
	}
	w.csv.Flush()
	return w, w.csv.Error()
}

// Append writes one row and flushes it to disk immediately, so the index
// reflects every finalized outcome even if the run is interrupted later.
func (w *IndexWriter) Append(row IndexRow) error {
	record := []string{
		row.VideoID,
		row.Title,
		row.Published.UTC().Format(time.RFC3339),
		row.VideoURL,
		strconv.Itoa(row.Duration),
		strconv.FormatBool(row.HasTranscript),
		row.TranscriptPath,
	}
	if err := w.csv.Write(record); err != nil {
		return fmt.Errorf("append index row: %w", err)
	}
	w.csv.Flush()
	return w.csv.Error()
}

// Close flushes and closes the index file.
func (w *IndexWriter) Close() error {
	w.csv.Flush()
	if err := w.csv.Error(); err != nil {
		w.file.Close()
		return err
	}
	return w.file.Close()
}
