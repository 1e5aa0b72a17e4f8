package subtitle

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// SubRip format
type SRTWriter struct{}

// WebVTT format
type VTTWriter struct{}

func NewWriter(format Format) (Writer, error) {
	switch format {
	case FormatSRT:
		return &SRTWriter{}, nil
	case FormatVTT:
		return &VTTWriter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// writes the store to an SRT file
func (w *SRTWriter) Write(store *Store, path string) error {
	return writeFile(path, func(out io.Writer) error {
		return Encode(out, store, FormatSRT)
	})
}

// writes the store to a VTT file
func (w *VTTWriter) Write(store *Store, path string) error {
	return writeFile(path, func(out io.Writer) error {
		return Encode(out, store, FormatVTT)
	})
}

// Encode serializes the store in ascending number order. Entry numbers are
// written as cue identifiers unchanged.
func Encode(out io.Writer, store *Store, format Format) error {
	var formatTime func(time.Duration) string
	switch format {
	case FormatSRT:
		formatTime = formatSRTTime
	case FormatVTT:
		formatTime = formatVTTTime
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}

	bw := bufio.NewWriter(out)

	if format == FormatVTT {
		if _, err := bw.WriteString("WEBVTT\n\n"); err != nil {
			return err
		}
	}

	for _, entry := range store.Entries() {
		// 00:00:00,000 --> 00:00:00,000
		if _, err := fmt.Fprintf(bw, "%d\n%s --> %s\n%s\n\n",
			entry.Number,
			formatTime(entry.StartTime),
			formatTime(entry.EndTime),
			entry.Text,
		); err != nil {
			return err
		}
	}

	return bw.Flush()
}

func formatSRTTime(d time.Duration) string {
	hours, minutes, seconds, millis := splitDuration(d)
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, seconds, millis)
}

func formatVTTTime(d time.Duration) string {
	hours, minutes, seconds, millis := splitDuration(d)
	return fmt.Sprintf("%02d:%02d:%02d.%03d", hours, minutes, seconds, millis)
}

func splitDuration(d time.Duration) (int, int, int, int) {
	if d < 0 {
		d = 0
	}
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	millis := int(d.Milliseconds()) % 1000
	return hours, minutes, seconds, millis
}

func writeFile(path string, encode func(io.Writer) error) error {
	if err := ensureDir(path); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := encode(f); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0755)
}

// subtitle format based on file extension
func GetFormatFromExtension(path string) (Format, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".srt":
		return FormatSRT, true
	case ".vtt":
		return FormatVTT, true
	default:
		return "", false
	}
}

// file extension for a format
func GetExtensionForFormat(format Format) string {
	switch format {
	case FormatVTT:
		return ".vtt"
	default:
		return ".srt"
	}
}
