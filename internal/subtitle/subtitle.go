package subtitle

import (
	"time"
)

// single subtitle cue. Number is the stable identity of the cue for the
// whole translation run; the timestamps are never touched by translation.
type Entry struct {
	Number    int
	StartTime time.Duration
	EndTime   time.Duration
	Text      string
}

// represents supported subtitle formats
type Format string

const (
	FormatSRT Format = "srt"
	FormatVTT Format = "vtt"
)

// interface for writing subtitles to files
type Writer interface {
	Write(store *Store, path string) error
}
