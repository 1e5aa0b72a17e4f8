package subtitle

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestParseSRTFile(t *testing.T) {
	content := `1
00:00:01,000 --> 00:00:04,000
Hello, world!

2
00:00:05,500 --> 00:00:08,200
This is a test.
With multiple lines.

3
00:00:10,000 --> 00:00:12,500
Final subtitle.
`
	tmpDir := t.TempDir()
	srtPath := filepath.Join(tmpDir, "test.srt")
	if err := os.WriteFile(srtPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	file, err := Open(srtPath)
	if err != nil {
		t.Fatalf("failed to open SRT file: %v", err)
	}

	if file.Format() != FormatSRT {
		t.Errorf("expected format SRT, got %s", file.Format())
	}

	entries := file.Store().Entries()
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}

	if entries[0].StartTime != 1*time.Second {
		t.Errorf("entry 1: expected start 1s, got %v", entries[0].StartTime)
	}
	if entries[0].EndTime != 4*time.Second {
		t.Errorf("entry 1: expected end 4s, got %v", entries[0].EndTime)
	}
	if entries[0].Text != "Hello, world!" {
		t.Errorf("entry 1: expected 'Hello, world!', got %q", entries[0].Text)
	}

	expectedText := "This is a test.\nWith multiple lines."
	if entries[1].Text != expectedText {
		t.Errorf("entry 2: expected %q, got %q", expectedText, entries[1].Text)
	}
	if entries[1].StartTime != 5500*time.Millisecond {
		t.Errorf("entry 2: expected start 5.5s, got %v", entries[1].StartTime)
	}
}

func TestParseSRTRenumbersCues(t *testing.T) {
	content := "\ufeff7\r\n00:00:01,000 --> 00:00:02,000\r\nfirst\r\n\r\n" +
		"7\r\n00:00:03,000 --> 00:00:04,000\r\nsecond\r\n\r\n" +
		"00:00:05,000 --> 00:00:06,000\r\nno number\r\n"

	file, err := Parse(strings.NewReader(content), FormatSRT)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	got := file.Store().Numbers()
	want := []int{1, 2, 3}
	if len(got) != len(want) {
		t.Fatalf("numbers = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("numbers = %v, want %v", got, want)
		}
	}

	e, _ := file.Store().Get(3)
	if e.Text != "no number" {
		t.Errorf("entry 3 text = %q, want %q", e.Text, "no number")
	}
}

func TestParseSRTSkipsGarbage(t *testing.T) {
	content := `not a subtitle

1
00:00:01,000 --> 00:00:02,000
kept
`
	file, err := Parse(strings.NewReader(content), FormatSRT)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if file.Store().Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", file.Store().Len())
	}
}

func TestParseSRTInvalidTimestamp(t *testing.T) {
	content := `1
00:75:01,000 --> 00:00:02,000
bad minutes
`
	if _, err := Parse(strings.NewReader(content), FormatSRT); err == nil {
		t.Fatal("expected error for out of range timestamp")
	}
}

func TestParseVTTFile(t *testing.T) {
	content := `WEBVTT

NOTE this is a comment
spanning two lines

1
00:00:01.000 --> 00:00:04.000
Hello, world!

2
00:00:05.500 --> 00:00:08.200
This is a test.
With multiple lines.

00:10.000 --> 00:12.500
No cue identifier.
`
	tmpDir := t.TempDir()
	vttPath := filepath.Join(tmpDir, "test.vtt")
	if err := os.WriteFile(vttPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	file, err := Open(vttPath)
	if err != nil {
		t.Fatalf("failed to open VTT file: %v", err)
	}

	if file.Format() != FormatVTT {
		t.Errorf("expected format VTT, got %s", file.Format())
	}

	entries := file.Store().Entries()
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}

	if entries[0].StartTime != 1*time.Second {
		t.Errorf("entry 1: expected start 1s, got %v", entries[0].StartTime)
	}
	if entries[2].Text != "No cue identifier." {
		t.Errorf(
			"entry 3: expected 'No cue identifier.', got %q",
			entries[2].Text,
		)
	}
	if entries[2].StartTime != 10*time.Second {
		t.Errorf("entry 3: expected start 10s, got %v", entries[2].StartTime)
	}
}

func TestOpenUnsupportedFormat(t *testing.T) {
	if _, err := Open("movie.ass"); err == nil {
		t.Error("expected error for unsupported extension")
	}
}

func TestWriteRoundTrip(t *testing.T) {
	store, err := NewStore(
		Entry{Number: 2, StartTime: 3 * time.Second, EndTime: 4*time.Second + 250*time.Millisecond, Text: "second"},
		Entry{Number: 1, StartTime: time.Hour + 2*time.Minute + 3*time.Second + 4*time.Millisecond, EndTime: 2 * time.Hour, Text: "first\nline two"},
	)
	if err != nil {
		t.Fatalf("NewStore error: %v", err)
	}

	for _, format := range []Format{FormatSRT, FormatVTT} {
		t.Run(string(format), func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "out"+GetExtensionForFormat(format))
			if err := (&File{format: format, store: store}).Write(path); err != nil {
				t.Fatalf("Write error: %v", err)
			}

			reopened, err := Open(path)
			if err != nil {
				t.Fatalf("Open error: %v", err)
			}

			got := reopened.Store().Entries()
			want := store.Entries()
			if len(got) != len(want) {
				t.Fatalf("got %d entries, want %d", len(got), len(want))
			}
			for i := range want {
				if got[i] != want[i] {
					t.Errorf("entry %d = %+v, want %+v", i, got[i], want[i])
				}
			}
		})
	}
}

func TestEncodeSRTOrdering(t *testing.T) {
	store, _ := NewStore(
		Entry{Number: 3, Text: "c"},
		Entry{Number: 1, Text: "a"},
		Entry{Number: 2, Text: "b"},
	)

	var buf bytes.Buffer
	if err := Encode(&buf, store, FormatSRT); err != nil {
		t.Fatalf("Encode error: %v", err)
	}

	want := "1\n00:00:00,000 --> 00:00:00,000\na\n\n" +
		"2\n00:00:00,000 --> 00:00:00,000\nb\n\n" +
		"3\n00:00:00,000 --> 00:00:00,000\nc\n\n"
	if buf.String() != want {
		t.Errorf("Encode() = %q, want %q", buf.String(), want)
	}
}

func TestGetFormatFromExtension(t *testing.T) {
	tests := []struct {
		path   string
		want   Format
		wantOK bool
	}{
		{"a.srt", FormatSRT, true},
		{"a.SRT", FormatSRT, true},
		{"dir/b.vtt", FormatVTT, true},
		{"c.ass", "", false},
		{"noext", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, ok := GetFormatFromExtension(tt.path)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf(
					"GetFormatFromExtension(%q) = %q, %v; want %q, %v",
					tt.path, got, ok, tt.want, tt.wantOK,
				)
			}
		})
	}
}

func TestWriteUsesPathExtension(t *testing.T) {
	store, _ := NewStore(Entry{Number: 1, StartTime: time.Second, EndTime: 2 * time.Second, Text: "hi"})
	path := filepath.Join(t.TempDir(), "out.vtt")

	if err := (&File{format: FormatSRT, store: store}).Write(path); err != nil {
		t.Fatalf("Write error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "WEBVTT") {
		t.Errorf("expected VTT output, got %q", data)
	}
}
