package logging

import "testing"

func TestNewLoggerLevels(t *testing.T) {
	quiet := NewLogger(false)
	if quiet.Desugar().Core().Enabled(-1) {
		t.Error("non-verbose logger should not enable debug")
	}
	if !quiet.Desugar().Core().Enabled(1) {
		t.Error("non-verbose logger should enable warn")
	}

	verbose := NewLogger(true)
	if !verbose.Desugar().Core().Enabled(-1) {
		t.Error("verbose logger should enable debug")
	}
}

func TestWithKeepsWrapper(t *testing.T) {
	l := NewNop().With("run_id", "abc")
	if l == nil || l.SugaredLogger == nil {
		t.Fatal("With returned nil logger")
	}
	l.Infow("ignored", "k", "v")
}
