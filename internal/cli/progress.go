package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"

	"github.com/mgpai22/anuvad/internal/pipeline"
)

func isTerminal(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

type progressMode int

const (
	// verbose runs already log at info level
	progressLog progressMode = iota
	progressBar
	progressLines
)

func progressModeFor(out io.Writer, verbose bool) progressMode {
	switch {
	case verbose:
		return progressLog
	case isTerminal(out):
		return progressBar
	default:
		return progressLines
	}
}

// reports batch progress as a bar on a terminal, plain lines when piped,
// or log entries in verbose mode
type progressReporter struct {
	out  io.Writer
	mode progressMode
	bar  *progressbar.ProgressBar
}

func newProgressReporter(out io.Writer, mode progressMode) *progressReporter {
	return &progressReporter{out: out, mode: mode}
}

func (r *progressReporter) Update(p pipeline.Progress) {
	switch r.mode {
	case progressBar:
		if r.bar == nil {
			r.bar = progressbar.NewOptions(p.Total,
				progressbar.OptionSetWriter(r.out),
				progressbar.OptionSetDescription("Translating batches"),
				progressbar.OptionShowCount(),
				progressbar.OptionSetPredictTime(true),
				progressbar.OptionClearOnFinish(),
			)
		}
		_ = r.bar.Set(p.Completed)
	case progressLines:
		fmt.Fprintf(r.out, "Translated %d/%d batches\n", p.Completed, p.Total)
	default:
		if logger != nil {
			logger.Infow("Translation progress",
				"completed", p.Completed,
				"total", p.Total,
			)
		}
	}
}

func (r *progressReporter) Finish() {
	if r.bar != nil {
		_ = r.bar.Finish()
	}
}
