package pipeline

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/mgpai22/anuvad/internal/logging"
	"github.com/mgpai22/anuvad/internal/subtitle"
)

// TranslateFunc sends one request blob to a translation backend and returns
// the raw response text. Timeouts are the function's own business.
type TranslateFunc func(
	ctx context.Context,
	text, targetLanguage, credential string,
) (string, error)

// Progress counts batches, not entries.
type Progress struct {
	Completed int
	Total     int
}

func (p Progress) Fraction() float64 {
	if p.Total <= 0 {
		return 1
	}
	return float64(p.Completed) / float64(p.Total)
}

// Dispatcher sends batches to Translate in waves of at most Concurrency
// calls. A wave resolves only after every call in it has returned; the next
// wave starts after that. The first failure in a wave aborts the run once
// the wave has settled.
type Dispatcher struct {
	Concurrency    int
	TargetLanguage string
	Credential     string
	Translate      TranslateFunc
	Logger         *logging.Logger

	// called after each wave, and once before the first
	OnProgress func(Progress)
}

// TranslateBatch is the per-batch unit of work: combine, translate, parse,
// merge.
func (d *Dispatcher) TranslateBatch(
	ctx context.Context,
	batch Batch,
) (Batch, MergeReport, error) {
	response, err := d.Translate(
		ctx,
		CombineBatchTexts(batch),
		d.TargetLanguage,
		d.Credential,
	)
	if err != nil {
		return nil, MergeReport{}, err
	}

	merged, report := ApplyTranslations(batch, ParseTranslations(response))
	return merged, report, nil
}

// TranslateAll translates every batch and returns the merged store. On
// failure no store is returned, even if earlier waves succeeded.
func (d *Dispatcher) TranslateAll(
	ctx context.Context,
	batches []Batch,
) (*subtitle.Store, error) {
	if d.Translate == nil {
		return nil, fmt.Errorf("%w: no translate function", ErrInvalidConfig)
	}

	logger := d.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	concurrency := d.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	progress := Progress{Total: len(batches)}
	d.publish(progress)

	translated := make(map[int]subtitle.Entry)

	for start, wave := 0, 1; start < len(batches); start, wave = start+concurrency, wave+1 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		end := min(start+concurrency, len(batches))
		current := batches[start:end]

		logger.Debugw("Dispatching wave",
			"wave", wave,
			"batches", len(current),
			"first_batch", start,
		)

		results := make([]Batch, len(current))
		reports := make([]MergeReport, len(current))

		var g errgroup.Group
		for i, batch := range current {
			g.Go(func() error {
				merged, report, err := d.TranslateBatch(ctx, batch)
				if err != nil {
					logger.Debugw("Batch failed",
						"batch", start+i,
						"error", err,
					)
					return err
				}
				results[i] = merged
				reports[i] = report
				return nil
			})
		}

		if err := g.Wait(); err != nil {
			logger.Warnw("Wave failed, aborting",
				"wave", wave,
				"error", err,
			)
			return nil, err
		}

		for i, batch := range results {
			if r := reports[i]; !r.Clean() {
				logger.Warnw("Response did not line up with batch",
					"batch", start+i,
					"unmatched", r.Unmatched,
					"untranslated", r.Untranslated,
				)
			}
			for _, e := range batch {
				translated[e.Number] = e
			}
		}

		progress.Completed = min(progress.Completed+len(current), progress.Total)
		d.publish(progress)
	}

	entries := make([]subtitle.Entry, 0, len(translated))
	for _, e := range translated {
		entries = append(entries, e)
	}
	return subtitle.NewStore(entries...)
}

func (d *Dispatcher) publish(p Progress) {
	if d.OnProgress != nil {
		d.OnProgress(p)
	}
}
