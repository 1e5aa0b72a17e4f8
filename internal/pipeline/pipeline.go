package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/mgpai22/anuvad/internal/logging"
	"github.com/mgpai22/anuvad/internal/subtitle"
)

var (
	ErrInvalidConfig     = errors.New("invalid pipeline config")
	ErrTranslationFailed = errors.New("translation failed")
)

// Config is everything a run needs besides the entries and the backend.
// TargetLanguage and Credential are handed to the translate function as is.
type Config struct {
	BatchSize      int
	Concurrency    int
	TargetLanguage string
	Credential     string
}

func (c Config) Validate() error {
	if c.BatchSize <= 0 {
		return fmt.Errorf(
			"%w: batch size must be positive, got %d",
			ErrInvalidConfig,
			c.BatchSize,
		)
	}
	if c.Concurrency <= 0 {
		return fmt.Errorf(
			"%w: concurrency must be positive, got %d",
			ErrInvalidConfig,
			c.Concurrency,
		)
	}
	return nil
}

type Pipeline struct {
	cfg       Config
	translate TranslateFunc
	logger    *logging.Logger

	// optional; receives batch progress after every wave
	OnProgress func(Progress)
}

func New(
	cfg Config,
	translate TranslateFunc,
	logger *logging.Logger,
) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if translate == nil {
		return nil, fmt.Errorf("%w: translate function is required", ErrInvalidConfig)
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	return &Pipeline{
		cfg:       cfg,
		translate: translate,
		logger:    logger,
	}, nil
}

// Run translates the whole store. It either returns a store holding every
// input entry (translated where the backend answered) or an error wrapping
// ErrTranslationFailed and no store at all.
func (p *Pipeline) Run(
	ctx context.Context,
	store *subtitle.Store,
) (*subtitle.Store, error) {
	logger := p.logger.With("run_id", uuid.NewString())

	batches := SplitIntoBatches(store, p.cfg.BatchSize)

	logger.Infow("Starting translation run",
		"entries", store.Len(),
		"batches", len(batches),
		"batch_size", p.cfg.BatchSize,
		"concurrency", p.cfg.Concurrency,
		"target_language", p.cfg.TargetLanguage,
	)

	dispatcher := &Dispatcher{
		Concurrency:    p.cfg.Concurrency,
		TargetLanguage: p.cfg.TargetLanguage,
		Credential:     p.cfg.Credential,
		Translate:      p.translate,
		Logger:         logger,
		OnProgress:     p.OnProgress,
	}

	translated, err := dispatcher.TranslateAll(ctx, batches)
	if err != nil {
		logger.Errorw("Translation run failed", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrTranslationFailed, err)
	}

	if translated.Len() != store.Len() {
		return nil, fmt.Errorf(
			"%w: expected %d entries, got %d",
			ErrTranslationFailed,
			store.Len(),
			translated.Len(),
		)
	}

	logger.Infow("Translation run complete",
		"entries", translated.Len(),
	)

	return translated, nil
}
