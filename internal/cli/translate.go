package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"github.com/mgpai22/anuvad/internal/pipeline"
	"github.com/mgpai22/anuvad/internal/subtitle"
	"github.com/mgpai22/anuvad/internal/translate"
	"github.com/mgpai22/anuvad/internal/video"
)

var errOutputLocked = errors.New("output file is being written by another anuvad process")

var translateCmd = &cobra.Command{
	Use:   "translate [subtitle_or_video_file]",
	Short: "Translate subtitles to another language using AI",
	Long: `Translate a subtitle file to another language using AI.

Supports SRT and VTT files. A video file is accepted too: its first text
subtitle track (or the one picked with --stream) is extracted and translated.

Entries the model does not answer for keep their original text. Any failed
request aborts the run and nothing is written.

Examples:
  anuvad translate movie.srt --target-language japanese
  anuvad translate movie.vtt -l en -t es -o movie.es.vtt
  anuvad translate movie.mkv -t fr --provider deepseek --stream 1`,
	Args: cobra.ExactArgs(1),
	RunE: runTranslate,
}

func init() {
	rootCmd.AddCommand(translateCmd)

	translateCmd.Flags().
		StringP("target-language", "t", "", "Target language for translation (required unless set in config)")
	translateCmd.Flags().
		StringP("api-key", "k", "", "API key (or set the provider's env var, e.g. OPENAI_API_KEY)")
	translateCmd.Flags().
		StringP("provider", "p", "", "Translation provider (openai, deepseek, anthropic, gemini)")
	translateCmd.Flags().
		String("model", "", "Model to use (provider-specific, uses sensible defaults)")
	translateCmd.Flags().
		String("base-url", "", "OpenAI-compatible endpoint override")
	translateCmd.Flags().
		String("prompt", "", "Extra instructions for the translator")
	translateCmd.Flags().
		Int("concurrency", pipeline.DefaultConcurrency, "Number of requests in flight at once")
	translateCmd.Flags().
		Int("batch-size", pipeline.DefaultBatchSize, "Number of subtitle entries per API request")
	translateCmd.Flags().
		Int64("max-tokens", 0, "Response token cap (0 uses the provider default)")
	translateCmd.Flags().
		Int("stream", -1, "Subtitle stream to translate when the input is a video")
}

type translateSettings struct {
	Provider       translate.Provider
	Model          string
	BaseURL        string
	Prompt         string
	APIKey         string
	TargetLanguage string
	SourceLanguage string
	BatchSize      int
	Concurrency    int
	MaxTokens      int64
}

// merges config file values with flags; a flag wins only when set
func resolveSettings(cmd *cobra.Command) translateSettings {
	flags := cmd.Flags()
	s := translateSettings{
		Provider:       translate.Provider(cfg.Provider),
		Model:          cfg.Model,
		BaseURL:        cfg.BaseURL,
		Prompt:         cfg.Prompt,
		TargetLanguage: cfg.TargetLanguage,
		SourceLanguage: cfg.SourceLanguage,
		BatchSize:      cfg.BatchSize,
		Concurrency:    cfg.Concurrency,
		MaxTokens:      cfg.MaxTokens,
	}

	if flags.Changed("provider") {
		v, _ := flags.GetString("provider")
		s.Provider = translate.Provider(strings.ToLower(strings.TrimSpace(v)))
	}
	if flags.Changed("model") {
		s.Model, _ = flags.GetString("model")
	}
	if flags.Changed("base-url") {
		s.BaseURL, _ = flags.GetString("base-url")
	}
	if flags.Changed("prompt") {
		s.Prompt, _ = flags.GetString("prompt")
	}
	if flags.Changed("target-language") {
		s.TargetLanguage, _ = flags.GetString("target-language")
	}
	if flags.Changed("language") {
		s.SourceLanguage, _ = flags.GetString("language")
	}
	if flags.Changed("batch-size") {
		s.BatchSize, _ = flags.GetInt("batch-size")
	}
	if flags.Changed("concurrency") {
		s.Concurrency, _ = flags.GetInt("concurrency")
	}
	if flags.Changed("max-tokens") {
		s.MaxTokens, _ = flags.GetInt64("max-tokens")
	}
	s.APIKey, _ = flags.GetString("api-key")

	s.TargetLanguage = strings.TrimSpace(s.TargetLanguage)
	s.SourceLanguage = strings.TrimSpace(s.SourceLanguage)
	return s
}

func (s translateSettings) validate() error {
	if s.TargetLanguage == "" {
		return fmt.Errorf("target language is required: use --target-language or set target_language in config")
	}
	if translate.SameLanguage(s.SourceLanguage, s.TargetLanguage) {
		return fmt.Errorf(
			"input language %q and target language %q cannot be the same",
			s.SourceLanguage,
			s.TargetLanguage,
		)
	}
	if s.Concurrency <= 0 {
		return fmt.Errorf("concurrency must be positive, got %d", s.Concurrency)
	}
	if s.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be positive, got %d", s.BatchSize)
	}
	if _, err := translate.Lookup(s.Provider); err != nil {
		return err
	}
	return nil
}

// picks the API key from the flag or the provider's environment variable
func resolveAPIKey(
	provider translate.Provider,
	flagValue string,
	getenv func(string) string,
) (string, error) {
	info, err := translate.Lookup(provider)
	if err != nil {
		return "", err
	}
	if key := strings.TrimSpace(flagValue); key != "" {
		return key, nil
	}
	if key := strings.TrimSpace(getenv(info.EnvVar)); key != "" {
		return key, nil
	}
	if !info.RequiresAPIKey {
		return "", nil
	}
	return "", fmt.Errorf(
		"API key is required: use --api-key flag or set %s environment variable",
		info.EnvVar,
	)
}

// <input base>.<target><ext>, with the target made safe for a file name
func defaultOutputPath(inputPath, targetLanguage string, format subtitle.Format) string {
	baseName := strings.TrimSuffix(inputPath, filepath.Ext(inputPath))
	tag := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ' ', ':':
			return '_'
		}
		return r
	}, strings.ToLower(targetLanguage))
	return fmt.Sprintf("%s.%s%s", baseName, tag, subtitle.GetExtensionForFormat(format))
}

func runTranslate(cmd *cobra.Command, args []string) error {
	inputPath := args[0]

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	settings := resolveSettings(cmd)
	if err := settings.validate(); err != nil {
		return err
	}

	apiKey, err := resolveAPIKey(settings.Provider, settings.APIKey, os.Getenv)
	if err != nil {
		return err
	}

	if _, err := os.Stat(inputPath); os.IsNotExist(err) {
		return fmt.Errorf("input file not found: %s", inputPath)
	}

	stream, _ := cmd.Flags().GetInt("stream")
	subFile, cleanup, err := openInput(ctx, inputPath, stream)
	if err != nil {
		return err
	}
	defer cleanup()

	store := subFile.Store()
	if store.Len() == 0 {
		return fmt.Errorf("subtitle file contains no entries")
	}

	if settings.SourceLanguage == "" {
		if detected, ok := subtitle.DetectLanguage(store); ok {
			logger.Infow("Detected source language",
				"language", detected.Name,
				"code", detected.Code,
				"reliable", detected.Reliable,
			)
			if detected.Reliable {
				settings.SourceLanguage = detected.Name
				if translate.SameLanguage(detected.Code, settings.TargetLanguage) {
					logger.Warnw("Subtitles already appear to be in the target language",
						"language", detected.Name,
					)
				}
			}
		}
	}

	outputPath, _ := cmd.Flags().GetString("output")
	if outputPath == "" {
		outputPath = defaultOutputPath(inputPath, settings.TargetLanguage, subFile.Format())
	} else if _, ok := subtitle.GetFormatFromExtension(outputPath); !ok {
		return fmt.Errorf(
			"unsupported output format %q: use .srt or .vtt",
			filepath.Ext(outputPath),
		)
	}

	unlock, err := lockOutput(outputPath)
	if err != nil {
		return err
	}
	defer unlock()

	translator, err := translate.Factory(ctx, settings.Provider, translate.Options{
		Model:          settings.Model,
		Prompt:         settings.Prompt,
		SourceLanguage: settings.SourceLanguage,
		BaseURL:        settings.BaseURL,
		MaxTokens:      settings.MaxTokens,
	})
	if err != nil {
		return fmt.Errorf("failed to create translator: %w", err)
	}

	p, err := pipeline.New(pipeline.Config{
		BatchSize:      settings.BatchSize,
		Concurrency:    settings.Concurrency,
		TargetLanguage: settings.TargetLanguage,
		Credential:     apiKey,
	}, translator.Translate, logger)
	if err != nil {
		return err
	}

	reporter := newProgressReporter(os.Stderr, progressModeFor(os.Stderr, verbose))
	p.OnProgress = reporter.Update

	logger.Infow("Starting subtitle translation",
		"input", inputPath,
		"output", outputPath,
		"provider", settings.Provider,
		"model", settings.Model,
		"target_language", settings.TargetLanguage,
		"source_language", settings.SourceLanguage,
	)

	translated, err := p.Run(ctx, store)
	reporter.Finish()
	if err != nil {
		return err
	}

	if err := subFile.WithStore(translated).Write(outputPath); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	printTranslateSummary(outputPath, translated.Len(), settings)
	return nil
}

// opens a subtitle file, or extracts a text track from a video into a
// temporary file first
func openInput(
	ctx context.Context,
	inputPath string,
	stream int,
) (*subtitle.File, func(), error) {
	noop := func() {}

	if !video.IsVideoFile(inputPath) {
		if _, ok := subtitle.GetFormatFromExtension(inputPath); !ok {
			return nil, noop, fmt.Errorf(
				"unsupported subtitle format %q: use .srt, .vtt, or a video file",
				filepath.Ext(inputPath),
			)
		}
		subFile, err := subtitle.Open(inputPath)
		if err != nil {
			return nil, noop, fmt.Errorf("failed to parse subtitle file: %w", err)
		}
		return subFile, noop, nil
	}

	processor := video.NewProcessor()
	if stream < 0 {
		streams, err := processor.ListSubtitleStreams(ctx, inputPath)
		if err != nil {
			return nil, noop, err
		}
		picked, err := firstTextStream(streams)
		if err != nil {
			return nil, noop, err
		}
		stream = picked.Index
	}

	tmpDir, err := os.MkdirTemp("", "anuvad-*")
	if err != nil {
		return nil, noop, fmt.Errorf("failed to create temp directory: %w", err)
	}
	cleanup := func() { _ = os.RemoveAll(tmpDir) }

	trackPath := filepath.Join(tmpDir, "track.srt")
	logger.Infow("Extracting subtitle track",
		"video", inputPath,
		"stream", stream,
	)
	if err := processor.ExtractSubtitle(ctx, inputPath, trackPath, video.ExtractSubtitleOptions{
		Stream: stream,
		Format: subtitle.FormatSRT,
	}); err != nil {
		cleanup()
		return nil, noop, fmt.Errorf("failed to extract subtitle track: %w", err)
	}

	subFile, err := subtitle.Open(trackPath)
	if err != nil {
		cleanup()
		return nil, noop, fmt.Errorf("failed to parse extracted track: %w", err)
	}
	return subFile, cleanup, nil
}

func firstTextStream(streams []video.SubtitleStream) (video.SubtitleStream, error) {
	if len(streams) == 0 {
		return video.SubtitleStream{}, fmt.Errorf("video has no subtitle streams")
	}
	for _, s := range streams {
		if s.IsText() {
			return s, nil
		}
	}
	return video.SubtitleStream{}, fmt.Errorf(
		"video has only image-based subtitle streams (%s), which cannot be translated",
		streams[0].Codec,
	)
}

// takes an exclusive lock next to the output so two runs cannot write the
// same file
func lockOutput(outputPath string) (func(), error) {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	lockPath := outputPath + ".lock"
	lock := flock.New(lockPath)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to lock output: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", errOutputLocked, outputPath)
	}

	return func() {
		_ = lock.Unlock()
		_ = os.Remove(lockPath)
	}, nil
}

func printTranslateSummary(outputPath string, entries int, s translateSettings) {
	absOutput, _ := filepath.Abs(outputPath)
	fmt.Printf("Subtitles translated successfully: %s\n", absOutput)
	fmt.Printf("  Entries: %s\n", humanize.Comma(int64(entries)))
	if info, err := os.Stat(outputPath); err == nil {
		fmt.Printf("  Size: %s\n", humanize.Bytes(uint64(info.Size())))
	}
	fmt.Printf("  Target language: %s\n", translate.ResolveLanguage(s.TargetLanguage))
	fmt.Printf("  Provider: %s\n", s.Provider)
}
