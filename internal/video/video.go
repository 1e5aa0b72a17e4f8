package video

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	ffmpegbin "github.com/mgpai22/anuvad/internal/ffmpeg"
	"github.com/mgpai22/anuvad/internal/subtitle"
)

// subtitle stream inside a container
type SubtitleStream struct {
	Index       int // position among subtitle streams, as used by -map 0:s:N
	StreamIndex int // absolute stream index in the container
	Codec       string
	Language    string
	Title       string
	Default     bool
	Forced      bool
}

// image based codecs carry no text to translate
func (s SubtitleStream) IsText() bool {
	switch s.Codec {
	case "hdmv_pgs_subtitle", "dvd_subtitle", "dvb_subtitle", "xsub":
		return false
	default:
		return true
	}
}

// defines interface for container subtitle operations
type Processor interface {
	ListSubtitleStreams(ctx context.Context, videoPath string) ([]SubtitleStream, error)
	ExtractSubtitle(
		ctx context.Context,
		videoPath, outputPath string,
		opts ExtractSubtitleOptions,
	) error
}

// holds options for subtitle extraction
type ExtractSubtitleOptions struct {
	Stream int // index among subtitle streams
	Format subtitle.Format
}

// default implementation using ffmpeg
type DefaultProcessor struct{}

func NewProcessor() *DefaultProcessor {
	return &DefaultProcessor{}
}

type ffprobeOutput struct {
	Streams []struct {
		Index       int               `json:"index"`
		CodecName   string            `json:"codec_name"`
		Tags        map[string]string `json:"tags"`
		Disposition map[string]int    `json:"disposition"`
	} `json:"streams"`
}

// lists subtitle streams via ffprobe
func (p *DefaultProcessor) ListSubtitleStreams(
	ctx context.Context,
	videoPath string,
) ([]SubtitleStream, error) {
	if _, err := os.Stat(videoPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("video file not found: %s", videoPath)
	}

	ffprobePath, err := ffmpegbin.FFprobePath()
	if err != nil {
		return nil, err
	}

	cmd := exec.CommandContext(ctx, ffprobePath,
		"-v", "quiet",
		"-print_format", "json",
		"-show_streams",
		"-select_streams", "s",
		videoPath,
	)

	var out bytes.Buffer
	cmd.Stdout = &out

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffprobe failed: %w", err)
	}

	return parseProbeOutput(out.Bytes())
}

func parseProbeOutput(data []byte) ([]SubtitleStream, error) {
	var probe ffprobeOutput
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}

	streams := make([]SubtitleStream, 0, len(probe.Streams))
	for i, s := range probe.Streams {
		streams = append(streams, SubtitleStream{
			Index:       i,
			StreamIndex: s.Index,
			Codec:       s.CodecName,
			Language:    tagValue(s.Tags, "language"),
			Title:       tagValue(s.Tags, "title"),
			Default:     s.Disposition["default"] == 1,
			Forced:      s.Disposition["forced"] == 1,
		})
	}
	return streams, nil
}

// ffprobe tag keys vary in case between containers
func tagValue(tags map[string]string, key string) string {
	for k, v := range tags {
		if strings.EqualFold(k, key) {
			return v
		}
	}
	return ""
}

// extracts one subtitle stream to a text subtitle file
func (p *DefaultProcessor) ExtractSubtitle(
	ctx context.Context,
	videoPath, outputPath string,
	opts ExtractSubtitleOptions,
) error {
	if _, err := os.Stat(videoPath); os.IsNotExist(err) {
		return fmt.Errorf("video file not found: %s", videoPath)
	}

	outputDir := filepath.Dir(outputPath)
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	ffmpegPath, err := ffmpegbin.FFmpegPath()
	if err != nil {
		return err
	}

	compiled := ffmpeg.Input(videoPath).
		Output(outputPath, extractKwArgs(opts)).
		OverWriteOutput().
		SetFfmpegPath(ffmpegPath).
		Compile()

	cmd := exec.CommandContext(ctx, compiled.Path, compiled.Args[1:]...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf(
			"ffmpeg extraction failed: %w: %s",
			err,
			lastLine(stderr.String()),
		)
	}

	return nil
}

func extractKwArgs(opts ExtractSubtitleOptions) ffmpeg.KwArgs {
	codec := "srt"
	if opts.Format == subtitle.FormatVTT {
		codec = "webvtt"
	}
	return ffmpeg.KwArgs{
		"map": "0:s:" + strconv.Itoa(opts.Stream),
		"c:s": codec,
	}
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return lines[len(lines)-1]
}

// checks if a file is a video container that may carry subtitle streams
func IsVideoFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".mp4", ".mkv", ".avi", ".mov", ".webm", ".m4v", ".ts", ".m2ts":
		return true
	default:
		return false
	}
}
