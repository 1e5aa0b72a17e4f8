package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mgpai22/anuvad/internal/subtitle"
	"github.com/mgpai22/anuvad/internal/video"
)

var extractCmd = &cobra.Command{
	Use:   "extract [video_file]",
	Short: "Extract a subtitle track from a video file",
	Long: `Extract an embedded text subtitle track from a video file and save it
as SRT or VTT.

Examples:
  anuvad extract movie.mkv --list
  anuvad extract movie.mkv
  anuvad extract movie.mkv --stream 2 -f vtt -o movie.en.vtt`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().
		StringP("format", "f", "srt", "Output subtitle format (srt, vtt)")
	extractCmd.Flags().
		IntP("stream", "s", -1, "Subtitle stream index (default: first text stream)")
	extractCmd.Flags().
		Bool("list", false, "List subtitle streams instead of extracting")
}

func runExtract(cmd *cobra.Command, args []string) error {
	videoPath := args[0]

	format, _ := cmd.Flags().GetString("format")
	stream, _ := cmd.Flags().GetInt("stream")
	list, _ := cmd.Flags().GetBool("list")
	outputPath, _ := cmd.Flags().GetString("output")

	subFormat := subtitle.Format(strings.ToLower(format))
	if subFormat != subtitle.FormatSRT && subFormat != subtitle.FormatVTT {
		return fmt.Errorf(
			"invalid format %q: supported formats are srt, vtt",
			format,
		)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	processor := video.NewProcessor()
	streams, err := processor.ListSubtitleStreams(ctx, videoPath)
	if err != nil {
		return err
	}

	if list {
		if len(streams) == 0 {
			fmt.Println("No subtitle streams found")
			return nil
		}
		fmt.Println(streamsTable(streams))
		return nil
	}

	var picked video.SubtitleStream
	if stream < 0 {
		picked, err = firstTextStream(streams)
		if err != nil {
			return err
		}
	} else {
		if stream >= len(streams) {
			return fmt.Errorf(
				"stream %d out of range: video has %d subtitle streams",
				stream,
				len(streams),
			)
		}
		picked = streams[stream]
		if !picked.IsText() {
			return fmt.Errorf("stream %d is image-based (%s) and cannot be extracted as text", stream, picked.Codec)
		}
	}

	if outputPath == "" {
		baseName := strings.TrimSuffix(videoPath, filepath.Ext(videoPath))
		if picked.Language != "" {
			baseName += "." + picked.Language
		}
		outputPath = baseName + subtitle.GetExtensionForFormat(subFormat)
	}

	logger.Infow("Extracting subtitle track",
		"video", videoPath,
		"output", outputPath,
		"stream", picked.Index,
		"codec", picked.Codec,
		"language", picked.Language,
	)

	if err := processor.ExtractSubtitle(ctx, videoPath, outputPath, video.ExtractSubtitleOptions{
		Stream: picked.Index,
		Format: subFormat,
	}); err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}

	absOutput, _ := filepath.Abs(outputPath)
	fmt.Printf("Subtitles extracted successfully: %s\n", absOutput)

	return nil
}

func streamsTable(streams []video.SubtitleStream) string {
	rows := make([][]string, 0, len(streams))
	for _, s := range streams {
		rows = append(rows, []string{
			strconv.Itoa(s.Index),
			s.Language,
			s.Codec,
			s.Title,
			yesNo(s.Default),
			yesNo(s.Forced),
			yesNo(s.IsText()),
		})
	}
	return renderTable(
		[]string{"Stream", "Language", "Codec", "Title", "Default", "Forced", "Text"},
		rows,
		[]columnAlignment{alignRight},
	)
}
