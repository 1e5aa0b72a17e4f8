package cli

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/mgpai22/anuvad/internal/config"
	"github.com/mgpai22/anuvad/internal/logging"
)

var (
	verbose    bool
	configFlag string
	logger     *logging.Logger
	cfg        *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "anuvad",
	Short: "AI-powered subtitle translator",
	Long: `Anuvad is a CLI tool that translates subtitle files with large
language models.

Entries are sent in numbered batches, several requests at a time, and the
answers are matched back to their entries by number. Timing is never touched.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger = logging.NewLogger(verbose)

		loaded, path, exists, err := config.Load(configFlag)
		if err != nil {
			return err
		}
		cfg = loaded
		if exists {
			logger.Debugw("Loaded config", "path", path)
		}

		if err := loadEnv(cfg.EnvFile); err != nil {
			return err
		}
		return nil
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().
		BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		StringVar(&configFlag, "config", "", "Config file (default ./anuvad.toml or ~/.config/anuvad/config.toml)")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output file path")
	rootCmd.PersistentFlags().
		StringP("language", "l", "", "Source language code (e.g., en, es, fr)")
}

// loads API keys from a .env file. an explicit file must exist; the
// working directory's .env is optional. existing variables win.
func loadEnv(path string) error {
	if path != "" {
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("failed to load env file %s: %w", path, err)
		}
		return nil
	}
	_ = godotenv.Load()
	return nil
}
