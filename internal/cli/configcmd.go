package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mgpai22/anuvad/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a sample configuration file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configFlag
		if len(args) == 1 {
			path = args[0]
		}
		if path == "" {
			var err error
			if path, err = config.DefaultConfigPath(); err != nil {
				return err
			}
		}
		if err := config.WriteSample(path); err != nil {
			return err
		}
		fmt.Printf("Config written: %s\n", path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		rows := [][]string{
			{"provider", cfg.Provider},
			{"model", cfg.Model},
			{"base_url", cfg.BaseURL},
			{"target_language", cfg.TargetLanguage},
			{"source_language", cfg.SourceLanguage},
			{"batch_size", fmt.Sprint(cfg.BatchSize)},
			{"concurrency", fmt.Sprint(cfg.Concurrency)},
			{"prompt", cfg.Prompt},
			{"max_tokens", fmt.Sprint(cfg.MaxTokens)},
			{"env_file", cfg.EnvFile},
		}
		fmt.Println(renderTable([]string{"Key", "Value"}, rows, nil))
	},
}

func init() {
	configCmd.AddCommand(configInitCmd, configShowCmd)
	rootCmd.AddCommand(configCmd)
}
