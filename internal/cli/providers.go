package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mgpai22/anuvad/internal/translate"
)

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List translation providers",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(providersTable(translate.Providers(), os.Getenv))
	},
}

func init() {
	rootCmd.AddCommand(providersCmd)
}

func providersTable(infos []translate.Info, getenv func(string) string) string {
	rows := make([][]string, 0, len(infos))
	for _, info := range infos {
		rows = append(rows, []string{
			string(info.ID),
			info.Name,
			info.DefaultModel,
			info.EnvVar,
			yesNo(getenv(info.EnvVar) != ""),
		})
	}
	return renderTable(
		[]string{"ID", "Name", "Default model", "Key variable", "Key set"},
		rows,
		nil,
	)
}
