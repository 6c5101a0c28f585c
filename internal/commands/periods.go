package commands

import (
	"fmt"

	"RallyFinder/internal/notifier"

	"github.com/spf13/cobra"
)

var periodsCmd = &cobra.Command{
	Use:   "periods",
	Short: "List the accepted period tokens",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), notifier.FormatPeriods())
		return err
	},
}

func init() {
	rootCmd.AddCommand(periodsCmd)
}
