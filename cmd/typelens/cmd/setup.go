package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/abramin/typelens/internal/installer"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Register the typelens MCP server with the agent host",
	Long: `Register typelens as an MCP server in the agent host's configuration
and write a usage guide next to it. Both steps are idempotent: an existing
registration or guide counts as success.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		inst, err := installer.New(logger)
		if err != nil {
			return err
		}
		return inst.Run()
	},
}

func init() {
	rootCmd.AddCommand(setupCmd)
}
