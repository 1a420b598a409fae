package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/abramin/typelens/internal/mcpserver"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the typelens MCP server on stdio",
	Long: `Serve the hover, hover_by_name, and batch_hover tools over the Model
Context Protocol on stdin/stdout. Logs go to stderr so they never corrupt
the protocol stream.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		srv := mcpserver.New(GetConfig(), logger)
		return srv.Run(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
