package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abramin/typelens"
	"github.com/abramin/typelens/internal/config"
)

var (
	cfgFile  string
	cfg      *config.Config
	flagDocs bool
	flagProj string
)

var rootCmd = &cobra.Command{
	Use:   "typelens <file>:<line>:<column> | <file>:<name>[:<line>]",
	Short: "typelens - what type does the Go compiler infer here?",
	Long: `typelens exposes the Go type checker's inference as a hover-like lookup:
given a source file and a position or symbol name, it prints the signature
the compiler infers there, the way an editor shows it on hover.

Examples:
  typelens internal/store/store.go:42:17
  typelens internal/store/store.go:InsertSymbol
  typelens internal/store/store.go:InsertSymbol:97 --docs`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return cmd.Help()
		}

		target, err := parseTarget(args[0])
		if err != nil {
			return err
		}

		opts := typelens.Options{
			Project:     flagProj,
			IncludeDocs: flagDocs || cfg.Docs,
			Config:      cfg,
		}

		var res *typelens.Result
		if target.byName {
			opts.Line = target.line
			res, err = typelens.LookupByName(target.file, target.name, opts)
		} else {
			res, err = typelens.LookupByPosition(target.file, target.line, target.column, opts)
		}
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), res.Render())
		return nil
	},
}

func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintln(rootCmd.ErrOrStderr(), err)
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./typelens.yaml)")
	rootCmd.Flags().BoolVarP(&flagDocs, "docs", "d", false, "include the declaration's doc comment")
	rootCmd.Flags().StringVarP(&flagProj, "project", "p", "", "explicit project directory (default: nearest go.mod above the file)")
}

// GetConfig returns the configuration loaded for this invocation.
func GetConfig() *config.Config {
	return cfg
}
