package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/dgallion1/htmlpack/internal/config"
	"github.com/dgallion1/htmlpack/internal/pipeline"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootOptions is shared by every subcommand.
type rootOptions struct {
	verbose bool
	cfg     config.Config
	log     *slog.Logger
}

// service builds a pipeline with collectors on a private registry.
func (o *rootOptions) service() *pipeline.Service {
	return pipeline.NewService(o.cfg, nil, o.log)
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "htmlpack",
		Short: "Shrink HTML documents to fit a weight budget",
		Long: `htmlpack parses strict HTML-like markup, strips it down to the
elements and attributes that carry meaning, and truncates the result
until it fits a character, word or token budget.

Input is read from the file argument, or from stdin when no file (or -)
is given. Files in a supported format (html, markdown, text, csv, docx,
pdf) are converted before packing.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			opts.cfg = cfg

			level := slog.LevelWarn
			if opts.verbose {
				level = slog.LevelDebug
			}
			opts.log = slog.New(slog.NewJSONHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			return nil
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log pipeline activity to stderr")

	rootCmd.AddCommand(
		parseCmd(opts),
		stripCmd(opts),
		packCmd(opts),
		promptCmd(opts),
		versionCmd(),
	)
	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
