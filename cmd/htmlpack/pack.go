package main

import (
	"bytes"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dgallion1/htmlpack/internal/pipeline"
)

func packCmd(opts *rootOptions) *cobra.Command {
	var (
		req    pipeline.Request
		format string
		strict bool
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "pack [file]",
		Short: "Strip and truncate a document until it fits a budget",
		Long: `Strip a document and truncate it until its weight fits --max-weight.
Removed content is replaced by [...]. When the budget cannot be met the
smallest tree found is printed and a warning goes to stderr.

Weights are measured with --metric: chars, words or tokens.`,
		Example: `  htmlpack pack --max-weight 4000 page.html
  curl -s https://example.com | htmlpack pack --metric tokens --max-weight 1000
  htmlpack pack --format md --json < notes`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			svc := opts.service()
			var res *pipeline.Result
			if name := in.converterName(format, strict); name != "" {
				res, err = svc.ReduceFile(cmd.Context(), bytes.NewReader(in.data), name, req)
			} else {
				req.Markup = string(in.data)
				res, err = svc.Reduce(cmd.Context(), req)
			}
			if err != nil {
				return err
			}

			if !res.Fits {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s weight %d exceeds budget %d\n", res.Metric, res.Weight, res.MaxWeight)
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), res)
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.Output)
			return nil
		},
	}

	cmd.Flags().IntVarP(&req.MaxWeight, "max-weight", "w", 0, "Weight budget (default from configuration)")
	cmd.Flags().StringVarP(&req.Metric, "metric", "m", "", "Weight metric: chars, words or tokens (default from configuration)")
	cmd.Flags().BoolVar(&req.Pretty, "pretty", false, "Indent nested elements")
	cmd.Flags().BoolVar(&req.NoStrip, "no-strip", false, "Pack the parsed tree without stripping it")
	cmd.Flags().StringVarP(&format, "format", "f", "", formatUsage())
	cmd.Flags().BoolVar(&strict, "strict", false, "Always parse input as strict markup")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the full result as JSON")

	return cmd
}
