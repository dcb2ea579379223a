package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dgallion1/htmlpack/pkg/pack"
	"github.com/dgallion1/htmlpack/pkg/vdom"
)

func parseCmd(opts *rootOptions) *cobra.Command {
	var (
		pretty bool
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Parse markup and print it back in canonical form",
		Long: `Parse strict markup and re-serialize it. Whitespace between tags is
dropped and attribute values are escaped. Malformed markup, mismatched
or unclosed tags are reported as errors.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			nodes, err := opts.service().Parse(cmd.Context(), string(in.data))
			if err != nil {
				return err
			}
			output := vdom.SerializeAll(nodes, vdom.SerializeOptions{Pretty: pretty})
			if !asJSON {
				fmt.Fprintln(cmd.OutOrStdout(), output)
				return nil
			}
			depth := 0
			for _, n := range nodes {
				depth = max(depth, pack.Depth(n))
			}
			return writeJSON(cmd.OutOrStdout(), map[string]any{
				"nodes":  len(nodes),
				"depth":  depth,
				"output": output,
			})
		},
	}

	cmd.Flags().BoolVar(&pretty, "pretty", false, "Indent nested elements")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print node count, depth and output as JSON")

	return cmd
}
