package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dgallion1/htmlpack/pkg/vdom"
)

func stripCmd(opts *rootOptions) *cobra.Command {
	var pretty bool

	cmd := &cobra.Command{
		Use:   "strip [file]",
		Short: "Remove presentational markup, hidden elements and scripts",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			nodes, err := opts.service().Strip(cmd.Context(), string(in.data))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), vdom.SerializeAll(nodes, vdom.SerializeOptions{Pretty: pretty}))
			return nil
		},
	}

	cmd.Flags().BoolVar(&pretty, "pretty", false, "Indent nested elements")

	return cmd
}
