package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dgallion1/htmlpack/internal/analyze"
	"github.com/dgallion1/htmlpack/pkg/vdom"
)

func promptCmd(opts *rootOptions) *cobra.Command {
	var (
		historyFile string
		metricName  string
		maxWeight   int
		format      string
		strict      bool
	)

	cmd := &cobra.Command{
		Use:   "prompt [file]",
		Short: "Build a selector-extraction conversation for a page",
		Long: `Build the chat messages that ask a model to extract selectors from a
page. The page is stripped and packed so that the whole conversation,
including any --history messages and the instruction, fits --max-weight.

--history names a JSON file holding an array of {"role","content"}
messages that precede the page.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			svc := opts.service()
			var doc *vdom.Node
			if name := in.converterName(format, strict); name != "" {
				doc, err = svc.Convert(bytes.NewReader(in.data), name)
			} else {
				doc, err = parseDocument(string(in.data))
			}
			if err != nil {
				return err
			}

			history, err := readHistory(historyFile)
			if err != nil {
				return err
			}
			metric, err := svc.Metric(metricName)
			if err != nil {
				return err
			}
			if maxWeight <= 0 {
				maxWeight = opts.cfg.DefaultMaxWeight
			}

			prompt, err := analyze.Prepare(analyze.Request{
				History:   history,
				Document:  doc,
				Metric:    metric,
				MaxWeight: maxWeight,
			})
			if err != nil {
				return err
			}
			opts.log.Debug("prompt prepared",
				"metric", metric.Name(), "weight", prompt.Pack.Weight,
				"iterations", prompt.Pack.Iterations)
			return writeJSON(cmd.OutOrStdout(), prompt.Messages)
		},
	}

	cmd.Flags().StringVar(&historyFile, "history", "", "JSON file of messages preceding the page")
	cmd.Flags().StringVarP(&metricName, "metric", "m", "", "Weight metric: chars, words or tokens (default from configuration)")
	cmd.Flags().IntVarP(&maxWeight, "max-weight", "w", 0, "Budget for the whole conversation (default from configuration)")
	cmd.Flags().StringVarP(&format, "format", "f", "", formatUsage())
	cmd.Flags().BoolVar(&strict, "strict", false, "Always parse input as strict markup")

	return cmd
}

// parseDocument parses strict markup into a single tree, wrapping several
// top-level nodes in a body element.
func parseDocument(markup string) (*vdom.Node, error) {
	nodes, err := vdom.ParseFragment(markup)
	if err != nil {
		return nil, fmt.Errorf("parse markup: %w", err)
	}
	return analyze.SelectRoot(nodes)
}

func readHistory(path string) ([]analyze.Message, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}
	var history []analyze.Message
	if err := json.Unmarshal(data, &history); err != nil {
		return nil, fmt.Errorf("parse history %s: %w", path, err)
	}
	return history, nil
}
