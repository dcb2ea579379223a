package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dgallion1/htmlpack/internal/ingest"
)

// input is a document read from a file argument or stdin.
type input struct {
	name string // empty for stdin
	data []byte
}

func readInput(cmd *cobra.Command, args []string) (input, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return input{}, fmt.Errorf("read stdin: %w", err)
		}
		return input{data: data}, nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return input{}, fmt.Errorf("read input: %w", err)
	}
	return input{name: args[0], data: data}, nil
}

// converterName returns the file name used to pick a converter, or "" when
// the input is strict markup. format overrides the file extension.
func (in input) converterName(format string, strict bool) string {
	if strict {
		return ""
	}
	name := in.name
	if format != "" {
		name = "input." + strings.TrimPrefix(format, ".")
	}
	if name == "" || !ingest.IsSupportedExtension(name) {
		return ""
	}
	return name
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// formatUsage is the help text of the --format flag.
func formatUsage() string {
	exts := ingest.SupportedExtensions()
	for i, ext := range exts {
		exts[i] = strings.TrimPrefix(ext, ".")
	}
	return "Convert input as this file type (" + strings.Join(exts, ", ") + ")"
}
