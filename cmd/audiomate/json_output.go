package main

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeRawJSON re-indents an already encoded document to stdout.
func writeRawJSON(cmd *cobra.Command, raw []byte) error {
	if len(raw) == 0 {
		raw = []byte("null")
	}
	return writeJSON(cmd, json.RawMessage(raw))
}
