package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"audiomate/internal/preflight"
)

func newPreflightCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "preflight",
		Short: "Check directories, the scene store, and the audio device",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			results := preflight.RunAll(cmd.Context(), cfg)
			writePreflight(out, results, isTerminal(out))
			if preflight.Failed(results) {
				return errors.New("preflight failed")
			}
			return nil
		},
	}
}

// checkBadge returns the bracketed verdict and its colour. Optional checks
// that fail only warn.
func checkBadge(r preflight.Result) (string, text.Colors) {
	switch {
	case r.Passed:
		return "[OK]", text.Colors{text.FgGreen}
	case r.Optional:
		return "[WARN]", text.Colors{text.FgYellow}
	default:
		return "[ERROR]", text.Colors{text.FgRed}
	}
}

func writePreflight(out io.Writer, results []preflight.Result, colorize bool) {
	header := text.Colors{text.FgBlue, text.Bold}
	title := "Preflight"
	if colorize {
		title = header.Sprint(title)
	}
	fmt.Fprintln(out, title)

	failed := 0
	for _, r := range results {
		badge, colors := checkBadge(r)
		if !r.Passed && !r.Optional {
			failed++
		}
		line := fmt.Sprintf("  %-20s %s", r.Name+":", badge)
		if r.Detail != "" {
			line += " " + r.Detail
		}
		if colorize {
			line = colors.Sprint(line)
		}
		fmt.Fprintln(out, line)
	}
	fmt.Fprintf(out, "%d checks, %d failed\n", len(results), failed)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
