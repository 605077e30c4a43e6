package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"audiomate/internal/clip"
	"audiomate/internal/engine"
)

func newLibraryCommand(ctx *commandContext) *cobra.Command {
	libraryCmd := &cobra.Command{
		Use:   "library",
		Short: "Inspect and extend the clip library",
	}
	libraryCmd.AddCommand(newLibraryListCommand(ctx))
	libraryCmd.AddCommand(newLibraryImportCommand(ctx))
	return libraryCmd
}

func newLibraryListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List library clips and their membership in the active collection",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, func(session *engine.Session) error {
				lib := session.Controller.Library()
				out := cmd.OutOrStdout()
				if lib.Len() == 0 {
					fmt.Fprintf(out, "No clips in %s\n", session.Catalog.Root())
					return nil
				}
				rows := make([][]string, 0, lib.Len())
				for i, c := range lib.Clips() {
					rows = append(rows, []string{
						strconv.Itoa(i),
						c.DisplayName(),
						c.SourceID(),
						marker(c.InActiveCollection()),
					})
				}
				active := session.Controller.Registry().Active()
				fmt.Fprintln(out, renderTable(
					[]string{"#", "Clip", "ID", active.Name()},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignCenter},
				))
				return nil
			})
		},
	}
}

func newLibraryImportCommand(ctx *commandContext) *cobra.Command {
	var addToActive bool

	cmd := &cobra.Command{
		Use:   "import <path>...",
		Short: "Copy audio files or folders into the sounds directory",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.mutate(cmd, func(session *engine.Session) error {
				out := cmd.OutOrStdout()
				var imported []string
				for _, source := range args {
					assets, err := session.Catalog.Import(source)
					if err != nil {
						return err
					}
					for _, a := range assets {
						imported = append(imported, a.ID)
					}
				}
				added, _ := session.Controller.RefreshLibrary()
				fmt.Fprintf(out, "Imported %d files (%d new clips)\n", len(imported), added)

				if !addToActive {
					return nil
				}
				lib := session.Controller.Library()
				clips := make([]*clip.Clip, 0, len(imported))
				for _, id := range imported {
					if c, ok := lib.Get(id); ok {
						clips = append(clips, c)
					}
				}
				reg := session.Controller.Registry()
				n := reg.AddClipsToActive(clips...)
				fmt.Fprintf(out, "Added %d clips to %s\n", n, reg.Active().Name())
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&addToActive, "add", false, "Also add the imported clips to the active collection")
	return cmd
}
