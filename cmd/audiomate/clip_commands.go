package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"audiomate/internal/clip"
	"audiomate/internal/engine"
	"audiomate/internal/library"
	"audiomate/internal/textutil"
)

func newClipsCommand(ctx *commandContext) *cobra.Command {
	clipsCmd := &cobra.Command{
		Use:     "clips",
		Aliases: []string{"clip"},
		Short:   "Change the clips of the active collection",
	}
	clipsCmd.AddCommand(newClipsAddCommand(ctx))
	clipsCmd.AddCommand(newClipsRemoveCommand(ctx))
	clipsCmd.AddCommand(newClipsToggleCommand(ctx))
	clipsCmd.AddCommand(newClipsClearCommand(ctx))
	clipsCmd.AddCommand(newClipsAddAllCommand(ctx))
	clipsCmd.AddCommand(newClipsAddRangeCommand(ctx))
	return clipsCmd
}

// resolveClip finds a library clip by id, falling back to its list index.
func resolveClip(lib *library.Library, arg string) (*clip.Clip, error) {
	if c, ok := lib.Get(library.NormalizeID(arg)); ok {
		return c, nil
	}
	if idx, err := strconv.Atoi(arg); err == nil {
		clips := lib.Clips()
		if idx >= 0 && idx < len(clips) {
			return clips[idx], nil
		}
	}
	return nil, fmt.Errorf("clip %q not found in the library", arg)
}

func resolveClips(lib *library.Library, args []string) ([]*clip.Clip, error) {
	clips := make([]*clip.Clip, 0, len(args))
	for _, arg := range args {
		c, err := resolveClip(lib, arg)
		if err != nil {
			return nil, err
		}
		clips = append(clips, c)
	}
	return clips, nil
}

func newClipsAddCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "add <clip>...",
		Short: "Add library clips by id or index",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.mutate(cmd, func(session *engine.Session) error {
				clips, err := resolveClips(session.Controller.Library(), args)
				if err != nil {
					return err
				}
				reg := session.Controller.Registry()
				n := reg.AddClipsToActive(clips...)
				fmt.Fprintf(cmd.OutOrStdout(), "Added %d clips to %s\n", n, reg.Active().Name())
				return nil
			})
		},
	}
}

func newClipsRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <clip>...",
		Short: "Remove clips by id or library index",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.mutate(cmd, func(session *engine.Session) error {
				clips, err := resolveClips(session.Controller.Library(), args)
				if err != nil {
					return err
				}
				reg := session.Controller.Registry()
				removed := 0
				for _, c := range clips {
					if reg.RemoveClipFromActive(c) {
						removed++
					}
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d clips from %s\n", removed, reg.Active().Name())
				return nil
			})
		},
	}
}

func newClipsToggleCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <clip>",
		Short: "Add a clip, or remove it when already present",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.mutate(cmd, func(session *engine.Session) error {
				lib := session.Controller.Library()
				c, err := resolveClip(lib, args[0])
				if err != nil {
					return err
				}
				member, _ := lib.Toggle(c.SourceID())
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", textutil.Choose(member, "Added", "Removed"), c.SourceID())
				return nil
			})
		},
	}
}

func newClipsClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every clip from the active collection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.mutate(cmd, func(session *engine.Session) error {
				reg := session.Controller.Registry()
				reg.ClearActive()
				fmt.Fprintf(cmd.OutOrStdout(), "Cleared %s\n", reg.Active().Name())
				return nil
			})
		},
	}
}

func newClipsAddAllCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "add-all",
		Short: "Add every library clip",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.mutate(cmd, func(session *engine.Session) error {
				n := session.Controller.Library().AddAll()
				fmt.Fprintf(cmd.OutOrStdout(), "Added %d clips to %s\n", n, session.Controller.Registry().Active().Name())
				return nil
			})
		},
	}
}

func newClipsAddRangeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "add-range <start-index> <span>",
		Short: "Add the library clips from start through start+span",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("start index: %w", err)
			}
			span, err := strconv.Atoi(args[1])
			if err != nil || span < 0 {
				return fmt.Errorf("span must be a non-negative integer, got %q", args[1])
			}
			return ctx.mutate(cmd, func(session *engine.Session) error {
				lib := session.Controller.Library()
				if !lib.SetCursor(start) {
					return fmt.Errorf("start index %d out of range (library holds %d clips)", start, lib.Len())
				}
				n := lib.AddRange(span)
				fmt.Fprintf(cmd.OutOrStdout(), "Added %d clips to %s\n", n, session.Controller.Registry().Active().Name())
				return nil
			})
		},
	}
}
