package main

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"audiomate/internal/collection"
	"audiomate/internal/engine"
	"audiomate/internal/persist"
)

func newCollectionsCommand(ctx *commandContext) *cobra.Command {
	collectionsCmd := &cobra.Command{
		Use:     "collections",
		Aliases: []string{"collection"},
		Short:   "Manage sound collections",
	}
	collectionsCmd.AddCommand(newCollectionsListCommand(ctx))
	collectionsCmd.AddCommand(newCollectionsAddCommand(ctx))
	collectionsCmd.AddCommand(newCollectionsRemoveCommand(ctx))
	collectionsCmd.AddCommand(newCollectionsRenameCommand(ctx))
	collectionsCmd.AddCommand(newCollectionsSelectCommand(ctx))
	collectionsCmd.AddCommand(newCollectionsShowCommand(ctx))
	collectionsCmd.AddCommand(newCollectionsSetCommand(ctx))
	return collectionsCmd
}

func newCollectionsListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List collections",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, func(session *engine.Session) error {
				reg := session.Controller.Registry()
				active := reg.Active()
				rows := make([][]string, 0, reg.Len())
				for _, c := range reg.Collections() {
					rows = append(rows, []string{
						marker(c == active),
						c.Name(),
						strconv.Itoa(c.Len()),
						yesNo(c.Enabled()),
						formatChance(c.PlayChance()),
						receiverLabel(c),
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"", "Collection", "Clips", "Enabled", "Chance", "Receiver"},
					rows,
					[]columnAlignment{alignCenter, alignLeft, alignRight, alignLeft, alignRight, alignLeft},
				))
				return nil
			})
		},
	}
}

func newCollectionsAddCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "add [name]",
		Short: "Create a collection and make it active",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.mutate(cmd, func(session *engine.Session) error {
				name := ""
				if len(args) == 1 {
					name = args[0]
				}
				c := session.Controller.Registry().Add(name)
				if c == nil {
					return fmt.Errorf("collection %q already exists", strings.TrimSpace(name))
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added collection %s\n", c.Name())
				return nil
			})
		},
	}
}

func newCollectionsRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove [name]",
		Short: "Remove a collection (the active one by default)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.mutate(cmd, func(session *engine.Session) error {
				reg := session.Controller.Registry()
				name := reg.Active().Name()
				if len(args) == 1 {
					name = args[0]
				}
				if !reg.Remove(name) {
					return fmt.Errorf("collection %q not found", name)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed collection %s; active is now %s\n", name, reg.Active().Name())
				return nil
			})
		},
	}
}

func newCollectionsRenameCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <new-name>",
		Short: "Rename the active collection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.mutate(cmd, func(session *engine.Session) error {
				reg := session.Controller.Registry()
				before := reg.Active().Name()
				if !reg.RenameActive(args[0]) {
					return fmt.Errorf("cannot rename %s to %q (empty, unchanged, or already used)", before, args[0])
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Renamed %s to %s\n", before, reg.Active().Name())
				return nil
			})
		},
	}
}

func newCollectionsSelectCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "select <name>",
		Short: "Make a collection active",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.mutate(cmd, func(session *engine.Session) error {
				if !session.Controller.Registry().Select(args[0]) {
					return fmt.Errorf("collection %q not found", args[0])
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Active collection: %s\n", args[0])
				return nil
			})
		},
	}
}

type collectionView struct {
	Name        string   `json:"name"`
	Active      bool     `json:"active"`
	Enabled     bool     `json:"enabled"`
	Shuffle     bool     `json:"shuffle"`
	AlwaysQueue bool     `json:"alwaysQueue"`
	OnlyIfClear bool     `json:"onlyIfClear"`
	PlayChance  float64  `json:"playChance"`
	Receiver    string   `json:"receiver"`
	Resolved    bool     `json:"receiverResolved"`
	LastPlayed  int      `json:"lastClipIndex"`
	Clips       []string `json:"clips"`
	Pool        []int    `json:"shufflePool,omitempty"`
}

func newCollectionsShowCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool
	var document bool

	cmd := &cobra.Command{
		Use:   "show [name]",
		Short: "Show a collection (the active one by default)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, func(session *engine.Session) error {
				if document {
					raw, err := session.Controller.Snapshot()
					if err != nil {
						return err
					}
					return writeRawJSON(cmd, raw)
				}
				reg := session.Controller.Registry()
				c := reg.Active()
				if len(args) == 1 {
					if c = reg.Get(args[0]); c == nil {
						return fmt.Errorf("collection %q not found", args[0])
					}
				}
				view := viewOf(c, c == reg.Active())
				if asJSON {
					return writeJSON(cmd, view)
				}
				printCollection(cmd, view)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the collection as JSON")
	cmd.Flags().BoolVar(&document, "document", false, "Print the stored "+persist.RootKey+" document")
	return cmd
}

func viewOf(c *collection.Collection, active bool) collectionView {
	_, resolved := c.Receiver()
	view := collectionView{
		Name:        c.Name(),
		Active:      active,
		Enabled:     c.Enabled(),
		Shuffle:     c.Shuffle(),
		AlwaysQueue: c.AlwaysQueue(),
		OnlyIfClear: c.OnlyIfClear(),
		PlayChance:  c.PlayChance(),
		Receiver:    receiverLabel(c),
		Resolved:    resolved,
		LastPlayed:  c.LastPlayedIndex(),
		Clips:       []string{},
	}
	for _, member := range c.Members() {
		view.Clips = append(view.Clips, member.SourceID())
	}
	if c.Shuffle() {
		view.Pool = c.Pool()
	}
	return view
}

func printCollection(cmd *cobra.Command, view collectionView) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Collection:    %s\n", view.Name)
	fmt.Fprintf(out, "Active:        %s\n", yesNo(view.Active))
	fmt.Fprintf(out, "Enabled:       %s\n", yesNo(view.Enabled))
	fmt.Fprintf(out, "Shuffle:       %s\n", yesNo(view.Shuffle))
	fmt.Fprintf(out, "Always queue:  %s\n", yesNo(view.AlwaysQueue))
	fmt.Fprintf(out, "Only if clear: %s\n", yesNo(view.OnlyIfClear))
	fmt.Fprintf(out, "Play chance:   %s\n", formatChance(view.PlayChance))
	receiver := view.Receiver
	if !view.Resolved {
		receiver += " (unresolved)"
	}
	fmt.Fprintf(out, "Receiver:      %s\n", receiver)
	if len(view.Clips) == 0 {
		fmt.Fprintln(out, "Clips:         none")
		return
	}
	rows := make([][]string, 0, len(view.Clips))
	for i, id := range view.Clips {
		rows = append(rows, []string{strconv.Itoa(i), id, marker(i == view.LastPlayed)})
	}
	fmt.Fprintln(out, renderTable([]string{"#", "Clip", "Last"}, rows, []columnAlignment{alignRight, alignLeft, alignCenter}))
}

var settingFlags = []string{"enabled", "shuffle", "always-queue", "only-if-clear", "chance", "atom", "node"}

func newCollectionsSetCommand(ctx *commandContext) *cobra.Command {
	var (
		enabled     bool
		shuffle     bool
		alwaysQueue bool
		onlyIfClear bool
		chance      float64
		atom        string
		node        string
	)

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change settings of the active collection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if !slices.ContainsFunc(settingFlags, flags.Changed) {
				return errors.New("nothing to change; pass at least one setting flag")
			}
			if flags.Changed("chance") && (chance < 0 || chance > 1) {
				return fmt.Errorf("chance %v out of range [0, 1]", chance)
			}
			return ctx.mutate(cmd, func(session *engine.Session) error {
				ctrl := session.Controller
				reg := ctrl.Registry()
				active := reg.Active()
				if flags.Changed("enabled") {
					active.SetEnabled(enabled)
				}
				if flags.Changed("shuffle") {
					active.SetShuffle(shuffle)
				}
				if flags.Changed("always-queue") {
					active.SetAlwaysQueue(alwaysQueue)
				}
				if flags.Changed("only-if-clear") {
					active.SetOnlyIfClear(onlyIfClear)
				}
				if flags.Changed("chance") {
					active.SetPlayChance(chance)
				}
				if flags.Changed("atom") && !ctrl.SetReceivingAtom(atom) {
					return fmt.Errorf("atom %q is not declared in the scene", atom)
				}
				if flags.Changed("node") && !ctrl.SetReceivingNode(node) {
					return fmt.Errorf("atom %s has no node %q", active.ReceiverAtomID(), node)
				}
				reg.NotifyActiveUpdated()
				printCollection(cmd, viewOf(active, true))
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&enabled, "enabled", true, "Enable or disable playback")
	cmd.Flags().BoolVar(&shuffle, "shuffle", false, "Play every clip once before repeating")
	cmd.Flags().BoolVar(&alwaysQueue, "always-queue", false, "Queue clips instead of interrupting")
	cmd.Flags().BoolVar(&onlyIfClear, "only-if-clear", false, "Skip clips while the receiver is busy")
	cmd.Flags().Float64Var(&chance, "chance", 1, "Probability in [0, 1] that a play request produces a clip")
	cmd.Flags().StringVar(&atom, "atom", "", "Receiving atom; its audio node is guessed from the atom type")
	cmd.Flags().StringVar(&node, "node", "", "Receiving node of the current atom")
	return cmd
}

func formatChance(chance float64) string {
	return strconv.FormatFloat(chance, 'f', -1, 64)
}

func receiverLabel(c *collection.Collection) string {
	return c.ReceiverAtomID() + "/" + c.ReceiverNodeID()
}
