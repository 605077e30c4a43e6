package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"audiomate/internal/engine"
	"audiomate/internal/host"
)

func newTriggersCommand(ctx *commandContext) *cobra.Command {
	var phaseFlag string

	triggersCmd := &cobra.Command{
		Use:     "triggers",
		Aliases: []string{"trigger"},
		Short:   "Bind collections to collider triggers",
	}
	triggersCmd.PersistentFlags().StringVar(&phaseFlag, "phase", "start", "Trigger phase: start or end")

	phase := func() (host.Phase, error) { return host.ParsePhase(phaseFlag) }

	triggersCmd.AddCommand(newTriggersListCommand(ctx))
	triggersCmd.AddCommand(newTriggersAddCommand(ctx, phase))
	triggersCmd.AddCommand(newTriggersRemoveCommand(ctx, phase))
	triggersCmd.AddCommand(newTriggersFireCommand(ctx, phase))
	return triggersCmd
}

func newTriggersListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List colliders and their bound entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, func(session *engine.Session) error {
				storeID := session.Controller.Binder().StoreID()
				var rows [][]string
				for _, src := range session.Scene.TriggerSources() {
					bound := 0
					for _, phase := range []host.Phase{host.PhaseStart, host.PhaseEnd} {
						for _, entry := range src.Entries(phase) {
							if entry == nil {
								continue
							}
							bound++
							rows = append(rows, []string{src.ID, string(phase), entry.Name, entry.ReceiverTargetName, marker(entry.ReceiverStoreID == storeID)})
						}
					}
					if bound == 0 {
						rows = append(rows, []string{src.ID, "", "", "", ""})
					}
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"Collider", "Phase", "Entry", "Action", "Ours"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignCenter},
				))
				return nil
			})
		},
	}
}

func colliderArg(session *engine.Session, args []string) (string, error) {
	collider := session.Config.Triggers.DefaultCollider
	if len(args) == 1 {
		collider = args[0]
	}
	if !session.Config.ColliderKnown(collider) {
		return "", fmt.Errorf("collider %q is not configured (see [triggers] colliders)", collider)
	}
	return collider, nil
}

func newTriggersAddCommand(ctx *commandContext, phase func() (host.Phase, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "add [collider]",
		Short: "Play the active collection when a collider fires",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := phase()
			if err != nil {
				return err
			}
			return ctx.mutate(cmd, func(session *engine.Session) error {
				collider, err := colliderArg(session, args)
				if err != nil {
					return err
				}
				entry, ok := session.Controller.AddTriggerAction(collider, p)
				if !ok {
					return fmt.Errorf("%s %s already plays %s", collider, p, session.Controller.Registry().Active().Name())
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s)\n", entry.Name, p)
				return nil
			})
		},
	}
}

func newTriggersRemoveCommand(ctx *commandContext, phase func() (host.Phase, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "remove [collider]",
		Short: "Stop playing the active collection on a collider",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := phase()
			if err != nil {
				return err
			}
			return ctx.mutate(cmd, func(session *engine.Session) error {
				collider, err := colliderArg(session, args)
				if err != nil {
					return err
				}
				if !session.Controller.RemoveTriggerAction(collider, p) {
					return fmt.Errorf("%s %s has no entry for %s", collider, p, session.Controller.Registry().Active().Name())
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %s entry for %s\n", collider, session.Controller.Registry().Active().Name())
				return nil
			})
		},
	}
}

func newTriggersFireCommand(ctx *commandContext, phase func() (host.Phase, error)) *cobra.Command {
	var noWait bool

	cmd := &cobra.Command{
		Use:   "fire [collider]",
		Short: "Fire a collider as if it was touched",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := phase()
			if err != nil {
				return err
			}
			return ctx.mutate(cmd, func(session *engine.Session) error {
				collider, err := colliderArg(session, args)
				if err != nil {
					return err
				}
				if err := session.Output.Start(); err != nil {
					return err
				}
				fired, err := session.Scene.FireTrigger(collider, p)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s ran %d actions\n", collider, p, fired)
				if noWait || fired == 0 {
					return nil
				}
				return drain(cmd.Context(), session)
			})
		},
	}
	cmd.Flags().BoolVar(&noWait, "no-wait", false, "Return without waiting for playback to finish")
	return cmd
}
