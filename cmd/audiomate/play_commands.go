package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"audiomate/internal/engine"
)

func newPlayCommand(ctx *commandContext, queueOnly bool) *cobra.Command {
	var noWait bool

	use, short := "play [collection]", "Play a random clip (from the active collection by default)"
	if queueOnly {
		use, short = "queue [collection]", "Queue a random clip (from the active collection by default)"
	}

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.mutate(cmd, func(session *engine.Session) error {
				if err := session.Output.Start(); err != nil {
					return err
				}
				reg := session.Controller.Registry()
				name := reg.Active().Name()
				var played bool
				if len(args) == 1 {
					name = args[0]
					if reg.Get(name) == nil {
						return fmt.Errorf("collection %q not found", name)
					}
					played = reg.PlayRandomIn(name, queueOnly)
				} else {
					played = reg.PlayRandomActive(queueOnly)
				}
				out := cmd.OutOrStdout()
				if !played {
					fmt.Fprintf(out, "%s played nothing (disabled, empty, unresolved receiver, or chance miss)\n", name)
					return nil
				}
				c := reg.Get(name)
				fmt.Fprintf(out, "%s: %s\n", name, c.Members()[c.LastPlayedIndex()].DisplayName())
				if noWait {
					return nil
				}
				return drain(cmd.Context(), session)
			})
		},
	}
	cmd.Flags().BoolVar(&noWait, "no-wait", false, "Return without waiting for playback to finish")
	return cmd
}

// drain ticks the session until every player is idle.
func drain(ctx context.Context, session *engine.Session) error {
	interval := time.Duration(session.Config.Engine.TickIntervalMS) * time.Millisecond
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for !session.Output.Idle() {
		if session.Output.Muted() {
			session.Tick(interval)
			continue
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			session.Tick(interval)
		}
	}
	return nil
}
