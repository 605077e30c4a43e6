package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"audiomate/internal/engine"
)

func newActionsCommand(ctx *commandContext) *cobra.Command {
	actionsCmd := &cobra.Command{
		Use:   "actions",
		Short: "List and invoke the actions collections publish",
	}
	actionsCmd.AddCommand(newActionsListCommand(ctx))
	actionsCmd.AddCommand(newActionsInvokeCommand(ctx))
	return actionsCmd
}

func newActionsListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered actions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withSession(cmd, func(session *engine.Session) error {
				out := cmd.OutOrStdout()
				for _, name := range session.Scene.ActionNames() {
					fmt.Fprintln(out, name)
				}
				return nil
			})
		},
	}
}

func newActionsInvokeCommand(ctx *commandContext) *cobra.Command {
	var noWait bool

	cmd := &cobra.Command{
		Use:   "invoke <action>",
		Short: "Invoke an action by name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.mutate(cmd, func(session *engine.Session) error {
				if err := session.Output.Start(); err != nil {
					return err
				}
				if !session.Scene.InvokeAction(args[0]) {
					return fmt.Errorf("action %q is not registered (see `audiomate actions list`)", args[0])
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Invoked %s\n", args[0])
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
