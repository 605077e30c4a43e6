package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	var waitFlag bool

	ctx := newCommandContext(&configFlag, &waitFlag)

	rootCmd := &cobra.Command{
		Use:           "audiomate",
		Short:         "Random sound collections for scene triggers",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().BoolVar(&waitFlag, "wait", false, "Wait for another audiomate process to release the scene")

	rootCmd.AddCommand(newConfigCommand(ctx))
	rootCmd.AddCommand(newPreflightCommand(ctx))
	rootCmd.AddCommand(newLibraryCommand(ctx))
	rootCmd.AddCommand(newCollectionsCommand(ctx))
	rootCmd.AddCommand(newClipsCommand(ctx))
	rootCmd.AddCommand(newPlayCommand(ctx, false))
	rootCmd.AddCommand(newPlayCommand(ctx, true))
	rootCmd.AddCommand(newActionsCommand(ctx))
	rootCmd.AddCommand(newTriggersCommand(ctx))
	rootCmd.AddCommand(newRunCommand(ctx))

	return rootCmd
}
