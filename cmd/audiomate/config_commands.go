package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"audiomate/internal/config"
	"audiomate/internal/textutil"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Create or check the configuration file",
	}
	cmd.AddCommand(newConfigInitCommand(), newConfigValidateCommand(ctx))
	return cmd
}

func newConfigInitCommand() *cobra.Command {
	var (
		targetPath string
		overwrite  bool
	)
	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Write a sample configuration file",
		Annotations: map[string]string{skipConfigLoad: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := initTarget(targetPath)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return fmt.Errorf("create config directory: %w", err)
			}
			if !overwrite {
				_, statErr := os.Stat(target)
				switch {
				case statErr == nil:
					return fmt.Errorf("%s already exists; pass --overwrite to replace it", target)
				case !errors.Is(statErr, fs.ErrNotExist):
					return fmt.Errorf("check config path: %w", statErr)
				}
			}
			if err := config.CreateSample(target); err != nil {
				return fmt.Errorf("write sample config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote sample configuration to %s\n", target)
			fmt.Fprintln(cmd.OutOrStdout(), "Declare scene atoms under [[host.atoms]] and drop sounds into sounds_dir.")
			return nil
		},
	}
	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Where to write the file (default: user config dir)")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace an existing file")
	return cmd
}

func initTarget(flagValue string) (string, error) {
	if target := strings.TrimSpace(flagValue); target != "" {
		return config.ExpandPath(target)
	}
	return config.DefaultConfigPath()
}

func newConfigValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "validate",
		Short:       "Load the configuration and describe the scene it declares",
		Annotations: map[string]string{skipConfigLoad: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, exists, err := config.Load(strings.TrimSpace(*ctx.configFlag))
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return fmt.Errorf("ensure directories: %w", err)
			}
			describeConfig(cmd.OutOrStdout(), cfg, path, exists)
			return nil
		},
	}
}

func describeConfig(out io.Writer, cfg *config.Config, path string, exists bool) {
	source := path
	if !exists {
		source += " (not found, using defaults)"
	}
	fmt.Fprintf(out, "Config path: %s\n", source)
	fmt.Fprintf(out, "Scene: %s, containing atom %s\n", cfg.Host.Scene, textutil.Choose(cfg.Host.ContainingAtom == "", "-", cfg.Host.ContainingAtom))
	if len(cfg.Host.Atoms) > 0 {
		rows := make([][]string, 0, len(cfg.Host.Atoms))
		for _, a := range cfg.Host.Atoms {
			rows = append(rows, []string{a.UID, a.Category, a.Type, strings.Join(a.Nodes, ", ")})
		}
		fmt.Fprint(out, renderTable([]string{"Atom", "Category", "Type", "Nodes"}, rows, nil))
		fmt.Fprintln(out)
	}
	fmt.Fprintln(out, "Configuration valid")
}
