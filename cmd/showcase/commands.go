package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/LISSConsulting/LISSTech.Showcase/internal/config"
	"github.com/LISSConsulting/LISSTech.Showcase/internal/script"
)

func playCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "play [demo...]",
		Short: "Play demos in the TUI, or headless with --no-tui",
		Long: `Play one or more demos.

With no arguments the TUI opens on the first demo and every demo is a tab.
Headless mode (--no-tui) prints each revealed line to stdout; several demos
play concurrently, and --all plays every demo.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			noTUI, _ := cmd.Flags().GetBool("no-tui")
			passes, _ := cmd.Flags().GetInt("passes")
			all, _ := cmd.Flags().GetBool("all")

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			demos, err := loadDemos(cfg)
			if err != nil {
				return err
			}

			if noTUI {
				selected, selErr := selectDemos(demos, args, all)
				if selErr != nil {
					return selErr
				}
				if passes > 0 {
					cfg.Playback.MaxPasses = passes
				}
				registerQuitHandler()
				return executeHeadless(cfg, selected)
			}

			active := 0
			if len(args) > 0 {
				idx, ok := demoIndex(demos, args[0])
				if !ok {
					return unknownDemoError(demos, args[0])
				}
				active = idx
			}
			return executeTUI(cfg, demos, active)
		},
	}
	cmd.Flags().Bool("no-tui", false, "play headless, printing lines to stdout")
	cmd.Flags().Int("passes", 0, "headless: stop after N passes (0 = use config)")
	cmd.Flags().Bool("all", false, "headless: play every demo concurrently")
	return cmd
}

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List available demos",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			demos, err := loadDemos(cfg)
			if err != nil {
				return err
			}
			return listDemos(cmd.OutOrStdout(), demos)
		},
	}
}

func paceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pace <category> <text...>",
		Short: "Sample the delay calculator for a line",
		Long: `Sample the reveal delay for a line of the given category
(prompt, status, warning, success, plain) using the configured pacing.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			samples, _ := cmd.Flags().GetInt("samples")
			if samples < 1 {
				return fmt.Errorf("--samples must be >= 1")
			}
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			line := script.Line{
				Category: script.ParseCategory(args[0]),
				Text:     strings.Join(args[1:], " "),
			}
			return paceSamples(cmd.OutOrStdout(), newCalculator(cfg, nil), line, samples)
		},
	}
	cmd.Flags().Int("samples", 1000, "number of delays to sample")
	return cmd
}

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Scaffold showcase.toml and an example demo",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("get working directory: %w", err)
			}
			created, err := config.ScaffoldProject(dir)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(created) == 0 {
				fmt.Fprintln(out, "All files already exist — nothing to create.")
				return nil
			}
			for _, path := range created {
				fmt.Fprintf(out, "Created %s\n", path)
			}
			return nil
		},
	}
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the state of the current or last playback",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return showStatus(cmd.OutOrStdout(), cfg.Dir)
		},
	}
}

func historyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "Show the passes recorded in the newest session log",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return showHistory(cmd.OutOrStdout(), cfg.Resolve(cfg.History.Dir))
		},
	}
}
