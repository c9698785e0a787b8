// Package main is the entry point for the showcase CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "showcase",
		Short:         "Showcase — scripted terminal demo player",
		Version:       version,
		SilenceUsage:  true,
	}
	root.PersistentFlags().String("config", "", "path to showcase.toml (default: search upward from the working directory)")

	root.AddCommand(
		playCmd(),
		listCmd(),
		paceCmd(),
		initCmd(),
		statusCmd(),
		historyCmd(),
	)

	return root
}

// signalContext returns a context that is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
