package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"tda/internal/cli"
	"tda/internal/cli/commands"
	"tda/internal/config"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	// Create root command
	rootCmd := &cobra.Command{
		Use:     "tda",
		Short:   "Test discovery adapter for compiled test binaries",
		Long:    `Discovers the unit tests contained in compiled test binaries by exploring them with an external test engine, and records each test case for the host test platform.`,
		Version: version,
	}

	// Create initial config with defaults
	cfg := config.New()

	// Create flags struct (will be populated by command flags)
	var flags cli.Flags

	// Create commands with dependencies
	cmds := commands.NewCommands(cfg, version)

	// Register all commands
	cmds.Register(rootCmd, &flags, cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Execute root command
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
