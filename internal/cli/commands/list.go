package commands

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"tda/internal/config"
	"tda/internal/discovery"
)

// ListCommand handles the list command
type ListCommand struct {
	config  *config.Config
	scanner *discovery.Scanner
	filter  *discovery.Filter
}

// NewListCommand creates a new ListCommand
func NewListCommand(cfg *config.Config, scanner *discovery.Scanner, filter *discovery.Filter) *ListCommand {
	return &ListCommand{
		config:  cfg,
		scanner: scanner,
		filter:  filter,
	}
}

// Execute runs the command
func (lc *ListCommand) Execute(cmd *cobra.Command, args []string) error {
	sources, err := resolveSources(lc.config, lc.scanner, lc.filter, args)
	if err != nil {
		return err
	}

	if len(sources) == 0 {
		color.Yellow("No test binaries found")
		return nil
	}

	out := cmd.OutOrStdout()
	color.New(color.FgGreen).Fprintf(out, "Found %d test binary(ies):\n", len(sources))
	for i, source := range sources {
		branch := "├── "
		if i == len(sources)-1 {
			branch = "└── "
		}
		color.New(color.FgCyan).Fprintf(out, "%s%s\n", branch, source)
	}
	return nil
}
