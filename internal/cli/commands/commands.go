package commands

import (
	"os"

	"tda/internal/cli"
	"tda/internal/config"
	"tda/internal/discovery"
	"tda/internal/storage"
	"tda/internal/ui"

	"github.com/spf13/cobra"
)

// Commands holds all CLI commands
type Commands struct {
	Discover *DiscoverCommand
	List     *ListCommand
	Cases    *CasesCommand
}

// NewCommands creates all commands with dependencies
func NewCommands(cfg *config.Config, version string) *Commands {
	// Initialize dependencies
	scanner := discovery.NewScanner(cfg.PathsToIgnore)
	filter := discovery.NewFilter()
	jsonStorage := storage.NewJSONStorage(cfg)
	formatter := ui.NewFormatter(cfg, os.Stdout)

	return &Commands{
		Discover: NewDiscoverCommand(cfg, scanner, filter, jsonStorage, formatter, version),
		List:     NewListCommand(cfg, scanner, filter),
		Cases:    NewCasesCommand(cfg, jsonStorage, formatter),
	}
}

// loadConfig reloads cfg in place from flags, the .env file and the
// run-settings file
func loadConfig(cfg *config.Config, flags *cli.Flags) error {
	loaded, err := config.Load(flags.ToConfigFlags())
	if err != nil {
		return err
	}
	*cfg = *loaded
	return nil
}

// Register registers all commands with cobra
func (c *Commands) Register(rootCmd *cobra.Command, flags *cli.Flags, cfg *config.Config) {
	preRun := func(cmd *cobra.Command, args []string) error {
		return loadConfig(cfg, flags)
	}

	rootCmd.PersistentFlags().StringVarP(&flags.SettingsFile, "settings", "s", "", "Run-settings YAML file (default "+config.DefaultSettingsFile+" in the project)")
	rootCmd.PersistentFlags().IntVarP(&flags.Verbosity, "verbosity", "v", -1, "Override run-settings verbosity (1 or more enables debug output)")
	rootCmd.PersistentFlags().BoolVar(&flags.MySQL, "mysql", false, "Use the MySQL discovered-case catalog (DB_* environment variables)")

	// Discover command
	discoverCmd := &cobra.Command{
		Use:     "discover [binary...]",
		Short:   "Discover test cases in compiled test binaries",
		Long:    "Explore each test binary with the test engine and record every test case it contains, without running them",
		RunE:    c.Discover.Execute,
		PreRunE: preRun,
	}
	discoverCmd.Flags().StringVarP(&flags.TestPath, "test-path", "t", "", "Folder scanned for .dll/.exe binaries when none are given")
	discoverCmd.Flags().StringVarP(&flags.NameFilter, "filter", "f", "", "Filter binaries by name pattern (supports wildcards, e.g., '*.Tests.dll' or '*Payment*')")
	discoverCmd.Flags().BoolVar(&flags.NoSave, "no-save", false, "Do not write the discovery output JSON file")
	discoverCmd.Flags().BoolVarP(&flags.Progress, "progress", "p", false, "Show a progress bar across binaries")
	discoverCmd.Flags().BoolVarP(&flags.ShowCases, "print", "c", false, "Print each test case as it is discovered")
	rootCmd.AddCommand(discoverCmd)

	// List command
	listCmd := &cobra.Command{
		Use:     "list [binary...]",
		Short:   "List candidate test binaries",
		Long:    "Scan and list the binaries discover would explore, without loading them",
		RunE:    c.List.Execute,
		PreRunE: preRun,
	}
	listCmd.Flags().StringVarP(&flags.TestPath, "test-path", "t", "", "Folder scanned for .dll/.exe binaries when none are given")
	listCmd.Flags().StringVarP(&flags.NameFilter, "filter", "f", "", "Filter binaries by name pattern (supports wildcards, e.g., '*.Tests.dll' or '*Payment*')")
	rootCmd.AddCommand(listCmd)

	// Cases command
	casesCmd := &cobra.Command{
		Use:     "cases",
		Short:   "Show the last discovered test cases",
		Long:    "Display the test cases recorded by the last discover run",
		RunE:    c.Cases.Execute,
		PreRunE: preRun,
	}
	rootCmd.AddCommand(casesCmd)
}
