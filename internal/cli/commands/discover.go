package commands

import (
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"tda/internal/config"
	"tda/internal/discovery"
	"tda/internal/engine"
	"tda/internal/logging"
	"tda/internal/sink"
	"tda/internal/storage"
	"tda/internal/ui"
)

// DiscoverCommand handles the discover command
type DiscoverCommand struct {
	config    *config.Config
	scanner   *discovery.Scanner
	filter    *discovery.Filter
	storage   storage.Storage
	formatter *ui.Formatter
	version   string
}

// NewDiscoverCommand creates a new DiscoverCommand
func NewDiscoverCommand(
	cfg *config.Config,
	scanner *discovery.Scanner,
	filter *discovery.Filter,
	st storage.Storage,
	formatter *ui.Formatter,
	version string,
) *DiscoverCommand {
	return &DiscoverCommand{
		config:    cfg,
		scanner:   scanner,
		filter:    filter,
		storage:   st,
		formatter: formatter,
		version:   version,
	}
}

// Execute runs the command
func (dc *DiscoverCommand) Execute(cmd *cobra.Command, args []string) error {
	sources, err := resolveSources(dc.config, dc.scanner, dc.filter, args)
	if err != nil {
		return err
	}
	if len(sources) == 0 {
		color.Yellow("No test binaries to explore")
		return nil
	}

	settings := dc.config.Settings
	logger := logging.NewTestLogger(logging.New(logging.Config{
		Level:  logging.LevelForVerbosity(settings.Verbosity),
		Pretty: true,
		Output: cmd.ErrOrStderr(),
	}))
	logger.Debug(fmt.Sprintf("Random seed for this run: %d", settings.Seed()))

	registry := engine.NewRegistry(settings.SessionRoot)
	factory := engine.NewProcessFactory(settings.Explorer.Command, settings.Explorer.Args, registry)
	discoverer := discovery.NewDiscoverer(factory, registry, dc.version)
	if dc.config.Flags.Progress {
		discoverer.SetProgress(ui.NewProgressBar(len(sources)))
	}

	collector := sink.NewCollector()
	var reporter sink.Sink = collector
	if dc.config.Flags.ShowCases {
		reporter = sink.Multi{collector, sink.NewConsole(cmd.OutOrStdout())}
	}

	start := time.Now()
	discoverer.DiscoverTests(cmd.Context(), sources, settings, logger, reporter)
	output := storage.NewOutput(dc.version, collector.Cases(), len(sources), time.Since(start))

	if !dc.config.Flags.NoSave {
		if err := dc.storage.Save(output); err != nil {
			return fmt.Errorf("failed to save discovery output: %w", err)
		}
	}

	if dc.config.Flags.MySQL {
		store, err := storage.OpenMySQL(dc.config.GetDatabaseDSN())
		if err != nil {
			return err
		}
		defer store.Close()
		if err := store.Save(output); err != nil {
			return fmt.Errorf("failed to catalog discovered cases: %w", err)
		}
	}

	dc.formatter.PrintMetaStats(output)
	return nil
}

// resolveSources returns the explicit binaries from args, or scans the
// configured test path, then applies the name filter
func resolveSources(cfg *config.Config, scanner *discovery.Scanner, filter *discovery.Filter, args []string) ([]string, error) {
	sources := args
	if len(sources) == 0 {
		scanned, err := scanner.Scan(cfg.GetTestPath())
		if err != nil {
			return nil, err
		}
		sources = scanned
	}
	return filter.FilterByName(sources, cfg.Flags.NameFilter), nil
}
