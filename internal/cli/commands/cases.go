package commands

import (
	"github.com/spf13/cobra"

	"tda/internal/config"
	"tda/internal/domain"
	"tda/internal/storage"
	"tda/internal/ui"
)

// CasesCommand handles the cases command
type CasesCommand struct {
	config    *config.Config
	storage   storage.Storage
	formatter *ui.Formatter
}

// NewCasesCommand creates a new CasesCommand
func NewCasesCommand(cfg *config.Config, st storage.Storage, formatter *ui.Formatter) *CasesCommand {
	return &CasesCommand{
		config:    cfg,
		storage:   st,
		formatter: formatter,
	}
}

// Execute prints the last persisted discovery, from the MySQL catalog when
// --mysql is set
func (cc *CasesCommand) Execute(cmd *cobra.Command, args []string) error {
	var (
		output *domain.DiscoveryOutput
		err    error
	)
	if cc.config.Flags.MySQL {
		store, openErr := storage.OpenMySQL(cc.config.GetDatabaseDSN())
		if openErr != nil {
			return openErr
		}
		defer store.Close()
		output, err = store.Load()
	} else {
		output, err = cc.storage.Load()
	}
	if err != nil {
		return err
	}

	cc.formatter.PrintCaseTree(output)
	return nil
}
