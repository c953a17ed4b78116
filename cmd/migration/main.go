package main

import (
	"os"

	"github.com/spf13/cobra"

	"gitlab.com/dirk.krummacker/contacts-book/internal/config"
	"gitlab.com/dirk.krummacker/contacts-book/internal/storage"
)

// Usage example on the command line:
// > CONTACTS_STORAGE=mysql DBHOST=localhost DBUSER=dirk DBPWD=bullo92 go run main.go --file=../../scripts/database.sql
func main() {
	if err := newMigrationCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newMigrationCmd() *cobra.Command {
	var file, configPath string
	cmd := &cobra.Command{
		Use:          "migration",
		Short:        "Execute an SQL script against the configured contacts database",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			return migrate(cmd, cfg.Storage, file)
		},
	}
	cmd.Flags().StringVar(&file, "file", "scripts/database.sql", "the sql file to execute")
	cmd.Flags().StringVar(&configPath, "config", "contacts.yaml", "configuration file (optional)")
	return cmd
}

// migrate runs every statement of the script file on the database selected by cfg.
func migrate(cmd *cobra.Command, cfg config.StorageConfig, file string) error {
	if cfg.Backend == config.BackendFile {
		cmd.PrintErrln("the file backend has no database to migrate")
		return nil
	}
	gateway, err := storage.OpenSQL(cfg.Backend, cfg.DataSourceName())
	if err != nil {
		return err
	}
	defer gateway.Close()

	readFile, err := os.Open(file) // nosemgrep
	if err != nil {
		return err
	}
	defer readFile.Close()

	return gateway.Exec(cmd.Context(), readFile)
}
