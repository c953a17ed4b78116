package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"gitlab.com/dirk.krummacker/contacts-book/internal/config"
	"gitlab.com/dirk.krummacker/contacts-book/internal/logger"
	"gitlab.com/dirk.krummacker/contacts-book/internal/shell"
	"gitlab.com/dirk.krummacker/contacts-book/internal/storage"
)

// Usage example on the command line:
// > go run main.go
// > CONTACTS_FILE=/tmp/book.bin LOG_LEVEL=info go run main.go
func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd builds the contacts command, which runs the interactive shell.
func newRootCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "contacts",
		Short: "Interactive contact book",
		Long: `contacts keeps names, phone numbers and birthdays.

Commands are read line by line: hello, add, change, phone, all, birthdays,
add-birthday, show-birthday, delete, remove-phone, close and exit.
The book is loaded on start and saved on exit.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runShell(cmd, configPath)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "contacts.yaml", "configuration file (optional)")
	return cmd
}

// runShell wires configuration, logging and storage, then runs the shell on the command's input
// and output.
func runShell(cmd *cobra.Command, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	log, err := logger.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer log.Sync()

	ctx := cmd.Context()
	gateway, err := storage.Open(ctx, cfg.Storage)
	if err != nil {
		log.Error("could not open storage", zap.String("backend", cfg.Storage.Backend), zap.Error(err))
		return err
	}
	defer gateway.Close()

	return shell.New(gateway, shell.WithLogger(log)).Run(ctx, cmd.InOrStdin(), cmd.OutOrStdout())
}
