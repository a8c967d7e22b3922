package main

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bookshelf",
		Short: "Personal library API with language model enrichment",
		Long: `Bookshelf serves a JSON API where users keep track of their books.

It can also ask a language model for a short reminder about a book and
list the books visible on a bookshelf photo, exporting them to CSV.

Configuration is read from the environment and from a .env file when present.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// .env is optional
			_ = godotenv.Load()
		},
	}

	cmd.AddCommand(
		newServeCmd(),
		newMigrateCmd(),
		newSessionsCmd(),
	)

	return cmd
}
