package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "unifind",
		Short: "UniFind campus marketplace and lost-and-found web client",
		Long: `UniFind serves the campus marketplace and lost-and-found pages.

All records live in the backend API; this process keeps signed-in sessions
in SQLite or Redis and renders HTML pages.

Settings come from flags, UNIFIND_* environment variables and a .env file.`,
		SilenceUsage: true,
		RunE:         runServe,
	}

	pf := root.PersistentFlags()
	pf.String("db-path", "unifind.sqlite3", "path to SQLite database file")
	pf.String("log-level", "info", "log level (debug, info, warn, error)")
	pf.String("log-format", "console", "log format (console or json)")
	pf.String("log-file", "", "also append logs to this file")

	addServeFlags(root)
	root.AddCommand(newServeCmd(), newSessionsCmd(), newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "unifind", version)
		},
	}
}
