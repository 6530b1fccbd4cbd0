// Get command for the magbook CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:   "get <table> <id>",
	Short: "Get an entity by ID",
	Long: `Get retrieves an entity from the specified table by its ID.

Valid table names: organizations, sites, rooms, equipment, events, images, timelines

Example:
  magbook get equipment 0198f2a0-...
  magbook get events 0198f2a1-...`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		tableName := args[0]
		entityID := args[1]

		backend, err := attachBackend()
		if err != nil {
			fmt.Fprintln(os.Stderr, "get:", err)
			os.Exit(exitSysError)
		}
		defer backend.Detach()

		table, err := backend.GetTable(tableName)
		if err != nil {
			if isTableNotFound(err) {
				fmt.Fprintf(os.Stderr, "unknown table %q (valid: %s)\n", tableName, validTableNamesStr)
				os.Exit(exitUserError)
			}
			fmt.Fprintln(os.Stderr, "get table:", err)
			os.Exit(exitSysError)
		}

		entity, err := table.Get(entityID)
		if err != nil {
			if isEntityNotFound(err) {
				fmt.Fprintf(os.Stderr, "entity %q not found in table %q\n", entityID, tableName)
				os.Exit(exitUserError)
			}
			fmt.Fprintln(os.Stderr, "get entity:", err)
			os.Exit(exitSysError)
		}

		printJSON(entity)
		return nil
	},
}
