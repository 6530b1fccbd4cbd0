// Delete command for the magbook CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var deleteCascade bool

var deleteCmd = &cobra.Command{
	Use:   "delete <table> <id>",
	Short: "Remove an entity by ID from a table",
	Long: `Delete removes a single entity. With --cascade, every transitive
descendant is removed as well, children before parents, in one transaction.

Example:
  magbook delete images 0198f2a2-...
  magbook delete sites 0198f2a3-... --cascade`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		tableName := args[0]
		entityID := args[1]

		backend, err := attachBackend()
		if err != nil {
			fmt.Fprintln(os.Stderr, "delete:", err)
			os.Exit(exitSysError)
		}
		defer backend.Detach()

		if deleteCascade {
			if err := backend.DeleteCascade(tableName, entityID); err != nil {
				if isTableNotFound(err) {
					fmt.Fprintf(os.Stderr, "unknown table %q (valid: %s)\n", tableName, validTableNamesStr)
					os.Exit(exitUserError)
				}
				if isEntityNotFound(err) {
					fmt.Fprintf(os.Stderr, "entity %q not found in table %q\n", entityID, tableName)
					os.Exit(exitUserError)
				}
				fmt.Fprintf(os.Stderr, "cascade delete: %s\n", err)
				os.Exit(exitSysError)
			}
			fmt.Printf("Deleted %s/%s and descendants\n", tableName, entityID)
			return nil
		}

		table, err := backend.GetTable(tableName)
		if err != nil {
			if isTableNotFound(err) {
				fmt.Fprintf(os.Stderr, "unknown table %q (valid: %s)\n", tableName, validTableNamesStr)
				os.Exit(exitUserError)
			}
			fmt.Fprintln(os.Stderr, "get table:", err)
			os.Exit(exitSysError)
		}

		if err := table.Delete(entityID); err != nil {
			fmt.Fprintf(os.Stderr, "delete entity: %s\n", err)
			os.Exit(exitSysError)
		}

		fmt.Printf("Deleted %s/%s\n", tableName, entityID)
		return nil
	},
}

func init() {
	deleteCmd.Flags().BoolVar(&deleteCascade, "cascade", false, "also delete all descendants")
}
