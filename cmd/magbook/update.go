// Update command for the magbook CLI.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/coilworks/magbook/pkg/types"
)

var updateCmd = &cobra.Command{
	Use:   "update <table> <id> <field=value>...",
	Short: "Update entity fields",
	Long: `Update applies a partial field update to an entity. Unnamed fields keep
their current values; updated_at is always refreshed.

Example:
  magbook update equipment 0198f2a0-... status=inactive
  magbook update events 0198f2a1-... title="Annual calibration"`,
	Args: cobra.MinimumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		tableName := args[0]
		entityID := args[1]

		fields, err := parseFieldArgs(args[2:])
		if err != nil {
			fmt.Fprintln(os.Stderr, "update:", err)
			os.Exit(exitUserError)
		}

		backend, err := attachBackend()
		if err != nil {
			fmt.Fprintln(os.Stderr, "update:", err)
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

		if err := table.Update(entityID, fields); err != nil {
			if isEntityNotFound(err) {
				fmt.Fprintf(os.Stderr, "entity %q not found in table %q\n", entityID, tableName)
				os.Exit(exitUserError)
			}
			if errors.Is(err, types.ErrInvalidField) {
				fmt.Fprintf(os.Stderr, "update: %s\n", err)
				os.Exit(exitUserError)
			}
			fmt.Fprintln(os.Stderr, "update entity:", err)
			os.Exit(exitSysError)
		}

		if flagJSON {
			entity, err := table.Get(entityID)
			if err != nil {
				fmt.Fprintln(os.Stderr, "get updated entity:", err)
				os.Exit(exitSysError)
			}
			printJSON(entity)
		} else {
			fmt.Printf("Updated %s/%s\n", tableName, entityID)
		}
		return nil
	},
}
