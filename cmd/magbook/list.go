// List command for the magbook CLI.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list <table> [field=value]",
	Short: "List entities with an optional equality filter",
	Long: `List prints entities from the specified table, ordered by creation time.

An optional filter restricts the result to rows whose field equals one of
the given values. Multiple values are separated by commas and ORed together.
Images additionally support the "tag" field, matching any listed tag.

Valid table names: organizations, sites, rooms, equipment, events, images, timelines

Example:
  magbook list equipment
  magbook list equipment status=active
  magbook list events status=scheduled,in_progress
  magbook list images tag=baseline`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		tableName := args[0]

		backend, err := attachBackend()
		if err != nil {
			fmt.Fprintln(os.Stderr, "list:", err)
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

		var entities []any
		if len(args) == 2 {
			parts := strings.SplitN(args[1], "=", 2)
			if len(parts) != 2 {
				fmt.Fprintf(os.Stderr, "invalid filter %q (expected field=value)\n", args[1])
				os.Exit(exitUserError)
			}
			entities, err = table.Where(parts[0], strings.Split(parts[1], ",")...)
		} else {
			entities, err = table.All()
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, "list entities:", err)
			os.Exit(exitUserError)
		}

		printJSON(entities)
		return nil
	},
}
