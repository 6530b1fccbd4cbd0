// Show command for the magbook CLI: composite reads of a parent entity
// with its immediate children.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <level> <id>",
	Short: "Display an entity with its children",
	Long: `Show fetches an entity together with its immediate children.

Levels: organization, site, room, equipment, event

Example:
  magbook show site 0198f2a3-...
  magbook show event 0198f2a1-...`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		level := args[0]
		entityID := args[1]

		backend, err := attachBackend()
		if err != nil {
			fmt.Fprintln(os.Stderr, "show:", err)
			os.Exit(exitSysError)
		}
		defer backend.Detach()

		// An absent parent yields a nil result, not an error.
		var result any
		switch level {
		case "organization":
			v, err := backend.GetOrganizationWithSites(entityID)
			exitOnShowError(err)
			if v != nil {
				result = v
			}
		case "site":
			v, err := backend.GetSiteWithRooms(entityID)
			exitOnShowError(err)
			if v != nil {
				result = v
			}
		case "room":
			v, err := backend.GetRoomWithEquipment(entityID)
			exitOnShowError(err)
			if v != nil {
				result = v
			}
		case "equipment":
			v, err := backend.GetEquipmentWithEvents(entityID)
			exitOnShowError(err)
			if v != nil {
				result = v
			}
		case "event":
			v, err := backend.GetEventWithImages(entityID)
			exitOnShowError(err)
			if v != nil {
				result = v
			}
		default:
			fmt.Fprintf(os.Stderr, "unknown level %q (valid: organization, site, room, equipment, event)\n", level)
			os.Exit(exitUserError)
		}

		if result == nil {
			fmt.Fprintf(os.Stderr, "%s %q not found\n", level, entityID)
			os.Exit(exitUserError)
		}

		printJSON(result)
		return nil
	},
}

func exitOnShowError(err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, "show:", err)
		os.Exit(exitSysError)
	}
}
