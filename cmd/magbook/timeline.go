// Timeline commands for the magbook CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/coilworks/magbook/pkg/types"
)

var timelineCmd = &cobra.Command{
	Use:   "timeline",
	Short: "Manage event timelines",
}

var timelineAppendCmd = &cobra.Command{
	Use:   "append <timeline-id> <image-id>",
	Short: "Append an image to a timeline",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		editTimeline(args[0], func(t *types.Timeline) {
			t.AppendImage(args[1])
		})
		return nil
	},
}

var timelineRemoveCmd = &cobra.Command{
	Use:   "remove <timeline-id> <image-id>",
	Short: "Remove an image from a timeline",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		editTimeline(args[0], func(t *types.Timeline) {
			t.RemoveImage(args[1])
		})
		return nil
	},
}

// editTimeline loads the timeline, applies the edit, and persists the
// image list.
func editTimeline(timelineID string, apply func(*types.Timeline)) {
	backend, err := attachBackend()
	if err != nil {
		fmt.Fprintln(os.Stderr, "timeline:", err)
		os.Exit(exitSysError)
	}
	defer backend.Detach()

	table, err := backend.GetTable(types.TimelinesTable)
	if err != nil {
		fmt.Fprintln(os.Stderr, "get table:", err)
		os.Exit(exitSysError)
	}

	entity, err := table.Get(timelineID)
	if err != nil {
		if isEntityNotFound(err) {
			fmt.Fprintf(os.Stderr, "timeline %q not found\n", timelineID)
			os.Exit(exitUserError)
		}
		fmt.Fprintln(os.Stderr, "get timeline:", err)
		os.Exit(exitSysError)
	}
	timeline := entity.(*types.Timeline)

	apply(timeline)

	if err := table.Update(timelineID, map[string]any{"image_ids": timeline.ImageIDs}); err != nil {
		fmt.Fprintln(os.Stderr, "update timeline:", err)
		os.Exit(exitSysError)
	}

	if flagJSON {
		result, err := table.Get(timelineID)
		if err != nil {
			fmt.Fprintln(os.Stderr, "get updated timeline:", err)
			os.Exit(exitSysError)
		}
		printJSON(result)
	} else {
		fmt.Printf("Timeline %s has %d images\n", timelineID, len(timeline.ImageIDs))
	}
}

func init() {
	timelineCmd.AddCommand(timelineAppendCmd)
	timelineCmd.AddCommand(timelineRemoveCmd)
}
