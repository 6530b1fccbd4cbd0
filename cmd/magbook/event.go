// Event lifecycle commands for the magbook CLI.
package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/coilworks/magbook/pkg/types"
)

var eventCmd = &cobra.Command{
	Use:   "event",
	Short: "Move an event through its lifecycle",
}

var eventStartCmd = &cobra.Command{
	Use:   "start <id>",
	Short: "Start a scheduled event",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		transitionEvent(args[0], func(e *types.Event) error {
			return e.Start(time.Now().UTC())
		}, func(e *types.Event) map[string]any {
			return map[string]any{"status": e.Status, "started_at": e.StartedAt}
		})
		return nil
	},
}

var eventCompleteCmd = &cobra.Command{
	Use:   "complete <id>",
	Short: "Complete an in-progress event",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		transitionEvent(args[0], func(e *types.Event) error {
			if eventFindings != "" {
				e.Findings = eventFindings
			}
			return e.Complete(time.Now().UTC())
		}, func(e *types.Event) map[string]any {
			return map[string]any{
				"status": e.Status, "completed_at": e.CompletedAt,
				"findings": e.Findings,
			}
		})
		return nil
	},
}

var eventCancelCmd = &cobra.Command{
	Use:   "cancel <id>",
	Short: "Cancel an event",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		transitionEvent(args[0], func(e *types.Event) error {
			return e.Cancel()
		}, func(e *types.Event) map[string]any {
			return map[string]any{"status": e.Status}
		})
		return nil
	},
}

var eventFindings string

// transitionEvent loads the event, applies the transition, and persists
// the changed fields.
func transitionEvent(eventID string, apply func(*types.Event) error, changed func(*types.Event) map[string]any) {
	backend, err := attachBackend()
	if err != nil {
		fmt.Fprintln(os.Stderr, "event:", err)
		os.Exit(exitSysError)
	}
	defer backend.Detach()

	table, err := backend.GetTable(types.EventsTable)
	if err != nil {
		fmt.Fprintln(os.Stderr, "get table:", err)
		os.Exit(exitSysError)
	}

	entity, err := table.Get(eventID)
	if err != nil {
		if isEntityNotFound(err) {
			fmt.Fprintf(os.Stderr, "event %q not found\n", eventID)
			os.Exit(exitUserError)
		}
		fmt.Fprintln(os.Stderr, "get event:", err)
		os.Exit(exitSysError)
	}
	event := entity.(*types.Event)

	if err := apply(event); err != nil {
		if errors.Is(err, types.ErrInvalidTransition) {
			fmt.Fprintf(os.Stderr, "event %q cannot transition from status %q\n", eventID, event.Status)
			os.Exit(exitUserError)
		}
		fmt.Fprintln(os.Stderr, "transition event:", err)
		os.Exit(exitUserError)
	}

	if err := table.Update(eventID, changed(event)); err != nil {
		fmt.Fprintln(os.Stderr, "update event:", err)
		os.Exit(exitSysError)
	}

	if flagJSON {
		result, err := table.Get(eventID)
		if err != nil {
			fmt.Fprintln(os.Stderr, "get updated event:", err)
			os.Exit(exitSysError)
		}
		printJSON(result)
	} else {
		fmt.Printf("Event %s is now %s\n", eventID, event.Status)
	}
}

func init() {
	eventCompleteCmd.Flags().StringVar(&eventFindings, "findings", "", "findings to record on completion")

	eventCmd.AddCommand(eventStartCmd)
	eventCmd.AddCommand(eventCompleteCmd)
	eventCmd.AddCommand(eventCancelCmd)
}
