// Wipe command for the magbook CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var wipeForce bool

var wipeCmd = &cobra.Command{
	Use:   "wipe",
	Short: "Remove all stored data",
	Long: `Wipe deletes the store file and reopens an empty store at the latest
schema version. Requires --force.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !wipeForce {
			fmt.Fprintln(os.Stderr, "wipe: refusing to delete data without --force")
			os.Exit(exitUserError)
		}

		backend, err := attachBackend()
		if err != nil {
			fmt.Fprintln(os.Stderr, "wipe:", err)
			os.Exit(exitSysError)
		}
		defer backend.Detach()

		if err := backend.Wipe(); err != nil {
			fmt.Fprintln(os.Stderr, "wipe:", err)
			os.Exit(exitSysError)
		}

		fmt.Println("Store wiped")
		return nil
	},
}

func init() {
	wipeCmd.Flags().BoolVar(&wipeForce, "force", false, "confirm deletion of all data")
}
