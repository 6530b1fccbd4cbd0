// Snapshot and restore commands for the magbook CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot <dir>",
	Short: "Export the store to JSONL files",
	Long: `Snapshot writes every table to <table>.jsonl files under the given
directory. The files are plain text and safe to keep under version control.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		backend, err := attachBackend()
		if err != nil {
			fmt.Fprintln(os.Stderr, "snapshot:", err)
			os.Exit(exitSysError)
		}
		defer backend.Detach()

		if err := backend.Snapshot(args[0]); err != nil {
			fmt.Fprintln(os.Stderr, "snapshot:", err)
			os.Exit(exitSysError)
		}

		fmt.Println("Snapshot written to", args[0])
		return nil
	},
}

var restoreCmd = &cobra.Command{
	Use:   "restore <dir>",
	Short: "Replace the store contents from JSONL files",
	Long: `Restore loads <table>.jsonl files from the given directory, replacing
the current store contents. Loading is transactional: all tables load or
the store is left untouched.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		backend, err := attachBackend()
		if err != nil {
			fmt.Fprintln(os.Stderr, "restore:", err)
			os.Exit(exitSysError)
		}
		defer backend.Detach()

		if err := backend.Restore(args[0]); err != nil {
			fmt.Fprintln(os.Stderr, "restore:", err)
			os.Exit(exitSysError)
		}

		fmt.Println("Store restored from", args[0])
		return nil
	},
}
