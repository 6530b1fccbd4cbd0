// Version command for the magbook CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/coilworks/magbook/pkg/magbook"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the magbook version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("magbook", magbook.Version)
	},
}
