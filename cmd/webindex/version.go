// Version command for the webindex CLI.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/webindex/pkg/webindex"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the webindex version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("webindex", webindex.Version)
	},
}
