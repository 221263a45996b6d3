// Path command for the webindex CLI.
package main

import (
	"fmt"
	"net/url"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/webindex/pkg/domain"
	"github.com/mesh-intelligence/webindex/pkg/paths"
	"github.com/mesh-intelligence/webindex/pkg/query"
	"github.com/mesh-intelligence/webindex/pkg/types"
)

var pathCmd = &cobra.Command{
	Use:   "path <type> <url> <timestamp>",
	Short: "Compute the logical path of a record",
	Long: `Compute the partition a record lands in, from its kind (get, head,
get-metadata, head-metadata), target URL, and RFC 3339 capture time.`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := types.ParseRecordType(args[0])
		if err != nil {
			return err
		}
		target, err := url.Parse(args[1])
		if err != nil {
			return fmt.Errorf("url %q: %w", args[1], err)
		}
		captured, err := time.Parse(time.RFC3339, args[2])
		if err != nil {
			return fmt.Errorf("timestamp %q: %w", args[2], err)
		}

		logical, err := paths.Resolve(query.NewInsertionQuery(kind, target, captured), domain.NewExtractor())
		if err != nil {
			return err
		}

		fmt.Println(logical)
		return nil
	},
}
