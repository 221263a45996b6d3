// Decode command for the webindex CLI.
package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/webindex/pkg/query"
)

var decodeCmd = &cobra.Command{
	Use:   "decode <uri>",
	Short: "Parse a query URI and print its variant and fields",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		q, err := query.Decode(args[0])
		if err != nil {
			return err
		}

		switch q := q.(type) {
		case query.Deterministic:
			fmt.Println("variant: deterministic")
			fmt.Println("type:", q.Type)
			fmt.Println("url:", q.URL)
			fmt.Println("timestamp:", q.Timestamp.Format(time.RFC3339))
			fmt.Println("request_id:", q.RequestID)
		case query.TimeBounded:
			fmt.Println("variant: time-bounded")
			fmt.Println("type:", q.Type)
			fmt.Println("url:", q.URL)
			fmt.Println("not_before:", q.NotBefore.Format(time.RFC3339))
			fmt.Println("not_after:", q.NotAfter.Format(time.RFC3339))
			fmt.Println("calibre:", q.Calibre)
			fmt.Println("calibre_strict:", q.CalibreStrict)
		case query.Simple:
			fmt.Println("variant: simple")
			fmt.Println("type:", q.Type)
			fmt.Println("url:", q.URL)
			fmt.Println("calibre:", q.Calibre)
			fmt.Println("calibre_strict:", q.CalibreStrict)
		}
		return nil
	},
}
