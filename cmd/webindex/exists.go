// Exists command for the webindex CLI.
package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/webindex/internal/manifest"
	"github.com/mesh-intelligence/webindex/internal/store"
	"github.com/mesh-intelligence/webindex/pkg/query"
)

var existsCmd = &cobra.Command{
	Use:   "exists <uri>...",
	Short: "Check whether records matching the query URIs are stored",
	Long: `Check each query URI against the store. Prints true or false per
query, or unknown when the store cannot decide (a deterministic query whose
request id was journaled by another writer).`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		queries := make([]query.Query, len(args))
		for i, arg := range args {
			q, err := query.Decode(arg)
			if err != nil {
				return err
			}
			queries[i] = q
		}

		s, cleanup, err := openStore()
		if err != nil {
			return err
		}
		defer cleanup()

		answers, err := s.Exists(cmd.Context(), queries)
		if err != nil {
			return err
		}

		for i, answer := range answers {
			if answer == nil {
				fmt.Println(args[i], "unknown")
				continue
			}
			fmt.Println(args[i], *answer)
		}
		return nil
	},
}

// openStore builds the store from the loaded config, attaching the upload
// journal when one is configured. The returned cleanup closes the journal.
func openStore() (*store.Store, func() error, error) {
	cfg := store.Config{
		Endpoint:  config.GetString(cfgKeyEndpoint),
		Bucket:    config.GetString(cfgKeyBucket),
		AccessKey: config.GetString(cfgKeyAccessKey),
		SecretKey: config.GetString(cfgKeySecretKey),
		Region:    config.GetString(cfgKeyRegion),
		UseSSL:    config.GetBool(cfgKeyUseSSL),
	}

	opts := []store.Option{}
	cleanup := func() error { return nil }
	if dir := config.GetString(cfgKeyManifestDir); dir != "" {
		m, err := manifest.Open(dir)
		if err != nil {
			return nil, nil, err
		}
		opts = append(opts, store.WithManifest(m))
		cleanup = m.Close
	}

	s, err := store.New(cfg, opts...)
	if err != nil {
		return nil, nil, errors.Join(err, cleanup())
	}
	return s, cleanup, nil
}
