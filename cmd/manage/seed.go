package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"riffmates/internal/store"
)

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load demo musicians, bands, venues and promoters into an empty database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			seeded, err := store.New(db).SeedDemo(cmd.Context())
			if err != nil {
				return err
			}
			if !seeded {
				fmt.Fprintln(cmd.OutOrStdout(), "Musicians already exist; nothing seeded.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Demo data loaded.")
			return nil
		},
	}
}
