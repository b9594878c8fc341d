package main

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"riffmates/internal/migrations"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "migrate up|down",
		Short:     "Apply or roll back the database schema",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down"},
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			switch args[0] {
			case "up":
				if err := migrations.Up(db); err != nil {
					return err
				}
				log.Info().Msg("migrations applied successfully")
			case "down":
				if err := migrations.Down(db); err != nil {
					return err
				}
				log.Info().Msg("migrations rolled back successfully")
			default:
				return fmt.Errorf("unknown direction %q", args[0])
			}
			return nil
		},
	}
}
