package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"riffmates/internal/models"
	"riffmates/internal/store"
)

func newVenuesCmd() *cobra.Command {
	var showRooms bool

	cmd := &cobra.Command{
		Use:   "venues",
		Short: "List registered venues",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			venues, err := store.New(db).ListVenues(cmd.Context(), "")
			if err != nil {
				return err
			}
			printVenues(cmd.OutOrStdout(), venues, showRooms)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&showRooms, "rooms", "r", false, "display rooms of each venue")
	return cmd
}

func printVenues(w io.Writer, venues []models.Venue, showRooms bool) {
	for _, v := range venues {
		fmt.Fprintln(w, v.Name)
		if !showRooms {
			continue
		}
		if len(v.Rooms) == 0 {
			fmt.Fprintln(w, "   (No rooms)")
			continue
		}
		for _, room := range v.Rooms {
			fmt.Fprintf(w, "   - %s\n", room.Name)
		}
	}
}
