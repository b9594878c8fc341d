package main

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"riffmates/internal/app/accounts"
	"riffmates/internal/events"
	"riffmates/internal/models"
	"riffmates/internal/store"
)

func newCreateUserCmd() *cobra.Command {
	var (
		acct models.NewAccount
		raw  bool
	)

	cmd := &cobra.Command{
		Use:   "createuser <username>",
		Short: "Create an account, optionally with staff or superuser rights",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			acct.Username = args[0]
			if acct.Password == "" {
				return errors.New("--password is required")
			}

			db, err := openDB(cmd.Context())
			if err != nil {
				return err
			}
			defer db.Close()

			dataStore := store.New(db)
			bus := events.NewBus()
			events.Register(bus, dataStore)

			user, err := accounts.New(dataStore, bus).CreateUser(cmd.Context(), acct, raw)
			if err != nil {
				return err
			}
			log.Info().Int64("user_id", user.ID).Str("username", user.Username).
				Bool("staff", user.IsStaff).Bool("superuser", user.IsSuperuser).
				Msg("user created")
			fmt.Fprintf(cmd.OutOrStdout(), "Created user %s (id %d)\n", user.Username, user.ID)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&acct.Password, "password", "", "account password")
	f.StringVar(&acct.Email, "email", "", "email address")
	f.BoolVar(&acct.IsStaff, "staff", false, "grant staff rights")
	f.BoolVar(&acct.IsSuperuser, "superuser", false, "grant superuser rights")
	f.BoolVar(&raw, "raw", false, "skip profile provisioning")
	return cmd
}
