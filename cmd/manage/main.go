// Command manage runs RiffMates maintenance tasks.
package main

import (
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"riffmates/internal/config"
	"riffmates/internal/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:           "manage",
		Short:         "RiffMates maintenance commands",
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.LoadEnvFiles()
			level := "info"
			if verbose {
				level = "debug"
			}
			logging.SetGlobalLogger(logging.New(logging.Config{
				Level:  level,
				Format: "text",
				Output: cmd.ErrOrStderr(),
			}))
			log.Debug().Str("command", cmd.Name()).Msg("starting")
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	root.AddCommand(
		newCleanupPicturesCmd(),
		newVenuesCmd(),
		newMigrateCmd(),
		newCreateUserCmd(),
		newSeedCmd(),
	)
	return root
}
