package cmd

import (
	"github.com/parley-chat/parley-services/db"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "init-db-migrate",
	Short: "Initialize tables and run database migrations",
	Long:  `This job ensures tables exist and then runs goose migrations.`,
	Run: func(cmd *cobra.Command, args []string) {
		commonSetUp()
		defer store.Close()

		chatDB, ok := store.(*db.ChatDB)
		if !ok {
			log.Fatal().Str("driver", appCfg.Database.Driver).Msg("Migrations need the postgres driver")
		}

		// Run the migrations
		log.Info().Msgf("Running migrations...")
		if err := chatDB.Migrate(); err != nil {
			log.Fatal().Err(err).Msg("Failed to run migrations")
		}

		log.Info().Msg("Migrations complete")
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
