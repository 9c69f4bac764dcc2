package cmd

import (
	"context"
	"os"

	"github.com/parley-chat/parley-services/models"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var adminUser models.User

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create a system admin account",
	Long:  `Creates a system admin. The password is read from PARLEY_ADMIN_PASSWORD when --password is not given.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		commonSetUp()
		defer store.Close()

		a := newApp(ctx)

		if adminUser.Password == "" {
			adminUser.Password = os.Getenv("PARLEY_ADMIN_PASSWORD")
		}
		user, err := a.CreateSystemAdmin(ctx, &adminUser)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create admin")
		}
		log.Info().Str("user_id", user.ID).Str("username", user.Username).Msg("Admin created")
	},
}

func init() {
	rootCmd.AddCommand(createAdminCmd)
	createAdminCmd.Flags().StringVar(&adminUser.Username, "username", "sysadmin", "admin username")
	createAdminCmd.Flags().StringVar(&adminUser.Email, "email", "", "admin e-mail address")
	createAdminCmd.Flags().StringVar(&adminUser.Password, "password", "", "admin password")
}
