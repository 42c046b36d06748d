package main

import (
	"context"
	"fmt"
	"os"

	"github.com/personal-blog-api/internal/repository"
	"github.com/personal-blog-api/internal/seed"
	"github.com/personal-blog-api/internal/service"
	"github.com/spf13/cobra"
)

var (
	adminName     string
	adminEmail    string
	adminPassword string
	seedValue     int64
)

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an administrator account",
	RunE:  runCreateAdmin,
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Fill the database with demo posts and comments",
	RunE:  runSeed,
}

func init() {
	createAdminCmd.Flags().StringVar(&adminName, "name", "", "Display name")
	createAdminCmd.Flags().StringVar(&adminEmail, "email", "", "Login email")
	createAdminCmd.Flags().StringVar(&adminPassword, "password", "", "Password (defaults to ADMIN_PASSWORD)")
	_ = createAdminCmd.MarkFlagRequired("name")
	_ = createAdminCmd.MarkFlagRequired("email")

	seedCmd.Flags().Int64Var(&seedValue, "seed", 1, "Random seed for generated content")
}

func runCreateAdmin(cmd *cobra.Command, args []string) error {
	password := adminPassword
	if password == "" {
		password = os.Getenv("ADMIN_PASSWORD")
	}

	cfg, log, db, err := bootstrap()
	if err != nil {
		return err
	}
	defer db.Close()

	services := service.NewServices(repository.New(db), cfg, log)
	user, err := services.Auth.CreateAdmin(context.Background(), adminName, adminEmail, password)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "created admin %d <%s>\n", user.ID, user.Email)
	return nil
}

func runSeed(cmd *cobra.Command, args []string) error {
	cfg, log, db, err := bootstrap()
	if err != nil {
		return err
	}
	defer db.Close()

	repos := repository.New(db)
	services := service.NewServices(repos, cfg, log)

	result, err := seed.New(repos.User, services, seedValue, log).Run(context.Background())
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "seeded %d posts (%d already present), %d approved, %d pending, %d spam comments\n",
		result.Posts, result.Skipped,
		result.Comments["approved"], result.Comments["pending"], result.Comments["spam"])
	return nil
}
