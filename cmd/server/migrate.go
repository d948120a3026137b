package main

import (
	"errors"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"go-bookshelf/internal/database"
)

func NewMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			databaseURL, err := migrateDatabaseURL()
			if err != nil {
				return err
			}

			cmd.Println("Running migrations...")
			if err := database.Migrate(databaseURL); err != nil {
				return err
			}
			cmd.Println("Migrations completed successfully")
			return nil
		},
	})

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back applied migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			databaseURL, err := migrateDatabaseURL()
			if err != nil {
				return err
			}

			cmd.Printf("Rolling back %d migration(s)...\n", steps)
			if err := database.MigrateDown(databaseURL, steps); err != nil {
				return err
			}
			cmd.Println("Rollback completed successfully")
			return nil
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "number of migrations to roll back")
	cmd.AddCommand(down)

	return cmd
}

// migrateDatabaseURL only needs DATABASE_URL, so migrations can run without
// the JWT secrets the server requires.
func migrateDatabaseURL() (string, error) {
	_ = godotenv.Load(envFile)

	databaseURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if databaseURL == "" {
		return "", errors.New("DATABASE_URL environment variable is required")
	}
	return databaseURL, nil
}
