package cli

import (
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the database schema",
	Long: `Apply pending schema migrations to the configured database.
Postgres needs this before the first 'neugrove serve'; sqlite migrates
itself when opened.`,
	Args: cobra.NoArgs,
	RunE: runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	a, err := loadApp(cmd.Context())
	if err != nil {
		return err
	}
	defer closeApp(a)

	if err := a.Migrate(cmd.Context()); err != nil {
		return err
	}
	cmd.Println("Database schema is up to date.")
	return nil
}
