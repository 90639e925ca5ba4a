package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"storefront/internal/config"
	mydb "storefront/internal/db"
	"storefront/internal/store"
)

var (
	// Global flags
	envFile string
	dsn     string
)

var rootCmd = &cobra.Command{
	Use:   "storectl",
	Short: "Operator tool for the storefront database",
	Long: `storectl manages the storefront database outside the web server:

  - apply the schema (migrate)
  - load a catalog of categories and products from YAML (seed)
  - create or promote dashboard admins (create-admin)
  - print sales figures (report)`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env", "", "Extra .env file to load")
	rootCmd.PersistentFlags().StringVar(&dsn, "db", "", "Database DSN (defaults to DB_DSN)")

	rootCmd.AddCommand(migrateCmd, seedCmd, createAdminCmd, reportCmd)
}

// openStore connects using --db or the environment.
func openStore() (*store.Store, error) {
	if envFile != "" {
		config.LoadEnvFiles(envFile)
	} else {
		config.LoadEnvFiles()
	}
	url := dsn
	if url == "" {
		url = os.Getenv("DB_DSN")
	}
	if url == "" {
		return nil, fmt.Errorf("no database: pass --db or set DB_DSN")
	}
	db, err := mydb.Open(url)
	if err != nil {
		return nil, err
	}
	return store.New(db), nil
}

func closeDB(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update all tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer closeDB(st.DB())
		if err := mydb.Migrate(st.DB()); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "schema up to date")
		return nil
	},
}
