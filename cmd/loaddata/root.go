package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/service"
)

var rootCmd = &cobra.Command{
	Use:           "loaddata",
	Short:         "Reload the ingredient and tag lookup tables",
	Long:          "loaddata reads CSV files into the ingredient and tag tables. Rows already present are kept, so existing recipes stay valid.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var ingredientsCmd = &cobra.Command{
	Use:   "ingredients <csv>",
	Short: "Load ingredients from name,measurement_unit rows",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rows, err := readIngredientsFile(args[0])
		if err != nil {
			return err
		}
		store, err := openStore()
		if err != nil {
			return err
		}
		inserted, err := store.ReloadIngredients(cmd.Context(), rows)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Read %d ingredients, inserted %d\n", len(rows), inserted)
		return nil
	},
}

var tagsCmd = &cobra.Command{
	Use:   "tags <csv>",
	Short: "Load tags from name,color,slug rows",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rows, err := readTagsFile(args[0])
		if err != nil {
			return err
		}
		store, err := openStore()
		if err != nil {
			return err
		}
		written, err := store.ReloadTags(cmd.Context(), rows)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Read %d tags, wrote %d\n", len(rows), written)
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(ingredientsCmd, tagsCmd)
}

func openStore() (*service.Store, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	db, err := database.New(cfg)
	if err != nil {
		return nil, err
	}
	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	return service.NewStore(db), nil
}

// ensureSchema creates the tables of a fresh sqlite file. Postgres schemas are
// owned by cmd/migrate.
func ensureSchema(db *gorm.DB) error {
	if db.Dialector.Name() != "sqlite" {
		return nil
	}
	return database.AutoMigrate(db)
}
