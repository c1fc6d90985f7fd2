package commands

import (
	"log/slog"

	"brandsentinel-backend/lib/reviewstore"
	"brandsentinel-backend/lib/reviewstore/db"
	"brandsentinel-backend/lib/serviceutil"
	"brandsentinel-backend/lib/sqliteutil"

	"github.com/spf13/cobra"
	_ "modernc.org/sqlite"
)

var exportDb *string
var importDb *string

func init() {
	exportDb = exportCmd.Flags().String("db", "data.db", "The database to read from.")
	importDb = importCmd.Flags().String("db", "data.db", "The database to write to.")
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}

func openStore(path string) reviewstore.Store {
	database, err := sqliteutil.OpenDB(db.Schema, path)
	if err != nil {
		serviceutil.Fatal("failed to open db", err)
	}
	return reviewstore.NewStore(database)
}

var exportCmd = &cobra.Command{
	Use:   "export [path/to/data.json]",
	Short: "Exports the database to a flat JSON dataset file.",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		path := "data.json"
		if len(args) > 0 {
			path = args[0]
		}

		store := openStore(*exportDb)
		err := reviewstore.ExportDataset(cmd.Context(), store, path)
		if err != nil {
			serviceutil.Fatal("failed to export dataset", err)
		}
		slog.Info("exported dataset", "path", path)
	},
}

var importCmd = &cobra.Command{
	Use:   "import [path/to/data.json]",
	Short: "Imports a flat JSON dataset file into the database.",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		path := "data.json"
		if len(args) > 0 {
			path = args[0]
		}

		store := openStore(*importDb)
		err := reviewstore.ImportDataset(cmd.Context(), store, path)
		if err != nil {
			serviceutil.Fatal("failed to import dataset", err)
		}
		slog.Info("imported dataset", "path", path)
	},
}
