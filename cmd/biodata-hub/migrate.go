// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pdiddy/biodata-hub/internal/ingest"
	"github.com/pdiddy/biodata-hub/internal/store"
	"github.com/pdiddy/biodata-hub/pkg/types"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Ingest legacy metadata files into the catalog",
	Long: `Migrate reads legacy column-numbered JSON files from the metadata
directory, normalizes them into catalog records, and inserts them into the
SQLite catalog. Files already migrated are skipped, so repeated runs are
safe. Seed users are migrated when a users file is present.`,
	RunE: runMigrate,
}

func runMigrate(cmd *cobra.Command, args []string) error {
	metadataDir, _ := cmd.Flags().GetString("metadata-dir")
	if metadataDir == "" {
		metadataDir = filepath.Join(dataDir(cmd), "metadata")
	}
	usersFile, _ := cmd.Flags().GetString("users-file")
	if usersFile == "" {
		usersFile = filepath.Join(dataDir(cmd), "references", "users.json")
	}

	st, err := store.NewStore(storeConfig(cmd))
	if err != nil {
		return err
	}
	defer st.Close()

	// Malformed documents are skipped and counted, never fatal; only
	// store failures abort with a non-zero exit.
	_, err = ingest.Run(context.Background(), st, types.IngestConfig{
		MetadataDir: metadataDir,
		UsersFile:   usersFile,
	}, os.Stdout)
	return err
}

func init() {
	migrateCmd.Flags().String("metadata-dir", "", "directory of legacy metadata JSON files (default: <data-dir>/metadata)")
	migrateCmd.Flags().String("users-file", "", "seed users JSON file (default: <data-dir>/references/users.json)")

	rootCmd.AddCommand(migrateCmd)
}
