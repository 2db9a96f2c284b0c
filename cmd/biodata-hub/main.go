// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the biodata-hub CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/biodata-hub/internal/secrets"
	"github.com/pdiddy/biodata-hub/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds credentials loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// secretDefault returns the secret value for key if it exists, or fallback otherwise.
func secretDefault(key, fallback string) string {
	if fallback != "" {
		return fallback
	}
	if v, ok := loadedSecrets[key]; ok {
		return v
	}
	return ""
}

// rootCmd is the base command for the biodata-hub CLI.
var rootCmd = &cobra.Command{
	Use:   "biodata-hub",
	Short: "Content platform for biological research datasets",
	Long: `biodata-hub manages a catalog of biological research datasets. Legacy
column-numbered metadata files are migrated into a normalized SQLite catalog,
then served over HTTP and queried from the command line.

Each operation is a subcommand: migrate ingests metadata, serve runs the HTTP
API, and research lists, searches, creates, and exports catalog records.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./biodata-hub.yaml or ~/.config/biodata-hub/config.yaml)")
	rootCmd.PersistentFlags().String("data-dir", "data", "base data directory (contains metadata/, raw/, uploads/, index/)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("biodata-hub")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "biodata-hub"))
		}
	}

	viper.SetEnvPrefix("BIODATA_HUB")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// dataDir resolves the base data directory from flag or config.
func dataDir(cmd *cobra.Command) string {
	dir, _ := cmd.Flags().GetString("data-dir")
	if dir == "" {
		dir = viper.GetString("data_dir")
	}
	if dir == "" {
		dir = "data"
	}
	return dir
}

// storeConfig builds the catalog store configuration.
func storeConfig(cmd *cobra.Command) types.StoreConfig {
	return types.StoreConfig{
		DataDir:     dataDir(cmd),
		SearchLimit: viper.GetInt("search_limit"),
	}
}

// authConfig builds the token service configuration from secrets and
// environment.
func authConfig() types.AuthConfig {
	return types.AuthConfig{
		Secret:        secretDefault("jwt-secret", viper.GetString("jwt_secret")),
		AdminUser:     secretDefault("admin-user", viper.GetString("admin_user")),
		AdminPassword: secretDefault("admin-password", viper.GetString("admin_password")),
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
