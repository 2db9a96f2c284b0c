// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/biodata-hub/internal/auth"
	"github.com/pdiddy/biodata-hub/internal/server"
	"github.com/pdiddy/biodata-hub/internal/store"
	"github.com/pdiddy/biodata-hub/pkg/types"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the catalog HTTP API",
	Long: `Serve starts the HTTP API over the catalog: research records, keyword
search, filter facets, raw data files, demo login, and admin uploads.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	addr, _ := cmd.Flags().GetString("addr")
	env, _ := cmd.Flags().GetString("env")
	if env == "" {
		env = viper.GetString("env")
	}

	logger, err := newLogger(env)
	if err != nil {
		return err
	}
	defer logger.Sync()

	st, err := store.NewStore(storeConfig(cmd))
	if err != nil {
		return err
	}
	defer st.Close()

	authSvc := auth.NewService(authConfig())
	srv := server.New(types.ServerConfig{Addr: addr, Env: env}, dataDir(cmd), st, authSvc, logger)
	return srv.ListenAndServe()
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func init() {
	serveCmd.Flags().String("addr", ":5000", "listen address")
	serveCmd.Flags().String("env", "", "runtime environment: development or production")

	rootCmd.AddCommand(serveCmd)
}
