package main

import (
	"context"
	"fmt"

	"github.com/spf13/viper"

	"github.com/subtally/subtally/internal/api"
	"github.com/subtally/subtally/internal/config"
	"github.com/subtally/subtally/internal/storage"
)

// newAPIClient builds the backend client from configuration.
func newAPIClient() (*api.Client, error) {
	baseURL := viper.GetString("api.base_url")
	token := viper.GetString("api.token")

	client, err := api.NewClient(baseURL, token)
	if err != nil {
		return nil, fmt.Errorf("configure the backend with --api-url or SUBTALLY_API_BASE_URL: %w", err)
	}
	return client, nil
}

// initHistory opens the local import-history database with auto-migration.
func initHistory(ctx context.Context) (*storage.SQLiteStorage, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		var err error
		dbPath, err = config.HistoryDBPath()
		if err != nil {
			return nil, fmt.Errorf("failed to locate history database: %w", err)
		}
	} else {
		dbPath = config.ExpandPath(dbPath)
	}

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}
