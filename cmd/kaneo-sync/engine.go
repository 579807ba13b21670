package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/nhle/kaneo-sync/internal/credential"
	"github.com/nhle/kaneo-sync/internal/github"
	"github.com/nhle/kaneo-sync/internal/integration"
	"github.com/nhle/kaneo-sync/internal/model"
	"github.com/nhle/kaneo-sync/internal/store"
	"github.com/nhle/kaneo-sync/internal/sync"
)

// engine holds everything a command needs to talk to storage and GitHub.
type engine struct {
	store      *store.SQLiteStore
	connector  *integration.Connector
	syncer     *sync.Synchronizer
	dispatcher *sync.Dispatcher
}

// openEngine wires the store, the credential vault, the optional GitHub
// App, and the synchronizer from cfg. Callers must call close.
func openEngine(cfg *model.AppConfig) (*engine, error) {
	logger := slog.Default()

	key, err := credential.LoadEncryptionKey()
	if err != nil {
		return nil, err
	}
	vault, err := credential.NewVault(key)
	if err != nil {
		return nil, err
	}

	app, err := loadApp(cfg)
	if err != nil {
		return nil, err
	}

	s, err := store.NewSQLiteStore(cfg.DatabasePath)
	if err != nil {
		return nil, err
	}

	resolver := integration.NewResolver(s, vault, app, cfg.GitHub.APIURL, logger)
	syncer := sync.New(s, resolver, sync.Options{
		RequestTimeout: cfg.RequestTimeout(),
		Logger:         logger,
	})

	return &engine{
		store:      s,
		connector:  integration.NewConnector(s, vault, app, cfg.GitHub.APIURL, logger),
		syncer:     syncer,
		dispatcher: sync.NewDispatcher(syncer, cfg.HandlerTimeout(), logger),
	}, nil
}

// loadApp returns the configured GitHub App, or a nil factory when none
// is configured.
func loadApp(cfg *model.AppConfig) (integration.AppClientFactory, error) {
	if cfg.GitHub.AppID == 0 {
		return nil, nil
	}

	pem, err := os.ReadFile(cfg.GitHub.PrivateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("reading github app private key: %w", err)
	}

	app, err := github.NewApp(cfg.GitHub.AppID, pem, cfg.GitHub.APIURL,
		github.WithHTTPClient(&http.Client{Timeout: cfg.RequestTimeout()}))
	if err != nil {
		return nil, err
	}
	return app, nil
}

func (e *engine) close() {
	if err := e.store.Close(); err != nil {
		slog.Warn("closing store", "error", err)
	}
}
