package main

import (
	"fmt"

	"github.com/buscar-app/buscar/internal/api"
	"github.com/buscar-app/buscar/internal/browse"
	"github.com/buscar-app/buscar/internal/config"
	"github.com/buscar-app/buscar/internal/prefs"
)

// app bundles the pieces every command needs.
type app struct {
	cfg     *config.Config
	client  *api.Client
	store   *prefs.Store
	session *browse.Session
}

// initApp loads the configuration and wires client, preference store and
// search session. Callers must Close the returned app.
func initApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	store, err := prefs.NewStore(config.PrefsDBPath(cfg.DataDir))
	if err != nil {
		return nil, fmt.Errorf("failed to open preference store: %w", err)
	}

	client := api.NewClient(cfg.APIBaseURL, cfg.APITimeout)

	session := browse.NewSession(client, cfg.PerPage)
	session.AttachPrefs(store)

	return &app{
		cfg:     cfg,
		client:  client,
		store:   store,
		session: session,
	}, nil
}

// Close releases the preference store.
func (a *app) Close() {
	_ = a.store.Close()
}
