package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"issuepilot/internal/api"
	"issuepilot/internal/config"
	"issuepilot/internal/logger"
	"issuepilot/internal/model"
	"issuepilot/internal/session"
	"issuepilot/internal/storage"
)

// env is what every command opens: config, log sink, session storage and
// the API client. The UI logs to a file because the alt-screen owns the
// terminal; the other commands log to stderr.
type env struct {
	cfg     *config.Config
	db      *storage.SQLite
	session *session.Store
	api     *api.Client
	logFile io.Closer
}

func openEnv(ui bool) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	var logFile io.Closer = io.NopCloser(nil)
	if ui {
		logFile, err = logger.OpenFile(cfg.LogLevel, cfg.LogFile)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
	} else {
		logger.Console(cfg.LogLevel, os.Stderr)
	}

	db, err := storage.OpenSQLite(cfg.SessionDBPath())
	if err != nil {
		_ = logFile.Close()
		return nil, err
	}

	store := session.New(db)
	e := &env{
		cfg:     cfg,
		db:      db,
		session: store,
		api:     api.NewClient(cfg.APIBaseURL, cfg.HTTPTimeout, store),
		logFile: logFile,
	}
	logger.Debug().Str("api", cfg.APIBaseURL).Str("state_dir", cfg.StateDir).Msg("environment ready")
	return e, nil
}

func (e *env) Close() error {
	return errors.Join(e.db.Close(), e.logFile.Close())
}

var errNotLoggedIn = errors.New("not logged in; run `issuepilot login` first")

func (e *env) requireSession() (model.Session, error) {
	sess, ok := e.session.Get()
	if !ok {
		return model.Session{}, errNotLoggedIn
	}
	return sess, nil
}
