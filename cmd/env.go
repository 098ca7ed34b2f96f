package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/gyankosh/internal/catalog"
	"github.com/abhisek/gyankosh/internal/content"
	"github.com/abhisek/gyankosh/internal/library"
	"github.com/abhisek/gyankosh/internal/llm"
	"github.com/abhisek/gyankosh/internal/logger"
	"github.com/abhisek/gyankosh/internal/profile"
	"github.com/abhisek/gyankosh/internal/session"
	"github.com/abhisek/gyankosh/internal/store"
)

// env is the state shared by every command that touches learner data.
type env struct {
	dbPath   string
	store    *store.Store
	log      *logger.Logger
	catalog  *catalog.Catalog
	profiles *profile.Store
	library  *library.Store
}

// openEnv opens the database and loads the profile and library. The
// profile's streak is brought up to date as a side effect.
func openEnv(cmd *cobra.Command) (*env, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}

	logFile, _ := cmd.Flags().GetString("log-file")
	if logFile == "" {
		logFile = logger.DefaultPath(dbPath)
	}
	logMode, _ := cmd.Flags().GetString("log-mode")
	log, err := logger.New(logMode, logFile)
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}

	st, err := store.Open(dbPath)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("open store: %w", err)
	}

	ctx := cmd.Context()
	docs := st.DocumentRepo()
	profiles, err := profile.Load(ctx, docs, log, time.Now())
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("load profile: %w", err)
	}
	lib, err := library.Load(ctx, docs, log)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("load library: %w", err)
	}

	log.Info("gyankosh started", "db", dbPath, "version", version)
	return &env{
		dbPath:   dbPath,
		store:    st,
		log:      log,
		catalog:  catalog.Default(),
		profiles: profiles,
		library:  lib,
	}, nil
}

func (e *env) Close() {
	e.log.Sync()
	_ = e.store.Close()
}

// generator connects the configured LLM provider. When none is configured
// it returns content.Unavailable and the configuration error.
func (e *env) generator(cmd *cobra.Command) (*content.Generator, error) {
	provider, err := llm.NewProviderFromEnv(cmd.Context(), e.store.EventRepo(), e.log)
	if err != nil {
		e.log.Warn("LLM provider not configured", "error", err)
		return nil, err
	}
	return content.NewGenerator(provider, e.catalog, content.DefaultConfig(), e.log), nil
}

// session builds the state machine over the loaded stores.
func (e *env) session(gen session.LessonGenerator) *session.Machine {
	return session.New(session.Options{
		Catalog:   e.catalog,
		Profiles:  e.profiles,
		Library:   e.library,
		Generator: gen,
		Events:    e.store.EventRepo(),
		Logger:    e.log,
		Now:       time.Now,
	})
}

// openStore opens the database without touching the learner's profile.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return s, nil
}
