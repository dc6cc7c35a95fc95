package main

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"flash-gen/internal/config"
	"flash-gen/internal/db"
	"flash-gen/internal/llm"
	"flash-gen/internal/logging"
	"flash-gen/internal/services"
)

// app holds the dependencies shared by every subcommand.
type app struct {
	cfg       *config.Config
	log       *zap.Logger
	conn      *sql.DB
	events    *services.EventService
	generator *services.GeneratorService
}

type appOptions struct {
	// provider builds the completion provider.
	provider bool
	// quiet discards log output, for commands that own the terminal.
	quiet bool
}

// newApp loads configuration and opens the event log.
func newApp(ctx context.Context, opts appOptions) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log := zap.NewNop()
	if !opts.quiet {
		if log, err = logging.New(cfg.Env, cfg.LogLevel); err != nil {
			return nil, err
		}
	}

	if err := cfg.EnsureDataDir(); err != nil {
		return nil, err
	}
	conn, err := db.Open(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	a := &app{
		cfg:    cfg,
		log:    log,
		conn:   conn,
		events: services.NewEventService(conn),
	}

	if opts.provider {
		provider, err := llm.NewProvider(ctx, cfg.LLM(), a.events, log)
		if err != nil {
			a.close()
			return nil, err
		}
		a.generator = services.NewGeneratorService(provider, log)
		log.Info("completion provider ready",
			zap.String("provider", cfg.Provider),
			zap.String("model", provider.ModelID()),
		)
	}
	return a, nil
}

func (a *app) close() {
	if a.conn != nil {
		_ = a.conn.Close()
	}
	_ = a.log.Sync()
}
