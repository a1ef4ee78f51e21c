package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/idilsaglam/tada/internal/ai"
	"github.com/idilsaglam/tada/internal/config"
	"github.com/idilsaglam/tada/internal/server"
	"github.com/idilsaglam/tada/internal/store"
	"github.com/idilsaglam/tada/internal/store/firestorestore"
	"github.com/idilsaglam/tada/internal/store/jsonstore"
	"github.com/idilsaglam/tada/internal/store/memstore"
	"github.com/idilsaglam/tada/internal/store/redisstore"
	"github.com/idilsaglam/tada/internal/store/sqlitestore"
)

func (r *runner) doServe(ctx context.Context) int {
	st, err := openStore(ctx, r.cfg.Server, r.logger)
	if err != nil {
		r.p.Fail("store: " + err.Error())
		return ExitError
	}
	defer func() {
		if err := st.Close(); err != nil {
			r.logger.Warn("closing store", "err", err)
		}
	}()

	evaluator, err := ai.New(ai.Config{
		APIKey:     r.cfg.AI.APIKey,
		APIVersion: r.cfg.AI.APIVersion,
		Deployment: r.cfg.AI.Deployment,
		Endpoint:   r.cfg.AI.Endpoint,
	}, ai.WithLogger(r.logger))
	if err != nil {
		r.p.Fail("ai: " + err.Error())
		return ExitError
	}

	srv, err := server.New(st, evaluator,
		server.WithAddr(r.cfg.Server.Addr),
		server.WithLogger(r.logger))
	if err != nil {
		r.p.Fail("server: " + err.Error())
		return ExitError
	}

	r.logger.Info("serving todos", "addr", r.cfg.Server.Addr, "store", r.cfg.Server.Store, "ai", evaluator.Enabled())
	if err := srv.Run(ctx); err != nil {
		r.p.Fail("serve: " + err.Error())
		return ExitError
	}
	return ExitOK
}

// openStore builds the configured store driver.
func openStore(ctx context.Context, cfg config.ServerConfig, logger *log.Logger) (store.Store, error) {
	switch cfg.Store {
	case config.StoreMemory:
		logger.Warn("using in-memory store; items are lost on exit")
		return memstore.New(), nil
	case config.StoreJSON:
		s, err := jsonstore.New(cfg.JSONPath)
		if err != nil {
			return nil, err
		}
		logger.Debug("json store", "path", s.Path())
		return s, nil
	case config.StoreSQLite:
		return sqlitestore.New(ctx, cfg.SQLitePath)
	case config.StoreRedis:
		return redisstore.Dial(ctx, cfg.RedisAddr)
	case config.StoreFirestore:
		return firestorestore.New(ctx, cfg.FirestoreProject, "")
	}
	return nil, fmt.Errorf("unknown store %q", cfg.Store)
}
