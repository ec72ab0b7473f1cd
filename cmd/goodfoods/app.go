package main

import (
	"context"
	"fmt"
	"log/slog"

	concierge "github.com/goodfoods/concierge"
	"github.com/goodfoods/concierge/src/booking"
	"github.com/goodfoods/concierge/src/config"
	"github.com/goodfoods/concierge/src/embed"
	"github.com/goodfoods/concierge/src/models"
	"github.com/goodfoods/concierge/src/recommend"
	"github.com/goodfoods/concierge/src/session"
	"github.com/goodfoods/concierge/src/store"
	"github.com/goodfoods/concierge/src/tools"
)

// app bundles the wired components a command needs to run.
type app struct {
	cfg      config.Config
	store    store.Store
	agent    *concierge.Agent
	sessions *session.Manager
	logger   *slog.Logger
}

func (a *app) Close() error {
	return a.store.Close()
}

func openStore(ctx context.Context, cfg config.Config) (store.Store, error) {
	switch cfg.StoreDriver {
	case "", "memory":
		return store.NewInMemoryStore(), nil
	case "sqlite":
		return store.NewSQLite(cfg.DBPath)
	case "postgres":
		return store.NewPostgres(ctx, cfg.DatabaseURL)
	case "mongo":
		return store.NewMongo(ctx, cfg.MongoURI, cfg.MongoDB)
	default:
		return nil, fmt.Errorf("unknown store driver: %s", cfg.StoreDriver)
	}
}

// buildApp wires the store, booking engine, ranker, tool catalog, model,
// and agent from the environment. Seeding only fills an empty catalog.
func buildApp(ctx context.Context) (*app, error) {
	cfg := config.Load()
	logger := newLogger()

	st, err := openStore(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	if err := st.SeedRestaurants(ctx, store.GenerateSeedRestaurants(cfg.SeedCount, cfg.SeedValue)); err != nil {
		st.Close()
		return nil, fmt.Errorf("seed restaurants: %w", err)
	}

	embedder, err := embed.NewProvider(cfg.EmbedProvider, cfg.EmbedModel)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("embedder: %w", err)
	}

	engine := booking.NewEngine(st)
	ranker := recommend.NewRanker(st, embedder, recommend.Options{
		Floor: cfg.RecommendFloor,
		TopK:  cfg.RecommendTopK,
	})

	catalog, err := tools.NewCatalog(st, engine, ranker)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("tool catalog: %w", err)
	}

	model, err := models.NewChatProvider(ctx, cfg.LLMProvider, cfg.LLMModel)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("chat provider: %w", err)
	}

	agent, err := concierge.New(concierge.Options{
		Model:             model,
		Catalog:           catalog,
		Logger:            logger,
		MaxToolIterations: cfg.MaxToolIterations,
	})
	if err != nil {
		st.Close()
		return nil, err
	}

	sessions := session.NewManager(concierge.DefaultSystemPrompt, cfg.HistoryWindow, cfg.SessionIdleTTL)

	return &app{
		cfg:      cfg,
		store:    st,
		agent:    agent,
		sessions: sessions,
		logger:   logger,
	}, nil
}
