package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/chative-ordering/orderbot/internal/agent/actions"
	"github.com/chative-ordering/orderbot/internal/agent/classifier"
	"github.com/chative-ordering/orderbot/internal/agent/dispatcher"
	"github.com/chative-ordering/orderbot/internal/agent/graph"
	"github.com/chative-ordering/orderbot/internal/agent/graph/conversations"
	"github.com/chative-ordering/orderbot/internal/agent/graph/nodes"
	"github.com/chative-ordering/orderbot/internal/agent/graph/observers"
	"github.com/chative-ordering/orderbot/internal/agent/model"
	"github.com/chative-ordering/orderbot/internal/agent/repo"
	"github.com/chative-ordering/orderbot/internal/agent/responder"
	"github.com/chative-ordering/orderbot/internal/agent/validator"
	"github.com/chative-ordering/orderbot/internal/messaging"
	"github.com/chative-ordering/orderbot/internal/restaurant/memstore"
	"github.com/chative-ordering/orderbot/internal/restaurant/postgres"
	logx "github.com/chative-ordering/orderbot/pkg/logger"
)

type engineOptions struct {
	offline  bool
	console  io.Writer
	registry prometheus.Registerer
}

// engine is a built runner plus the connections it owns.
type engine struct {
	runner  graph.Runner
	closers []func()
}

func (e *engine) Close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		e.closers[i]()
	}
}

// buildEngine wires stores, messengers and models into the turn graph.
// Offline mode keeps state, menu and orders in memory.
func buildEngine(ctx context.Context, cfg *AppConfig, opts engineOptions) (*engine, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is not set")
	}
	e := &engine{}

	stateRepo, catalog, orders, err := e.stores(ctx, cfg, opts.offline)
	if err != nil {
		e.Close()
		return nil, err
	}

	messenger, err := e.messenger(cfg, opts)
	if err != nil {
		e.Close()
		return nil, err
	}

	cms, err := nodes.NewChatModels(ctx, nodes.ChatModelConfig{
		APIKey:     cfg.APIKey,
		BaseURL:    cfg.BaseURL,
		Classifier: &cfg.Classifier,
		Responder:  &cfg.Responder,
	})
	if err != nil {
		e.Close()
		return nil, err
	}

	var dispatchOpts []dispatcher.Option
	if cms.Responder != nil {
		dispatchOpts = append(dispatchOpts, dispatcher.WithRecommender(
			responder.New(cms.Responder, cms.ResponderModelName, cfg.Restaurant.Name),
		))
	}

	registry := actions.Default()
	runner, err := graph.NewRunner(ctx, &graph.Config{
		Conversations: conversations.NewManager(stateRepo, cfg.Conversation),
		Classifier: classifier.New(cms.Classifier, registry, classifier.Config{
			ModelName:      cms.ClassifierModelName,
			RestaurantName: cfg.Restaurant.Name,
			Timeout:        cfg.Classifier.Timeout,
			HistoryTurns:   cfg.Classifier.HistoryTurns,
		}),
		Validator:  validator.New(registry),
		Dispatcher: dispatcher.New(catalog, orders, messenger, cfg.Restaurant, dispatchOpts...),
		Messenger:  messenger,
		Metrics:    observers.NewMetrics(opts.registry),
	})
	if err != nil {
		e.Close()
		return nil, err
	}
	e.runner = runner
	return e, nil
}

func (e *engine) stores(ctx context.Context, cfg *AppConfig, offline bool) (model.ConversationRepository, model.Catalog, model.OrderStore, error) {
	if offline {
		catalog, err := memstore.NewDefaultCatalog()
		if err != nil {
			return nil, nil, nil, err
		}
		logx.Info().Msg("offline mode: state, menu and orders are kept in memory")
		return repo.NewMemoryConversationRepository(), catalog, memstore.NewOrders(catalog), nil
	}

	ttl, err := cfg.Conversation.ParseTTL()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("invalid CONVERSATION_TTL %q: %w", cfg.Conversation.TTL, err)
	}
	rdb, err := cfg.Redis.New(ctx)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("initialise redis: %w", err)
	}
	e.closers = append(e.closers, func() { _ = rdb.Close() })
	logx.Info().Msg("Connected to Redis successfully")

	pool, err := cfg.Postgres.New(ctx)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("initialise postgres: %w", err)
	}
	e.closers = append(e.closers, pool.Close)
	logx.Info().Msg("Connected to Postgres successfully")

	return repo.NewRedisConversationRepository(rdb, ttl), postgres.NewCatalog(pool), postgres.NewOrders(pool), nil
}

func (e *engine) messenger(cfg *AppConfig, opts engineOptions) (model.Messenger, error) {
	out := messaging.Multi{messaging.NewConsole(opts.console)}
	if !cfg.NATS.Enabled {
		return out, nil
	}
	nc, err := cfg.NATS.New()
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	e.closers = append(e.closers, func() {
		if err := nc.Drain(); err != nil {
			nc.Close()
		}
	})
	logx.Info().Str("subject_prefix", cfg.NATS.SubjectPrefix).Msg("Publishing outward messages to NATS")
	return append(out, messaging.NewNATSMessenger(nc, cfg.NATS.SubjectPrefix)), nil
}
