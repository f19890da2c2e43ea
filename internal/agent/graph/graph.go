package graph

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/cloudwego/eino/compose"
	"github.com/google/uuid"

	"github.com/chative-ordering/orderbot/internal/agent/graph/conversations"
	"github.com/chative-ordering/orderbot/internal/agent/graph/nodes"
	"github.com/chative-ordering/orderbot/internal/agent/graph/observers"
	"github.com/chative-ordering/orderbot/internal/agent/model"
	"github.com/chative-ordering/orderbot/internal/agent/validator"
	errx "github.com/chative-ordering/orderbot/internal/core/error"
	logx "github.com/chative-ordering/orderbot/pkg/logger"
)

// ErrInvalidEvent is the only error Handle returns; every other failure is
// answered inside the turn.
var ErrInvalidEvent = errx.New(errors.New("inbound event has no user id"), http.StatusBadRequest, "invalid inbound event")

// Outcome summarizes one handled turn.
type Outcome struct {
	CorrelationID string
	Path          string
	Action        string
	Rejected      bool
	Failed        bool
	State         *model.ConversationState
	Transcript    []string
	CostUSD       float64
}

// Runner executes one inbound event end to end.
type Runner interface {
	Handle(ctx context.Context, ev model.InboundEvent) (*Outcome, error)
	State(ctx context.Context, key model.ConversationKey) *model.ConversationState
	Reset(ctx context.Context, key model.ConversationKey) error
}

// Config holds everything needed to compose the turn graph.
type Config struct {
	Conversations *conversations.Manager
	Classifier    nodes.Classifier
	Validator     *validator.Validator
	Dispatcher    nodes.Dispatcher
	Messenger     model.Messenger
	Metrics       *observers.Metrics
}

func (c *Config) validate() error {
	switch {
	case c == nil:
		return fmt.Errorf("graph config is nil")
	case c.Conversations == nil:
		return fmt.Errorf("conversation manager is nil")
	case c.Classifier == nil:
		return fmt.Errorf("classifier is nil")
	case c.Validator == nil:
		return fmt.Errorf("validator is nil")
	case c.Dispatcher == nil:
		return fmt.Errorf("dispatcher is nil")
	case c.Messenger == nil:
		return fmt.Errorf("messenger is nil")
	}
	return nil
}

// GraphBuilder handles the construction of the turn graph
type GraphBuilder struct {
	config *Config
	graph  *compose.Graph[*nodes.Turn, *nodes.Turn]
}

type graphRunner struct {
	runnable compose.Runnable[*nodes.Turn, *nodes.Turn]
	mm       *conversations.Manager
	metrics  *observers.Metrics
	newID    func() string
}

// Handle serializes turns per conversation and runs the graph once.
func (r *graphRunner) Handle(ctx context.Context, ev model.InboundEvent) (*Outcome, error) {
	ev.UserID = strings.TrimSpace(ev.UserID)
	if ev.UserID == "" {
		return nil, ErrInvalidEvent
	}
	if ev.Platform == "" {
		ev.Platform = model.PlatformConsole
	}

	unlock, err := r.mm.Lock(ctx, ev.Key())
	if err != nil {
		return nil, fmt.Errorf("waiting for conversation %s: %w", ev.Key(), err)
	}
	defer unlock()

	turn := &nodes.Turn{CorrelationID: r.newID(), Event: ev}
	out, err := r.runnable.Invoke(ctx, turn, compose.WithCallbacks(observers.NewAllCallbacks()...))
	if err != nil {
		// Nodes never fail; this is a graph execution problem. The state was
		// not saved, so the conversation stays where it was.
		logx.Error().
			Err(err).
			Str("correlation_id", turn.CorrelationID).
			Str("user_id", ev.UserID).
			Msg("turn graph failed")
		return nil, fmt.Errorf("run turn graph: %w", err)
	}

	r.metrics.Turn(out.Path)
	outcome := &Outcome{
		CorrelationID: out.CorrelationID,
		Path:          out.Path,
		Rejected:      out.Rejection != "",
		Failed:        out.Result.Failed,
		State:         out.Result.State,
		Transcript:    out.Result.Transcript,
		CostUSD:       out.CostUSD,
	}
	if out.Action != nil {
		outcome.Action = out.Action.Name()
	} else if out.Decision != nil {
		outcome.Action = out.Decision.Action
	}

	logx.Info().
		Str("correlation_id", outcome.CorrelationID).
		Str("user_id", ev.UserID).
		Str("platform", string(ev.Platform)).
		Str("path", outcome.Path).
		Str("action", outcome.Action).
		Str("stage", stageOf(outcome.State)).
		Float64("cost_usd", outcome.CostUSD).
		Msg("turn handled")
	return outcome, nil
}

func (r *graphRunner) State(ctx context.Context, key model.ConversationKey) *model.ConversationState {
	return r.mm.Load(ctx, key)
}

func (r *graphRunner) Reset(ctx context.Context, key model.ConversationKey) error {
	unlock, err := r.mm.Lock(ctx, key)
	if err != nil {
		return err
	}
	defer unlock()
	return r.mm.Reset(ctx, key)
}

// NewRunner builds the graph and returns a Runner.
func NewRunner(ctx context.Context, cfg *Config) (Runner, error) {
	runnable, err := BuildGraph(ctx, cfg)
	if err != nil {
		return nil, err
	}
	logx.Debug().Msg("Turn graph built successfully")
	return &graphRunner{
		runnable: runnable,
		mm:       cfg.Conversations,
		metrics:  cfg.Metrics,
		newID:    uuid.NewString,
	}, nil
}

// BuildGraph constructs and returns the compiled turn graph
func BuildGraph(ctx context.Context, config *Config) (compose.Runnable[*nodes.Turn, *nodes.Turn], error) {
	if err := config.validate(); err != nil {
		return nil, err
	}

	builder := &GraphBuilder{
		config: config,
		graph: compose.NewGraph[*nodes.Turn, *nodes.Turn](
			compose.WithGenLocalState(func(ctx context.Context) *model.TurnState {
				return &model.TurnState{}
			}),
		),
	}

	if err := builder.addNodes(); err != nil {
		return nil, err
	}
	if err := builder.addEdges(); err != nil {
		return nil, err
	}
	if err := builder.addBranches(); err != nil {
		return nil, err
	}
	return builder.compile(ctx)
}

// addNodes adds all processing nodes to the graph
func (b *GraphBuilder) addNodes() error {
	cfg := b.config
	steps := []struct {
		name string
		node *compose.Lambda
		opts []compose.GraphAddNodeOpt
	}{
		{nodes.NodeLoadState, nodes.NewLoadStateNode(cfg.Conversations),
			[]compose.GraphAddNodeOpt{compose.WithStatePreHandler(nodes.NewLoadStatePreHandler())}},
		{nodes.NodeResolve, nodes.NewResolveNode(), nil},
		{nodes.NodeClassify, nodes.NewClassifyNode(cfg.Classifier, cfg.Metrics),
			[]compose.GraphAddNodeOpt{compose.WithStatePostHandler(nodes.NewClassifyPostHandler())}},
		{nodes.NodeValidate, nodes.NewValidateNode(cfg.Validator, cfg.Metrics), nil},
		{nodes.NodeReject, nodes.NewRejectNode(cfg.Messenger),
			[]compose.GraphAddNodeOpt{compose.WithStatePostHandler(nodes.NewPathPostHandler())}},
		{nodes.NodeDispatch, nodes.NewDispatchNode(cfg.Dispatcher, cfg.Metrics), nil},
		{nodes.NodePersist, nodes.NewPersistNode(cfg.Conversations),
			[]compose.GraphAddNodeOpt{compose.WithStatePostHandler(nodes.NewPathPostHandler())}},
	}
	for _, s := range steps {
		if err := b.graph.AddLambdaNode(s.name, s.node, s.opts...); err != nil {
			logx.Error().Err(err).Str("node", s.name).Msg("Error adding node")
			return fmt.Errorf("error adding node %s: %w", s.name, err)
		}
	}
	return nil
}

// addEdges creates the main flow connections between nodes
func (b *GraphBuilder) addEdges() error {
	edges := [][2]string{
		{compose.START, nodes.NodeLoadState},
		{nodes.NodeLoadState, nodes.NodeResolve},
		{nodes.NodeClassify, nodes.NodeValidate},
		{nodes.NodeReject, compose.END},
		{nodes.NodeDispatch, nodes.NodePersist},
		{nodes.NodePersist, compose.END},
	}

	for _, edge := range edges {
		if err := b.graph.AddEdge(edge[0], edge[1]); err != nil {
			return fmt.Errorf("error adding edge %s -> %s: %w", edge[0], edge[1], err)
		}
	}
	return nil
}

// addBranches creates conditional routing branches
func (b *GraphBuilder) addBranches() error {
	resolveBranch := compose.NewGraphBranch(
		nodes.NewResolveCondition(),
		map[string]bool{
			nodes.NodeDispatch: true,
			nodes.NodeClassify: true,
		},
	)
	if err := b.graph.AddBranch(nodes.NodeResolve, resolveBranch); err != nil {
		logx.Error().Err(err).Msg("Error adding resolve branch")
		return fmt.Errorf("error adding resolve branch: %w", err)
	}

	validateBranch := compose.NewGraphBranch(
		nodes.NewValidateCondition(),
		map[string]bool{
			nodes.NodeReject:   true,
			nodes.NodeDispatch: true,
		},
	)
	if err := b.graph.AddBranch(nodes.NodeValidate, validateBranch); err != nil {
		logx.Error().Err(err).Msg("Error adding validate branch")
		return fmt.Errorf("error adding validate branch: %w", err)
	}
	return nil
}

// compile finalizes and compiles the graph
func (b *GraphBuilder) compile(ctx context.Context) (compose.Runnable[*nodes.Turn, *nodes.Turn], error) {
	runnable, err := b.graph.Compile(ctx,
		compose.WithGraphName("orderbot_turn"),
		compose.WithMaxRunSteps(20),
	)
	if err != nil {
		logx.Error().Err(err).Msg("Error compiling graph")
		return nil, fmt.Errorf("error compiling graph: %w", err)
	}

	logx.Debug().Msg("Graph compiled successfully")
	return runnable, nil
}

func stageOf(s *model.ConversationState) string {
	if s == nil {
		return ""
	}
	return string(s.Stage)
}
