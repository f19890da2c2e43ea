package nodes

import (
	"context"
	"errors"
	"strings"

	"github.com/cloudwego/eino/compose"

	"github.com/chative-ordering/orderbot/internal/agent/actions"
	"github.com/chative-ordering/orderbot/internal/agent/classifier"
	"github.com/chative-ordering/orderbot/internal/agent/dispatcher"
	"github.com/chative-ordering/orderbot/internal/agent/graph/conversations"
	"github.com/chative-ordering/orderbot/internal/agent/graph/observers"
	"github.com/chative-ordering/orderbot/internal/agent/model"
	"github.com/chative-ordering/orderbot/internal/agent/resolver"
	"github.com/chative-ordering/orderbot/internal/agent/validator"
	logx "github.com/chative-ordering/orderbot/pkg/logger"
)

// Node names
const (
	NodeLoadState = "load_state"
	NodeResolve   = "resolve"
	NodeClassify  = "classify"
	NodeValidate  = "validate"
	NodeReject    = "reject"
	NodeDispatch  = "dispatch"
	NodePersist   = "persist"
)

const sourceMalformed classifier.Source = "malformed"

// Turn flows through every node of the graph. Each node fills in its part.
type Turn struct {
	CorrelationID string
	Event         model.InboundEvent
	State         *model.ConversationState

	// Action is set by the resolver (fast path) or by validation (slow path).
	Action   actions.Action
	Decision *classifier.Decision
	Path     string

	// Rejection is the validator message sent instead of dispatching.
	Rejection string
	Result    dispatcher.Result
	CostUSD   float64
}

// Classifier maps free text to a decision.
type Classifier interface {
	Classify(ctx context.Context, text string, state *model.ConversationState) (classifier.Decision, error)
}

// Dispatcher executes a resolved action.
type Dispatcher interface {
	Dispatch(ctx context.Context, to model.Recipient, act actions.Action, state *model.ConversationState) dispatcher.Result
}

// NewLoadStatePreHandler copies the turn identity into graph local state.
func NewLoadStatePreHandler() func(context.Context, *Turn, *model.TurnState) (*Turn, error) {
	return func(ctx context.Context, in *Turn, s *model.TurnState) (*Turn, error) {
		s.CorrelationID = in.CorrelationID
		s.ConversationID = in.Event.Key().String()
		s.TotalCostUSD = 0
		return in, nil
	}
}

// NewLoadStateNode reads the stored conversation. It never fails; a store
// outage degrades to a fresh state inside the manager.
func NewLoadStateNode(mm *conversations.Manager) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, turn *Turn) (*Turn, error) {
		turn.State = mm.Load(ctx, turn.Event.Key())
		return turn, nil
	})
}

// NewResolveNode applies the deterministic rules before any model call.
func NewResolveNode() *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, turn *Turn) (*Turn, error) {
		if act, ok := resolver.Resolve(turn.Event, turn.State); ok {
			turn.Action = act
			turn.Path = model.PathFast
		} else {
			turn.Path = model.PathSlow
		}
		return turn, nil
	})
}

// NewResolveCondition routes resolved turns straight to dispatch.
func NewResolveCondition() func(context.Context, *Turn) (string, error) {
	return func(ctx context.Context, turn *Turn) (string, error) {
		if turn.Action != nil {
			return NodeDispatch, nil
		}
		return NodeClassify, nil
	}
}

// NewClassifyNode asks the model for a decision. A classifier error becomes
// a generic text reply so the turn still completes.
func NewClassifyNode(c Classifier, metrics *observers.Metrics) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, turn *Turn) (*Turn, error) {
		decision, err := c.Classify(ctx, turn.Event.Utterance(), turn.State)
		if err != nil {
			logx.Warn().
				Err(err).
				Str("user_id", turn.Event.UserID).
				Msg("classifier failed; falling back to text reply")
			if errors.Is(err, classifier.ErrMalformedOutput) {
				decision.Source = sourceMalformed
			}
			decision.Outcome = classifier.OutcomeExhausted
			decision.Action = actions.NameSendTextReply
			decision.Arguments = map[string]any{"message": classifier.TransportMessage}
		}
		metrics.Decision(string(decision.Source), string(decision.Outcome), decision.CostUSD)
		turn.Decision = &decision
		return turn, nil
	})
}

// NewClassifyPostHandler accumulates model cost into graph local state.
func NewClassifyPostHandler() func(context.Context, *Turn, *model.TurnState) (*Turn, error) {
	return func(ctx context.Context, out *Turn, state *model.TurnState) (*Turn, error) {
		if out.Decision != nil {
			state.TotalCostUSD += out.Decision.CostUSD
			logx.Debug().
				Str("correlation_id", state.CorrelationID).
				Str("conversation_id", state.ConversationID).
				Str("node", NodeClassify).
				Float64("turn_cost_usd", state.TotalCostUSD).
				Msg("LLM usage")
		}
		return out, nil
	}
}

// NewValidateNode gates the model decision on the action registry and turns
// it into a typed action.
func NewValidateNode(v *validator.Validator, metrics *observers.Metrics) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, turn *Turn) (*Turn, error) {
		d := turn.Decision
		if d == nil {
			turn.Action = actions.SendTextReply{Message: classifier.TransportMessage}
			return turn, nil
		}
		res := v.Validate(d.Action, d.Arguments)
		if !res.OK {
			metrics.Rejection(d.Action)
			logx.Info().
				Str("action", d.Action).
				Str("field", res.Field).
				Str("user_id", turn.Event.UserID).
				Msg("model decision rejected")
			turn.Rejection = res.Message
			turn.Path = model.PathRejected
			return turn, nil
		}
		act, err := actions.Decode(d.Action, d.Arguments)
		if err != nil {
			logx.Warn().Err(err).Str("action", d.Action).Msg("validated decision did not decode")
			act = actions.SendTextReply{Message: fallbackText(d)}
		}
		turn.Action = act
		return turn, nil
	})
}

// NewValidateCondition ends rejected turns without dispatching.
func NewValidateCondition() func(context.Context, *Turn) (string, error) {
	return func(ctx context.Context, turn *Turn) (string, error) {
		if turn.Rejection != "" {
			return NodeReject, nil
		}
		return NodeDispatch, nil
	}
}

// NewRejectNode sends the validator message. State is not saved.
func NewRejectNode(messenger model.Messenger) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, turn *Turn) (*Turn, error) {
		if err := messenger.SendText(ctx, turn.Event.Recipient(), turn.Rejection); err != nil {
			logx.Error().Err(err).Str("user_id", turn.Event.UserID).Msg("failed to send rejection message")
		}
		turn.Result = dispatcher.Result{State: turn.State, Transcript: []string{turn.Rejection}}
		return turn, nil
	})
}

func NewDispatchNode(d Dispatcher, metrics *observers.Metrics) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, turn *Turn) (*Turn, error) {
		turn.Result = d.Dispatch(ctx, turn.Event.Recipient(), turn.Action, turn.State)
		if turn.Result.Failed {
			metrics.HandlerFailure(turn.Action.Name())
		}
		return turn, nil
	})
}

// NewPersistNode records the exchange and saves the resulting state. A save
// failure is logged; the user already has their reply.
func NewPersistNode(mm *conversations.Manager) *compose.Lambda {
	return compose.InvokableLambda(func(ctx context.Context, turn *Turn) (*Turn, error) {
		next := turn.Result.State
		if next == nil {
			next = turn.State
		}
		mm.Record(next, turn.Event.Utterance(), strings.Join(turn.Result.Transcript, "\n"))
		if err := mm.Save(ctx, turn.Event.Key(), next); err != nil {
			logx.Error().
				Err(err).
				Str("user_id", turn.Event.UserID).
				Str("platform", string(turn.Event.Platform)).
				Msg("Error saving conversation state")
		}
		turn.Result.State = next
		return turn, nil
	})
}

// NewPathPostHandler copies the routing path and cost back onto the turn.
func NewPathPostHandler() func(context.Context, *Turn, *model.TurnState) (*Turn, error) {
	return func(ctx context.Context, out *Turn, state *model.TurnState) (*Turn, error) {
		state.Path = out.Path
		out.CostUSD = state.TotalCostUSD
		return out, nil
	}
}

func fallbackText(d *classifier.Decision) string {
	if s := strings.TrimSpace(d.AssistantText); s != "" {
		return s
	}
	return classifier.NoToolMessage
}
