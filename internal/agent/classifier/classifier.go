package classifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/chative-ordering/orderbot/internal/agent/actions"
	"github.com/chative-ordering/orderbot/internal/agent/graph/conversations"
	"github.com/chative-ordering/orderbot/internal/agent/graph/parsers"
	"github.com/chative-ordering/orderbot/internal/agent/graph/prompts"
	"github.com/chative-ordering/orderbot/internal/agent/model"
	errx "github.com/chative-ordering/orderbot/internal/core/error"
	logx "github.com/chative-ordering/orderbot/pkg/logger"
)

// ErrMalformedOutput is returned when the model keeps producing arguments
// that are not valid JSON after the repair attempt.
var ErrMalformedOutput = errors.New("model produced malformed tool arguments")

const (
	maxAttempts = 2

	defaultTimeout      = 15 * time.Second
	defaultHistoryTurns = 6

	HallucinationMessage = "I'm sorry, I encountered an internal error. Could you please rephrase that?"
	TransportMessage     = "Sorry, I'm having trouble understanding. Could you try again?"
	NoToolMessage        = "How can I help you today?"

	correctionMessage = "Error: Invalid JSON format in arguments. Please regenerate with valid JSON."
)

// Source tells where a Decision came from.
type Source string

const (
	SourceModel         Source = "model"
	SourceNoTool        Source = "no_tool"
	SourceHallucination Source = "hallucination"
	SourceTransport     Source = "transport"
)

// Decision is the classifier's choice of one action plus raw arguments.
type Decision struct {
	Action        string
	Arguments     map[string]any
	AssistantText string
	ToolCallID    string
	Source        Source
	Outcome       RetryOutcome
	Attempts      int
	CostUSD       float64
}

type Config struct {
	ModelName      string
	RestaurantName string
	Timeout        time.Duration
	HistoryTurns   int
}

type Classifier struct {
	chatModel einomodel.BaseChatModel
	registry  *actions.Registry
	tools     []*schema.ToolInfo
	config    Config
}

func New(chatModel einomodel.BaseChatModel, registry *actions.Registry, config Config) *Classifier {
	if config.Timeout <= 0 {
		config.Timeout = defaultTimeout
	}
	if config.HistoryTurns <= 0 {
		config.HistoryTurns = defaultHistoryTurns
	}
	return &Classifier{
		chatModel: chatModel,
		registry:  registry,
		tools:     registry.ModelTools(),
		config:    config,
	}
}

// malformedError carries the rejected assistant message so the next attempt
// can show it back to the model.
type malformedError struct {
	reply *schema.Message
	id    string
	err   error
}

func (e *malformedError) Error() string { return e.err.Error() }
func (e *malformedError) Unwrap() error { return e.err }

type transportError struct{ err error }

func (e *transportError) Error() string { return e.err.Error() }
func (e *transportError) Unwrap() error { return e.err }

// Classify maps one user utterance to a Decision. Transport failures and
// timeouts resolve to a text reply; only ErrMalformedOutput is returned.
func (c *Classifier) Classify(ctx context.Context, text string, state *model.ConversationState) (Decision, error) {
	messages, err := c.buildMessages(ctx, text, state)
	if err != nil {
		return Decision{}, err
	}

	// one deadline covers the repair attempt too
	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	var cost float64
	result := Retry(ctx, maxAttempts, func(ctx context.Context, attempt int, prev error) (Decision, error) {
		var bad *malformedError
		if errors.As(prev, &bad) {
			messages = append(messages, bad.reply, schema.ToolMessage(correctionMessage, bad.id))
		}

		reply, err := c.generate(ctx, messages)
		if err != nil {
			return Decision{}, &transportError{err: errx.WrapModel(err)}
		}
		if uc, ok := model.MessageCost(reply, c.config.ModelName); ok {
			cost += uc.TotalCost
			logx.Info().
				Str("model", uc.Model).
				Int("attempt", attempt).
				Int("prompt_tokens", uc.PromptTokens).
				Int("completion_tokens", uc.CompletionTokens).
				Float64("cost_usd", uc.TotalCost).
				Msg("classifier usage")
		}
		return c.interpret(reply, attempt)
	}, func(err error) bool {
		var bad *malformedError
		return errors.As(err, &bad)
	})

	decision := result.Value
	decision.Attempts = result.Attempts
	decision.Outcome = result.Outcome
	decision.CostUSD = cost

	if result.Err != nil {
		var te *transportError
		if errors.As(result.Err, &te) || errors.Is(result.Err, context.DeadlineExceeded) || errors.Is(result.Err, context.Canceled) {
			logx.Warn().Err(result.Err).Msg("classifier request failed; replying with fallback text")
			decision.Action = actions.NameSendTextReply
			decision.Arguments = map[string]any{"message": TransportMessage}
			decision.Source = SourceTransport
			return decision, nil
		}
		logx.Error().Err(result.Err).Int("attempts", result.Attempts).Msg("classifier output malformed after retry")
		return decision, fmt.Errorf("%w: %v", ErrMalformedOutput, result.Err)
	}

	logx.Debug().
		Str("action", decision.Action).
		Str("source", string(decision.Source)).
		Str("outcome", string(decision.Outcome)).
		Msg("classifier decision")
	return decision, nil
}

func (c *Classifier) generate(ctx context.Context, messages []*schema.Message) (*schema.Message, error) {
	return c.chatModel.Generate(ctx, messages, einomodel.WithTools(c.tools))
}

func (c *Classifier) interpret(reply *schema.Message, attempt int) (Decision, error) {
	call, ok := parsers.FirstToolCall(reply)
	if !ok {
		msg := ""
		if reply != nil {
			msg = reply.Content
		}
		if msg == "" {
			msg = NoToolMessage
		}
		return Decision{
			Action:        actions.NameSendTextReply,
			Arguments:     map[string]any{"message": msg},
			AssistantText: msg,
			Source:        SourceNoTool,
		}, nil
	}
	if call.ID == "" {
		call.ID = fmt.Sprintf("call_%d", attempt)
	}

	if !c.registry.Has(call.Name) {
		logx.Warn().Str("tool", call.Name).Msg("model selected an unregistered action")
		return Decision{
			Action:     actions.NameSendTextReply,
			Arguments:  map[string]any{"message": HallucinationMessage},
			ToolCallID: call.ID,
			Source:     SourceHallucination,
		}, nil
	}

	args, err := parsers.ParseArguments(call.Arguments)
	if err != nil {
		return Decision{}, &malformedError{reply: withToolCallID(reply, call.ID), id: call.ID, err: err}
	}
	return Decision{
		Action:        call.Name,
		Arguments:     args,
		AssistantText: reply.Content,
		ToolCallID:    call.ID,
		Source:        SourceModel,
	}, nil
}

func (c *Classifier) buildMessages(ctx context.Context, text string, state *model.ConversationState) ([]*schema.Message, error) {
	if state == nil {
		state = model.NewConversationState()
	}
	snapshot := state.Clone()
	snapshot.History = nil
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("marshal state: %w", err)
	}
	return prompts.BuildClassifierMessages(ctx, prompts.ClassifierVars{
		RestaurantName: c.config.RestaurantName,
		State:          string(raw),
		History:        conversations.HistoryMessages(state.History, c.config.HistoryTurns),
		Query:          text,
	})
}

// withToolCallID copies reply so the first tool call carries id.
func withToolCallID(reply *schema.Message, id string) *schema.Message {
	cp := *reply
	cp.ToolCalls = append([]schema.ToolCall{}, reply.ToolCalls...)
	if len(cp.ToolCalls) > 0 {
		cp.ToolCalls[0].ID = id
	}
	return &cp
}
