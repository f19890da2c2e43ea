package classifier

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chative-ordering/orderbot/internal/agent/actions"
	"github.com/chative-ordering/orderbot/internal/agent/model"
)

type reply struct {
	msg *schema.Message
	err error
}

// scriptedModel returns its replies in order and records every request.
type scriptedModel struct {
	mu       sync.Mutex
	replies  []reply
	requests [][]*schema.Message
	toolSets [][]*schema.ToolInfo
	block    bool
	delay    time.Duration
}

func (m *scriptedModel) Generate(ctx context.Context, input []*schema.Message, opts ...einomodel.Option) (*schema.Message, error) {
	m.mu.Lock()
	m.requests = append(m.requests, append([]*schema.Message{}, input...))
	m.toolSets = append(m.toolSets, einomodel.GetCommonOptions(&einomodel.Options{}, opts...).Tools)
	var r reply
	if len(m.replies) > 0 {
		r = m.replies[0]
		m.replies = m.replies[1:]
	}
	m.mu.Unlock()
	if m.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return r.msg, r.err
}

func (m *scriptedModel) Stream(context.Context, []*schema.Message, ...einomodel.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("not supported")
}

func toolReply(name, args string) reply {
	return reply{msg: &schema.Message{
		Role: schema.Assistant,
		ToolCalls: []schema.ToolCall{{
			Function: schema.FunctionCall{Name: name, Arguments: args},
		}},
	}}
}

func newClassifier(m *scriptedModel) *Classifier {
	return New(m, actions.Default(), Config{
		ModelName:      "gemini-2.5-flash",
		RestaurantName: "Momo House",
		Timeout:        time.Second,
	})
}

func TestClassifyToolCall(t *testing.T) {
	m := &scriptedModel{replies: []reply{toolReply("add_item_by_name", `{"name":" Chicken Momo ","quantity":2}`)}}
	d, err := newClassifier(m).Classify(context.Background(), "two chicken momos", model.NewConversationState())
	require.NoError(t, err)

	assert.Equal(t, "add_item_by_name", d.Action)
	assert.Equal(t, "Chicken Momo", d.Arguments["name"])
	assert.Equal(t, float64(2), d.Arguments["quantity"])
	assert.Equal(t, SourceModel, d.Source)
	assert.Equal(t, OutcomeSuccess, d.Outcome)
	assert.Equal(t, "call_1", d.ToolCallID)

	require.Len(t, m.requests, 1)
	msgs := m.requests[0]
	assert.Equal(t, schema.System, msgs[0].Role)
	assert.Contains(t, msgs[0].Content, "Momo House")
	assert.Equal(t, `User message: "two chicken momos"`, msgs[len(msgs)-1].Content)
	assert.NotEmpty(t, m.toolSets[0])
}

func TestClassifyIncludesBoundedHistory(t *testing.T) {
	m := &scriptedModel{replies: []reply{toolReply("show_food_menu", "")}}
	state := model.NewConversationState()
	for i := 0; i < 10; i++ {
		state.AppendHistory(model.RoleUser, "hello", 0)
	}
	c := New(m, actions.Default(), Config{HistoryTurns: 3, Timeout: time.Second})
	_, err := c.Classify(context.Background(), "menu", state)
	require.NoError(t, err)
	// system + 3 history + user message
	assert.Len(t, m.requests[0], 5)
	assert.NotContains(t, m.requests[0][0].Content, `"history"`)
}

func TestClassifyHallucinatedToolIsContained(t *testing.T) {
	m := &scriptedModel{replies: []reply{toolReply("delete_database", `{}`)}}
	d, err := newClassifier(m).Classify(context.Background(), "drop it", model.NewConversationState())
	require.NoError(t, err)

	assert.Equal(t, actions.NameSendTextReply, d.Action)
	assert.Equal(t, HallucinationMessage, d.Arguments["message"])
	assert.Equal(t, SourceHallucination, d.Source)
	assert.Len(t, m.requests, 1)
}

func TestClassifyRepairsMalformedArgumentsOnce(t *testing.T) {
	m := &scriptedModel{replies: []reply{
		toolReply("add_item_by_name", `{"name": "Veg Momo"`),
		toolReply("add_item_by_name", `{"name": "Veg Momo"}`),
	}}
	d, err := newClassifier(m).Classify(context.Background(), "veg momo", model.NewConversationState())
	require.NoError(t, err)

	assert.Equal(t, OutcomeRetried, d.Outcome)
	assert.Equal(t, 2, d.Attempts)
	assert.Equal(t, "Veg Momo", d.Arguments["name"])

	require.Len(t, m.requests, 2)
	second := m.requests[1]
	last := second[len(second)-1]
	assert.Equal(t, schema.Tool, last.Role)
	assert.Equal(t, "call_1", last.ToolCallID)
	assert.Contains(t, last.Content, "Invalid JSON")
	assert.Equal(t, schema.Assistant, second[len(second)-2].Role)
}

func TestClassifyMalformedTwiceFails(t *testing.T) {
	m := &scriptedModel{replies: []reply{
		toolReply("add_item_by_name", `not json`),
		toolReply("add_item_by_name", `{broken`),
	}}
	_, err := newClassifier(m).Classify(context.Background(), "veg momo", model.NewConversationState())
	assert.ErrorIs(t, err, ErrMalformedOutput)
	assert.Len(t, m.requests, 2)
}

func TestClassifyNoToolCall(t *testing.T) {
	m := &scriptedModel{replies: []reply{{msg: schema.AssistantMessage("We open at 10am.", nil)}}}
	d, err := newClassifier(m).Classify(context.Background(), "when do you open", model.NewConversationState())
	require.NoError(t, err)
	assert.Equal(t, actions.NameSendTextReply, d.Action)
	assert.Equal(t, "We open at 10am.", d.Arguments["message"])
	assert.Equal(t, SourceNoTool, d.Source)

	m = &scriptedModel{replies: []reply{{msg: schema.AssistantMessage("", nil)}}}
	d, err = newClassifier(m).Classify(context.Background(), "hmm", model.NewConversationState())
	require.NoError(t, err)
	assert.Equal(t, NoToolMessage, d.Arguments["message"])
}

func TestClassifyTransportFailure(t *testing.T) {
	m := &scriptedModel{replies: []reply{{err: errors.New("503 unavailable")}}}
	d, err := newClassifier(m).Classify(context.Background(), "menu", model.NewConversationState())
	require.NoError(t, err)
	assert.Equal(t, actions.NameSendTextReply, d.Action)
	assert.Equal(t, TransportMessage, d.Arguments["message"])
	assert.Equal(t, SourceTransport, d.Source)
	assert.Len(t, m.requests, 1)
}

func TestClassifyTimeout(t *testing.T) {
	m := &scriptedModel{block: true}
	c := New(m, actions.Default(), Config{Timeout: 20 * time.Millisecond})
	d, err := c.Classify(context.Background(), "menu", model.NewConversationState())
	require.NoError(t, err)
	assert.Equal(t, SourceTransport, d.Source)
	assert.Equal(t, TransportMessage, d.Arguments["message"])
}

func TestClassifyTimeoutCoversRepairAttempt(t *testing.T) {
	m := &scriptedModel{
		delay: 70 * time.Millisecond,
		replies: []reply{
			toolReply("add_item_by_name", `{"name": "Veg Momo"`),
			toolReply("add_item_by_name", `{"name": "Veg Momo"}`),
		},
	}
	c := New(m, actions.Default(), Config{Timeout: 100 * time.Millisecond})

	start := time.Now()
	d, err := c.Classify(context.Background(), "veg momo", model.NewConversationState())
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.Equal(t, SourceTransport, d.Source)
	assert.Equal(t, TransportMessage, d.Arguments["message"])
	assert.Less(t, elapsed, 190*time.Millisecond)
}

func TestClassifyAccumulatesCost(t *testing.T) {
	r := toolReply("show_food_menu", "{}")
	r.msg.ResponseMeta = &schema.ResponseMeta{Usage: &schema.TokenUsage{PromptTokens: 1_000_000, CompletionTokens: 0}}
	m := &scriptedModel{replies: []reply{r}}
	d, err := newClassifier(m).Classify(context.Background(), "menu", model.NewConversationState())
	require.NoError(t, err)
	assert.InDelta(t, 0.30, d.CostUSD, 1e-9)
}
