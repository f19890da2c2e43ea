package observers

import (
	"context"
	"errors"
	"strings"
	"testing"

	einocb "github.com/cloudwego/eino/callbacks"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.Turn("fast")
	m.Turn("fast")
	m.Turn("slow")
	m.Decision("model", "success", 0.001)
	m.Rejection("add_item_by_name")
	m.HandlerFailure("show_food_menu")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.turns.WithLabelValues("fast")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.decisions.WithLabelValues("model", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.rejections.WithLabelValues("add_item_by_name")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.handlerFailures.WithLabelValues("show_food_menu")))
	assert.InDelta(t, 0.001, testutil.ToFloat64(m.classifierCostUSD), 1e-12)

	n, err := testutil.GatherAndCount(reg, "orderbot_turns_total")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.Turn("fast")
		m.Decision("model", "success", 1)
		m.Rejection("x")
		m.HandlerFailure("x")
	})
}

func TestCallbacksDoNotAlterContext(t *testing.T) {
	handlers := NewAllCallbacks()
	require.Len(t, handlers, 2)

	ctx := context.Background()
	info := &einocb.RunInfo{Name: "classify", Type: "Gemini", Component: "ChatModel"}
	in := &model.CallbackInput{Messages: []*schema.Message{schema.UserMessage("menu please")}}
	out := &model.CallbackOutput{Message: &schema.Message{
		Role:      schema.Assistant,
		ToolCalls: []schema.ToolCall{{Function: schema.FunctionCall{Name: "show_food_menu"}}},
	}}

	for _, h := range handlers {
		assert.NotPanics(t, func() {
			c := h.OnStart(ctx, info, in)
			c = h.OnEnd(c, info, out)
			h.OnError(c, info, errors.New("boom"))
		})
	}
}

func TestClip(t *testing.T) {
	assert.Equal(t, "short", clip("short"))
	long := strings.Repeat("x", maxLoggedContent+10)
	assert.Equal(t, maxLoggedContent+1, len([]rune(clip(long))))
}

func TestLastUserContent(t *testing.T) {
	msgs := []*schema.Message{
		schema.SystemMessage("sys"),
		schema.UserMessage(" first "),
		nil,
		schema.AssistantMessage("ok", nil),
		schema.UserMessage(" second "),
	}
	assert.Equal(t, "second", lastUserContent(msgs))
	assert.Equal(t, "", lastUserContent(nil))
}
