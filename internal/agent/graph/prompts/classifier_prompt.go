package prompts

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"
)

//go:embed template/classifier_prompt.txt
var classifierSystemPrompt string

// ClassifierVars are the inputs of the classifier prompt.
type ClassifierVars struct {
	RestaurantName string
	// State is the serialized conversation state.
	State   string
	History []*schema.Message
	Query   string
}

// BuildClassifierMessages renders the system prompt, bounded history and the
// new user message via the Eino prompt component (emits prompt callbacks).
func BuildClassifierMessages(ctx context.Context, vars ClassifierVars) ([]*schema.Message, error) {
	tpl := prompt.FromMessages(
		schema.GoTemplate,
		schema.SystemMessage(classifierSystemPrompt),
		schema.MessagesPlaceholder("history", true),
		schema.UserMessage(`User message: "{{.Query}}"`),
	)
	history := vars.History
	if history == nil {
		history = []*schema.Message{}
	}
	msgs, err := tpl.Format(ctx, map[string]any{
		"RestaurantName": vars.RestaurantName,
		"State":          vars.State,
		"Query":          vars.Query,
		"history":        history,
	})
	if err != nil {
		return nil, fmt.Errorf("classifier prompt render: %w", err)
	}
	if len(msgs) == 0 || msgs[0] == nil {
		return nil, fmt.Errorf("classifier prompt render: empty result")
	}
	return msgs, nil
}
