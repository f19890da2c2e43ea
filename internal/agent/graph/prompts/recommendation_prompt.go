package prompts

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"

	"github.com/chative-ordering/orderbot/internal/agent/model"
)

//go:embed template/recommendation_prompt.txt
var recommendationSystemPrompt string

// RenderRecommendation builds the messages asking the response model for a
// one-line blurb about items.
func RenderRecommendation(ctx context.Context, restaurantName, tag string, items []model.FoodItem) ([]*schema.Message, error) {
	tpl := prompt.FromMessages(
		schema.GoTemplate,
		schema.SystemMessage(recommendationSystemPrompt),
		schema.UserMessage("Write the sentence now."),
	)
	msgs, err := tpl.Format(ctx, map[string]any{
		"RestaurantName": restaurantName,
		"Tag":            tag,
		"Random":         tag == "" || tag == model.RandomTag,
		"Items":          items,
	})
	if err != nil {
		return nil, fmt.Errorf("recommendation prompt render: %w", err)
	}
	if len(msgs) == 0 || msgs[0] == nil {
		return nil, fmt.Errorf("recommendation prompt render: empty result")
	}
	return msgs, nil
}
