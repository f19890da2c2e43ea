package responder

import (
	"context"
	"errors"
	"strings"
	"time"

	einomodel "github.com/cloudwego/eino/components/model"

	"github.com/chative-ordering/orderbot/internal/agent/graph/prompts"
	"github.com/chative-ordering/orderbot/internal/agent/model"
	errx "github.com/chative-ordering/orderbot/internal/core/error"
	logx "github.com/chative-ordering/orderbot/pkg/logger"
)

const (
	defaultTimeout = 10 * time.Second
	maxBlurbRunes  = 300
)

var errEmptyReply = errors.New("empty recommendation reply")

// Responder writes short copy for recommendation lists with the response model.
type Responder struct {
	chatModel      einomodel.BaseChatModel
	modelName      string
	restaurantName string
	timeout        time.Duration
}

func New(chatModel einomodel.BaseChatModel, modelName, restaurantName string) *Responder {
	return &Responder{
		chatModel:      chatModel,
		modelName:      modelName,
		restaurantName: restaurantName,
		timeout:        defaultTimeout,
	}
}

// RecommendationBlurb returns one friendly sentence introducing items.
func (r *Responder) RecommendationBlurb(ctx context.Context, tag string, items []model.FoodItem) (string, error) {
	msgs, err := prompts.RenderRecommendation(ctx, r.restaurantName, tag, items)
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()
	reply, err := r.chatModel.Generate(ctx, msgs)
	if err != nil {
		return "", errx.WrapModel(err)
	}
	if uc, ok := model.MessageCost(reply, r.modelName); ok {
		logx.Info().
			Str("model", uc.Model).
			Int("total_tokens", uc.TotalTokens).
			Float64("cost_usd", uc.TotalCost).
			Msg("responder usage")
	}

	text := ""
	if reply != nil {
		text = strings.TrimSpace(reply.Content)
	}
	if text == "" {
		return "", errEmptyReply
	}
	if rs := []rune(text); len(rs) > maxBlurbRunes {
		text = string(rs[:maxBlurbRunes])
	}
	return text, nil
}
