package nodes

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/gemini"
	"google.golang.org/genai"

	"github.com/chative-ordering/orderbot/internal/agent/model"
	logx "github.com/chative-ordering/orderbot/pkg/logger"
)

// ChatModelConfig holds the configuration for chat model creation
type ChatModelConfig struct {
	APIKey     string
	BaseURL    string
	Classifier *model.ClassifierModelConfig
	Responder  *model.ResponderModelConfig
}

// ChatModels holds the classifier model and the optional responder model.
type ChatModels struct {
	Classifier          *gemini.ChatModel
	Responder           *gemini.ChatModel
	ClassifierModelName string
	ResponderModelName  string
}

// NewChatModels creates both Gemini chat models over one genai client.
func NewChatModels(ctx context.Context, config ChatModelConfig) (*ChatModels, error) {
	if config.Classifier == nil {
		return nil, fmt.Errorf("classifier model config is nil")
	}

	clientCfg := &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if config.BaseURL != "" {
		clientCfg.HTTPOptions.BaseURL = config.BaseURL
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		logx.Error().Err(err).Msg("Error creating Gemini client")
		return nil, fmt.Errorf("error creating Gemini client: %w", err)
	}

	// Classification runs without thinking.
	classifierMaxTokens := config.Classifier.MaxTokens
	classifierModel, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client:      client,
		Model:       config.Classifier.Model,
		Temperature: &config.Classifier.Temperature,
		MaxTokens:   &classifierMaxTokens,
		ThinkingConfig: &genai.ThinkingConfig{
			IncludeThoughts: false,
			ThinkingBudget:  genai.Ptr(int32(0)),
		},
	})
	if err != nil {
		logx.Error().Err(err).Msg("Error creating classifier model")
		return nil, fmt.Errorf("error creating classifier model: %w", err)
	}

	cms := &ChatModels{
		Classifier:          classifierModel,
		ClassifierModelName: config.Classifier.Model,
	}
	if config.Responder == nil || !config.Responder.Enabled {
		return cms, nil
	}

	responderMaxTokens := config.Responder.MaxTokens
	responderModel, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client:      client,
		Model:       config.Responder.Model,
		Temperature: &config.Responder.Temperature,
		MaxTokens:   &responderMaxTokens,
	})
	if err != nil {
		logx.Error().Err(err).Msg("Error creating responder model")
		return nil, fmt.Errorf("error creating responder model: %w", err)
	}
	cms.Responder = responderModel
	cms.ResponderModelName = config.Responder.Model
	return cms, nil
}
