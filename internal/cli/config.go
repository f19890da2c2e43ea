package cli

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/chative-ordering/orderbot/internal/agent/model"
	"github.com/chative-ordering/orderbot/internal/core"
	logx "github.com/chative-ordering/orderbot/pkg/logger"
	pkgnats "github.com/chative-ordering/orderbot/pkg/nats"
	pkgpostgres "github.com/chative-ordering/orderbot/pkg/postgres"
	pkgredis "github.com/chative-ordering/orderbot/pkg/redis"
)

// AppConfig defines all configurable parameters, sourced from environment
// variables (loaded from .env for local runs).
type AppConfig struct {
	Env string `envconfig:"APP_ENV" default:"development"`

	// Infrastructure
	Redis    pkgredis.Config
	Postgres pkgpostgres.Config
	NATS     pkgnats.Config

	// LLM provider
	APIKey  string `envconfig:"GEMINI_API_KEY"`
	BaseURL string `envconfig:"GEMINI_BASE_URL"`

	// Agent configs
	Classifier   model.ClassifierModelConfig
	Responder    model.ResponderModelConfig
	Conversation model.ConversationConfig
	Restaurant   model.RestaurantConfig
}

func (c AppConfig) Environment() core.Environment {
	return core.ParseEnvironment(c.Env)
}

// loadConfig reads .env (when present) and the process environment.
func loadConfig(envFile string) (*AppConfig, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			logx.Debug().Err(err).Str("file", envFile).Msg("no env file loaded")
		}
	}

	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process environment config: %w", err)
	}
	return &cfg, nil
}
