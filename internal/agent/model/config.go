package model

import "time"

// ================ Config ================
type ConversationConfig struct {
	// TTL is the idle expiry of a stored conversation. Zero keeps it forever.
	TTL             string `envconfig:"CONVERSATION_TTL" default:"0s"`
	HistoryMaxTurns int    `envconfig:"CONVERSATION_HISTORY_MAX_TURNS" default:"10"`
}

type ClassifierModelConfig struct {
	Model        string        `envconfig:"CLASSIFIER_MODEL" default:"gemini-2.5-flash"`
	MaxTokens    int           `envconfig:"CLASSIFIER_MAX_TOKENS" default:"1024"`
	Temperature  float32       `envconfig:"CLASSIFIER_TEMPERATURE" default:"0.1"`
	Timeout      time.Duration `envconfig:"CLASSIFIER_TIMEOUT" default:"15s"`
	HistoryTurns int           `envconfig:"CLASSIFIER_HISTORY_TURNS" default:"6"`
}

type ResponderModelConfig struct {
	Enabled     bool    `envconfig:"RESPONDER_ENABLED" default:"true"`
	Model       string  `envconfig:"RESPONDER_MODEL" default:"gemini-2.5-flash-lite"`
	MaxTokens   int     `envconfig:"RESPONDER_MAX_TOKENS" default:"256"`
	Temperature float32 `envconfig:"RESPONDER_TEMPERATURE" default:"0.7"`
}

type RestaurantConfig struct {
	Name          string  `envconfig:"RESTAURANT_NAME" default:"Momo House"`
	Currency      string  `envconfig:"RESTAURANT_CURRENCY" default:"Rs."`
	DepositRate   float64 `envconfig:"RESTAURANT_DEPOSIT_RATE" default:"0.20"`
	OrderIDPrefix string  `envconfig:"RESTAURANT_ORDER_ID_PREFIX" default:"MH"`
	HistoryLimit  int     `envconfig:"RESTAURANT_ORDER_HISTORY_LIMIT" default:"5"`
}

// ParseTTL converts the configured TTL; empty means no expiry.
func (c ConversationConfig) ParseTTL() (time.Duration, error) {
	if c.TTL == "" {
		return 0, nil
	}
	return time.ParseDuration(c.TTL)
}
