package model

// TurnState stores per-invocation state for the Eino Graph.
// It is registered as Graph Local State via compose.WithGenLocalState and is
// only touched inside state handlers or compose.ProcessState.
type TurnState struct {
	CorrelationID  string
	ConversationID string
	Path           string

	// Accumulated total LLM cost (USD) across model invocations for this turn
	TotalCostUSD float64
}

const (
	PathFast     = "fast"
	PathSlow     = "slow"
	PathRejected = "rejected"
)
