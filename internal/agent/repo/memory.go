package repo

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/chative-ordering/orderbot/internal/agent/model"
)

// MemoryConversationRepository keeps serialized states in process memory.
// It backs offline runs and tests.
type MemoryConversationRepository struct {
	mu     sync.RWMutex
	states map[string][]byte
}

func NewMemoryConversationRepository() *MemoryConversationRepository {
	return &MemoryConversationRepository{states: make(map[string][]byte)}
}

func (r *MemoryConversationRepository) Load(_ context.Context, key model.ConversationKey) (*model.ConversationState, error) {
	r.mu.RLock()
	raw, ok := r.states[key.String()]
	r.mu.RUnlock()
	if !ok {
		return model.NewConversationState(), nil
	}
	var state model.ConversationState
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, fmt.Errorf("unmarshal conversation state: %w", err)
	}
	return state.Normalize(), nil
}

func (r *MemoryConversationRepository) Save(_ context.Context, key model.ConversationKey, state *model.ConversationState) error {
	b, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal conversation state: %w", err)
	}
	r.mu.Lock()
	r.states[key.String()] = b
	r.mu.Unlock()
	return nil
}

func (r *MemoryConversationRepository) Clear(_ context.Context, key model.ConversationKey) error {
	r.mu.Lock()
	delete(r.states, key.String())
	r.mu.Unlock()
	return nil
}

var _ model.ConversationRepository = (*MemoryConversationRepository)(nil)
