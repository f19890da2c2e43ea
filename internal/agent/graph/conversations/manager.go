package conversations

import (
	"context"
	"time"

	"github.com/cloudwego/eino/schema"

	"github.com/chative-ordering/orderbot/internal/agent/model"
	logx "github.com/chative-ordering/orderbot/pkg/logger"
)

const defaultHistoryMaxTurns = 10

type Manager struct {
	conversationRepo model.ConversationRepository
	historyMaxTurns  int
	locks            *keyedMutex
	now              func() time.Time
}

func NewManager(conversationRepo model.ConversationRepository, config model.ConversationConfig) *Manager {
	maxTurns := config.HistoryMaxTurns
	if maxTurns <= 0 {
		maxTurns = defaultHistoryMaxTurns
	}
	return &Manager{
		conversationRepo: conversationRepo,
		historyMaxTurns:  maxTurns,
		locks:            newKeyedMutex(),
		now:              time.Now,
	}
}

// Lock serializes turns of one conversation. Call the returned func to release.
func (m *Manager) Lock(ctx context.Context, key model.ConversationKey) (func(), error) {
	return m.locks.Lock(ctx, key.String())
}

// Load returns the stored state. A store failure degrades to a fresh state
// so the turn can still be answered.
func (m *Manager) Load(ctx context.Context, key model.ConversationKey) *model.ConversationState {
	state, err := m.conversationRepo.Load(ctx, key)
	if err != nil {
		logx.Error().
			Err(err).
			Str("user_id", key.UserID).
			Str("platform", string(key.Platform)).
			Msg("Error loading conversation state; using default")
		return model.NewConversationState()
	}
	if state == nil {
		return model.NewConversationState()
	}
	return state.Normalize()
}

// Record appends the turn to the bounded history.
func (m *Manager) Record(state *model.ConversationState, userText, assistantText string) {
	state.AppendHistory(model.RoleUser, userText, m.historyMaxTurns)
	state.AppendHistory(model.RoleAssistant, assistantText, m.historyMaxTurns)
}

func (m *Manager) Save(ctx context.Context, key model.ConversationKey, state *model.ConversationState) error {
	state.UpdatedAt = m.now().UTC()
	return m.conversationRepo.Save(ctx, key, state)
}

func (m *Manager) Reset(ctx context.Context, key model.ConversationKey) error {
	return m.conversationRepo.Clear(ctx, key)
}

// HistoryMessages converts the newest maxTurns history entries into chat messages.
func HistoryMessages(entries []model.HistoryEntry, maxTurns int) []*schema.Message {
	msgs := make([]*schema.Message, 0, len(entries))
	for _, e := range entries {
		if e.Content == "" {
			continue
		}
		switch e.Role {
		case model.RoleUser:
			msgs = append(msgs, schema.UserMessage(e.Content))
		case model.RoleAssistant:
			msgs = append(msgs, schema.AssistantMessage(e.Content, nil))
		}
	}
	if maxTurns <= 0 {
		return msgs
	}
	return trimTail(msgs, maxTurns)
}

// ====================== Helper function ======================
func trimTail(messages []*schema.Message, maxTurns int) []*schema.Message {
	if len(messages) <= maxTurns {
		result := make([]*schema.Message, len(messages))
		copy(result, messages)
		return result
	}
	source := messages[len(messages)-maxTurns:]
	result := make([]*schema.Message, len(source))
	copy(result, source)
	return result
}
