package conversations

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chative-ordering/orderbot/internal/agent/model"
)

type failingRepo struct{}

func (failingRepo) Load(context.Context, model.ConversationKey) (*model.ConversationState, error) {
	return nil, errors.New("connection refused")
}
func (failingRepo) Save(context.Context, model.ConversationKey, *model.ConversationState) error {
	return errors.New("connection refused")
}
func (failingRepo) Clear(context.Context, model.ConversationKey) error { return nil }

type staticRepo struct{ state *model.ConversationState }

func (r *staticRepo) Load(context.Context, model.ConversationKey) (*model.ConversationState, error) {
	return r.state, nil
}
func (r *staticRepo) Save(_ context.Context, _ model.ConversationKey, s *model.ConversationState) error {
	r.state = s
	return nil
}
func (r *staticRepo) Clear(context.Context, model.ConversationKey) error {
	r.state = nil
	return nil
}

var key = model.ConversationKey{UserID: "u1", Platform: model.PlatformWhatsApp}

func TestLoadDegradesToDefault(t *testing.T) {
	m := NewManager(failingRepo{}, model.ConversationConfig{})
	s := m.Load(context.Background(), key)
	assert.Equal(t, model.StageInitial, s.Stage)
	assert.Empty(t, s.Cart)
}

func TestLoadNormalizesPartialRecord(t *testing.T) {
	m := NewManager(&staticRepo{state: &model.ConversationState{}}, model.ConversationConfig{})
	s := m.Load(context.Background(), key)
	assert.Equal(t, model.StageInitial, s.Stage)
	assert.NotNil(t, s.Cart)
	assert.NotNil(t, s.History)
}

func TestRecordBoundsHistory(t *testing.T) {
	repo := &staticRepo{}
	m := NewManager(repo, model.ConversationConfig{HistoryMaxTurns: 4})
	s := model.NewConversationState()
	for i := 0; i < 5; i++ {
		m.Record(s, "user says", "bot says")
	}
	assert.Len(t, s.History, 4)

	m.now = func() time.Time { return time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC) }
	require.NoError(t, m.Save(context.Background(), key, s))
	assert.Equal(t, time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC), repo.state.UpdatedAt)
}

func TestHistoryMessages(t *testing.T) {
	entries := []model.HistoryEntry{
		{Role: model.RoleUser, Content: "hi"},
		{Role: model.RoleAssistant, Content: "hello"},
		{Role: model.RoleUser, Content: ""},
		{Role: model.RoleUser, Content: "menu"},
	}
	msgs := HistoryMessages(entries, 2)
	require.Len(t, msgs, 2)
	assert.Equal(t, schema.Assistant, msgs[0].Role)
	assert.Equal(t, "menu", msgs[1].Content)

	assert.Len(t, HistoryMessages(entries, 0), 3)
}

func TestLockSerializesSameKey(t *testing.T) {
	m := NewManager(&staticRepo{}, model.ConversationConfig{})
	ctx := context.Background()

	var inside, maxInside int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := m.Lock(ctx, key)
			require.NoError(t, err)
			n := atomic.AddInt32(&inside, 1)
			for {
				cur := atomic.LoadInt32(&maxInside)
				if n <= cur || atomic.CompareAndSwapInt32(&maxInside, cur, n) {
					break
				}
			}
			time.Sleep(time.Millisecond)
			atomic.AddInt32(&inside, -1)
			unlock()
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), maxInside)
	assert.Equal(t, 0, m.locks.size())
}

func TestLockDifferentKeysDoNotBlock(t *testing.T) {
	m := NewManager(&staticRepo{}, model.ConversationConfig{})
	ctx := context.Background()

	unlockA, err := m.Lock(ctx, key)
	require.NoError(t, err)
	defer unlockA()

	other := model.ConversationKey{UserID: "u2", Platform: model.PlatformWhatsApp}
	unlockB, err := m.Lock(ctx, other)
	require.NoError(t, err)
	unlockB()
}

func TestLockHonorsContext(t *testing.T) {
	m := NewManager(&staticRepo{}, model.ConversationConfig{})
	unlock, err := m.Lock(context.Background(), key)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err = m.Lock(ctx, key)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	unlock()
	unlock()
	assert.Equal(t, 0, m.locks.size())
}
