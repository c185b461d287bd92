package process

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leli-rentals/leli-assist/app/store"
	"github.com/leli-rentals/leli-assist/pkg/types"
)

type fakeStore struct {
	sessions *fakeSessionStore
	messages *fakeMessageStore
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		sessions: &fakeSessionStore{byID: make(map[string]types.ChatSession)},
		messages: &fakeMessageStore{bySession: make(map[string][]types.ChatMessage)},
	}
}

func (s *fakeStore) Transaction(ctx context.Context, next func(ctx context.Context) error) error {
	return next(ctx)
}

func (s *fakeStore) ChatSessionStore() store.ChatSessionStore { return s.sessions }
func (s *fakeStore) ChatMessageStore() store.ChatMessageStore { return s.messages }
func (s *fakeStore) AccountStore() store.AccountStore         { return nil }
func (s *fakeStore) AccessTokenStore() store.AccessTokenStore { return nil }

type fakeSessionStore struct {
	byID map[string]types.ChatSession
}

func (s *fakeSessionStore) Create(ctx context.Context, data types.ChatSession) error {
	s.byID[data.ID] = data
	return nil
}

func (s *fakeSessionStore) Get(ctx context.Context, sessionID string) (*types.ChatSession, error) {
	session, ok := s.byID[sessionID]
	if !ok {
		return nil, nil
	}
	return &session, nil
}

func (s *fakeSessionStore) Update(ctx context.Context, data types.ChatSession) error {
	s.byID[data.ID] = data
	return nil
}

func (s *fakeSessionStore) List(ctx context.Context, userID string, page, pageSize uint64) ([]types.ChatSession, error) {
	return nil, nil
}

func (s *fakeSessionStore) Total(ctx context.Context, userID string) (int64, error) {
	return int64(len(s.byID)), nil
}

func (s *fakeSessionStore) ListBeforeTime(ctx context.Context, t time.Time, page, pageSize uint64) ([]types.ChatSession, error) {
	var out []types.ChatSession
	for _, session := range s.byID {
		if session.CreatedAt < t.Unix() {
			out = append(out, session)
		}
		if uint64(len(out)) == pageSize {
			break
		}
	}
	return out, nil
}

func (s *fakeSessionStore) Delete(ctx context.Context, sessionID string) error {
	delete(s.byID, sessionID)
	return nil
}

type fakeMessageStore struct {
	bySession map[string][]types.ChatMessage
}

func (s *fakeMessageStore) Create(ctx context.Context, data types.ChatMessage) error {
	s.bySession[data.SessionID] = append(s.bySession[data.SessionID], data)
	return nil
}

func (s *fakeMessageStore) Get(ctx context.Context, messageID string) (*types.ChatMessage, error) {
	return nil, nil
}

func (s *fakeMessageStore) ListBySession(ctx context.Context, sessionID string, page, pageSize uint64) ([]types.ChatMessage, error) {
	return s.bySession[sessionID], nil
}

func (s *fakeMessageStore) Total(ctx context.Context, sessionID string) (int64, error) {
	return int64(len(s.bySession[sessionID])), nil
}

func (s *fakeMessageStore) UpdateMetadata(ctx context.Context, messageID string, meta types.MessageMetadata) error {
	return nil
}

func (s *fakeMessageStore) DeleteBySession(ctx context.Context, sessionID string) error {
	delete(s.bySession, sessionID)
	return nil
}

func TestSessionCleanupDeletesOldSessions(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	stores := newFakeStore()

	old := types.ChatSession{ID: "old", UserID: "u1", CreatedAt: now.AddDate(0, 0, -40).Unix()}
	fresh := types.ChatSession{ID: "fresh", UserID: "u1", CreatedAt: now.AddDate(0, 0, -5).Unix()}
	require.NoError(t, stores.sessions.Create(context.Background(), old))
	require.NoError(t, stores.sessions.Create(context.Background(), fresh))
	require.NoError(t, stores.messages.Create(context.Background(), types.ChatMessage{ID: "m1", SessionID: "old"}))
	require.NoError(t, stores.messages.Create(context.Background(), types.ChatMessage{ID: "m2", SessionID: "fresh"}))

	deleted, err := NewSessionCleanup(stores, 30).Run(context.Background(), now)

	require.NoError(t, err)
	assert.Equal(t, 1, deleted)
	assert.NotContains(t, stores.sessions.byID, "old")
	assert.Contains(t, stores.sessions.byID, "fresh")
	assert.NotContains(t, stores.messages.bySession, "old")
	assert.Contains(t, stores.messages.bySession, "fresh")
}

func TestSessionCleanupNothingToDelete(t *testing.T) {
	now := time.Now()
	stores := newFakeStore()
	require.NoError(t, stores.sessions.Create(context.Background(), types.ChatSession{ID: "s1", CreatedAt: now.Unix()}))

	deleted, err := NewSessionCleanup(stores, 30).Run(context.Background(), now)

	require.NoError(t, err)
	assert.Equal(t, 0, deleted)
	assert.Contains(t, stores.sessions.byID, "s1")
}
