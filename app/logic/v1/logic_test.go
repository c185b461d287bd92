package v1

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/leli-rentals/leli-assist/app/store"
	"github.com/leli-rentals/leli-assist/pkg/types"
)

type testUserInfo struct {
	token types.AccessToken
}

func (u testUserInfo) GetUserInfo() types.AccessToken {
	return u.token
}

func asUser(userID string) UserInfo {
	return testUserInfo{token: types.AccessToken{UserID: userID, Token: "test-token"}}
}

// memoryStore is an in-memory store.Store for logic tests.
type memoryStore struct {
	sessions *memorySessionStore
	messages *memoryMessageStore
	accounts *memoryAccountStore
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		sessions: &memorySessionStore{byID: make(map[string]types.ChatSession)},
		messages: &memoryMessageStore{byID: make(map[string]types.ChatMessage)},
		accounts: &memoryAccountStore{byID: make(map[string]types.AccountProfile)},
	}
}

func (s *memoryStore) Transaction(ctx context.Context, next func(ctx context.Context) error) error {
	return next(ctx)
}

func (s *memoryStore) ChatSessionStore() store.ChatSessionStore { return s.sessions }
func (s *memoryStore) ChatMessageStore() store.ChatMessageStore { return s.messages }
func (s *memoryStore) AccountStore() store.AccountStore         { return s.accounts }
func (s *memoryStore) AccessTokenStore() store.AccessTokenStore { return nil }

type memorySessionStore struct {
	byID map[string]types.ChatSession
}

func (s *memorySessionStore) Create(ctx context.Context, data types.ChatSession) error {
	s.byID[data.ID] = data
	return nil
}

func (s *memorySessionStore) Get(ctx context.Context, sessionID string) (*types.ChatSession, error) {
	session, ok := s.byID[sessionID]
	if !ok {
		return nil, nil
	}
	return &session, nil
}

func (s *memorySessionStore) Update(ctx context.Context, data types.ChatSession) error {
	if _, ok := s.byID[data.ID]; !ok {
		return fmt.Errorf("session %s not found", data.ID)
	}
	s.byID[data.ID] = data
	return nil
}

func (s *memorySessionStore) List(ctx context.Context, userID string, page, pageSize uint64) ([]types.ChatSession, error) {
	var out []types.ChatSession
	for _, session := range s.byID {
		if session.UserID == userID {
			out = append(out, session)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt > out[j].UpdatedAt })
	return out, nil
}

func (s *memorySessionStore) Total(ctx context.Context, userID string) (int64, error) {
	var total int64
	for _, session := range s.byID {
		if session.UserID == userID {
			total++
		}
	}
	return total, nil
}

func (s *memorySessionStore) ListBeforeTime(ctx context.Context, t time.Time, page, pageSize uint64) ([]types.ChatSession, error) {
	var out []types.ChatSession
	for _, session := range s.byID {
		if session.CreatedAt < t.Unix() {
			out = append(out, session)
		}
	}
	return out, nil
}

func (s *memorySessionStore) Delete(ctx context.Context, sessionID string) error {
	delete(s.byID, sessionID)
	return nil
}

type memoryMessageStore struct {
	byID    map[string]types.ChatMessage
	listErr error
}

func (s *memoryMessageStore) Create(ctx context.Context, data types.ChatMessage) error {
	s.byID[data.ID] = data
	return nil
}

func (s *memoryMessageStore) Get(ctx context.Context, messageID string) (*types.ChatMessage, error) {
	msg, ok := s.byID[messageID]
	if !ok {
		return nil, nil
	}
	return &msg, nil
}

func (s *memoryMessageStore) ListBySession(ctx context.Context, sessionID string, page, pageSize uint64) ([]types.ChatMessage, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	var out []types.ChatMessage
	for _, msg := range s.byID {
		if msg.SessionID == sessionID {
			out = append(out, msg)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Sequence < out[j].Sequence })
	return out, nil
}

func (s *memoryMessageStore) Total(ctx context.Context, sessionID string) (int64, error) {
	var total int64
	for _, msg := range s.byID {
		if msg.SessionID == sessionID {
			total++
		}
	}
	return total, nil
}

func (s *memoryMessageStore) UpdateMetadata(ctx context.Context, messageID string, meta types.MessageMetadata) error {
	msg, ok := s.byID[messageID]
	if !ok {
		return fmt.Errorf("message %s not found", messageID)
	}
	msg.Metadata = meta
	s.byID[messageID] = msg
	return nil
}

func (s *memoryMessageStore) DeleteBySession(ctx context.Context, sessionID string) error {
	for id, msg := range s.byID {
		if msg.SessionID == sessionID {
			delete(s.byID, id)
		}
	}
	return nil
}

type memoryAccountStore struct {
	byID map[string]types.AccountProfile
}

func (s *memoryAccountStore) Create(ctx context.Context, data types.AccountProfile) error {
	s.byID[data.UserID] = data
	return nil
}

func (s *memoryAccountStore) Get(ctx context.Context, userID string) (*types.AccountProfile, error) {
	account, ok := s.byID[userID]
	if !ok {
		return nil, nil
	}
	return &account, nil
}

func (s *memoryAccountStore) UpdateVerification(ctx context.Context, userID string, isVerified, needsVerification bool, deadline int64) error {
	account, ok := s.byID[userID]
	if !ok {
		return fmt.Errorf("account %s not found", userID)
	}
	account.IsVerified = isVerified
	account.NeedsVerification = needsVerification
	account.VerificationDeadline = deadline
	s.byID[userID] = account
	return nil
}

func (s *memoryAccountStore) Suspend(ctx context.Context, userID, reason string, suspendedAt int64) error {
	account, ok := s.byID[userID]
	if !ok {
		return fmt.Errorf("account %s not found", userID)
	}
	account.AccountSuspended = true
	account.SuspensionReason = reason
	account.SuspendedAt = suspendedAt
	s.byID[userID] = account
	return nil
}

func (s *memoryAccountStore) ListNeedingVerification(ctx context.Context, page, pageSize uint64) ([]types.AccountProfile, error) {
	return nil, nil
}

func newTestSessionLogic(stores store.Store, userID string) *SessionLogic {
	return &SessionLogic{
		ctx:      context.Background(),
		stores:   stores,
		UserInfo: asUser(userID),
	}
}
