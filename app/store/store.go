package store

import (
	"context"
	"time"

	"github.com/leli-rentals/leli-assist/pkg/types"
)

type ChatSessionStore interface {
	Create(ctx context.Context, data types.ChatSession) error
	Get(ctx context.Context, sessionID string) (*types.ChatSession, error)
	Update(ctx context.Context, data types.ChatSession) error
	List(ctx context.Context, userID string, page, pageSize uint64) ([]types.ChatSession, error)
	Total(ctx context.Context, userID string) (int64, error)
	ListBeforeTime(ctx context.Context, t time.Time, page, pageSize uint64) ([]types.ChatSession, error)
	Delete(ctx context.Context, sessionID string) error
}

type ChatMessageStore interface {
	Create(ctx context.Context, data types.ChatMessage) error
	Get(ctx context.Context, messageID string) (*types.ChatMessage, error)
	ListBySession(ctx context.Context, sessionID string, page, pageSize uint64) ([]types.ChatMessage, error)
	Total(ctx context.Context, sessionID string) (int64, error)
	UpdateMetadata(ctx context.Context, messageID string, meta types.MessageMetadata) error
	DeleteBySession(ctx context.Context, sessionID string) error
}

type AccountStore interface {
	Create(ctx context.Context, data types.AccountProfile) error
	Get(ctx context.Context, userID string) (*types.AccountProfile, error)
	UpdateVerification(ctx context.Context, userID string, isVerified, needsVerification bool, deadline int64) error
	Suspend(ctx context.Context, userID, reason string, suspendedAt int64) error
	ListNeedingVerification(ctx context.Context, page, pageSize uint64) ([]types.AccountProfile, error)
}

type AccessTokenStore interface {
	Create(ctx context.Context, data types.AccessToken) error
	GetAccessToken(ctx context.Context, token string) (*types.AccessToken, error)
	ClearUserTokens(ctx context.Context, userID string) error
}

// Store is the provider surface the logic layer depends on; sqlstore
// implements it, tests swap in fakes.
type Store interface {
	Transaction(ctx context.Context, next func(ctx context.Context) error) error
	ChatSessionStore() ChatSessionStore
	ChatMessageStore() ChatMessageStore
	AccountStore() AccountStore
	AccessTokenStore() AccessTokenStore
}
