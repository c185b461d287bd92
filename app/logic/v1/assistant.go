package v1

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/leli-rentals/leli-assist/app/core"
	"github.com/leli-rentals/leli-assist/app/store"
	"github.com/leli-rentals/leli-assist/pkg/assistant"
	"github.com/leli-rentals/leli-assist/pkg/errors"
	"github.com/leli-rentals/leli-assist/pkg/i18n"
	"github.com/leli-rentals/leli-assist/pkg/types"
	"github.com/leli-rentals/leli-assist/pkg/utils"
)

const (
	responseCacheKeyPrefix = "assistant:response:"

	escalationReasonAuto = "assistant_rules"
)

type AssistantLogic struct {
	ctx        context.Context
	stores     store.Store
	cache      types.Cache
	limiter    *core.Limiter
	cacheTTL   time.Duration
	classifier assistant.Classifier
	UserInfo

	sessions *SessionLogic
}

func NewAssistantLogic(ctx context.Context, core *core.Core) *AssistantLogic {
	return &AssistantLogic{
		ctx:        ctx,
		stores:     core.Store(),
		cache:      core.Srv().Cache(),
		limiter:    core.Limiter(),
		cacheTTL:   time.Duration(core.Cfg().Assistant.CacheTTLSecond) * time.Second,
		classifier: assistant.NewKeywordClassifier(),
		UserInfo:   SetupUserInfo(ctx, core),
		sessions:   NewSessionLogic(ctx, core),
	}
}

type ChatTurnResult struct {
	UserMessage      *types.ChatMessage      `json:"user_message"`
	AssistantMessage *types.ChatMessage      `json:"assistant_message"`
	Response         types.AssistantResponse `json:"response"`
}

// SendMessage runs one chat turn: rate limit, classify, escalate or
// answer from cache or compose, persist both sides of the exchange. An internal
// failure after the user message landed degrades to the fallback reply
// instead of an error, the assistant always answers.
func (l *AssistantLogic) SendMessage(sessionID, content string) (*ChatTurnResult, error) {
	session, err := l.sessions.CheckUserChatSession(sessionID)
	if err != nil {
		return nil, err
	}
	if session.Status == types.CHAT_SESSION_STATUS_CLOSED {
		return nil, errors.New("AssistantLogic.SendMessage.closed", i18n.ERROR_SESSION_CLOSED, nil).Code(http.StatusBadRequest)
	}

	if !l.limiter.Allow("chat:" + l.GetUserInfo().UserID) {
		return nil, errors.New("AssistantLogic.SendMessage.ratelimit", i18n.ERROR_TOO_MANY_REQUESTS, nil).Code(http.StatusTooManyRequests)
	}

	userMsg, err := l.sessions.AppendMessage(session, types.MESSAGE_SENDER_USER, content, types.MESSAGE_KIND_TEXT, types.MessageMetadata{})
	if err != nil {
		return nil, err
	}

	response, escalated := l.respond(session, content)

	meta := types.MessageMetadata{
		Confidence:       response.Confidence,
		Category:         response.Category,
		SuggestedActions: response.SuggestedActions,
		QuickReplies:     response.QuickReplies,
		Escalated:        escalated,
	}
	assistantMsg, err := l.sessions.AppendMessage(session, types.MESSAGE_SENDER_ASSISTANT, response.Message, types.MESSAGE_KIND_TEXT, meta)
	if err != nil {
		return nil, err
	}

	return &ChatTurnResult{
		UserMessage:      userMsg,
		AssistantMessage: assistantMsg,
		Response:         response,
	}, nil
}

// respond produces the reply for the appended user message. It never
// fails, internal errors degrade to the fallback response.
func (l *AssistantLogic) respond(session *types.ChatSession, content string) (types.AssistantResponse, bool) {
	history, err := l.stores.ChatMessageStore().ListBySession(l.ctx, session.ID, types.NO_PAGING, types.NO_PAGING)
	if err != nil {
		slog.Error("assistant failed to load session history",
			slog.String("session_id", session.ID),
			slog.Any("error", err))
		return assistant.FallbackResponse(), false
	}

	classification := l.classifier.Classify(content)

	if assistant.ShouldEscalate(content, history, classification) {
		if err := l.sessions.markEscalated(l.ctx, session, escalationReasonAuto); err != nil {
			slog.Error("assistant failed to mark session escalated",
				slog.String("session_id", session.ID),
				slog.Any("error", err))
			return assistant.FallbackResponse(), false
		}
		return assistant.EscalationResponse(), true
	}

	// The cache only answers turns that do not escalate. Identical repeats
	// are exactly what the repeated-question rule watches for.
	if cached, ok := l.cachedResponse(content); ok {
		return cached, false
	}

	response := assistant.Compose(content, classification, false)
	l.storeCachedResponse(content, response)
	return response, false
}

func (l *AssistantLogic) cachedResponse(content string) (types.AssistantResponse, bool) {
	key := responseCacheKeyPrefix + utils.NormalizeKey(content)
	raw, err := l.cache.Get(l.ctx, key)
	if err != nil || raw == "" {
		return types.AssistantResponse{}, false
	}

	var response types.AssistantResponse
	if err = json.Unmarshal([]byte(raw), &response); err != nil {
		return types.AssistantResponse{}, false
	}

	// Popular questions keep their entry warm.
	if err = l.cache.Expire(l.ctx, key, l.cacheTTL); err != nil {
		slog.Warn("assistant failed to refresh cache ttl", slog.Any("error", err))
	}

	response.Category = assistant.CATEGORY_CACHED
	response.Confidence = assistant.CACHED_CONFIDENCE
	return response, true
}

func (l *AssistantLogic) storeCachedResponse(content string, response types.AssistantResponse) {
	raw, err := json.Marshal(response)
	if err != nil {
		return
	}
	if err = l.cache.SetEx(l.ctx, responseCacheKeyPrefix+utils.NormalizeKey(content), string(raw), l.cacheTTL); err != nil {
		slog.Warn("assistant failed to cache response", slog.Any("error", err))
	}
}

// QuickActions returns the shortcut palette, reordered for the session's
// context and the account's verification state when available.
func (l *AssistantLogic) QuickActions(sessionID string) ([]assistant.QuickAction, error) {
	sessionContext := types.SessionContext{}
	if sessionID != "" {
		session, err := l.sessions.CheckUserChatSession(sessionID)
		if err != nil {
			return nil, err
		}
		sessionContext = session.Context
	}

	actions := assistant.PersonalizedQuickActions(sessionContext)

	account, err := l.stores.AccountStore().Get(l.ctx, l.GetUserInfo().UserID)
	if err != nil && err != sql.ErrNoRows {
		slog.Warn("assistant failed to load account for quick actions", slog.Any("error", err))
	}
	if account != nil {
		uc := account.ToUserContext(sessionContext)
		if account.NeedsVerification && !uc.IsVerified {
			for i := range actions {
				if actions[i].ID == "verification" {
					actions[i].Priority = 0
				}
			}
			sort.SliceStable(actions, func(i, j int) bool {
				return actions[i].Priority < actions[j].Priority
			})
		}
	}
	return actions, nil
}
