package v1

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/leli-rentals/leli-assist/app/core"
	"github.com/leli-rentals/leli-assist/app/store"
	"github.com/leli-rentals/leli-assist/pkg/errors"
	"github.com/leli-rentals/leli-assist/pkg/i18n"
	"github.com/leli-rentals/leli-assist/pkg/types"
	"github.com/leli-rentals/leli-assist/pkg/utils"
)

type SessionLogic struct {
	ctx    context.Context
	stores store.Store
	UserInfo
}

func NewSessionLogic(ctx context.Context, core *core.Core) *SessionLogic {
	return &SessionLogic{
		ctx:      ctx,
		stores:   core.Store(),
		UserInfo: SetupUserInfo(ctx, core),
	}
}

// CheckUserChatSession loads a session and verifies it belongs to the
// requesting user.
func (l *SessionLogic) CheckUserChatSession(sessionID string) (*types.ChatSession, error) {
	session, err := l.stores.ChatSessionStore().Get(l.ctx, sessionID)
	if err != nil && err != sql.ErrNoRows {
		return nil, errors.New("SessionLogic.CheckUserChatSession.ChatSessionStore.Get", i18n.ERROR_INTERNAL, err)
	}
	if session == nil || err == sql.ErrNoRows {
		return nil, errors.New("SessionLogic.CheckUserChatSession.notfound", i18n.ERROR_NOT_FOUND, nil).Code(http.StatusNotFound)
	}

	if session.UserID != l.GetUserInfo().UserID {
		return nil, errors.New("SessionLogic.CheckUserChatSession.unauth", i18n.ERROR_PERMISSION_DENIED, nil).Code(http.StatusForbidden)
	}

	return session, nil
}

func (l *SessionLogic) CreateChatSession(sessionContext types.SessionContext, deviceType, referrer string) (*types.ChatSession, error) {
	locale, _ := InjectLanguage(l.ctx)

	now := time.Now().Unix()
	chatSession := types.ChatSession{
		ID:        utils.GenUniqIDStr(),
		UserID:    l.GetUserInfo().UserID,
		Status:    types.CHAT_SESSION_STATUS_ACTIVE,
		CreatedAt: now,
		UpdatedAt: now,
		Context:   sessionContext,
		Metadata: types.SessionMetadata{
			DeviceType: deviceType,
			Referrer:   referrer,
			Locale:     locale,
		},
	}
	if err := l.stores.ChatSessionStore().Create(l.ctx, chatSession); err != nil {
		return nil, errors.New("SessionLogic.CreateChatSession.ChatSessionStore.Create", i18n.ERROR_INTERNAL, err)
	}

	return &chatSession, nil
}

func (l *SessionLogic) ListUserChatSessions(page, pageSize uint64) ([]types.ChatSession, int64, error) {
	list, err := l.stores.ChatSessionStore().List(l.ctx, l.GetUserInfo().UserID, page, pageSize)
	if err != nil {
		return nil, 0, errors.New("SessionLogic.ListUserChatSessions.ChatSessionStore.List", i18n.ERROR_INTERNAL, err)
	}

	total, err := l.stores.ChatSessionStore().Total(l.ctx, l.GetUserInfo().UserID)
	if err != nil {
		return nil, 0, errors.New("SessionLogic.ListUserChatSessions.ChatSessionStore.Total", i18n.ERROR_INTERNAL, err)
	}
	return list, total, nil
}

func (l *SessionLogic) GetSessionMessages(sessionID string, page, pageSize uint64) ([]types.ChatMessage, error) {
	if _, err := l.CheckUserChatSession(sessionID); err != nil {
		return nil, err
	}

	list, err := l.stores.ChatMessageStore().ListBySession(l.ctx, sessionID, page, pageSize)
	if err != nil {
		return nil, errors.New("SessionLogic.GetSessionMessages.ChatMessageStore.ListBySession", i18n.ERROR_INTERNAL, err)
	}
	return list, nil
}

// AppendMessage inserts the message and bumps the session's message
// counter in one transaction so total_messages always equals the stored
// message count.
func (l *SessionLogic) AppendMessage(session *types.ChatSession, sender types.MessageSender, content string, kind types.MessageKind, meta types.MessageMetadata) (*types.ChatMessage, error) {
	if session.Status == types.CHAT_SESSION_STATUS_CLOSED {
		return nil, errors.New("SessionLogic.AppendMessage.closed", i18n.ERROR_SESSION_CLOSED, nil).Code(http.StatusBadRequest)
	}

	msg := types.ChatMessage{
		ID:        utils.GenUniqIDStr(),
		SessionID: session.ID,
		Sender:    sender,
		Content:   content,
		Kind:      kind,
		Sequence:  int64(session.Metadata.TotalMessages) + 1,
		SentAt:    time.Now().Unix(),
		Metadata:  meta,
	}

	err := l.stores.Transaction(l.ctx, func(ctx context.Context) error {
		if err := l.stores.ChatMessageStore().Create(ctx, msg); err != nil {
			return err
		}

		session.Metadata.TotalMessages++
		session.UpdatedAt = time.Now().Unix()
		return l.stores.ChatSessionStore().Update(ctx, *session)
	})
	if err != nil {
		session.Metadata.TotalMessages = int(msg.Sequence) - 1
		return nil, errors.New("SessionLogic.AppendMessage.Transaction", i18n.ERROR_INTERNAL, err)
	}

	return &msg, nil
}

func (l *SessionLogic) UpdateSessionContext(sessionID string, in types.SessionContext) (*types.ChatSession, error) {
	session, err := l.CheckUserChatSession(sessionID)
	if err != nil {
		return nil, err
	}

	session.Context.Merge(in)
	session.UpdatedAt = time.Now().Unix()
	if err = l.stores.ChatSessionStore().Update(l.ctx, *session); err != nil {
		return nil, errors.New("SessionLogic.UpdateSessionContext.ChatSessionStore.Update", i18n.ERROR_INTERNAL, err)
	}
	return session, nil
}

// CloseChatSession is idempotent, closing a closed session is a no-op.
func (l *SessionLogic) CloseChatSession(sessionID string, satisfactionScore int) error {
	session, err := l.CheckUserChatSession(sessionID)
	if err != nil {
		return err
	}

	if session.Status == types.CHAT_SESSION_STATUS_CLOSED {
		return nil
	}

	session.Status = types.CHAT_SESSION_STATUS_CLOSED
	session.UpdatedAt = time.Now().Unix()
	if satisfactionScore > 0 {
		session.Metadata.SatisfactionScore = satisfactionScore
	}
	if err = l.stores.ChatSessionStore().Update(l.ctx, *session); err != nil {
		return errors.New("SessionLogic.CloseChatSession.ChatSessionStore.Update", i18n.ERROR_INTERNAL, err)
	}
	return nil
}

func (l *SessionLogic) markEscalated(ctx context.Context, session *types.ChatSession, reason string) error {
	if session.Status == types.CHAT_SESSION_STATUS_ESCALATED {
		return nil
	}

	session.Status = types.CHAT_SESSION_STATUS_ESCALATED
	session.Metadata.EscalationReason = reason
	session.UpdatedAt = time.Now().Unix()
	return l.stores.ChatSessionStore().Update(ctx, *session)
}

func (l *SessionLogic) SetMessageFeedback(sessionID, messageID string, feedback types.MessageFeedback) error {
	if feedback != types.MESSAGE_FEEDBACK_POSITIVE && feedback != types.MESSAGE_FEEDBACK_NEGATIVE {
		return errors.New("SessionLogic.SetMessageFeedback.invalid", i18n.ERROR_INVALIDARGUMENT, nil).Code(http.StatusBadRequest)
	}

	if _, err := l.CheckUserChatSession(sessionID); err != nil {
		return err
	}

	msg, err := l.stores.ChatMessageStore().Get(l.ctx, messageID)
	if err != nil && err != sql.ErrNoRows {
		return errors.New("SessionLogic.SetMessageFeedback.ChatMessageStore.Get", i18n.ERROR_INTERNAL, err)
	}
	if msg == nil || err == sql.ErrNoRows || msg.SessionID != sessionID {
		return errors.New("SessionLogic.SetMessageFeedback.notfound", i18n.ERROR_NOT_FOUND, nil).Code(http.StatusNotFound)
	}
	if msg.Sender != types.MESSAGE_SENDER_ASSISTANT {
		return errors.New("SessionLogic.SetMessageFeedback.sender", i18n.ERROR_INVALIDARGUMENT, nil).Code(http.StatusBadRequest)
	}

	msg.Metadata.Feedback = feedback
	msg.Metadata.FeedbackAt = time.Now().Unix()
	if err = l.stores.ChatMessageStore().UpdateMetadata(l.ctx, messageID, msg.Metadata); err != nil {
		return errors.New("SessionLogic.SetMessageFeedback.ChatMessageStore.UpdateMetadata", i18n.ERROR_INTERNAL, err)
	}
	return nil
}

type SessionExport struct {
	Session    types.ChatSession `json:"session"`
	Transcript string            `json:"transcript"`
}

// ExportSession renders the conversation as a plain-text transcript the
// user can download.
func (l *SessionLogic) ExportSession(sessionID string) (*SessionExport, error) {
	session, err := l.CheckUserChatSession(sessionID)
	if err != nil {
		return nil, err
	}

	messages, err := l.stores.ChatMessageStore().ListBySession(l.ctx, sessionID, types.NO_PAGING, types.NO_PAGING)
	if err != nil {
		return nil, errors.New("SessionLogic.ExportSession.ChatMessageStore.ListBySession", i18n.ERROR_INTERNAL, err)
	}

	return &SessionExport{
		Session:    *session,
		Transcript: renderTranscript(messages),
	}, nil
}

func renderTranscript(messages []types.ChatMessage) string {
	if len(messages) == 0 {
		return "No conversation to export"
	}

	var b strings.Builder
	b.WriteString("=== Leli Rentals Chat Conversation ===\n\n")
	for _, msg := range messages {
		sender := "Leli Assistant"
		switch msg.Sender {
		case types.MESSAGE_SENDER_USER:
			sender = "You"
		case types.MESSAGE_SENDER_AGENT:
			sender = "Support Agent"
		}
		fmt.Fprintf(&b, "[%s] %s:\n%s\n\n", time.Unix(msg.SentAt, 0).UTC().Format("2006-01-02 15:04"), sender, msg.Content)
	}
	return b.String()
}
