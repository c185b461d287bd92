package v1

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leli-rentals/leli-assist/pkg/errors"
	"github.com/leli-rentals/leli-assist/pkg/types"
)

func requireCode(t *testing.T, err error, code int) {
	t.Helper()
	require.Error(t, err)
	custom, ok := err.(*errors.CustomizedError)
	require.True(t, ok, "expected a customized error, got %T", err)
	assert.Equal(t, code, custom.GetCode())
}

func TestCreateChatSession(t *testing.T) {
	stores := newMemoryStore()
	logic := newTestSessionLogic(stores, "user-1")

	session, err := logic.CreateChatSession(types.SessionContext{CurrentPage: "/listings"}, types.DEVICE_TYPE_MOBILE, "https://leli.rentals")

	require.NoError(t, err)
	assert.NotEmpty(t, session.ID)
	assert.Equal(t, "user-1", session.UserID)
	assert.Equal(t, types.CHAT_SESSION_STATUS_ACTIVE, session.Status)
	assert.Equal(t, "/listings", session.Context.CurrentPage)
	assert.Equal(t, types.DEVICE_TYPE_MOBILE, session.Metadata.DeviceType)
	assert.Zero(t, session.Metadata.TotalMessages)
}

func TestCheckUserChatSessionNotFound(t *testing.T) {
	logic := newTestSessionLogic(newMemoryStore(), "user-1")

	_, err := logic.CheckUserChatSession("missing")
	requireCode(t, err, http.StatusNotFound)
}

func TestCheckUserChatSessionWrongOwner(t *testing.T) {
	stores := newMemoryStore()
	owner := newTestSessionLogic(stores, "user-1")
	session, err := owner.CreateChatSession(types.SessionContext{}, "", "")
	require.NoError(t, err)

	intruder := newTestSessionLogic(stores, "user-2")
	_, err = intruder.CheckUserChatSession(session.ID)
	requireCode(t, err, http.StatusForbidden)
}

func TestAppendMessageKeepsCounterInSync(t *testing.T) {
	stores := newMemoryStore()
	logic := newTestSessionLogic(stores, "user-1")
	session, err := logic.CreateChatSession(types.SessionContext{}, "", "")
	require.NoError(t, err)

	first, err := logic.AppendMessage(session, types.MESSAGE_SENDER_USER, "hello", types.MESSAGE_KIND_TEXT, types.MessageMetadata{})
	require.NoError(t, err)
	second, err := logic.AppendMessage(session, types.MESSAGE_SENDER_ASSISTANT, "hi there", types.MESSAGE_KIND_TEXT, types.MessageMetadata{})
	require.NoError(t, err)

	assert.Equal(t, int64(1), first.Sequence)
	assert.Equal(t, int64(2), second.Sequence)

	stored, err := stores.sessions.Get(logic.ctx, session.ID)
	require.NoError(t, err)
	total, err := stores.messages.Total(logic.ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(stored.Metadata.TotalMessages), total)
}

func TestAppendMessageClosedSession(t *testing.T) {
	stores := newMemoryStore()
	logic := newTestSessionLogic(stores, "user-1")
	session, err := logic.CreateChatSession(types.SessionContext{}, "", "")
	require.NoError(t, err)
	require.NoError(t, logic.CloseChatSession(session.ID, 0))

	closed, err := stores.sessions.Get(logic.ctx, session.ID)
	require.NoError(t, err)
	_, err = logic.AppendMessage(closed, types.MESSAGE_SENDER_USER, "anyone there?", types.MESSAGE_KIND_TEXT, types.MessageMetadata{})
	requireCode(t, err, http.StatusBadRequest)
}

func TestCloseChatSessionIdempotent(t *testing.T) {
	stores := newMemoryStore()
	logic := newTestSessionLogic(stores, "user-1")
	session, err := logic.CreateChatSession(types.SessionContext{}, "", "")
	require.NoError(t, err)

	require.NoError(t, logic.CloseChatSession(session.ID, 5))
	require.NoError(t, logic.CloseChatSession(session.ID, 1))

	stored, err := stores.sessions.Get(logic.ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, types.CHAT_SESSION_STATUS_CLOSED, stored.Status)
	// The second close is a no-op, the original score stays.
	assert.Equal(t, 5, stored.Metadata.SatisfactionScore)
}

func TestUpdateSessionContextMerges(t *testing.T) {
	stores := newMemoryStore()
	logic := newTestSessionLogic(stores, "user-1")
	session, err := logic.CreateChatSession(types.SessionContext{CurrentPage: "/home", SearchQuery: "camera"}, "", "")
	require.NoError(t, err)

	updated, err := logic.UpdateSessionContext(session.ID, types.SessionContext{CurrentPage: "/listings", UserBookings: []string{"b1"}})
	require.NoError(t, err)

	assert.Equal(t, "/listings", updated.Context.CurrentPage)
	assert.Equal(t, "camera", updated.Context.SearchQuery)
	assert.Equal(t, []string{"b1"}, updated.Context.UserBookings)
}

func TestSetMessageFeedback(t *testing.T) {
	stores := newMemoryStore()
	logic := newTestSessionLogic(stores, "user-1")
	session, err := logic.CreateChatSession(types.SessionContext{}, "", "")
	require.NoError(t, err)

	userMsg, err := logic.AppendMessage(session, types.MESSAGE_SENDER_USER, "how do I pay?", types.MESSAGE_KIND_TEXT, types.MessageMetadata{})
	require.NoError(t, err)
	assistantMsg, err := logic.AppendMessage(session, types.MESSAGE_SENDER_ASSISTANT, "Through the app.", types.MESSAGE_KIND_TEXT, types.MessageMetadata{})
	require.NoError(t, err)

	require.NoError(t, logic.SetMessageFeedback(session.ID, assistantMsg.ID, types.MESSAGE_FEEDBACK_POSITIVE))
	stored, err := stores.messages.Get(logic.ctx, assistantMsg.ID)
	require.NoError(t, err)
	assert.Equal(t, types.MESSAGE_FEEDBACK_POSITIVE, stored.Metadata.Feedback)
	assert.NotZero(t, stored.Metadata.FeedbackAt)

	// Feedback only applies to assistant messages.
	err = logic.SetMessageFeedback(session.ID, userMsg.ID, types.MESSAGE_FEEDBACK_NEGATIVE)
	requireCode(t, err, http.StatusBadRequest)

	err = logic.SetMessageFeedback(session.ID, assistantMsg.ID, types.MessageFeedback("meh"))
	requireCode(t, err, http.StatusBadRequest)

	err = logic.SetMessageFeedback(session.ID, "missing", types.MESSAGE_FEEDBACK_POSITIVE)
	requireCode(t, err, http.StatusNotFound)
}

func TestExportSession(t *testing.T) {
	stores := newMemoryStore()
	logic := newTestSessionLogic(stores, "user-1")
	session, err := logic.CreateChatSession(types.SessionContext{}, "", "")
	require.NoError(t, err)

	_, err = logic.AppendMessage(session, types.MESSAGE_SENDER_USER, "first", types.MESSAGE_KIND_TEXT, types.MessageMetadata{})
	require.NoError(t, err)
	_, err = logic.AppendMessage(session, types.MESSAGE_SENDER_ASSISTANT, "second", types.MESSAGE_KIND_TEXT, types.MessageMetadata{})
	require.NoError(t, err)

	export, err := logic.ExportSession(session.ID)
	require.NoError(t, err)
	assert.Equal(t, session.ID, export.Session.ID)
	assert.True(t, strings.HasPrefix(export.Transcript, "=== Leli Rentals Chat Conversation ==="))
	assert.Contains(t, export.Transcript, "You:\nfirst")
	assert.Contains(t, export.Transcript, "Leli Assistant:\nsecond")
	// The user message comes before the reply.
	assert.Less(t, strings.Index(export.Transcript, "first"), strings.Index(export.Transcript, "second"))
}

func TestExportSessionEmpty(t *testing.T) {
	stores := newMemoryStore()
	logic := newTestSessionLogic(stores, "user-1")
	session, err := logic.CreateChatSession(types.SessionContext{}, "", "")
	require.NoError(t, err)

	export, err := logic.ExportSession(session.ID)
	require.NoError(t, err)
	assert.Equal(t, "No conversation to export", export.Transcript)
}

func TestListUserChatSessions(t *testing.T) {
	stores := newMemoryStore()
	logic := newTestSessionLogic(stores, "user-1")
	for i := 0; i < 3; i++ {
		_, err := logic.CreateChatSession(types.SessionContext{}, "", "")
		require.NoError(t, err)
	}
	other := newTestSessionLogic(stores, "user-2")
	_, err := other.CreateChatSession(types.SessionContext{}, "", "")
	require.NoError(t, err)

	list, total, err := logic.ListUserChatSessions(1, 10)
	require.NoError(t, err)
	assert.Len(t, list, 3)
	assert.Equal(t, int64(3), total)
}
