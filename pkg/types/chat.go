package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

type ChatSessionStatus string

const (
	CHAT_SESSION_STATUS_ACTIVE    ChatSessionStatus = "active"
	CHAT_SESSION_STATUS_CLOSED    ChatSessionStatus = "closed"
	CHAT_SESSION_STATUS_ESCALATED ChatSessionStatus = "escalated"
)

type MessageSender string

const (
	MESSAGE_SENDER_USER      MessageSender = "user"
	MESSAGE_SENDER_ASSISTANT MessageSender = "assistant"
	MESSAGE_SENDER_AGENT     MessageSender = "agent"
)

type MessageKind string

const (
	MESSAGE_KIND_TEXT       MessageKind = "text"
	MESSAGE_KIND_QUICKREPLY MessageKind = "quick-reply"
	MESSAGE_KIND_ACTION     MessageKind = "action"
	MESSAGE_KIND_SYSTEM     MessageKind = "system"
)

type MessageFeedback string

const (
	MESSAGE_FEEDBACK_POSITIVE MessageFeedback = "positive"
	MESSAGE_FEEDBACK_NEGATIVE MessageFeedback = "negative"
)

const (
	DEVICE_TYPE_MOBILE  = "mobile"
	DEVICE_TYPE_TABLET  = "tablet"
	DEVICE_TYPE_DESKTOP = "desktop"
)

// SessionContext is the caller-supplied browsing context the assistant
// personalizes against. Stored as jsonb, merged field-wise on update.
type SessionContext struct {
	CurrentPage      string   `json:"current_page,omitempty"`
	UserBookings     []string `json:"user_bookings,omitempty"`
	UserListings     []string `json:"user_listings,omitempty"`
	SearchQuery      string   `json:"search_query,omitempty"`
	SelectedCategory string   `json:"selected_category,omitempty"`
}

// Merge overlays the non-zero fields of in onto s.
func (s *SessionContext) Merge(in SessionContext) {
	if in.CurrentPage != "" {
		s.CurrentPage = in.CurrentPage
	}
	if in.UserBookings != nil {
		s.UserBookings = in.UserBookings
	}
	if in.UserListings != nil {
		s.UserListings = in.UserListings
	}
	if in.SearchQuery != "" {
		s.SearchQuery = in.SearchQuery
	}
	if in.SelectedCategory != "" {
		s.SelectedCategory = in.SelectedCategory
	}
}

func (s SessionContext) Value() (driver.Value, error) {
	return json.Marshal(s)
}

func (s *SessionContext) Scan(src interface{}) error {
	return scanJSON(src, s, "SessionContext")
}

type SessionMetadata struct {
	DeviceType        string `json:"device_type,omitempty"`
	Referrer          string `json:"referrer,omitempty"`
	Locale            string `json:"locale,omitempty"`
	TotalMessages     int    `json:"total_messages"`
	SatisfactionScore int    `json:"satisfaction_score,omitempty"`
	EscalationReason  string `json:"escalation_reason,omitempty"`
}

func (s SessionMetadata) Value() (driver.Value, error) {
	return json.Marshal(s)
}

func (s *SessionMetadata) Scan(src interface{}) error {
	return scanJSON(src, s, "SessionMetadata")
}

type ChatSession struct {
	ID        string            `json:"id" db:"id"`
	UserID    string            `json:"user_id" db:"user_id"`
	Status    ChatSessionStatus `json:"status" db:"status"`
	CreatedAt int64             `json:"created_at" db:"created_at"`
	UpdatedAt int64             `json:"updated_at" db:"updated_at"`
	Context   SessionContext    `json:"context" db:"context"`
	Metadata  SessionMetadata   `json:"metadata" db:"metadata"`
}

// MessageMetadata is the composer's annotation on an assistant reply plus
// the later feedback annotation. Immutable apart from feedback.
type MessageMetadata struct {
	Confidence       float64         `json:"confidence,omitempty"`
	Category         string          `json:"category,omitempty"`
	SuggestedActions []string        `json:"suggested_actions,omitempty"`
	QuickReplies     []string        `json:"quick_replies,omitempty"`
	Escalated        bool            `json:"escalated,omitempty"`
	Feedback         MessageFeedback `json:"feedback,omitempty"`
	FeedbackAt       int64           `json:"feedback_at,omitempty"`
}

func (s MessageMetadata) Value() (driver.Value, error) {
	return json.Marshal(s)
}

func (s *MessageMetadata) Scan(src interface{}) error {
	return scanJSON(src, s, "MessageMetadata")
}

type ChatMessage struct {
	ID        string          `json:"id" db:"id"`
	SessionID string          `json:"session_id" db:"session_id"`
	Sender    MessageSender   `json:"sender" db:"sender"`
	Content   string          `json:"content" db:"content"`
	Kind      MessageKind     `json:"kind" db:"kind"`
	Sequence  int64           `json:"sequence" db:"sequence"`
	SentAt    int64           `json:"sent_at" db:"sent_at"`
	Metadata  MessageMetadata `json:"metadata" db:"metadata"`
}

// AssistantResponse is the composed reply for one chat turn.
type AssistantResponse struct {
	Message          string   `json:"message"`
	Confidence       float64  `json:"confidence"`
	Category         string   `json:"category"`
	SuggestedActions []string `json:"suggested_actions"`
	QuickReplies     []string `json:"quick_replies"`
	ShouldEscalate   bool     `json:"should_escalate"`
}

func scanJSON(src interface{}, dst interface{}, typeName string) error {
	switch src := src.(type) {
	case []byte:
		if len(src) == 0 {
			return nil
		}
		return json.Unmarshal(src, dst)
	case string:
		if src == "" {
			return nil
		}
		return json.Unmarshal([]byte(src), dst)
	case nil:
		return nil
	}
	return fmt.Errorf("pq: cannot convert %T to %s", src, typeName)
}
