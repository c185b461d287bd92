package mailer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendEmailWithoutAPIKey(t *testing.T) {
	client := New(Config{})

	result := client.SendEmail(context.Background(), Email{To: "user@example.com", Subject: "hi"})
	assert.False(t, result.Success)
	assert.Equal(t, "email service not configured", result.Err)
}

func TestSendEmail(t *testing.T) {
	var got sendRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"email-123"}`))
	}))
	defer server.Close()

	client := New(Config{APIKey: "test-key", Endpoint: server.URL})
	result := client.SendEmail(context.Background(), Email{
		To:      "user@example.com",
		Subject: "hello",
		HTML:    "<p>hello</p>",
	})

	require.True(t, result.Success)
	assert.Equal(t, "email-123", result.ID)
	assert.Equal(t, []string{"user@example.com"}, got.To)
	assert.Equal(t, DEFAULT_FROM, got.From)
	assert.Equal(t, SUPPORT_EMAIL, got.ReplyTo)
}

func TestSendEmailServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message":"invalid to address"}`))
	}))
	defer server.Close()

	client := New(Config{APIKey: "test-key", Endpoint: server.URL})
	result := client.SendEmail(context.Background(), Email{To: "bad"})

	assert.False(t, result.Success)
	assert.Equal(t, "invalid to address", result.Err)
}

func TestWelcomeEmail(t *testing.T) {
	email, err := WelcomeEmail("user@example.com", "Amina")
	require.NoError(t, err)

	assert.Equal(t, "user@example.com", email.To)
	assert.Contains(t, email.Subject, "Welcome")
	assert.Contains(t, email.HTML, "Hi Amina,")
	assert.Contains(t, email.HTML, SUPPORT_EMAIL)
}

func TestVerificationStatusEmail(t *testing.T) {
	approved, err := VerificationStatusEmail("user@example.com", "Amina", VERIFICATION_STATUS_APPROVED, "")
	require.NoError(t, err)
	assert.Contains(t, approved.Subject, "Approved")

	rejected, err := VerificationStatusEmail("user@example.com", "Amina", VERIFICATION_STATUS_REJECTED, "photo too blurry")
	require.NoError(t, err)
	assert.Contains(t, rejected.Subject, "Action Required")
	assert.Contains(t, rejected.HTML, "photo too blurry")
}

func TestSuspensionWarningEmail(t *testing.T) {
	two, err := SuspensionWarningEmail("user@example.com", "Amina", 2)
	require.NoError(t, err)
	assert.Contains(t, two.Subject, "2 days")

	one, err := SuspensionWarningEmail("user@example.com", "Amina", 1)
	require.NoError(t, err)
	assert.Contains(t, one.Subject, "1 day")
	assert.NotContains(t, one.Subject, "1 days")
}

func TestSuspensionNoticeEmail(t *testing.T) {
	email, err := SuspensionNoticeEmail("user@example.com", "Amina")
	require.NoError(t, err)
	assert.Contains(t, email.HTML, "suspended")
	assert.Contains(t, email.HTML, "verification")
}

func TestEscapesUserContent(t *testing.T) {
	email, err := SupportTicketEmail("user@example.com", "<script>alert(1)</script>", TicketDetails{ID: "42", Subject: "broken pump"})
	require.NoError(t, err)
	assert.NotContains(t, email.HTML, "<script>")
}
