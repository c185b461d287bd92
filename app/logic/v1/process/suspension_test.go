package process

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leli-rentals/leli-assist/pkg/mailer"
	"github.com/leli-rentals/leli-assist/pkg/types"
)

type fakeAccountStore struct {
	accounts   []types.AccountProfile
	suspended  map[string]string
	suspendErr map[string]error
}

func newFakeAccountStore(accounts ...types.AccountProfile) *fakeAccountStore {
	return &fakeAccountStore{
		accounts:   accounts,
		suspended:  make(map[string]string),
		suspendErr: make(map[string]error),
	}
}

func (s *fakeAccountStore) Create(ctx context.Context, data types.AccountProfile) error {
	s.accounts = append(s.accounts, data)
	return nil
}

func (s *fakeAccountStore) Get(ctx context.Context, userID string) (*types.AccountProfile, error) {
	for i := range s.accounts {
		if s.accounts[i].UserID == userID {
			return &s.accounts[i], nil
		}
	}
	return nil, nil
}

func (s *fakeAccountStore) UpdateVerification(ctx context.Context, userID string, isVerified, needsVerification bool, deadline int64) error {
	return nil
}

func (s *fakeAccountStore) Suspend(ctx context.Context, userID, reason string, suspendedAt int64) error {
	if err := s.suspendErr[userID]; err != nil {
		return err
	}
	s.suspended[userID] = reason
	return nil
}

// ListNeedingVerification mirrors the SQL filter: suspended accounts
// drop out of the listing immediately.
func (s *fakeAccountStore) ListNeedingVerification(ctx context.Context, page, pageSize uint64) ([]types.AccountProfile, error) {
	var pending []types.AccountProfile
	for i := range s.accounts {
		if _, ok := s.suspended[s.accounts[i].UserID]; !ok {
			pending = append(pending, s.accounts[i])
		}
	}
	start := (page - 1) * pageSize
	if start >= uint64(len(pending)) {
		return nil, nil
	}
	end := start + pageSize
	if end > uint64(len(pending)) {
		end = uint64(len(pending))
	}
	return pending[start:end], nil
}

type fakeTokenStore struct {
	cleared []string
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{}
}

func (s *fakeTokenStore) Create(ctx context.Context, data types.AccessToken) error {
	return nil
}

func (s *fakeTokenStore) GetAccessToken(ctx context.Context, token string) (*types.AccessToken, error) {
	return nil, nil
}

func (s *fakeTokenStore) ClearUserTokens(ctx context.Context, userID string) error {
	s.cleared = append(s.cleared, userID)
	return nil
}

type fakeSender struct {
	sent []mailer.Email
}

func (s *fakeSender) SendEmail(ctx context.Context, email mailer.Email) mailer.Result {
	s.sent = append(s.sent, email)
	return mailer.Result{Success: true, ID: "test"}
}

func pendingAccount(userID string, deadline time.Time) types.AccountProfile {
	return types.AccountProfile{
		UserID:               userID,
		Email:                userID + "@example.com",
		Name:                 "Test User",
		NeedsVerification:    true,
		VerificationDeadline: deadline.Unix(),
	}
}

func TestSweepWarnsInsideWindow(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	store := newFakeAccountStore(
		pendingAccount("two-days", now.Add(36*time.Hour)),
		pendingAccount("one-day", now.Add(12*time.Hour)),
	)
	sender := &fakeSender{}
	tokens := newFakeTokenStore()

	stats := NewSuspensionSweep(store, tokens, sender, 0).Run(context.Background(), now)

	assert.Equal(t, SweepStats{Checked: 2, Warned: 2, Suspended: 0}, stats)
	require.Len(t, sender.sent, 2)
	assert.Contains(t, sender.sent[0].HTML, "2 days")
	assert.Contains(t, sender.sent[1].HTML, "1 day")
	assert.Empty(t, store.suspended)
}

func TestSweepSkipsOutsideWindow(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	store := newFakeAccountStore(
		pendingAccount("far-off", now.Add(10*24*time.Hour)),
		pendingAccount("three-days", now.Add(60*time.Hour)),
	)
	sender := &fakeSender{}
	tokens := newFakeTokenStore()

	stats := NewSuspensionSweep(store, tokens, sender, 0).Run(context.Background(), now)

	assert.Equal(t, SweepStats{Checked: 2, Warned: 0, Suspended: 0}, stats)
	assert.Empty(t, sender.sent)
}

func TestSweepSuspendsPastDeadline(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	store := newFakeAccountStore(pendingAccount("expired", now.Add(-time.Hour)))
	sender := &fakeSender{}
	tokens := newFakeTokenStore()

	stats := NewSuspensionSweep(store, tokens, sender, 0).Run(context.Background(), now)

	assert.Equal(t, SweepStats{Checked: 1, Warned: 0, Suspended: 1}, stats)
	assert.Equal(t, types.SUSPENSION_REASON_VERIFICATION_EXPIRED, store.suspended["expired"])
	assert.Equal(t, []string{"expired"}, tokens.cleared)
	// The suspension notice is the only email, never a warning too.
	require.Len(t, sender.sent, 1)
	assert.Contains(t, sender.sent[0].Subject, "suspended")
}

func TestSweepSkipsAccountsWithoutDeadline(t *testing.T) {
	now := time.Now()
	account := pendingAccount("no-deadline", now)
	account.VerificationDeadline = 0
	store := newFakeAccountStore(account)
	sender := &fakeSender{}
	tokens := newFakeTokenStore()

	stats := NewSuspensionSweep(store, tokens, sender, 0).Run(context.Background(), now)

	assert.Equal(t, SweepStats{Checked: 1, Warned: 0, Suspended: 0}, stats)
	assert.Empty(t, sender.sent)
}

func TestSweepContinuesAfterFailure(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	store := newFakeAccountStore(
		pendingAccount("broken", now.Add(-time.Hour)),
		pendingAccount("expired", now.Add(-2*time.Hour)),
	)
	store.suspendErr["broken"] = fmt.Errorf("row locked")
	sender := &fakeSender{}
	tokens := newFakeTokenStore()

	stats := NewSuspensionSweep(store, tokens, sender, 0).Run(context.Background(), now)

	assert.Equal(t, SweepStats{Checked: 2, Warned: 0, Suspended: 1}, stats)
	assert.Equal(t, types.SUSPENSION_REASON_VERIFICATION_EXPIRED, store.suspended["expired"])
	require.Len(t, sender.sent, 1)
}

func TestSweepWalksAllPages(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	var accounts []types.AccountProfile
	for i := 0; i < 5; i++ {
		accounts = append(accounts, pendingAccount(fmt.Sprintf("user-%d", i), now.Add(12*time.Hour)))
	}
	store := newFakeAccountStore(accounts...)
	sender := &fakeSender{}
	tokens := newFakeTokenStore()

	stats := NewSuspensionSweep(store, tokens, sender, 2).Run(context.Background(), now)

	assert.Equal(t, SweepStats{Checked: 5, Warned: 5, Suspended: 0}, stats)
	assert.Len(t, sender.sent, 5)
}

func TestSweepSuspendsAcrossPages(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	var accounts []types.AccountProfile
	for i := 0; i < 4; i++ {
		accounts = append(accounts, pendingAccount(fmt.Sprintf("expired-%d", i), now.Add(-time.Hour)))
	}
	store := newFakeAccountStore(accounts...)
	sender := &fakeSender{}
	tokens := newFakeTokenStore()

	// Each suspension shrinks the listing, every account must still be
	// processed exactly once.
	stats := NewSuspensionSweep(store, tokens, sender, 2).Run(context.Background(), now)

	assert.Equal(t, SweepStats{Checked: 4, Warned: 0, Suspended: 4}, stats)
	assert.Len(t, store.suspended, 4)
	assert.Len(t, tokens.cleared, 4)
	assert.Len(t, sender.sent, 4)
}

func TestDeadlineCountdown(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	days, passed := deadlineCountdown(now.Add(36*time.Hour), now)
	assert.Equal(t, 2, days)
	assert.False(t, passed)

	days, passed = deadlineCountdown(now.Add(24*time.Hour), now)
	assert.Equal(t, 1, days)
	assert.False(t, passed)

	days, passed = deadlineCountdown(now, now)
	assert.Equal(t, 0, days)
	assert.False(t, passed)

	days, passed = deadlineCountdown(now.Add(-time.Minute), now)
	assert.Equal(t, 0, days)
	assert.True(t, passed)
}
