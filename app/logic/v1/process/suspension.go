package process

import (
	"context"
	"log/slog"
	"time"

	"github.com/leli-rentals/leli-assist/app/store"
	"github.com/leli-rentals/leli-assist/pkg/mailer"
	"github.com/leli-rentals/leli-assist/pkg/register"
	"github.com/leli-rentals/leli-assist/pkg/safe"
	"github.com/leli-rentals/leli-assist/pkg/types"
)

// Days remaining at which a deadline reminder goes out.
var warningDays = map[int]bool{2: true, 1: true}

type SweepStats struct {
	Checked   int `json:"checked"`
	Warned    int `json:"warned"`
	Suspended int `json:"suspended"`
}

type SuspensionSweep struct {
	accounts store.AccountStore
	tokens   store.AccessTokenStore
	sender   mailer.Sender
	pageSize uint64
}

func NewSuspensionSweep(accounts store.AccountStore, tokens store.AccessTokenStore, sender mailer.Sender, pageSize uint64) *SuspensionSweep {
	if pageSize == 0 {
		pageSize = 500
	}
	return &SuspensionSweep{
		accounts: accounts,
		tokens:   tokens,
		sender:   sender,
		pageSize: pageSize,
	}
}

// Run walks every unverified account with a pending deadline. Accounts
// inside the warning window get a reminder email, accounts past the
// deadline get suspended and notified. A run touches each account at most
// once, never both warning and suspending it. Per-account failures are
// logged and skipped so one bad row cannot stall the sweep.
func (s *SuspensionSweep) Run(ctx context.Context, now time.Time) SweepStats {
	var stats SweepStats

	accounts := s.collect(ctx)
	for _, account := range accounts {
		stats.Checked++
		if err := s.sweepAccount(ctx, account, now, &stats); err != nil {
			slog.Error("suspension sweep failed for account",
				slog.String("user_id", account.UserID),
				slog.Any("error", err))
		}
	}

	slog.Info("suspension sweep finished",
		slog.Int("checked", stats.Checked),
		slog.Int("warned", stats.Warned),
		slog.Int("suspended", stats.Suspended))
	return stats
}

// collect snapshots the pending set before any account is touched.
// Suspending drops rows out of the listing, so walking offset pages
// while mutating would skip unprocessed accounts.
func (s *SuspensionSweep) collect(ctx context.Context) []types.AccountProfile {
	var all []types.AccountProfile
	for page := uint64(1); ; page++ {
		accounts, err := s.accounts.ListNeedingVerification(ctx, page, s.pageSize)
		if err != nil {
			slog.Error("suspension sweep failed to list accounts",
				slog.Uint64("page", page),
				slog.Any("error", err))
			return all
		}
		if len(accounts) == 0 {
			break
		}
		all = append(all, accounts...)
		if uint64(len(accounts)) < s.pageSize {
			break
		}
	}
	return all
}

func (s *SuspensionSweep) sweepAccount(ctx context.Context, account types.AccountProfile, now time.Time, stats *SweepStats) error {
	if account.VerificationDeadline == 0 {
		return nil
	}

	deadline := time.Unix(account.VerificationDeadline, 0)
	days, passed := deadlineCountdown(deadline, now)

	if passed {
		if err := s.accounts.Suspend(ctx, account.UserID, types.SUSPENSION_REASON_VERIFICATION_EXPIRED, now.Unix()); err != nil {
			return err
		}
		stats.Suspended++
		if err := s.tokens.ClearUserTokens(ctx, account.UserID); err != nil {
			slog.Warn("failed to revoke tokens for suspended account",
				slog.String("user_id", account.UserID),
				slog.Any("error", err))
		}
		s.notify(ctx, account, 0, true)
		return nil
	}

	if warningDays[days] {
		stats.Warned++
		s.notify(ctx, account, days, false)
	}
	return nil
}

// deadlineCountdown reports whole days left until the deadline, rounded
// up and clamped at zero, and whether the deadline has already passed.
func deadlineCountdown(deadline, now time.Time) (int, bool) {
	diff := deadline.Sub(now)
	if diff < 0 {
		return 0, true
	}
	days := int((diff + 24*time.Hour - time.Nanosecond) / (24 * time.Hour))
	return days, false
}

// notify sends the reminder or suspension email. Delivery failures are
// logged only, the sweep's state changes must not depend on the mail
// provider.
func (s *SuspensionSweep) notify(ctx context.Context, account types.AccountProfile, days int, suspended bool) {
	var (
		email mailer.Email
		err   error
	)
	if suspended {
		email, err = mailer.SuspensionNoticeEmail(account.Email, account.Name)
	} else {
		email, err = mailer.SuspensionWarningEmail(account.Email, account.Name, days)
	}
	if err != nil {
		slog.Error("failed to render suspension email",
			slog.String("user_id", account.UserID),
			slog.Any("error", err))
		return
	}

	if result := s.sender.SendEmail(ctx, email); !result.Success {
		slog.Warn("suspension email was not delivered",
			slog.String("user_id", account.UserID),
			slog.Bool("suspended", suspended),
			slog.String("error", result.Err))
	}
}

func init() {
	register.RegisterFunc(ProcessKey{}, func(provider *Process) {
		cfg := provider.Core().Cfg().Sweep
		provider.Cron().AddFunc(cfg.Cron, func() {
			safe.Run(func() {
				sweep := NewSuspensionSweep(provider.Core().Store().AccountStore(), provider.Core().Store().AccessTokenStore(), provider.Core().Srv().Mailer(), cfg.PageSize)
				sweep.Run(context.Background(), time.Now())
			})
		})
	})
}
