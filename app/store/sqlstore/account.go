package sqlstore

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/leli-rentals/leli-assist/pkg/register"
	"github.com/leli-rentals/leli-assist/pkg/types"
)

func init() {
	register.RegisterFunc[*Provider](RegisterKey{}, func(provider *Provider) {
		provider.stores.AccountStore = NewAccountStore(provider)
	})
}

type AccountStore struct {
	CommonFields
}

func NewAccountStore(provider SqlProviderAchieve) *AccountStore {
	repo := &AccountStore{}
	repo.SetProvider(provider)
	repo.SetTable(types.TABLE_ACCOUNT)
	repo.SetAllColumns("user_id", "email", "name", "account_type", "account_suspended", "suspension_reason",
		"suspended_at", "is_verified", "needs_verification", "verification_deadline", "subscription_status",
		"created_at", "updated_at")
	return repo
}

func (s *AccountStore) Create(ctx context.Context, data types.AccountProfile) error {
	data.ApplyDefaults()
	if data.CreatedAt == 0 {
		data.CreatedAt = time.Now().Unix()
	}
	if data.UpdatedAt == 0 {
		data.UpdatedAt = data.CreatedAt
	}

	query := sq.Insert(s.GetTable()).
		Columns(s.GetAllColumns()...).
		Values(data.UserID, data.Email, data.Name, data.AccountType, data.AccountSuspended, data.SuspensionReason,
			data.SuspendedAt, data.IsVerified, data.NeedsVerification, data.VerificationDeadline, data.SubscriptionStatus,
			data.CreatedAt, data.UpdatedAt)

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	if _, err = s.GetMaster(ctx).Exec(queryString, args...); err != nil {
		return err
	}
	return nil
}

func (s *AccountStore) Get(ctx context.Context, userID string) (*types.AccountProfile, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).Where(sq.Eq{"user_id": userID})

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var res types.AccountProfile
	if err = s.GetReplica(ctx).Get(&res, queryString, args...); err != nil {
		return nil, err
	}
	res.ApplyDefaults()
	return &res, nil
}

func (s *AccountStore) UpdateVerification(ctx context.Context, userID string, isVerified, needsVerification bool, deadline int64) error {
	query := sq.Update(s.GetTable()).
		Set("is_verified", isVerified).
		Set("needs_verification", needsVerification).
		Set("verification_deadline", deadline).
		Set("updated_at", time.Now().Unix()).
		Where(sq.Eq{"user_id": userID})

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	if _, err = s.GetMaster(ctx).Exec(queryString, args...); err != nil {
		return err
	}
	return nil
}

func (s *AccountStore) Suspend(ctx context.Context, userID, reason string, suspendedAt int64) error {
	query := sq.Update(s.GetTable()).
		Set("account_suspended", true).
		Set("suspension_reason", reason).
		Set("suspended_at", suspendedAt).
		Set("updated_at", time.Now().Unix()).
		Where(sq.Eq{"user_id": userID})

	queryString, args, err := query.ToSql()
	if err != nil {
		return ErrorSqlBuild(err)
	}

	if _, err = s.GetMaster(ctx).Exec(queryString, args...); err != nil {
		return err
	}
	return nil
}

func (s *AccountStore) ListNeedingVerification(ctx context.Context, page, pageSize uint64) ([]types.AccountProfile, error) {
	query := sq.Select(s.GetAllColumns()...).From(s.GetTable()).
		Where(sq.Eq{"needs_verification": true, "is_verified": false, "account_suspended": false}).
		OrderBy("user_id ASC")

	if page != types.NO_PAGING || pageSize != types.NO_PAGING {
		query = query.Limit(pageSize).Offset((page - 1) * pageSize)
	}

	queryString, args, err := query.ToSql()
	if err != nil {
		return nil, ErrorSqlBuild(err)
	}

	var list []types.AccountProfile
	if err = s.GetReplica(ctx).Select(&list, queryString, args...); err != nil {
		return nil, err
	}
	return list, nil
}
