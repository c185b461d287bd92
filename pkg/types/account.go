package types

type AccountType string

const (
	ACCOUNT_TYPE_RENTER AccountType = "renter"
	ACCOUNT_TYPE_OWNER  AccountType = "owner"
)

const SUSPENSION_REASON_VERIFICATION_EXPIRED = "verification_expired"

// AccountProfile is the marketplace profile synced from the identity
// provider. Rows older than the typed schema may miss fields, so defaults
// are applied wherever a row is read.
type AccountProfile struct {
	UserID               string      `json:"user_id" db:"user_id"`
	Email                string      `json:"email" db:"email"`
	Name                 string      `json:"name" db:"name"`
	AccountType          AccountType `json:"account_type" db:"account_type"`
	AccountSuspended     bool        `json:"account_suspended" db:"account_suspended"`
	SuspensionReason     string      `json:"suspension_reason,omitempty" db:"suspension_reason"`
	SuspendedAt          int64       `json:"suspended_at,omitempty" db:"suspended_at"`
	IsVerified           bool        `json:"is_verified" db:"is_verified"`
	NeedsVerification    bool        `json:"needs_verification" db:"needs_verification"`
	VerificationDeadline int64       `json:"verification_deadline,omitempty" db:"verification_deadline"`
	SubscriptionStatus   string      `json:"subscription_status,omitempty" db:"subscription_status"`
	CreatedAt            int64       `json:"created_at" db:"created_at"`
	UpdatedAt            int64       `json:"updated_at" db:"updated_at"`
}

func (a *AccountProfile) ApplyDefaults() {
	if a.AccountType == "" {
		a.AccountType = ACCOUNT_TYPE_RENTER
	}
	if a.SubscriptionStatus == "" {
		a.SubscriptionStatus = "free"
	}
}

// UserContext is the slice of the profile plus session context the
// composer personalizes quick actions against.
type UserContext struct {
	AccountType AccountType `json:"account_type"`
	HasBookings bool        `json:"has_bookings"`
	HasListings bool        `json:"has_listings"`
	IsVerified  bool        `json:"is_verified"`
}

func (a AccountProfile) ToUserContext(sc SessionContext) UserContext {
	return UserContext{
		AccountType: a.AccountType,
		HasBookings: len(sc.UserBookings) > 0,
		HasListings: len(sc.UserListings) > 0,
		IsVerified:  a.IsVerified,
	}
}
