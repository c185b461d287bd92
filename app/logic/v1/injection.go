package v1

import (
	"context"
	"log/slog"

	"github.com/leli-rentals/leli-assist/app/core"
	"github.com/leli-rentals/leli-assist/pkg/types"
)

const (
	TOKEN_CONTEXT_KEY = "__leli.access_token"
	LANGUAGE_KEY      = "__leli.accept_language"
)

// InjectTokenClaim gets the authenticated token from context.
func InjectTokenClaim(ctx context.Context) (types.AccessToken, bool) {
	val, ok := ctx.Value(TOKEN_CONTEXT_KEY).(types.AccessToken)
	return val, ok
}

func InjectLanguage(ctx context.Context) (string, bool) {
	val, ok := ctx.Value(LANGUAGE_KEY).(string)
	return val, ok
}

type UserInfo interface {
	GetUserInfo() types.AccessToken
}

type _userInfo struct {
	u    *types.AccessToken
	core *core.Core
}

func (s *_userInfo) GetUserInfo() types.AccessToken {
	return *s.u
}

func SetupUserInfo(ctx context.Context, core *core.Core) UserInfo {
	userInfo, ok := InjectTokenClaim(ctx)
	if !ok {
		slog.Error("Not found user in context", slog.String("component", "logic.v1.setupUserInfo"))
		userInfo = types.AccessToken{}
	}
	return &_userInfo{
		u:    &userInfo,
		core: core,
	}
}
