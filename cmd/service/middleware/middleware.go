package middleware

import (
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"github.com/leli-rentals/leli-assist/app/core"
	v1 "github.com/leli-rentals/leli-assist/app/logic/v1"
	"github.com/leli-rentals/leli-assist/app/response"
	"github.com/leli-rentals/leli-assist/pkg/errors"
	"github.com/leli-rentals/leli-assist/pkg/i18n"
	"github.com/leli-rentals/leli-assist/pkg/types"
)

func I18n() gin.HandlerFunc {
	var allowList []string
	for k := range i18n.ALLOW_LANG {
		allowList = append(allowList, k)
	}
	l := i18n.NewLocalizer(allowList...)

	return response.ProvideResponseLocalizer(l)
}

func AcceptLanguage() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		lang := ctx.Request.Header.Get("Accept-Language")
		ctx.Set(v1.LANGUAGE_KEY, lo.If(strings.HasPrefix(lang, "sw"), types.LANGUAGE_SW_KEY).Else(types.LANGUAGE_EN_KEY))
	}
}

const ACCESS_TOKEN_HEADER_KEY = "X-Access-Token"

func Authorization(core *core.Core) gin.HandlerFunc {
	return func(c *gin.Context) {
		matched, err := checkAccessToken(c, core)
		if err != nil {
			response.APIError(c, errors.Trace("middleware.Authorization", err))
			return
		}
		if !matched {
			response.APIError(c, errors.New("middleware.Authorization", i18n.ERROR_UNAUTHORIZED, nil).Code(http.StatusUnauthorized))
		}
	}
}

func checkAccessToken(c *gin.Context, core *core.Core) (bool, error) {
	tokenValue := c.GetHeader(ACCESS_TOKEN_HEADER_KEY)
	if tokenValue == "" {
		return false, nil
	}

	token, err := core.Store().AccessTokenStore().GetAccessToken(c, tokenValue)
	if err != nil && err != sql.ErrNoRows {
		return false, errors.New("middleware.checkAccessToken.AccessTokenStore.GetAccessToken", i18n.ERROR_INTERNAL, err)
	}

	if token == nil || err == sql.ErrNoRows {
		return false, nil
	}
	if token.ExpiresAt > 0 && token.ExpiresAt < time.Now().Unix() {
		return false, errors.New("middleware.checkAccessToken.expired", i18n.ERROR_UNAUTHORIZED, nil).Code(http.StatusUnauthorized)
	}

	c.Set(v1.TOKEN_CONTEXT_KEY, *token)
	return true, nil
}

// AdminOnly requires an already-authenticated token with the admin role.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := v1.InjectTokenClaim(c)
		if !ok || !token.IsAdmin() {
			response.APIError(c, errors.New("middleware.AdminOnly", i18n.ERROR_PERMISSION_DENIED, nil).Code(http.StatusForbidden))
		}
	}
}

func Cors(c *gin.Context) {
	origin := c.Request.Header.Get("Origin")
	if origin != "" {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE, UPDATE")
		c.Header("Access-Control-Allow-Headers", "Origin, X-Requested-With, Content-Type, Accept, Authorization, X-Access-Token")
		c.Header("Access-Control-Expose-Headers", "Content-Length, Access-Control-Allow-Origin, Access-Control-Allow-Headers, Cache-Control, Content-Language, Content-Type")
		c.Header("Access-Control-Allow-Credentials", "true")
	}
	if c.Request.Method == http.MethodOptions {
		c.AbortWithStatus(http.StatusNoContent)
	}
	c.Next()
}

type LimiterFunc func(key string) gin.HandlerFunc

// UseLimit throttles by a caller-derived key through the shared keyed
// limiter.
func UseLimit(appCore *core.Core, operation string, genKeyFunc func(c *gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !appCore.Limiter().Allow(operation + ":" + genKeyFunc(c)) {
			response.APIError(c, errors.New("middleware.limiter", i18n.ERROR_TOO_MANY_REQUESTS, nil).Code(http.StatusTooManyRequests))
		}
	}
}
