package service

import (
	"github.com/gin-gonic/gin"

	"github.com/leli-rentals/leli-assist/app/core"
	v1 "github.com/leli-rentals/leli-assist/app/logic/v1"
	"github.com/leli-rentals/leli-assist/app/response"
	"github.com/leli-rentals/leli-assist/cmd/service/handler"
	"github.com/leli-rentals/leli-assist/cmd/service/middleware"
)

func serve(core *core.Core) {
	httpSrv := &handler.HttpSrv{
		Core:   core,
		Engine: core.HttpEngine(),
	}
	setupHttpRouter(httpSrv)

	core.HttpEngine().Run(core.Cfg().Addr)
}

func GetUserLimitBuilder(appCore *core.Core) middleware.LimiterFunc {
	return func(key string) gin.HandlerFunc {
		return middleware.UseLimit(appCore, key, func(c *gin.Context) string {
			token, _ := v1.InjectTokenClaim(c)
			return token.UserID
		})
	}
}

func setupHttpRouter(s *handler.HttpSrv) {
	userLimit := GetUserLimitBuilder(s.Core)

	s.Engine.Use(middleware.I18n(), response.NewResponse())
	s.Engine.Use(middleware.Cors)
	s.Engine.Use(middleware.AcceptLanguage())

	apiV1 := s.Engine.Group("/api/v1")
	{
		apiV1.GET("/mode", func(c *gin.Context) {
			response.APISuccess(c, "assistant")
		})

		authed := apiV1.Group("")
		authed.Use(middleware.Authorization(s.Core))

		assistant := authed.Group("/assistant")
		{
			assistant.GET("/actions", s.GetQuickActions)
			assistant.GET("/faqs", s.ListFAQs)

			sessions := assistant.Group("/sessions")
			{
				sessions.POST("", userLimit("create_session"), s.CreateSession)
				sessions.GET("", s.ListSessions)
				sessions.GET("/:session", s.GetSession)
				sessions.GET("/:session/messages", s.ListSessionMessages)
				sessions.POST("/:session/messages", s.SendMessage)
				sessions.PUT("/:session/context", s.UpdateSessionContext)
				sessions.POST("/:session/close", s.CloseSession)
				sessions.POST("/:session/feedback", s.SetMessageFeedback)
				sessions.GET("/:session/export", s.ExportSession)
			}
		}

		admin := authed.Group("/admin")
		admin.Use(middleware.AdminOnly())
		{
			admin.POST("/suspension/sweep", s.RunSuspensionSweep)
		}
	}
}
