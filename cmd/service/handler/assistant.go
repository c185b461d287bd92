package handler

import (
	"github.com/gin-gonic/gin"

	v1 "github.com/leli-rentals/leli-assist/app/logic/v1"
	"github.com/leli-rentals/leli-assist/app/response"
	"github.com/leli-rentals/leli-assist/pkg/assistant"
	"github.com/leli-rentals/leli-assist/pkg/utils"
)

type SendMessageRequest struct {
	Content string `json:"content" form:"content" binding:"required"`
}

func (s *HttpSrv) SendMessage(c *gin.Context) {
	var (
		err error
		req SendMessageRequest
	)
	if err = utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	sessionID, _ := c.Params.Get("session")
	result, err := v1.NewAssistantLogic(c, s.Core).SendMessage(sessionID, req.Content)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, result)
}

type QuickActionsRequest struct {
	SessionID string `json:"session" form:"session"`
}

func (s *HttpSrv) GetQuickActions(c *gin.Context) {
	var (
		err error
		req QuickActionsRequest
	)
	if err = utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	actions, err := v1.NewAssistantLogic(c, s.Core).QuickActions(req.SessionID)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, actions)
}

type ListFAQsRequest struct {
	Intent string `json:"intent" form:"intent" binding:"required"`
}

func (s *HttpSrv) ListFAQs(c *gin.Context) {
	var (
		err error
		req ListFAQsRequest
	)
	if err = utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	response.APISuccess(c, assistant.FAQsForIntent(assistant.Intent(req.Intent)))
}
