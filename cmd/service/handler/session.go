package handler

import (
	"github.com/gin-gonic/gin"

	v1 "github.com/leli-rentals/leli-assist/app/logic/v1"
	"github.com/leli-rentals/leli-assist/app/response"
	"github.com/leli-rentals/leli-assist/pkg/types"
	"github.com/leli-rentals/leli-assist/pkg/utils"
)

type CreateSessionRequest struct {
	Context    types.SessionContext `json:"context"`
	DeviceType string               `json:"device_type"`
	Referrer   string               `json:"referrer"`
}

func (s *HttpSrv) CreateSession(c *gin.Context) {
	var (
		err error
		req CreateSessionRequest
	)
	if err = utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	session, err := v1.NewSessionLogic(c, s.Core).CreateChatSession(req.Context, req.DeviceType, req.Referrer)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, session)
}

type ListSessionsRequest struct {
	Page     uint64 `json:"page" form:"page"`
	PageSize uint64 `json:"pagesize" form:"pagesize"`
}

type ListSessionsResponse struct {
	List  []types.ChatSession `json:"list"`
	Total int64               `json:"total"`
}

func (s *HttpSrv) ListSessions(c *gin.Context) {
	var (
		err error
		req ListSessionsRequest
	)
	if err = utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}
	if req.Page == 0 {
		req.Page = 1
	}
	if req.PageSize == 0 || req.PageSize > 50 {
		req.PageSize = 20
	}

	list, total, err := v1.NewSessionLogic(c, s.Core).ListUserChatSessions(req.Page, req.PageSize)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, ListSessionsResponse{
		List:  list,
		Total: total,
	})
}

func (s *HttpSrv) GetSession(c *gin.Context) {
	sessionID, _ := c.Params.Get("session")
	session, err := v1.NewSessionLogic(c, s.Core).CheckUserChatSession(sessionID)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, session)
}

type ListSessionMessagesRequest struct {
	Page     uint64 `json:"page" form:"page"`
	PageSize uint64 `json:"pagesize" form:"pagesize"`
}

func (s *HttpSrv) ListSessionMessages(c *gin.Context) {
	var (
		err error
		req ListSessionMessagesRequest
	)
	if err = utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	sessionID, _ := c.Params.Get("session")
	list, err := v1.NewSessionLogic(c, s.Core).GetSessionMessages(sessionID, req.Page, req.PageSize)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, list)
}

type UpdateSessionContextRequest struct {
	Context types.SessionContext `json:"context" binding:"required"`
}

func (s *HttpSrv) UpdateSessionContext(c *gin.Context) {
	var (
		err error
		req UpdateSessionContextRequest
	)
	if err = utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	sessionID, _ := c.Params.Get("session")
	session, err := v1.NewSessionLogic(c, s.Core).UpdateSessionContext(sessionID, req.Context)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, session)
}

type CloseSessionRequest struct {
	SatisfactionScore int `json:"satisfaction_score"`
}

func (s *HttpSrv) CloseSession(c *gin.Context) {
	var (
		err error
		req CloseSessionRequest
	)
	if err = utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	sessionID, _ := c.Params.Get("session")
	if err = v1.NewSessionLogic(c, s.Core).CloseChatSession(sessionID, req.SatisfactionScore); err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, nil)
}

type MessageFeedbackRequest struct {
	MessageID string `json:"message_id" form:"message_id" binding:"required"`
	Feedback  string `json:"feedback" form:"feedback" binding:"required"`
}

func (s *HttpSrv) SetMessageFeedback(c *gin.Context) {
	var (
		err error
		req MessageFeedbackRequest
	)
	if err = utils.BindArgsWithGin(c, &req); err != nil {
		response.APIError(c, err)
		return
	}

	sessionID, _ := c.Params.Get("session")
	err = v1.NewSessionLogic(c, s.Core).SetMessageFeedback(sessionID, req.MessageID, types.MessageFeedback(req.Feedback))
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, nil)
}

func (s *HttpSrv) ExportSession(c *gin.Context) {
	sessionID, _ := c.Params.Get("session")
	export, err := v1.NewSessionLogic(c, s.Core).ExportSession(sessionID)
	if err != nil {
		response.APIError(c, err)
		return
	}
	response.APISuccess(c, export)
}
