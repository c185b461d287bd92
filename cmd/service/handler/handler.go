package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/leli-rentals/leli-assist/app/core"
)

type HttpSrv struct {
	Core   *core.Core
	Engine *gin.Engine
}
