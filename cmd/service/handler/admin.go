package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/leli-rentals/leli-assist/app/logic/v1/process"
	"github.com/leli-rentals/leli-assist/app/response"
)

// RunSuspensionSweep triggers one verification-deadline sweep outside the
// cron schedule.
func (s *HttpSrv) RunSuspensionSweep(c *gin.Context) {
	sweep := process.NewSuspensionSweep(s.Core.Store().AccountStore(), s.Core.Store().AccessTokenStore(), s.Core.Srv().Mailer(), s.Core.Cfg().Sweep.PageSize)
	stats := sweep.Run(c, time.Now())
	response.APISuccess(c, stats)
}
