package controller

import (
	"github.com/gin-gonic/gin"

	"github.com/smartcoder-7/Webinar-backend-snippet/internal/infrastructure/realtime"
)

// ChatSocketController exposes the built-in websocket transport for
// deployments that run without an external push gateway.
type ChatSocketController struct {
	gateway *realtime.Gateway
}

func NewChatSocketController(gateway *realtime.Gateway) *ChatSocketController {
	return &ChatSocketController{gateway: gateway}
}

func (ctl *ChatSocketController) Handle() gin.HandlerFunc {
	return ctl.gateway.Handle()
}
