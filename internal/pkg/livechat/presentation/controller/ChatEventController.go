package controller

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/smartcoder-7/Webinar-backend-snippet/internal/infrastructure/realtime"
	"github.com/smartcoder-7/Webinar-backend-snippet/internal/pkg/livechat/application/usecase"
	livechat "github.com/smartcoder-7/Webinar-backend-snippet/internal/pkg/livechat/domain"
)

// ChatEventController is the push-gateway bridge: an external socket service
// forwards connect, post, and disconnect events here over HTTP. The built-in
// websocket gateway drives the same three operations through the
// realtime.Handler methods.
type ChatEventController struct {
	openUC  *usecase.OpenConnectionUseCase
	closeUC *usecase.CloseConnectionUseCase
	postUC  *usecase.PostMessageUseCase
}

func NewChatEventController(
	openUC *usecase.OpenConnectionUseCase,
	closeUC *usecase.CloseConnectionUseCase,
	postUC *usecase.PostMessageUseCase,
) *ChatEventController {
	return &ChatEventController{openUC: openUC, closeUC: closeUC, postUC: postUC}
}

var _ realtime.Handler = (*ChatEventController)(nil)

func (ctl *ChatEventController) Open(ctx context.Context, connectionID string) error {
	_, err := ctl.openUC.Execute(ctx, connectionID)
	return err
}

func (ctl *ChatEventController) Close(ctx context.Context, connectionID string) error {
	return ctl.closeUC.Execute(ctx, connectionID)
}

func (ctl *ChatEventController) Post(ctx context.Context, envelope livechat.SocketEnvelope) error {
	_, err := ctl.postUC.Execute(ctx, envelope)
	return err
}

type connectRequest struct {
	ConnectionID string `json:"connectionId"`
}

// decodeStrict fails closed on any unexpected body shape, matching the
// websocket frame decoder.
func decodeStrict(c *gin.Context, v any) error {
	dec := json.NewDecoder(c.Request.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// HandleConnect registers a connection announced by the push gateway.
func (ctl *ChatEventController) HandleConnect() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req connectRequest
		if err := decodeStrict(c, &req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		conn, err := ctl.openUC.Execute(c.Request.Context(), req.ConnectionID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"connectionId": conn.ConnectionID})
	}
}

// HandleDisconnect removes a connection. Unknown ids succeed; disconnects
// race reconnects and must stay idempotent.
func (ctl *ChatEventController) HandleDisconnect() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req connectRequest
		if err := decodeStrict(c, &req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := ctl.closeUC.Execute(c.Request.Context(), req.ConnectionID); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// HandlePost runs one forwarded socket event through the message pipeline and
// echoes the broadcast payload back to the gateway.
func (ctl *ChatEventController) HandlePost() gin.HandlerFunc {
	return func(c *gin.Context) {
		var envelope livechat.SocketEnvelope
		if err := decodeStrict(c, &envelope); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		payload, err := ctl.postUC.Execute(c.Request.Context(), envelope)
		if err != nil {
			respondError(c, err)
			return
		}
		if payload == nil {
			c.Status(http.StatusNoContent)
			return
		}
		c.JSON(http.StatusOK, payload)
	}
}
