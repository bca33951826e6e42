package http

import (
	"github.com/gin-gonic/gin"

	"github.com/smartcoder-7/Webinar-backend-snippet/internal/infrastructure/auth"
	"github.com/smartcoder-7/Webinar-backend-snippet/internal/infrastructure/realtime"
	"github.com/smartcoder-7/Webinar-backend-snippet/internal/pkg/livechat/application/usecase"
	"github.com/smartcoder-7/Webinar-backend-snippet/internal/pkg/livechat/presentation/controller"
)

// UseCases bundles everything the chat routes need.
type UseCases struct {
	Open     *usecase.OpenConnectionUseCase
	Close    *usecase.CloseConnectionUseCase
	Post     *usecase.PostMessageUseCase
	List     *usecase.ListConversationsUseCase
	Seen     *usecase.MarkConversationSeenUseCase
	Archive  *usecase.ArchiveConversationUseCase
	Messages *usecase.ListMessagesUseCase
}

// RegisterRoutes registers the chat endpoints under the given router group.
// It constructs per-surface controllers and binds them directly to routes.
func RegisterRoutes(g *gin.RouterGroup, uc UseCases, gateway *realtime.Gateway, verifier *auth.TokenVerifier) {
	eventCtl := controller.NewChatEventController(uc.Open, uc.Close, uc.Post)
	socketCtl := controller.NewChatSocketController(gateway)
	inboxCtl := controller.NewInboxController(uc.List, uc.Seen, uc.Archive, uc.Messages)

	// Push-gateway bridge: an external socket service forwards lifecycle
	// events here.
	g.PUT("/chat", eventCtl.HandleConnect())
	g.POST("/chat", eventCtl.HandlePost())
	g.DELETE("/chat", eventCtl.HandleDisconnect())

	// Built-in websocket endpoint for gatewayless deployments.
	g.GET("/chat/ws", socketCtl.Handle())

	// Team dashboard inbox.
	staff := g.Group("/", RequireStaff(verifier))
	staff.GET("/conversations", inboxCtl.HandleList())
	staff.POST("/conversations/:conversationId/seen", inboxCtl.HandleSeen())
	staff.POST("/conversations/:conversationId/archive", inboxCtl.HandleArchive())
	staff.GET("/conversations/:conversationId/messages", inboxCtl.HandleMessages())
}
