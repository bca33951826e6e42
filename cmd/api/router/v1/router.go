package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/smartcoder-7/Webinar-backend-snippet/internal/infrastructure/auth"
	"github.com/smartcoder-7/Webinar-backend-snippet/internal/infrastructure/realtime"
	httpHandler "github.com/smartcoder-7/Webinar-backend-snippet/internal/pkg/livechat/presentation/http"
)

// Deps carries the wired application services into the HTTP layer.
type Deps struct {
	UseCases httpHandler.UseCases
	Gateway  *realtime.Gateway
	Verifier *auth.TokenVerifier
}

// RegisterRoutes mounts all version 1 API routes under /v1
func RegisterRoutes(r *gin.Engine, d Deps) {
	v1 := r.Group("/v1")
	httpHandler.RegisterRoutes(v1, d.UseCases, d.Gateway, d.Verifier)
}
