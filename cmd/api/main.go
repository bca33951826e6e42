package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	v1 "github.com/smartcoder-7/Webinar-backend-snippet/cmd/api/router/v1"
	"github.com/smartcoder-7/Webinar-backend-snippet/internal/infrastructure/auth"
	"github.com/smartcoder-7/Webinar-backend-snippet/internal/infrastructure/database"
	lockadapter "github.com/smartcoder-7/Webinar-backend-snippet/internal/infrastructure/lock/adapter"
	lockport "github.com/smartcoder-7/Webinar-backend-snippet/internal/infrastructure/lock/port"
	queueadapter "github.com/smartcoder-7/Webinar-backend-snippet/internal/infrastructure/queue/adapter"
	"github.com/smartcoder-7/Webinar-backend-snippet/internal/infrastructure/realtime"
	"github.com/smartcoder-7/Webinar-backend-snippet/internal/pkg/livechat/application/usecase"
	"github.com/smartcoder-7/Webinar-backend-snippet/internal/pkg/livechat/persistence/repository/adapter"
	"github.com/smartcoder-7/Webinar-backend-snippet/internal/pkg/livechat/presentation/controller"
	httpHandler "github.com/smartcoder-7/Webinar-backend-snippet/internal/pkg/livechat/presentation/http"
)

func welcomeDelayFromEnv() time.Duration {
	if v := os.Getenv("WELCOME_MESSAGE_DELAY_SECS"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs >= 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return 30 * time.Second
}

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or could not be loaded: %v", err)
	}

	// Connect to the database on startup
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := database.NewPoolFromEnv(ctx)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer pool.Close()

	verifier, err := auth.NewTokenVerifierFromEnv()
	if err != nil {
		log.Fatalf("failed to configure token verifier: %v", err)
	}

	queueClient, err := queueadapter.NewAsynqClientFromEnv()
	if err != nil {
		log.Fatalf("failed to connect task queue: %v", err)
	}
	defer queueClient.Close()

	// The lock service is an optimization; run without it if Redis locking
	// cannot be reached at boot.
	var locker lockport.Locker
	if rl, err := lockadapter.NewRedisLockerFromEnv(); err != nil {
		log.Printf("Warning: conversation lock service unavailable: %v", err)
	} else {
		defer rl.Close()
		locker = rl
	}

	repos := adapter.Bind(pool)
	txManager := adapter.NewPgTxManager(pool)

	gateway := realtime.NewGateway(nil)
	broadcaster := usecase.NewBroadcaster(gateway, repos.Connections)

	openUC := usecase.NewOpenConnectionUseCase(repos.Connections)
	closeUC := usecase.NewCloseConnectionUseCase(repos.Connections)
	postUC := usecase.NewPostMessageUseCase(
		repos, txManager, queueClient, broadcaster, verifier, locker, welcomeDelayFromEnv(),
	)
	gateway.SetHandler(controller.NewChatEventController(openUC, closeUC, postUC))

	r := gin.Default()

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "OK",
		})
	})

	v1.RegisterRoutes(r, v1.Deps{
		UseCases: httpHandler.UseCases{
			Open:     openUC,
			Close:    closeUC,
			Post:     postUC,
			List:     usecase.NewListConversationsUseCase(repos.Conversations),
			Seen:     usecase.NewMarkConversationSeenUseCase(repos.Conversations),
			Archive:  usecase.NewArchiveConversationUseCase(repos.Conversations),
			Messages: usecase.NewListMessagesUseCase(repos.Conversations, repos.Messages),
		},
		Gateway:  gateway,
		Verifier: verifier,
	})

	// Start HTTP server (blocks until shutdown)
	_ = r.Run()
}
