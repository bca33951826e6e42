package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/smartcoder-7/Webinar-backend-snippet/internal/infrastructure/mailer"
	queueadapter "github.com/smartcoder-7/Webinar-backend-snippet/internal/infrastructure/queue/adapter"
	"github.com/smartcoder-7/Webinar-backend-snippet/internal/pkg/livechat/application/task"
)

// The worker consumes the offline-notification queue: chat messages posted
// while the counterpart had no live connection become email digests here.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or could not be loaded: %v", err)
	}

	srv, err := queueadapter.NewAsynqServer()
	if err != nil {
		log.Fatalf("failed to start task server: %v", err)
	}

	task.RegisterOfflineNotificationTasks(srv, mailer.LogMailer{})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx); err != nil {
		log.Fatalf("task server exited: %v", err)
	}
}
