package task

import (
	"context"
	"encoding/json"
	"time"

	qport "github.com/smartcoder-7/Webinar-backend-snippet/internal/infrastructure/queue/port"
	livechat "github.com/smartcoder-7/Webinar-backend-snippet/internal/pkg/livechat/domain"
)

// Queue task names for the offline-notification fallback.
const (
	ModeratorOfflineTaskType = "chat:moderator_offline"
	AttendeeOfflineTaskType  = "chat:attendee_offline"
)

// NotificationQueue is the asynq queue the email jobs ride on.
const NotificationQueue = "notifications"

// OfflineNotificationPayload is the JSON payload for both offline-email task
// types: the new message plus enough context to render a digest.
type OfflineNotificationPayload struct {
	Attendee         livechat.Attendee  `json:"attendee"`
	NewMessage       livechat.Message   `json:"newMessage"`
	PreviousMessages []livechat.Message `json:"previousMessages"`
	User             livechat.User      `json:"user"`
	Webinar          livechat.Webinar   `json:"webinar"`
	Team             livechat.Team      `json:"team"`
}

// Mailer renders and dispatches the offline-notification emails. The real
// delivery channel is the platform's notification sink; the worker only hands
// the digest over.
type Mailer interface {
	SendModeratorOffline(ctx context.Context, p OfflineNotificationPayload) error
	SendAttendeeOffline(ctx context.Context, p OfflineNotificationPayload) error
}

// RegisterOfflineNotificationTasks binds both task handlers to the server.
func RegisterOfflineNotificationTasks(srv qport.Server, mailer Mailer) {
	srv.Register(ModeratorOfflineTaskType, handler(mailer.SendModeratorOffline))
	srv.Register(AttendeeOfflineTaskType, handler(mailer.SendAttendeeOffline))
}

func handler(send func(ctx context.Context, p OfflineNotificationPayload) error) qport.Handler {
	return func(ctx context.Context, t qport.Task) error {
		var p OfflineNotificationPayload
		if err := json.Unmarshal(t.Payload, &p); err != nil {
			// Malformed payloads never become deliverable; fail fast.
			return err
		}
		ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		return send(ctx, p)
	}
}
