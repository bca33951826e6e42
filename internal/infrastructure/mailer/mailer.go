package mailer

import (
	"context"
	"log"

	"github.com/smartcoder-7/Webinar-backend-snippet/internal/pkg/livechat/application/task"
)

// LogMailer is the development stand-in for the platform notification sink.
// It records what would have been sent; production deployments swap in the
// real sink behind the same interface.
type LogMailer struct{}

var _ task.Mailer = (*LogMailer)(nil)

func (LogMailer) SendModeratorOffline(_ context.Context, p task.OfflineNotificationPayload) error {
	log.Printf("mail: moderator-offline digest to %s %s <team %s>: %q (+%d prior)",
		p.User.FirstName, p.User.LastName, p.Team.ID, p.NewMessage.Content, len(p.PreviousMessages))
	return nil
}

func (LogMailer) SendAttendeeOffline(_ context.Context, p task.OfflineNotificationPayload) error {
	log.Printf("mail: attendee-offline digest to %s %s <attendee %s>: %q (+%d prior)",
		p.Attendee.FirstName, p.Attendee.LastName, p.Attendee.ID, p.NewMessage.Content, len(p.PreviousMessages))
	return nil
}
