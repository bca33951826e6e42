package repository

import (
	"context"

	livechat "github.com/smartcoder-7/Webinar-backend-snippet/internal/pkg/livechat/domain"
)

// DirectoryRepository reads the platform entities the chat engine depends on
// but does not own. Every lookup returns the matching sentinel not-found
// error from this package.
type DirectoryRepository interface {
	FindAttendeeByKey(ctx context.Context, key livechat.AttendeeKey) (*livechat.Attendee, error)
	FindAttendeeByID(ctx context.Context, id string) (*livechat.Attendee, error)
	FindUser(ctx context.Context, id string) (*livechat.User, error)
	FindTeam(ctx context.Context, id string) (*livechat.Team, error)
	FindWebinar(ctx context.Context, id string) (*livechat.Webinar, error)
	FindSet(ctx context.Context, id string) (*livechat.WebinarSet, error)
}
