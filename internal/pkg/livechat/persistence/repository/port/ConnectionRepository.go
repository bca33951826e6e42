package repository

import (
	"context"

	livechat "github.com/smartcoder-7/Webinar-backend-snippet/internal/pkg/livechat/domain"
)

// LiveQuery selects the connections relevant to one conversation: every
// staff-bound connection on the team plus every connection bound to the
// attendee within their session set.
type LiveQuery struct {
	TeamID     string
	AttendeeID string
	SetID      string
}

// ConnectionRepository persists the live connection registry. Mutations on
// distinct connection ids never conflict; each call is individually atomic.
type ConnectionRepository interface {
	// Save upserts the full record keyed by connection id.
	Save(ctx context.Context, c livechat.Connection) error
	// Find returns the connection or ErrConnectionNotFound.
	Find(ctx context.Context, connectionID string) (*livechat.Connection, error)
	// Delete removes the record; deleting an absent id is not an error.
	Delete(ctx context.Context, connectionID string) error
	// FindLive returns all connections matching the query.
	FindLive(ctx context.Context, q LiveQuery) ([]livechat.Connection, error)
}
