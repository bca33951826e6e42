package repository

import (
	"context"

	livechat "github.com/smartcoder-7/Webinar-backend-snippet/internal/pkg/livechat/domain"
)

// MessageRepository persists chat messages.
type MessageRepository interface {
	// Save inserts the message.
	Save(ctx context.Context, m *livechat.Message) error
	// ListInConversation returns all messages ordered by timeSent ascending.
	ListInConversation(ctx context.Context, conversationID string) ([]livechat.Message, error)
	// ListRecent returns up to limit messages ordered by timeSent descending.
	ListRecent(ctx context.Context, conversationID string, limit int) ([]livechat.Message, error)
	// LastInConversation returns the newest message or nil.
	LastInConversation(ctx context.Context, conversationID string) (*livechat.Message, error)
	// ListForAttendee returns an attendee's messages across a set, oldest
	// first.
	ListForAttendee(ctx context.Context, setID, attendeeID string) ([]livechat.Message, error)
}
