package repository

import (
	"context"
	"errors"
	"time"

	livechat "github.com/smartcoder-7/Webinar-backend-snippet/internal/pkg/livechat/domain"
)

// Sentinel errors shared by the persistence ports.
var (
	ErrConnectionNotFound   = errors.New("connection not found")
	ErrConversationNotFound = errors.New("conversation not found")
	ErrAttendeeNotFound     = errors.New("attendee not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrTeamNotFound         = errors.New("team not found")
	ErrWebinarNotFound      = errors.New("webinar not found")
	ErrSetNotFound          = errors.New("webinar set not found")
	// ErrConversationExists signals the unique-key race on first contact;
	// callers retry as a lookup.
	ErrConversationExists = errors.New("conversation already exists for attendee")
)

// ConversationRepository persists conversation threads.
type ConversationRepository interface {
	// FindInTeam looks a conversation up scoped to a team, or
	// ErrConversationNotFound.
	FindInTeam(ctx context.Context, id, teamID string) (*livechat.Conversation, error)
	// FindForAttendee resolves by the attendee natural key, or
	// ErrConversationNotFound.
	FindForAttendee(ctx context.Context, key livechat.AttendeeKey) (*livechat.Conversation, error)
	// Create inserts a new conversation. A concurrent first contact surfaces
	// as ErrConversationExists.
	Create(ctx context.Context, c *livechat.Conversation) error
	// TouchOnPost moves the sort date to the message's send time and clears
	// the archived flag.
	TouchOnPost(ctx context.Context, id string, sortDate time.Time) error
	// SetLastReadAt marks the thread seen as of t.
	SetLastReadAt(ctx context.Context, id string, t time.Time) error
	// SetArchived flips the archive flag.
	SetArchived(ctx context.Context, id string, archived bool) error
	// ListForTeam returns the team inbox with filters applied.
	ListForTeam(ctx context.Context, teamID string, f livechat.ConversationFilters) ([]livechat.ConversationListItem, error)
}
