package livechat

import "time"

// Conversation is the durable thread between exactly one attendee and the
// team running their webinar. Created lazily on first contact, never deleted,
// only archived.
type Conversation struct {
	ID         string     `db:"id"`
	AttendeeID string     `db:"attendee_id"`
	SetID      string     `db:"set_id"`
	WebinarID  string     `db:"ewebinar_id"`
	IsArchived bool       `db:"is_archived"`
	InEmail    bool       `db:"in_email"`
	LastReadAt *time.Time `db:"last_read_at"`
	SortDate   time.Time  `db:"sort_date"`

	// IsAttendeeLive is derived from the connection registry per request and
	// is never persisted.
	IsAttendeeLive bool `db:"-"`
}

// HasUnreadMessages reports whether activity happened since the team last
// read the thread.
func (c *Conversation) HasUnreadMessages() bool {
	if c.LastReadAt == nil {
		return true
	}
	return c.LastReadAt.Before(c.SortDate)
}

// ConversationTypeFilter selects which slice of the inbox to list.
type ConversationTypeFilter string

const (
	FilterInbox    ConversationTypeFilter = "Inbox"
	FilterArchived ConversationTypeFilter = "Archived"
	FilterUnread   ConversationTypeFilter = "Unread"
	FilterLive     ConversationTypeFilter = "Live"
)

// ConversationFilters narrows and orders an inbox listing.
type ConversationFilters struct {
	Type      ConversationTypeFilter
	SetID     *string
	OrderBy   string // "sortDate" or "lastReadAt"
	OrderDesc bool
	Limit     int
	Cursor    *string
}

// ConversationListItem is one inbox row with its denormalized extras.
type ConversationListItem struct {
	Conversation Conversation
	Attendee     Attendee
	LastMessage  *Message
}
