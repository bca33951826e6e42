package livechat

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MessageKind is the kind of event travelling over the chat socket.
type MessageKind string

const (
	KindChat        MessageKind = "Chat"
	KindTyping      MessageKind = "Typing"
	KindInteraction MessageKind = "Interaction"
)

// Valid reports whether the kind is one the socket accepts.
func (k MessageKind) Valid() bool {
	switch k {
	case KindChat, KindTyping, KindInteraction:
		return true
	}
	return false
}

// Message is one persisted chat event in a conversation. Typing events never
// become Messages.
type Message struct {
	ID             string      `db:"id"`
	ConversationID string      `db:"conversation_id"`
	UserID         *string     `db:"user_id"`
	SetID          string      `db:"set_id"`
	FromAttendee   bool        `db:"from_attendee"`
	RoomType       RoomPhase   `db:"room_type"`
	TimeInRoomSecs float64     `db:"time_in_room_secs"`
	TimeSent       time.Time   `db:"time_sent"`
	Content        string      `db:"content"`
	Type           MessageKind `db:"type"`
	CreatedAt      time.Time   `db:"created_at"`
}

// NewMessage validates and fills in a message before persistence.
func NewMessage(m Message) (*Message, error) {
	m.Content = strings.TrimSpace(m.Content)
	if m.ConversationID == "" {
		return nil, errors.New("conversation id is required")
	}
	if m.Content == "" {
		return nil, errors.New("message content is required")
	}
	if m.Type == "" {
		m.Type = KindChat
	}
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	return &m, nil
}

// AttendeeKey is the natural key identifying one attendee of one session.
type AttendeeKey struct {
	VisitorID string    `json:"visitorId"`
	SetID     string    `json:"setId"`
	StartTime time.Time `json:"startTime"`
}

// MessageInput is the chat portion of the socket envelope.
type MessageInput struct {
	// ConversationID carries everything needed to attach a staff message.
	ConversationID *string `json:"conversationId,omitempty"`
	// AttendeeKey identifies the attendee when no conversation id is present.
	AttendeeKey *AttendeeKey `json:"attendeeId,omitempty"`
	FromAttendee bool        `json:"fromAttendee"`
	TimeSent     time.Time   `json:"timeSent"`
	// TimeInWebinarSecs is the client-measured offset into the session,
	// starting at 0 at the top of the waiting room. Replays exclude paused
	// time, which the server cannot reconstruct on its own.
	TimeInWebinarSecs *float64    `json:"timeInWebinarSecs,omitempty"`
	Content           string      `json:"content"`
	Kind              MessageKind `json:"type"`
}

// AttendeeBind identifies an attendee joining over a connection.
type AttendeeBind struct {
	VisitorID string    `json:"visitorId"`
	SetID     string    `json:"setId"`
	StartTime time.Time `json:"startTime"`
	OptOut    bool      `json:"optOut,omitempty"`
}

// Key returns the attendee natural key for lookups.
func (b AttendeeBind) Key() AttendeeKey {
	return AttendeeKey{VisitorID: b.VisitorID, SetID: b.SetID, StartTime: b.StartTime}
}

// MessagePost is the body of a socket post event.
type MessagePost struct {
	Token    *string       `json:"token,omitempty"`
	Attendee *AttendeeBind `json:"attendee,omitempty"`
	Chat     *MessageInput `json:"chat,omitempty"`
}

// SocketEnvelope is the inbound event as forwarded by the push gateway.
type SocketEnvelope struct {
	ConnectionID string       `json:"connectionId"`
	Post         *MessagePost `json:"post,omitempty"`
}
