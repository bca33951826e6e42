package livechat

import "time"

// Wire-format payload fanned out to live connections after a post.

type ConversationPayload struct {
	ID             string     `json:"id"`
	IsArchived     bool       `json:"isArchived"`
	InEmail        bool       `json:"inEmail"`
	LastReadAt     *time.Time `json:"lastReadAt"`
	SortDate       time.Time  `json:"sortDate"`
	IsAttendeeLive bool       `json:"isAttendeeLive"`
}

type UserPayload struct {
	ID              string `json:"id"`
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	ProfileMediaURL string `json:"profileMediaUrl"`
}

type AttendeePayload struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type MessagePayload struct {
	ID             string      `json:"id"`
	FromAttendee   bool        `json:"fromAttendee"`
	RoomType       RoomPhase   `json:"roomType"`
	TimeInRoomSecs float64     `json:"timeInRoomSecs"`
	TimeSent       time.Time   `json:"timeSent"`
	Content        string      `json:"content"`
	Type           MessageKind `json:"type"`
}

type TypingPayload struct {
	FromAttendee bool      `json:"fromAttendee"`
	TimeSent     time.Time `json:"timeSent"`
}

// ChatBroadcast is the outbound socket payload. Message and Typing are
// mutually exclusive; Interaction posts carry neither.
type ChatBroadcast struct {
	HasUnreadMessages bool                `json:"hasUnreadMessages"`
	Conversation      ConversationPayload `json:"conversation"`
	User              UserPayload         `json:"user"`
	Attendee          *AttendeePayload    `json:"attendee,omitempty"`
	Message           *MessagePayload     `json:"message,omitempty"`
	Typing            *TypingPayload      `json:"typing,omitempty"`
}

// BroadcastForMessage assembles the payload for one posted event.
func BroadcastForMessage(conversation Conversation, user User, attendee *Attendee, input MessageInput, persisted *Message) ChatBroadcast {
	out := ChatBroadcast{
		HasUnreadMessages: conversation.HasUnreadMessages(),
		Conversation: ConversationPayload{
			ID:             conversation.ID,
			IsArchived:     conversation.IsArchived,
			InEmail:        conversation.InEmail,
			LastReadAt:     conversation.LastReadAt,
			SortDate:       conversation.SortDate,
			IsAttendeeLive: conversation.IsAttendeeLive,
		},
		User: UserPayload{
			ID:              user.ID,
			FirstName:       user.FirstName,
			LastName:        user.LastName,
			ProfileMediaURL: user.ProfileMediaURL,
		},
	}
	if attendee != nil {
		out.Attendee = &AttendeePayload{
			ID:        attendee.ID,
			FirstName: attendee.FirstName,
			LastName:  attendee.LastName,
		}
	}
	switch input.Kind {
	case KindTyping:
		out.Typing = &TypingPayload{FromAttendee: input.FromAttendee, TimeSent: input.TimeSent}
	case KindInteraction:
		// Interactions broadcast presence of activity only; payload TBD.
	case KindChat:
		if persisted != nil {
			out.Message = &MessagePayload{
				ID:             persisted.ID,
				FromAttendee:   persisted.FromAttendee,
				RoomType:       persisted.RoomType,
				TimeInRoomSecs: persisted.TimeInRoomSecs,
				TimeSent:       persisted.TimeSent,
				Content:        persisted.Content,
				Type:           persisted.Type,
			}
		}
	}
	return out
}
