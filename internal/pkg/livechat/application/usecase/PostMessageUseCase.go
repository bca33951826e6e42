package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	lockport "github.com/smartcoder-7/Webinar-backend-snippet/internal/infrastructure/lock/port"
	qport "github.com/smartcoder-7/Webinar-backend-snippet/internal/infrastructure/queue/port"
	"github.com/smartcoder-7/Webinar-backend-snippet/internal/pkg/livechat/application/task"
	livechat "github.com/smartcoder-7/Webinar-backend-snippet/internal/pkg/livechat/domain"
	repository "github.com/smartcoder-7/Webinar-backend-snippet/internal/pkg/livechat/persistence/repository/port"
)

// offlineHistoryLimit is how many recent messages an offline-notification
// email shows for context.
const offlineHistoryLimit = 5

// TokenVerifier validates a bearer credential from the envelope.
type TokenVerifier interface {
	Verify(token string) (livechat.StaffIdentity, error)
}

// PostMessageUseCase drives one inbound socket event through the full
// pipeline: rebind identity, resolve or create the conversation, persist the
// message, evaluate presence, fall back to email when the counterpart is
// offline, and fan the response out to every relevant live connection.
type PostMessageUseCase struct {
	Repos       repository.Repositories // pool-bound, used outside the transaction
	Tx          repository.TxManager
	Queue       qport.Client
	Broadcaster *Broadcaster
	Verifier    TokenVerifier
	// Locks serializes first-contact conversation creation per attendee. May
	// be nil; the storage unique constraint still guarantees correctness.
	Locks        lockport.Locker
	WelcomeDelay time.Duration

	now func() time.Time
}

func NewPostMessageUseCase(
	repos repository.Repositories,
	tx repository.TxManager,
	queue qport.Client,
	broadcaster *Broadcaster,
	verifier TokenVerifier,
	locks lockport.Locker,
	welcomeDelay time.Duration,
) *PostMessageUseCase {
	return &PostMessageUseCase{
		Repos:        repos,
		Tx:           tx,
		Queue:        queue,
		Broadcaster:  broadcaster,
		Verifier:     verifier,
		Locks:        locks,
		WelcomeDelay: welcomeDelay,
		now:          time.Now,
	}
}

// Execute processes one envelope. Envelopes without a chat payload only
// update connection bindings and return a nil broadcast.
func (uc *PostMessageUseCase) Execute(ctx context.Context, envelope livechat.SocketEnvelope) (*livechat.ChatBroadcast, error) {
	if envelope.ConnectionID == "" {
		return nil, fmt.Errorf("%w: connectionId is required", ErrValidation)
	}

	conn, err := uc.Repos.Connections.Find(ctx, envelope.ConnectionID)
	if err != nil {
		if errors.Is(err, repository.ErrConnectionNotFound) {
			return nil, fmt.Errorf("%w: connection %s", ErrNotFound, envelope.ConnectionID)
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	post := envelope.Post
	if post == nil {
		return nil, nil
	}

	if post.Token != nil {
		if err := uc.rebindStaff(ctx, conn, *post.Token); err != nil {
			return nil, err
		}
	}

	if post.Attendee != nil {
		if err := uc.bindAttendee(ctx, conn, *post.Attendee); err != nil {
			return nil, err
		}
	}

	if post.Chat == nil {
		return nil, nil
	}
	return uc.postChat(ctx, conn, *post.Chat)
}

// rebindStaff verifies the token and rewrites the staff binding only when the
// identity actually changed.
func (uc *PostMessageUseCase) rebindStaff(ctx context.Context, conn *livechat.Connection, token string) error {
	ident, err := uc.Verifier.Verify(token)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if conn.BindStaff(ident.UserID, ident.Role, ident.TeamID) {
		if err := uc.Repos.Connections.Save(ctx, *conn); err != nil {
			return fmt.Errorf("%w: %v", ErrPersistence, err)
		}
	}
	return nil
}

// bindAttendee resolves the attendee and attaches them to the connection,
// emitting the join presence event.
func (uc *PostMessageUseCase) bindAttendee(ctx context.Context, conn *livechat.Connection, bind livechat.AttendeeBind) error {
	attendee, err := uc.Repos.Directory.FindAttendeeByKey(ctx, bind.Key())
	if err != nil {
		if errors.Is(err, repository.ErrAttendeeNotFound) {
			return fmt.Errorf("%w: attendee %s", ErrNotFound, bind.VisitorID)
		}
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	conn.BindAttendee(attendee.ID, bind.SetID)
	if err := uc.Repos.Connections.Save(ctx, *conn); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	log.Printf("live: attendee %s joined (connection %s)", attendee.ID, conn.ConnectionID)
	return nil
}

func (uc *PostMessageUseCase) postChat(ctx context.Context, conn *livechat.Connection, input livechat.MessageInput) (*livechat.ChatBroadcast, error) {
	if !input.Kind.Valid() {
		return nil, fmt.Errorf("%w: unknown message type %q", ErrValidation, input.Kind)
	}
	if input.TimeSent.IsZero() {
		return nil, fmt.Errorf("%w: timeSent is required", ErrValidation)
	}

	// Attendee messages identify the conversation through the connection's
	// binding, not through client-supplied fields.
	if input.FromAttendee {
		if !conn.IsAttendee() {
			return nil, fmt.Errorf("%w: connection has no attendee bound", ErrNotFound)
		}
		attendee, err := uc.Repos.Directory.FindAttendeeByID(ctx, *conn.AttendeeID)
		if err != nil {
			if errors.Is(err, repository.ErrAttendeeNotFound) {
				return nil, fmt.Errorf("%w: attendee %s", ErrNotFound, *conn.AttendeeID)
			}
			return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
		}
		key := attendee.Key()
		input.AttendeeKey = &key
	}

	var (
		conversation *livechat.Conversation
		newMessage   *livechat.Message
		set          *livechat.WebinarSet
		attendee     *livechat.Attendee
		webinar      *livechat.Webinar
		actor        *livechat.User
		teamID       string
	)

	err := uc.Tx.WithinTx(ctx, func(ctx context.Context, r repository.Repositories) error {
		var err error
		conversation, err = uc.resolveConversation(ctx, r, input, conn)
		if err != nil {
			return err
		}

		set, err = r.Directory.FindSet(ctx, conversation.SetID)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrPersistence, err)
		}
		// A conversation cannot exist without a moderator of record; this is
		// a data-integrity precondition, not a client mistake.
		if set.ModeratorID == nil || *set.ModeratorID == "" {
			return fmt.Errorf("%w: error saving chat message", ErrPersistence)
		}

		attendee, err = r.Directory.FindAttendeeByID(ctx, conversation.AttendeeID)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrPersistence, err)
		}
		webinar, err = r.Directory.FindWebinar(ctx, attendee.WebinarID)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrPersistence, err)
		}

		// The acting user is the bound staff member when present (could be an
		// admin, not the moderator), otherwise the set's moderator of record.
		if conn.IsStaff() {
			actor, err = r.Directory.FindUser(ctx, *conn.UserID)
			teamID = *conn.TeamID
		} else {
			actor, err = r.Directory.FindUser(ctx, *set.ModeratorID)
			teamID = set.TeamID
		}
		if err != nil {
			if errors.Is(err, repository.ErrUserNotFound) {
				return fmt.Errorf("%w: acting user", ErrNotFound)
			}
			return fmt.Errorf("%w: %v", ErrPersistence, err)
		}

		if input.Kind == livechat.KindTyping {
			return nil
		}

		// Durable write: message plus conversation sort-date/unarchive, one
		// transaction.
		conversation.SortDate = input.TimeSent
		conversation.IsArchived = false
		if err := r.Conversations.TouchOnPost(ctx, conversation.ID, input.TimeSent); err != nil {
			return fmt.Errorf("%w: %v", ErrPersistence, err)
		}

		phase, secs := livechat.PhaseAt(attendee.StartTime, *webinar, input.TimeSent, input.TimeInWebinarSecs)
		m, err := livechat.NewMessage(livechat.Message{
			ConversationID: conversation.ID,
			UserID:         &actor.ID,
			SetID:          set.ID,
			FromAttendee:   input.FromAttendee,
			RoomType:       phase,
			TimeInRoomSecs: secs,
			TimeSent:       input.TimeSent,
			Content:        input.Content,
			Type:           input.Kind,
			CreatedAt:      uc.now().UTC(),
		})
		if err != nil {
			return fmt.Errorf("%w: %v", ErrValidation, err)
		}
		if err := r.Messages.Save(ctx, m); err != nil {
			return fmt.Errorf("%w: %v", ErrPersistence, err)
		}
		newMessage = m
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Everything below is best-effort: the durable write is the promise this
	// system makes, so failures here are logged and swallowed.
	live, err := uc.Repos.Connections.FindLive(ctx, repository.LiveQuery{
		TeamID:     teamID,
		AttendeeID: conversation.AttendeeID,
		SetID:      set.ID,
	})
	if err != nil {
		log.Printf("post: find live connections: %v", err)
		live = nil
	}

	if input.FromAttendee {
		// The attendee just sent a message; they are online by definition.
		conversation.IsAttendeeLive = true
		if !livechat.ActingStaffOnline(actor.ID, live) && newMessage != nil {
			uc.notifyOffline(ctx, task.ModeratorOfflineTaskType, conversation, newMessage, attendee, actor, webinar, teamID)
		}
	} else {
		online := livechat.AttendeeOnline(conversation.AttendeeID, live)
		conversation.IsAttendeeLive = online
		if !online && newMessage != nil {
			uc.notifyOffline(ctx, task.AttendeeOfflineTaskType, conversation, newMessage, attendee, actor, webinar, teamID)
		}
	}

	payload := livechat.BroadcastForMessage(*conversation, *actor, attendee, input, newMessage)

	targets := live
	if input.Kind == livechat.KindTyping {
		targets = excludeTypingEcho(live, input.FromAttendee, conversation.AttendeeID, conn)
	}
	uc.Broadcaster.Broadcast(ctx, targets, payload)

	return &payload, nil
}

// excludeTypingEcho drops the typist's own connections from the fan-out set:
// attendees should not see their own typing indicator and neither should the
// staff member who is typing.
func excludeTypingEcho(live []livechat.Connection, fromAttendee bool, attendeeID string, origin *livechat.Connection) []livechat.Connection {
	out := make([]livechat.Connection, 0, len(live))
	for _, target := range live {
		if fromAttendee && target.AttendeeID != nil && *target.AttendeeID == attendeeID {
			continue
		}
		if !fromAttendee && origin.UserID != nil && target.UserID != nil && *target.UserID == *origin.UserID {
			continue
		}
		out = append(out, target)
	}
	return out
}

// notifyOffline dispatches the async email job carrying the new message and
// its recent context. The prior-message window is the newest five by timeSent
// reversed to chronological order, with the new message excluded by identity.
func (uc *PostMessageUseCase) notifyOffline(
	ctx context.Context,
	taskType string,
	conversation *livechat.Conversation,
	newMessage *livechat.Message,
	attendee *livechat.Attendee,
	actor *livechat.User,
	webinar *livechat.Webinar,
	teamID string,
) {
	recent, err := uc.Repos.Messages.ListRecent(ctx, conversation.ID, offlineHistoryLimit)
	if err != nil {
		log.Printf("post: offline history for %s: %v", conversation.ID, err)
		recent = nil
	}
	previous := make([]livechat.Message, 0, len(recent))
	for i := len(recent) - 1; i >= 0; i-- {
		if recent[i].ID == newMessage.ID {
			continue
		}
		previous = append(previous, recent[i])
	}

	team, err := uc.Repos.Directory.FindTeam(ctx, teamID)
	if err != nil {
		log.Printf("post: team %s for offline notification: %v", teamID, err)
		return
	}

	payload := task.OfflineNotificationPayload{
		Attendee:         *attendee,
		NewMessage:       *newMessage,
		PreviousMessages: previous,
		User:             *actor,
		Webinar:          *webinar,
		Team:             *team,
	}
	b, err := json.Marshal(payload)
	if err != nil {
		log.Printf("post: marshal offline notification: %v", err)
		return
	}
	_, err = uc.Queue.Enqueue(ctx, qport.Task{Type: taskType, Payload: b}, qport.EnqueueOption{
		Queue:    task.NotificationQueue,
		MaxRetry: 10,
	})
	if err != nil {
		// The message is already durable; a lost email is regrettable but
		// not a failure of the post.
		log.Printf("post: enqueue %s: %v", taskType, err)
	}
}
