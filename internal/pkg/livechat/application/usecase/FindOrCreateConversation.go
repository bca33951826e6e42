package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	livechat "github.com/smartcoder-7/Webinar-backend-snippet/internal/pkg/livechat/domain"
	repository "github.com/smartcoder-7/Webinar-backend-snippet/internal/pkg/livechat/persistence/repository/port"
)

// creationLockTTL bounds how long a crashed creator can hold the per-attendee
// lock. The unique constraint is the correctness guarantee; the lock only
// keeps the common case to a single INSERT.
const creationLockTTL = 10 * time.Second

// resolveConversation attaches the message to its conversation. Staff
// messages must name an existing conversation in the staff member's team;
// attendee messages resolve by natural key and create the conversation on
// first contact.
func (uc *PostMessageUseCase) resolveConversation(
	ctx context.Context,
	r repository.Repositories,
	input livechat.MessageInput,
	conn *livechat.Connection,
) (*livechat.Conversation, error) {
	if input.AttendeeKey == nil {
		if input.ConversationID == nil || *input.ConversationID == "" {
			return nil, fmt.Errorf("%w: conversationId or attendeeId is required", ErrValidation)
		}
		if !conn.IsStaff() {
			return nil, fmt.Errorf("%w: staff identity required for conversationId posts", ErrValidation)
		}
		conversation, err := r.Conversations.FindInTeam(ctx, *input.ConversationID, *conn.TeamID)
		if err != nil {
			if errors.Is(err, repository.ErrConversationNotFound) {
				return nil, fmt.Errorf("%w: conversation %s", ErrNotFound, *input.ConversationID)
			}
			return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
		}
		return conversation, nil
	}

	conversation, err := r.Conversations.FindForAttendee(ctx, *input.AttendeeKey)
	if err == nil {
		return conversation, nil
	}
	if !errors.Is(err, repository.ErrConversationNotFound) {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return uc.createConversation(ctx, r, *input.AttendeeKey)
}

// createConversation handles first contact: insert the thread and seed it
// with the webinar's welcome message, serialized per attendee.
func (uc *PostMessageUseCase) createConversation(
	ctx context.Context,
	r repository.Repositories,
	key livechat.AttendeeKey,
) (*livechat.Conversation, error) {
	attendee, err := r.Directory.FindAttendeeByKey(ctx, key)
	if err != nil {
		if errors.Is(err, repository.ErrAttendeeNotFound) {
			return nil, fmt.Errorf("%w: attendee %s", ErrNotFound, key.VisitorID)
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	if uc.Locks != nil {
		lockKey := "chat:conversation:" + attendee.ID
		acquired, err := uc.Locks.Acquire(ctx, lockKey, creationLockTTL)
		if err != nil {
			// Lock service trouble must not block the post; fall through to
			// the constraint-backed path.
			log.Printf("post: acquire %s: %v", lockKey, err)
		} else if acquired {
			defer func() {
				if err := uc.Locks.Release(context.WithoutCancel(ctx), lockKey); err != nil {
					log.Printf("post: release %s: %v", lockKey, err)
				}
			}()
			// Another poster may have finished while we waited for the lock.
			if conversation, err := r.Conversations.FindForAttendee(ctx, key); err == nil {
				return conversation, nil
			} else if !errors.Is(err, repository.ErrConversationNotFound) {
				return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
			}
		}
	}

	set, err := r.Directory.FindSet(ctx, attendee.SetID)
	if err != nil {
		if errors.Is(err, repository.ErrSetNotFound) {
			return nil, fmt.Errorf("%w: webinar set %s", ErrNotFound, attendee.SetID)
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	conversation := &livechat.Conversation{
		ID:         uuid.NewString(),
		AttendeeID: attendee.ID,
		SetID:      set.ID,
		WebinarID:  attendee.WebinarID,
		SortDate:   uc.now().UTC(),
	}
	if err := r.Conversations.Create(ctx, conversation); err != nil {
		if errors.Is(err, repository.ErrConversationExists) {
			// Lost the race; the winner's row is what we wanted anyway.
			conversation, err := r.Conversations.FindForAttendee(ctx, key)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
			}
			return conversation, nil
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	if err := uc.seedWelcomeMessage(ctx, r, conversation, attendee, set); err != nil {
		return nil, err
	}
	return conversation, nil
}

// seedWelcomeMessage writes the moderator's templated greeting as the first
// message of the thread. The greeting is stamped at join time plus the
// configured delay so it reads as if sent while the attendee was settling in,
// replays included.
func (uc *PostMessageUseCase) seedWelcomeMessage(
	ctx context.Context,
	r repository.Repositories,
	conversation *livechat.Conversation,
	attendee *livechat.Attendee,
	set *livechat.WebinarSet,
) error {
	webinar, err := r.Directory.FindWebinar(ctx, attendee.WebinarID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	content := livechat.InjectWelcomeVariables(webinar.PrivateWelcomeMessage, *attendee)
	if content == "" {
		return nil
	}

	sentAt := attendee.JoinTime.Add(uc.WelcomeDelay)
	phase, secs := livechat.PhaseAt(attendee.StartTime, *webinar, sentAt, nil)
	m, err := livechat.NewMessage(livechat.Message{
		ConversationID: conversation.ID,
		UserID:         set.ModeratorID,
		SetID:          set.ID,
		FromAttendee:   false,
		RoomType:       phase,
		TimeInRoomSecs: secs,
		TimeSent:       sentAt,
		Content:        content,
		Type:           livechat.KindChat,
		CreatedAt:      uc.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if err := r.Messages.Save(ctx, m); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}
