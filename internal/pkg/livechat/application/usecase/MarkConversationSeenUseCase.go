package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	livechat "github.com/smartcoder-7/Webinar-backend-snippet/internal/pkg/livechat/domain"
	repository "github.com/smartcoder-7/Webinar-backend-snippet/internal/pkg/livechat/persistence/repository/port"
)

// MarkConversationSeenUseCase stamps a thread read as of now, scoped to the
// caller's team, and returns the updated conversation.
type MarkConversationSeenUseCase struct {
	Conversations repository.ConversationRepository

	now func() time.Time
}

func NewMarkConversationSeenUseCase(conversations repository.ConversationRepository) *MarkConversationSeenUseCase {
	return &MarkConversationSeenUseCase{Conversations: conversations, now: time.Now}
}

func (uc *MarkConversationSeenUseCase) Execute(ctx context.Context, conversationID, teamID string) (*livechat.Conversation, error) {
	if conversationID == "" {
		return nil, fmt.Errorf("%w: conversation id is required", ErrValidation)
	}
	conversation, err := uc.Conversations.FindInTeam(ctx, conversationID, teamID)
	if err != nil {
		if errors.Is(err, repository.ErrConversationNotFound) {
			return nil, fmt.Errorf("%w: conversation %s", ErrNotFound, conversationID)
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	readAt := uc.now().UTC()
	if err := uc.Conversations.SetLastReadAt(ctx, conversationID, readAt); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	conversation.LastReadAt = &readAt
	return conversation, nil
}
