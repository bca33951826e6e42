package usecase

import (
	"context"
	"errors"
	"fmt"

	livechat "github.com/smartcoder-7/Webinar-backend-snippet/internal/pkg/livechat/domain"
	repository "github.com/smartcoder-7/Webinar-backend-snippet/internal/pkg/livechat/persistence/repository/port"
)

// ListMessagesUseCase returns a conversation's transcript, oldest first, for
// the inbox detail pane.
type ListMessagesUseCase struct {
	Conversations repository.ConversationRepository
	Messages      repository.MessageRepository
}

func NewListMessagesUseCase(conversations repository.ConversationRepository, messages repository.MessageRepository) *ListMessagesUseCase {
	return &ListMessagesUseCase{Conversations: conversations, Messages: messages}
}

func (uc *ListMessagesUseCase) Execute(ctx context.Context, conversationID, teamID string) ([]livechat.Message, error) {
	if conversationID == "" {
		return nil, fmt.Errorf("%w: conversation id is required", ErrValidation)
	}
	if _, err := uc.Conversations.FindInTeam(ctx, conversationID, teamID); err != nil {
		if errors.Is(err, repository.ErrConversationNotFound) {
			return nil, fmt.Errorf("%w: conversation %s", ErrNotFound, conversationID)
		}
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	messages, err := uc.Messages.ListInConversation(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return messages, nil
}
