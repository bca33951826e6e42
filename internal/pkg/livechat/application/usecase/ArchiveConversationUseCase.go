package usecase

import (
	"context"
	"errors"
	"fmt"

	repository "github.com/smartcoder-7/Webinar-backend-snippet/internal/pkg/livechat/persistence/repository/port"
)

// ArchiveConversationUseCase flips a thread's archive flag. Any new post will
// unarchive it again.
type ArchiveConversationUseCase struct {
	Conversations repository.ConversationRepository
}

func NewArchiveConversationUseCase(conversations repository.ConversationRepository) *ArchiveConversationUseCase {
	return &ArchiveConversationUseCase{Conversations: conversations}
}

func (uc *ArchiveConversationUseCase) Execute(ctx context.Context, conversationID, teamID string, archived bool) error {
	if conversationID == "" {
		return fmt.Errorf("%w: conversation id is required", ErrValidation)
	}
	if _, err := uc.Conversations.FindInTeam(ctx, conversationID, teamID); err != nil {
		if errors.Is(err, repository.ErrConversationNotFound) {
			return fmt.Errorf("%w: conversation %s", ErrNotFound, conversationID)
		}
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if err := uc.Conversations.SetArchived(ctx, conversationID, archived); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}
