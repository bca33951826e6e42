package usecase

import (
	"context"
	"fmt"

	livechat "github.com/smartcoder-7/Webinar-backend-snippet/internal/pkg/livechat/domain"
	repository "github.com/smartcoder-7/Webinar-backend-snippet/internal/pkg/livechat/persistence/repository/port"
)

const defaultInboxPageSize = 30

// ListConversationsUseCase serves the team inbox.
type ListConversationsUseCase struct {
	Conversations repository.ConversationRepository
}

func NewListConversationsUseCase(conversations repository.ConversationRepository) *ListConversationsUseCase {
	return &ListConversationsUseCase{Conversations: conversations}
}

func (uc *ListConversationsUseCase) Execute(ctx context.Context, teamID string, f livechat.ConversationFilters) ([]livechat.ConversationListItem, error) {
	if teamID == "" {
		return nil, fmt.Errorf("%w: team id is required", ErrValidation)
	}
	switch f.Type {
	case "":
		f.Type = livechat.FilterInbox
	case livechat.FilterInbox, livechat.FilterArchived, livechat.FilterUnread, livechat.FilterLive:
	default:
		return nil, fmt.Errorf("%w: unknown filter %q", ErrValidation, f.Type)
	}
	switch f.OrderBy {
	case "":
		f.OrderBy = "sortDate"
		f.OrderDesc = true
	case "sortDate", "lastReadAt":
	default:
		return nil, fmt.Errorf("%w: cannot order by %q", ErrValidation, f.OrderBy)
	}
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = defaultInboxPageSize
	}

	items, err := uc.Conversations.ListForTeam(ctx, teamID, f)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return items, nil
}
