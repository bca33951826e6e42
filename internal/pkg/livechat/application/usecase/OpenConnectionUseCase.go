package usecase

import (
	"context"
	"fmt"
	"time"

	livechat "github.com/smartcoder-7/Webinar-backend-snippet/internal/pkg/livechat/domain"
	repository "github.com/smartcoder-7/Webinar-backend-snippet/internal/pkg/livechat/persistence/repository/port"
)

// OpenConnectionUseCase registers a bare connection record on the session
// open event. Identity arrives later over the same connection.
type OpenConnectionUseCase struct {
	Connections repository.ConnectionRepository

	now func() time.Time
}

func NewOpenConnectionUseCase(connections repository.ConnectionRepository) *OpenConnectionUseCase {
	return &OpenConnectionUseCase{Connections: connections, now: time.Now}
}

// Execute creates (or overwrites) the registry record for connectionID.
func (uc *OpenConnectionUseCase) Execute(ctx context.Context, connectionID string) (*livechat.Connection, error) {
	if connectionID == "" {
		return nil, fmt.Errorf("%w: connectionId is required", ErrValidation)
	}
	c := livechat.Connection{
		ConnectionID:  connectionID,
		TimeConnected: uc.now().UTC(),
	}
	if err := uc.Connections.Save(ctx, c); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return &c, nil
}
