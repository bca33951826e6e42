package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"

	repository "github.com/smartcoder-7/Webinar-backend-snippet/internal/pkg/livechat/persistence/repository/port"
)

// CloseConnectionUseCase removes a connection from the registry on the
// session close event. Closing an unknown id is not an error.
type CloseConnectionUseCase struct {
	Connections repository.ConnectionRepository
}

func NewCloseConnectionUseCase(connections repository.ConnectionRepository) *CloseConnectionUseCase {
	return &CloseConnectionUseCase{Connections: connections}
}

func (uc *CloseConnectionUseCase) Execute(ctx context.Context, connectionID string) error {
	if connectionID == "" {
		return fmt.Errorf("%w: connectionId is required", ErrValidation)
	}

	// Leave event for session analytics; the attendee may rejoin with a new
	// connection id at any time.
	if conn, err := uc.Connections.Find(ctx, connectionID); err == nil && conn.IsAttendee() {
		log.Printf("live: attendee %s left (connection %s)", *conn.AttendeeID, connectionID)
	} else if err != nil && !errors.Is(err, repository.ErrConnectionNotFound) {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	if err := uc.Connections.Delete(ctx, connectionID); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return nil
}
