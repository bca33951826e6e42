package adapter

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	livechat "github.com/smartcoder-7/Webinar-backend-snippet/internal/pkg/livechat/domain"
	repository "github.com/smartcoder-7/Webinar-backend-snippet/internal/pkg/livechat/persistence/repository/port"
)

type PgConnectionRepository struct {
	db Querier
}

func NewPgConnectionRepository(db Querier) *PgConnectionRepository {
	return &PgConnectionRepository{db: db}
}

var _ repository.ConnectionRepository = (*PgConnectionRepository)(nil)

func (r *PgConnectionRepository) Save(ctx context.Context, c livechat.Connection) error {
	if r == nil || r.db == nil {
		return errors.New("PgConnectionRepository: nil db")
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO live_chat_connection (connection_id, attendee_id, set_id, user_id, role, team_id, time_connected)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (connection_id)
		DO UPDATE SET attendee_id = EXCLUDED.attendee_id,
		              set_id = EXCLUDED.set_id,
		              user_id = EXCLUDED.user_id,
		              role = EXCLUDED.role,
		              team_id = EXCLUDED.team_id,
		              time_connected = EXCLUDED.time_connected
	`, c.ConnectionID, c.AttendeeID, c.SetID, c.UserID, c.Role, c.TeamID, c.TimeConnected)
	return err
}

func (r *PgConnectionRepository) Find(ctx context.Context, connectionID string) (*livechat.Connection, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("PgConnectionRepository: nil db")
	}
	var c livechat.Connection
	err := r.db.QueryRow(ctx, `
		SELECT connection_id, attendee_id, set_id, user_id, role, team_id, time_connected
		FROM live_chat_connection
		WHERE connection_id = $1
	`, connectionID).Scan(&c.ConnectionID, &c.AttendeeID, &c.SetID, &c.UserID, &c.Role, &c.TeamID, &c.TimeConnected)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrConnectionNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *PgConnectionRepository) Delete(ctx context.Context, connectionID string) error {
	if r == nil || r.db == nil {
		return errors.New("PgConnectionRepository: nil db")
	}
	_, err := r.db.Exec(ctx, `DELETE FROM live_chat_connection WHERE connection_id = $1`, connectionID)
	return err
}

func (r *PgConnectionRepository) FindLive(ctx context.Context, q repository.LiveQuery) ([]livechat.Connection, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("PgConnectionRepository: nil db")
	}
	rows, err := r.db.Query(ctx, `
		SELECT connection_id, attendee_id, set_id, user_id, role, team_id, time_connected
		FROM live_chat_connection
		WHERE (user_id IS NOT NULL AND team_id = $1)
		   OR (attendee_id = $2 AND set_id = $3)
	`, q.TeamID, q.AttendeeID, q.SetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var conns []livechat.Connection
	for rows.Next() {
		var c livechat.Connection
		if err := rows.Scan(&c.ConnectionID, &c.AttendeeID, &c.SetID, &c.UserID, &c.Role, &c.TeamID, &c.TimeConnected); err != nil {
			return nil, err
		}
		conns = append(conns, c)
	}
	return conns, rows.Err()
}
