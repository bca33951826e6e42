package adapter

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	livechat "github.com/smartcoder-7/Webinar-backend-snippet/internal/pkg/livechat/domain"
	repository "github.com/smartcoder-7/Webinar-backend-snippet/internal/pkg/livechat/persistence/repository/port"
)

type PgMessageRepository struct {
	db Querier
}

func NewPgMessageRepository(db Querier) *PgMessageRepository {
	return &PgMessageRepository{db: db}
}

var _ repository.MessageRepository = (*PgMessageRepository)(nil)

const messageColumns = `id, conversation_id, user_id, set_id, from_attendee, room_type, time_in_room_secs, time_sent, content, type, created_at`

func (r *PgMessageRepository) Save(ctx context.Context, m *livechat.Message) error {
	if r == nil || r.db == nil {
		return errors.New("PgMessageRepository: nil db")
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO message (`+messageColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, m.ID, m.ConversationID, m.UserID, m.SetID, m.FromAttendee, m.RoomType, m.TimeInRoomSecs, m.TimeSent, m.Content, m.Type, m.CreatedAt)
	return err
}

func (r *PgMessageRepository) scanAll(rows pgx.Rows) ([]livechat.Message, error) {
	defer rows.Close()
	var msgs []livechat.Message
	for rows.Next() {
		var m livechat.Message
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.UserID, &m.SetID, &m.FromAttendee, &m.RoomType, &m.TimeInRoomSecs, &m.TimeSent, &m.Content, &m.Type, &m.CreatedAt); err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}

func (r *PgMessageRepository) ListInConversation(ctx context.Context, conversationID string) ([]livechat.Message, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("PgMessageRepository: nil db")
	}
	rows, err := r.db.Query(ctx, `
		SELECT `+messageColumns+` FROM message
		WHERE conversation_id = $1
		ORDER BY time_sent ASC, id ASC
	`, conversationID)
	if err != nil {
		return nil, err
	}
	return r.scanAll(rows)
}

func (r *PgMessageRepository) ListRecent(ctx context.Context, conversationID string, limit int) ([]livechat.Message, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("PgMessageRepository: nil db")
	}
	if limit <= 0 {
		limit = 5
	}
	rows, err := r.db.Query(ctx, `
		SELECT `+messageColumns+` FROM message
		WHERE conversation_id = $1
		ORDER BY time_sent DESC, id DESC
		LIMIT $2
	`, conversationID, limit)
	if err != nil {
		return nil, err
	}
	return r.scanAll(rows)
}

func (r *PgMessageRepository) LastInConversation(ctx context.Context, conversationID string) (*livechat.Message, error) {
	msgs, err := r.ListRecent(ctx, conversationID, 1)
	if err != nil {
		return nil, err
	}
	if len(msgs) == 0 {
		return nil, nil
	}
	return &msgs[0], nil
}

func (r *PgMessageRepository) ListForAttendee(ctx context.Context, setID, attendeeID string) ([]livechat.Message, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("PgMessageRepository: nil db")
	}
	rows, err := r.db.Query(ctx, `
		SELECT m.id, m.conversation_id, m.user_id, m.set_id, m.from_attendee, m.room_type, m.time_in_room_secs, m.time_sent, m.content, m.type, m.created_at
		FROM message m
		INNER JOIN conversation c ON c.id = m.conversation_id
		WHERE m.set_id = $1 AND c.attendee_id = $2
		ORDER BY m.time_sent ASC, m.id ASC
	`, setID, attendeeID)
	if err != nil {
		return nil, err
	}
	return r.scanAll(rows)
}
