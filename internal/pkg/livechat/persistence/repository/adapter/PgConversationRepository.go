package adapter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	livechat "github.com/smartcoder-7/Webinar-backend-snippet/internal/pkg/livechat/domain"
	repository "github.com/smartcoder-7/Webinar-backend-snippet/internal/pkg/livechat/persistence/repository/port"
)

type PgConversationRepository struct {
	db Querier
}

func NewPgConversationRepository(db Querier) *PgConversationRepository {
	return &PgConversationRepository{db: db}
}

var _ repository.ConversationRepository = (*PgConversationRepository)(nil)

const conversationColumns = `c.id, c.attendee_id, c.set_id, c.ewebinar_id, c.is_archived, c.in_email, c.last_read_at, c.sort_date`

func scanConversation(row pgx.Row) (*livechat.Conversation, error) {
	var c livechat.Conversation
	err := row.Scan(&c.ID, &c.AttendeeID, &c.SetID, &c.WebinarID, &c.IsArchived, &c.InEmail, &c.LastReadAt, &c.SortDate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrConversationNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *PgConversationRepository) FindInTeam(ctx context.Context, id, teamID string) (*livechat.Conversation, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("PgConversationRepository: nil db")
	}
	return scanConversation(r.db.QueryRow(ctx, `
		SELECT `+conversationColumns+`
		FROM conversation c
		INNER JOIN ewebinar_set s ON s.id = c.set_id AND s.team_id = $2
		WHERE c.id = $1
	`, id, teamID))
}

func (r *PgConversationRepository) FindForAttendee(ctx context.Context, key livechat.AttendeeKey) (*livechat.Conversation, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("PgConversationRepository: nil db")
	}
	return scanConversation(r.db.QueryRow(ctx, `
		SELECT `+conversationColumns+`
		FROM conversation c
		INNER JOIN attendee a ON a.id = c.attendee_id
		WHERE a.visitor_id = $1 AND a.set_id = $2 AND a.start_time = $3
	`, key.VisitorID, key.SetID, key.StartTime))
}

func (r *PgConversationRepository) Create(ctx context.Context, c *livechat.Conversation) error {
	if r == nil || r.db == nil {
		return errors.New("PgConversationRepository: nil db")
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO conversation (id, attendee_id, set_id, ewebinar_id, is_archived, in_email, last_read_at, sort_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, c.ID, c.AttendeeID, c.SetID, c.WebinarID, c.IsArchived, c.InEmail, c.LastReadAt, c.SortDate)
	if isUniqueViolation(err) {
		return repository.ErrConversationExists
	}
	return err
}

func (r *PgConversationRepository) TouchOnPost(ctx context.Context, id string, sortDate time.Time) error {
	if r == nil || r.db == nil {
		return errors.New("PgConversationRepository: nil db")
	}
	_, err := r.db.Exec(ctx, `
		UPDATE conversation SET sort_date = $2, is_archived = FALSE WHERE id = $1
	`, id, sortDate)
	return err
}

func (r *PgConversationRepository) SetLastReadAt(ctx context.Context, id string, t time.Time) error {
	if r == nil || r.db == nil {
		return errors.New("PgConversationRepository: nil db")
	}
	ct, err := r.db.Exec(ctx, `UPDATE conversation SET last_read_at = $2 WHERE id = $1`, id, t)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return repository.ErrConversationNotFound
	}
	return nil
}

func (r *PgConversationRepository) SetArchived(ctx context.Context, id string, archived bool) error {
	if r == nil || r.db == nil {
		return errors.New("PgConversationRepository: nil db")
	}
	ct, err := r.db.Exec(ctx, `UPDATE conversation SET is_archived = $2 WHERE id = $1`, id, archived)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return repository.ErrConversationNotFound
	}
	return nil
}

func (r *PgConversationRepository) ListForTeam(ctx context.Context, teamID string, f livechat.ConversationFilters) ([]livechat.ConversationListItem, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("PgConversationRepository: nil db")
	}

	orderCol := "c.sort_date"
	if f.OrderBy == "lastReadAt" {
		orderCol = "c.last_read_at"
	}
	dir := "ASC"
	cmp := ">"
	if f.OrderDesc {
		dir = "DESC"
		cmp = "<"
	}
	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT ` + conversationColumns + `,
		       a.id, a.visitor_id, a.set_id, a.ewebinar_id, a.start_time, a.join_time, a.first_name, a.last_name, a.opt_out,
		       m.id, m.conversation_id, m.user_id, m.set_id, m.from_attendee, m.room_type, m.time_in_room_secs, m.time_sent, m.content, m.type, m.created_at,
		       EXISTS (
		           SELECT 1 FROM live_chat_connection lcc WHERE lcc.attendee_id = c.attendee_id
		       ) AS is_attendee_live
		FROM conversation c
		INNER JOIN attendee a ON a.id = c.attendee_id
		INNER JOIN ewebinar_set s ON s.id = c.set_id AND s.team_id = $1
		LEFT JOIN LATERAL (
		    SELECT * FROM message lm
		    WHERE lm.conversation_id = c.id
		    ORDER BY lm.time_sent DESC, lm.id DESC
		    LIMIT 1
		) m ON TRUE
		WHERE 1=1`

	args := []any{teamID}
	n := 1

	switch f.Type {
	case livechat.FilterArchived:
		query += " AND c.is_archived = TRUE"
	case livechat.FilterUnread:
		query += " AND c.is_archived = FALSE AND (c.last_read_at IS NULL OR c.last_read_at < c.sort_date)"
	case livechat.FilterLive:
		query += ` AND c.is_archived = FALSE AND EXISTS (
			SELECT 1 FROM live_chat_connection lcc WHERE lcc.attendee_id = c.attendee_id)`
	default:
		query += " AND c.is_archived = FALSE"
	}

	if f.SetID != nil {
		n++
		query += fmt.Sprintf(" AND c.set_id = $%d", n)
		args = append(args, *f.SetID)
	}
	if f.Cursor != nil {
		n++
		query += fmt.Sprintf(" AND %s %s $%d", orderCol, cmp, n)
		args = append(args, *f.Cursor)
	}

	n++
	query += fmt.Sprintf(" ORDER BY %s %s LIMIT $%d", orderCol, dir, n)
	args = append(args, limit)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []livechat.ConversationListItem
	for rows.Next() {
		var (
			item livechat.ConversationListItem
			c    = &item.Conversation
			a    = &item.Attendee

			mID       *string
			mConvID   *string
			mUserID   *string
			mSetID    *string
			mFrom     *bool
			mRoom     *string
			mSecs     *float64
			mSent     *time.Time
			mContent  *string
			mType     *string
			mCreated  *time.Time
			live      bool
		)
		err := rows.Scan(
			&c.ID, &c.AttendeeID, &c.SetID, &c.WebinarID, &c.IsArchived, &c.InEmail, &c.LastReadAt, &c.SortDate,
			&a.ID, &a.VisitorID, &a.SetID, &a.WebinarID, &a.StartTime, &a.JoinTime, &a.FirstName, &a.LastName, &a.OptOut,
			&mID, &mConvID, &mUserID, &mSetID, &mFrom, &mRoom, &mSecs, &mSent, &mContent, &mType, &mCreated,
			&live,
		)
		if err != nil {
			return nil, err
		}
		c.IsAttendeeLive = live
		if mID != nil {
			item.LastMessage = &livechat.Message{
				ID:             *mID,
				ConversationID: *mConvID,
				UserID:         mUserID,
				SetID:          *mSetID,
				FromAttendee:   *mFrom,
				RoomType:       livechat.RoomPhase(*mRoom),
				TimeInRoomSecs: *mSecs,
				TimeSent:       *mSent,
				Content:        *mContent,
				Type:           livechat.MessageKind(*mType),
				CreatedAt:      *mCreated,
			}
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
