package adapter

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	livechat "github.com/smartcoder-7/Webinar-backend-snippet/internal/pkg/livechat/domain"
	repository "github.com/smartcoder-7/Webinar-backend-snippet/internal/pkg/livechat/persistence/repository/port"
)

// PgDirectoryRepository reads the CRUD-owned platform tables the chat engine
// needs for lookups.
type PgDirectoryRepository struct {
	db Querier
}

func NewPgDirectoryRepository(db Querier) *PgDirectoryRepository {
	return &PgDirectoryRepository{db: db}
}

var _ repository.DirectoryRepository = (*PgDirectoryRepository)(nil)

const attendeeColumns = `id, visitor_id, set_id, ewebinar_id, start_time, join_time, first_name, last_name, opt_out`

func scanAttendee(row pgx.Row) (*livechat.Attendee, error) {
	var a livechat.Attendee
	err := row.Scan(&a.ID, &a.VisitorID, &a.SetID, &a.WebinarID, &a.StartTime, &a.JoinTime, &a.FirstName, &a.LastName, &a.OptOut)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrAttendeeNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *PgDirectoryRepository) FindAttendeeByKey(ctx context.Context, key livechat.AttendeeKey) (*livechat.Attendee, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("PgDirectoryRepository: nil db")
	}
	return scanAttendee(r.db.QueryRow(ctx, `
		SELECT `+attendeeColumns+` FROM attendee
		WHERE visitor_id = $1 AND set_id = $2 AND start_time = $3
	`, key.VisitorID, key.SetID, key.StartTime))
}

func (r *PgDirectoryRepository) FindAttendeeByID(ctx context.Context, id string) (*livechat.Attendee, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("PgDirectoryRepository: nil db")
	}
	return scanAttendee(r.db.QueryRow(ctx, `
		SELECT `+attendeeColumns+` FROM attendee WHERE id = $1
	`, id))
}

func (r *PgDirectoryRepository) FindUser(ctx context.Context, id string) (*livechat.User, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("PgDirectoryRepository: nil db")
	}
	var u livechat.User
	err := r.db.QueryRow(ctx, `
		SELECT id, first_name, last_name, COALESCE(profile_media_url, ''), team_id
		FROM app_user WHERE id = $1
	`, id).Scan(&u.ID, &u.FirstName, &u.LastName, &u.ProfileMediaURL, &u.TeamID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *PgDirectoryRepository) FindTeam(ctx context.Context, id string) (*livechat.Team, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("PgDirectoryRepository: nil db")
	}
	var t livechat.Team
	err := r.db.QueryRow(ctx, `SELECT id, name FROM team WHERE id = $1`, id).Scan(&t.ID, &t.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrTeamNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *PgDirectoryRepository) FindWebinar(ctx context.Context, id string) (*livechat.Webinar, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("PgDirectoryRepository: nil db")
	}
	var w livechat.Webinar
	err := r.db.QueryRow(ctx, `
		SELECT id, waiting_room_duration_secs, duration_secs, exit_room_duration_secs, COALESCE(private_welcome_message, '')
		FROM ewebinar WHERE id = $1
	`, id).Scan(&w.ID, &w.WaitingRoomDurationSecs, &w.DurationSecs, &w.ExitRoomDurationSecs, &w.PrivateWelcomeMessage)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrWebinarNotFound
		}
		return nil, err
	}
	return &w, nil
}

func (r *PgDirectoryRepository) FindSet(ctx context.Context, id string) (*livechat.WebinarSet, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("PgDirectoryRepository: nil db")
	}
	var s livechat.WebinarSet
	err := r.db.QueryRow(ctx, `
		SELECT id, team_id, ewebinar_id, moderator_id FROM ewebinar_set WHERE id = $1
	`, id).Scan(&s.ID, &s.TeamID, &s.WebinarID, &s.ModeratorID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrSetNotFound
		}
		return nil, err
	}
	return &s, nil
}
