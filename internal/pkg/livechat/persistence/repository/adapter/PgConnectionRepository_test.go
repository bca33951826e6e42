package adapter

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	livechat "github.com/smartcoder-7/Webinar-backend-snippet/internal/pkg/livechat/domain"
)

// recordingQuerier captures statements so tests can assert on the SQL the
// adapter emits without a live database.
type recordingQuerier struct {
	sql  []string
	args [][]any
}

func (q *recordingQuerier) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	q.sql = append(q.sql, sql)
	q.args = append(q.args, args)
	return pgconn.CommandTag{}, nil
}

func (q *recordingQuerier) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, errors.New("not implemented")
}

func (q *recordingQuerier) QueryRow(context.Context, string, ...any) pgx.Row {
	return nil
}

func TestConnectionSave_ReopenRefreshesConnectTime(t *testing.T) {
	q := &recordingQuerier{}
	repo := NewPgConnectionRepository(q)

	c := livechat.Connection{
		ConnectionID:  "conn-1",
		TimeConnected: time.Date(2024, 3, 1, 17, 0, 0, 0, time.UTC),
	}
	if err := repo.Save(context.Background(), c); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if len(q.sql) != 1 {
		t.Fatalf("statements = %d, want 1", len(q.sql))
	}

	// A client re-opening an existing connection id must get a fresh record:
	// the conflict branch has to carry every column, the connect timestamp
	// included, or a reconnect keeps the stale one.
	stmt := q.sql[0]
	for _, col := range []string{
		"attendee_id = EXCLUDED.attendee_id",
		"set_id = EXCLUDED.set_id",
		"user_id = EXCLUDED.user_id",
		"role = EXCLUDED.role",
		"team_id = EXCLUDED.team_id",
		"time_connected = EXCLUDED.time_connected",
	} {
		if !strings.Contains(stmt, col) {
			t.Errorf("upsert does not overwrite %q", col)
		}
	}
	if got := len(q.args[0]); got != 7 {
		t.Errorf("bound args = %d, want 7", got)
	}
	if !q.args[0][6].(time.Time).Equal(c.TimeConnected) {
		t.Error("connect timestamp not bound as the last argument")
	}
}
