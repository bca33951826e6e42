package adapter

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	repository "github.com/smartcoder-7/Webinar-backend-snippet/internal/pkg/livechat/persistence/repository/port"
)

// PgTxManager runs callbacks inside one pgx transaction with repositories
// bound to it.
type PgTxManager struct {
	pool *pgxpool.Pool
}

func NewPgTxManager(pool *pgxpool.Pool) *PgTxManager {
	return &PgTxManager{pool: pool}
}

var _ repository.TxManager = (*PgTxManager)(nil)

// Bind constructs the repository bundle over any Querier. Used with the pool
// for non-transactional reads and by WithinTx for transactional work.
func Bind(db Querier) repository.Repositories {
	return repository.Repositories{
		Connections:   NewPgConnectionRepository(db),
		Conversations: NewPgConversationRepository(db),
		Messages:      NewPgMessageRepository(db),
		Directory:     NewPgDirectoryRepository(db),
	}
}

func (m *PgTxManager) WithinTx(ctx context.Context, fn func(ctx context.Context, r repository.Repositories) error) error {
	if m == nil || m.pool == nil {
		return errors.New("PgTxManager: nil pool")
	}
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		// Rollback after commit is a no-op error we ignore.
		_ = tx.Rollback(ctx)
	}()

	if err := fn(ctx, Bind(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
