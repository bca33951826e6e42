package repository

import "context"

// Repositories bundles the ports participating in one transaction.
type Repositories struct {
	Connections   ConnectionRepository
	Conversations ConversationRepository
	Messages      MessageRepository
	Directory     DirectoryRepository
}

// TxManager runs fn inside one storage transaction. The repositories passed
// to fn are bound to that transaction; an error from fn rolls everything
// back.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, r Repositories) error) error
}
