package repository

import "context"

// TxManager runs a unit of work inside one database transaction.
// Repositories called with the context handed to fn take part in that
// transaction; nested calls join the outer one instead of opening another.
type TxManager interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
