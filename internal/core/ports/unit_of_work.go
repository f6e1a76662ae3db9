package ports

import "context"

// UnitOfWork runs fn atomically. Repositories called with the ctx passed
// to fn take part in the transaction; if fn returns an error every write
// made through that ctx is rolled back and the error is returned as is.
type UnitOfWork interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
