package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
)

// TxManager implements ports.UnitOfWork with multi-document transactions.
// It needs a replica set or sharded cluster; standalone servers reject
// transactions.
type TxManager struct {
	client *mongo.Client
}

func NewTxManager(client *mongo.Client) *TxManager {
	return &TxManager{client: client}
}

// WithinTransaction runs fn inside a session transaction. The session
// context handed to fn carries the transaction into every repository call.
// Transient errors are retried by the driver; fn must therefore be safe to
// run more than once.
func (m *TxManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if mongo.SessionFromContext(ctx) != nil {
		return fn(ctx)
	}

	sess, err := m.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

// Ping reports whether the primary is reachable.
func (m *TxManager) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, nil)
}
