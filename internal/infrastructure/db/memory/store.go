// Package memory is an in-process storage driver with the same uniqueness
// and scoping rules as the Mongo repositories. It backs the service tests
// and STORE_DRIVER=memory for local development.
//
// Transactions are serialized and implemented as snapshot/restore, so a
// failed unit of work leaves no trace. Writes made outside a transaction by
// other goroutines while one is running are lost if it rolls back.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/teamsync/workspace-api/internal/core/domain"
)

type dataset struct {
	users      map[string]domain.User
	accounts   map[string]domain.Account
	workspaces map[string]domain.Workspace
	roles      map[string]domain.Role
	members    map[string]domain.Member
	projects   map[string]domain.Project
	tasks      map[string]domain.Task
}

func newDataset() dataset {
	return dataset{
		users:      make(map[string]domain.User),
		accounts:   make(map[string]domain.Account),
		workspaces: make(map[string]domain.Workspace),
		roles:      make(map[string]domain.Role),
		members:    make(map[string]domain.Member),
		projects:   make(map[string]domain.Project),
		tasks:      make(map[string]domain.Task),
	}
}

func cloneMap[V any](in map[string]V) map[string]V {
	out := make(map[string]V, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func (d dataset) clone() dataset {
	return dataset{
		users:      cloneMap(d.users),
		accounts:   cloneMap(d.accounts),
		workspaces: cloneMap(d.workspaces),
		roles:      cloneMap(d.roles),
		members:    cloneMap(d.members),
		projects:   cloneMap(d.projects),
		tasks:      cloneMap(d.tasks),
	}
}

// Store holds every collection behind one lock.
type Store struct {
	mu   sync.RWMutex
	txMu sync.Mutex
	data dataset
}

func NewStore() *Store {
	return &Store{data: newDataset()}
}

// Counts is a row count per collection.
type Counts struct {
	Users      int
	Accounts   int
	Workspaces int
	Roles      int
	Members    int
	Projects   int
	Tasks      int
}

func (s *Store) Counts() Counts {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Counts{
		Users:      len(s.data.users),
		Accounts:   len(s.data.accounts),
		Workspaces: len(s.data.workspaces),
		Roles:      len(s.data.roles),
		Members:    len(s.data.members),
		Projects:   len(s.data.projects),
		Tasks:      len(s.data.tasks),
	}
}

// Ping satisfies the readiness probe.
func (s *Store) Ping(context.Context) error { return nil }

type txKey struct{}

// WithinTransaction runs fn against a snapshot that is restored when fn
// fails or panics. Nested calls join the outer transaction.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	snapshot := s.data.clone()
	s.mu.RUnlock()

	restore := func() {
		s.mu.Lock()
		s.data = snapshot
		s.mu.Unlock()
	}

	defer func() {
		if p := recover(); p != nil {
			restore()
			panic(p)
		}
	}()

	if err = fn(context.WithValue(ctx, txKey{}, struct{}{})); err != nil {
		restore()
	}
	return err
}

func newID() string {
	return uuid.NewString()
}

func (s *Store) read(fn func(d *dataset) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(&s.data)
}

func (s *Store) write(fn func(d *dataset) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(&s.data)
}
