package store

import (
	"context"
	"sync"

	"github.com/phrazzld/gradebook/internal/domain"
)

// synchronizedUserStore serializes access to a UserStore that is not safe for
// concurrent use. Writes take the exclusive lock, reads the shared lock.
type synchronizedUserStore struct {
	mu    sync.RWMutex
	inner UserStore
}

// Ensure synchronizedUserStore implements UserStore interface
var _ UserStore = (*synchronizedUserStore)(nil)

// Synchronized wraps s with a read/write mutex so it can be shared by
// concurrent callers, such as HTTP handlers.
func Synchronized(s UserStore) UserStore {
	return &synchronizedUserStore{inner: s}
}

func (s *synchronizedUserStore) Create(ctx context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.Create(ctx, user)
}

func (s *synchronizedUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inner.GetByEmail(ctx, email)
}

func (s *synchronizedUserStore) AppendGrade(ctx context.Context, email string, entry domain.GradeEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inner.AppendGrade(ctx, email, entry)
}

func (s *synchronizedUserStore) ListGrades(ctx context.Context, email string) ([]domain.GradeEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inner.ListGrades(ctx, email)
}

func (s *synchronizedUserStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inner.Count(ctx)
}
