package memory

import (
	"context"

	"github.com/phrazzld/gradebook/internal/domain"
	"github.com/phrazzld/gradebook/internal/store"
)

// UserStore implements the store.UserStore interface over a map keyed by
// email. It is not safe for concurrent use; wrap it with store.Synchronized
// when it is shared between goroutines.
type UserStore struct {
	users map[string]*domain.User
}

// Ensure UserStore implements store.UserStore interface
var _ store.UserStore = (*UserStore)(nil)

// NewUserStore creates an empty in-memory user store.
func NewUserStore() *UserStore {
	return &UserStore{users: make(map[string]*domain.User)}
}

// Create implements store.UserStore.Create
func (s *UserStore) Create(_ context.Context, user *domain.User) error {
	if user == nil {
		return store.NewStoreError("user", "create", "nil user", store.ErrInvalidEntity)
	}
	if _, exists := s.users[user.Email]; exists {
		return store.NewStoreError("user", "create", "email already registered", store.ErrEmailExists)
	}

	s.users[user.Email] = user.Clone()
	return nil
}

// GetByEmail implements store.UserStore.GetByEmail
func (s *UserStore) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	user, ok := s.users[email]
	if !ok {
		return nil, notFound("get")
	}
	return user.Clone(), nil
}

// AppendGrade implements store.UserStore.AppendGrade
func (s *UserStore) AppendGrade(_ context.Context, email string, entry domain.GradeEntry) error {
	user, ok := s.users[email]
	if !ok {
		return notFound("append_grade")
	}
	user.Grades = append(user.Grades, entry)
	return nil
}

// ListGrades implements store.UserStore.ListGrades
func (s *UserStore) ListGrades(_ context.Context, email string) ([]domain.GradeEntry, error) {
	user, ok := s.users[email]
	if !ok {
		return nil, notFound("list_grades")
	}
	return append([]domain.GradeEntry{}, user.Grades...), nil
}

// Count implements store.UserStore.Count
func (s *UserStore) Count(_ context.Context) (int, error) {
	return len(s.users), nil
}

func notFound(operation string) error {
	return store.NewStoreError("user", operation, "no user with that email", store.ErrUserNotFound)
}
