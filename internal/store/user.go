package store

import (
	"context"

	"github.com/phrazzld/gradebook/internal/domain"
)

// UserStore defines the interface for user and grade persistence.
// Implementations key users by exact, case-sensitive email.
type UserStore interface {
	// Create saves a new user to the store.
	// Returns ErrEmailExists if the email is already taken.
	Create(ctx context.Context, user *domain.User) error

	// GetByEmail retrieves a user by their email address.
	// Returns ErrUserNotFound if the user does not exist.
	// The returned user is a copy; mutating it does not change the store.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// AppendGrade adds a grade entry to the end of the user's grade sequence.
	// Returns ErrUserNotFound if the user does not exist.
	AppendGrade(ctx context.Context, email string, entry domain.GradeEntry) error

	// ListGrades returns the user's grades in insertion order.
	// Returns ErrUserNotFound if the user does not exist.
	ListGrades(ctx context.Context, email string) ([]domain.GradeEntry, error)

	// Count returns the number of registered users.
	Count(ctx context.Context) (int, error)
}
