package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/gradebook/internal/domain"
	"github.com/phrazzld/gradebook/internal/service/auth"
	"github.com/phrazzld/gradebook/internal/store"
)

// RegistryService provides registration, authentication and grade operations.
//
// Not-found handling differs per operation: Authenticate and AddGrade report
// an unknown email as an error, while ListGrades, ComputeAverage and IsPassing
// answer with an empty or negative result instead.
type RegistryService interface {
	// Register creates a user after checking presence, then email format,
	// then uniqueness.
	Register(ctx context.Context, name, email, credential string) (*domain.User, error)

	// Authenticate returns the user whose email and credential both match.
	Authenticate(ctx context.Context, email, credential string) (*domain.User, error)

	// AddGrade appends a grade to the user's grade sequence.
	AddGrade(ctx context.Context, email, subject string, score float64) error

	// ListGrades returns the user's grades, or an empty slice for an unknown email.
	ListGrades(ctx context.Context, email string) []domain.GradeEntry

	// ComputeAverage returns the mean score. ok is false when the user is
	// unknown or has no grades; the two cases are not distinguished.
	ComputeAverage(ctx context.Context, email string) (avg float64, ok bool)

	// IsPassing reports whether the average is at least domain.PassingAverage.
	IsPassing(ctx context.Context, email string) bool

	// Standing bundles grade count, average and passing status.
	Standing(ctx context.Context, email string) Standing
}

// Standing is a snapshot of a user's grade statistics.
type Standing struct {
	Email      string
	GradeCount int
	Average    float64
	HasAverage bool
	Passing    bool
}

// Recorder receives registry outcomes, typically to update metrics.
type Recorder interface {
	UserRegistered()
	LoginAttempt(success bool)
	GradeRecorded()
	Rejected(operation, kind string)
}

type nopRecorder struct{}

func (nopRecorder) UserRegistered()         {}
func (nopRecorder) LoginAttempt(bool)       {}
func (nopRecorder) GradeRecorded()          {}
func (nopRecorder) Rejected(string, string) {}

// Option configures a Registry.
type Option func(*Registry)

// WithRecorder sets the Recorder notified of registry outcomes.
func WithRecorder(r Recorder) Option {
	return func(reg *Registry) {
		if r != nil {
			reg.recorder = r
		}
	}
}

// Registry implements RegistryService on top of a store.UserStore.
// It holds no package-level state; every Registry owns the store it was given.
// Registry does no locking of its own. Hosts with concurrent callers should
// hand it a store wrapped with store.Synchronized.
type Registry struct {
	users    store.UserStore
	hasher   auth.CredentialHasher
	logger   *slog.Logger
	recorder Recorder
}

// Ensure Registry implements RegistryService interface
var _ RegistryService = (*Registry)(nil)

// NewRegistry creates a Registry. A nil hasher stores credentials verbatim
// and a nil logger uses slog.Default().
func NewRegistry(users store.UserStore, hasher auth.CredentialHasher, logger *slog.Logger, opts ...Option) *Registry {
	if hasher == nil {
		hasher = auth.PlainHasher{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	r := &Registry{
		users:    users,
		hasher:   hasher,
		logger:   logger.With("component", "registry"),
		recorder: nopRecorder{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register creates a new user with an empty grade sequence.
func (r *Registry) Register(ctx context.Context, name, email, credential string) (*domain.User, error) {
	user, err := domain.NewUser(name, email, credential)
	if err != nil {
		return nil, r.reject(ctx, "register", err, "email", email)
	}

	// Checked before hashing so duplicates do not pay the hashing cost
	if _, err := r.users.GetByEmail(ctx, email); err == nil {
		return nil, r.reject(ctx, "register", domain.ErrDuplicateEmail, "email", email)
	} else if !store.IsNotFoundError(err) {
		return nil, r.fail(ctx, "register", fmt.Errorf("failed to look up email: %w", err), "email", email)
	}

	hashed, err := r.hasher.Hash(credential)
	if err != nil {
		return nil, r.fail(ctx, "register", err, "email", email)
	}
	user.Credential = hashed

	if err := r.users.Create(ctx, user); err != nil {
		if store.IsDuplicateError(err) {
			return nil, r.reject(ctx, "register", domain.ErrDuplicateEmail, "email", email)
		}
		return nil, r.fail(ctx, "register", fmt.Errorf("failed to create user: %w", err), "email", email)
	}

	r.recorder.UserRegistered()
	r.logger.InfoContext(ctx, "user registered",
		"user_id", user.ID,
		"email", user.Email)

	return user.Clone(), nil
}

// Authenticate returns the user whose email and credential both match.
// An unknown email and a wrong credential both yield ErrInvalidCredentials.
func (r *Registry) Authenticate(ctx context.Context, email, credential string) (*domain.User, error) {
	if email == "" || credential == "" {
		r.recorder.LoginAttempt(false)
		return nil, r.reject(ctx, "authenticate", domain.ErrMissingLoginFields, "email", email)
	}

	user, err := r.users.GetByEmail(ctx, email)
	if err != nil {
		r.recorder.LoginAttempt(false)
		if store.IsNotFoundError(err) {
			return nil, r.reject(ctx, "authenticate", domain.ErrInvalidCredentials, "email", email)
		}
		return nil, r.fail(ctx, "authenticate", fmt.Errorf("failed to look up user: %w", err), "email", email)
	}

	if err := r.hasher.Compare(user.Credential, credential); err != nil {
		r.recorder.LoginAttempt(false)
		if errors.Is(err, auth.ErrCredentialMismatch) {
			return nil, r.reject(ctx, "authenticate", domain.ErrInvalidCredentials, "email", email)
		}
		return nil, r.fail(ctx, "authenticate", err, "email", email)
	}

	r.recorder.LoginAttempt(true)
	r.logger.DebugContext(ctx, "user authenticated",
		"user_id", user.ID,
		"email", user.Email)

	return user, nil
}

// AddGrade appends {subject, score} to the user's grades. Input is checked
// before range, and range before existence, so a rejected score never
// touches the store.
func (r *Registry) AddGrade(ctx context.Context, email, subject string, score float64) error {
	if email == "" {
		return r.reject(ctx, "add_grade", domain.ErrInvalidGradeInput, "email", email)
	}

	entry, err := domain.NewGradeEntry(subject, score)
	if err != nil {
		return r.reject(ctx, "add_grade", err, "email", email, "subject", subject)
	}

	if err := r.users.AppendGrade(ctx, email, entry); err != nil {
		if store.IsNotFoundError(err) {
			return r.reject(ctx, "add_grade", domain.ErrUserNotFound, "email", email)
		}
		return r.fail(ctx, "add_grade", fmt.Errorf("failed to append grade: %w", err), "email", email)
	}

	r.recorder.GradeRecorded()
	r.logger.DebugContext(ctx, "grade recorded",
		"email", email,
		"subject", entry.Subject,
		"score", entry.Score)

	return nil
}

// ListGrades returns the user's grades in insertion order. An unknown email
// yields an empty slice, never an error.
func (r *Registry) ListGrades(ctx context.Context, email string) []domain.GradeEntry {
	grades, err := r.users.ListGrades(ctx, email)
	if err != nil {
		if store.IsNotFoundError(err) {
			r.logger.DebugContext(ctx, "listing grades of unknown user", "email", email)
		} else {
			r.logger.ErrorContext(ctx, "failed to list grades", "error", err, "email", email)
		}
		return []domain.GradeEntry{}
	}
	if grades == nil {
		grades = []domain.GradeEntry{}
	}
	return grades
}

// ComputeAverage returns the unrounded arithmetic mean of the user's scores.
func (r *Registry) ComputeAverage(ctx context.Context, email string) (float64, bool) {
	return domain.Average(r.ListGrades(ctx, email))
}

// IsPassing is false when there is no average.
func (r *Registry) IsPassing(ctx context.Context, email string) bool {
	avg, ok := r.ComputeAverage(ctx, email)
	return ok && domain.IsPassingAverage(avg)
}

// Standing computes all statistics from a single read of the grades.
func (r *Registry) Standing(ctx context.Context, email string) Standing {
	grades := r.ListGrades(ctx, email)
	avg, ok := domain.Average(grades)

	return Standing{
		Email:      email,
		GradeCount: len(grades),
		Average:    avg,
		HasAverage: ok,
		Passing:    ok && domain.IsPassingAverage(avg),
	}
}

// reject records and logs an expected, caller-visible failure and returns it.
func (r *Registry) reject(ctx context.Context, operation string, err error, attrs ...any) error {
	r.recorder.Rejected(operation, ErrorKind(err))
	r.logger.DebugContext(ctx, "registry operation rejected",
		append([]any{"operation", operation, "reason", err.Error()}, attrs...)...)
	return err
}

// fail records and logs an unexpected failure and returns it wrapped.
func (r *Registry) fail(ctx context.Context, operation string, err error, attrs ...any) error {
	r.recorder.Rejected(operation, ErrorKind(err))
	r.logger.ErrorContext(ctx, "registry operation failed",
		append([]any{"operation", operation, "error", err}, attrs...)...)
	return fmt.Errorf("%s failed: %w", operation, err)
}

// ErrorKind names the category of err: "validation", "auth", "not_found",
// or "internal" for anything outside the domain taxonomy.
func ErrorKind(err error) string {
	var validationErr *domain.ValidationError
	var authErr *domain.AuthError
	var notFoundErr *domain.NotFoundError

	switch {
	case errors.As(err, &validationErr):
		return "validation"
	case errors.As(err, &authErr):
		return "auth"
	case errors.As(err, &notFoundErr):
		return "not_found"
	default:
		return "internal"
	}
}
