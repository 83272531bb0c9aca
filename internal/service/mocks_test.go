package service

import (
	"context"

	"github.com/phrazzld/gradebook/internal/domain"
	"github.com/stretchr/testify/mock"
)

// MockUserStore mocks the store.UserStore interface
type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserStore) AppendGrade(ctx context.Context, email string, entry domain.GradeEntry) error {
	args := m.Called(ctx, email, entry)
	return args.Error(0)
}

func (m *MockUserStore) ListGrades(ctx context.Context, email string) ([]domain.GradeEntry, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.GradeEntry), args.Error(1)
}

func (m *MockUserStore) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// MockCredentialHasher mocks the auth.CredentialHasher interface
type MockCredentialHasher struct {
	mock.Mock
}

func (m *MockCredentialHasher) Hash(credential string) (string, error) {
	args := m.Called(credential)
	return args.String(0), args.Error(1)
}

func (m *MockCredentialHasher) Compare(stored, credential string) error {
	args := m.Called(stored, credential)
	return args.Error(0)
}

// countingRecorder records registry outcomes for assertions
type countingRecorder struct {
	registered int
	logins     map[bool]int
	grades     int
	rejections map[string]int
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{
		logins:     make(map[bool]int),
		rejections: make(map[string]int),
	}
}

func (r *countingRecorder) UserRegistered()           { r.registered++ }
func (r *countingRecorder) LoginAttempt(success bool) { r.logins[success]++ }
func (r *countingRecorder) GradeRecorded()            { r.grades++ }

func (r *countingRecorder) Rejected(operation, kind string) {
	r.rejections[operation+"/"+kind]++
}
