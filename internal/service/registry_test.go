package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/phrazzld/gradebook/internal/domain"
	"github.com/phrazzld/gradebook/internal/platform/logger"
	"github.com/phrazzld/gradebook/internal/platform/memory"
	"github.com/phrazzld/gradebook/internal/service/auth"
	"github.com/phrazzld/gradebook/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// newTestRegistry returns a Registry over a fresh in-memory store, so every
// test starts from an empty registry.
func newTestRegistry(t *testing.T) (*Registry, *countingRecorder) {
	t.Helper()
	log, _ := logger.GetTestLogger(t)
	rec := newCountingRecorder()
	return NewRegistry(memory.NewUserStore(), auth.PlainHasher{}, log, WithRecorder(rec)), rec
}

func mustRegister(t *testing.T, r *Registry, name, email, credential string) *domain.User {
	t.Helper()
	user, err := r.Register(context.Background(), name, email, credential)
	require.NoError(t, err)
	return user
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("registers a new user", func(t *testing.T) {
		r, rec := newTestRegistry(t)

		user, err := r.Register(ctx, "Paula", "paula@mail.com", "1234")
		require.NoError(t, err)
		assert.Equal(t, "paula@mail.com", user.Email)
		assert.Equal(t, "Paula", user.Name)
		assert.Empty(t, user.Grades)
		assert.Equal(t, 1, rec.registered)
	})

	t.Run("rejects a duplicate email regardless of other fields", func(t *testing.T) {
		r, rec := newTestRegistry(t)
		mustRegister(t, r, "Paula", "paula@mail.com", "1234")

		_, err := r.Register(ctx, "Otro", "paula@mail.com", "5678")
		assert.ErrorIs(t, err, domain.ErrDuplicateEmail)
		assert.Equal(t, "duplicate email", err.Error())
		assert.Equal(t, 1, rec.rejections["register/validation"])
	})

	t.Run("email uniqueness is case-sensitive", func(t *testing.T) {
		r, _ := newTestRegistry(t)
		mustRegister(t, r, "Paula", "paula@mail.com", "1234")

		_, err := r.Register(ctx, "Paula", "Paula@mail.com", "1234")
		assert.NoError(t, err)
	})

	tests := []struct {
		name       string
		userName   string
		email      string
		credential string
		want       error
	}{
		{"missing email", "Juan", "", "1234", domain.ErrMissingFields},
		{"missing name", "", "juan@mail.com", "1234", domain.ErrMissingFields},
		{"missing credential", "Ana", "ana@mail.com", "", domain.ErrMissingFields},
		{"invalid email format", "Ana", "ana-at-mail.com", "1234", domain.ErrInvalidEmail},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r, _ := newTestRegistry(t)

			user, err := r.Register(ctx, tc.userName, tc.email, tc.credential)
			assert.ErrorIs(t, err, tc.want)
			assert.Nil(t, user)

			var validationErr *domain.ValidationError
			assert.True(t, errors.As(err, &validationErr))
		})
	}

	t.Run("presence is checked before duplicates", func(t *testing.T) {
		r, _ := newTestRegistry(t)
		mustRegister(t, r, "Paula", "paula@mail.com", "1234")

		_, err := r.Register(ctx, "", "paula@mail.com", "1234")
		assert.ErrorIs(t, err, domain.ErrMissingFields)
	})

	t.Run("format is checked before duplicates", func(t *testing.T) {
		r, _ := newTestRegistry(t)

		_, err := r.Register(ctx, "Paula", "paula", "1234")
		assert.ErrorIs(t, err, domain.ErrInvalidEmail)
	})

	t.Run("returned user is a copy", func(t *testing.T) {
		r, _ := newTestRegistry(t)
		user := mustRegister(t, r, "Paula", "paula@mail.com", "1234")
		user.Grades = append(user.Grades, domain.GradeEntry{Subject: "Hack", Score: 10})

		assert.Empty(t, r.ListGrades(ctx, "paula@mail.com"))
	})
}

func TestRegisterThenAuthenticate(t *testing.T) {
	ctx := context.Background()
	r, rec := newTestRegistry(t)

	for i := 0; i < 10; i++ {
		email := fmt.Sprintf("user%d@mail.com", i)
		credential := fmt.Sprintf("secret-%d", i)
		mustRegister(t, r, "User", email, credential)

		user, err := r.Authenticate(ctx, email, credential)
		require.NoError(t, err)
		assert.Equal(t, email, user.Email)
	}
	assert.Equal(t, 10, rec.logins[true])
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()

	t.Run("succeeds with matching credentials", func(t *testing.T) {
		r, _ := newTestRegistry(t)
		mustRegister(t, r, "Nico", "nico@mail.com", "pass")

		user, err := r.Authenticate(ctx, "nico@mail.com", "pass")
		require.NoError(t, err)
		assert.Equal(t, "Nico", user.Name)
	})

	t.Run("unknown email reports invalid credentials", func(t *testing.T) {
		r, rec := newTestRegistry(t)

		_, err := r.Authenticate(ctx, "unknown@mail.com", "x")
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
		assert.Equal(t, "invalid credentials", err.Error())

		var authErr *domain.AuthError
		assert.True(t, errors.As(err, &authErr))
		assert.Equal(t, 1, rec.logins[false])
	})

	t.Run("wrong credential reports invalid credentials", func(t *testing.T) {
		r, _ := newTestRegistry(t)
		mustRegister(t, r, "Lau", "lau@mail.com", "clave")

		_, err := r.Authenticate(ctx, "lau@mail.com", "malaclav")
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("missing fields", func(t *testing.T) {
		r, _ := newTestRegistry(t)

		_, err := r.Authenticate(ctx, "", "1234")
		assert.ErrorIs(t, err, domain.ErrMissingLoginFields)

		_, err = r.Authenticate(ctx, "a@b.com", "")
		assert.ErrorIs(t, err, domain.ErrMissingLoginFields)
	})

	t.Run("works with bcrypt hashing", func(t *testing.T) {
		log, _ := logger.GetTestLogger(t)
		r := NewRegistry(memory.NewUserStore(), auth.NewBcryptHasher(bcrypt.MinCost), log)

		user := mustRegister(t, r, "Nico", "nico@mail.com", "pass")
		assert.NotEqual(t, "pass", user.Credential)

		_, err := r.Authenticate(ctx, "nico@mail.com", "pass")
		assert.NoError(t, err)
		_, err = r.Authenticate(ctx, "nico@mail.com", "wrong")
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

		// 40 runes, 80 bytes: past bcrypt's raw input limit
		long := strings.Repeat("ñ", 40)
		mustRegister(t, r, "Ana", "ana@mail.com", long)
		_, err = r.Authenticate(ctx, "ana@mail.com", long)
		assert.NoError(t, err)
	})
}

func TestAddGrade(t *testing.T) {
	ctx := context.Background()

	t.Run("adds a grade to an existing user", func(t *testing.T) {
		r, rec := newTestRegistry(t)
		mustRegister(t, r, "Mario", "mario@mail.com", "clave")

		require.NoError(t, r.AddGrade(ctx, "mario@mail.com", "Matemática", 8))
		assert.Equal(t, []domain.GradeEntry{{Subject: "Matemática", Score: 8}}, r.ListGrades(ctx, "mario@mail.com"))
		assert.Equal(t, 1, rec.grades)
	})

	t.Run("unknown user", func(t *testing.T) {
		r, rec := newTestRegistry(t)

		err := r.AddGrade(ctx, "sinusuario@mail.com", "Física", 7)
		assert.ErrorIs(t, err, domain.ErrUserNotFound)

		var notFoundErr *domain.NotFoundError
		assert.True(t, errors.As(err, &notFoundErr))
		assert.Equal(t, 1, rec.rejections["add_grade/not_found"])
	})

	t.Run("out of range never mutates grades", func(t *testing.T) {
		r, _ := newTestRegistry(t)
		mustRegister(t, r, "Ari", "ari@mail.com", "pass")
		require.NoError(t, r.AddGrade(ctx, "ari@mail.com", "Química", 5))

		for _, score := range []float64{-1, 11, -0.01, 10.01} {
			before := len(r.ListGrades(ctx, "ari@mail.com"))
			err := r.AddGrade(ctx, "ari@mail.com", "Química", score)
			assert.ErrorIs(t, err, domain.ErrScoreOutOfRange, "score %v", score)
			assert.Len(t, r.ListGrades(ctx, "ari@mail.com"), before)
		}
	})

	t.Run("range is checked before existence", func(t *testing.T) {
		r, _ := newTestRegistry(t)

		err := r.AddGrade(ctx, "nobody@mail.com", "Química", 11)
		assert.ErrorIs(t, err, domain.ErrScoreOutOfRange)
	})

	invalid := []struct {
		name    string
		email   string
		subject string
		score   float64
	}{
		{"missing email", "", "Historia", 7},
		{"missing subject", "eli@mail.com", "", 7},
		{"non-numeric score", "eli@mail.com", "Historia", math.NaN()},
		{"infinite score", "eli@mail.com", "Historia", math.Inf(-1)},
	}

	for _, tc := range invalid {
		t.Run(tc.name, func(t *testing.T) {
			r, _ := newTestRegistry(t)
			mustRegister(t, r, "Eli", "eli@mail.com", "clave")

			err := r.AddGrade(ctx, tc.email, tc.subject, tc.score)
			assert.ErrorIs(t, err, domain.ErrInvalidGradeInput)
			assert.Empty(t, r.ListGrades(ctx, "eli@mail.com"))
		})
	}
}

func TestListGrades(t *testing.T) {
	ctx := context.Background()

	t.Run("empty for a user without grades", func(t *testing.T) {
		r, _ := newTestRegistry(t)
		mustRegister(t, r, "Sofi", "sofi@mail.com", "qwerty")

		grades := r.ListGrades(ctx, "sofi@mail.com")
		assert.NotNil(t, grades)
		assert.Empty(t, grades)
	})

	t.Run("returns grades in insertion order with duplicates", func(t *testing.T) {
		r, _ := newTestRegistry(t)
		mustRegister(t, r, "Ro", "ro@mail.com", "abcd")
		require.NoError(t, r.AddGrade(ctx, "ro@mail.com", "Física", 9))
		require.NoError(t, r.AddGrade(ctx, "ro@mail.com", "Química", 8))
		require.NoError(t, r.AddGrade(ctx, "ro@mail.com", "Física", 6))

		grades := r.ListGrades(ctx, "ro@mail.com")
		require.Len(t, grades, 3)
		assert.Equal(t, "Física", grades[0].Subject)
		assert.Equal(t, "Química", grades[1].Subject)
		assert.Equal(t, "Física", grades[2].Subject)
	})

	t.Run("empty for an unknown user", func(t *testing.T) {
		r, _ := newTestRegistry(t)

		grades := r.ListGrades(ctx, "noexiste@mail.com")
		assert.NotNil(t, grades)
		assert.Empty(t, grades)
	})
}

func TestComputeAverageAndIsPassing(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name        string
		scores      []float64
		wantAverage float64
		wantOK      bool
		wantPassing bool
	}{
		{"two grades averaging 6", []float64{7, 5}, 6, true, true},
		{"three grades averaging 6", []float64{10, 2, 6}, 6, true, true},
		{"average 4.5 fails", []float64{4, 5}, 4.5, true, false},
		{"no grades", nil, 0, false, false},
		{"unrounded mean", []float64{10, 10, 9}, 29.0 / 3, true, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r, _ := newTestRegistry(t)
			mustRegister(t, r, "Clara", "clara@mail.com", "zxcv")
			for _, score := range tc.scores {
				require.NoError(t, r.AddGrade(ctx, "clara@mail.com", "Materia", score))
			}

			avg, ok := r.ComputeAverage(ctx, "clara@mail.com")
			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.wantAverage, avg)
			assert.Equal(t, tc.wantPassing, r.IsPassing(ctx, "clara@mail.com"))
		})
	}

	t.Run("unknown user has no average and is not passing", func(t *testing.T) {
		r, _ := newTestRegistry(t)

		_, ok := r.ComputeAverage(ctx, "ghost@mail.com")
		assert.False(t, ok)
		assert.False(t, r.IsPassing(ctx, "ghost@mail.com"))
	})
}

func TestScenario_RegisterGradeAndPass(t *testing.T) {
	ctx := context.Background()
	r, _ := newTestRegistry(t)

	mustRegister(t, r, "Santi", "santi@mail.com", "123")
	require.NoError(t, r.AddGrade(ctx, "santi@mail.com", "Inglés", 7))
	require.NoError(t, r.AddGrade(ctx, "santi@mail.com", "Francés", 5))

	avg, ok := r.ComputeAverage(ctx, "santi@mail.com")
	require.True(t, ok)
	assert.Equal(t, 6.0, avg)
	assert.True(t, r.IsPassing(ctx, "santi@mail.com"))

	standing := r.Standing(ctx, "santi@mail.com")
	assert.Equal(t, Standing{
		Email:      "santi@mail.com",
		GradeCount: 2,
		Average:    6,
		HasAverage: true,
		Passing:    true,
	}, standing)
}

func TestStanding_UnknownUser(t *testing.T) {
	r, _ := newTestRegistry(t)

	standing := r.Standing(context.Background(), "ghost@mail.com")
	assert.Equal(t, Standing{Email: "ghost@mail.com"}, standing)
}

func TestRegistry_StoreFailures(t *testing.T) {
	ctx := context.Background()
	storeErr := errors.New("connection reset")

	t.Run("register lookup failure is internal", func(t *testing.T) {
		users := new(MockUserStore)
		users.On("GetByEmail", mock.Anything, "paula@mail.com").Return(nil, storeErr)

		log, buf := logger.GetTestLogger(t)
		r := NewRegistry(users, nil, log)

		_, err := r.Register(ctx, "Paula", "paula@mail.com", "1234")
		assert.ErrorIs(t, err, storeErr)
		assert.Equal(t, "internal", ErrorKind(err))
		logger.AssertLogField(t, buf, "level", "ERROR")
		users.AssertExpectations(t)
	})

	t.Run("create race maps to duplicate email", func(t *testing.T) {
		users := new(MockUserStore)
		users.On("GetByEmail", mock.Anything, "paula@mail.com").Return(nil, store.ErrUserNotFound)
		users.On("Create", mock.Anything, mock.AnythingOfType("*domain.User")).Return(store.ErrEmailExists)

		r := NewRegistry(users, nil, nil)

		_, err := r.Register(ctx, "Paula", "paula@mail.com", "1234")
		assert.ErrorIs(t, err, domain.ErrDuplicateEmail)
		users.AssertExpectations(t)
	})

	t.Run("hash failure aborts registration", func(t *testing.T) {
		users := new(MockUserStore)
		users.On("GetByEmail", mock.Anything, "paula@mail.com").Return(nil, store.ErrUserNotFound)
		hasher := new(MockCredentialHasher)
		hasher.On("Hash", "1234").Return("", errors.New("too long"))

		r := NewRegistry(users, hasher, nil)

		_, err := r.Register(ctx, "Paula", "paula@mail.com", "1234")
		require.Error(t, err)
		users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		hasher.AssertExpectations(t)
	})

	t.Run("credential is hashed before storage", func(t *testing.T) {
		users := new(MockUserStore)
		users.On("GetByEmail", mock.Anything, "paula@mail.com").Return(nil, store.ErrUserNotFound)
		users.On("Create", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
			return u.Credential == "hashed:1234"
		})).Return(nil)
		hasher := new(MockCredentialHasher)
		hasher.On("Hash", "1234").Return("hashed:1234", nil)

		r := NewRegistry(users, hasher, nil)

		_, err := r.Register(ctx, "Paula", "paula@mail.com", "1234")
		require.NoError(t, err)
		users.AssertExpectations(t)
	})

	t.Run("list failure yields empty grades", func(t *testing.T) {
		users := new(MockUserStore)
		users.On("ListGrades", mock.Anything, "ro@mail.com").Return(nil, storeErr)

		r := NewRegistry(users, nil, nil)

		grades := r.ListGrades(ctx, "ro@mail.com")
		assert.NotNil(t, grades)
		assert.Empty(t, grades)
	})

	t.Run("append failure is internal", func(t *testing.T) {
		users := new(MockUserStore)
		users.On("AppendGrade", mock.Anything, "ro@mail.com", domain.GradeEntry{Subject: "Física", Score: 9}).
			Return(storeErr)

		r := NewRegistry(users, nil, nil)

		err := r.AddGrade(ctx, "ro@mail.com", "Física", 9)
		assert.ErrorIs(t, err, storeErr)
		assert.NotErrorIs(t, err, domain.ErrUserNotFound)
	})
}

func TestErrorKind(t *testing.T) {
	assert.Equal(t, "validation", ErrorKind(domain.ErrMissingFields))
	assert.Equal(t, "auth", ErrorKind(domain.ErrInvalidCredentials))
	assert.Equal(t, "not_found", ErrorKind(fmt.Errorf("wrapped: %w", domain.ErrUserNotFound)))
	assert.Equal(t, "internal", ErrorKind(errors.New("boom")))
}
