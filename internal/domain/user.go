package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// User represents a registered user of the gradebook.
// Name, Email and Credential are fixed at registration; only Grades grows.
type User struct {
	ID         uuid.UUID    `json:"id"`
	Name       string       `json:"name"`
	Email      string       `json:"email"`
	Credential string       `json:"-"` // Never expose the stored credential in JSON
	Grades     []GradeEntry `json:"grades"`
	CreatedAt  time.Time    `json:"created_at"`
}

// NewUser creates a new User with the given name, email and credential.
// It generates a new UUID and an empty grade sequence.
// Returns ErrMissingFields or ErrInvalidEmail if validation fails.
//
// The credential is stored as given; callers that hash credentials must do so
// before the user reaches a store.
func NewUser(name, email, credential string) (*User, error) {
	user := &User{
		ID:         uuid.New(),
		Name:       name,
		Email:      email,
		Credential: credential,
		Grades:     []GradeEntry{},
		CreatedAt:  time.Now().UTC(),
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks presence of all fields first, then the email format.
func (u *User) Validate() error {
	if u.Name == "" || u.Email == "" || u.Credential == "" {
		return ErrMissingFields
	}

	if !ValidateEmailFormat(u.Email) {
		return ErrInvalidEmail
	}

	return nil
}

// Clone returns a deep copy of the user, so the grade slice of the copy can be
// handed to callers without exposing stored state.
func (u *User) Clone() *User {
	c := *u
	c.Grades = make([]GradeEntry, len(u.Grades))
	copy(c.Grades, u.Grades)
	return &c
}

// ValidateEmailFormat reports whether email has the basic local@domain.tld shape:
// exactly one '@', a non-empty local part, and a domain containing a dot that is
// neither its first nor its last character. Whitespace is never allowed.
func ValidateEmailFormat(email string) bool {
	if strings.ContainsAny(email, " \t\r\n") {
		return false
	}

	local, domainPart, found := strings.Cut(email, "@")
	if !found || local == "" || strings.Contains(domainPart, "@") {
		return false
	}

	dot := strings.LastIndex(domainPart, ".")
	return dot > 0 && dot < len(domainPart)-1
}
