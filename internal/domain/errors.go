// Package domain defines the core business entities and errors.
package domain

// ValidationError is returned when input is missing or malformed.
type ValidationError struct {
	Message string
}

// Error implements the error interface for ValidationError.
func (e *ValidationError) Error() string {
	return e.Message
}

// AuthError is returned when a credential check fails. Unknown identities and
// credential mismatches are reported with the same error so callers cannot
// probe which emails are registered.
type AuthError struct {
	Message string
}

// Error implements the error interface for AuthError.
func (e *AuthError) Error() string {
	return e.Message
}

// NotFoundError is returned when an operation targets a user that does not
// exist and the operation distinguishes that case.
type NotFoundError struct {
	Message string
}

// Error implements the error interface for NotFoundError.
func (e *NotFoundError) Error() string {
	return e.Message
}

// Registry errors. Callers compare with errors.Is against these values, or use
// errors.As with one of the kinds above to branch on the category.
var (
	// ErrMissingFields is returned when registration lacks name, email or credential.
	ErrMissingFields = &ValidationError{Message: "missing fields"}

	// ErrInvalidEmail is returned when an email does not look like local@domain.tld.
	ErrInvalidEmail = &ValidationError{Message: "invalid email format"}

	// ErrDuplicateEmail is returned when registering an email that is already taken.
	ErrDuplicateEmail = &ValidationError{Message: "duplicate email"}

	// ErrMissingLoginFields is returned when authentication lacks email or credential.
	ErrMissingLoginFields = &ValidationError{Message: "missing login fields"}

	// ErrInvalidGradeInput is returned when email or subject is empty, or the
	// score is not a finite number.
	ErrInvalidGradeInput = &ValidationError{Message: "invalid grade input"}

	// ErrScoreOutOfRange is returned when a score falls outside [MinScore, MaxScore].
	ErrScoreOutOfRange = &ValidationError{Message: "score out of range"}

	// ErrInvalidCredentials covers both an unknown email and a wrong credential.
	ErrInvalidCredentials = &AuthError{Message: "invalid credentials"}

	// ErrUserNotFound is returned by operations that require an existing user.
	ErrUserNotFound = &NotFoundError{Message: "user not found"}
)
