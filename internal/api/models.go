package api

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/gradebook/internal/api/shared"
	"github.com/phrazzld/gradebook/internal/domain"
	"github.com/phrazzld/gradebook/internal/service"
)

// Request size guards. Presence and format are checked by the registry so
// its error messages reach the client unchanged.

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Name       string `json:"name"       validate:"max=200"`
	Email      string `json:"email"      validate:"max=254"`
	Credential string `json:"credential" validate:"max=1024"`
}

// LoginRequest defines the payload for the login endpoint.
type LoginRequest struct {
	Email      string `json:"email"      validate:"max=254"`
	Credential string `json:"credential" validate:"max=1024"`
}

// AddGradeRequest defines the payload for recording a grade.
// Score is kept raw so that a non-numeric or overflowing value is reported by
// the registry as invalid grade input rather than as a decoding failure.
type AddGradeRequest struct {
	Subject string          `json:"subject" validate:"max=200"`
	Score   json.RawMessage `json:"score"`
}

// UserResponse is the public view of a user; the credential is never included.
type UserResponse struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Email     string          `json:"email"`
	Grades    []GradeResponse `json:"grades"`
	CreatedAt time.Time       `json:"created_at"`
}

// GradeResponse is one subject/score pair.
type GradeResponse struct {
	Subject string  `json:"subject"`
	Score   float64 `json:"score"`
}

// RegisterResponse is returned by the registration endpoint.
type RegisterResponse struct {
	shared.Result
	User UserResponse `json:"user"`
}

// LoginResponse is returned by the login endpoint.
type LoginResponse struct {
	shared.Result
	User  UserResponse `json:"user"`
	Token string       `json:"token"`
}

// GradesResponse lists a user's grades.
type GradesResponse struct {
	shared.Result
	Email  string          `json:"email"`
	Grades []GradeResponse `json:"grades"`
}

// StandingResponse reports a user's average and pass status.
// Average is null when the user is unknown or has no grades.
type StandingResponse struct {
	shared.Result
	Email       string   `json:"email"`
	GradesCount int      `json:"grades_count"`
	Average     *float64 `json:"average"`
	Passing     bool     `json:"passing"`
}

func newUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Grades:    newGradeResponses(u.Grades),
		CreatedAt: u.CreatedAt,
	}
}

func newGradeResponses(grades []domain.GradeEntry) []GradeResponse {
	out := make([]GradeResponse, 0, len(grades))
	for _, g := range grades {
		out = append(out, GradeResponse{Subject: g.Subject, Score: g.Score})
	}
	return out
}

func newStandingResponse(s service.Standing) StandingResponse {
	resp := StandingResponse{
		Result:      shared.OK(),
		Email:       s.Email,
		GradesCount: s.GradeCount,
		Passing:     s.Passing,
	}
	if s.HasAverage {
		avg := s.Average
		resp.Average = &avg
	}
	return resp
}
