package api

import (
	"encoding/json"
	"math"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/gradebook/internal/api/middleware"
	"github.com/phrazzld/gradebook/internal/api/shared"
	"github.com/phrazzld/gradebook/internal/platform/logger"
	"github.com/phrazzld/gradebook/internal/service"
	"github.com/phrazzld/gradebook/internal/service/auth"
)

// RegistryHandler handles registration, login and grade requests.
type RegistryHandler struct {
	registry   service.RegistryService
	jwtService auth.JWTService
}

// NewRegistryHandler creates a new RegistryHandler with the given dependencies.
func NewRegistryHandler(registry service.RegistryService, jwtService auth.JWTService) *RegistryHandler {
	return &RegistryHandler{
		registry:   registry,
		jwtService: jwtService,
	}
}

// Register handles POST /api/auth/register.
func (h *RegistryHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.registry.Register(r.Context(), req.Name, req.Email, req.Credential)
	if err != nil {
		respondWithRegistryError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, RegisterResponse{
		Result: shared.OK(),
		User:   newUserResponse(user),
	})
}

// Login handles POST /api/auth/login and issues an access token.
func (h *RegistryHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.registry.Authenticate(r.Context(), req.Email, req.Credential)
	if err != nil {
		respondWithRegistryError(w, r, err)
		return
	}

	token, err := h.jwtService.GenerateToken(r.Context(), user)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to generate authentication token", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, LoginResponse{
		Result: shared.OK(),
		User:   newUserResponse(user),
		Token:  token,
	})
}

// AddGrade handles POST /api/users/{email}/grades.
func (h *RegistryHandler) AddGrade(w http.ResponseWriter, r *http.Request) {
	var req AddGradeRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	email := emailParam(r)
	if err := h.registry.AddGrade(r.Context(), email, req.Subject, parseScore(req.Score)); err != nil {
		respondWithRegistryError(w, r, err)
		return
	}

	if claims, ok := middleware.GetClaims(r); ok {
		logger.FromContext(r.Context()).Info("grade recorded via API",
			"actor_id", claims.UserID,
			"actor_email", claims.Email,
			"target_email", email,
			"subject", req.Subject)
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, shared.OK())
}

// ListGrades handles GET /api/users/{email}/grades. Unknown users get an
// empty list, not a 404.
func (h *RegistryHandler) ListGrades(w http.ResponseWriter, r *http.Request) {
	email := emailParam(r)
	grades := h.registry.ListGrades(r.Context(), email)

	shared.RespondWithJSON(w, r, http.StatusOK, GradesResponse{
		Result: shared.OK(),
		Email:  email,
		Grades: newGradeResponses(grades),
	})
}

// Standing handles GET /api/users/{email}/standing.
func (h *RegistryHandler) Standing(w http.ResponseWriter, r *http.Request) {
	standing := h.registry.Standing(r.Context(), emailParam(r))
	shared.RespondWithJSON(w, r, http.StatusOK, newStandingResponse(standing))
}

// parseScore returns the JSON number in raw as a float64. Anything else,
// including strings, null, a missing field or a number beyond float64 range,
// yields NaN, which the registry rejects as invalid grade input.
func parseScore(raw json.RawMessage) float64 {
	if len(raw) == 0 || (raw[0] != '-' && (raw[0] < '0' || raw[0] > '9')) {
		return math.NaN()
	}
	score, err := strconv.ParseFloat(string(raw), 64)
	if err != nil {
		return math.NaN()
	}
	return score
}

// decodeAndValidate decodes and validates the request body, writing a 400
// response and returning false on failure.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, req interface{}) bool {
	if err := shared.DecodeJSON(r, req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return false
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return false
	}
	return true
}

func respondWithRegistryError(w http.ResponseWriter, r *http.Request, err error) {
	shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
}

// emailParam returns the unescaped {email} path parameter.
func emailParam(r *http.Request) string {
	raw := chi.URLParam(r, "email")
	email, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return email
}
