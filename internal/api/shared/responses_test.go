package shared

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/phrazzld/gradebook/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondWithErrorAndLog(t *testing.T) {
	log, logBuf := logger.GetTestLogger(t)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	ctx := SetTraceID(req.Context())
	ctx = logger.WithLogger(ctx, log)
	req = req.WithContext(ctx)

	rec := httptest.NewRecorder()
	RespondWithErrorAndLog(rec, req, http.StatusInternalServerError,
		"An unexpected error occurred", errors.New("lookup failed for credential=hunter22"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body Result
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.False(t, body.Success)
	assert.Equal(t, "An unexpected error occurred", body.Message)
	assert.Equal(t, GetTraceID(ctx), body.TraceID)

	logs := logBuf.String()
	assert.Contains(t, logs, `"level":"ERROR"`)
	assert.Contains(t, logs, "[REDACTED_CREDENTIAL]")
	assert.NotContains(t, logs, "hunter22")
}

func TestRespondWithJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()

	RespondWithJSON(rec, req, http.StatusOK, OK())

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())
}
