package response

import (
	"encoding/json/v2"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/booknotesapp/booknotes-server/internal/errors"
	"github.com/booknotesapp/booknotes-server/internal/store"
)

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) Envelope {
	t.Helper()
	var env Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestSuccess(t *testing.T) {
	rec := httptest.NewRecorder()
	Success(rec, map[string]string{"hello": "world"}, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))

	env := decodeEnvelope(t, rec)
	assert.True(t, env.Success)
	assert.Empty(t, env.Error)
}

func TestError(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, http.StatusTeapot, "short and stout", nil)

	assert.Equal(t, http.StatusTeapot, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.False(t, env.Success)
	assert.Equal(t, "short and stout", env.Error)
}

func TestHandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"domain not found", domainerrors.NotFound("no such reader"), http.StatusNotFound},
		{"domain forbidden", domainerrors.Forbidden("not yours"), http.StatusForbidden},
		{"domain validation", domainerrors.Validation("bad input"), http.StatusBadRequest},
		{"invalid credential", domainerrors.InvalidCredential("nope"), http.StatusUnauthorized},
		{"token expired", domainerrors.TokenExpired("stale"), http.StatusUnauthorized},
		{"already exists", domainerrors.AlreadyExists("taken"), http.StatusConflict},
		{"store error", store.ErrNotFound, http.StatusNotFound},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			HandleError(rec, tt.err, nil)
			assert.Equal(t, tt.wantStatus, rec.Code)

			env := decodeEnvelope(t, rec)
			assert.False(t, env.Success)
			assert.NotEmpty(t, env.Error)
		})
	}
}

func TestHandleError_UnknownErrorHidesDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	HandleError(rec, errors.New("db password is hunter2"), nil)

	env := decodeEnvelope(t, rec)
	assert.Equal(t, "internal server error", env.Error)
}
