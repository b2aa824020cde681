package httputil

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/AdamBeresnev/goalit/internal/league"
	"github.com/alexedwards/scs/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{league.NewValidationError("bad"), http.StatusBadRequest},
		{league.ErrInsufficientTeams, http.StatusBadRequest},
		{fmt.Errorf("wrapped: %w", league.ErrMatchFinalized), http.StatusBadRequest},
		{league.ErrAlreadyFinalized, http.StatusBadRequest},
		{&league.PermissionError{Action: "finalize"}, http.StatusForbidden},
		{league.NotFound("match"), http.StatusNotFound},
		{league.ErrStoreBusy, http.StatusServiceUnavailable},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusFor(tt.err), tt.err.Error())
	}
	assert.Equal(t, "Internal Server Error", Message(errors.New("secret detail")))
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, httptest.NewRequest(http.MethodPost, "/api/matches/x/finalize", nil), "Failed to finalize", &league.PermissionError{Action: "finalize the match"})

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"detail":"only the match organizer can finalize the match"}`, rec.Body.String())
}

func TestDecodeJSON(t *testing.T) {
	var dst struct {
		Status string `json:"status"`
	}

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"status":"maybe"}`))
	require.NoError(t, DecodeJSON(req, &dst))
	assert.Equal(t, "maybe", dst.Status)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
	assert.NoError(t, DecodeJSON(req, &dst))

	for _, body := range []string{`{"state":"going"}`, `{"status":"going"} {}`, `{`} {
		req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		assert.Error(t, DecodeJSON(req, &dst), body)
	}
}

func TestFlashes(t *testing.T) {
	sm := scs.New()
	var popped []Flash
	handler := sm.LoadAndSave(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		PutFlash(sm, r.Context(), FlashWarning, "Match is full, you're on the waiting list.")
		PutFlash(sm, r.Context(), FlashSuccess, "Status updated.")
		popped = PopFlashes(sm, r.Context())
		assert.Empty(t, PopFlashes(sm, r.Context()))
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	require.Len(t, popped, 2)
	assert.Equal(t, Flash{Level: FlashWarning, Message: "Match is full, you're on the waiting list."}, popped[0])
	assert.Equal(t, FlashSuccess, popped[1].Level)
}
