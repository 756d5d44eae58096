package server

import (
	"encoding/json"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/kash-scorekeeper/internal/apperrors"
	"github.com/palemoky/kash-scorekeeper/internal/protocol"
)

func TestAPIGame(t *testing.T) {
	t.Parallel()

	c := &client{t: t, h: newTestServer(t, nil).Handler()}
	c.start("Ann", "Bob", "Cid")
	c.post("/round", url.Values{"tricks_Ann": {"5"}, "tricks_Bob": {"6"}, "tricks_Cid": {"5"}})

	rec := c.get("/api/games/" + c.cookie.Value)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var state protocol.GameStatePayload
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
	assert.Equal(t, c.cookie.Value, state.GameID)
	assert.Equal(t, "round_in_progress", state.Phase)
	assert.Equal(t, 2, state.Round)
	assert.Equal(t, "Bob", state.Dealer)
	require.Len(t, state.Players, 3)
	assert.Equal(t, protocol.PlayerScore{Name: "Bob", Score: 2, Role: "dealer", Required: 3}, state.Players[1])
	require.NotNil(t, state.LastResult)
	assert.Equal(t, map[string]map[string]int{"Bob": {"Ann": 2}}, state.LastResult.Swaps)
}

func TestAPIGame_NotFound(t *testing.T) {
	t.Parallel()

	c := &client{t: t, h: newTestServer(t, nil).Handler()}
	rec := c.get("/api/games/does-not-exist")

	require.Equal(t, http.StatusNotFound, rec.Code)
	var e protocol.ErrorPayload
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &e))
	assert.Equal(t, apperrors.ErrCodeGameNotFound, e.Code)
}

func TestRespondAPIError_StatusMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err    error
		status int
	}{
		{apperrors.ErrGameNotFound, http.StatusNotFound},
		{apperrors.ErrInvalidPlayers, http.StatusBadRequest},
		{apperrors.ErrGameOver, http.StatusConflict},
		{apperrors.ErrRateLimited, http.StatusTooManyRequests},
		{assert.AnError, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			t.Parallel()
			rec := newRecorder()
			respondAPIError(rec, tt.err)
			assert.Equal(t, tt.status, rec.Code)

			var e protocol.ErrorPayload
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &e))
			assert.Equal(t, apperrors.Code(tt.err), e.Code)
		})
	}
}
