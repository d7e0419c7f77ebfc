package api

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tejas020317/KeyRushers/internal/config"
	"github.com/tejas020317/KeyRushers/internal/game"
	"github.com/tejas020317/KeyRushers/internal/identity"
	"github.com/tejas020317/KeyRushers/internal/storage"
)

// stubVerifier mappe des tokens de test vers des claims
type stubVerifier map[string]identity.Claims

func (v stubVerifier) Verify(_ context.Context, token string) (identity.Claims, error) {
	claims, ok := v[token]
	if !ok {
		return identity.Claims{}, identity.ErrInvalidToken
	}
	return claims, nil
}

type envelope struct {
	Success bool              `json:"success"`
	Data    json.RawMessage   `json:"data"`
	Error   string            `json:"error"`
	Details map[string]string `json:"details"`
	Message string            `json:"message"`
}

type testAPI struct {
	router http.Handler
	store  *storage.MemoryStore
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	store := storage.NewMemoryStore()
	verifier := stubVerifier{
		"tok-alice": {UID: "alice", Email: "alice@example.com", Name: "Alice"},
		"tok-bob":   {UID: "bob", Name: "Bob", Picture: "https://cdn.example.com/bob.png"},
	}
	cfg := &config.Config{
		RequestTimeout: 5 * time.Second,
		AvatarMaxBytes: 256, // petit cap pour tester le refus sans payload de 5MB
	}

	return &testAPI{router: SetupRouter(store, verifier, cfg), store: store}
}

func (a *testAPI) do(t *testing.T, method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return w, env
}

func score(wpm, acc float64, dur int) map[string]interface{} {
	return map[string]interface{}{
		"wpm": wpm, "accuracy": acc, "actualAccuracy": acc,
		"durationSec": dur, "words": 100, "chars": 500,
	}
}

func TestSubmitScoreCreatesProfileAndAggregates(t *testing.T) {
	api := newTestAPI(t)

	w, env := api.do(t, http.MethodPost, "/api/scores", "tok-alice", score(80, 95, 60))
	require.Equal(t, http.StatusCreated, w.Code)
	require.True(t, env.Success)

	var resp struct {
		ID          string  `json:"id"`
		Wpm         float64 `json:"wpm"`
		DurationSec int     `json:"durationSec"`
		Mode        string  `json:"mode"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, 80.0, resp.Wpm)
	assert.Equal(t, "60s", resp.Mode)

	agg, ok := api.store.Aggregate("alice")
	require.True(t, ok)
	assert.Equal(t, game.BestScore{Wpm: 80, Accuracy: 95}, agg.Best(game.Mode60s))
	assert.Equal(t, game.Bucket{Count: 1, SumWpm: 80, SumAcc: 95, BestWpm: 80}, agg.Bucket(game.Mode60s))
}

func TestSecondScoreKeepsBest(t *testing.T) {
	api := newTestAPI(t)

	_, _ = api.do(t, http.MethodPost, "/api/scores", "tok-alice", score(80, 95, 60))
	w, _ := api.do(t, http.MethodPost, "/api/scores", "tok-alice", score(70, 99, 60))
	require.Equal(t, http.StatusCreated, w.Code)

	agg, ok := api.store.Aggregate("alice")
	require.True(t, ok)
	assert.Equal(t, game.BestScore{Wpm: 80, Accuracy: 95}, agg.Best(game.Mode60s))
	assert.Equal(t, game.Bucket{Count: 2, SumWpm: 150, SumAcc: 194, BestWpm: 80}, agg.Bucket(game.Mode60s))
}

func TestSubmitScoreValidation(t *testing.T) {
	api := newTestAPI(t)

	w, env := api.do(t, http.MethodPost, "/api/scores", "tok-alice", score(600, 95, 60))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid score", env.Error)
	assert.Contains(t, env.Details, "wpm")

	w, env = api.do(t, http.MethodPost, "/api/scores", "tok-alice", score(80, 95, 45))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Details, "durationSec")
}

func TestSubmitScoreRequiresAuth(t *testing.T) {
	api := newTestAPI(t)

	w, _ := api.do(t, http.MethodPost, "/api/scores", "", score(80, 95, 60))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = api.do(t, http.MethodPost, "/api/scores", "tok-ghost", score(80, 95, 60))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLeaderboardAllTieBrokenByAccuracy(t *testing.T) {
	api := newTestAPI(t)

	_, _ = api.do(t, http.MethodPost, "/api/scores", "tok-alice", score(50, 90, 60))
	_, _ = api.do(t, http.MethodPost, "/api/scores", "tok-bob", score(50, 95, 60))

	w, env := api.do(t, http.MethodGet, "/api/scores/leaderboard?mode=all", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var board []game.Entry
	require.NoError(t, json.Unmarshal(env.Data, &board))
	require.Len(t, board, 2)
	assert.Equal(t, "bob", board[0].UserID)
	assert.Equal(t, 1, board[0].Rank)
	assert.Equal(t, "alice", board[1].UserID)
	assert.Equal(t, 2, board[1].Rank)
}

func TestLeaderboardInvalidMode(t *testing.T) {
	api := newTestAPI(t)

	w, env := api.do(t, http.MethodGet, "/api/scores/leaderboard?mode=45s&limit=10", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid mode", env.Error)
}

func TestLeaderboardInvalidLimit(t *testing.T) {
	api := newTestAPI(t)

	w, _ := api.do(t, http.MethodGet, "/api/scores/leaderboard?limit=abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLeaderboardLimitClamped(t *testing.T) {
	api := newTestAPI(t)

	_, _ = api.do(t, http.MethodPost, "/api/scores", "tok-alice", score(50, 90, 60))
	_, _ = api.do(t, http.MethodPost, "/api/scores", "tok-bob", score(60, 95, 60))

	// limite hors bornes : ramenée à 1, pas rejetée
	w, env := api.do(t, http.MethodGet, "/api/scores/leaderboard?mode=60s&limit=0", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var board []game.Entry
	require.NoError(t, json.Unmarshal(env.Data, &board))
	assert.Len(t, board, 1)
}

func TestUserRankMatchesLeaderboard(t *testing.T) {
	api := newTestAPI(t)

	_, _ = api.do(t, http.MethodPost, "/api/scores", "tok-alice", score(50, 90, 60))
	_, _ = api.do(t, http.MethodPost, "/api/scores", "tok-bob", score(60, 95, 60))

	w, env := api.do(t, http.MethodGet, "/api/scores/user-rank?mode=60s", "tok-alice", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var rank game.RankResult
	require.NoError(t, json.Unmarshal(env.Data, &rank))
	assert.Equal(t, 2, rank.Rank)
	assert.Equal(t, 50.0, rank.Wpm)
	assert.Equal(t, 1, rank.Matches)
}

func TestUserRankWithoutProfile(t *testing.T) {
	api := newTestAPI(t)

	w, env := api.do(t, http.MethodGet, "/api/scores/user-rank", "tok-alice", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "User not found", env.Error)
}

func TestStatsEndpoint(t *testing.T) {
	api := newTestAPI(t)

	_, _ = api.do(t, http.MethodPost, "/api/scores", "tok-alice", score(40, 88, 30))
	_, _ = api.do(t, http.MethodPost, "/api/scores", "tok-bob", score(60, 94, 30))

	w, env := api.do(t, http.MethodGet, "/api/scores/stats?mode=30s", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var stats game.Stats
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	assert.Equal(t, 50, stats.AvgWpm)
	assert.Equal(t, 60, stats.HighestWpm)

	w, _ = api.do(t, http.MethodGet, "/api/scores/stats?mode=45s", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetMeCreatesProfile(t *testing.T) {
	api := newTestAPI(t)

	w, env := api.do(t, http.MethodGet, "/api/me", "tok-alice", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var profile struct {
		UID         string `json:"uid"`
		DisplayName string `json:"displayName"`
		Avatar      string `json:"avatar"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &profile))
	assert.Equal(t, "alice", profile.UID)
	assert.Equal(t, "Alice", profile.DisplayName)
	assert.Contains(t, profile.Avatar, "dicebear")
}

func TestPatchMe(t *testing.T) {
	api := newTestAPI(t)
	_, _ = api.do(t, http.MethodGet, "/api/me", "tok-alice", nil)

	w, env := api.do(t, http.MethodPatch, "/api/me", "tok-alice", map[string]interface{}{
		"displayName": "  Speedy  ",
		"bio":         "wpm addict",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var profile struct {
		DisplayName string `json:"displayName"`
		Bio         string `json:"bio"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &profile))
	assert.Equal(t, "Speedy", profile.DisplayName)
	assert.Equal(t, "wpm addict", profile.Bio)
}

func TestPatchMeValidation(t *testing.T) {
	api := newTestAPI(t)
	_, _ = api.do(t, http.MethodGet, "/api/me", "tok-alice", nil)

	w, env := api.do(t, http.MethodPatch, "/api/me", "tok-alice", map[string]interface{}{
		"birthdate": "2023-02-31",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Details, "birthdate")

	// data URI dont le payload décodé dépasse le cap configuré
	payload := base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{0xAB}, 512))
	w, env = api.do(t, http.MethodPatch, "/api/me", "tok-alice", map[string]interface{}{
		"avatar": "data:image/png;base64," + payload,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Details, "avatar")

	w, env = api.do(t, http.MethodPatch, "/api/me", "tok-alice", map[string]interface{}{
		"gender": "robot",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Details, "gender")
}

func TestPatchMeWithoutProfile(t *testing.T) {
	api := newTestAPI(t)

	w, _ := api.do(t, http.MethodPatch, "/api/me", "tok-alice", map[string]interface{}{
		"bio": "hello",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHealthAndRoot(t *testing.T) {
	api := newTestAPI(t)

	w, env := api.do(t, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", env.Message)

	w, _ = api.do(t, http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, env = api.do(t, http.MethodGet, "/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Route not found", env.Error)
}

func TestDynamicRanksAcrossManyPlayers(t *testing.T) {
	api := newTestAPI(t)

	verifier := stubVerifier{}
	store := storage.NewMemoryStore()
	cfg := &config.Config{RequestTimeout: 5 * time.Second, AvatarMaxBytes: 1024}
	for i := 0; i < 10; i++ {
		verifier[fmt.Sprintf("tok-%d", i)] = identity.Claims{
			UID:  fmt.Sprintf("player-%d", i),
			Name: fmt.Sprintf("Player %d", i),
		}
	}
	api.router = SetupRouter(store, verifier, cfg)
	api.store = store

	for i := 0; i < 10; i++ {
		_, _ = api.do(t, http.MethodPost, "/api/scores", fmt.Sprintf("tok-%d", i),
			score(float64(40+i*5), 90, 15))
	}

	_, env := api.do(t, http.MethodGet, "/api/scores/leaderboard?mode=15s", "", nil)
	var board []game.Entry
	require.NoError(t, json.Unmarshal(env.Data, &board))
	require.Len(t, board, 10)

	for i, entry := range board {
		assert.Equal(t, i+1, entry.Rank)
		if i > 0 {
			assert.GreaterOrEqual(t, board[i-1].Wpm, entry.Wpm)
		}

		// le rang individuel coïncide avec la position dans le classement
		tok := "tok-" + entry.UserID[len("player-"):]
		_, rankEnv := api.do(t, http.MethodGet, "/api/scores/user-rank?mode=15s", tok, nil)
		var rank game.RankResult
		require.NoError(t, json.Unmarshal(rankEnv.Data, &rank))
		assert.Equal(t, entry.Rank, rank.Rank)
	}
}
