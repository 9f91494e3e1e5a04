package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tournio/swiss-system/handlers"
	"github.com/tournio/swiss-system/models"
	"github.com/tournio/swiss-system/pairing"
	"github.com/tournio/swiss-system/repositories"
	"github.com/tournio/swiss-system/routes"
	"github.com/tournio/swiss-system/services"
	"github.com/tournio/swiss-system/utils"
)

const (
	testAdminEmail    = "admin@example.com"
	testAdminPassword = "swordfish"
)

func newTestServer(t *testing.T) (*httptest.Server, *pairing.Hub) {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := repositories.NewInMemoryTournamentRepository()
	hub := pairing.NewHub()
	go hub.Run()

	tournamentService := services.NewTournamentService(repo,
		pairing.NewSwissGenerator(rand.New(rand.NewSource(1))),
		pairing.NewLeaderTieBreaker(), hub, logger)
	statsService := services.NewStatsService(repo)

	passwordHash, err := utils.HashPassword(testAdminPassword)
	require.NoError(t, err)
	jwtSecret := []byte("test-secret")
	authService := services.NewAuthService(testAdminEmail, passwordHash, jwtSecret)

	router := chi.NewRouter()
	routes.SetupRoutes(router,
		handlers.NewAuthHandler(authService),
		handlers.NewTournamentHandler(tournamentService, statsService),
		handlers.NewWebSocketHandler(hub, tournamentService),
		jwtSecret,
		[]string{"*"})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server, hub
}

func doRequest(t *testing.T, server *httptest.Server, method, path, token string, body interface{}) (*http.Response, map[string]json.RawMessage) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, server.URL+path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := server.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	envelope := make(map[string]json.RawMessage)
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(data) > 0 {
		require.NoError(t, json.Unmarshal(data, &envelope))
	}
	return resp, envelope
}

func loginOperator(t *testing.T, server *httptest.Server) string {
	t.Helper()
	resp, envelope := doRequest(t, server, http.MethodPost, "/auth/login", "",
		map[string]string{"email": testAdminEmail, "password": testAdminPassword})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var token string
	require.NoError(t, json.Unmarshal(envelope["token"], &token))
	require.NotEmpty(t, token)
	return token
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	server, _ := newTestServer(t)
	resp, _ := doRequest(t, server, http.MethodPost, "/auth/login", "",
		map[string]string{"email": testAdminEmail, "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestMutationsRequireToken(t *testing.T) {
	server, _ := newTestServer(t)

	resp, _ := doRequest(t, server, http.MethodPost, "/tournaments", "",
		map[string]interface{}{"name": "City Cup", "scheduled_rounds": 2})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = doRequest(t, server, http.MethodPost, "/tournaments", "not-a-token",
		map[string]interface{}{"name": "City Cup", "scheduled_rounds": 2})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestTournamentLifecycleOverHTTP(t *testing.T) {
	server, _ := newTestServer(t)
	token := loginOperator(t, server)

	// Создание турнира с одним плановым туром.
	resp, envelope := doRequest(t, server, http.MethodPost, "/tournaments", token,
		map[string]interface{}{"name": "City Cup", "scheduled_rounds": 1})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var tournament models.Tournament
	require.NoError(t, json.Unmarshal(envelope["tournament"], &tournament))
	require.NotEmpty(t, tournament.ID)
	base := "/tournaments/" + tournament.ID

	for _, key := range []string{"A", "B", "C", "D"} {
		resp, _ = doRequest(t, server, http.MethodPost, base+"/participants", token,
			map[string]string{"key": key})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	// Дубликат ключа отклоняется.
	resp, _ = doRequest(t, server, http.MethodPost, base+"/participants", token,
		map[string]string{"key": "A"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, envelope = doRequest(t, server, http.MethodPost, base+"/rounds", token, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var round models.Round
	require.NoError(t, json.Unmarshal(envelope["round"], &round))
	require.Len(t, round.Matches, 2)

	// Некорректный счёт отклоняется.
	resp, _ = doRequest(t, server, http.MethodPost,
		fmt.Sprintf("%s/rounds/%d/matches/0/result", base, round.Ordinal), token,
		map[string]float64{"score_a": 0.3, "score_b": 0.7})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Победа стороны A в обоих матчах даёт двух лидеров.
	for i := range round.Matches {
		resp, _ = doRequest(t, server, http.MethodPost,
			fmt.Sprintf("%s/rounds/%d/matches/%d/result", base, round.Ordinal, i), token,
			map[string]float64{"score_a": 1, "score_b": 0})
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	// Повторная запись результата отклоняется.
	resp, _ = doRequest(t, server, http.MethodPost,
		fmt.Sprintf("%s/rounds/%d/matches/0/result", base, round.Ordinal), token,
		map[string]float64{"score_a": 0, "score_b": 1})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, envelope = doRequest(t, server, http.MethodPost, base+"/close-round", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var closed bool
	require.NoError(t, json.Unmarshal(envelope["closed"], &closed))
	assert.True(t, closed)

	// Таблица доступна без токена.
	resp, envelope = doRequest(t, server, http.MethodGet, base+"/rankings", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var rankings []models.Standing
	require.NoError(t, json.Unmarshal(envelope["rankings"], &rankings))
	require.Len(t, rankings, 4)
	assert.Equal(t, 1.0, rankings[0].Score)
	assert.Equal(t, 1.0, rankings[1].Score)

	// Плановые туры исчерпаны, лидеры делят первое место.
	resp, _ = doRequest(t, server, http.MethodPost, base+"/rounds", token, nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, envelope = doRequest(t, server, http.MethodGet, base+"/tiebreak", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var status models.TieBreakStatus
	require.NoError(t, json.Unmarshal(envelope["tie_break"], &status))
	assert.True(t, status.Needed)
	assert.True(t, status.CanPair)

	resp, envelope = doRequest(t, server, http.MethodPost, base+"/tiebreak", token, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.NoError(t, json.Unmarshal(envelope["round"], &round))
	require.Len(t, round.Matches, 1)
	assert.True(t, round.TieBreak)

	resp, _ = doRequest(t, server, http.MethodPost,
		fmt.Sprintf("%s/rounds/%d/matches/0/result", base, round.Ordinal), token,
		map[string]float64{"score_a": 1, "score_b": 0})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doRequest(t, server, http.MethodPost, base+"/close-round", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, envelope = doRequest(t, server, http.MethodGet, base, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(envelope["tournament"], &tournament))
	assert.True(t, tournament.IsFinished())

	// Согласованность и статистика.
	resp, envelope = doRequest(t, server, http.MethodGet, base+"/validation", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var consistent bool
	require.NoError(t, json.Unmarshal(envelope["consistent"], &consistent))
	assert.True(t, consistent)

	resp, envelope = doRequest(t, server, http.MethodGet, base+"/statistics", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var stats models.TournamentStatistics
	require.NoError(t, json.Unmarshal(envelope["statistics"], &stats))
	assert.Equal(t, "finished", stats.Basic.Status)
	assert.Equal(t, 2, stats.Basic.RoundsPlayed)
}

func TestUnknownTournamentReturns404(t *testing.T) {
	server, _ := newTestServer(t)

	resp, _ := doRequest(t, server, http.MethodGet, "/tournaments/missing", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = doRequest(t, server, http.MethodGet, "/tournaments/missing/rankings", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCreateTournamentValidatesBody(t *testing.T) {
	server, _ := newTestServer(t)
	token := loginOperator(t, server)

	resp, _ := doRequest(t, server, http.MethodPost, "/tournaments", token,
		map[string]interface{}{"name": "", "scheduled_rounds": 2})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = doRequest(t, server, http.MethodPost, "/tournaments", token,
		map[string]interface{}{"name": "City Cup", "scheduled_rounds": 0})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = doRequest(t, server, http.MethodPost, "/tournaments", token,
		map[string]interface{}{"name": "City Cup", "unknown_field": true})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestWebSocketReceivesMatchEvents(t *testing.T) {
	server, hub := newTestServer(t)
	token := loginOperator(t, server)

	resp, envelope := doRequest(t, server, http.MethodPost, "/tournaments", token,
		map[string]interface{}{"name": "City Cup", "scheduled_rounds": 1})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var tournament models.Tournament
	require.NoError(t, json.Unmarshal(envelope["tournament"], &tournament))
	base := "/tournaments/" + tournament.ID

	for _, key := range []string{"A", "B"} {
		resp, _ = doRequest(t, server, http.MethodPost, base+"/participants", token,
			map[string]string{"key": key})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	// Подписка на несуществующий турнир отклоняется до апгрейда.
	wsBase := "ws" + strings.TrimPrefix(server.URL, "http")
	_, badResp, err := websocket.DefaultDialer.Dial(wsBase+"/ws/tournaments/missing", nil)
	require.Error(t, err)
	require.Equal(t, http.StatusNotFound, badResp.StatusCode)

	conn, _, err := websocket.DefaultDialer.Dial(wsBase+"/ws/tournaments/"+tournament.ID, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	// Регистрация в хабе асинхронна относительно рукопожатия.
	deadline := time.Now().Add(2 * time.Second)
	for hub.RoomSize(tournament.ID) == 0 {
		require.True(t, time.Now().Before(deadline), "client never registered")
		time.Sleep(5 * time.Millisecond)
	}

	resp, _ = doRequest(t, server, http.MethodPost, base+"/rounds", token, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, message, err := conn.ReadMessage()
	require.NoError(t, err)

	var event pairing.Event
	require.NoError(t, json.Unmarshal(message, &event))
	assert.Equal(t, pairing.EventRoundStarted, event.Type)
	assert.Equal(t, tournament.ID, event.TournamentID)
}
