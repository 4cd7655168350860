package handlers_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	"go.uber.org/zap"

	appdb "github.com/padraicbc/scoreapi/db"
	"github.com/padraicbc/scoreapi/handlers"
	"github.com/padraicbc/scoreapi/hub"
	"github.com/padraicbc/scoreapi/store"
)

const testToken = "sekret"

type testEnv struct {
	e   *echo.Echo
	st  *store.Store
	hub *hub.Hub
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	_, err = db.ExecContext(context.Background(), "PRAGMA foreign_keys = ON")
	require.NoError(t, err)
	require.NoError(t, appdb.CreateTables(context.Background(), db))
	t.Cleanup(func() { _ = db.Close() })

	st := store.New(db)
	hb := hub.New(zap.NewNop())
	e := echo.New()
	handlers.Register(e, handlers.New(st, hb), testToken)

	return &testEnv{e: e, st: st, hub: hb}
}

// recordConn is a hub.Conn that records broadcast payloads.
type recordConn struct {
	mu   sync.Mutex
	msgs [][]byte
}

func (c *recordConn) WriteMessage(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	cp := make([]byte, len(data))
	copy(cp, data)
	c.msgs = append(c.msgs, cp)
	return nil
}

func (c *recordConn) Close() error { return nil }

func (c *recordConn) received() [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([][]byte(nil), c.msgs...)
}

// subscribe attaches a recording subscriber to the env's hub.
func (env *testEnv) subscribe() *recordConn {
	conn := &recordConn{}
	env.hub.Add(hub.NewSubscriber(conn))
	return conn
}

func (env *testEnv) do(method, target, token, contentType, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	if token != "" {
		req.Header.Set("Token", token)
	}
	rec := httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	return rec
}

func (env *testEnv) postJSON(target, token, body string) *httptest.ResponseRecorder {
	return env.do(http.MethodPost, target, token, echo.MIMEApplicationJSON, body)
}

func (env *testEnv) postForm(target, token, body string) *httptest.ResponseRecorder {
	return env.do(http.MethodPost, target, token, echo.MIMEApplicationForm, body)
}

type statusBody struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func decodeStatus(t *testing.T, rec *httptest.ResponseRecorder) statusBody {
	t.Helper()
	var body statusBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), "body: %s", rec.Body.String())
	return body
}

func TestUnauthorizedMutation(t *testing.T) {
	env := newTestEnv(t)
	sub := env.subscribe()

	for _, rec := range []*httptest.ResponseRecorder{
		env.postJSON("/teams", "wrong", `{"name":"Red"}`),
		env.postJSON("/teams", "", `{"name":"Red"}`),
		env.postForm("/team_scores", "wrong", "team_id=1&test_id=1&score=10"),
		env.do(http.MethodDelete, "/teams/1", "wrong", "", ""),
	} {
		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeStatus(t, rec)
		assert.Equal(t, "failure", body.Status)
		assert.Equal(t, "Unauthorized", body.Message)
	}

	// No writes happened and nothing was broadcast.
	teams, err := env.st.Teams(context.Background())
	require.NoError(t, err)
	assert.Empty(t, teams)
	assert.Empty(t, sub.received())
}

func TestTeamScoreAggregateScenario(t *testing.T) {
	env := newTestEnv(t)

	rec := env.postJSON("/teams", testToken, `{"name":"Red"}`)
	require.Equal(t, "success", decodeStatus(t, rec).Status)
	rec = env.postJSON("/tests", testToken, `{"name":"Quiz"}`)
	require.Equal(t, "success", decodeStatus(t, rec).Status)

	rec = env.postForm("/team_scores", testToken, "team_id=1&test_id=1&score=10")
	require.Equal(t, "success", decodeStatus(t, rec).Status)

	rec = env.do(http.MethodGet, "/team_scores_by_team", "", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var totals []store.TeamTotal
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &totals))
	require.Len(t, totals, 1)
	assert.Equal(t, store.TeamTotal{TeamID: 1, Score: 10, Name: "Red"}, totals[0])

	rec = env.postForm("/team_scores", testToken, "team_id=1&test_id=1&score=5")
	require.Equal(t, "success", decodeStatus(t, rec).Status)

	rec = env.do(http.MethodGet, "/team_scores_by_team", "", "", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &totals))
	require.Len(t, totals, 1)
	assert.Equal(t, 15, totals[0].Score)
}

func TestTeamScoreBroadcastsAggregate(t *testing.T) {
	env := newTestEnv(t)

	env.postJSON("/teams", testToken, `{"name":"Red"}`)
	env.postJSON("/tests", testToken, `{"name":"Quiz"}`)

	sub := env.subscribe()

	rec := env.postForm("/team_scores", testToken, "team_id=1&test_id=1&score=10")
	require.Equal(t, "success", decodeStatus(t, rec).Status)

	msgs := sub.received()
	require.Len(t, msgs, 1)
	var totals []store.TeamTotal
	require.NoError(t, json.Unmarshal(msgs[0], &totals))
	require.Len(t, totals, 1)
	assert.Equal(t, store.TeamTotal{TeamID: 1, Score: 10, Name: "Red"}, totals[0])
}

func TestCreateTeamScoreBadReferences(t *testing.T) {
	env := newTestEnv(t)
	sub := env.subscribe()

	rec := env.postForm("/team_scores", testToken, "team_id=9&test_id=9&score=10")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeStatus(t, rec)
	assert.Equal(t, "failure", body.Status)
	assert.Equal(t, "Team or test not found", body.Message)
	assert.Empty(t, sub.received())
}

func TestCreateTeamScoreMalformedForm(t *testing.T) {
	env := newTestEnv(t)

	rec := env.postForm("/team_scores", testToken, "team_id=abc&test_id=1&score=10")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.postForm("/team_scores", testToken, "team_id=1&test_id=1")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteTeamScoreNotFound(t *testing.T) {
	env := newTestEnv(t)
	sub := env.subscribe()

	rec := env.do(http.MethodDelete, "/team_scores/999", testToken, "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeStatus(t, rec)
	assert.Equal(t, "failure", body.Status)
	assert.Equal(t, "Team score not found", body.Message)
	assert.Empty(t, sub.received())
}

func TestDuplicateTeamName(t *testing.T) {
	env := newTestEnv(t)

	rec := env.postJSON("/teams", testToken, `{"name":"Red"}`)
	require.Equal(t, "success", decodeStatus(t, rec).Status)

	rec = env.postJSON("/teams", testToken, `{"name":"Red"}`)
	body := decodeStatus(t, rec)
	assert.Equal(t, "failure", body.Status)
	assert.Equal(t, "Team already exists", body.Message)
}

func TestUpdateAndDeleteTeam(t *testing.T) {
	env := newTestEnv(t)

	env.postJSON("/teams", testToken, `{"name":"Red"}`)

	rec := env.do(http.MethodPut, "/teams/1", testToken, echo.MIMEApplicationJSON, `{"name":"Crimson"}`)
	require.Equal(t, "success", decodeStatus(t, rec).Status)

	teams, err := env.st.Teams(context.Background())
	require.NoError(t, err)
	require.Len(t, teams, 1)
	assert.Equal(t, "Crimson", teams[0].Name)

	rec = env.do(http.MethodPut, "/teams/42", testToken, echo.MIMEApplicationJSON, `{"name":"Ghost"}`)
	assert.Equal(t, "Team not found", decodeStatus(t, rec).Message)

	rec = env.do(http.MethodDelete, "/teams/1", testToken, "", "")
	require.Equal(t, "success", decodeStatus(t, rec).Status)

	rec = env.do(http.MethodDelete, "/teams/1", testToken, "", "")
	assert.Equal(t, "Team not found", decodeStatus(t, rec).Message)
}

func TestResultsLifecycle(t *testing.T) {
	env := newTestEnv(t)
	sub := env.subscribe()

	rec := env.postJSON("/results", testToken, `{"team":"Lions","score":3}`)
	require.Equal(t, "success", decodeStatus(t, rec).Status)

	// The broadcast payload is the refreshed flat results list.
	msgs := sub.received()
	require.Len(t, msgs, 1)
	var results []struct {
		ID    int    `json:"id"`
		Team  string `json:"team"`
		Score int    `json:"score"`
	}
	require.NoError(t, json.Unmarshal(msgs[0], &results))
	require.Len(t, results, 1)
	assert.Equal(t, "Lions", results[0].Team)
	assert.Equal(t, 3, results[0].Score)

	rec = env.do(http.MethodPut, "/results", testToken, echo.MIMEApplicationJSON, `{"team":"Lions","score":6}`)
	require.Equal(t, "success", decodeStatus(t, rec).Status)

	rec = env.do(http.MethodPut, "/results", testToken, echo.MIMEApplicationJSON, `{"team":"Ghosts","score":1}`)
	body := decodeStatus(t, rec)
	assert.Equal(t, "failure", body.Status)
	assert.Equal(t, "Team not found", body.Message)

	rec = env.do(http.MethodDelete, "/results?team=Lions", testToken, "", "")
	require.Equal(t, "success", decodeStatus(t, rec).Status)

	rec = env.do(http.MethodDelete, "/results?team=Lions", testToken, "", "")
	assert.Equal(t, "Team not found", decodeStatus(t, rec).Message)
}

func TestDeleteTeamWithScores(t *testing.T) {
	env := newTestEnv(t)

	env.postJSON("/teams", testToken, `{"name":"Red"}`)
	env.postJSON("/tests", testToken, `{"name":"Quiz"}`)
	env.postForm("/team_scores", testToken, "team_id=1&test_id=1&score=10")

	rec := env.do(http.MethodDelete, "/teams/1", testToken, "", "")
	body := decodeStatus(t, rec)
	assert.Equal(t, "failure", body.Status)
	assert.Equal(t, "Team has existing scores", body.Message)

	err := env.st.CreateTeamScore(context.Background(), 1, 1, 1)
	assert.False(t, errors.Is(err, store.ErrReferential), "team must still exist")
}
