package journal

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	journalservice "github.com/soulnest/soulnest/backend/internal/service/journal"
	"github.com/soulnest/soulnest/backend/internal/store"
	"github.com/soulnest/soulnest/backend/internal/store/memory"
)

func setupRouter() *chi.Mux {
	handler := New(journalservice.NewService(memory.New()), zap.NewNop())
	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return r
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func createJournal(t *testing.T, r http.Handler, body string) string {
	t.Helper()
	resp := do(r, http.MethodPost, "/journal", body)
	require.Equal(t, http.StatusOK, resp.Code)

	var out map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.NotEmpty(t, out["journal_id"])
	return out["journal_id"]
}

func TestCreateThenGetJournal(t *testing.T) {
	r := setupRouter()
	id := createJournal(t, r, `{"title":"A","content":"B","user_id":"u1"}`)

	resp := do(r, http.MethodGet, "/journals/"+id, "")
	require.Equal(t, http.StatusOK, resp.Code)

	var got map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, id, got["_id"])
	assert.Equal(t, "u1", got["user_id"])
	assert.Equal(t, "A", got["title"])
	assert.Equal(t, "B", got["content"])
	assert.Contains(t, got, "created_at")
}

func TestCreateJournalValidation(t *testing.T) {
	r := setupRouter()

	resp := do(r, http.MethodPost, "/journal", `{"title":"only title"}`)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.JSONEq(t, `{"error":"content is required"}`, resp.Body.String())
}

func TestGetJournalNotFound(t *testing.T) {
	r := setupRouter()

	for _, id := range []string{store.NewID().String(), "not-an-id"} {
		resp := do(r, http.MethodGet, "/journals/"+id, "")
		assert.Equal(t, http.StatusNotFound, resp.Code)
		assert.JSONEq(t, `{"error":"Journal not found"}`, resp.Body.String())
	}
}

func TestUpdateJournal(t *testing.T) {
	r := setupRouter()
	id := createJournal(t, r, `{"title":"old","content":"old","user_id":"u1"}`)

	resp := do(r, http.MethodPut, "/journals/"+id, `{"title":"new","content":"fresh","user_id":"someone-else"}`)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"status":"Journal updated ✨"}`, resp.Body.String())

	resp = do(r, http.MethodGet, "/journals/"+id, "")
	require.Equal(t, http.StatusOK, resp.Code)
	var got map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, "new", got["title"])
	assert.Equal(t, "fresh", got["content"])
	assert.Equal(t, "u1", got["user_id"])
}

func TestUpdateJournalNotFound(t *testing.T) {
	r := setupRouter()

	resp := do(r, http.MethodPut, "/journals/"+store.NewID().String(), `{"title":"t","content":"c"}`)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestDeleteJournalTwice(t *testing.T) {
	r := setupRouter()
	id := createJournal(t, r, `{"title":"t","content":"c"}`)

	resp := do(r, http.MethodDelete, "/journals/"+id, "")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"status":"Journal deleted 🗑️"}`, resp.Body.String())

	resp = do(r, http.MethodDelete, "/journals/"+id, "")
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestListJournalsByUser(t *testing.T) {
	r := setupRouter()
	createJournal(t, r, `{"title":"one","content":"x","user_id":"u1"}`)
	createJournal(t, r, `{"title":"two","content":"x","user_id":"u1"}`)
	createJournal(t, r, `{"title":"theirs","content":"x","user_id":"u2"}`)

	resp := do(r, http.MethodGet, "/journals?user_id=u1", "")
	require.Equal(t, http.StatusOK, resp.Code)

	var journals []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&journals))
	require.Len(t, journals, 2)
	titles := []any{journals[0]["title"], journals[1]["title"]}
	assert.ElementsMatch(t, []any{"one", "two"}, titles)
}
