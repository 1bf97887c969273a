package web

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/stockroom/internal/db"
	"github.com/vbonduro/stockroom/internal/logging"
	"github.com/vbonduro/stockroom/internal/service"
	"github.com/vbonduro/stockroom/internal/store"
)

func newHandlerTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	database, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)

	svc := service.NewItemService(store.NewItemStore(database), logging.Discard())
	srv := httptest.NewServer(NewServer(svc, logging.Discard()))
	t.Cleanup(func() {
		srv.Close()
		_ = database.Close()
	})
	return srv
}

func doJSON(t *testing.T, method, url, body string) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func TestHandleCreateAndGetItem(t *testing.T) {
	srv := newHandlerTestServer(t)

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/items/", `{"name": "Drill", "group": "Primary", "price": "12.5"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))

	var created map[string]any
	require.NoError(t, json.Unmarshal(body, &created))
	assert.Equal(t, "12.50", created["price"])
	assert.Equal(t, "medium", created["priority"])
	assert.Equal(t, []any{}, created["tag_list"])

	resp, body = doJSON(t, http.MethodGet, srv.URL+"/api/items/1/", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got map[string]any
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, "Drill", got["name"])
}

func TestHandleListItems(t *testing.T) {
	srv := newHandlerTestServer(t)

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/api/items/", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[]`, string(body))

	doJSON(t, http.MethodPost, srv.URL+"/api/items/", `{"name": "A", "group": "Primary"}`)
	doJSON(t, http.MethodPost, srv.URL+"/api/items/", `{"name": "B", "group": "Secondary"}`)

	_, body = doJSON(t, http.MethodGet, srv.URL+"/api/items/", "")
	var items []map[string]any
	require.NoError(t, json.Unmarshal(body, &items))
	require.Len(t, items, 2)
	assert.Equal(t, "B", items[0]["name"])
}

func TestHandleCreateValidationError(t *testing.T) {
	srv := newHandlerTestServer(t)

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/items/", `{"name": "", "group": "Primary"}`)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.JSONEq(t, `{"name": ["This field may not be blank."]}`, string(body))
}

func TestHandleMalformedBody(t *testing.T) {
	srv := newHandlerTestServer(t)

	resp, body := doJSON(t, http.MethodPost, srv.URL+"/api/items/", `{"name": `)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body), "JSON parse error")

	resp, body = doJSON(t, http.MethodPost, srv.URL+"/api/items/", `["Drill"]`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, string(body), "non_field_errors")
}

func TestHandleNotFound(t *testing.T) {
	srv := newHandlerTestServer(t)

	for _, tc := range []struct{ method, path, body string }{
		{http.MethodGet, "/api/items/999/", ""},
		{http.MethodPatch, "/api/items/999/", `{"quantity": 2}`},
		{http.MethodDelete, "/api/items/999/", ""},
		{http.MethodGet, "/api/items/abc/", ""},
		{http.MethodGet, "/api/elsewhere/", ""},
	} {
		resp, body := doJSON(t, tc.method, srv.URL+tc.path, tc.body)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, "%s %s", tc.method, tc.path)
		assert.JSONEq(t, `{"detail": "Not found."}`, string(body), "%s %s", tc.method, tc.path)
	}
}

func TestHandleUpdateAndDelete(t *testing.T) {
	srv := newHandlerTestServer(t)
	doJSON(t, http.MethodPost, srv.URL+"/api/items/", `{"name": "Drill", "group": "Primary", "price": "3"}`)

	resp, body := doJSON(t, http.MethodPatch, srv.URL+"/api/items/1/", `{"quantity": 4, "price": null}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var updated map[string]any
	require.NoError(t, json.Unmarshal(body, &updated))
	assert.InDelta(t, 4, updated["quantity"], 0)
	assert.Nil(t, updated["price"])

	resp, _ = doJSON(t, http.MethodDelete, srv.URL+"/api/items/1/", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestHandleFilterRoutes(t *testing.T) {
	srv := newHandlerTestServer(t)
	doJSON(t, http.MethodPost, srv.URL+"/api/items/", `{"name": "A", "group": "Primary", "priority": "urgent"}`)
	doJSON(t, http.MethodPost, srv.URL+"/api/items/", `{"name": "B", "group": "Primary", "status": "archived"}`)

	count := func(path string) int {
		resp, body := doJSON(t, http.MethodGet, srv.URL+path, "")
		require.Equal(t, http.StatusOK, resp.StatusCode, path)
		var items []map[string]any
		require.NoError(t, json.Unmarshal(body, &items))
		return len(items)
	}

	assert.Equal(t, 1, count("/api/items/urgent/"))
	assert.Equal(t, 1, count("/api/items/active/"))
	assert.Equal(t, 1, count("/api/items/status/archived/"))
	assert.Equal(t, 1, count("/api/items/priority/urgent/"))
	assert.Equal(t, 0, count("/api/items/priority/low/"))

	resp, _ := doJSON(t, http.MethodGet, srv.URL+"/api/items/status/bogus/", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandleConstants(t *testing.T) {
	srv := newHandlerTestServer(t)

	resp, body := doJSON(t, http.MethodGet, srv.URL+"/api/items/constants/", "")

	require.Equal(t, http.StatusOK, resp.StatusCode)
	var c service.Constants
	require.NoError(t, json.Unmarshal(body, &c))
	assert.Len(t, c.Groups, 2)
	assert.Equal(t, "blue", c.Colors["group"]["Primary"])
}

func TestHandleMethodNotAllowed(t *testing.T) {
	srv := newHandlerTestServer(t)

	resp, _ := doJSON(t, http.MethodPut, srv.URL+"/api/items/1/", `{}`)

	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}
