package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oaiiae/huma-graphql-example/datastores"
)

func newTestServer(t *testing.T, options *RouterOptions, doohickeys datastores.DoohickeysStore) (*httptest.Server, *bytes.Buffer) {
	t.Helper()
	logs := new(bytes.Buffer)
	logger := slog.New(slog.NewJSONHandler(logs, nil))

	contacts, err := NewContacts(&StoreOptions{}, logger)
	require.NoError(t, err)
	handler, _ := NewRouter(options, "test", "v0", "rev", "now", contacts, doohickeys, logger)

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv, logs
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	client := &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }}
	resp, err := client.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(b)
}

func TestRouterRoutes(t *testing.T) {
	srv, _ := newTestServer(t, &RouterOptions{}, datastores.NewDoohickeysInmem())

	tests := []struct {
		path     string
		status   int
		contains string
	}{
		{"/", http.StatusOK, `"first_name":"Abbe"`},
		{"/data/1", http.StatusOK, `"last_name":"Skellorne"`},
		{"/data/9999", http.StatusNotFound, "id not found"},
		{"/greeting", http.StatusOK, "My Simple App"},
		{"/northeastern", http.StatusFound, ""},
		{"/dl", http.StatusOK, "<svg"},
		{"/graphql", http.StatusOK, "GraphiQL"},
		{"/graphqlReq", http.StatusOK, "contacts"},
		{"/liveness", http.StatusOK, ""},
		{"/readiness", http.StatusOK, ""},
		{"/openapi.json", http.StatusOK, "/newItem"},
		{"/unknown", http.StatusNotFound, ""},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, body := get(t, srv.URL+tt.path)
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.Contains(t, body, tt.contains)
		})
	}

	resp, _ := get(t, srv.URL+"/northeastern")
	assert.Equal(t, "http://www.northeastern.edu/", resp.Header.Get("Location"))
}

func TestRouterEndpointsPrefix(t *testing.T) {
	srv, _ := newTestServer(t, &RouterOptions{EndpointsPrefix: "/api"}, datastores.NewDoohickeysInmem())

	resp, _ := get(t, srv.URL+"/api/data/1")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = get(t, srv.URL+"/data/1")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp, _ = get(t, srv.URL+"/graphqlReq")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRouterNewItemForm(t *testing.T) {
	srv, _ := newTestServer(t, &RouterOptions{}, datastores.NewDoohickeysInmem())

	resp, err := http.PostForm(srv.URL+"/newItem", url.Values{
		"first_name": {"john"},
		"last_name":  {"smith"},
		"email":      {"jsmith@example.com"},
	})
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "data/26", resp.Header.Get("Location"))

	_, body := get(t, srv.URL+"/data/26")
	assert.Contains(t, body, `"first_name":"john"`)

	resp, err = http.PostForm(srv.URL+"/newItem", url.Values{"first_name": {"john"}})
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestRouterGraphQL(t *testing.T) {
	srv, logs := newTestServer(t, &RouterOptions{}, datastores.NewDoohickeysInmem())

	post := func(query string) map[string]any {
		b, err := json.Marshal(map[string]any{"query": query})
		require.NoError(t, err)
		req, err := http.NewRequest(http.MethodPost, srv.URL+"/graphql", bytes.NewReader(b))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Request-Id", "req-42")
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var out map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		return out
	}

	out := post(`mutation { createDoohickey(input: {name: "A", description: "B"}) { id name } }`)
	require.Nil(t, out["errors"])
	out = post(`{ hello doohickeys { name description } }`)
	assert.Equal(t, map[string]any{
		"hello":      "Hello World",
		"doohickeys": []any{map[string]any{"name": "A", "description": "B"}},
	}, out["data"])

	assert.Contains(t, logs.String(), `"msg":"POST /graphql HTTP/1.1"`)
	assert.Contains(t, logs.String(), `"x-request-id":"req-42"`)

	_, metrics := get(t, srv.URL+"/metrics")
	assert.Contains(t, metrics, `http_requests_total{method="POST",path="/graphql",status="200"} 2`)
	assert.Contains(t, metrics, `build_info{goversion="`)
}

func TestRouterMetersOperations(t *testing.T) {
	srv, logs := newTestServer(t, &RouterOptions{}, datastores.NewDoohickeysInmem())

	get(t, srv.URL+"/data/1")
	get(t, srv.URL+"/data/9999")

	_, metrics := get(t, srv.URL+"/metrics")
	assert.Contains(t, metrics, `http_requests_total{method="GET",path="/data/{id}",status="200"} 1`)
	assert.Contains(t, metrics, `http_requests_total{method="GET",path="/data/{id}",status="404"} 1`)
	assert.Contains(t, logs.String(), `"msg":"error occurred"`)
	assert.Contains(t, logs.String(), `"level":"WARN"`)
}

func TestRouterNotReady(t *testing.T) {
	srv, logs := newTestServer(t, &RouterOptions{},
		datastores.DoohickeysUnavailable{Cause: errors.New("connection refused")})

	resp, _ := get(t, srv.URL+"/readiness")
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Contains(t, logs.String(), "connection refused")

	resp, body := get(t, srv.URL+"/liveness")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, body)
}

func TestRecoverMiddleware(t *testing.T) {
	logs := new(bytes.Buffer)
	logger := slog.New(slog.NewTextHandler(logs, nil))

	handler, api := NewRouter(&RouterOptions{}, "test", "v0", "rev", "now",
		datastores.NewContactsInmem(), datastores.NewDoohickeysInmem(), logger)
	group := huma.NewGroup(api)
	group.UseMiddleware(ctxlog{}.loggerMiddleware(logger), ctxlog{}.recoverMiddleware(logger))
	huma.Get(group, "/panic", func(_ context.Context, _ *struct{}) (*struct{}, error) {
		panic("panic argument")
	})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/panic", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, logs.String(), "panic occurred")
	assert.Contains(t, logs.String(), "recovered=\"panic argument\"")
}

func TestOpenAPI(t *testing.T) {
	b, err := OpenAPI(&RouterOptions{EndpointsPrefix: "/api"}, "test", "v0")
	require.NoError(t, err)

	doc := string(b)
	// the document is the whole output, nothing is logged around it
	assert.False(t, strings.HasPrefix(doc, "time="), doc[:min(len(doc), 80)])
	assert.NotContains(t, doc, "contacts loaded")
	assert.Contains(t, doc, "openapi: 3.1")
	assert.Contains(t, doc, "/api/newItem:")
	assert.Contains(t, doc, "/api/data/{id}:")
	assert.Contains(t, doc, "title: test")
}
