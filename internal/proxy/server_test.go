package proxy

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type seenRequest struct {
	path  string
	query map[string]string
}

func upstream(t *testing.T) (*httptest.Server, func() []seenRequest) {
	t.Helper()
	var mu sync.Mutex
	var seen []seenRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := map[string]string{}
		for k := range r.URL.Query() {
			q[k] = r.URL.Query().Get(k)
		}
		mu.Lock()
		seen = append(seen, seenRequest{path: r.URL.Path, query: q})
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":1,"name":"Basics"}]`))
	}))
	t.Cleanup(srv.Close)
	return srv, func() []seenRequest {
		mu.Lock()
		defer mu.Unlock()
		return append([]seenRequest(nil), seen...)
	}
}

func newProxy(t *testing.T, target string) *httptest.Server {
	t.Helper()
	s, err := New(Config{Upstream: target})
	require.NoError(t, err)
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func TestHealthCheck(t *testing.T) {
	up, _ := upstream(t)
	px := newProxy(t, up.URL+"/api/v1")

	resp, body := get(t, px.URL+"/healthz")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var payload map[string]string
	require.NoError(t, json.Unmarshal(body, &payload))
	assert.Equal(t, "ok", payload["status"])
}

func TestRewritesAPIPrefixToVersionedRoot(t *testing.T) {
	up, seen := upstream(t)
	px := newProxy(t, up.URL+"/api/v1/")

	resp, body := get(t, px.URL+"/api/categories")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `[{"id":1,"name":"Basics"}]`, string(body))

	get(t, px.URL+"/api/topics?category_id=3")
	get(t, px.URL+"/api/sections/topic/9")

	reqs := seen()
	require.Len(t, reqs, 3)
	assert.Equal(t, "/api/v1/categories", reqs[0].path)
	assert.Equal(t, "/api/v1/topics", reqs[1].path)
	assert.Equal(t, "3", reqs[1].query["category_id"])
	assert.Equal(t, "/api/v1/sections/topic/9", reqs[2].path)
}

func TestSearchRequiresQuery(t *testing.T) {
	up, seen := upstream(t)
	px := newProxy(t, up.URL+"/api/v1")

	for _, path := range []string{"/api/search", "/api/search/?q=", "/api/search/?q=%20%20"} {
		resp, body := get(t, px.URL+path)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, path)
		assert.JSONEq(t, `{"error":"Query parameter is required"}`, string(body))
	}
	assert.Empty(t, seen())
}

func TestSearchDefaultsLimit(t *testing.T) {
	up, seen := upstream(t)
	px := newProxy(t, up.URL+"/api/v1")

	get(t, px.URL+"/api/search?q=oop")
	get(t, px.URL+"/api/search/?q=class&limit=5")

	reqs := seen()
	require.Len(t, reqs, 2)
	assert.Equal(t, "/api/v1/search/", reqs[0].path)
	assert.Equal(t, "oop", reqs[0].query["q"])
	assert.Equal(t, "20", reqs[0].query["limit"])
	assert.Equal(t, "5", reqs[1].query["limit"])
}

func TestUpstreamDownReturnsBadGateway(t *testing.T) {
	up := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	target := up.URL + "/api/v1"
	up.Close()
	px := newProxy(t, target)

	resp, body := get(t, px.URL+"/api/categories")
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.Contains(t, string(body), "upstream unavailable")
}

func TestCORSHeaders(t *testing.T) {
	s, err := New(Config{Upstream: "http://localhost:8000/api/v1"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodOptions, "/healthz", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSAllowAll(t *testing.T) {
	s, err := New(Config{Upstream: "http://localhost:8000/api/v1", AllowAll: true})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodOptions, "/healthz", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)

	assert.NotEmpty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestNewRejectsInvalidUpstream(t *testing.T) {
	for _, target := range []string{"", "localhost:8000", "ftp://x/api"} {
		_, err := New(Config{Upstream: target})
		assert.Error(t, err, target)
	}
}

func TestShutdownBeforeStartStopsServer(t *testing.T) {
	s, err := New(Config{Listen: "127.0.0.1:0", Upstream: "http://localhost:8000/api/v1"})
	require.NoError(t, err)

	require.NoError(t, s.Shutdown(context.Background()))
	assert.ErrorIs(t, s.Start(), http.ErrServerClosed)
}

func TestShutdownStopsRunningServer(t *testing.T) {
	s, err := New(Config{Listen: "127.0.0.1:0", Upstream: "http://localhost:8000/api/v1"})
	require.NoError(t, err)

	errCh := make(chan error, 1)
	go func() { errCh <- s.Start() }()
	time.Sleep(20 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Shutdown(ctx))

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, http.ErrServerClosed)
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop")
	}
}
