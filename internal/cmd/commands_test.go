package cmd

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravitrone/oophub/internal/config"
)

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

var testTopics = []map[string]any{
	{"id": 10, "category_id": 1, "title": "Encapsulation", "tags": []map[string]any{
		{"id": 1, "name": "Core", "slug": "core"},
	}},
	{"id": 11, "category_id": 1, "title": "Inheritance", "tags": []map[string]any{
		{"id": 1, "name": "Core", "slug": "core"},
		{"id": 2, "name": "Advanced", "slug": "advanced"},
	}},
	{"id": 20, "category_id": 2, "title": "Observer Pattern"},
}

func catalogServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/categories", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, []map[string]any{
			{"id": 1, "name": "Basics", "description": "Start here"},
			{"id": 2, "name": "Patterns"},
		})
	})
	mux.HandleFunc("/api/v1/topics", func(w http.ResponseWriter, r *http.Request) {
		category := r.URL.Query().Get("category_id")
		out := []map[string]any{}
		for _, topic := range testTopics {
			if category == "" || category == jsonID(topic["category_id"]) {
				out = append(out, topic)
			}
		}
		writeJSON(w, out)
	})
	mux.HandleFunc("/api/v1/topics/10", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, map[string]any{
			"id": 10, "category_id": 1, "title": "Encapsulation",
			"short_definition": "Bundling data with the methods that use it.",
			"sections": []map[string]any{
				{"id": 2, "topic_id": 10, "order_index": 2, "heading": "Example", "code_snippet": "class A {}", "language": "java"},
				{"id": 1, "topic_id": 10, "order_index": 1, "heading": "Overview", "content": "Hide the state."},
			},
		})
	})
	mux.HandleFunc("/api/v1/topics/404", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		writeJSON(w, map[string]any{"detail": "Topic not found"})
	})
	mux.HandleFunc("/api/v1/related-topics/10", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, []map[string]any{{"id": 11, "category_id": 1, "title": "Inheritance"}})
	})
	mux.HandleFunc("/api/v1/search/", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "observer", r.URL.Query().Get("q"))
		writeJSON(w, map[string]any{
			"topics":     []map[string]any{{"id": 20, "category_id": 2, "title": "Observer Pattern", "category_name": "Patterns", "score": 0.9}},
			"sections":   []map[string]any{},
			"categories": []map[string]any{},
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func jsonID(v any) string {
	b, _ := json.Marshal(v)
	return string(b)
}

func isolateEnv(t *testing.T, apiURL string) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv(config.LegacyAPIURLEnv, "")
	t.Setenv("OOPHUB_API_URL", apiURL)
	t.Setenv("OOPHUB_LOG_LEVEL", "error")
	t.Chdir(dir)
	return dir
}

func run(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCategoriesCmdListsCategories(t *testing.T) {
	srv := catalogServer(t)
	isolateEnv(t, srv.URL)

	out, err := run(t, CategoriesCmd())
	require.NoError(t, err)
	assert.Contains(t, out, "1  Basics - Start here")
	assert.Contains(t, out, "2  Patterns")
}

func TestCategoriesCmdUnreachableServer(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	isolateEnv(t, url)

	_, err := run(t, CategoriesCmd())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list categories")
}

func TestTopicsCmdByCategory(t *testing.T) {
	srv := catalogServer(t)
	isolateEnv(t, srv.URL)

	out, err := run(t, TopicsCmd(), "--category", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Observer Pattern")
	assert.NotContains(t, out, "Encapsulation")
}

func TestTopicsCmdAllTopicsWithTagFilter(t *testing.T) {
	srv := catalogServer(t)
	isolateEnv(t, srv.URL)

	out, err := run(t, TopicsCmd())
	require.NoError(t, err)
	assert.Contains(t, out, "Encapsulation  [Core]")
	assert.Contains(t, out, "Observer Pattern")

	out, err = run(t, TopicsCmd(), "--tag", "core", "--tag", "Advanced")
	require.NoError(t, err)
	assert.Contains(t, out, "Inheritance")
	assert.NotContains(t, out, "Encapsulation")
	assert.NotContains(t, out, "Observer")
}

func TestTopicsCmdUnknownTag(t *testing.T) {
	srv := catalogServer(t)
	isolateEnv(t, srv.URL)

	_, err := run(t, TopicsCmd(), "--tag", "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown tag "nope"`)
}

func TestTopicCmdPrintsSectionsInOrder(t *testing.T) {
	srv := catalogServer(t)
	isolateEnv(t, srv.URL)

	out, err := run(t, TopicCmd(), "10", "--related")
	require.NoError(t, err)
	assert.Contains(t, out, "Bundling data")
	overview := strings.Index(out, "## Overview")
	example := strings.Index(out, "## Example")
	require.GreaterOrEqual(t, overview, 0)
	require.GreaterOrEqual(t, example, 0)
	assert.Less(t, overview, example)
	assert.Contains(t, out, "```java\nclass A {}\n```")
	assert.Contains(t, out, "related:\n  11  Inheritance")
}

func TestTopicCmdNotFound(t *testing.T) {
	srv := catalogServer(t)
	isolateEnv(t, srv.URL)

	_, err := run(t, TopicCmd(), "404")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "get topic 404")
}

func TestTopicCmdRequiresID(t *testing.T) {
	_, err := run(t, TopicCmd())
	assert.Error(t, err)
}

func TestSearchCmdRemote(t *testing.T) {
	srv := catalogServer(t)
	isolateEnv(t, srv.URL)

	out, err := run(t, SearchCmd(), "observer")
	require.NoError(t, err)
	assert.Contains(t, out, "Topics (1)")
	assert.Contains(t, out, "20  Observer Pattern  (Patterns)")
}

func TestSearchCmdLocal(t *testing.T) {
	srv := catalogServer(t)
	isolateEnv(t, srv.URL)

	out, err := run(t, SearchCmd(), "--local", "inherit")
	require.NoError(t, err)
	assert.Contains(t, out, "Inheritance")
	assert.NotContains(t, out, "Observer")
}

func TestSearchCmdNoResults(t *testing.T) {
	srv := catalogServer(t)
	isolateEnv(t, srv.URL)

	out, err := run(t, SearchCmd(), "--local", "zzzzqqq")
	require.NoError(t, err)
	assert.Contains(t, out, "no results")
}

func TestInvalidConfigFailsBeforeRequest(t *testing.T) {
	isolateEnv(t, "ftp://example.com")

	_, err := run(t, CategoriesCmd())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestProxyCmdRejectsInvalidConfig(t *testing.T) {
	isolateEnv(t, "not-a-url")

	_, err := run(t, ProxyCmd())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestConfigPathAndShow(t *testing.T) {
	dir := isolateEnv(t, "http://localhost:8000")

	out, err := run(t, ConfigCmd(), "path")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, ".oophub", "config.yaml"), strings.TrimSpace(out))

	out, err = run(t, ConfigCmd(), "show")
	require.NoError(t, err)
	assert.Contains(t, out, "api_url: http://localhost:8000")
	assert.Contains(t, out, "search_mode: remote")
}

func TestRunInteractiveInitSavesConfig(t *testing.T) {
	dir := isolateEnv(t, "")
	require.NoError(t, os.Unsetenv("OOPHUB_API_URL"))

	var out bytes.Buffer
	err := RunInteractiveInit(strings.NewReader("http://localhost:9000\ny\n"), &out)
	require.NoError(t, err)
	assert.Contains(t, out.String(), "using http://localhost:9000/api/v1")

	cfg, err := config.Load(filepath.Join(dir, ".oophub", "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9000", cfg.APIURL)
	assert.True(t, cfg.VimKeys)
}

func TestRunInteractiveInitRejectsBadURL(t *testing.T) {
	isolateEnv(t, "")
	require.NoError(t, os.Unsetenv("OOPHUB_API_URL"))

	err := RunInteractiveInit(strings.NewReader("localhost\n\n"), &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}
