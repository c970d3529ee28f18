package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/parselinks/core"
	"github.com/gaurav-prasanna/parselinks/internal/logging"
)

// fakeBatcher echoes links back, failing those that contain "bad".
type fakeBatcher struct {
	got []string
}

func (f *fakeBatcher) Run(_ context.Context, links []string) []core.LinkResult {
	f.got = links
	out := make([]core.LinkResult, 0, len(links))
	for _, l := range links {
		r := core.LinkResult{Link: l}
		if !strings.Contains(l, "bad") {
			md := "# " + l
			r.Markdown = &md
		}
		out = append(out, r)
	}
	return out
}

func TestServer_ParseLinks(t *testing.T) {
	t.Parallel()

	t.Run("returns markdown and null entries", func(t *testing.T) {
		t.Parallel()
		b := &fakeBatcher{}
		srv := New(Config{}, b, logging.Discard())

		body := `{"links": ["https://a.test/", "https://bad.test/"]}`
		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/parse-links", strings.NewReader(body)))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
		assert.JSONEq(t, `[
			{"markdown": "# https://a.test/", "link": "https://a.test/"},
			{"markdown": null, "link": "https://bad.test/"}
		]`, rec.Body.String())
		assert.Equal(t, []string{"https://a.test/", "https://bad.test/"}, b.got)
	})

	t.Run("missing links yields empty array", func(t *testing.T) {
		t.Parallel()
		srv := New(Config{}, &fakeBatcher{}, logging.Discard())

		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/parse-links", strings.NewReader(`{}`)))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `[]`, rec.Body.String())
	})

	t.Run("malformed body is a bad request", func(t *testing.T) {
		t.Parallel()
		srv := New(Config{}, &fakeBatcher{}, logging.Discard())

		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/parse-links", strings.NewReader(`{"links":`)))

		require.Equal(t, http.StatusBadRequest, rec.Code)
		var resp errorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Contains(t, resp.Error, "invalid request body")
	})

	t.Run("wrong method is rejected", func(t *testing.T) {
		t.Parallel()
		srv := New(Config{}, &fakeBatcher{}, logging.Discard())

		rec := httptest.NewRecorder()
		srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/parse-links", nil))
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func TestServer_Health(t *testing.T) {
	t.Parallel()
	srv := New(Config{}, &fakeBatcher{}, logging.Discard())

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestServer_RateLimit(t *testing.T) {
	t.Parallel()
	srv := New(Config{RateLimit: 0.001, RateBurst: 1}, &fakeBatcher{}, logging.Discard())

	first := httptest.NewRecorder()
	srv.Handler().ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	srv.Handler().ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}

func TestServer_RequestLogging(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	log, err := logging.New(logging.Options{Format: "json", Output: buf})
	require.NoError(t, err)
	srv := New(Config{}, &fakeBatcher{}, log)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "/healthz", entry["path"])
	assert.Equal(t, float64(http.StatusOK), entry["status"])
	assert.Equal(t, rec.Header().Get(RequestIDHeader), entry["request_id"])
}

func TestWriteJSON_LogsEncodeFailure(t *testing.T) {
	t.Parallel()

	log, hook := test.NewNullLogger()
	rec := httptest.NewRecorder()
	writeJSON(log, rec, http.StatusOK, map[string]any{"bad": make(chan int)})

	assert.Equal(t, http.StatusOK, rec.Code)
	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.WarnLevel, entry.Level)
	assert.Equal(t, "writing response failed", entry.Message)
	assert.Equal(t, http.StatusOK, entry.Data["status"])
}
