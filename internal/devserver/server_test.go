package devserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diogo/relaychat/internal/logging"
)

func post(t *testing.T, h http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var out map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out), "body: %s", rr.Body.String())
	return out
}

func TestChat_Contract(t *testing.T) {
	s := NewServer(":0")

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantKey    string
		wantValue  string
	}{
		{"echo", `{"message":"hello"}`, http.StatusOK, "response", "You said: hello"},
		{"missing message", `{}`, http.StatusBadRequest, "error", ErrNoMessage},
		{"blank message", `{"message":"   "}`, http.StatusBadRequest, "error", ErrNoMessage},
		{"invalid json", `{"message":`, http.StatusBadRequest, "error", ErrInvalidBody},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := post(t, s.Router(), tt.body)
			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
			assert.Equal(t, tt.wantValue, decode(t, rr)[tt.wantKey])
		})
	}
}

func TestChat_InitializingUntilReady(t *testing.T) {
	s := NewServer(":0", WithWarmup(time.Hour))
	require.False(t, s.Ready())

	rr := post(t, s.Router(), `{"message":"hello"}`)
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Equal(t, ErrInitializing, decode(t, rr)["error"])

	s.SetReady(true)
	rr = post(t, s.Router(), `{"message":"hello"}`)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestChat_ReplyError(t *testing.T) {
	s := NewServer(":0", WithReplyFunc(func(ctx context.Context, message string) (string, error) {
		return "", errors.New("model crashed")
	}))

	rr := post(t, s.Router(), `{"message":"hello"}`)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "Error during AI processing: model crashed", decode(t, rr)["error"])
}

func TestHealth(t *testing.T) {
	s := NewServer(":0", WithWarmup(time.Hour))

	get := func() map[string]string {
		rr := httptest.NewRecorder()
		s.Router().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))
		require.Equal(t, http.StatusOK, rr.Code)
		return decode(t, rr)
	}

	assert.Equal(t, "initializing", get()["status"])
	s.SetReady(true)
	assert.Equal(t, "ok", get()["status"])
}

func TestCORSPreflight(t *testing.T) {
	s := NewServer(":0", WithAllowedOrigins("http://localhost:8080"))

	req := httptest.NewRequest(http.MethodOptions, "/chat", nil)
	req.Header.Set("Origin", "http://localhost:8080")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr := httptest.NewRecorder()
	s.Router().ServeHTTP(rr, req)

	assert.Equal(t, "http://localhost:8080", rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(logging.Config{Level: logging.InfoLevel, Format: "json", Output: &buf})
	s := NewServer(":0", WithLogger(logger))

	post(t, s.Router(), `{"message":"hello"}`)

	out := buf.String()
	assert.Contains(t, out, `"path":"/chat"`)
	assert.Contains(t, out, `"status":"200"`)
}

func TestRun_StopsOnCancel(t *testing.T) {
	s := NewServer("127.0.0.1:0")
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
