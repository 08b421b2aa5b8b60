package server

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"songframe/internal/frame"
	"songframe/internal/gateway/handler"
	"songframe/internal/gateway/middleware"
)

func newMux(t *testing.T) http.Handler {
	t.Helper()
	deps := &handler.Deps{
		Verifier:  frame.InsecureVerifier{},
		Codec:     frame.NewStateCodec(""),
		Images:    handler.Images{NothingLiked: "https://img.test/n.png", Unavailable: "https://img.test/u.png"},
		PublicURL: "http://frames.test",
		Log:       zap.NewNop(),
	}
	limit, err := middleware.RateLimit(0.001, 1, 8)
	require.NoError(t, err)
	return NewMux(handler.NewSongsHandler(deps, nil), handler.NewCounterHandler(deps), limit, zap.NewNop())
}

func TestRoutes(t *testing.T) {
	mux := newMux(t)
	cases := []struct {
		method, path string
		status       int
	}{
		{http.MethodGet, "/", http.StatusOK},
		{http.MethodGet, "/third", http.StatusOK},
		{http.MethodGet, "/healthz", http.StatusOK},
		{http.MethodGet, "/nope", http.StatusNotFound},
		{http.MethodPut, "/", http.StatusMethodNotAllowed},
		{http.MethodDelete, "/third", http.StatusMethodNotAllowed},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))
		assert.Equal(t, tc.status, rec.Code, "%s %s", tc.method, tc.path)
		assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))
	}
}

func TestRoutesRateLimitPosts(t *testing.T) {
	mux := newMux(t)
	post := func() int {
		req := httptest.NewRequest(http.MethodPost, "/third", strings.NewReader(""))
		req.RemoteAddr = "203.0.113.10:5000"
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		return rec.Code
	}
	assert.Equal(t, http.StatusOK, post())
	assert.Equal(t, http.StatusTooManyRequests, post())
}

func TestServerServesAndShutsDown(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	srv := New(ln.Addr().String(), newMux(t), zap.NewNop())

	done := make(chan error, 1)
	go func() { done <- srv.Serve(ln) }()

	client := &http.Client{Transport: &http.Transport{DisableKeepAlives: true}}
	resp, err := client.Get("http://" + ln.Addr().String() + "/healthz")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"ok":true}`, string(body))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, srv.Shutdown(ctx))
	require.NoError(t, <-done)
}
