package web_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/ardanlabs/jackcoin/foundation/web"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandle(t *testing.T) {
	shutdown := make(chan os.Signal, 1)

	var order []string
	mw := func(name string) web.Middleware {
		return func(handler web.Handler) web.Handler {
			return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
				order = append(order, name)
				return handler(ctx, w, r)
			}
		}
	}

	app := web.NewApp(shutdown, mw("app"))

	h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		v, err := web.GetValues(ctx)
		if err != nil {
			return err
		}

		resp := struct {
			Hash    string `json:"hash"`
			TraceID string `json:"trace_id"`
		}{
			Hash:    web.Param(r, "hash"),
			TraceID: v.TraceID,
		}

		return web.Respond(ctx, w, resp, http.StatusOK)
	}
	app.Handle(http.MethodGet, "v1", "/blocks/hash/:hash", h, mw("route"))

	r := httptest.NewRequest(http.MethodGet, "/v1/blocks/hash/0xabc", nil)
	w := httptest.NewRecorder()
	app.ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), `"hash":"0xabc"`)
	assert.Equal(t, []string{"app", "route"}, order)
	assert.Empty(t, shutdown)
}

func TestHandleShutdown(t *testing.T) {
	shutdown := make(chan os.Signal, 1)
	app := web.NewApp(shutdown)

	h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		return web.NewShutdownError("integrity issue")
	}
	app.Handle(http.MethodGet, "", "/fail", h)

	app.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/fail", nil))

	assert.Len(t, shutdown, 1)
	assert.True(t, web.IsShutdown(web.NewShutdownError("x")))
	assert.False(t, web.IsShutdown(errors.New("x")))
}

func TestHandleErrorKeepsRunning(t *testing.T) {
	shutdown := make(chan os.Signal, 1)
	app := web.NewApp(shutdown)

	h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		return errors.New("write: broken pipe")
	}
	app.Handle(http.MethodGet, "", "/gone", h)

	app.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/gone", nil))

	assert.Empty(t, shutdown)
}

func TestDecode(t *testing.T) {
	var v struct {
		Value uint64 `json:"value"`
	}

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"value":10}`))
	require.NoError(t, web.Decode(r, &v))
	assert.Equal(t, uint64(10), v.Value)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"value":10,"tip":1}`))
	assert.Error(t, web.Decode(r, &v), "unknown fields are rejected")
}
