package practicum

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"homework-bot/api/internal/homework"
)

func TestStatuses_OK(t *testing.T) {
	var gotAuth, gotFrom string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotFrom = r.URL.Query().Get("from_date")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"homeworks":[{"homework_name":"X","status":"approved"}],"current_date":1000}`))
	}))
	defer srv.Close()

	c := New(srv.URL+"/api/user_api/homework_statuses/", "secret", time.Second)
	resp, err := c.Statuses(context.Background(), 900)
	require.NoError(t, err)

	assert.Equal(t, "OAuth secret", gotAuth)
	assert.Equal(t, "900", gotFrom)

	homeworks, err := homework.CheckResponse(resp)
	require.NoError(t, err)
	require.Len(t, homeworks, 1)

	ts, ok := homework.CurrentDate(resp)
	assert.True(t, ok)
	assert.Equal(t, int64(1000), ts)
}

func TestStatuses_UnexpectedStatusCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := New(srv.URL, "secret", time.Second).Statuses(context.Background(), 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnexpectedStatusCode))

	var sce *StatusCodeError
	require.True(t, errors.As(err, &sce))
	assert.Equal(t, http.StatusInternalServerError, sce.Code)
	assert.Equal(t, "unexpected status code 500", err.Error())
}

func TestStatuses_Transport(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := srv.URL
	srv.Close()

	_, err := New(addr, "secret", time.Second).Statuses(context.Background(), 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTransport))
}

func TestStatuses_Timeout(t *testing.T) {
	done := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-done:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(done)

	_, err := New(srv.URL, "secret", 50*time.Millisecond).Statuses(context.Background(), 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTransport))
}

func TestStatuses_BadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>not json</html>`))
	}))
	defer srv.Close()

	_, err := New(srv.URL, "secret", time.Second).Statuses(context.Background(), 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, homework.ErrMalformedResponse))
}
