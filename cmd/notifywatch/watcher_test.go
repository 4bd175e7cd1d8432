package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeServer(t *testing.T) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["password"] != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"token": "tok"})
	})
	mux.HandleFunc("/api/ws/ticket", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"ticket": "tkt", "expires_in": 60})
	})
	mux.HandleFunc("/api/ws", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("ticket") != "tkt" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"new_follower","payload":{"follower":{"id":2}}}`))
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`not json`))
		_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		_ = conn.Close()
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestWatcher_LoginAndWatch(t *testing.T) {
	srv := fakeServer(t)
	var out bytes.Buffer
	w := &watcher{host: strings.TrimPrefix(srv.URL, "http://"), out: &out}
	ctx := context.Background()

	token, err := w.login(ctx, "a@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "tok", token)

	err = w.watch(ctx, token)
	require.Error(t, err)
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "new_follower")
	assert.Contains(t, lines[0], `{"follower":{"id":2}}`)
	assert.Contains(t, lines[1], "raw not json")
}

func TestWatcher_LoginRejected(t *testing.T) {
	srv := fakeServer(t)
	w := &watcher{host: strings.TrimPrefix(srv.URL, "http://"), out: &bytes.Buffer{}}

	_, err := w.login(context.Background(), "a@example.com", "wrong")
	assert.ErrorContains(t, err, "status 401")
}
