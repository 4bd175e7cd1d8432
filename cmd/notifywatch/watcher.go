package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/gorilla/websocket"
)

// event mirrors the server's notification envelope.
type event struct {
	Type    string                 `json:"type"`
	Payload map[string]interface{} `json:"payload"`
}

type watcher struct {
	host   string
	out    io.Writer
	client *http.Client
}

func (w *watcher) httpClient() *http.Client {
	if w.client == nil {
		w.client = &http.Client{Timeout: 10 * time.Second}
	}
	return w.client
}

func (w *watcher) post(ctx context.Context, path, token string, body interface{}, into interface{}) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, "http://"+w.host+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := w.httpClient().Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s returned status %d", path, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(into)
}

func (w *watcher) login(ctx context.Context, email, password string) (string, error) {
	var result struct {
		Token string `json:"token"`
	}
	payload := map[string]string{"email": email, "password": password}
	if err := w.post(ctx, "/api/auth/login", "", payload, &result); err != nil {
		return "", err
	}
	return result.Token, nil
}

// ticket exchanges the bearer token for a single-use socket ticket.
func (w *watcher) ticket(ctx context.Context, token string) (string, error) {
	var result struct {
		Ticket string `json:"ticket"`
	}
	if err := w.post(ctx, "/api/ws/ticket", token, nil, &result); err != nil {
		return "", err
	}
	return result.Ticket, nil
}

// watch opens one socket and prints events until it closes or ctx ends.
func (w *watcher) watch(ctx context.Context, token string) error {
	ticket, err := w.ticket(ctx, token)
	if err != nil {
		return fmt.Errorf("ticket issuance failed: %w", err)
	}

	u := url.URL{Scheme: "ws", Host: w.host, Path: "/api/ws", RawQuery: "ticket=" + url.QueryEscape(ticket)}
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if resp != nil && resp.Body != nil {
		defer func() { _ = resp.Body.Close() }()
	}
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-done:
			return
		case <-ctx.Done():
		}
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
		_ = conn.Close()
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		w.print(raw)
	}
}

func (w *watcher) print(raw []byte) {
	var ev event
	if err := json.Unmarshal(raw, &ev); err != nil || ev.Type == "" {
		_, _ = fmt.Fprintf(w.out, "%s raw %s\n", time.Now().Format(time.TimeOnly), raw)
		return
	}
	payload, _ := json.Marshal(ev.Payload)
	_, _ = fmt.Fprintf(w.out, "%s %-16s %s\n", time.Now().Format(time.TimeOnly), ev.Type, payload)
}
