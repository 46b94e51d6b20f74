// Copyright © 2026 Groups.io, Inc.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/websocket"

	"github.com/lawia/lawia-web/internal/activity"
	"github.com/lawia/lawia-web/internal/api/handlers"
)

func cmdActivity(args []string) error {
	limit := 50
	n, args := flagValue(args, "-n")
	if n != "" {
		v, err := strconv.Atoi(n)
		if err != nil || v <= 0 {
			return fmt.Errorf("invalid -n: %s", n)
		}
		limit = v
	}
	pattern, args := flagValue(args, "-type")
	base := uiURL
	if v, _ := flagValue(args, "-ui"); v != "" {
		base = strings.TrimSuffix(v, "/")
	}

	events, err := fetchActivity(context.Background(), base, pattern, limit)
	if err != nil {
		return err
	}
	if jsonOutput {
		printJSON(events)
		return nil
	}

	fmt.Fprintf(stdout, "%-20s %-20s %-8s %s\n", "TIME", "TYPE", "ID", "MESSAGE")
	fmt.Fprintln(stdout, strings.Repeat("-", 100))
	for _, ev := range events {
		printEvent(ev)
	}
	return nil
}

// fetchActivity reads the event history of a running web server.
func fetchActivity(ctx context.Context, base, pattern string, limit int) ([]activity.Event, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	if pattern != "" {
		q.Set("type", pattern)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"/api/activity?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	var env struct {
		Data  []activity.Event    `json:"data"`
		Error *handlers.ErrorInfo `json:"error"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("unexpected response (%d): %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if env.Error != nil {
		return nil, fmt.Errorf("%s: %s", env.Error.Code, env.Error.Message)
	}
	return env.Data, nil
}

func cmdWatch(args []string) error {
	pattern, args := flagValue(args, "-type")
	base := uiURL
	if v, _ := flagValue(args, "-ui"); v != "" {
		base = strings.TrimSuffix(v, "/")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return watchActivity(ctx, base, pattern, printEvent)
}

// watchActivity streams events from the web server until ctx is done or
// the connection drops.
func watchActivity(ctx context.Context, base, pattern string, fn func(activity.Event)) error {
	u, err := url.Parse(base)
	if err != nil {
		return fmt.Errorf("invalid UI URL: %w", err)
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = strings.TrimSuffix(u.Path, "/") + "/ws/activity"
	if pattern != "" {
		u.RawQuery = url.Values{"pattern": {pattern}}.Encode()
	}

	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return fmt.Errorf("connect %s: %w", u.String(), err)
	}
	defer conn.Close()

	go func() {
		<-ctx.Done()
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second))
		conn.Close()
	}()

	for {
		var ev activity.Event
		if err := conn.ReadJSON(&ev); err != nil {
			if ctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return err
		}
		fn(ev)
	}
}

func printEvent(ev activity.Event) {
	if jsonOutput {
		json.NewEncoder(stdout).Encode(ev)
		return
	}
	id := ""
	if ev.EntityID != 0 {
		id = strconv.Itoa(ev.EntityID)
	}
	fmt.Fprintf(stdout, "%-20s %-20s %-8s %s\n",
		ev.Timestamp.Local().Format("2006-01-02 15:04:05"),
		ev.Type,
		id,
		ev.Message,
	)
}
