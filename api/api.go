// Package api is the HTTP collaborator client. It decorates every
// request with the session's bearer token and funnels auth failures into
// the session store and error messages into the toast notifier, so call
// sites only see a rejected error, never an unhandled crash.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/openmingle/mingle-go/model"
	"github.com/openmingle/mingle-go/store"
	"github.com/openmingle/mingle-go/toast"
)

const fallbackErrorMessage = "An unexpected error occurred"

// Client is a thin JSON client over the REST API.
type Client struct {
	base     string
	http     *http.Client
	session  *store.Session
	notifier *toast.Notifier
	log      *zap.Logger
}

// New creates a client for baseURL (no trailing slash).
func New(baseURL string, session *store.Session, notifier *toast.Notifier, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		base:     baseURL,
		http:     &http.Client{Timeout: 15 * time.Second},
		session:  session,
		notifier: notifier,
		log:      logger,
	}
}

type errorBody struct {
	Message string `json:"message"`
}

// do runs one JSON request/response cycle. A 400 is a hard auth failure
// and clears the whole session; a 406 is a soft one and only drops the
// verification flag.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rd io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("api: encode request: %w", err)
		}
		rd = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, rd)
	if err != nil {
		return fmt.Errorf("api: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if tok := c.session.Token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		c.notifier.Error(fallbackErrorMessage)
		return fmt.Errorf("api: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("api: decode response: %w", err)
		}
		return nil
	}

	switch resp.StatusCode {
	case http.StatusBadRequest:
		c.session.ClearAuth()
	case http.StatusNotAcceptable:
		c.session.Invalidate()
	}

	msg := fallbackErrorMessage
	var eb errorBody
	if derr := json.NewDecoder(resp.Body).Decode(&eb); derr == nil && eb.Message != "" {
		msg = eb.Message
	}
	c.notifier.Error(msg)
	c.log.Warn("request failed",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode))
	return fmt.Errorf("api: %s %s: status %d: %s", method, path, resp.StatusCode, msg)
}

// OpenChat asks the server for (creating if needed) the private room
// with userID.
func (c *Client) OpenChat(ctx context.Context, userID int64) (model.RoomInfo, error) {
	var room model.RoomInfo
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/rooms/open/%d", userID), nil, &room)
	return room, err
}

// RoomMessages pages backwards through roomID's history. Pass beforeID 0
// for the newest page. An empty page means history is exhausted; callers
// flip the directory's fetch-all flag on that.
func (c *Client) RoomMessages(ctx context.Context, roomID, beforeID int64, limit int) ([]model.MessageInfo, error) {
	path := fmt.Sprintf("/rooms/%d/messages?limit=%d", roomID, limit)
	if beforeID > 0 {
		path += fmt.Sprintf("&before=%d", beforeID)
	}
	var msgs []model.MessageInfo
	err := c.do(ctx, http.MethodGet, path, nil, &msgs)
	return msgs, err
}

// AcceptFriendRequest accepts the pending request with id.
func (c *Client) AcceptFriendRequest(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/friends/requests/%d/accept", id), nil, nil)
}

// DeclineFriendRequest declines the pending request with id.
func (c *Client) DeclineFriendRequest(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/friends/requests/%d/decline", id), nil, nil)
}
