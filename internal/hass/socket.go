package hass

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/pr8x/hadeck/internal/logging"
)

const (
	// Time allowed to write a message to the server
	writeWait = 10 * time.Second

	// Handshake timeout for the initial websocket dial
	dialTimeout = 10 * time.Second
)

// socketMessage is the envelope of every frame on the Home Assistant
// websocket API.
type socketMessage struct {
	ID      int             `json:"id,omitempty"`
	Type    string          `json:"type"`
	Success *bool           `json:"success,omitempty"`
	Event   json.RawMessage `json:"event,omitempty"`
	Message string          `json:"message,omitempty"`
}

// stateChangedEvent is the payload of a state_changed event.
type stateChangedEvent struct {
	EventType string `json:"event_type"`
	Data      struct {
		EntityID string  `json:"entity_id"`
		NewState *Entity `json:"new_state"`
	} `json:"data"`
}

// Listen connects to the Home Assistant websocket API, authenticates,
// subscribes to state_changed events and invokes onState for every entity
// update until the context is cancelled or the connection drops.
//
// Listen returns when the connection ends; reconnecting with backoff is the
// caller's decision.
func (c *Client) Listen(ctx context.Context, onState func(Entity)) error {
	wsURL, err := c.socketURL()
	if err != nil {
		return err
	}

	dialer := websocket.Dialer{HandshakeTimeout: dialTimeout}
	conn, _, err := dialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return NewNetworkError("websocket dial failed", err)
	}
	defer func() { _ = conn.Close() }()

	logging.LogSocketEvent(c.BaseURL, "connected")

	// Close the connection when the context ends so the read loop unblocks
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-done:
		}
	}()

	if err := c.authenticate(conn); err != nil {
		return err
	}
	logging.LogSocketEvent(c.BaseURL, "authenticated")

	if err := subscribeStateChanged(conn); err != nil {
		return err
	}
	logging.LogSocketEvent(c.BaseURL, "subscribed")

	// Event read loop
	for {
		var msg socketMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			logging.LogSocketEvent(c.BaseURL, "disconnected")
			return NewNetworkError("websocket read failed", err)
		}

		if msg.Type != "event" {
			continue
		}

		entity, ok := decodeStateChanged(msg.Event)
		if !ok {
			continue
		}

		logging.LogStateUpdate(entity.EntityID, entity.State, "websocket")
		onState(entity)
	}
}

// authenticate performs the auth_required/auth/auth_ok handshake.
func (c *Client) authenticate(conn *websocket.Conn) error {
	var hello socketMessage
	if err := conn.ReadJSON(&hello); err != nil {
		return NewNetworkError("websocket handshake read failed", err)
	}
	if hello.Type != "auth_required" {
		return NewParseError(fmt.Sprintf("unexpected handshake message %q", hello.Type), nil)
	}

	auth := map[string]string{
		"type":         "auth",
		"access_token": c.Token,
	}
	if err := writeJSON(conn, auth); err != nil {
		return err
	}

	var reply socketMessage
	if err := conn.ReadJSON(&reply); err != nil {
		return NewNetworkError("websocket auth read failed", err)
	}

	switch reply.Type {
	case "auth_ok":
		return nil
	case "auth_invalid":
		return NewAuthError("websocket authentication rejected")
	default:
		return NewParseError(fmt.Sprintf("unexpected auth reply %q", reply.Type), nil)
	}
}

// subscribeStateChanged subscribes to state_changed events and waits for the
// result acknowledgement.
func subscribeStateChanged(conn *websocket.Conn) error {
	sub := map[string]any{
		"id":         1,
		"type":       "subscribe_events",
		"event_type": "state_changed",
	}
	if err := writeJSON(conn, sub); err != nil {
		return err
	}

	var reply socketMessage
	if err := conn.ReadJSON(&reply); err != nil {
		return NewNetworkError("subscription read failed", err)
	}
	if reply.Type != "result" || reply.Success == nil || !*reply.Success {
		return NewHTTPError(0, "event subscription rejected")
	}
	return nil
}

// decodeStateChanged extracts the updated entity from a raw event payload.
// Events for removed entities (nil new_state) and non-state events are
// skipped.
func decodeStateChanged(raw json.RawMessage) (Entity, bool) {
	var event stateChangedEvent
	if err := json.Unmarshal(raw, &event); err != nil {
		logging.Debug("Ignoring undecodable event", zap.Error(err))
		return Entity{}, false
	}
	if event.EventType != "state_changed" || event.Data.NewState == nil {
		return Entity{}, false
	}
	return *event.Data.NewState, true
}

// socketURL derives the websocket endpoint from the REST base URL.
func (c *Client) socketURL() (string, error) {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return "", NewParseError("invalid base URL", err)
	}

	switch strings.ToLower(u.Scheme) {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	default:
		return "", NewParseError(fmt.Sprintf("unsupported scheme %q", u.Scheme), nil)
	}

	u.Path = strings.TrimRight(u.Path, "/") + "/api/websocket"
	return u.String(), nil
}

func writeJSON(conn *websocket.Conn, v any) error {
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return NewNetworkError("failed to set write deadline", err)
	}
	if err := conn.WriteJSON(v); err != nil {
		return NewNetworkError("websocket write failed", err)
	}
	return nil
}
