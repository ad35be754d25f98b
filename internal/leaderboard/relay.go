package leaderboard

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	defaultRelayTimeout = 8 * time.Second
	maxMessageSize      = 1 << 20
)

// Filter is a relay subscription filter.
type Filter struct {
	IDs     []string `json:"ids,omitempty"`
	Authors []string `json:"authors,omitempty"`
	Kinds   []int    `json:"kinds,omitempty"`
	DTags   []string `json:"#d,omitempty"`
	Limit   int      `json:"limit,omitempty"`
}

// RelayClient speaks the Nostr relay protocol over one websocket per call.
type RelayClient struct {
	URL     string
	Dialer  *websocket.Dialer
	Timeout time.Duration
}

// NewRelayClient returns a client for url with default timeouts.
func NewRelayClient(url string) *RelayClient {
	return &RelayClient{URL: url, Dialer: websocket.DefaultDialer, Timeout: defaultRelayTimeout}
}

func (c *RelayClient) dial(ctx context.Context) (*websocket.Conn, func(), error) {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = defaultRelayTimeout
	}
	deadline := time.Now().Add(timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	dialer := c.Dialer
	if dialer == nil {
		dialer = websocket.DefaultDialer
	}
	conn, _, err := dialer.DialContext(ctx, c.URL, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("leaderboard: dial %s: %w", c.URL, err)
	}
	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(deadline)
	_ = conn.SetWriteDeadline(deadline)

	// Unblock pending reads when the caller gives up.
	stop := context.AfterFunc(ctx, func() { _ = conn.SetReadDeadline(time.Now()) })
	return conn, func() {
		stop()
		_ = conn.Close()
	}, nil
}

// Publish sends ev and waits for the relay's OK.
func (c *RelayClient) Publish(ctx context.Context, ev Event) error {
	conn, closeConn, err := c.dial(ctx)
	if err != nil {
		return err
	}
	defer closeConn()

	if err := conn.WriteJSON([]any{"EVENT", ev}); err != nil {
		return fmt.Errorf("leaderboard: publish %s: %w", c.URL, err)
	}
	for {
		msg, err := readFrame(conn)
		if err != nil {
			return fmt.Errorf("leaderboard: publish %s: %w", c.URL, err)
		}
		if msg.label != "OK" || len(msg.args) < 2 {
			continue
		}
		var id string
		var accepted bool
		if json.Unmarshal(msg.args[0], &id) != nil || id != ev.ID {
			continue
		}
		if err := json.Unmarshal(msg.args[1], &accepted); err != nil {
			return fmt.Errorf("leaderboard: publish %s: malformed OK: %w", c.URL, err)
		}
		if !accepted {
			var reason string
			if len(msg.args) > 2 {
				_ = json.Unmarshal(msg.args[2], &reason)
			}
			return fmt.Errorf("%w by %s: %s", ErrRejected, c.URL, reason)
		}
		return nil
	}
}

// Query subscribes with filters and collects events until the relay signals
// end of stored events.
func (c *RelayClient) Query(ctx context.Context, filters ...Filter) ([]Event, error) {
	conn, closeConn, err := c.dial(ctx)
	if err != nil {
		return nil, err
	}
	defer closeConn()

	sub := uuid.NewString()
	req := []any{"REQ", sub}
	for _, f := range filters {
		req = append(req, f)
	}
	if err := conn.WriteJSON(req); err != nil {
		return nil, fmt.Errorf("leaderboard: query %s: %w", c.URL, err)
	}

	var events []Event
	for {
		msg, err := readFrame(conn)
		if err != nil {
			return events, fmt.Errorf("leaderboard: query %s: %w", c.URL, err)
		}
		if len(msg.args) == 0 {
			continue
		}
		var id string
		if json.Unmarshal(msg.args[0], &id) != nil || id != sub {
			continue
		}
		switch msg.label {
		case "EVENT":
			if len(msg.args) < 2 {
				continue
			}
			var ev Event
			if err := json.Unmarshal(msg.args[1], &ev); err != nil {
				continue
			}
			if ev.ID != ev.ComputeID() {
				continue
			}
			events = append(events, ev)
		case "EOSE":
			_ = conn.WriteJSON([]any{"CLOSE", sub})
			return events, nil
		case "CLOSED":
			return events, fmt.Errorf("leaderboard: query %s: subscription closed", c.URL)
		}
	}
}

type frame struct {
	label string
	args  []json.RawMessage
}

// readFrame reads one relay message. Messages that are not JSON arrays come
// back as an empty frame.
func readFrame(conn *websocket.Conn) (frame, error) {
	_, data, err := conn.ReadMessage()
	if err != nil {
		return frame{}, err
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil || len(raw) == 0 {
		return frame{}, nil
	}
	var label string
	if err := json.Unmarshal(raw[0], &label); err != nil {
		return frame{}, nil
	}
	return frame{label: label, args: raw[1:]}, nil
}
