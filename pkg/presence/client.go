// Package presence consumes the backend's online-user counter. It is purely
// cosmetic: failures here never touch the results pipeline.
package presence

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/gorilla/websocket"
)

// Stats is the periodic frame the backend pushes to every connected client.
type Stats struct {
	NumUsers int `json:"numUsers"`
}

// Client holds an open presence connection.
type Client struct {
	conn *websocket.Conn
}

// Dial connects to the presence channel of the given backend base URL
// (http(s)://... is rewritten to ws(s)://...).
func Dial(ctx context.Context, baseURL string) (*Client, error) {
	wsURL := strings.Replace(baseURL, "http", "ws", 1) + "/presence"

	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return nil, err
	}
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}

	return &Client{conn: conn}, nil
}

// Listen delivers each user-count update until the context ends or the
// connection drops. Malformed frames are skipped; a read error ends the
// loop quietly, matching the channel's cosmetic role.
func (c *Client) Listen(ctx context.Context, onCount func(int)) {
	go func() {
		<-ctx.Done()
		c.conn.Close()
	}()

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var stats Stats
		if err := json.Unmarshal(data, &stats); err != nil {
			continue
		}
		onCount(stats.NumUsers)
	}
}

// Close shuts the connection down.
func (c *Client) Close() error {
	return c.conn.Close()
}
