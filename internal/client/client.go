// Package client maintains the websocket link to the arbiter: dialing with
// the bearer token, decoding the event stream, and sending intents.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/sirupsen/logrus"

	"lastcard/internal/protocol"
)

const writeTimeout = 3 * time.Second

// Client wraps a single arbiter connection.
type Client struct {
	log  logrus.FieldLogger
	conn *websocket.Conn
}

// Dial connects to the arbiter. The token is carried as a bearer header and
// the arbiter derives the player identity from it.
func Dial(ctx context.Context, log logrus.FieldLogger, url, token string) (*Client, error) {
	hdr := http.Header{}
	if token != "" {
		hdr.Set("Authorization", "Bearer "+token)
	}
	conn, _, err := websocket.Dial(ctx, url, &websocket.DialOptions{HTTPHeader: hdr})
	if err != nil {
		return nil, fmt.Errorf("dial arbiter %s: %w", url, err)
	}
	log.WithField("url", url).Info("connected to arbiter")
	return &Client{log: log.WithField("component", "client"), conn: conn}, nil
}

// ReadLoop decodes server events onto out until the connection or ctx ends,
// then closes out. A clean close or going-away status is a normal exit.
func (c *Client) ReadLoop(ctx context.Context, out chan<- protocol.ServerEvent) error {
	defer close(out)
	for {
		_, data, err := c.conn.Read(ctx)
		if err != nil {
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				c.log.Info("arbiter closed the connection")
				return nil
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("read arbiter event: %w", err)
		}

		var ev protocol.ServerEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			// One malformed frame does not end the stream.
			c.log.WithError(err).Warn("undecodable server event")
			continue
		}
		select {
		case out <- ev:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Send marshals an intent onto the wire as a single text frame.
func (c *Client) Send(ctx context.Context, intent protocol.Intent) error {
	payload, err := json.Marshal(intent)
	if err != nil {
		return fmt.Errorf("encode intent: %w", err)
	}
	wctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	if err := c.conn.Write(wctx, websocket.MessageText, payload); err != nil {
		return fmt.Errorf("send intent: %w", err)
	}
	return nil
}

// Close performs a clean websocket shutdown.
func (c *Client) Close() error {
	return c.conn.Close(websocket.StatusNormalClosure, "bye")
}
