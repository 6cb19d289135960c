package websocket

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1024
	sendBufferSize = 64
)

type Client struct {
	server *Server
	conn   *websocket.Conn
	send   chan []byte
}

// readPump dispatches incoming messages until the connection fails.
func (that *Client) readPump(ctx context.Context) {
	log := that.server.logger.With("method", "readPump")

	defer func() {
		that.server.removeClient(that)
		that.conn.Close()
	}()

	that.conn.SetReadLimit(maxMessageSize)
	_ = that.conn.SetReadDeadline(time.Now().Add(pongWait))
	that.conn.SetPongHandler(func(string) error {
		return that.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := that.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Error("error reading message", "error", err)
			}
			return
		}

		var message Message
		if err = json.Unmarshal(data, &message); err != nil {
			log.Error("failed to unmarshal message", "error", err)
			that.sendError("", "malformed message")
			continue
		}

		handler, ok := that.server.handlers[message.Action]
		if !ok {
			log.Warn("unknown action", "action", message.Action)
			that.sendError(message.Action, "unknown action")
			continue
		}

		if err = handler(ctx, &message, that); err != nil {
			log.Error("error processing message", "action", message.Action, "error", err)
		}
	}
}

// writePump writes queued messages, one per frame, and keeps the connection alive with pings.
func (that *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		that.conn.Close()
	}()

	for {
		select {
		case message, ok := <-that.send:
			_ = that.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = that.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := that.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			_ = that.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := that.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (that *Client) sendMessage(action string, payload ResponsePayload) {
	message, err := newMessage(action, payload)
	if err != nil {
		that.server.logger.Error("failed to marshal response", "action", action, "error", err)
		return
	}

	that.server.enqueue(that, message)
}

func (that *Client) sendError(action, reason string) {
	if action != "" {
		reason = action + ": " + reason
	}

	that.sendMessage(actionError, ResponsePayload{Error: reason})
}
