package ws

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"
)

const (
	writeWait      = 10 * time.Second
	pingInterval   = 30 * time.Second
	maxMessageSize = 16 * 1024
	sendBufSize    = 256
)

// Client represents a single WebSocket connection. userID is uuid.Nil for
// anonymous connections, which may only follow project rooms.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	userID uuid.UUID
	logger *zap.Logger

	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

var _ Subscriber = (*Client)(nil)

func NewClient(hub *Hub, conn *websocket.Conn, userID uuid.UUID) *Client {
	return &Client{
		hub:    hub,
		conn:   conn,
		userID: userID,
		logger: hub.logger.With(zap.Stringer("user_id", userID)),
		send:   make(chan []byte, sendBufSize),
		done:   make(chan struct{}),
	}
}

func (c *Client) Enqueue(data []byte) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

// Close stops the write pump, which closes the socket.
func (c *Client) Close() {
	c.closeOnce.Do(func() { close(c.done) })
}

func (c *Client) authenticated() bool {
	return c.userID != uuid.Nil
}

// ReadPump reads messages from the WebSocket and routes them to the Hub.
func (c *Client) ReadPump(ctx context.Context) {
	defer func() {
		c.hub.Disconnect(c)
		c.Close()
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	c.conn.SetReadLimit(maxMessageSize)

	for {
		var event Event
		err := wsjson.Read(ctx, c.conn, &event)
		if err != nil {
			if websocket.CloseStatus(err) != -1 {
				c.logger.Debug("ws: client disconnected")
			} else {
				c.logger.Debug("ws: read error", zap.Error(err))
			}
			return
		}

		c.handleEvent(&event)
	}
}

// WritePump writes messages from the send channel to the WebSocket.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	for {
		select {
		case message := <-c.send:
			ctx, cancel := context.WithTimeout(context.Background(), writeWait)
			err := c.conn.Write(ctx, websocket.MessageText, message)
			cancel()
			if err != nil {
				c.logger.Debug("ws: write error", zap.Error(err))
				return
			}

		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), writeWait)
			err := c.conn.Ping(ctx)
			cancel()
			if err != nil {
				c.logger.Debug("ws: ping error", zap.Error(err))
				return
			}

		case <-c.done:
			return
		}
	}
}

// handleEvent routes an incoming client event.
func (c *Client) handleEvent(event *Event) {
	switch event.Type {
	case EventTypeJoinUserRoom:
		if !c.authenticated() {
			c.sendError("UNAUTHORIZED", "authentication required to join a user room")
			return
		}
		var p UserRoomPayload
		if err := json.Unmarshal(event.Payload, &p); err != nil {
			c.sendError("INVALID_PAYLOAD", "invalid join_user_room payload")
			return
		}
		if p.UserID != c.userID {
			c.sendError("FORBIDDEN", "cannot join another user's room")
			return
		}
		c.hub.Join(c, UserRoom(c.userID))

	case EventTypeJoinProject, EventTypeLeaveProject:
		var p ProjectRoomPayload
		if err := json.Unmarshal(event.Payload, &p); err != nil || p.ProjectID == uuid.Nil {
			c.sendError("INVALID_PAYLOAD", "invalid "+event.Type+" payload")
			return
		}
		if event.Type == EventTypeJoinProject {
			c.hub.Join(c, ProjectRoom(p.ProjectID))
		} else {
			c.hub.Leave(c, ProjectRoom(p.ProjectID))
		}

	case EventTypeSendComment:
		var route commentRoute
		if err := json.Unmarshal(event.Payload, &route); err != nil || route.Project == uuid.Nil {
			c.sendError("INVALID_PAYLOAD", "send_comment requires a project")
			return
		}
		c.hub.Publish(ProjectRoom(route.Project), relayEvent(EventTypeReceiveComment, event.Payload))

	case EventTypeSendMessage:
		if !c.authenticated() {
			c.sendError("UNAUTHORIZED", "authentication required to send messages")
			return
		}
		var route messageRoute
		if err := json.Unmarshal(event.Payload, &route); err != nil || route.ReceiverID == uuid.Nil {
			c.sendError("INVALID_PAYLOAD", "send_message requires a receiverId")
			return
		}
		c.hub.Publish(UserRoom(route.ReceiverID), relayEvent(EventTypeReceiveMessage, event.Payload))

	case EventTypePing:
		c.sendPong()

	default:
		c.sendError("UNKNOWN_EVENT", "unknown event type: "+event.Type)
	}
}

func (c *Client) sendPong() {
	data, _ := json.Marshal(Event{Type: EventTypePong, Timestamp: time.Now().Unix()})
	c.Enqueue(data)
}

func (c *Client) sendError(code, message string) {
	evt, err := NewEvent(EventTypeError, ErrorPayload{Code: code, Message: message})
	if err != nil {
		return
	}
	data, err := json.Marshal(evt)
	if err != nil {
		return
	}
	c.Enqueue(data)
}
