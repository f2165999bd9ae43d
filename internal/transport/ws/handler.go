package ws

import (
	"net/http"
	"slices"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"nhooyr.io/websocket"
)

// TokenVerifier resolves a bearer token to a user id.
type TokenVerifier interface {
	VerifyToken(token string) (uuid.UUID, error)
}

// ServeWS returns an HTTP handler that upgrades to WebSocket.
// Auth is done via ?token=xxx query param (WebSocket can't send headers).
// Without a token the connection is anonymous and may only follow projects.
func ServeWS(hub *Hub, verifier TokenVerifier, allowedOrigins []string) http.HandlerFunc {
	// Origin patterns are matched against the host only.
	hosts := make([]string, 0, len(allowedOrigins))
	for _, o := range allowedOrigins {
		o = strings.TrimPrefix(strings.TrimPrefix(o, "https://"), "http://")
		hosts = append(hosts, strings.TrimRight(o, "/"))
	}

	return func(w http.ResponseWriter, r *http.Request) {
		userID := uuid.Nil
		if tokenStr := r.URL.Query().Get("token"); tokenStr != "" {
			id, err := verifier.VerifyToken(tokenStr)
			if err != nil {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}
			userID = id
		}

		opts := &websocket.AcceptOptions{OriginPatterns: hosts}
		if len(hosts) == 0 || slices.Contains(hosts, "*") {
			opts = &websocket.AcceptOptions{InsecureSkipVerify: true}
		}

		conn, err := websocket.Accept(w, r, opts)
		if err != nil {
			hub.logger.Warn("ws: accept error", zap.Error(err))
			return
		}

		client := NewClient(hub, conn, userID)
		hub.Register(client)

		go client.WritePump()
		client.ReadPump(r.Context())
	}
}
