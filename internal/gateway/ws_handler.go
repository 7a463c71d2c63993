package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/google/uuid"

	"github.com/haasonsaas/orchestrator/internal/orcherr"
	"github.com/haasonsaas/orchestrator/pkg/models"
)

// wsConn is one client's live connection: an unauthenticated connection
// must receive a valid auth frame before user_message is accepted.
type wsConn struct {
	server *Server
	conn   *websocket.Conn
	send   chan wsFrame
	ctx    context.Context
	cancel context.CancelFunc

	id            string
	authenticated bool
	caller        models.CallerIdentity

	closeOnce sync.Once
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	c := &wsConn{
		server: s,
		conn:   conn,
		send:   make(chan wsFrame, 32),
		ctx:    ctx,
		cancel: cancel,
		id:     uuid.NewString(),
	}
	c.run()
}

func (c *wsConn) run() {
	defer c.close()
	go c.writeLoop()

	_ = writeFrame(c.send, FrameConnection, map[string]any{"connection_id": c.id})
	c.readLoop()
}

func (c *wsConn) close() {
	c.closeOnce.Do(func() {
		c.cancel()
		close(c.send)
		_ = c.conn.Close()
	})
}

func (c *wsConn) readLoop() {
	c.conn.SetReadLimit(wsMaxPayloadBytes)
	_ = c.conn.SetReadDeadline(time.Now().Add(wsPongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	for {
		msgType, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}

		var frame wsFrame
		if err := json.Unmarshal(data, &frame); err != nil {
			c.sendError("invalid_frame", err.Error())
			continue
		}
		if err := validateWSFrame(data, &frame); err != nil {
			c.sendError("invalid_frame", err.Error())
			continue
		}

		switch frame.Type {
		case FrameAuth:
			c.handleAuth(frame)
		case FramePing:
			_ = writeFrame(c.send, FramePong, map[string]any{"ts": time.Now().UnixMilli()})
		case FrameUserMessage:
			if !c.authenticated {
				c.sendError("unauthenticated", "auth frame required before user_message")
				continue
			}
			c.handleUserMessage(frame)
		default:
			c.sendError("unsupported_frame", "frame type not accepted inbound")
		}
	}
}

func (c *wsConn) writeLoop() {
	ticker := time.NewTicker(wsPingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.ctx.Done():
			return
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case frame, ok := <-c.send:
			if !ok {
				return
			}
			raw, err := json.Marshal(frame)
			if err != nil {
				continue
			}
			_ = c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, raw); err != nil {
				return
			}
		}
	}
}

func (c *wsConn) handleAuth(frame wsFrame) {
	var params authParams
	if err := json.Unmarshal(frame.Params, &params); err != nil {
		_ = writeFrame(c.send, FrameAuthError, map[string]any{"error": err.Error()})
		return
	}

	caller, err := c.server.auth.Authenticate(c.ctx, params.Token)
	if err != nil {
		_ = writeFrame(c.send, FrameAuthError, map[string]any{"error": orcherr.ErrAuthenticationMissing.Error()})
		return
	}

	c.caller = caller
	c.authenticated = true
	_ = writeFrame(c.send, FrameAuthSuccess, map[string]any{"user_id": caller.UserID, "role": caller.Role})
}

func (c *wsConn) handleUserMessage(frame wsFrame) {
	var params userMessageParams
	if err := json.Unmarshal(frame.Params, &params); err != nil {
		c.sendError("invalid_params", err.Error())
		return
	}

	unlock := c.server.sessionLocks.lock(params.ConversationID)
	defer unlock()

	q := models.Query{
		Caller:         c.caller,
		Text:           params.Content,
		ConversationID: params.ConversationID,
		PreferredAgent: models.AgentKind(params.AgentType),
		Metadata:       params.Metadata,
	}

	resp, err := c.server.query.HandleQuery(c.ctx, q)
	if err != nil {
		if errors.Is(err, orcherr.ErrCancellationRequested) {
			return
		}
		c.sendError("turn_failed", err.Error())
		return
	}

	_ = writeFrame(c.send, FrameChatResponse, map[string]any{
		"conversation_id": resp.ConversationID,
		"user_message":    resp.UserMessage,
		"ai_message":      resp.AIMessage,
		"agent_info":      resp.AgentInfo,
	})
}

func (c *wsConn) sendError(code, message string) {
	_ = writeFrame(c.send, FrameError, map[string]any{"code": code, "message": message})
}
