package gateway

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/haasonsaas/orchestrator/pkg/models"
)

func newWSTestServer(t *testing.T, query QueryHandler) (*httptest.Server, *websocket.Conn) {
	t.Helper()

	s := newTestServer(fakeAuthenticator{identity: models.CallerIdentity{UserID: "u1", Role: models.RoleSalesperson}}, query)
	httpSrv := httptest.NewServer(http.HandlerFunc(s.handleWS))
	t.Cleanup(httpSrv.Close)

	wsURL := "ws" + strings.TrimPrefix(httpSrv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return httpSrv, conn
}

func readFrame(t *testing.T, conn *websocket.Conn) wsFrame {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var frame wsFrame
	if err := conn.ReadJSON(&frame); err != nil {
		t.Fatalf("read frame: %v", err)
	}
	return frame
}

func TestWSHandshakeThenAuthThenChat(t *testing.T) {
	t.Parallel()

	resp := &models.TurnResponse{
		ConversationID: "conv-1",
		AIMessage:      "ok",
		AgentInfo: models.AgentInfo{
			Type:    models.ResponseSupervisorAgent,
			Primary: models.AgentSales,
		},
	}
	_, conn := newWSTestServer(t, fakeQueryHandler{resp: resp})

	if frame := readFrame(t, conn); frame.Type != FrameConnection {
		t.Fatalf("first frame type = %q, want %q", frame.Type, FrameConnection)
	}

	if err := conn.WriteJSON(wsFrame{Type: FrameUserMessage, Params: []byte(`{"content":"hi"}`)}); err != nil {
		t.Fatalf("write user_message before auth: %v", err)
	}
	if frame := readFrame(t, conn); frame.Type != FrameError {
		t.Fatalf("frame type = %q, want %q (unauthenticated rejection)", frame.Type, FrameError)
	}

	if err := conn.WriteJSON(wsFrame{Type: FrameAuth, Params: []byte(`{"token":"tok"}`)}); err != nil {
		t.Fatalf("write auth: %v", err)
	}
	if frame := readFrame(t, conn); frame.Type != FrameAuthSuccess {
		t.Fatalf("frame type = %q, want %q", frame.Type, FrameAuthSuccess)
	}

	if err := conn.WriteJSON(wsFrame{Type: FrameUserMessage, Params: []byte(`{"content":"who owns Acme?"}`)}); err != nil {
		t.Fatalf("write user_message: %v", err)
	}
	if frame := readFrame(t, conn); frame.Type != FrameChatResponse {
		t.Fatalf("frame type = %q, want %q", frame.Type, FrameChatResponse)
	}
}

func TestWSPingPong(t *testing.T) {
	t.Parallel()

	_, conn := newWSTestServer(t, fakeQueryHandler{})
	_ = readFrame(t, conn) // connection frame

	if err := conn.WriteJSON(wsFrame{Type: FramePing}); err != nil {
		t.Fatalf("write ping: %v", err)
	}
	if frame := readFrame(t, conn); frame.Type != FramePong {
		t.Fatalf("frame type = %q, want %q", frame.Type, FramePong)
	}
}
