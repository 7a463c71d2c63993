package gateway

import "encoding/json"

// Inbound frame types accepted over the WebSocket query-ingress stream.
const (
	FrameAuth        = "auth"
	FrameUserMessage = "user_message"
	FramePing        = "ping"
)

// Outbound frame types written back to the client.
const (
	FrameConnection = "connection"
	FrameAuthSuccess = "auth_success"
	FrameAuthError   = "auth_error"
	FrameChatResponse = "chat_response"
	FrameError        = "error"
	FramePong         = "pong"
)

// wsFrame is the envelope for every message on the WebSocket stream, both
// directions. Params carries the type-specific payload.
type wsFrame struct {
	Type   string          `json:"type"`
	Params json.RawMessage `json:"params,omitempty"`
}

// authParams is the payload of an inbound auth frame.
type authParams struct {
	Token string `json:"token"`
}

// userMessageParams is the payload of an inbound user_message frame.
type userMessageParams struct {
	ConversationID string         `json:"conversation_id,omitempty"`
	Content        string         `json:"content"`
	AgentType      string         `json:"agent_type,omitempty"`
	Metadata       map[string]any `json:"metadata,omitempty"`
}

func writeFrame(out chan<- wsFrame, frameType string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	out <- wsFrame{Type: frameType, Params: raw}
	return nil
}
