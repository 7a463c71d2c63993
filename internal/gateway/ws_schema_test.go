package gateway

import (
	"encoding/json"
	"testing"
)

func TestInitWSSchemas(t *testing.T) {
	if err := initWSSchemas(); err != nil {
		t.Fatalf("initWSSchemas() error = %v", err)
	}
	if err := initWSSchemas(); err != nil {
		t.Fatalf("initWSSchemas() second call error = %v", err)
	}
}

func TestValidateWSFrame(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		frame     *wsFrame
		wantError bool
	}{
		{
			name: "valid auth",
			raw:  `{"type":"auth","params":{"token":"abc"}}`,
			frame: &wsFrame{
				Type:   FrameAuth,
				Params: json.RawMessage(`{"token":"abc"}`),
			},
		},
		{
			name:      "auth missing token",
			raw:       `{"type":"auth","params":{}}`,
			frame:     &wsFrame{Type: FrameAuth, Params: json.RawMessage(`{}`)},
			wantError: true,
		},
		{
			name: "valid user_message",
			raw:  `{"type":"user_message","params":{"content":"hello"}}`,
			frame: &wsFrame{
				Type:   FrameUserMessage,
				Params: json.RawMessage(`{"content":"hello"}`),
			},
		},
		{
			name:      "user_message missing content",
			raw:       `{"type":"user_message","params":{}}`,
			frame:     &wsFrame{Type: FrameUserMessage, Params: json.RawMessage(`{}`)},
			wantError: true,
		},
		{
			name:  "valid ping",
			raw:   `{"type":"ping"}`,
			frame: &wsFrame{Type: FramePing},
		},
		{
			name:      "invalid json",
			raw:       `{invalid}`,
			frame:     nil,
			wantError: true,
		},
		{
			name:      "missing type",
			raw:       `{"params":{}}`,
			frame:     nil,
			wantError: true,
		},
		{
			name:      "unsupported type",
			raw:       `{"type":"subscribe"}`,
			frame:     &wsFrame{Type: "subscribe"},
			wantError: true,
		},
		{
			name:      "nil frame",
			raw:       `{"type":"ping"}`,
			frame:     nil,
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateWSFrame([]byte(tt.raw), tt.frame)
			if (err != nil) != tt.wantError {
				t.Errorf("validateWSFrame() error = %v, wantError %v", err, tt.wantError)
			}
		})
	}
}

func TestWSSchemaConstants(t *testing.T) {
	schemas := []struct {
		name   string
		schema string
	}{
		{"wsFrameSchema", wsFrameSchema},
		{"wsAuthParamsSchema", wsAuthParamsSchema},
		{"wsUserMessageParamsSchema", wsUserMessageParamsSchema},
		{"wsPingParamsSchema", wsPingParamsSchema},
	}
	for _, tt := range schemas {
		t.Run(tt.name, func(t *testing.T) {
			var v any
			if err := json.Unmarshal([]byte(tt.schema), &v); err != nil {
				t.Errorf("%s is not valid JSON: %v", tt.name, err)
			}
		})
	}
}
