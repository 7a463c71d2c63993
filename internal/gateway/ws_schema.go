package gateway

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

type wsSchemaRegistry struct {
	once    sync.Once
	initErr error
	frame   *jsonschema.Schema
	params  map[string]*jsonschema.Schema
}

var wsSchemas wsSchemaRegistry

func initWSSchemas() error {
	wsSchemas.once.Do(func() {
		frameSchema, err := jsonschema.CompileString("ws_frame", wsFrameSchema)
		if err != nil {
			wsSchemas.initErr = err
			return
		}
		wsSchemas.frame = frameSchema

		params := map[string]string{
			FrameAuth:        wsAuthParamsSchema,
			FrameUserMessage: wsUserMessageParamsSchema,
			FramePing:        wsPingParamsSchema,
		}

		wsSchemas.params = make(map[string]*jsonschema.Schema, len(params))
		for name, schema := range params {
			compiled, err := jsonschema.CompileString("ws_params_"+name, schema)
			if err != nil {
				wsSchemas.initErr = err
				return
			}
			wsSchemas.params[name] = compiled
		}
	})
	return wsSchemas.initErr
}

// validateWSFrame checks the raw inbound bytes against the envelope schema,
// then against the type-specific params schema when one is registered.
// Unknown frame types pass the envelope check but fail here explicitly,
// since only auth/user_message/ping are accepted inbound.
func validateWSFrame(raw []byte, frame *wsFrame) error {
	if err := initWSSchemas(); err != nil {
		return err
	}

	var payload any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return err
	}
	if err := wsSchemas.frame.Validate(payload); err != nil {
		return err
	}
	if frame == nil {
		return fmt.Errorf("missing frame")
	}

	schema, ok := wsSchemas.params[frame.Type]
	if !ok {
		return fmt.Errorf("unsupported frame type %q", frame.Type)
	}

	var params any
	if len(frame.Params) == 0 {
		params = map[string]any{}
	} else if err := json.Unmarshal(frame.Params, &params); err != nil {
		return err
	}
	return schema.Validate(params)
}

const wsFrameSchema = `{
  "type": "object",
  "required": ["type"],
  "properties": {
    "type": { "type": "string", "minLength": 1 },
    "params": {}
  },
  "additionalProperties": true
}`

const wsAuthParamsSchema = `{
  "type": "object",
  "required": ["token"],
  "properties": {
    "token": { "type": "string", "minLength": 1 }
  },
  "additionalProperties": true
}`

const wsUserMessageParamsSchema = `{
  "type": "object",
  "required": ["content"],
  "properties": {
    "conversation_id": { "type": "string" },
    "content": { "type": "string", "minLength": 1 },
    "agent_type": { "type": "string" },
    "metadata": { "type": "object" }
  },
  "additionalProperties": true
}`

const wsPingParamsSchema = `{
  "type": "object",
  "additionalProperties": true
}`
