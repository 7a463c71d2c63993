package gateway

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/haasonsaas/orchestrator/internal/orcherr"
	"github.com/haasonsaas/orchestrator/pkg/models"
)

type chatRequest struct {
	Message        string         `json:"message"`
	AgentType      string         `json:"agent_type,omitempty"`
	ConversationID string         `json:"conversation_id,omitempty"`
	Context        map[string]any `json:"context,omitempty"`
}

type chatResponseBody struct {
	Content        string          `json:"content"`
	ConversationID string          `json:"conversation_id"`
	AgentType      models.AgentKind `json:"agent_type"`
	Routing        models.AgentInfo `json:"routing"`
	Metadata       map[string]any  `json:"metadata,omitempty"`
	Timestamp      int64           `json:"timestamp"`
}

// handleChat implements the request/response chat endpoint: takes
// {message, agent_type?, conversation_id?, context?} and returns
// {content, conversation_id, agent_type, routing, metadata, timestamp}.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	caller, err := s.authenticateHTTP(r)
	if err != nil {
		writeJSONError(w, http.StatusUnauthorized, orcherr.ErrAuthenticationMissing.Error())
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Message == "" {
		writeJSONError(w, http.StatusBadRequest, "message is required")
		return
	}

	dedupeKey := caller.UserID + "|" + req.ConversationID + "|" + req.Message
	if s.chatDedupe.Check(dedupeKey) {
		writeJSONError(w, http.StatusConflict, "duplicate request")
		return
	}

	unlock := s.sessionLocks.lock(req.ConversationID)
	defer unlock()

	q := models.Query{
		Caller:         caller,
		Text:           req.Message,
		ConversationID: req.ConversationID,
		PreferredAgent: models.AgentKind(req.AgentType),
		Metadata:       req.Context,
	}

	resp, err := s.query.HandleQuery(r.Context(), q)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, orcherr.ErrSecurityDenied) {
			status = http.StatusForbidden
		}
		writeJSONError(w, status, err.Error())
		return
	}

	body := chatResponseBody{
		Content:        resp.AIMessage,
		ConversationID: resp.ConversationID,
		AgentType:      resp.AgentInfo.Primary,
		Routing:        resp.AgentInfo,
		Metadata:       resp.Metadata,
		Timestamp:      resp.Timestamp.UnixMilli(),
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(body)
}

func (s *Server) authenticateHTTP(r *http.Request) (models.CallerIdentity, error) {
	token := r.Header.Get("Authorization")
	if token == "" {
		return models.CallerIdentity{}, orcherr.ErrAuthenticationMissing
	}
	return s.auth.Authenticate(r.Context(), token)
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
