package models

import "time"

// Checkpoint is the Session/Checkpoint Store's persisted unit for one
// conversation: its ordered message log plus the most-recent Conversation
// Graph node reached, so a resumed turn knows where it left off.
type Checkpoint struct {
	ConversationID string
	OwnerUserID    string
	AgentKinds     []AgentKind
	Messages       []Message
	LastNode       string
	CreatedAt      time.Time
	UpdatedAt      time.Time

	// TTL is how long after UpdatedAt this checkpoint is eligible for sweep.
	// Zero means it never expires on its own (only an explicit Delete or
	// CleanupOlderThan call removes it).
	TTL time.Duration
}

// Expired reports whether this checkpoint's own TTL has elapsed as of now.
func (c *Checkpoint) Expired(now time.Time) bool {
	if c == nil || c.TTL <= 0 {
		return false
	}
	return now.After(c.UpdatedAt.Add(c.TTL))
}
