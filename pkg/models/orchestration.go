package models

import "time"

// Role indicating a caller's position in the org, ordered from most to
// least privileged. Lower RoleLevel() is more privileged.
type CallerRole string

const (
	RoleLeadership      CallerRole = "leadership"
	RoleDirector        CallerRole = "director"
	RoleCreativeDirector CallerRole = "creative_director"
	RoleSalesperson      CallerRole = "salesperson"
)

// RoleLevel returns the role's position in the hierarchy; lower is more
// privileged. Unknown roles are treated as least privileged.
func (r CallerRole) RoleLevel() int {
	switch r {
	case RoleLeadership:
		return 1
	case RoleDirector:
		return 2
	case RoleCreativeDirector:
		return 3
	case RoleSalesperson:
		return 4
	default:
		return 99
	}
}

// SensitivityLevel is one of six ordered data-classification tiers.
type SensitivityLevel int

const (
	SensitivityPublic SensitivityLevel = iota
	SensitivityInternal
	SensitivityConfidential
	SensitivityRestricted
	SensitivitySecret
	SensitivityTopSecret
)

func (s SensitivityLevel) String() string {
	switch s {
	case SensitivityPublic:
		return "public"
	case SensitivityInternal:
		return "internal"
	case SensitivityConfidential:
		return "confidential"
	case SensitivityRestricted:
		return "restricted"
	case SensitivitySecret:
		return "secret"
	case SensitivityTopSecret:
		return "top_secret"
	default:
		return "unknown"
	}
}

// CallerIdentity is immutable per request: who is asking, what they're
// allowed to see, and what they're allowed to do.
type CallerIdentity struct {
	UserID           string           `json:"user_id"`
	Role             CallerRole       `json:"role"`
	MaxSensitivity   SensitivityLevel `json:"max_sensitivity"`
	PermissionActions map[string]struct{} `json:"-"`
}

// HasPermission reports whether the caller's permission set includes action.
func (c CallerIdentity) HasPermission(action string) bool {
	if c.PermissionActions == nil {
		return false
	}
	_, ok := c.PermissionActions[action]
	return ok
}

// SelectionMode controls how the Supervisor chooses agents for a Query.
type SelectionMode string

const (
	SelectionAuto   SelectionMode = "auto"
	SelectionSingle SelectionMode = "single"
	SelectionMulti  SelectionMode = "multi"
)

// Query is the unit of work submitted to the Supervisor.
type Query struct {
	Caller         CallerIdentity `json:"-"`
	Text           string         `json:"text"`
	PreferredAgent AgentKind      `json:"preferred_agent,omitempty"`
	ConversationID string         `json:"conversation_id,omitempty"`
	Selection      SelectionMode  `json:"selection,omitempty"`
	Metadata       map[string]any `json:"metadata,omitempty"`
}

// AgentKind names one of the three domain specialists.
type AgentKind string

const (
	AgentSales     AgentKind = "sales"
	AgentTalent    AgentKind = "talent"
	AgentAnalytics AgentKind = "analytics"
)

// RoutingStrategy says whether one or several agents handle a turn.
type RoutingStrategy string

const (
	StrategySingleAgent RoutingStrategy = "single_agent"
	StrategyMultiAgent  RoutingStrategy = "multi_agent"
)

// RoutingDecision is the Supervisor's answer to "who handles this query".
type RoutingDecision struct {
	Strategy     RoutingStrategy    `json:"strategy"`
	Primary      AgentKind          `json:"primary"`
	Participants map[AgentKind]struct{} `json:"-"`
}

// ResponseKind tags how a turn's response was produced, surfaced to callers
// via agent_info so clients can distinguish a real model answer from a
// filtered or degraded one.
type ResponseKind string

const (
	ResponseSupervisorAgent ResponseKind = "supervisor_agent"
	ResponseLLMDirect       ResponseKind = "llm_direct"
	ResponseSecurityFiltered ResponseKind = "security_filtered"
	ResponseMockFallback    ResponseKind = "mock_fallback"
)

// AgentInfo reveals the routing decision behind a turn's response.
type AgentInfo struct {
	Type     ResponseKind `json:"type"`
	Primary  AgentKind    `json:"primary_agent"`
	Strategy RoutingStrategy `json:"strategy"`
}

// TurnResponse is the Supervisor's output for one completed turn.
type TurnResponse struct {
	ConversationID string         `json:"conversation_id"`
	UserMessage    string         `json:"user_message"`
	AIMessage      string         `json:"ai_message"`
	AgentInfo      AgentInfo      `json:"agent_info"`
	ToolErrors     []string       `json:"tool_errors,omitempty"`
	Metadata       map[string]any `json:"metadata,omitempty"`
	Timestamp      time.Time      `json:"timestamp"`
}

// AgentState is the per-turn mutable context owned by exactly one executing
// turn. It is never shared across turns except via the Conversation it
// belongs to.
type AgentState struct {
	ConversationID string
	Caller         CallerIdentity
	Messages       []Message
	TaskAnalysis   TaskAnalysis
	ToolResults    map[string]ToolResult
	ToolErrors     []string
	LastUpdated    time.Time
}

// TaskAnalysis is the output of the Conversation Graph's process_query node,
// produced by an agent's analyze_query hook. The base graph never inspects
// Intent/TaskType/TaskParams itself — it only stores what the hook returns.
type TaskAnalysis struct {
	Intent                 string         `json:"intent"`
	TaskType               string         `json:"task_type"`
	TaskParams             map[string]any `json:"task_params,omitempty"`
	RequiresKnowledgeGraph bool           `json:"requires_knowledge_graph"`
	Complexity             ComplexityLevel `json:"complexity"`
}

// ComplexityLevel classifies a query for LLM Router model-tier selection.
type ComplexityLevel string

const (
	ComplexitySimple   ComplexityLevel = "simple"
	ComplexityModerate ComplexityLevel = "moderate"
	ComplexityComplex  ComplexityLevel = "complex"
)

// ProviderStats are per-provider rolling counters maintained by the LLM
// Router. Counters only increase; averages use the running-mean
// recurrence. Read under no lock — momentary inconsistency is tolerated.
type ProviderStats struct {
	Requests   int64         `json:"requests"`
	Failures   int64         `json:"failures"`
	AvgLatency time.Duration `json:"avg_latency"`
}

// SuccessRate derives the success ratio from Requests/Failures.
func (p ProviderStats) SuccessRate() float64 {
	if p.Requests == 0 {
		return 1.0
	}
	return float64(p.Requests-p.Failures) / float64(p.Requests)
}

// Observe folds one call's outcome into the running stats using the
// running-mean recurrence: avg' = avg + (x - avg) / n.
func (p *ProviderStats) Observe(latency time.Duration, failed bool) {
	p.Requests++
	if failed {
		p.Failures++
	}
	n := float64(p.Requests)
	p.AvgLatency += time.Duration((float64(latency) - float64(p.AvgLatency)) / n)
}

// MemoryKind tags which variant of the Memory sum type a record holds.
type MemoryKind string

const (
	MemorySemantic   MemoryKind = "semantic"
	MemoryEpisodic   MemoryKind = "episodic"
	MemoryProcedural MemoryKind = "procedural"
)

// MemoryImportance ranks how much a Memory record matters for recall and
// consolidation.
type MemoryImportance string

const (
	ImportanceLow      MemoryImportance = "low"
	ImportanceMedium   MemoryImportance = "medium"
	ImportanceHigh     MemoryImportance = "high"
	ImportanceCritical MemoryImportance = "critical"
)

// Memory is the orchestration engine's record: one of Semantic, Episodic,
// or Procedural, sharing a common envelope.
type Memory struct {
	ID         string           `json:"id"`
	OwnerID    string           `json:"owner_id"`
	Kind       MemoryKind       `json:"kind"`
	Importance MemoryImportance `json:"importance"`
	Sensitivity SensitivityLevel `json:"sensitivity"`
	Embedding  []float32        `json:"-"`
	CreatedAt  time.Time        `json:"created_at"`
	LastAccess time.Time        `json:"last_accessed_at"`
	AccessCount int64           `json:"access_count"`
	Metadata   map[string]any   `json:"metadata,omitempty"`

	// Semantic fact fields.
	Content    string  `json:"content"`
	FactType   string  `json:"fact_type,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`

	// Episodic fields.
	SourceConversationID string      `json:"source_conversation_id,omitempty"`
	Agent                AgentKind   `json:"agent,omitempty"`
	Topics                []string   `json:"topics,omitempty"`

	// Procedural fields.
	Trigger     string  `json:"trigger,omitempty"`
	Action      string  `json:"action,omitempty"`
	SuccessRate float64 `json:"success_rate,omitempty"`
	UsageCount  int64   `json:"usage_count,omitempty"`
}

// SensitivityLevel implements security.Sensitive so Memory records can pass
// through the data-sensitivity envelope directly.
func (m Memory) SensitivityLevel() SensitivityLevel {
	return m.Sensitivity
}

// SensitiveResult wraps any tool payload with a sensitivity tag so it can
// pass through the data-sensitivity envelope alongside Memory records.
type SensitiveResult[T any] struct {
	Payload     T
	Sensitivity SensitivityLevel
}

// SensitivityLevel implements security.Sensitive.
func (s SensitiveResult[T]) SensitivityLevel() SensitivityLevel {
	return s.Sensitivity
}
