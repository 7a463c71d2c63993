package routing

import (
	"github.com/haasonsaas/orchestrator/internal/agent"
	"github.com/haasonsaas/orchestrator/pkg/models"
)

// ComplexityClassifier tags a request by the complexity estimate the caller
// already attached to it (req.Complexity), rather than re-deriving anything
// from the message content. An empty Complexity (a caller that never set
// one) classifies as moderate — the router should neither over- nor
// under-provision for requests it can't size.
type ComplexityClassifier struct{}

// Classify returns a single tag: "complexity:simple", "complexity:moderate",
// or "complexity:complex".
func (ComplexityClassifier) Classify(req *agent.CompletionRequest) []string {
	level := req.Complexity
	if level == "" {
		level = models.ComplexityModerate
	}
	return []string{"complexity:" + string(level)}
}

// ComplexityRules builds the three Rule entries that route each complexity
// tag to its configured target. Pass empty Target fields to leave that tier
// on the router's default provider.
func ComplexityRules(simple, moderate, complex Target) []Rule {
	var rules []Rule
	if complex.Provider != "" {
		rules = append(rules, Rule{Name: "complexity-complex", Match: Match{Tags: []string{"complexity:complex"}}, Target: complex})
	}
	if moderate.Provider != "" {
		rules = append(rules, Rule{Name: "complexity-moderate", Match: Match{Tags: []string{"complexity:moderate"}}, Target: moderate})
	}
	if simple.Provider != "" {
		rules = append(rules, Rule{Name: "complexity-simple", Match: Match{Tags: []string{"complexity:simple"}}, Target: simple})
	}
	return rules
}
