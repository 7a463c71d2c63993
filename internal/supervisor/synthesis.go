package supervisor

import (
	"fmt"
	"sort"
	"strings"

	"github.com/haasonsaas/orchestrator/pkg/models"
)

// buildMultiAgentPrompt formats the user-role prompt used to merge several
// agents' independent answers into one coherent reply.
func buildMultiAgentPrompt(query string, outputs map[models.AgentKind]string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Original question: %q\n\n", query)
	b.WriteString("The following specialists each answered independently:\n")
	for _, kind := range sortedKinds(outputs) {
		fmt.Fprintf(&b, "\n**%s Perspective:**\n%s\n", agentLabel(kind), outputs[kind])
	}
	b.WriteString("\nSynthesize these into a single, coherent response that resolves any overlap and reads as one answer.")
	return b.String()
}

// concatenateOutputs is the synthesis-failure fallback: each perspective
// verbatim, labeled, in deterministic kind order.
func concatenateOutputs(outputs map[models.AgentKind]string) string {
	var b strings.Builder
	for i, kind := range sortedKinds(outputs) {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "**%s Perspective:**\n%s", agentLabel(kind), outputs[kind])
	}
	return b.String()
}

func sortedKinds(outputs map[models.AgentKind]string) []models.AgentKind {
	kinds := make([]models.AgentKind, 0, len(outputs))
	for k := range outputs {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

func agentLabel(kind models.AgentKind) string {
	switch kind {
	case models.AgentSales:
		return "Sales"
	case models.AgentTalent:
		return "Talent"
	case models.AgentAnalytics:
		return "Analytics"
	default:
		return string(kind)
	}
}
