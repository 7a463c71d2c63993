package conversation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/haasonsaas/orchestrator/pkg/models"
)

const fallbackApology = "I wasn't able to put together a complete answer to that just now. Could you try rephrasing, or ask again in a moment?"

// buildSynthesisPrompt formats the user-role prompt generate_response uses
// to compose a final answer from gathered tool results.
func buildSynthesisPrompt(query string, toolResults map[string]models.ToolResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Based on the user's question: %q\n", query)
	b.WriteString("I have gathered the following information:\n")
	names := make([]string, 0, len(toolResults))
	for name := range toolResults {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(&b, "**%s**: %s\n", name, toolResults[name].Content)
	}
	b.WriteString("Please provide a comprehensive and helpful response based on this information.")
	return b.String()
}
