package graphtools

import "strings"

const snippetWindow = 200

// extractSnippet finds the first occurrence of any query term in content
// and returns a window of at most snippetWindow characters centered on it,
// with ellipses where the window was truncated. If no term is found, it
// returns the content's prefix.
func extractSnippet(content string, terms []string) string {
	lower := strings.ToLower(content)

	bestIdx := -1
	for _, term := range terms {
		term = strings.ToLower(strings.TrimSpace(term))
		if term == "" {
			continue
		}
		if idx := strings.Index(lower, term); idx >= 0 && (bestIdx == -1 || idx < bestIdx) {
			bestIdx = idx
		}
	}

	if bestIdx == -1 {
		return truncatePrefix(content, snippetWindow)
	}

	half := snippetWindow / 2
	start := bestIdx - half
	if start < 0 {
		start = 0
	}
	end := start + snippetWindow
	if end > len(content) {
		end = len(content)
		start = end - snippetWindow
		if start < 0 {
			start = 0
		}
	}

	snippet := content[start:end]
	if start > 0 {
		snippet = "..." + snippet
	}
	if end < len(content) {
		snippet = snippet + "..."
	}
	return snippet
}

func truncatePrefix(content string, limit int) string {
	if len(content) <= limit {
		return content
	}
	return content[:limit] + "..."
}

func queryTerms(query string) []string {
	return strings.Fields(query)
}
