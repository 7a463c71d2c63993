package conversation

import (
	"strings"

	"github.com/haasonsaas/orchestrator/pkg/models"
)

// classify maps a query's lower-cased text to the first matching keyword
// group, in the order given, falling back to fallback when nothing matches.
func classify(textLower string, groups []keywordGroup, fallback string) string {
	for _, g := range groups {
		for _, kw := range g.keywords {
			if strings.Contains(textLower, kw) {
				return g.taskType
			}
		}
	}
	return fallback
}

type keywordGroup struct {
	taskType string
	keywords []string
}

// estimateComplexity sizes a query by word count: short questions route to
// cheaper models, longer multi-clause asks to higher-quality ones. This is
// a simple, deterministic proxy — no agent depends on exact boundaries.
func estimateComplexity(text string) models.ComplexityLevel {
	words := 0
	inWord := false
	for _, r := range text {
		if r == ' ' || r == '\t' || r == '\n' {
			inWord = false
			continue
		}
		if !inWord {
			words++
			inWord = true
		}
	}
	switch {
	case words <= 8:
		return models.ComplexitySimple
	case words <= 25:
		return models.ComplexityModerate
	default:
		return models.ComplexityComplex
	}
}
