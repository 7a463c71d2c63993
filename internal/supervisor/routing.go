package supervisor

import (
	"strings"

	"github.com/haasonsaas/orchestrator/pkg/models"
)

// domainKeywords is the fixed keyword set scored per domain. Score for a
// domain is matches/len(keywords) — deliberately coarse; this is a routing
// hint, not a classifier an agent should trust for anything beyond picking
// who answers.
var domainKeywords = map[models.AgentKind][]string{
	models.AgentSales: {
		"deal", "client", "pitch", "proposal", "contract", "revenue",
		"pipeline", "lead", "prospect", "sourcing",
	},
	models.AgentTalent: {
		"talent", "staff", "hire", "crew", "collaborator", "skill",
		"available", "freelancer", "director", "cast",
	},
	models.AgentAnalytics: {
		"report", "trend", "forecast", "performance", "vendor", "budget",
		"analysis", "metrics", "roi", "document",
	},
}

// scoreDomains counts keyword occurrences per domain and normalizes by the
// domain's keyword-set size.
func scoreDomains(queryText string) map[models.AgentKind]float64 {
	lower := strings.ToLower(queryText)
	scores := make(map[models.AgentKind]float64, len(domainKeywords))
	for domain, keywords := range domainKeywords {
		matches := 0
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				matches++
			}
		}
		scores[domain] = float64(matches) / float64(len(keywords))
	}
	return scores
}

// RoutingConfig tunes the thresholds in spec §4.4's routing algorithm.
type RoutingConfig struct {
	// MultiAgentThreshold: a query routes to MultiAgent when more than one
	// domain scores at or above this.
	MultiAgentThreshold float64
	// SingleAgentThreshold: the best single domain must reach this to route
	// SingleAgent without going through the multi-domain check.
	SingleAgentThreshold float64
}

// DefaultRoutingConfig matches the spec's stated defaults.
func DefaultRoutingConfig() RoutingConfig {
	return RoutingConfig{MultiAgentThreshold: 0.3, SingleAgentThreshold: 0.7}
}

// route implements the spec §4.4 decision tree: explicit preference wins
// outright; else a multi-domain tie routes to MultiAgent; else a
// sufficiently confident single domain routes SingleAgent; else Sales is
// the default fallback.
func route(queryText string, preferredAgent models.AgentKind, cfg RoutingConfig) models.RoutingDecision {
	if preferredAgent != "" {
		return models.RoutingDecision{
			Strategy: models.StrategySingleAgent,
			Primary:  preferredAgent,
		}
	}

	scores := scoreDomains(queryText)

	var best models.AgentKind
	bestScore := -1.0
	aboveMulti := 0
	for _, domain := range []models.AgentKind{models.AgentSales, models.AgentTalent, models.AgentAnalytics} {
		s := scores[domain]
		if s >= cfg.MultiAgentThreshold {
			aboveMulti++
		}
		if s > bestScore {
			best, bestScore = domain, s
		}
	}

	if aboveMulti > 1 {
		return models.RoutingDecision{Strategy: models.StrategyMultiAgent, Primary: best}
	}

	if bestScore >= cfg.SingleAgentThreshold {
		return models.RoutingDecision{Strategy: models.StrategySingleAgent, Primary: best}
	}

	return models.RoutingDecision{Strategy: models.StrategySingleAgent, Primary: models.AgentSales}
}
