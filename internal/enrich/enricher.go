package enrich

import (
	"context"
	"strings"

	"github.com/solguard/scan-orchestrator/internal/scan/domain"
	scanPort "github.com/solguard/scan-orchestrator/internal/scan/port"
)

// HeuristicEnricher annotates merged findings with a confidence estimate, a
// numeric risk score and a fallback remediation hint. It is deterministic:
// the same input report always yields the same annotations.
type HeuristicEnricher struct{}

func NewHeuristicEnricher() *HeuristicEnricher {
	return &HeuristicEnricher{}
}

var severityBase = map[domain.Severity]struct {
	confidence float64
	risk       int
}{
	domain.SeverityHigh:   {confidence: 0.9, risk: 85},
	domain.SeverityMedium: {confidence: 0.75, risk: 55},
	domain.SeverityLow:    {confidence: 0.6, risk: 25},
	domain.SeverityInfo:   {confidence: 0.5, risk: 5},
}

// keywordBoosts bump the risk score for finding classes with a track record
// of real-world exploitation
var keywordBoosts = map[string]int{
	"reentrancy":   10,
	"delegatecall": 10,
	"overflow":     5,
	"tx.origin":    5,
	"access":       5,
}

var fallbackRemediation = map[domain.Severity]string{
	domain.SeverityHigh:   "Treat as a release blocker: reproduce the issue, add a regression test and patch before deployment.",
	domain.SeverityMedium: "Schedule a fix for the next release cycle and document the exposure until then.",
	domain.SeverityLow:    "Address during routine refactoring.",
	domain.SeverityInfo:   "Review for code-quality impact; no direct security exposure.",
}

func (e *HeuristicEnricher) Enrich(ctx context.Context, findings []domain.Finding) ([]domain.Finding, error) {
	enriched := make([]domain.Finding, len(findings))
	for i, f := range findings {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		base := severityBase[f.Severity]
		confidence := base.confidence
		risk := base.risk

		haystack := strings.ToLower(f.Title + " " + f.Description)
		for keyword, boost := range keywordBoosts {
			if strings.Contains(haystack, keyword) {
				risk += boost
			}
		}
		if risk > 100 {
			risk = 100
		}

		if f.Confidence == nil {
			f.Confidence = &confidence
		}
		if f.RiskScore == nil {
			f.RiskScore = &risk
		}
		if f.Recommendation == "" {
			f.Recommendation = fallbackRemediation[f.Severity]
		}
		enriched[i] = f
	}
	return enriched, nil
}

var _ scanPort.Enricher = (*HeuristicEnricher)(nil)
