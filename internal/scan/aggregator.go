package scan

import (
	"errors"
	"sort"

	"github.com/solguard/scan-orchestrator/config"
	"github.com/solguard/scan-orchestrator/internal/scan/domain"
)

var ErrAllToolsFailed = errors.New("all analysis tools failed")

// Aggregator merges the raw findings of every tool run on one source unit
// into a single deduplicated report with a 0-100 security score.
type Aggregator struct {
	highWeight   int
	mediumWeight int
}

// NewAggregator builds an aggregator with the configured severity weights
func NewAggregator(cfg config.ScanConfig) *Aggregator {
	cfg = cfg.WithDefaults()
	return &Aggregator{
		highWeight:   cfg.HighSeverityWeight,
		mediumWeight: cfg.MediumSeverityWeight,
	}
}

// Merge combines tool results into one report. Tool results that carry an
// error are skipped; when every tool errored it returns ErrAllToolsFailed so
// "nothing found" stays distinguishable from "could not analyze".
// The priority slice fixes the tie-break order for duplicate findings: the
// instance from the tool listed first wins.
func (a *Aggregator) Merge(results map[string]domain.ToolResult, priority []string) (*domain.Report, error) {
	rank := make(map[string]int, len(priority))
	for i, tool := range priority {
		rank[tool] = i
	}
	toolRank := func(tool string) int {
		if r, ok := rank[tool]; ok {
			return r
		}
		return len(priority)
	}

	usable := 0
	deduped := make(map[string]domain.Finding)
	for _, res := range results {
		if res.Failed() {
			continue
		}
		usable++
		for _, f := range res.Findings {
			key := f.DedupKey()
			existing, seen := deduped[key]
			if !seen || toolRank(f.Tool) < toolRank(existing.Tool) {
				deduped[key] = f
			}
		}
	}

	if usable == 0 {
		return nil, ErrAllToolsFailed
	}

	report := &domain.Report{
		Findings: make([]domain.Finding, 0, len(deduped)),
	}
	for _, f := range deduped {
		report.Findings = append(report.Findings, f)
		report.Summary.Add(f.Severity)
	}

	// Stable output order: severity first, then location
	sort.Slice(report.Findings, func(i, j int) bool {
		fi, fj := report.Findings[i], report.Findings[j]
		if ri, rj := severityRank(fi.Severity), severityRank(fj.Severity); ri != rj {
			return ri < rj
		}
		if fi.FilePath != fj.FilePath {
			return fi.FilePath < fj.FilePath
		}
		if fi.Line != fj.Line {
			return fi.Line < fj.Line
		}
		return fi.Title < fj.Title
	})

	report.Score = a.score(report.Summary)
	return report, nil
}

func (a *Aggregator) score(summary domain.SeveritySummary) int {
	score := 100 - summary.High*a.highWeight - summary.Medium*a.mediumWeight
	if score < 0 {
		score = 0
	}
	return score
}

func severityRank(s domain.Severity) int {
	switch s {
	case domain.SeverityHigh:
		return 0
	case domain.SeverityMedium:
		return 1
	case domain.SeverityLow:
		return 2
	default:
		return 3
	}
}
