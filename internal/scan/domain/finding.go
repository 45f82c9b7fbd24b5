package domain

import (
	"strconv"
	"strings"
)

// Severity classifies a finding reported by an analysis tool
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
	SeverityInfo   Severity = "info"
)

// ParseSeverity normalizes a tool-reported severity string. Unknown values
// map to info so a misbehaving tool cannot inflate the report.
func ParseSeverity(s string) Severity {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "high", "critical":
		return SeverityHigh
	case "medium", "moderate":
		return SeverityMedium
	case "low", "minor":
		return SeverityLow
	default:
		return SeverityInfo
	}
}

// Finding is one reported issue from one analysis tool
type Finding struct {
	Tool           string
	Severity       Severity
	Title          string
	Description    string
	FilePath       string
	Line           int
	Recommendation string

	// Set by the enrichment pass
	Confidence *float64
	RiskScore  *int
}

// DedupKey identifies findings that refer to the same issue across tools
func (f Finding) DedupKey() string {
	return f.FilePath + "\x00" + strconv.Itoa(f.Line) + "\x00" + NormalizeTitle(f.Title)
}

// NormalizeTitle lowercases a finding title and collapses internal whitespace
// so that cosmetic differences between tools do not defeat deduplication
func NormalizeTitle(title string) string {
	return strings.Join(strings.Fields(strings.ToLower(title)), " ")
}

// SeveritySummary holds per-severity counts over a deduplicated finding set
type SeveritySummary struct {
	High   int
	Medium int
	Low    int
	Info   int
}

// Add increments the counter matching the severity
func (s *SeveritySummary) Add(sev Severity) {
	switch sev {
	case SeverityHigh:
		s.High++
	case SeverityMedium:
		s.Medium++
	case SeverityLow:
		s.Low++
	default:
		s.Info++
	}
}

// Total returns the number of counted findings
func (s SeveritySummary) Total() int {
	return s.High + s.Medium + s.Low + s.Info
}

// Report is the merged, deduplicated result of all tool runs for one job
type Report struct {
	Findings []Finding
	Summary  SeveritySummary
	Score    int
}

// Clone returns a deep copy of the report
func (r *Report) Clone() *Report {
	if r == nil {
		return nil
	}
	out := &Report{
		Findings: make([]Finding, len(r.Findings)),
		Summary:  r.Summary,
		Score:    r.Score,
	}
	copy(out.Findings, r.Findings)
	return out
}
