package scan_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solguard/scan-orchestrator/config"
	"github.com/solguard/scan-orchestrator/internal/scan"
	"github.com/solguard/scan-orchestrator/internal/scan/domain"
	domainFixtures "github.com/solguard/scan-orchestrator/tests/fixtures/domain"
)

func newTestAggregator() *scan.Aggregator {
	return scan.NewAggregator(config.ScanConfig{})
}

func TestAggregator_Merge_DeduplicatesAcrossTools(t *testing.T) {
	agg := newTestAggregator()

	// Both tools report the same issue at the same location; titles differ
	// only in case and spacing
	slitherFinding := domainFixtures.NewTestFinding("slither", domain.SeverityHigh, "Reentrancy  in withdraw()", 42)
	mythrilFinding := domainFixtures.NewTestFinding("mythril", domain.SeverityHigh, "reentrancy in withdraw()", 42)

	results := map[string]domain.ToolResult{
		"slither": domainFixtures.NewTestToolResult("slither", slitherFinding),
		"mythril": domainFixtures.NewTestToolResult("mythril", mythrilFinding),
	}

	report, err := agg.Merge(results, []string{"slither", "mythril"})
	require.NoError(t, err)
	require.Len(t, report.Findings, 1)

	// The tool listed first in the priority order wins the tie-break
	assert.Equal(t, "slither", report.Findings[0].Tool)
	assert.Equal(t, 1, report.Summary.High)
	assert.Equal(t, 1, report.Summary.Total())
}

func TestAggregator_Merge_KeepsDistinctLocations(t *testing.T) {
	agg := newTestAggregator()

	results := map[string]domain.ToolResult{
		"slither": domainFixtures.NewTestToolResult("slither",
			domainFixtures.NewTestFinding("slither", domain.SeverityHigh, "Reentrancy", 42),
			domainFixtures.NewTestFinding("slither", domain.SeverityHigh, "Reentrancy", 99),
		),
	}

	report, err := agg.Merge(results, []string{"slither"})
	require.NoError(t, err)
	assert.Len(t, report.Findings, 2)
}

func TestAggregator_Merge_Score(t *testing.T) {
	tests := []struct {
		name     string
		findings []domain.Finding
		expected int
	}{
		{
			name:     "no findings keeps full score",
			findings: nil,
			expected: 100,
		},
		{
			name: "two high one medium",
			findings: []domain.Finding{
				domainFixtures.NewTestFinding("slither", domain.SeverityHigh, "Reentrancy", 10),
				domainFixtures.NewTestFinding("slither", domain.SeverityHigh, "Unchecked call", 20),
				domainFixtures.NewTestFinding("slither", domain.SeverityMedium, "Timestamp dependence", 30),
			},
			expected: 50,
		},
		{
			name: "low and info do not reduce the score",
			findings: []domain.Finding{
				domainFixtures.NewTestFinding("slither", domain.SeverityLow, "Shadowed variable", 10),
				domainFixtures.NewTestFinding("slither", domain.SeverityInfo, "Floating pragma", 1),
			},
			expected: 100,
		},
		{
			name: "score floors at zero",
			findings: []domain.Finding{
				domainFixtures.NewTestFinding("slither", domain.SeverityHigh, "Issue A", 1),
				domainFixtures.NewTestFinding("slither", domain.SeverityHigh, "Issue B", 2),
				domainFixtures.NewTestFinding("slither", domain.SeverityHigh, "Issue C", 3),
				domainFixtures.NewTestFinding("slither", domain.SeverityHigh, "Issue D", 4),
				domainFixtures.NewTestFinding("slither", domain.SeverityHigh, "Issue E", 5),
				domainFixtures.NewTestFinding("slither", domain.SeverityHigh, "Issue F", 6),
			},
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			agg := newTestAggregator()
			results := map[string]domain.ToolResult{
				"slither": domainFixtures.NewTestToolResult("slither", tt.findings...),
			}
			report, err := agg.Merge(results, []string{"slither"})
			require.NoError(t, err)
			assert.Equal(t, tt.expected, report.Score)
		})
	}
}

func TestAggregator_Merge_ConfigurableWeights(t *testing.T) {
	agg := scan.NewAggregator(config.ScanConfig{
		HighSeverityWeight:   30,
		MediumSeverityWeight: 5,
	})

	results := map[string]domain.ToolResult{
		"slither": domainFixtures.NewTestToolResult("slither",
			domainFixtures.NewTestFinding("slither", domain.SeverityHigh, "Reentrancy", 10),
			domainFixtures.NewTestFinding("slither", domain.SeverityMedium, "Timestamp", 20),
		),
	}

	report, err := agg.Merge(results, []string{"slither"})
	require.NoError(t, err)
	assert.Equal(t, 65, report.Score)
}

func TestAggregator_Merge_SkipsFailedTools(t *testing.T) {
	agg := newTestAggregator()

	results := map[string]domain.ToolResult{
		"slither": domainFixtures.NewTestToolResult("slither",
			domainFixtures.NewTestFinding("slither", domain.SeverityMedium, "Timestamp", 20)),
		"mythril": domainFixtures.NewFailedToolResult("mythril", "analysis timed out", true),
	}

	report, err := agg.Merge(results, []string{"slither", "mythril"})
	require.NoError(t, err)
	assert.Len(t, report.Findings, 1)
	assert.Equal(t, 90, report.Score)
}

func TestAggregator_Merge_AllToolsFailed(t *testing.T) {
	agg := newTestAggregator()

	results := map[string]domain.ToolResult{
		"slither": domainFixtures.NewFailedToolResult("slither", "binary not found", false),
		"mythril": domainFixtures.NewFailedToolResult("mythril", "analysis timed out", true),
	}

	report, err := agg.Merge(results, []string{"slither", "mythril"})
	assert.Nil(t, report)
	assert.ErrorIs(t, err, scan.ErrAllToolsFailed)
}

func TestAggregator_Merge_ZeroFindingsIsNotFailure(t *testing.T) {
	agg := newTestAggregator()

	results := map[string]domain.ToolResult{
		"slither": domainFixtures.NewTestToolResult("slither"),
	}

	report, err := agg.Merge(results, []string{"slither"})
	require.NoError(t, err)
	assert.Empty(t, report.Findings)
	assert.Equal(t, 100, report.Score)
}

func TestAggregator_Merge_SortsBySeverityThenLocation(t *testing.T) {
	agg := newTestAggregator()

	results := map[string]domain.ToolResult{
		"slither": domainFixtures.NewTestToolResult("slither",
			domainFixtures.NewTestFinding("slither", domain.SeverityInfo, "Pragma", 1),
			domainFixtures.NewTestFinding("slither", domain.SeverityHigh, "Reentrancy", 50),
			domainFixtures.NewTestFinding("slither", domain.SeverityMedium, "Timestamp", 10),
			domainFixtures.NewTestFinding("slither", domain.SeverityHigh, "Delegatecall", 7),
		),
	}

	report, err := agg.Merge(results, []string{"slither"})
	require.NoError(t, err)
	require.Len(t, report.Findings, 4)

	assert.Equal(t, domain.SeverityHigh, report.Findings[0].Severity)
	assert.Equal(t, 7, report.Findings[0].Line)
	assert.Equal(t, domain.SeverityHigh, report.Findings[1].Severity)
	assert.Equal(t, domain.SeverityMedium, report.Findings[2].Severity)
	assert.Equal(t, domain.SeverityInfo, report.Findings[3].Severity)
}
