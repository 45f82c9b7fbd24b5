package analyzer

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solguard/scan-orchestrator/internal/scan/domain"
)

func TestParseCLIOutput(t *testing.T) {
	raw := []byte(`{
		"findings": [
			{"severity": "High", "title": "Reentrancy", "description": "external call before state update", "file": "Token.sol", "line": 42, "remediation": "add a guard"},
			{"severity": "weird", "title": "Unclassified", "file": "Token.sol", "line": 1},
			{"severity": "low", "title": "", "line": 9}
		]
	}`)

	findings, err := parseCLIOutput("slither", raw)
	require.NoError(t, err)

	// The titleless entry is dropped
	require.Len(t, findings, 2)

	assert.Equal(t, "slither", findings[0].Tool)
	assert.Equal(t, domain.SeverityHigh, findings[0].Severity)
	assert.Equal(t, "Reentrancy", findings[0].Title)
	assert.Equal(t, "Token.sol", findings[0].FilePath)
	assert.Equal(t, 42, findings[0].Line)
	assert.Equal(t, "add a guard", findings[0].Recommendation)

	// Unknown severities degrade to informational
	assert.Equal(t, domain.SeverityInfo, findings[1].Severity)
}

func TestParseCLIOutput_MalformedJSON(t *testing.T) {
	_, err := parseCLIOutput("mythril", []byte("Traceback (most recent call last):"))
	assert.Error(t, err)
}

func TestParseCLIOutput_NoFindings(t *testing.T) {
	findings, err := parseCLIOutput("slither", []byte(`{"findings": []}`))
	require.NoError(t, err)
	assert.Empty(t, findings)
}

func TestStageSource_ExistingPath(t *testing.T) {
	src := domain.Source{Path: "/contracts/Token.sol"}

	target, cleanup, err := stageSource(src)
	require.NoError(t, err)
	defer cleanup()

	assert.Equal(t, "/contracts/Token.sol", target)
}

func TestStageSource_InMemoryContent(t *testing.T) {
	src := domain.Source{Content: []byte("contract A {}")}

	target, cleanup, err := stageSource(src)
	require.NoError(t, err)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "contract A {}", string(data))

	cleanup()
	_, err = os.Stat(target)
	assert.True(t, os.IsNotExist(err))
}
