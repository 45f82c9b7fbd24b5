package analyzer

import (
	"context"
	"os"
	"regexp"
	"strings"

	"github.com/solguard/scan-orchestrator/internal/scan/domain"
	scanPort "github.com/solguard/scan-orchestrator/internal/scan/port"
)

// vulnPattern is a single line-oriented detection rule
type vulnPattern struct {
	re          *regexp.Regexp
	severity    domain.Severity
	title       string
	description string
	remediation string
}

var solidityPatterns = []vulnPattern{
	{
		re:          regexp.MustCompile(`\btx\.origin\b`),
		severity:    domain.SeverityHigh,
		title:       "Use of tx.origin for authorization",
		description: "tx.origin refers to the original transaction sender and can be spoofed through an intermediate contract, allowing phishing-style authorization bypass.",
		remediation: "Use msg.sender for authorization checks.",
	},
	{
		re:          regexp.MustCompile(`\.call\{?.*\}?\s*\(\s*["']{2}`),
		severity:    domain.SeverityHigh,
		title:       "Low-level call with unchecked return value",
		description: "Low-level call() forwards all gas and does not revert on failure, enabling reentrancy and silent failures.",
		remediation: "Check the returned success flag and prefer transfer patterns with reentrancy guards.",
	},
	{
		re:          regexp.MustCompile(`\bdelegatecall\b`),
		severity:    domain.SeverityHigh,
		title:       "Use of delegatecall",
		description: "delegatecall executes foreign code in the caller's storage context; an attacker-controlled target can overwrite arbitrary storage slots.",
		remediation: "Restrict delegatecall targets to audited, immutable implementations.",
	},
	{
		re:          regexp.MustCompile(`\bblock\.timestamp\b|\bnow\b`),
		severity:    domain.SeverityMedium,
		title:       "Block timestamp dependence",
		description: "Miners can skew block.timestamp by several seconds, which makes it unsafe as a source of randomness or for tight deadline logic.",
		remediation: "Avoid timestamp-based randomness; tolerate a drift window for deadlines.",
	},
	{
		re:          regexp.MustCompile(`\bselfdestruct\b|\bsuicide\b`),
		severity:    domain.SeverityMedium,
		title:       "Contract can self-destruct",
		description: "selfdestruct removes the contract code and force-sends its balance, which can brick dependent contracts.",
		remediation: "Remove selfdestruct or guard it behind multi-sig governance.",
	},
	{
		re:          regexp.MustCompile(`pragma\s+solidity\s*[\^>]`),
		severity:    domain.SeverityInfo,
		title:       "Floating pragma",
		description: "A floating or open-ended pragma lets the contract compile with untested compiler versions.",
		remediation: "Pin the pragma to a single tested compiler version.",
	},
}

// PatternRunner is the built-in lexical analyzer. It needs no external
// binaries, which makes it the baseline tool that is always available.
type PatternRunner struct{}

func NewPatternRunner() *PatternRunner {
	return &PatternRunner{}
}

func (r *PatternRunner) Name() string {
	return "pattern"
}

func (r *PatternRunner) Run(ctx context.Context, src domain.Source) ([]domain.Finding, error) {
	content := src.Content
	path := src.Path
	if len(content) == 0 && path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		content = data
	}
	if path == "" {
		path = "contract.sol"
	}

	var findings []domain.Finding
	for i, line := range strings.Split(string(content), "\n") {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "//") {
			continue
		}
		for _, p := range solidityPatterns {
			if !p.re.MatchString(line) {
				continue
			}
			findings = append(findings, domain.Finding{
				Tool:           r.Name(),
				Severity:       p.severity,
				Title:          p.title,
				Description:    p.description,
				FilePath:       path,
				Line:           i + 1,
				Recommendation: p.remediation,
			})
		}
	}
	return findings, nil
}

var _ scanPort.ToolRunner = (*PatternRunner)(nil)
