package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/solguard/scan-orchestrator/internal/scan/domain"
	scanPort "github.com/solguard/scan-orchestrator/internal/scan/port"
	"github.com/solguard/scan-orchestrator/pkg/logger"
)

// CLIRunner executes an external analysis tool as a subprocess. The tool is
// expected to print a JSON findings document on stdout; see cliOutput for
// the accepted shape. The source file path is substituted for the "{target}"
// placeholder in the argument list.
type CLIRunner struct {
	name   string
	binary string
	args   []string
}

func NewCLIRunner(name, binary string, args ...string) *CLIRunner {
	return &CLIRunner{name: name, binary: binary, args: args}
}

func (r *CLIRunner) Name() string {
	return r.name
}

func (r *CLIRunner) Run(ctx context.Context, src domain.Source) ([]domain.Finding, error) {
	target, cleanup, err := stageSource(src)
	if err != nil {
		return nil, fmt.Errorf("failed to stage source for %s: %w", r.name, err)
	}
	defer cleanup()

	args := make([]string, 0, len(r.args))
	for _, arg := range r.args {
		args = append(args, strings.ReplaceAll(arg, "{target}", target))
	}

	logger.Debug("executing analysis tool: %s %s", r.binary, strings.Join(args, " "))

	cmd := exec.CommandContext(ctx, r.binary, args...)
	output, err := cmd.Output()

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if err != nil {
		// Several analyzers exit non-zero when findings exist; only treat
		// the run as failed when nothing parseable came back
		if len(output) == 0 {
			return nil, fmt.Errorf("tool %s failed: %w", r.name, err)
		}
	}

	findings, parseErr := parseCLIOutput(r.name, output)
	if parseErr != nil {
		if err != nil {
			return nil, fmt.Errorf("tool %s failed: %w", r.name, err)
		}
		return nil, parseErr
	}
	return findings, nil
}

// cliOutput is the normalized document the tool wrappers emit
type cliOutput struct {
	Findings []cliFinding `json:"findings"`
}

type cliFinding struct {
	Severity    string `json:"severity"`
	Title       string `json:"title"`
	Description string `json:"description"`
	File        string `json:"file"`
	Line        int    `json:"line"`
	Remediation string `json:"remediation"`
}

func parseCLIOutput(tool string, output []byte) ([]domain.Finding, error) {
	var doc cliOutput
	if err := json.Unmarshal(output, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse %s output: %w", tool, err)
	}

	findings := make([]domain.Finding, 0, len(doc.Findings))
	for _, f := range doc.Findings {
		if f.Title == "" {
			continue
		}
		findings = append(findings, domain.Finding{
			Tool:           tool,
			Severity:       domain.ParseSeverity(f.Severity),
			Title:          f.Title,
			Description:    f.Description,
			FilePath:       f.File,
			Line:           f.Line,
			Recommendation: f.Remediation,
		})
	}
	return findings, nil
}

// stageSource makes the scan source addressable as a file on disk. In-memory
// sources are written to a temp file removed by the returned cleanup func.
func stageSource(src domain.Source) (string, func(), error) {
	if src.Path != "" {
		return src.Path, func() {}, nil
	}

	tmp, err := os.CreateTemp("", "scan-src-*.sol")
	if err != nil {
		return "", nil, err
	}
	if _, err := tmp.Write(src.Content); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", nil, err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", nil, err
	}

	path := tmp.Name()
	return path, func() {
		if err := os.Remove(path); err != nil {
			logger.Debug("failed to remove staged source %s: %v", filepath.Base(path), err)
		}
	}, nil
}

var _ scanPort.ToolRunner = (*CLIRunner)(nil)
