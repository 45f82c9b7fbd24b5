package domain

import (
	"fmt"

	"github.com/solguard/scan-orchestrator/internal/scan/domain"
)

// NewTestFinding creates a finding with sensible defaults
func NewTestFinding(tool string, severity domain.Severity, title string, line int) domain.Finding {
	return domain.Finding{
		Tool:        tool,
		Severity:    severity,
		Title:       title,
		Description: fmt.Sprintf("%s reported by %s", title, tool),
		FilePath:    "contracts/Token.sol",
		Line:        line,
	}
}

// NewTestSource creates an in-memory contract source
func NewTestSource(code string) domain.Source {
	if code == "" {
		code = "pragma solidity ^0.8.0;\ncontract Token {}\n"
	}
	return domain.Source{Content: []byte(code)}
}

// NewTestToolResult wraps findings as a successful tool run
func NewTestToolResult(tool string, findings ...domain.Finding) domain.ToolResult {
	return domain.ToolResult{Tool: tool, Findings: findings}
}

// NewFailedToolResult records a tool execution error
func NewFailedToolResult(tool, errMsg string, timedOut bool) domain.ToolResult {
	return domain.ToolResult{Tool: tool, Err: errMsg, TimedOut: timedOut}
}
