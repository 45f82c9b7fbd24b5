package dto

// SubmitScanRequest starts one scan. Exactly one of SourcePath or SourceCode
// must be set.
type SubmitScanRequest struct {
	SourcePath string   `json:"sourcePath,omitempty"`
	SourceCode string   `json:"sourceCode,omitempty"`
	Network    string   `json:"network,omitempty"`
	Tools      []string `json:"tools"`
}

type SubmitScanResponse struct {
	JobID string `json:"jobId"`
}

type ToolResult struct {
	Tool     string    `json:"tool"`
	Findings []Finding `json:"findings,omitempty"`
	Error    string    `json:"error,omitempty"`
	TimedOut bool      `json:"timedOut,omitempty"`
}

type Finding struct {
	Tool           string   `json:"tool"`
	Severity       string   `json:"severity"`
	Title          string   `json:"title"`
	Description    string   `json:"description,omitempty"`
	FilePath       string   `json:"filePath,omitempty"`
	Line           int      `json:"line,omitempty"`
	Recommendation string   `json:"recommendation,omitempty"`
	Confidence     *float64 `json:"confidence,omitempty"`
	RiskScore      *int     `json:"riskScore,omitempty"`
}

type SeveritySummary struct {
	High   int `json:"high"`
	Medium int `json:"medium"`
	Low    int `json:"low"`
	Info   int `json:"info"`
}

type Report struct {
	Findings []Finding       `json:"findings"`
	Summary  SeveritySummary `json:"summary"`
	Score    int             `json:"score"`
}

type ScanJob struct {
	JobID       string       `json:"jobId"`
	Status      string       `json:"status"`
	Progress    int          `json:"progress"`
	Network     string       `json:"network,omitempty"`
	Tools       []string     `json:"tools"`
	ToolResults []ToolResult `json:"toolResults,omitempty"`
	Result      *Report      `json:"result,omitempty"`
	Error       string       `json:"error,omitempty"`
	CreatedAt   string       `json:"createdAt"`
	UpdatedAt   string       `json:"updatedAt"`
}

type GetScanResponse struct {
	Job ScanJob `json:"job"`
}

type CancelScanResponse struct {
	JobID  string `json:"jobId"`
	Status string `json:"status"`
}

type ListScansResponse struct {
	Contents []ScanJob `json:"contents"`
	Count    int       `json:"count"`
}
