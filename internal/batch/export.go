package batch

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"html/template"
	"strconv"
	"time"

	"github.com/solguard/scan-orchestrator/internal/batch/domain"
	scanDomain "github.com/solguard/scan-orchestrator/internal/scan/domain"
)

// exportedBatch is the JSON export document
type exportedBatch struct {
	BatchID        string        `json:"batchId"`
	Status         string        `json:"status"`
	ProcessedCount int           `json:"processedCount"`
	FailedCount    int           `json:"failedCount"`
	Progress       int           `json:"progress"`
	GeneratedAt    time.Time     `json:"generatedAt"`
	Jobs           []exportedJob `json:"jobs"`
}

type exportedJob struct {
	JobID    string            `json:"jobId"`
	Status   string            `json:"status"`
	Error    string            `json:"error,omitempty"`
	Score    *int              `json:"score,omitempty"`
	Findings []exportedFinding `json:"findings"`
}

type exportedFinding struct {
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

func toExportedFindings(findings []scanDomain.Finding) []exportedFinding {
	out := make([]exportedFinding, 0, len(findings))
	for _, f := range findings {
		out = append(out, exportedFinding{
			Tool:           f.Tool,
			Severity:       string(f.Severity),
			Title:          f.Title,
			Description:    f.Description,
			FilePath:       f.FilePath,
			Line:           f.Line,
			Recommendation: f.Recommendation,
			Confidence:     f.Confidence,
			RiskScore:      f.RiskScore,
		})
	}
	return out
}

func buildExport(b domain.BatchJob, children []domain.ChildView) exportedBatch {
	doc := exportedBatch{
		BatchID:        b.ID,
		Status:         string(b.Status),
		ProcessedCount: b.ProcessedCount,
		FailedCount:    b.FailedCount,
		Progress:       b.Progress,
		GeneratedAt:    time.Now(),
		Jobs:           make([]exportedJob, 0, len(children)),
	}
	for _, child := range children {
		job := exportedJob{
			JobID:    child.JobID,
			Status:   string(child.Status),
			Error:    child.Error,
			Findings: []exportedFinding{},
		}
		if child.Result != nil {
			score := child.Result.Score
			job.Score = &score
			job.Findings = toExportedFindings(child.Result.Findings)
		}
		doc.Jobs = append(doc.Jobs, job)
	}
	return doc
}

func exportJSON(b domain.BatchJob, children []domain.ChildView) ([]byte, string, error) {
	data, err := json.MarshalIndent(buildExport(b, children), "", "  ")
	if err != nil {
		return nil, "", fmt.Errorf("failed to render JSON export: %w", err)
	}
	return data, "application/json", nil
}

func exportCSV(b domain.BatchJob, children []domain.ChildView) ([]byte, string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"batch_id", "job_id", "job_status", "severity", "title", "file", "line", "tool", "description"}
	if err := w.Write(header); err != nil {
		return nil, "", fmt.Errorf("failed to render CSV export: %w", err)
	}

	for _, child := range children {
		if child.Result == nil || len(child.Result.Findings) == 0 {
			// Keep one row per resultless job so the export reflects the
			// whole batch
			row := []string{b.ID, child.JobID, string(child.Status), "", "", "", "", "", child.Error}
			if err := w.Write(row); err != nil {
				return nil, "", fmt.Errorf("failed to render CSV export: %w", err)
			}
			continue
		}
		for _, f := range child.Result.Findings {
			row := []string{
				b.ID,
				child.JobID,
				string(child.Status),
				string(f.Severity),
				f.Title,
				f.FilePath,
				strconv.Itoa(f.Line),
				f.Tool,
				f.Description,
			}
			if err := w.Write(row); err != nil {
				return nil, "", fmt.Errorf("failed to render CSV export: %w", err)
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, "", fmt.Errorf("failed to render CSV export: %w", err)
	}
	return buf.Bytes(), "text/csv", nil
}

var htmlReportTemplate = template.Must(template.New("batch-report").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Scan Report {{.BatchID}}</title>
<style>
body { font-family: sans-serif; margin: 2em; }
table { border-collapse: collapse; width: 100%; margin-bottom: 2em; }
th, td { border: 1px solid #ccc; padding: 6px 10px; text-align: left; }
th { background: #f0f0f0; }
.sev-high { color: #b00020; font-weight: bold; }
.sev-medium { color: #b36b00; }
.sev-low { color: #1a6b1a; }
.sev-info { color: #555; }
</style>
</head>
<body>
<h1>Batch Scan Report</h1>
<p>Batch {{.BatchID}} &mdash; status {{.Status}}, {{.ProcessedCount}} processed, {{.FailedCount}} failed, progress {{.Progress}}%</p>
{{range .Jobs}}
<h2>Job {{.JobID}} ({{.Status}})</h2>
{{if .Error}}<p>Error: {{.Error}}</p>{{end}}
{{if .Score}}<p>Security score: {{.Score}}</p>{{end}}
{{if .Findings}}
<table>
<tr><th>Severity</th><th>Title</th><th>File</th><th>Line</th><th>Tool</th><th>Recommendation</th></tr>
{{range .Findings}}
<tr><td class="sev-{{.Severity}}">{{.Severity}}</td><td>{{.Title}}</td><td>{{.FilePath}}</td><td>{{.Line}}</td><td>{{.Tool}}</td><td>{{.Recommendation}}</td></tr>
{{end}}
</table>
{{else}}
<p>No findings.</p>
{{end}}
{{end}}
</body>
</html>
`))

func exportHTML(b domain.BatchJob, children []domain.ChildView) ([]byte, string, error) {
	var buf bytes.Buffer
	if err := htmlReportTemplate.Execute(&buf, buildExport(b, children)); err != nil {
		return nil, "", fmt.Errorf("failed to render HTML export: %w", err)
	}
	return buf.Bytes(), "text/html", nil
}
