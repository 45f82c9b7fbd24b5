package dto

type BatchSource struct {
	Path    string `json:"path,omitempty"`
	Content string `json:"content,omitempty"`
}

type SubmitBatchRequest struct {
	Network string        `json:"network,omitempty"`
	Tools   []string      `json:"tools"`
	Sources []BatchSource `json:"sources"`
}

type SubmitBatchResponse struct {
	BatchID string `json:"batchId"`
}

type BatchStatusResponse struct {
	BatchID        string   `json:"batchId"`
	Status         string   `json:"status"`
	ProcessedCount int      `json:"processedCount"`
	FailedCount    int      `json:"failedCount"`
	Progress       int      `json:"progress"`
	ChildJobIDs    []string `json:"childJobIds"`
	CreatedAt      string   `json:"createdAt"`
	UpdatedAt      string   `json:"updatedAt"`
	EndedAt        string   `json:"endedAt,omitempty"`
}

type CancelBatchResponse struct {
	BatchID string `json:"batchId"`
	Status  string `json:"status"`
}
