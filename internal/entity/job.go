package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/receipt-ledger/constants"
)

// Job represents one receipt's progress from upload through its terminal
// outcome. Created by the ingest gateway, finalized exactly once by the
// extraction worker.
type Job struct {
	ID               uuid.UUID           `json:"id"`
	OwnerID          uuid.UUID           `json:"owner_id"`
	WalletID         uuid.UUID           `json:"wallet_id"`
	BlobKey          string              `json:"blob_key"`
	OriginalFilename string              `json:"original_filename"`
	ContentType      string              `json:"content_type"`
	SizeBytes        int64               `json:"size_bytes"`
	Status           constants.JobStatus `json:"status"`
	AnalysisResult   json.RawMessage     `json:"analysis_result,omitempty"`
	ErrorMessage     *string             `json:"error_message,omitempty"`
	TransactionID    *uuid.UUID          `json:"transaction_id,omitempty"`
	CreatedAt        time.Time           `json:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at"`
}

// UsageRecord is one append-only row per analysis-service invocation.
type UsageRecord struct {
	ID               uuid.UUID `json:"id"`
	JobID            uuid.UUID `json:"job_id"`
	PromptExcerpt    string    `json:"prompt_excerpt"`
	ResponseExcerpt  string    `json:"response_excerpt"`
	PromptTokens     int32     `json:"prompt_tokens"`
	CompletionTokens int32     `json:"completion_tokens"`
	TotalTokens      int32     `json:"total_tokens"`
	LatencyMs        int64     `json:"latency_ms"`
	Success          bool      `json:"success"`
	CreatedAt        time.Time `json:"created_at"`
}
