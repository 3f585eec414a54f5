package llm

import "context"

// ReceiptFields is the normalized shape we want from the model.
type ReceiptFields struct {
	Merchant   string     `json:"merchant"`
	Total      float64    `json:"total"`
	TxDate     string     `json:"date,omitempty"` // YYYY-MM-DD
	Items      []LineItem `json:"items,omitempty"`
	Category   string     `json:"category,omitempty"`
	TxType     string     `json:"type,omitempty"` // income | expense
	Confidence float64    `json:"confidence,omitempty"`
}

// LineItem is one purchased entry on the receipt.
type LineItem struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Price    float64 `json:"price"` // unit price
}

// AnalyzeResponse carries the untrusted model reply plus token accounting.
type AnalyzeResponse struct {
	Text             string
	PromptTokens     int32
	CompletionTokens int32
	TotalTokens      int32
}

// Analyzer is the multimodal analysis-service boundary the worker depends on.
// The returned Text must be schema-validated before use.
type Analyzer interface {
	Analyze(ctx context.Context, prompt, imageURL, contentType string) (*AnalyzeResponse, error)
}
