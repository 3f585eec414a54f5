package llm

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"
)

const txDateLayout = "2006-01-02"

// DecodeFields turns an untrusted model reply into ReceiptFields: fence
// cleanup, sanitize, schema validation, then unmarshal. Any failure means
// the reply is unusable; callers must not retry.
// The cleaned JSON is returned alongside so it can be persisted verbatim.
func DecodeFields(raw string, logger *slog.Logger) (ReceiptFields, []byte, error) {
	cleaned := []byte(CleanModelJSON(raw))

	sanitized, _, err := SanitizeExtractionJSON(cleaned, logger)
	if err != nil {
		return ReceiptFields{}, nil, err
	}

	schema := BuildExtractionJSONSchema()
	if err := ValidateJSONAgainstSchema(schema, sanitized); err != nil {
		return ReceiptFields{}, nil, fmt.Errorf("schema validation failed: %w", err)
	}

	var out ReceiptFields
	if err := json.Unmarshal(sanitized, &out); err != nil {
		return ReceiptFields{}, nil, fmt.Errorf("unmarshal fields: %w", err)
	}
	return out, sanitized, nil
}

// ApplyDefaults fills the gaps a partial extraction leaves behind:
// merchant "Unknown", zero total (already the zero value), today's date when
// absent or unparseable, expense type, confidence clamped to [0,1].
func (f *ReceiptFields) ApplyDefaults(now time.Time) {
	if f.Merchant == "" {
		f.Merchant = "Unknown"
	}
	if _, err := time.Parse(txDateLayout, f.TxDate); err != nil {
		f.TxDate = now.Format(txDateLayout)
	}
	if f.TxType != "income" && f.TxType != "expense" {
		f.TxType = "expense"
	}
	if f.Confidence < 0 {
		f.Confidence = 0
	} else if f.Confidence > 1 {
		f.Confidence = 1
	}
}

// TxTime parses the (post-defaults) transaction date, falling back to now.
func (f ReceiptFields) TxTime(now time.Time) time.Time {
	t, err := time.Parse(txDateLayout, f.TxDate)
	if err != nil {
		return now
	}
	return t
}

// Excerpt truncates s for diagnostics and accounting rows.
func Excerpt(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "…(truncated)"
}
