package llm

import "strings"

// BuildExtractionPrompt composes the fixed-schema instruction set for the
// analysis service. The reply contract mirrors BuildExtractionJSONSchema.
func BuildExtractionPrompt() string {
	parts := []string{
		"You are a receipts parser. Look at the attached receipt image and return ONLY JSON.",
		"Output a single JSON object with these fields:",
		`- "merchant": string, the merchant or store name`,
		`- "total": number, the grand total paid`,
		`- "date": string, ISO format "YYYY-MM-DD"`,
		`- "items": array of {"name": string, "quantity": number, "price": number (unit price)}`,
		`- "category": string, a short sensible spending category`,
		`- "type": string, "expense" for purchases, "income" for refunds or payouts`,
		`- "confidence": number between 0 and 1`,
		"If a field is not visible, omit it. Never output null.",
		"Return ONLY valid raw JSON.",
		"Do NOT wrap the response in code fences.",
		"Do NOT use ```json or any Markdown.",
		`Output must begin with "{" and end with "}".`,
	}
	return strings.Join(parts, "\n")
}

// BuildExtractionJSONSchema returns a JSON-Schema (draft 2020-12 subset) as a
// generic map, used locally to validate the model reply. The schema stays
// lenient on purpose: absent fields get defaults downstream, so almost
// nothing is required and only wrong shapes are rejected.
func BuildExtractionJSONSchema() map[string]any {
	item := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"name":     map[string]any{"type": "string"},
			"quantity": map[string]any{"type": "number"},
			"price":    map[string]any{"type": "number"},
		},
	}
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"merchant":   map[string]any{"type": "string"},
			"total":      map[string]any{"type": "number"},
			"date":       map[string]any{"type": "string"},
			"items":      map[string]any{"type": "array", "items": item},
			"category":   map[string]any{"type": "string"},
			"type":       map[string]any{"type": "string", "enum": []string{"income", "expense"}},
			"confidence": map[string]any{"type": "number"},
		},
	}
}
