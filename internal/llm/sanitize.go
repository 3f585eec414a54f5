package llm

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"maps"
	"strconv"
	"strings"
)

// CleanModelJSON strips Markdown code fences and surrounding noise that
// models emit despite instructions.
func CleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	// Handle ```json ... ``` or ``` ... ``` wrappers.
	if strings.HasPrefix(s, "```") {
		// Drop the first line (``` or ```json).
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			return s
		}
		s = strings.TrimSpace(s)
	}

	// Remove trailing ``` if present.
	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}

	return strings.TrimSpace(s)
}

// SanitizeExtractionJSON
// - Drops unknown keys (strict additionalProperties = false friendliness)
// - Drops null/empty optionals
// - Coerces numeric strings -> numbers for money-ish fields
// - Lowercases "type" and trims obvious strings
// Returns the cleaned document and the list of touched keys.
func SanitizeExtractionJSON(raw []byte, logger *slog.Logger) ([]byte, []string, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, nil, fmt.Errorf("sanitize: decode: %w", err)
	}

	dropped := make([]string, 0, 8)

	// 1) remove unknown keys
	allowed := map[string]struct{}{
		"merchant": {}, "total": {}, "date": {}, "items": {},
		"category": {}, "type": {}, "confidence": {},
	}
	for k := range maps.Clone(m) {
		if _, ok := allowed[k]; !ok {
			delete(m, k)
			dropped = append(dropped, k+"(unknown)")
		}
	}

	// 2) coerce numerics
	for _, k := range []string{"total", "confidence"} {
		coerceNumber(m, k, &dropped)
	}

	// 3) trim strings, drop empties and nulls
	for _, k := range []string{"merchant", "date", "category", "type"} {
		switch v := m[k].(type) {
		case string:
			s := strings.TrimSpace(v)
			if s == "" {
				delete(m, k)
				dropped = append(dropped, k+"(empty)")
			} else {
				m[k] = s
			}
		case nil:
			if _, ok := m[k]; ok {
				delete(m, k)
				dropped = append(dropped, k+"(null)")
			}
		}
	}
	if v, ok := m["type"].(string); ok {
		m["type"] = strings.ToLower(v)
	}

	// 4) items: keep object entries only, coerce their numerics
	if rawItems, ok := m["items"]; ok {
		items, ok := rawItems.([]any)
		if !ok {
			delete(m, "items")
			dropped = append(dropped, "items(type)")
		} else {
			cleaned := make([]any, 0, len(items))
			for i, it := range items {
				obj, ok := it.(map[string]any)
				if !ok {
					dropped = append(dropped, fmt.Sprintf("items[%d](type)", i))
					continue
				}
				for k := range maps.Clone(obj) {
					if k != "name" && k != "quantity" && k != "price" {
						delete(obj, k)
						dropped = append(dropped, fmt.Sprintf("items[%d].%s(unknown)", i, k))
					}
				}
				coerceNumber(obj, "quantity", &dropped)
				coerceNumber(obj, "price", &dropped)
				cleaned = append(cleaned, obj)
			}
			m["items"] = cleaned
		}
	}

	out, err := json.Marshal(m)
	if err != nil {
		return nil, dropped, fmt.Errorf("sanitize: encode: %w", err)
	}
	if len(dropped) > 0 {
		logger.Warn("llm.extract.sanitize", "dropped", dropped)
	}
	return out, dropped, nil
}

func coerceNumber(m map[string]any, k string, dropped *[]string) {
	switch v := m[k].(type) {
	case float64:
		// already a number
	case string:
		s := strings.TrimSpace(v)
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			m[k] = f
			*dropped = append(*dropped, k+"(coerced)")
		} else {
			delete(m, k)
			*dropped = append(*dropped, k+"(unparseable)")
		}
	case nil:
		if _, ok := m[k]; ok {
			delete(m, k)
			*dropped = append(*dropped, k+"(null)")
		}
	default:
		delete(m, k)
		*dropped = append(*dropped, k+"(type)")
	}
}
