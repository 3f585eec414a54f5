package llm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanModelJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "plain json untouched",
			in:   `{"merchant":"Cafe"}`,
			want: `{"merchant":"Cafe"}`,
		},
		{
			name: "json fence stripped",
			in:   "```json\n{\"merchant\":\"Cafe\"}\n```",
			want: `{"merchant":"Cafe"}`,
		},
		{
			name: "bare fence stripped",
			in:   "```\n{\"total\": 3}\n```",
			want: `{"total": 3}`,
		},
		{
			name: "surrounding whitespace trimmed",
			in:   "  \n {\"a\":1} \n",
			want: `{"a":1}`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanModelJSON(tt.in))
		})
	}
}

func TestSanitizeExtractionJSON(t *testing.T) {
	t.Run("drops unknown keys", func(t *testing.T) {
		out, dropped, err := SanitizeExtractionJSON([]byte(`{"merchant":"Cafe","note":"hi"}`), nil)
		require.NoError(t, err)
		assert.JSONEq(t, `{"merchant":"Cafe"}`, string(out))
		assert.Contains(t, dropped, "note(unknown)")
	})

	t.Run("coerces numeric strings", func(t *testing.T) {
		out, _, err := SanitizeExtractionJSON([]byte(`{"total":"12.50","confidence":"0.8"}`), nil)
		require.NoError(t, err)
		assert.JSONEq(t, `{"total":12.5,"confidence":0.8}`, string(out))
	})

	t.Run("removes wrong-typed values", func(t *testing.T) {
		out, dropped, err := SanitizeExtractionJSON([]byte(`{"total":true,"merchant":"Cafe"}`), nil)
		require.NoError(t, err)
		assert.JSONEq(t, `{"merchant":"Cafe"}`, string(out))
		assert.Contains(t, dropped, "total(type)")
	})

	t.Run("drops empty and null strings, lowercases type", func(t *testing.T) {
		out, _, err := SanitizeExtractionJSON([]byte(`{"merchant":"  ","date":null,"type":"Expense"}`), nil)
		require.NoError(t, err)
		assert.JSONEq(t, `{"type":"expense"}`, string(out))
	})

	t.Run("cleans item entries", func(t *testing.T) {
		in := `{"items":[{"name":"Coffee","quantity":"2","price":3.5,"sku":"x"},"junk"]}`
		out, dropped, err := SanitizeExtractionJSON([]byte(in), nil)
		require.NoError(t, err)
		assert.JSONEq(t, `{"items":[{"name":"Coffee","quantity":2,"price":3.5}]}`, string(out))
		assert.Contains(t, dropped, "items[0].sku(unknown)")
		assert.Contains(t, dropped, "items[1](type)")
	})

	t.Run("non-json input errors", func(t *testing.T) {
		_, _, err := SanitizeExtractionJSON([]byte("sorry, I can't read this"), nil)
		require.Error(t, err)
	})
}

func TestDecodeFields(t *testing.T) {
	t.Run("full valid reply", func(t *testing.T) {
		raw := `{"merchant":"Cafe","total":12.5,"date":"2024-01-01","items":[{"name":"Coffee","quantity":1,"price":12.5}],"type":"expense","confidence":0.9}`
		fields, cleaned, err := DecodeFields(raw, nil)
		require.NoError(t, err)
		assert.Equal(t, "Cafe", fields.Merchant)
		assert.Equal(t, 12.5, fields.Total)
		assert.Equal(t, "2024-01-01", fields.TxDate)
		require.Len(t, fields.Items, 1)
		assert.Equal(t, "Coffee", fields.Items[0].Name)
		assert.Equal(t, 1.0, fields.Items[0].Quantity)
		assert.Equal(t, 12.5, fields.Items[0].Price)
		assert.Equal(t, "expense", fields.TxType)
		assert.Equal(t, 0.9, fields.Confidence)
		assert.NotEmpty(t, cleaned)
	})

	t.Run("fenced reply", func(t *testing.T) {
		raw := "```json\n{\"merchant\":\"Cafe\",\"total\":5}\n```"
		fields, _, err := DecodeFields(raw, nil)
		require.NoError(t, err)
		assert.Equal(t, "Cafe", fields.Merchant)
		assert.Equal(t, 5.0, fields.Total)
	})

	t.Run("prose reply is rejected", func(t *testing.T) {
		_, _, err := DecodeFields("sorry, I can't read this", nil)
		require.Error(t, err)
	})

	t.Run("json array is rejected", func(t *testing.T) {
		_, _, err := DecodeFields(`[1,2,3]`, nil)
		require.Error(t, err)
	})

	t.Run("partial reply survives", func(t *testing.T) {
		fields, _, err := DecodeFields(`{"total":7.25}`, nil)
		require.NoError(t, err)
		assert.Equal(t, 7.25, fields.Total)
		assert.Empty(t, fields.Merchant)
	})
}

func TestApplyDefaults(t *testing.T) {
	now := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)

	t.Run("empty fields get defaults", func(t *testing.T) {
		f := ReceiptFields{}
		f.ApplyDefaults(now)
		assert.Equal(t, "Unknown", f.Merchant)
		assert.Equal(t, 0.0, f.Total)
		assert.Equal(t, "2024-06-15", f.TxDate)
		assert.Equal(t, "expense", f.TxType)
	})

	t.Run("unparseable date falls back to now", func(t *testing.T) {
		f := ReceiptFields{TxDate: "Jan 1st 2024"}
		f.ApplyDefaults(now)
		assert.Equal(t, "2024-06-15", f.TxDate)
	})

	t.Run("valid values preserved", func(t *testing.T) {
		f := ReceiptFields{Merchant: "Cafe", TxDate: "2024-01-01", TxType: "income", Confidence: 0.5}
		f.ApplyDefaults(now)
		assert.Equal(t, "Cafe", f.Merchant)
		assert.Equal(t, "2024-01-01", f.TxDate)
		assert.Equal(t, "income", f.TxType)
		assert.Equal(t, 0.5, f.Confidence)
	})

	t.Run("confidence clamped", func(t *testing.T) {
		f := ReceiptFields{Confidence: 1.7}
		f.ApplyDefaults(now)
		assert.Equal(t, 1.0, f.Confidence)

		f = ReceiptFields{Confidence: -0.2}
		f.ApplyDefaults(now)
		assert.Equal(t, 0.0, f.Confidence)
	})
}

func TestTxTime(t *testing.T) {
	now := time.Date(2024, 6, 15, 10, 0, 0, 0, time.UTC)

	f := ReceiptFields{TxDate: "2024-01-02"}
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), f.TxTime(now))

	f = ReceiptFields{TxDate: "not a date"}
	assert.Equal(t, now, f.TxTime(now))
}

func TestExcerpt(t *testing.T) {
	assert.Equal(t, "short", Excerpt("short", 10))
	assert.Equal(t, "abcde…(truncated)", Excerpt("abcdefgh", 5))
}
