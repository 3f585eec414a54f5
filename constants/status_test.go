package constants

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJobStatusTerminal(t *testing.T) {
	assert.False(t, JobStatusProcessing.Terminal())
	assert.True(t, JobStatusProcessed.Terminal())
	assert.True(t, JobStatusFailed.Terminal())
}

func TestParseTransactionType(t *testing.T) {
	assert.Equal(t, TransactionTypeIncome, ParseTransactionType("income"))
	assert.Equal(t, TransactionTypeExpense, ParseTransactionType("expense"))
	assert.Equal(t, TransactionTypeExpense, ParseTransactionType("refund"))
	assert.Equal(t, TransactionTypeExpense, ParseTransactionType(""))
}

func TestIsImageContentType(t *testing.T) {
	assert.True(t, IsImageContentType("image/png"))
	assert.True(t, IsImageContentType("IMAGE/JPEG"))
	assert.True(t, IsImageContentType("  image/webp "))
	assert.False(t, IsImageContentType("application/pdf"))
	assert.False(t, IsImageContentType(""))
}
