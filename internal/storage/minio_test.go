package storage

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestObjectKey(t *testing.T) {
	ownerID := uuid.New()
	now := time.Unix(0, 1700000000000000000)

	key := ObjectKey(ownerID, "my receipt.png", now)
	assert.True(t, strings.HasPrefix(key, "receipts/"+ownerID.String()+"/"))
	assert.True(t, strings.HasSuffix(key, "_my_receipt.png"))
	assert.Contains(t, key, "1700000000000000000")

	// Keys for the same filename differ over time.
	other := ObjectKey(ownerID, "my receipt.png", now.Add(time.Nanosecond))
	assert.NotEqual(t, key, other)
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"receipt.png", "receipt.png"},
		{"my receipt (1).png", "my_receipt__1_.png"},
		{"../../etc/passwd", "passwd"},
		{"/tmp/evil.png", "evil.png"},
		{"", "upload"},
		{"   ", "upload"},
		{".", "upload"},
		{"über.png", "_ber.png"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sanitizeFilename(tt.in), "input %q", tt.in)
	}
}
