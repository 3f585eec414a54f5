package constants

import "strings"

// MaxUploadBytes caps receipt uploads at 5 MiB.
const MaxUploadBytes = 5 << 20

// imageContentTypePrefix gates the accepted upload content types.
const imageContentTypePrefix = "image/"

// IsImageContentType reports whether ct is an image media type.
func IsImageContentType(ct string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(ct)), imageContentTypePrefix)
}
