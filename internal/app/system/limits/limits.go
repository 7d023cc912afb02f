// internal/app/system/limits/limits.go
package limits

// Request body size limits for various features.
// These limits help prevent memory exhaustion from oversized requests.
const (
	// MaxDocumentFormSize is the maximum size for document editor form
	// submissions. Rich text content is the bulk of the payload.
	MaxDocumentFormSize = 1 << 20 // 1 MB
)
