package eventgraph

import (
	"crypto/sha256"
	"fmt"
	"time"
)

// computeHash computes a SHA-256 hash for chain integrity.
func computeHash(prevHash, id, eventType, source, subject string, timestamp time.Time, contentJSON []byte) string {
	data := fmt.Sprintf("%s|%s|%s|%s|%s|%d|%s", prevHash, id, eventType, source, subject, timestamp.UnixNano(), string(contentJSON))
	h := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", h)
}
