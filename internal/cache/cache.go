// Package cache provides a small byte cache used for rendered page
// images within one session.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// Cache is the interface the page-image resolver stores through.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration)
}

// PageKey derives the cache key for one rendered page of a document.
func PageKey(docID string, pageNo int) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s/%d", docID, pageNo)))
	return "pvreview:page:" + hex.EncodeToString(sum[:])
}
