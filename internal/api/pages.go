package api

// pages.go — Page-image resolver.
//
// Resolves (doc_id, page_no) to the rendered raster for that page with
// one outbound GET per uncached request. The error taxonomy keeps three
// conditions apart: a caller error (page_no < 1), a data-integrity
// condition (the backing page does not exist), and a transient fetch
// failure. The UI surfaces each differently.

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"pvreview/internal/cache"
)

var (
	// ErrInvalidPage reports a page number below 1. Page numbers are
	// 1-based; this is a caller error, not a fetch failure.
	ErrInvalidPage = errors.New("page number must be >= 1")

	// ErrPageNotFound reports that the backend has no rendered image
	// for the requested page. Distinct from transport failures: it
	// usually means the reference points outside the real document.
	ErrPageNotFound = errors.New("page image not found")
)

// Resolver fetches rendered page images, caching them for the session.
// Fetches are idempotent and side-effect-free; repeated requests for
// the same page hit the cache.
type Resolver struct {
	client *Client
	cache  cache.Cache
	ttl    time.Duration
}

// NewResolver wraps a client with a page-image cache. A nil cache
// disables caching.
func NewResolver(client *Client, c cache.Cache, ttl time.Duration) *Resolver {
	return &Resolver{client: client, cache: c, ttl: ttl}
}

// PageImage returns the rendered raster for one page.
func (r *Resolver) PageImage(ctx context.Context, docID string, pageNo int) ([]byte, error) {
	if pageNo < 1 {
		return nil, fmt.Errorf("page %d: %w", pageNo, ErrInvalidPage)
	}

	key := cache.PageKey(docID, pageNo)
	if r.cache != nil {
		if img, ok := r.cache.Get(key); ok {
			return img, nil
		}
	}

	resp, err := r.client.http.R().
		SetContext(ctx).
		Get(fmt.Sprintf("/api/page/%s/%d", docID, pageNo))
	if err != nil {
		return nil, fmt.Errorf("fetch page %d of %s: %w", pageNo, docID, err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, fmt.Errorf("page %d of %s: %w", pageNo, docID, ErrPageNotFound)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("fetch page %d of %s: status %d", pageNo, docID, resp.StatusCode())
	}

	img := resp.Body()
	if r.cache != nil {
		r.cache.Set(key, img, r.ttl)
	}
	return img, nil
}
