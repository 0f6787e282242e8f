// Package navigator tracks which document page is open for
// inspection and hands out request tokens for stale-response
// suppression.
//
// Every successful Open/Next/Prev/Close increments a monotonic token.
// The caller tags each page-image fetch with the token current at
// request time; when the result arrives it is applied only if its
// token still matches, so rapid navigation can never flash an older
// page's image over a newer one (last-requested-wins).
//
// Like the session, the navigator lives on a single event loop and is
// not goroutine-safe.
package navigator

// Navigator holds the optional currently open page for one document.
type Navigator struct {
	pages int // declared page count of the open document
	page  int // 0 while closed
	token int
}

// New creates a closed navigator for a document with the given
// declared page count.
func New(pages int) *Navigator {
	return &Navigator{pages: pages}
}

// Page returns the open page, or ok=false while closed.
func (n *Navigator) Page() (page int, ok bool) {
	return n.page, n.page != 0
}

// Token returns the current request token.
func (n *Navigator) Token() int {
	return n.token
}

// Fresh reports whether a result tagged with the given token is still
// the most recently requested one and the viewer is still open.
func (n *Navigator) Fresh(token int) bool {
	return n.page != 0 && token == n.token
}

// Open sets the open page and returns a new request token. The only
// validation is page >= 1; the evidence index decides whether a page
// is meaningful, and an out-of-range page simply fails at fetch time.
func (n *Navigator) Open(page int) (token int, ok bool) {
	if page < 1 {
		return n.token, false
	}
	n.page = page
	n.token++
	return n.token, true
}

// Next moves one page forward, clamped to the declared page count.
// No-op at the boundary and while closed; never wraps.
func (n *Navigator) Next() (token int, ok bool) {
	if n.page == 0 {
		return n.token, false
	}
	next := n.page + 1
	if next > n.pages {
		next = n.pages
	}
	if next == n.page {
		return n.token, false
	}
	n.page = next
	n.token++
	return n.token, true
}

// Prev moves one page back, clamped to 1. No-op at the boundary and
// while closed; never wraps.
func (n *Navigator) Prev() (token int, ok bool) {
	if n.page == 0 {
		return n.token, false
	}
	prev := n.page - 1
	if prev < 1 {
		prev = 1
	}
	if prev == n.page {
		return n.token, false
	}
	n.page = prev
	n.token++
	return n.token, true
}

// Close clears the open page. The token still advances so any
// in-flight fetch result is discarded on arrival.
func (n *Navigator) Close() {
	if n.page == 0 {
		return
	}
	n.page = 0
	n.token++
}
