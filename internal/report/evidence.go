package report

// evidence.go — Evidence index.
//
// Builds, for every fact, verification, and red flag, the ordered set
// of page references a user may jump to: the union of the item's
// evidence pages and its pages_to_verify. Out-of-range references are
// kept and marked unresolvable rather than dropped — traceability must
// never be hidden, even when the data is bad.

// PageRef is one navigable page reference for a displayed item.
type PageRef struct {
	Page    int
	Snippet string // excerpt from the evidence entry, may be empty
	// Resolvable reports whether Page lies within
	// [1, document.pages]. Unresolvable refs are still displayed,
	// visibly marked, and fail at fetch time rather than silently.
	Resolvable bool
}

// Index cross-references every displayable item to its page refs.
// Slices are parallel to the corresponding report slices.
type Index struct {
	pages int

	Facts         [][]PageRef
	Verifications [][]PageRef
	Flags         [][]PageRef
	Scorecard     []PageRef
}

// NewIndex builds the evidence index for a loaded report.
func NewIndex(r *AnalysisReport) *Index {
	idx := &Index{pages: r.Document.Pages}

	idx.Facts = make([][]PageRef, len(r.Facts))
	for i, f := range r.Facts {
		idx.Facts[i] = idx.refs(f.Evidence, nil)
	}

	idx.Verifications = make([][]PageRef, len(r.Verifications))
	for i, v := range r.Verifications {
		idx.Verifications[i] = idx.refs(v.Evidence, v.PagesToVerify)
	}

	idx.Flags = make([][]PageRef, len(r.RedFlags))
	for i, f := range r.RedFlags {
		idx.Flags[i] = idx.refs(f.Evidence, f.PagesToVerify)
	}

	idx.Scorecard = idx.refs(nil, r.Scorecard.PagesToVerify)
	return idx
}

// Pages returns the declared page count of the indexed document.
func (idx *Index) Pages() int {
	return idx.pages
}

// InRange reports whether a page number is within the declared bounds.
func (idx *Index) InRange(page int) bool {
	return page >= 1 && page <= idx.pages
}

// refs merges direct evidence entries with pages_to_verify, preserving
// source order (evidence first, then verify pages). A page appearing in
// both lists is kept once, with its snippet.
func (idx *Index) refs(evidence []Evidence, verifyPages []int) []PageRef {
	if len(evidence) == 0 && len(verifyPages) == 0 {
		return nil
	}
	seen := make(map[int]bool, len(evidence)+len(verifyPages))
	refs := make([]PageRef, 0, len(evidence)+len(verifyPages))

	for _, e := range evidence {
		if seen[e.PageNo] {
			continue
		}
		seen[e.PageNo] = true
		refs = append(refs, PageRef{
			Page:       e.PageNo,
			Snippet:    e.Snippet,
			Resolvable: idx.InRange(e.PageNo),
		})
	}
	for _, p := range verifyPages {
		if seen[p] {
			continue
		}
		seen[p] = true
		refs = append(refs, PageRef{
			Page:       p,
			Resolvable: idx.InRange(p),
		})
	}
	return refs
}
