package report

// evidence_test.go — Tests for the evidence index.

import "testing"

// makeReport builds a minimal report with the given page count.
func makeReport(pages int) *AnalysisReport {
	return &AnalysisReport{
		Document: DocumentMeta{DocID: "doc-1", Pages: pages},
	}
}

func TestIndexFactRefsPreserveSourceOrder(t *testing.T) {
	rep := makeReport(10)
	rep.Facts = []ExtractedFact{
		{
			Field: "declared_power_kwp",
			Evidence: []Evidence{
				{PageNo: 5, Snippet: "5 kWp"},
				{PageNo: 2, Snippet: "power table"},
			},
		},
	}
	idx := NewIndex(rep)

	refs := idx.Facts[0]
	if len(refs) != 2 {
		t.Fatalf("got %d refs, want 2", len(refs))
	}
	if refs[0].Page != 5 || refs[1].Page != 2 {
		t.Errorf("source order not preserved: got pages %d, %d", refs[0].Page, refs[1].Page)
	}
	if refs[0].Snippet != "5 kWp" {
		t.Errorf("snippet lost: %q", refs[0].Snippet)
	}
	for _, r := range refs {
		if !r.Resolvable {
			t.Errorf("page %d within bounds marked unresolvable", r.Page)
		}
	}
}

// TestIndexUnionEvidenceAndVerifyPages checks refs merge evidence pages
// with pages_to_verify, evidence first, duplicates kept once.
func TestIndexUnionEvidenceAndVerifyPages(t *testing.T) {
	rep := makeReport(10)
	rep.Verifications = []VerificationResult{
		{
			CheckType:     CheckTypePVGIS,
			Evidence:      []Evidence{{PageNo: 3, Snippet: "yield"}},
			PagesToVerify: []int{3, 7},
		},
	}
	idx := NewIndex(rep)

	refs := idx.Verifications[0]
	if len(refs) != 2 {
		t.Fatalf("got %d refs, want 2 (page 3 deduplicated)", len(refs))
	}
	if refs[0].Page != 3 || refs[0].Snippet != "yield" {
		t.Errorf("evidence entry must come first with its snippet, got %+v", refs[0])
	}
	if refs[1].Page != 7 {
		t.Errorf("verify page missing, got %+v", refs[1])
	}
}

// TestIndexOutOfRangeRetained asserts the core traceability rule: a
// reference beyond the declared page count is kept and marked, never
// silently dropped.
func TestIndexOutOfRangeRetained(t *testing.T) {
	rep := makeReport(10)
	rep.RedFlags = []RedFlag{
		{
			FlagID:        "f1",
			Severity:      SeverityHigh,
			Evidence:      []Evidence{{PageNo: 15, Snippet: "phantom"}}, // pages + 5
			PagesToVerify: []int{0, 4},
		},
	}
	idx := NewIndex(rep)

	refs := idx.Flags[0]
	if len(refs) != 3 {
		t.Fatalf("got %d refs, want 3 — out-of-range refs must not be filtered", len(refs))
	}
	if refs[0].Page != 15 || refs[0].Resolvable {
		t.Errorf("page 15 should be retained and unresolvable, got %+v", refs[0])
	}
	if refs[1].Page != 0 || refs[1].Resolvable {
		t.Errorf("page 0 should be retained and unresolvable, got %+v", refs[1])
	}
	if refs[2].Page != 4 || !refs[2].Resolvable {
		t.Errorf("page 4 should be resolvable, got %+v", refs[2])
	}
}

func TestIndexScorecardRefs(t *testing.T) {
	rep := makeReport(3)
	rep.Scorecard.PagesToVerify = []int{1, 3}
	idx := NewIndex(rep)

	if len(idx.Scorecard) != 2 {
		t.Fatalf("got %d scorecard refs, want 2", len(idx.Scorecard))
	}
	if idx.Scorecard[0].Page != 1 || idx.Scorecard[1].Page != 3 {
		t.Errorf("scorecard refs wrong: %+v", idx.Scorecard)
	}
}

func TestIndexEmptyItems(t *testing.T) {
	rep := makeReport(5)
	rep.Facts = []ExtractedFact{{Field: "system_type"}} // no evidence
	idx := NewIndex(rep)

	if len(idx.Facts) != 1 {
		t.Fatalf("fact without evidence must still be indexed")
	}
	if idx.Facts[0] != nil {
		t.Errorf("fact without evidence should have nil refs, got %+v", idx.Facts[0])
	}
}

func TestIndexInRange(t *testing.T) {
	idx := NewIndex(makeReport(10))
	tests := []struct {
		page int
		want bool
	}{
		{1, true},
		{10, true},
		{0, false},
		{11, false},
		{-3, false},
	}
	for _, tc := range tests {
		if got := idx.InRange(tc.page); got != tc.want {
			t.Errorf("InRange(%d) = %v, want %v", tc.page, got, tc.want)
		}
	}
}
