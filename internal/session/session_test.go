package session

// session_test.go — State machine tests.
//
// Transition table under test:
//
//	Idle --Submit--> Uploading --Succeed--> Ready
//	                           --Fail----> Failed
//	Ready/Failed --Submit--> Uploading
//	Ready/Failed --Reset--> Idle
//	Uploading: Submit rejected, Reset no-op

import (
	"errors"
	"testing"

	"pvreview/internal/report"
)

func testReport(docID string) *report.AnalysisReport {
	return &report.AnalysisReport{
		Document: report.DocumentMeta{DocID: docID, Pages: 3},
	}
}

func TestNewSessionIsIdle(t *testing.T) {
	s := New()
	if s.State() != Idle {
		t.Errorf("new session state = %v, want Idle", s.State())
	}
	if s.Report() != nil || s.Err() != "" {
		t.Error("idle session must carry no report and no error")
	}
}

func TestSubmitHappyPath(t *testing.T) {
	s := New()
	if err := s.Submit("offer.pdf"); err != nil {
		t.Fatalf("Submit from Idle: %v", err)
	}
	if s.State() != Uploading {
		t.Fatalf("state = %v, want Uploading", s.State())
	}
	if s.Filename() != "offer.pdf" {
		t.Errorf("filename = %q", s.Filename())
	}

	rep := testReport("d1")
	if !s.Succeed(rep) {
		t.Fatal("Succeed from Uploading returned false")
	}
	if s.State() != Ready {
		t.Fatalf("state = %v, want Ready", s.State())
	}
	if s.Report() != rep {
		t.Error("Report() did not return the loaded report")
	}
}

func TestSubmitWhileUploadingRejected(t *testing.T) {
	s := New()
	if err := s.Submit("a.pdf"); err != nil {
		t.Fatal(err)
	}
	err := s.Submit("b.pdf")
	if !errors.Is(err, ErrSubmitInFlight) {
		t.Errorf("second Submit error = %v, want ErrSubmitInFlight", err)
	}
	// The in-flight submission is untouched.
	if s.Filename() != "a.pdf" {
		t.Errorf("filename changed to %q by rejected submit", s.Filename())
	}
}

func TestFailCarriesMessage(t *testing.T) {
	s := New()
	_ = s.Submit("a.pdf")
	if !s.Fail("Only PDF files supported") {
		t.Fatal("Fail from Uploading returned false")
	}
	if s.State() != Failed {
		t.Fatalf("state = %v, want Failed", s.State())
	}
	if s.Err() != "Only PDF files supported" {
		t.Errorf("Err() = %q", s.Err())
	}
	if s.Report() != nil {
		t.Error("failed session must not retain a partial report")
	}
}

// TestResubmitDiscardsPreviousReport covers the retry path: a fresh
// submission from Ready or Failed discards the old report immediately,
// so the final state can never mix data from two reports.
func TestResubmitDiscardsPreviousReport(t *testing.T) {
	s := New()
	_ = s.Submit("a.pdf")
	s.Succeed(testReport("d1"))

	if err := s.Submit("b.pdf"); err != nil {
		t.Fatalf("Submit from Ready: %v", err)
	}
	if s.State() != Uploading {
		t.Fatalf("state = %v, want Uploading", s.State())
	}
	if s.Report() != nil {
		t.Error("previous report visible during new upload")
	}

	rep2 := testReport("d2")
	s.Succeed(rep2)
	if s.Report() != rep2 {
		t.Error("session did not hold the second report after resubmit")
	}
}

func TestRetryFromFailed(t *testing.T) {
	s := New()
	_ = s.Submit("a.pdf")
	s.Fail("boom")

	if err := s.Submit("a.pdf"); err != nil {
		t.Fatalf("Submit from Failed: %v", err)
	}
	if s.Err() != "" {
		t.Error("error message survived a fresh submission")
	}
}

func TestCompletionsIgnoredOutsideUploading(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*Session)
	}{
		{"idle", func(s *Session) {}},
		{"ready", func(s *Session) { _ = s.Submit("a.pdf"); s.Succeed(testReport("d")) }},
		{"failed", func(s *Session) { _ = s.Submit("a.pdf"); s.Fail("x") }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := New()
			tc.setup(s)
			before := s.State()
			if s.Succeed(testReport("stray")) {
				t.Error("Succeed applied outside Uploading")
			}
			if s.Fail("stray") {
				t.Error("Fail applied outside Uploading")
			}
			if s.State() != before {
				t.Errorf("state changed from %v to %v by stray completion", before, s.State())
			}
		})
	}
}

func TestReset(t *testing.T) {
	s := New()
	_ = s.Submit("a.pdf")
	s.Succeed(testReport("d1"))

	if !s.Reset() {
		t.Fatal("Reset from Ready returned false")
	}
	if s.State() != Idle || s.Report() != nil || s.Filename() != "" {
		t.Error("Reset did not return the session to a clean Idle")
	}
}

func TestResetNoOpWhileUploading(t *testing.T) {
	s := New()
	_ = s.Submit("a.pdf")
	if s.Reset() {
		t.Error("Reset while Uploading should be a no-op")
	}
	if s.State() != Uploading {
		t.Errorf("state = %v, want Uploading", s.State())
	}
}
