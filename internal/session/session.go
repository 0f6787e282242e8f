// Package session owns the report lifecycle for one run of the
// client: the currently loaded report (or none), the in-flight
// submission, and the last error.
//
// The session is an explicit four-state machine:
//
//	Idle --Submit--> Uploading --Succeed--> Ready
//	                           --Fail----> Failed
//	Ready/Failed --Submit--> Uploading      (retry is a fresh submission)
//	Ready/Failed --Reset--> Idle
//
// At most one submission is in flight: Submit while Uploading is
// rejected. State-dependent data lives behind accessors so an illegal
// combination (a report while Uploading, an error while Ready) cannot
// be observed.
//
// The session is driven from a single event loop and is not
// goroutine-safe.
package session

import (
	"errors"

	"pvreview/internal/report"
)

// State enumerates the session states.
type State int

const (
	Idle State = iota
	Uploading
	Ready
	Failed
)

// String returns the state's display name.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Uploading:
		return "uploading"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// ErrSubmitInFlight is returned by Submit while a submission is
// already outstanding. The caller must wait for it to complete.
var ErrSubmitInFlight = errors.New("a submission is already in flight")

// Session is the only mutable shared state in the client.
type Session struct {
	state    State
	filename string
	rep      *report.AnalysisReport
	errMsg   string
}

// New creates an idle session.
func New() *Session {
	return &Session{state: Idle}
}

// State returns the current state.
func (s *Session) State() State {
	return s.state
}

// Filename returns the name of the file being (or last) submitted.
func (s *Session) Filename() string {
	return s.filename
}

// Report returns the loaded report, or nil unless the session is Ready.
func (s *Session) Report() *report.AnalysisReport {
	if s.state != Ready {
		return nil
	}
	return s.rep
}

// Err returns the failure message, or "" unless the session is Failed.
func (s *Session) Err() string {
	if s.state != Failed {
		return ""
	}
	return s.errMsg
}

// Submit starts a new submission. Any previously loaded report and any
// previous error are discarded immediately; the final state can never
// mix data from two reports.
func (s *Session) Submit(filename string) error {
	if s.state == Uploading {
		return ErrSubmitInFlight
	}
	s.state = Uploading
	s.filename = filename
	s.rep = nil
	s.errMsg = ""
	return nil
}

// Succeed completes the in-flight submission with a loaded report.
// Ignored (returns false) unless the session is Uploading.
func (s *Session) Succeed(r *report.AnalysisReport) bool {
	if s.state != Uploading {
		return false
	}
	s.state = Ready
	s.rep = r
	return true
}

// Fail completes the in-flight submission with an error message.
// Ignored (returns false) unless the session is Uploading.
func (s *Session) Fail(msg string) bool {
	if s.state != Uploading {
		return false
	}
	s.state = Failed
	s.errMsg = msg
	return true
}

// Reset discards the report or error and returns to Idle. A no-op
// (returns false) while a submission is in flight — Uploading exits
// only through its own completion.
func (s *Session) Reset() bool {
	if s.state == Uploading {
		return false
	}
	s.state = Idle
	s.filename = ""
	s.rep = nil
	s.errMsg = ""
	return true
}
