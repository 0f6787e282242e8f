package report

// classify.go — Deterministic classification rules.
//
// Pure, total mappings from raw metrics (confidence scores, percentage
// values, severities) to the closed display categories. Unknown enum
// values are absorbed by documented fallbacks, never propagated as
// errors.

import "sort"

// ---------------------------------------------------------------------------
// Confidence buckets
// ---------------------------------------------------------------------------

// ConfidenceBucket classifies an extraction confidence in [0,1].
type ConfidenceBucket int

const (
	ConfidenceHigh   ConfidenceBucket = iota // c >= 0.8
	ConfidenceMedium                         // 0.6 <= c < 0.8
	ConfidenceLow                            // c < 0.6
)

// String returns the bucket's display name.
func (b ConfidenceBucket) String() string {
	switch b {
	case ConfidenceHigh:
		return "HIGH"
	case ConfidenceMedium:
		return "MEDIUM"
	default:
		return "LOW"
	}
}

// ClassifyConfidence buckets a confidence score. Lower band boundaries
// are inclusive: exactly 0.8 is HIGH, exactly 0.6 is MEDIUM.
func ClassifyConfidence(c float64) ConfidenceBucket {
	switch {
	case c >= 0.8:
		return ConfidenceHigh
	case c >= 0.6:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// ---------------------------------------------------------------------------
// Severity
// ---------------------------------------------------------------------------

// Severity is the ordinal urgency attached to verifications and red
// flags. The closed set is CRITICAL > HIGH > MEDIUM > LOW; anything
// else ranks after LOW and borrows MEDIUM's visual treatment.
type Severity string

const (
	SeverityCritical Severity = "CRITICAL"
	SeverityHigh     Severity = "HIGH"
	SeverityMedium   Severity = "MEDIUM"
	SeverityLow      Severity = "LOW"

	// SeverityOK appears on verifications that passed.
	SeverityOK Severity = "OK"
)

// Rank returns the sort position: CRITICAL(0), HIGH(1), MEDIUM(2),
// LOW(3); unknown values sort last.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 0
	case SeverityHigh:
		return 1
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 3
	default:
		return 4
	}
}

// Display returns the severity to use for visual styling. Unknown
// values fall back to MEDIUM rather than failing.
func (s Severity) Display() Severity {
	switch s {
	case SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow, SeverityOK:
		return s
	default:
		return SeverityMedium
	}
}

// SortFlagsBySeverity returns the flags ordered CRITICAL first, LOW
// last. The sort is stable: flags of equal severity keep their source
// order. The input slice is not modified.
func SortFlagsBySeverity(flags []RedFlag) []RedFlag {
	sorted := make([]RedFlag, len(flags))
	copy(sorted, flags)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Severity.Rank() < sorted[j].Severity.Rank()
	})
	return sorted
}

// ---------------------------------------------------------------------------
// Score bands
// ---------------------------------------------------------------------------

// ScoreBand classifies a scorecard percentage in [0,100].
type ScoreBand int

const (
	ScoreGood ScoreBand = iota // v >= 70
	ScoreWarn                  // 45 <= v < 70
	ScorePoor                  // v < 45
)

// String returns the band's display name.
func (b ScoreBand) String() string {
	switch b {
	case ScoreGood:
		return "GOOD"
	case ScoreWarn:
		return "WARN"
	default:
		return "POOR"
	}
}

// ClassifyScore bands a percentage metric. Lower band boundaries are
// inclusive: exactly 70 is GOOD, exactly 45 is WARN.
func ClassifyScore(v float64) ScoreBand {
	switch {
	case v >= 70:
		return ScoreGood
	case v >= 45:
		return ScoreWarn
	default:
		return ScorePoor
	}
}

// ---------------------------------------------------------------------------
// Traffic light
// ---------------------------------------------------------------------------

// TrafficLight is the coarse document-level summary.
type TrafficLight string

const (
	LightGreen  TrafficLight = "GREEN"
	LightYellow TrafficLight = "YELLOW"
	LightRed    TrafficLight = "RED"
)

// IconID is the symbolic icon attached to a traffic light.
type IconID int

const (
	IconCheck IconID = iota
	IconWarning
	IconCross
)

// Icon maps a traffic light to its icon. Unrecognized values get the
// warning icon; this never fails.
func (t TrafficLight) Icon() IconID {
	switch t {
	case LightGreen:
		return IconCheck
	case LightRed:
		return IconCross
	default:
		return IconWarning
	}
}

// Glyph returns the terminal glyph for an icon.
func (i IconID) Glyph() string {
	switch i {
	case IconCheck:
		return "✓"
	case IconCross:
		return "✗"
	default:
		return "!"
	}
}
