package main

// summary.go — Plain-text report summary for `pvreview check`.
//
// Same classification rules as the interactive viewer, no styling:
// the output is meant for terminals, logs, and CI pipelines.

import (
	"fmt"
	"strings"

	"pvreview/internal/report"
)

// renderSummary renders one report as plain text.
func renderSummary(rep *report.AnalysisReport) string {
	var b strings.Builder
	idx := report.NewIndex(rep)

	fmt.Fprintf(&b, "%s — %d pages — %s\n",
		rep.Document.Filename, rep.Document.Pages, rep.Document.DocID)
	light := rep.Scorecard.TrafficLight
	fmt.Fprintf(&b, "%s %s\n\n", light.Icon().Glyph(), light)

	fmt.Fprintf(&b, "Evidence coverage  %s\n", summaryScore(rep.Scorecard.EvidenceCoverage))
	fmt.Fprintf(&b, "Consistency        %s\n", summaryScore(rep.Scorecard.Consistency))
	fmt.Fprintf(&b, "Feasibility        %s\n", summaryScore(rep.Scorecard.Feasibility))
	if len(rep.Scorecard.MissingData) > 0 {
		labels := make([]string, len(rep.Scorecard.MissingData))
		for i, f := range rep.Scorecard.MissingData {
			labels[i] = report.FieldLabel(f)
		}
		fmt.Fprintf(&b, "Missing data: %s\n", strings.Join(labels, ", "))
	}
	b.WriteString("\n")

	if len(rep.Facts) == 0 {
		b.WriteString("No PV facts found in document\n")
	} else {
		fmt.Fprintf(&b, "Facts (%d):\n", len(rep.Facts))
		for i, f := range rep.Facts {
			bucket := report.ClassifyConfidence(f.Confidence)
			fmt.Fprintf(&b, "  %-18s %-24s %3.0f%% %-6s %s\n",
				report.FieldLabel(f.Field), summaryValue(f),
				f.Confidence*100, bucket, summaryRefs(idx.Facts[i]))
		}
	}
	b.WriteString("\n")

	for i, v := range rep.Verifications {
		delta := ""
		if v.DeltaPct != nil {
			delta = fmt.Sprintf(" %+.1f%%", *v.DeltaPct)
		}
		fmt.Fprintf(&b, "%s [%s]%s %s %s\n",
			v.CheckType, v.Severity.Display(), delta, v.Result,
			summaryRefs(idx.Verifications[i]))
		if v.Why != "" {
			fmt.Fprintf(&b, "  %s\n", v.Why)
		}
	}
	if rep.PVGISCheck() == nil {
		b.WriteString("PVGIS yield check not available\n")
	}
	b.WriteString("\n")

	if len(rep.RedFlags) == 0 {
		b.WriteString("No significant issues found\n")
		return b.String()
	}
	fmt.Fprintf(&b, "Red flags (%d):\n", len(rep.RedFlags))
	for _, f := range report.SortFlagsBySeverity(rep.RedFlags) {
		fmt.Fprintf(&b, "  [%s] %s: %s\n", f.Severity, f.Category, f.Title)
		if f.RecommendedAction != "" {
			fmt.Fprintf(&b, "        → %s\n", f.RecommendedAction)
		}
	}
	return b.String()
}

func summaryScore(v float64) string {
	return fmt.Sprintf("%3.0f%% %s", v, report.ClassifyScore(v))
}

func summaryValue(f report.ExtractedFact) string {
	var value string
	switch t := f.Value.(type) {
	case nil:
		return "—"
	case float64:
		if t == float64(int64(t)) {
			value = fmt.Sprintf("%d", int64(t))
		} else {
			value = fmt.Sprintf("%.2f", t)
		}
	case string:
		if t == "" {
			return "—"
		}
		value = t
	default:
		value = fmt.Sprintf("%v", t)
	}
	if f.Unit != "" {
		value += " " + f.Unit
	}
	return value
}

// summaryRefs renders page refs; out-of-range refs are kept and marked
// rather than dropped.
func summaryRefs(refs []report.PageRef) string {
	if len(refs) == 0 {
		return ""
	}
	parts := make([]string, len(refs))
	for i, r := range refs {
		if r.Resolvable {
			parts[i] = fmt.Sprintf("p.%d", r.Page)
		} else {
			parts[i] = fmt.Sprintf("p.%d(!)", r.Page)
		}
	}
	return strings.Join(parts, " ")
}
