package tui

// view.go — Rendering.
//
// Layout mirrors the analyzer's report structure: header, scorecard,
// PVGIS yield check, extracted facts, red flags. The page viewer
// replaces the body while a page is open. All classification colors
// come from the report package's buckets and bands; nothing here
// re-derives a category.

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"pvreview/internal/report"
	"pvreview/internal/session"
)

// ---------------------------------------------------------------------------
// Styles
// ---------------------------------------------------------------------------

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	subtleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	titleStyle   = lipgloss.NewStyle().Bold(true)
	cursorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	snippetStyle = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("8"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	goodStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	poorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))

	pageRefStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	badPageRefStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
)

// severityStyle returns the badge style for a severity, using the
// documented MEDIUM fallback for anything outside the closed set.
func severityStyle(s report.Severity) lipgloss.Style {
	switch s.Display() {
	case report.SeverityCritical:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Background(lipgloss.Color("9")).Bold(true)
	case report.SeverityHigh:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	case report.SeverityLow:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	case report.SeverityOK:
		return goodStyle
	default:
		return warnStyle
	}
}

func bandStyle(b report.ScoreBand) lipgloss.Style {
	switch b {
	case report.ScoreGood:
		return goodStyle
	case report.ScoreWarn:
		return warnStyle
	default:
		return poorStyle
	}
}

func bucketStyle(b report.ConfidenceBucket) lipgloss.Style {
	switch b {
	case report.ConfidenceHigh:
		return goodStyle
	case report.ConfidenceMedium:
		return warnStyle
	default:
		return poorStyle
	}
}

func lightStyle(t report.TrafficLight) lipgloss.Style {
	switch t {
	case report.LightGreen:
		return goodStyle
	case report.LightRed:
		return poorStyle
	default:
		return warnStyle
	}
}

// ---------------------------------------------------------------------------
// View
// ---------------------------------------------------------------------------

// View renders the whole screen for the current session state.
func (m Model) View() string {
	if m.done {
		return ""
	}
	var b strings.Builder
	b.WriteString(headerStyle.Render("GreenLoan Validator"))
	b.WriteString(subtleStyle.Render("  PV document analysis for green-loan origination"))
	b.WriteString("\n\n")

	switch m.sess.State() {
	case session.Idle:
		b.WriteString(subtleStyle.Render("No document loaded. Press q to quit."))
		b.WriteString("\n")

	case session.Uploading:
		fmt.Fprintf(&b, "%s Analyzing %s…\n", m.spinner.View(), m.sess.Filename())
		b.WriteString(subtleStyle.Render("  text extraction, OCR, data verification"))
		b.WriteString("\n")

	case session.Failed:
		b.WriteString(errorStyle.Render("Analysis failed: " + m.sess.Err()))
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("r re-submit • q quit"))
		b.WriteString("\n")

	case session.Ready:
		if _, open := m.nav.Page(); open {
			b.WriteString(m.viewPage())
		} else {
			b.WriteString(m.viewReport())
		}
	}
	return b.String()
}

// viewReport renders the loaded report body.
func (m Model) viewReport() string {
	rep := m.rep
	var b strings.Builder

	fmt.Fprintf(&b, "%s  %s\n",
		titleStyle.Render(rep.Document.Filename),
		subtleStyle.Render(fmt.Sprintf("%d pages • %s", rep.Document.Pages, rep.Document.DocID)))
	b.WriteString("\n")

	b.WriteString(m.viewScorecard())
	b.WriteString("\n")

	cursor := 0
	b.WriteString(titleStyle.Render("Extracted Facts"))
	if len(rep.Facts) == 0 {
		b.WriteString("\n" + subtleStyle.Render("  No PV facts found in document") + "\n")
	} else {
		fmt.Fprintf(&b, " %s\n", subtleStyle.Render(fmt.Sprintf("(%d)", len(rep.Facts))))
		for _, r := range m.rows {
			if r.kind == rowFact {
				b.WriteString(m.viewFactRow(r, cursor == m.cursor))
				cursor++
			}
		}
	}
	b.WriteString("\n")

	b.WriteString(titleStyle.Render("Verifications"))
	b.WriteString("\n")
	for _, r := range m.rows {
		if r.kind == rowVerification {
			b.WriteString(m.viewVerificationRow(r, cursor == m.cursor))
			cursor++
		}
	}
	if rep.PVGISCheck() == nil {
		b.WriteString(subtleStyle.Render("  PVGIS yield check not available (missing location, power, or yield data)"))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	b.WriteString(titleStyle.Render("Red Flags"))
	if len(rep.RedFlags) == 0 {
		b.WriteString("\n" + goodStyle.Render("  ✓ No significant issues found") + "\n")
	} else {
		fmt.Fprintf(&b, " %s\n", subtleStyle.Render(fmt.Sprintf("(%d)", len(rep.RedFlags))))
		for _, r := range m.rows {
			if r.kind == rowFlag {
				b.WriteString(m.viewFlagRow(r, cursor == m.cursor))
				cursor++
			}
		}
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("↑/↓ select • enter open evidence page • 1-9 open nth reference • r re-submit • q quit"))
	b.WriteString("\n")
	return b.String()
}

// viewScorecard renders the traffic light and the three score bars.
func (m Model) viewScorecard() string {
	sc := m.rep.Scorecard
	var b strings.Builder

	light := sc.TrafficLight
	fmt.Fprintf(&b, "%s %s\n",
		lightStyle(light).Bold(true).Render(light.Icon().Glyph()+" "+string(light)),
		subtleStyle.Render("overall assessment"))

	b.WriteString(scoreBar("Evidence Coverage", sc.EvidenceCoverage))
	b.WriteString(scoreBar("Consistency", sc.Consistency))
	b.WriteString(scoreBar("Feasibility", sc.Feasibility))

	if len(sc.MissingData) > 0 {
		labels := make([]string, len(sc.MissingData))
		for i, f := range sc.MissingData {
			labels[i] = report.FieldLabel(f)
		}
		b.WriteString(subtleStyle.Render("Missing data: " + strings.Join(labels, ", ")))
		b.WriteString("\n")
	}
	if len(m.idx.Scorecard) > 0 {
		b.WriteString(subtleStyle.Render("Pages to verify: " + refList(m.idx.Scorecard)))
		b.WriteString("\n")
	}
	return b.String()
}

// scoreBar renders one metric as a fixed-width bar colored by band.
func scoreBar(label string, value float64) string {
	const width = 20
	filled := int(value / 100 * width)
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	style := bandStyle(report.ClassifyScore(value))
	bar := style.Render(strings.Repeat("█", filled)) + subtleStyle.Render(strings.Repeat("░", width-filled))
	return fmt.Sprintf("  %-18s %s %s %s\n",
		label, bar,
		style.Render(fmt.Sprintf("%3.0f%%", value)),
		style.Render(report.ClassifyScore(value).String()))
}

// refList renders page refs as "p.3 p.7", marking unresolvable refs.
func refList(refs []report.PageRef) string {
	parts := make([]string, len(refs))
	for i, r := range refs {
		if r.Resolvable {
			parts[i] = pageRefStyle.Render(fmt.Sprintf("p.%d", r.Page))
		} else {
			parts[i] = badPageRefStyle.Render(fmt.Sprintf("p.%d⚠", r.Page))
		}
	}
	return strings.Join(parts, " ")
}

func cursorMark(selected bool) string {
	if selected {
		return cursorStyle.Render("▸ ")
	}
	return "  "
}

func (m Model) viewFactRow(r row, selected bool) string {
	f := r.fact
	bucket := report.ClassifyConfidence(f.Confidence)
	value := formatValue(f.Value)
	if f.Unit != "" && value != "—" {
		value += " " + f.Unit
	}
	line := fmt.Sprintf("%s%-18s %-24s %s %s",
		cursorMark(selected),
		report.FieldLabel(f.Field),
		value,
		bucketStyle(bucket).Render(fmt.Sprintf("%3.0f%% %s", f.Confidence*100, bucket)),
		refList(r.refs))
	out := line + "\n"
	if selected && len(f.Evidence) > 0 && f.Evidence[0].Snippet != "" {
		out += "    " + snippetStyle.Render("“"+f.Evidence[0].Snippet+"”") + "\n"
	}
	return out
}

func (m Model) viewVerificationRow(r row, selected bool) string {
	v := r.verif
	delta := ""
	if v.DeltaPct != nil {
		delta = fmt.Sprintf("%+.1f%% ", *v.DeltaPct)
	}
	line := fmt.Sprintf("%s%-24s %s %s%s %s",
		cursorMark(selected),
		v.CheckType,
		severityStyle(v.Severity).Render(fmt.Sprintf("[%s]", v.Severity.Display())),
		delta,
		v.Result,
		refList(r.refs))
	out := line + "\n"
	if selected {
		if v.Why != "" {
			out += "    " + subtleStyle.Render(v.Why) + "\n"
		}
		if v.CheckType == report.CheckTypePVGIS {
			out += m.viewPVGISDetail(v)
		}
	}
	return out
}

// viewPVGISDetail renders the declared-vs-estimate comparison for the
// yield-sanity check. Input/output keys follow the upstream payload.
func (m Model) viewPVGISDetail(v *report.VerificationResult) string {
	var b strings.Builder
	if loc, ok := v.Inputs["location"].(string); ok {
		b.WriteString("    " + subtleStyle.Render("Location: "+loc) + "\n")
	}
	declared, dok := v.Inputs["declared_kwh_per_kwp"].(float64)
	estimate, eok := v.Outputs["pvgis_kwh_per_kwp_estimate"].(float64)
	if dok && eok {
		fmt.Fprintf(&b, "    Declared %s  vs  PVGIS estimate %s kWh/kWp/year\n",
			titleStyle.Render(fmt.Sprintf("%.0f", declared)),
			titleStyle.Render(fmt.Sprintf("%.0f", estimate)))
	}
	if src, ok := v.Inputs["declared_source"].(string); ok && src == "IMPLIED_FROM_ANNUAL" {
		b.WriteString("    " + subtleStyle.Render("* declared yield implied from annual energy") + "\n")
	}
	b.WriteString("    " + subtleStyle.Render("Data source: EU JRC PVGIS") + "\n")
	return b.String()
}

func (m Model) viewFlagRow(r row, selected bool) string {
	f := r.flag
	line := fmt.Sprintf("%s%s %s — %s %s",
		cursorMark(selected),
		severityStyle(f.Severity).Render(fmt.Sprintf("[%s]", f.Severity)),
		subtleStyle.Render(f.Category),
		titleStyle.Render(f.Title),
		refList(r.refs))
	out := line + "\n"
	if selected {
		if f.Description != "" {
			out += "    " + f.Description + "\n"
		}
		if f.WhyItMatters != "" {
			out += "    " + subtleStyle.Render(f.WhyItMatters) + "\n"
		}
		if f.RecommendedAction != "" {
			out += "    " + subtleStyle.Render("→ "+f.RecommendedAction) + "\n"
		}
	}
	return out
}

// viewPage renders the page viewer.
func (m Model) viewPage() string {
	page, _ := m.nav.Page()
	rep := m.rep
	var b strings.Builder

	fmt.Fprintf(&b, "%s %s\n\n",
		titleStyle.Render(fmt.Sprintf("Page %d of %d", page, rep.Document.Pages)),
		subtleStyle.Render(rep.Document.Filename))

	if !m.idx.InRange(page) {
		b.WriteString(badPageRefStyle.Render("⚠ This reference points outside the document's declared page range."))
		b.WriteString("\n\n")
	}

	for _, pi := range rep.PageInfo {
		if pi.PageNo == page {
			if pi.HasText {
				fmt.Fprintf(&b, "%s\n", subtleStyle.Render(fmt.Sprintf("Extractable text: yes (%d characters)", pi.CharCount)))
			} else {
				b.WriteString(subtleStyle.Render("Extractable text: no (image-only page)"))
				b.WriteString("\n")
			}
			break
		}
	}

	switch {
	case m.fetching:
		fmt.Fprintf(&b, "\n%s loading page image…\n", m.spinner.View())
	case m.pageErr != "":
		b.WriteString("\n" + errorStyle.Render(m.pageErr) + "\n")
	case len(m.pageImg) > 0:
		fmt.Fprintf(&b, "\nPage image loaded (%d KB).\n", len(m.pageImg)/1024)
		if m.savedPath != "" {
			b.WriteString(goodStyle.Render("Saved to " + m.savedPath))
			b.WriteString("\n")
		}
	}

	// Evidence snippets anchored to this page, across all items.
	snippets := m.pageSnippets(page)
	if len(snippets) > 0 {
		b.WriteString("\n" + titleStyle.Render("Evidence on this page") + "\n")
		for _, s := range snippets {
			b.WriteString("  " + snippetStyle.Render("“"+s+"”") + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("←/→ page • s save PNG • esc close • q quit"))
	b.WriteString("\n")
	return b.String()
}

// pageSnippets collects the non-empty snippets of every ref pointing at
// the given page.
func (m Model) pageSnippets(page int) []string {
	var out []string
	seen := make(map[string]bool)
	collect := func(groups [][]report.PageRef) {
		for _, refs := range groups {
			for _, r := range refs {
				if r.Page == page && r.Snippet != "" && !seen[r.Snippet] {
					seen[r.Snippet] = true
					out = append(out, r.Snippet)
				}
			}
		}
	}
	collect(m.idx.Facts)
	collect(m.idx.Verifications)
	collect(m.idx.Flags)
	return out
}

// formatValue renders a fact value; absent values show as a dash.
func formatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return "—"
	case string:
		if t == "" {
			return "—"
		}
		return t
	case float64:
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%.2f", t)
	default:
		return fmt.Sprintf("%v", t)
	}
}
