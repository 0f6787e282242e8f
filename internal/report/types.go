// Package report holds the analysis report delivered by the GreenLoan
// analyzer backend, plus the pure classification and evidence-linkage
// rules that turn it into displayable categories and page references.
//
// The report is produced upstream (PDF extraction, fact extraction,
// PVGIS yield lookup) and consumed here read-only: this package never
// constructs or edits report entities, only classifies and
// cross-references them.
package report

import "time"

// ---------------------------------------------------------------------------
// Wire types
// ---------------------------------------------------------------------------

// AnalysisReport is the aggregate root returned by POST /api/analyze.
// Immutable once loaded; replaced wholesale on a new submission.
type AnalysisReport struct {
	Document      DocumentMeta         `json:"document"`
	PageInfo      []PageInfo           `json:"page_info"`
	Facts         []ExtractedFact      `json:"facts"`
	Verifications []VerificationResult `json:"verifications"`
	RedFlags      []RedFlag            `json:"red_flags"`
	Scorecard     ScoreCard            `json:"scorecard"`
}

// DocumentMeta identifies the analyzed document. Pages is the
// authoritative upper bound for every page reference in the report.
type DocumentMeta struct {
	DocID     string    `json:"doc_id"`
	Filename  string    `json:"filename"`
	SHA256    string    `json:"sha256"`
	Pages     int       `json:"pages"`
	CreatedAt time.Time `json:"created_at"`
}

// PageInfo records per-page extraction metadata. Descriptive only;
// nothing in this layer acts on it.
type PageInfo struct {
	PageNo    int  `json:"page_no"`
	HasText   bool `json:"has_text"`
	CharCount int  `json:"char_count"`
}

// Evidence is one page reference with an optional supporting excerpt.
type Evidence struct {
	PageNo  int    `json:"page_no"`
	Snippet string `json:"snippet"`
}

// ExtractedFact is a single PV attribute pulled from the document.
// Value is a number, a string, or nil when the extractor found the
// field but no usable value. A fact with no evidence is displayable
// but untraceable.
type ExtractedFact struct {
	Field      string     `json:"field"`
	Value      any        `json:"value"`
	Unit       string     `json:"unit,omitempty"`
	Confidence float64    `json:"confidence"`
	Evidence   []Evidence `json:"evidence"`
}

// VerificationResult is the output of one automated check, e.g. the
// PVGIS yield-sanity comparison. Inputs and outputs are opaque payloads
// specific to the check; Result is display text (OK, MARGINAL, OUTLIER
// upstream today, but not interpreted here).
type VerificationResult struct {
	CheckID       string         `json:"check_id"`
	CheckType     string         `json:"check_type"`
	Inputs        map[string]any `json:"inputs"`
	Outputs       map[string]any `json:"outputs"`
	Result        string         `json:"result"`
	Severity      Severity       `json:"severity"`
	DeltaPct      *float64       `json:"delta_pct"`
	Confidence    float64        `json:"confidence"`
	Why           string         `json:"why"`
	PagesToVerify []int          `json:"pages_to_verify"`
	Evidence      []Evidence     `json:"evidence"`
}

// RedFlag is one issue the analyzer wants an underwriter to look at.
type RedFlag struct {
	FlagID            string     `json:"flag_id"`
	Severity          Severity   `json:"severity"`
	Category          string     `json:"category"`
	Title             string     `json:"title"`
	Description       string     `json:"description"`
	WhyItMatters      string     `json:"why_it_matters"`
	PagesToVerify     []int      `json:"pages_to_verify"`
	Evidence          []Evidence `json:"evidence"`
	RecommendedAction string     `json:"recommended_action"`
}

// ScoreCard aggregates the three percentage metrics and the derived
// traffic light.
type ScoreCard struct {
	EvidenceCoverage float64      `json:"evidence_coverage"`
	Consistency      float64      `json:"consistency"`
	Feasibility      float64      `json:"feasibility"`
	TrafficLight     TrafficLight `json:"traffic_light"`
	PagesToVerify    []int        `json:"pages_to_verify"`
	MissingData      []string     `json:"missing_data"`
}

// ---------------------------------------------------------------------------
// PVGIS
// ---------------------------------------------------------------------------

// CheckTypePVGIS is the check_type of the yield-sanity verification
// comparing declared yield against the geographic PVGIS estimate.
const CheckTypePVGIS = "PVGIS_YIELD_SANITY"

// PVGISCheck returns the yield-sanity verification, or nil when the
// upstream pipeline could not run it (missing location, power, or
// yield data).
func (r *AnalysisReport) PVGISCheck() *VerificationResult {
	for i := range r.Verifications {
		if r.Verifications[i].CheckType == CheckTypePVGIS {
			return &r.Verifications[i]
		}
	}
	return nil
}

// ---------------------------------------------------------------------------
// Field labels
// ---------------------------------------------------------------------------

// fieldLabels maps the closed PV fact field set to display labels.
// Unknown fields fall back to the raw field name, so the set stays
// extensible without code changes here.
var fieldLabels = map[string]string{
	"project_location_text":      "Location",
	"declared_power_kwp":         "Installed Power",
	"system_type":                "System Type",
	"declared_yield_kwh_per_kwp": "Expected Yield",
	"declared_annual_energy_mwh": "Annual Energy",
	"capex_pln":                  "CAPEX",
	"roof_area_m2":               "Roof Area",
	"panels_count":               "Panel Count",
	"module_watt_peak":           "Module Power",
	"inverter_power_kw":          "Inverter Power",
	"grid_connection_status":     "Grid Connection",
	"supplier_epc":               "EPC Contractor",
}

// FieldLabel returns the display label for a fact field.
func FieldLabel(field string) string {
	if label, ok := fieldLabels[field]; ok {
		return label
	}
	return field
}
