package report

// types_test.go — Wire-format compatibility with the analyzer backend.

import (
	"encoding/json"
	"testing"
)

// sampleReportJSON mirrors the analyzer's response shape.
const sampleReportJSON = `{
  "document": {
    "doc_id": "abc123",
    "filename": "offer.pdf",
    "sha256": "deadbeef",
    "pages": 12,
    "created_at": "2026-03-01T10:00:00Z"
  },
  "page_info": [
    {"page_no": 1, "has_text": true, "char_count": 1840},
    {"page_no": 2, "has_text": false, "char_count": 0}
  ],
  "facts": [
    {
      "field": "declared_power_kwp",
      "value": 9.9,
      "unit": "kWp",
      "confidence": 0.92,
      "evidence": [{"page_no": 3, "snippet": "Installed power: 9.9 kWp"}]
    },
    {
      "field": "project_location_text",
      "value": "Krakow, Poland",
      "unit": null,
      "confidence": 0.75,
      "evidence": []
    },
    {
      "field": "grid_connection_status",
      "value": null,
      "unit": null,
      "confidence": 0.4,
      "evidence": []
    }
  ],
  "verifications": [
    {
      "check_id": "chk-1",
      "check_type": "PVGIS_YIELD_SANITY",
      "inputs": {"declared_kwh_per_kwp": 1050.0, "location": "Krakow, Poland"},
      "outputs": {"pvgis_kwh_per_kwp_estimate": 980.0},
      "result": "MARGINAL",
      "severity": "MEDIUM",
      "delta_pct": 7.1,
      "confidence": 0.9,
      "why": "Declared yield 1050 vs expected 980 kWh/kWp (+7.1%)",
      "pages_to_verify": [3, 4],
      "evidence": []
    }
  ],
  "red_flags": [
    {
      "flag_id": "rf-1",
      "severity": "HIGH",
      "category": "DATA_COMPLETENESS",
      "title": "Missing grid connection status",
      "description": "No grid connection information found.",
      "why_it_matters": "Connection status affects feasibility.",
      "pages_to_verify": [2],
      "evidence": [],
      "recommended_action": "Request the grid connection agreement."
    }
  ],
  "scorecard": {
    "evidence_coverage": 72,
    "consistency": 80,
    "feasibility": 55,
    "traffic_light": "YELLOW",
    "pages_to_verify": [2, 3],
    "missing_data": ["grid_connection_status"]
  }
}`

func decodeSample(t *testing.T) *AnalysisReport {
	t.Helper()
	var rep AnalysisReport
	if err := json.Unmarshal([]byte(sampleReportJSON), &rep); err != nil {
		t.Fatalf("unmarshal sample report: %v", err)
	}
	return &rep
}

func TestDecodeAnalysisReport(t *testing.T) {
	rep := decodeSample(t)

	if rep.Document.DocID != "abc123" || rep.Document.Pages != 12 {
		t.Errorf("document meta wrong: %+v", rep.Document)
	}
	if len(rep.PageInfo) != 2 || !rep.PageInfo[0].HasText || rep.PageInfo[0].CharCount != 1840 {
		t.Errorf("page info wrong: %+v", rep.PageInfo)
	}
	if len(rep.Facts) != 3 {
		t.Fatalf("got %d facts, want 3", len(rep.Facts))
	}
	if v, ok := rep.Facts[0].Value.(float64); !ok || v != 9.9 {
		t.Errorf("numeric fact value = %v", rep.Facts[0].Value)
	}
	if v, ok := rep.Facts[1].Value.(string); !ok || v != "Krakow, Poland" {
		t.Errorf("string fact value = %v", rep.Facts[1].Value)
	}
	if rep.Facts[2].Value != nil {
		t.Errorf("absent fact value should decode to nil, got %v", rep.Facts[2].Value)
	}
	if rep.RedFlags[0].Severity != SeverityHigh {
		t.Errorf("flag severity = %q", rep.RedFlags[0].Severity)
	}
	if rep.Scorecard.TrafficLight != LightYellow {
		t.Errorf("traffic light = %q", rep.Scorecard.TrafficLight)
	}
}

func TestPVGISCheck(t *testing.T) {
	rep := decodeSample(t)

	check := rep.PVGISCheck()
	if check == nil {
		t.Fatal("PVGISCheck returned nil for a report containing the check")
	}
	if check.DeltaPct == nil || *check.DeltaPct != 7.1 {
		t.Errorf("delta_pct = %v", check.DeltaPct)
	}

	rep.Verifications = nil
	if rep.PVGISCheck() != nil {
		t.Error("PVGISCheck should return nil when the check is absent")
	}
}

func TestFieldLabel(t *testing.T) {
	tests := []struct {
		field string
		want  string
	}{
		{"declared_power_kwp", "Installed Power"},
		{"supplier_epc", "EPC Contractor"},
		// Unknown fields fall back to the raw name.
		{"battery_capacity_kwh", "battery_capacity_kwh"},
	}
	for _, tc := range tests {
		if got := FieldLabel(tc.field); got != tc.want {
			t.Errorf("FieldLabel(%q) = %q, want %q", tc.field, got, tc.want)
		}
	}
}
