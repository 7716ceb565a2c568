package reportgen

import (
	"path/filepath"
	"testing"

	"github.com/sawpanic/duoscan/internal/score"
)

func TestBuildSortsDescendingAndRanks(t *testing.T) {
	rows := []Row{
		{Symbol: "A", COSScore: 40, Verdict: score.VerdictWeak},
		{Symbol: "B", COSScore: 90, Verdict: score.VerdictStrongCandidate},
		{Symbol: "C", COSScore: 65, Verdict: score.VerdictCandidate},
	}
	report := Build("", rows)

	if report.Results[0].Symbol != "B" || report.Results[0].Rank != 1 {
		t.Fatalf("expected B ranked first, got %+v", report.Results[0])
	}
	if report.Results[len(report.Results)-1].Symbol != "A" {
		t.Fatalf("expected A ranked last, got %+v", report.Results)
	}
	for i := 1; i < len(report.Results); i++ {
		if report.Results[i-1].COSScore < report.Results[i].COSScore {
			t.Fatal("results must be sorted non-increasing by cos_score")
		}
	}
}

func TestRecommendationThresholds(t *testing.T) {
	threePassed := Build("", []Row{
		{Symbol: "A", COSScore: 80},
		{Symbol: "B", COSScore: 75},
		{Symbol: "C", COSScore: 70},
	})
	if threePassed.Recommendation[:7] != "PROCEED" {
		t.Fatalf("expected a PROCEED recommendation for 3 passed, got %q", threePassed.Recommendation)
	}

	onePassed := Build("", []Row{
		{Symbol: "A", COSScore: 80},
		{Symbol: "B", COSScore: 40, RejectionReason: "x"},
	})
	if onePassed.Recommendation != "PROCEED WITH CAUTION — fewer than 3 candidates passed validation" {
		t.Fatalf("unexpected recommendation: %q", onePassed.Recommendation)
	}

	nonePassed := Build("", []Row{
		{Symbol: "A", COSScore: 20, RejectionReason: "x"},
	})
	if nonePassed.Recommendation != "PIVOT — no symbol passed validation this scan" {
		t.Fatalf("unexpected recommendation: %q", nonePassed.Recommendation)
	}
}

func TestWriteJSONAndTextSucceed(t *testing.T) {
	dir := t.TempDir()
	report := Build("run-1", []Row{{Symbol: "BTCUSD", COSScore: 80, Verdict: score.VerdictStrongCandidate}})

	if err := WriteJSON(filepath.Join(dir, "scanner_report.json"), report); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}
	if err := WriteText(filepath.Join(dir, "scanner_report.txt"), report); err != nil {
		t.Fatalf("WriteText failed: %v", err)
	}
}
