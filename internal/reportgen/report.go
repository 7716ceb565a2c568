// Package reportgen assembles the final ranked ScannerReport and persists
// it as JSON and text artifacts. It is grounded on the teacher's
// internal/reports/regime/generator.go shape (text/template into a
// buffer, then a single atomic write), swapping markdown+CSV for the
// scanner's JSON + human-readable text pair and routing the write
// through the teacher's internal/io atomic-write helpers instead of a
// bare os.WriteFile.
package reportgen

import (
	"bytes"
	"sort"
	"text/template"
	"time"

	"github.com/google/uuid"

	duoio "github.com/sawpanic/duoscan/internal/io"
	"github.com/sawpanic/duoscan/internal/score"
)

// Row is one symbol's place in the final ranked report.
type Row struct {
	Rank            int            `json:"rank"`
	Symbol          string         `json:"symbol"`
	COSScore        float64        `json:"cos_score"`
	Verdict         score.Verdict  `json:"verdict"`
	RejectionReason string         `json:"rejection_reason,omitempty"`
	Criteria        []score.CriterionScore `json:"criteria"`

	OptimalLagMs         float64 `json:"optimal_lag_ms"`
	PeakCorrelation      float64 `json:"peak_correlation"`
	AvgSpreadBps         float64 `json:"avg_spread_bps"`
	BidDepthUSD          float64 `json:"bid_depth_usd"`
	AskDepthUSD          float64 `json:"ask_depth_usd"`
	MLOFISignalStrength  float64 `json:"mlofi_signal_strength"`
	LeaderTFI            float64 `json:"leader_tfi"`
	FollowerTFI          float64 `json:"follower_tfi"`
	MicropriceDivBps     float64 `json:"microprice_divergence_bps"`
	RealizedVolatility   float64 `json:"realized_volatility"`
	TradeUrgency         float64 `json:"trade_urgency"`
	OBI                  float64 `json:"obi"`
}

// Report is the complete ScannerReport record.
type Report struct {
	RunID          string    `json:"run_id"`
	GeneratedAt    time.Time `json:"generated_at"`
	PassedCount    int       `json:"passed_count"`
	Recommendation string    `json:"recommendation"`
	Results        []Row     `json:"results"`
}

// Build sorts rows descending by COSScore (ties broken by original/input
// order, which callers should supply in a stable order such as universe
// order), assigns ranks, counts passed rows, and derives the text
// recommendation.
func Build(runID string, rows []Row) Report {
	if runID == "" {
		runID = uuid.NewString()
	}

	sorted := append([]Row(nil), rows...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].COSScore > sorted[j].COSScore
	})

	passed := 0
	for i := range sorted {
		sorted[i].Rank = i + 1
		if sorted[i].RejectionReason == "" {
			passed++
		}
	}

	return Report{
		RunID:          runID,
		GeneratedAt:    time.Now(),
		PassedCount:    passed,
		Recommendation: recommendation(sorted, passed),
		Results:        sorted,
	}
}

func recommendation(rows []Row, passed int) string {
	switch {
	case passed >= 3:
		var names []string
		for _, r := range rows {
			if r.RejectionReason == "" {
				names = append(names, r.Symbol)
			}
			if len(names) == 3 {
				break
			}
		}
		primary, standbys := names[0], names[1:]
		return "PROCEED with primary " + primary + " (standbys: " + joinComma(standbys) + ")"
	case passed >= 1:
		return "PROCEED WITH CAUTION — fewer than 3 candidates passed validation"
	default:
		return "PIVOT — no symbol passed validation this scan"
	}
}

func joinComma(ss []string) string {
	out := ""
	for i, s := range ss {
		if i > 0 {
			out += ", "
		}
		out += s
	}
	return out
}

// WriteJSON persists the report as JSON at path, atomically.
func WriteJSON(path string, report Report) error {
	return duoio.WriteJSONAtomic(path, report)
}

// WriteText renders and persists the human-readable report at path,
// atomically.
func WriteText(path string, report Report) error {
	tmpl := template.Must(template.New("scanner_report").Parse(textReportTemplate))

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, report); err != nil {
		return err
	}
	return duoio.WriteFileAtomic(path, buf.Bytes())
}
