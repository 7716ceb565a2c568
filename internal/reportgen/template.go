package reportgen

const textReportTemplate = `DUOSCAN SCANNER REPORT
run_id: {{.RunID}}
generated_at: {{.GeneratedAt.Format "2006-01-02T15:04:05Z07:00"}}
passed: {{.PassedCount}} / {{len .Results}}

{{range .Results -}}
#{{.Rank}} {{.Symbol}} — COS {{printf "%.1f" .COSScore}} — {{.Verdict}}
  lead-lag:    lag={{printf "%.1f" .OptimalLagMs}}ms  r={{printf "%.3f" .PeakCorrelation}}
  spread:      {{printf "%.2f" .AvgSpreadBps}}bps   depth: bid=${{printf "%.0f" .BidDepthUSD}} ask=${{printf "%.0f" .AskDepthUSD}}
  mlofi:       strength={{printf "%.2f" .MLOFISignalStrength}}
  tfi:         leader={{printf "%.3f" .LeaderTFI}}  follower={{printf "%.3f" .FollowerTFI}}
  microprice:  divergence={{printf "%.2f" .MicropriceDivBps}}bps
  volatility:  {{printf "%.4f" .RealizedVolatility}}   urgency={{printf "%.2f" .TradeUrgency}}
  obi:         {{printf "%.3f" .OBI}}
{{if .RejectionReason}}  rejected:    {{.RejectionReason}}
{{end}}
{{end -}}
SCORING WEIGHTS
  lead_lag_quality        0.25
  spread_efficiency        0.15
  mlofi_signal_strength    0.15
  microprice_divergence    0.15
  trade_flow_confirmation  0.10
  liquidity_depth          0.10
  lag_stability            0.10

RECOMMENDATION: {{.Recommendation}}
`
