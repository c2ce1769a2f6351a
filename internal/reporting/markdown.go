package reporting

import (
	"fmt"
	"strings"
	"time"

	"dexboost-lab/internal/domain"
)

// RenderMarkdown renders report as Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# Boost Analysis Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))

	if len(r.FiltersApplied) > 0 {
		sb.WriteString("Filters: " + strings.Join(r.FiltersApplied, ", ") + "\n\n")
	}

	// Data Summary
	sb.WriteString("## Data Summary\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Total Summaries | %d |\n", r.DataSummary.TotalSummaries))
	sb.WriteString(fmt.Sprintf("| Passed Filters | %d |\n", r.DataSummary.FilteredSummaries))
	sb.WriteString(fmt.Sprintf("| Worth-It Tokens | %d |\n", r.DataSummary.WorthItCount))
	sb.WriteString(fmt.Sprintf("| Total Trades | %d |\n", r.DataSummary.TotalTrades))
	sb.WriteString(fmt.Sprintf("| Date Range Start (ms) | %d |\n", r.DataSummary.DateRangeStart))
	sb.WriteString(fmt.Sprintf("| Date Range End (ms) | %d |\n", r.DataSummary.DateRangeEnd))
	sb.WriteString("\n")

	// Portfolio
	sb.WriteString("## Portfolio\n\n")
	if r.Portfolio.TotalTrades > 0 {
		sb.WriteString("| Metric | Value |\n")
		sb.WriteString("|--------|-------|\n")
		sb.WriteString(fmt.Sprintf("| Total Trades | %d |\n", r.Portfolio.TotalTrades))
		sb.WriteString(fmt.Sprintf("| Win Rate | %.2f%% |\n", r.Portfolio.WinRatePct))
		sb.WriteString(fmt.Sprintf("| Avg Effect | %.2f%% |\n", r.Portfolio.AvgEffectPct))
		sb.WriteString(fmt.Sprintf("| Rug-Pull Rate | %.2f%% |\n", r.Portfolio.RugPullRatePct))
		sb.WriteString(fmt.Sprintf("| Total Profit | %.2f |\n", r.Portfolio.TotalProfit))
		sb.WriteString(fmt.Sprintf("| Overall Return | %.2f%% |\n", r.Portfolio.OverallReturnPct))
		sb.WriteString(fmt.Sprintf("| TP / SL | %d / %d |\n",
			r.Portfolio.CountByEventKind[domain.TallyTakeProfit],
			r.Portfolio.CountByEventKind[domain.TallyStopLoss]))
		sb.WriteString(fmt.Sprintf("| No Trigger (pos/neg) | %d / %d |\n",
			r.Portfolio.CountByEventKind[domain.TallyNoTriggerPositive],
			r.Portfolio.CountByEventKind[domain.TallyNoTriggerNegative]))
	} else {
		sb.WriteString("No trades simulated.\n")
	}
	sb.WriteString("\n")

	// Token table
	sb.WriteString("## Tokens\n\n")
	if len(r.TokenRows) > 0 {
		sb.WriteString("| Mint | Name | Boost | Trigger | Max% | Min% | TriggerSec | Age (min) | MarketCap | Liquidity | Label |\n")
		sb.WriteString("|------|------|-------|---------|------|------|------------|-----------|-----------|-----------|-------|\n")
		for _, row := range r.TokenRows {
			sb.WriteString(fmt.Sprintf("| %s | %s | %d | %s | %.2f | %.2f | %.1f | %.1f | %d | %.2f | %d |\n",
				row.TokenMint, row.TokenName, row.BoostID, row.FirstTrigger,
				row.MaxVariationPct, row.MinVariationPct, row.SecondsToTrigger,
				row.TokenAgeMinutes, row.MarketCap, row.TotalLiquidity, row.Label))
		}
	} else {
		sb.WriteString("No tokens passed the filters.\n")
	}
	sb.WriteString("\n")

	return sb.String()
}
