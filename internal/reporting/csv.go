package reporting

import (
	"fmt"
	"strings"

	"dexboost-lab/internal/domain"
)

// RenderCSV renders token rows as CSV string.
func RenderCSV(rows []TokenRow) string {
	var sb strings.Builder

	// Header
	sb.WriteString("token_mint,token_name,boost_id,first_trigger,max_variation_pct,min_variation_pct,")
	sb.WriteString("seconds_to_trigger,token_age_minutes,market_cap,total_liquidity,label\n")

	// Rows
	for _, row := range rows {
		sb.WriteString(fmt.Sprintf("%s,%s,%d,%s,%.6f,%.6f,%.6f,%.6f,%d,%.6f,%d\n",
			row.TokenMint,
			csvEscape(row.TokenName),
			row.BoostID,
			row.FirstTrigger,
			row.MaxVariationPct,
			row.MinVariationPct,
			row.SecondsToTrigger,
			row.TokenAgeMinutes,
			row.MarketCap,
			row.TotalLiquidity,
			row.Label,
		))
	}

	return sb.String()
}

// RenderTradesCSV renders the simulated trade log as CSV string.
func RenderTradesCSV(trades []domain.SimulationRecord) string {
	var sb strings.Builder

	sb.WriteString("trade_id,series_id,token_mint,event_kind,effect_pct,stake,payout,profit,time_of_event\n")

	for _, t := range trades {
		sb.WriteString(fmt.Sprintf("%s,%s,%s,%s,%.6f,%.2f,%.6f,%.6f,%.3f\n",
			t.TradeID,
			t.SeriesID,
			t.TokenMint,
			t.EventKind,
			t.EffectPct,
			t.Stake,
			t.Payout,
			t.Profit,
			t.TimeOfEvent,
		))
	}

	return sb.String()
}

// csvEscape quotes a field containing commas or quotes.
func csvEscape(field string) string {
	if !strings.ContainsAny(field, ",\"\n") {
		return field
	}
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}
