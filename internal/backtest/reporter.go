package backtest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// GenerateConsoleReport formats a report for terminal output.
func GenerateConsoleReport(report Report) string {
	var builder strings.Builder
	builder.WriteString("Backtest Report\n")
	builder.WriteString("================\n")
	builder.WriteString(fmt.Sprintf("Strategy: %s\n", report.StrategyName))
	builder.WriteString(fmt.Sprintf("Period: %s to %s\n",
		report.StartDate.Format("2006-01-02"), report.EndDate.Format("2006-01-02")))
	builder.WriteString(fmt.Sprintf("Initial Bankroll: %.2f\n", report.InitialBankroll))
	builder.WriteString(fmt.Sprintf("Final Bankroll: %.2f\n", report.FinalBankroll))
	builder.WriteString(fmt.Sprintf("Total Bets: %d (won %d, lost %d, skipped %d)\n",
		report.TotalBets, report.WinningBets, report.LosingBets, report.SkippedSignals))
	builder.WriteString(fmt.Sprintf("Win Rate: %.2f%%\n", report.WinRate*100))
	builder.WriteString(fmt.Sprintf("ROI: %.2f%%\n", report.ROI*100))
	builder.WriteString(fmt.Sprintf("Total Profit: %.2f\n", report.TotalProfit))
	builder.WriteString(fmt.Sprintf("Max Drawdown: %.2f%%\n", report.MaxDrawdown*100))
	builder.WriteString(fmt.Sprintf("Sharpe Ratio: %s\n", formatRatio(report.SharpeRatio)))
	builder.WriteString(fmt.Sprintf("Calmar Ratio: %s\n", formatRatio(report.CalmarRatio)))
	return builder.String()
}

// GenerateJSONExport writes the report to a JSON file.
func GenerateJSONExport(report Report, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return os.WriteFile(outputPath, []byte(report.ToJSON()), 0o644)
}

// GenerateCSVExport exports key metrics for spreadsheets.
func GenerateCSVExport(report Report, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	csv := "metric,value\n" +
		fmt.Sprintf("initial_bankroll,%.2f\n", report.InitialBankroll) +
		fmt.Sprintf("final_bankroll,%.2f\n", report.FinalBankroll) +
		fmt.Sprintf("total_bets,%d\n", report.TotalBets) +
		fmt.Sprintf("winning_bets,%d\n", report.WinningBets) +
		fmt.Sprintf("losing_bets,%d\n", report.LosingBets) +
		fmt.Sprintf("skipped_signals,%d\n", report.SkippedSignals) +
		fmt.Sprintf("win_rate,%.4f\n", report.WinRate) +
		fmt.Sprintf("roi,%.4f\n", report.ROI) +
		fmt.Sprintf("total_profit,%.4f\n", report.TotalProfit) +
		fmt.Sprintf("max_drawdown,%.4f\n", report.MaxDrawdown) +
		fmt.Sprintf("sharpe_ratio,%s\n", formatRatio(report.SharpeRatio)) +
		fmt.Sprintf("calmar_ratio,%s\n", formatRatio(report.CalmarRatio))
	return os.WriteFile(outputPath, []byte(csv), 0o644)
}

// GenerateEquityCSV exports the equity curve to a CSV file.
func GenerateEquityCSV(curve EquityCurve, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return os.WriteFile(outputPath, []byte(curve.ToCSV()), 0o644)
}

func formatRatio(value *float64) string {
	if value == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.4f", *value)
}
