package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bhilarepratham/strategic-company-analyzer/internal/collector"
	"github.com/bhilarepratham/strategic-company-analyzer/models"
)

// UI styles
var (
	titleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#7C3AED")).
		Padding(0, 1)

	headerRowStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#3B82F6"))

	summaryStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#10B981")).
		Padding(1, 2)

	successStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#10B981")).
		Bold(true)

	errorStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#EF4444")).
		Bold(true)

	infoStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#3B82F6"))

	dimStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#6B7280"))
)

// DisplayInfo shows an info message
func DisplayInfo(message string) {
	fmt.Println(infoStyle.Render("ℹ️  " + message))
}

// DisplayError shows an error message
func DisplayError(err error) {
	fmt.Println(errorStyle.Render("❌ Error: " + err.Error()))
}

// DisplayProgress prints a one-line batch progress update
func DisplayProgress(index, total int, symbol string, succeeded, failed int) {
	line := fmt.Sprintf("[%d/%d] %-8s ✅ %d  ❌ %d", index, total, symbol, succeeded, failed)
	fmt.Println(dimStyle.Render(line))
}

// DisplayBatchSummary shows the aggregate result of a collection run
func DisplayBatchSummary(result collector.BatchResult) {
	var content strings.Builder

	content.WriteString("📊 Collection Summary\n\n")
	content.WriteString(fmt.Sprintf("Succeeded: %d\n", result.Succeeded))
	content.WriteString(fmt.Sprintf("Failed:    %d\n", result.Failed))

	if len(result.FailedSymbols) > 0 {
		content.WriteString("\nFailed symbols:\n")
		for _, outcome := range result.Outcomes {
			if outcome.Status == collector.StatusCollected {
				continue
			}
			reason := string(outcome.Status)
			if outcome.Err != nil {
				reason = outcome.Err.Error()
			}
			content.WriteString(fmt.Sprintf("  • %s: %s\n", outcome.Symbol, truncateString(reason, 60)))
		}
	}

	fmt.Println(summaryStyle.Render(strings.TrimRight(content.String(), "\n")))
}

// DisplayCompanyTable prints the stored companies ordered as given
func DisplayCompanyTable(companies []models.CompanyProfile) {
	fmt.Println(titleStyle.Render(fmt.Sprintf("🏢 Companies (%d)", len(companies))))

	header := fmt.Sprintf("%-8s %-28s %-22s %14s %10s %10s",
		"SYMBOL", "NAME", "INDUSTRY", "MARKET CAP", "PRICE", "P/E")
	fmt.Println(headerRowStyle.Render(header))
	fmt.Println(dimStyle.Render(strings.Repeat("─", len(header))))

	for _, c := range companies {
		fmt.Printf("%-8s %-28s %-22s %14s %10.2f %10.2f\n",
			c.Symbol,
			truncateString(c.Name, 28),
			truncateString(c.Industry, 22),
			formatMarketCap(c.MarketCap),
			c.CurrentPrice,
			c.PERatio,
		)
	}
}

// DisplayCompanyDetail prints one company's profile, executives and ratios
func DisplayCompanyDetail(c *models.CompanyProfile, executives []models.Executive, ratios *models.FinancialRatios) {
	fmt.Println(titleStyle.Render(fmt.Sprintf("🏢 %s (%s)", c.Name, c.Symbol)))
	fmt.Println()

	fmt.Printf("Sector:         %s\n", c.Sector)
	fmt.Printf("Industry:       %s\n", c.Industry)
	fmt.Printf("Headquarters:   %s\n", c.Headquarters)
	fmt.Printf("Website:        %s\n", c.Website)
	fmt.Printf("Employees:      %d\n", c.Employees)
	fmt.Println()
	fmt.Printf("Market Cap:     %s\n", formatMarketCap(c.MarketCap))
	fmt.Printf("Revenue:        %s\n", formatMarketCap(c.Revenue))
	fmt.Printf("Current Price:  %.2f\n", c.CurrentPrice)
	fmt.Printf("Previous Close: %.2f\n", c.PreviousClose)
	fmt.Printf("Last Updated:   %s\n", c.LastUpdated.Format("2006-01-02 15:04:05"))

	if c.Description != "" && c.Description != "N/A" {
		fmt.Println()
		fmt.Println(dimStyle.Render(c.Description))
	}

	if len(executives) > 0 {
		fmt.Println()
		fmt.Println(headerRowStyle.Render("👔 Key Executives"))
		for _, e := range executives {
			line := fmt.Sprintf("  • %s — %s", e.Name, e.Title)
			if e.TotalPay > 0 {
				line += fmt.Sprintf(" (%s)", formatMarketCap(e.TotalPay))
			}
			fmt.Println(line)
		}
	}

	if ratios != nil && !ratios.IsZero() {
		fmt.Println()
		fmt.Println(headerRowStyle.Render("📈 Financial Ratios"))
		fmt.Printf("  P/E: %.2f   Forward P/E: %.2f   PEG: %.2f   P/B: %.2f\n",
			ratios.PERatio, ratios.ForwardPE, ratios.PEGRatio, ratios.PriceToBook)
		fmt.Printf("  ROE: %.2f%%  ROA: %.2f%%  Profit Margin: %.2f%%\n",
			ratios.ReturnOnEquity*100, ratios.ReturnOnAssets*100, ratios.ProfitMargin*100)
		fmt.Printf("  Debt/Equity: %.2f   Current: %.2f   Quick: %.2f\n",
			ratios.DebtToEquity, ratios.CurrentRatio, ratios.QuickRatio)
	}
}

// DisplayHistoryTable prints price history rows, oldest first
func DisplayHistoryTable(symbol string, records []models.PriceHistoryRecord) {
	fmt.Println(titleStyle.Render(fmt.Sprintf("📉 %s Price History (%d rows)", symbol, len(records))))

	header := fmt.Sprintf("%-12s %10s %10s %10s %10s %14s",
		"DATE", "OPEN", "HIGH", "LOW", "CLOSE", "VOLUME")
	fmt.Println(headerRowStyle.Render(header))
	fmt.Println(dimStyle.Render(strings.Repeat("─", len(header))))

	for _, r := range records {
		fmt.Printf("%-12s %10.2f %10.2f %10.2f %10.2f %14d\n",
			r.Date.Format("2006-01-02"), r.Open, r.High, r.Low, r.Close, r.Volume)
	}
}

// formatMarketCap renders a dollar amount with a T/B/M suffix
func formatMarketCap(value float64) string {
	switch {
	case value >= 1e12:
		return fmt.Sprintf("$%.2fT", value/1e12)
	case value >= 1e9:
		return fmt.Sprintf("$%.2fB", value/1e9)
	case value >= 1e6:
		return fmt.Sprintf("$%.2fM", value/1e6)
	case value > 0:
		return fmt.Sprintf("$%.0f", value)
	default:
		return "N/A"
	}
}

func truncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen-3]) + "..."
}
