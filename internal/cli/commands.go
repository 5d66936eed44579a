// Package cli provides the command-line interface for the company analyzer
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bhilarepratham/strategic-company-analyzer/config"
	"github.com/bhilarepratham/strategic-company-analyzer/internal"
	"github.com/bhilarepratham/strategic-company-analyzer/internal/collector"
	"github.com/bhilarepratham/strategic-company-analyzer/internal/dataflows"
	"github.com/bhilarepratham/strategic-company-analyzer/internal/storage"
	"github.com/bhilarepratham/strategic-company-analyzer/models"
)

// app bundles the wired components every command needs. Everything is
// built in buildApp so commands never reach for globals.
type app struct {
	cfg       *config.Config
	logger    *zap.SugaredLogger
	store     *storage.Store
	collector *collector.Collector
}

func buildApp(cfg *config.Config) (*app, error) {
	logger, err := internal.NewLogger()
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	store, err := storage.NewStore(cfg.DatabasePath, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	primary := dataflows.NewYahooClient(cfg, logger)
	scraper := dataflows.NewQuoteScraper(cfg, logger)

	col := collector.New(primary, scraper, store, logger,
		collector.WithPacing(cfg.RateLimitDelay),
		collector.WithPeriod(cfg.StockPeriod),
	)

	return &app{cfg: cfg, logger: logger, store: store, collector: col}, nil
}

func (a *app) close() {
	if a.store != nil {
		a.store.Close()
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfg := config.DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "company-analyzer",
		Short: "Collect and browse company financial data",
		Long: `Company analyzer collects company profiles, price history, executives
and financial ratios from public market data sources and stores them in a
local SQLite database for offline analysis.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.EnsureDirectories(); err != nil {
				return fmt.Errorf("failed to create directories: %w", err)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.AddCommand(newCollectCmd(cfg))
	rootCmd.AddCommand(newListCmd(cfg))
	rootCmd.AddCommand(newShowCmd(cfg))
	rootCmd.AddCommand(newHistoryCmd(cfg))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// newCollectCmd creates the collect command
func newCollectCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "collect [SYMBOLS...]",
		Short: "Collect company data for one or more symbols",
		Long: `Collect company profiles, price history, executives and financial
ratios for the given symbols, or for a whole industry universe.
Examples:
  company-analyzer collect AAPL MSFT
  company-analyzer collect --industry technology`,
		RunE: func(cmd *cobra.Command, args []string) error {
			industry, _ := cmd.Flags().GetString("industry")
			return runCollectCommand(cfg, args, industry)
		},
	}

	cmd.Flags().String("industry", "", "Collect a whole industry universe (run without arguments to pick one)")

	return cmd
}

// newListCmd creates the list command
func newListCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored companies ordered by market cap",
		RunE: func(cmd *cobra.Command, args []string) error {
			industry, _ := cmd.Flags().GetString("industry")
			return runListCommand(cfg, industry)
		},
	}

	cmd.Flags().String("industry", "", "Filter by industry or sector substring")

	return cmd
}

// newShowCmd creates the show command
func newShowCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "show SYMBOL",
		Short: "Show the stored profile, executives and ratios for a symbol",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShowCommand(cfg, args[0])
		},
	}
}

// newHistoryCmd creates the history command
func newHistoryCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history SYMBOL",
		Short: "Show stored price history for a symbol",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, _ := cmd.Flags().GetInt("limit")
			return runHistoryCommand(cfg, args[0], limit)
		},
	}

	cmd.Flags().Int("limit", 20, "Show only the most recent N rows (0 for all)")

	return cmd
}

// newVersionCmd creates the version command
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("company-analyzer v1.0.0")
			fmt.Println("Company financial data collection and storage")
		},
	}
}

// runCollectCommand resolves the symbol set and runs the batch collection
func runCollectCommand(cfg *config.Config, args []string, industry string) error {
	symbols, label, err := resolveSymbols(args, industry)
	if err != nil {
		return err
	}

	a, err := buildApp(cfg)
	if err != nil {
		return err
	}
	defer a.close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	DisplayInfo(fmt.Sprintf("Collecting %d symbols (%s)", len(symbols), label))

	result := a.collector.CollectMany(ctx, symbols, func(index, total int, symbol string, succeeded, failed int) {
		DisplayProgress(index, total, symbol, succeeded, failed)
	})

	DisplayBatchSummary(result)

	count, err := a.store.CompanyCount()
	if err == nil {
		DisplayInfo(fmt.Sprintf("Database now holds %d companies", count))
	}

	if result.Succeeded == 0 && len(symbols) > 0 {
		return fmt.Errorf("no symbols collected")
	}
	return nil
}

// resolveSymbols turns command arguments and the industry flag into the
// batch symbol list. With neither, the user picks an industry interactively.
func resolveSymbols(args []string, industry string) ([]string, string, error) {
	if len(args) > 0 {
		symbols := make([]string, 0, len(args))
		for _, arg := range args {
			symbol := strings.TrimSpace(strings.ToUpper(arg))
			if symbol == "" {
				continue
			}
			if err := dataflows.ValidateSymbol(symbol); err != nil {
				return nil, "", err
			}
			symbols = append(symbols, symbol)
		}
		if len(symbols) == 0 {
			return nil, "", fmt.Errorf("no valid symbols given")
		}
		return symbols, "explicit list", nil
	}

	if industry == "" {
		picked, err := PromptForIndustry()
		if err != nil {
			return nil, "", err
		}
		industry = picked
	}

	symbols := config.IndustrySymbols(industry)
	if len(symbols) == 0 {
		return nil, "", fmt.Errorf("unknown industry %q, supported: %s",
			industry, strings.Join(config.Industries(), ", "))
	}
	return symbols, "industry: "+strings.ToLower(industry), nil
}

// runListCommand prints the stored companies table
func runListCommand(cfg *config.Config, industry string) error {
	a, err := buildApp(cfg)
	if err != nil {
		return err
	}
	defer a.close()

	companies, err := listCompanies(a, industry)
	if err != nil {
		return err
	}
	if len(companies) == 0 {
		DisplayInfo("No companies stored yet. Run 'company-analyzer collect' first.")
		return nil
	}

	DisplayCompanyTable(companies)
	return nil
}

func listCompanies(a *app, industry string) ([]models.CompanyProfile, error) {
	if industry != "" {
		return a.store.CompaniesByIndustry(industry)
	}
	return a.store.AllCompanies()
}

// runShowCommand prints one company's stored records
func runShowCommand(cfg *config.Config, symbol string) error {
	symbol = strings.TrimSpace(strings.ToUpper(symbol))
	if err := dataflows.ValidateSymbol(symbol); err != nil {
		return err
	}

	a, err := buildApp(cfg)
	if err != nil {
		return err
	}
	defer a.close()

	company, err := a.store.CompanyBySymbol(symbol)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("no stored data for %s, collect it first", symbol)
		}
		return err
	}

	executives, err := a.store.ExecutivesBySymbol(symbol)
	if err != nil {
		return err
	}
	ratios, err := a.store.RatiosBySymbol(symbol)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return err
	}

	DisplayCompanyDetail(company, executives, ratios)
	return nil
}

// runHistoryCommand prints stored price history rows
func runHistoryCommand(cfg *config.Config, symbol string, limit int) error {
	symbol = strings.TrimSpace(strings.ToUpper(symbol))
	if err := dataflows.ValidateSymbol(symbol); err != nil {
		return err
	}

	a, err := buildApp(cfg)
	if err != nil {
		return err
	}
	defer a.close()

	records, err := a.store.HistoryBySymbol(symbol)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		DisplayInfo(fmt.Sprintf("No price history stored for %s", symbol))
		return nil
	}

	if limit > 0 && len(records) > limit {
		records = records[len(records)-limit:]
	}
	DisplayHistoryTable(symbol, records)
	return nil
}
