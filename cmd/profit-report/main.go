// Command profit-report runs one settlement reconciliation from the
// command line and prints the per-order pivot summary.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/MertalpTasdelen/yeninesilevim/internal/application/report"
	"github.com/MertalpTasdelen/yeninesilevim/internal/infrastructure/config"
	"github.com/MertalpTasdelen/yeninesilevim/internal/infrastructure/logging"
	"github.com/MertalpTasdelen/yeninesilevim/internal/infrastructure/storage"
)

func main() {
	var (
		configFile = flag.String("config", "config.yaml", "Configuration file path")
		startDate  = flag.String("start", "", "Range start date (2006-01-02)")
		endDate    = flag.String("end", "", "Range end date (2006-01-02, default start+44d)")
		legacy     = flag.Bool("legacy-windows", false, "Use the historical fixed three-window split")
		showLines  = flag.Bool("lines", false, "Print every reconciled line, not just the pivot")
		verbose    = flag.Bool("verbose", false, "Enable verbose logging")
	)
	flag.Parse()

	_ = godotenv.Load()

	cfg := config.LoadOrEnvWithPath(*configFile)
	if *verbose {
		cfg.Observability.Logging.Level = "debug"
	}
	logger := logging.NewLoggerWithSystem(cfg.Observability.Logging, "report")

	if *startDate == "" {
		fmt.Fprintln(os.Stderr, "usage: profit-report -start 2024-01-01 [-end 2024-02-14]")
		os.Exit(2)
	}

	start, err := time.Parse("2006-01-02", *startDate)
	if err != nil {
		logger.Error("invalid start date", "value", *startDate)
		os.Exit(2)
	}

	end := start.AddDate(0, 0, 44)
	if *endDate != "" {
		if end, err = time.Parse("2006-01-02", *endDate); err != nil {
			logger.Error("invalid end date", "value", *endDate)
			os.Exit(2)
		}
	}

	store, err := storage.NewStorage(cfg.Storage.DatabasePath)
	if err != nil {
		logger.Error("failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	service := report.NewService(cfg, store, logger)

	rep, err := service.RunSync(context.Background(), report.Request{
		Start:         start,
		End:           end,
		LegacyWindows: legacy,
	})
	if err != nil {
		logger.Error("reconciliation failed", "error", err)
		os.Exit(1)
	}

	printReport(rep, *showLines)

	if rep.Degraded {
		logger.Warn("report is degraded, figures are partial",
			slog.Int("errors", len(rep.Errors)),
			slog.Int("missing_periods", len(rep.MissingPeriods)),
		)
	}
}

func printReport(rep *report.Report, showLines bool) {
	if showLines {
		fmt.Printf("%-16s %-14s %12s %12s %10s %12s %s\n",
			"ORDER", "BARCODE", "REVENUE", "PURCHASE", "CARGO", "NET", "CARGO?")
		for _, line := range rep.Lines {
			cargo := "-"
			if line.CargoFound {
				cargo = "yes"
			}
			fmt.Printf("%-16s %-14s %12s %12s %10s %12s %s\n",
				line.OrderNumber, line.Barcode,
				line.SellerRevenue, line.PurchasePrice, line.ShippingFee, line.NetProfit, cargo)
		}
		fmt.Println()
	}

	fmt.Printf("%-16s %6s %12s %12s %10s %12s\n",
		"ORDER", "LINES", "REVENUE", "PURCHASE", "CARGO", "NET")
	for _, row := range rep.Pivot {
		fmt.Printf("%-16s %6d %12s %12s %10s %12s\n",
			row.OrderNumber, row.LineCount,
			row.SellerRevenue, row.PurchasePrice, row.ShippingFee, row.NetProfit)
	}

	fmt.Printf("\n%d sales across %d orders, total net profit: %s\n",
		len(rep.Lines), len(rep.Pivot), rep.TotalNetProfit)

	for _, w := range rep.MissingPeriods {
		fmt.Printf("missing period: %s - %s (cargo costs unavailable)\n",
			w.Start.Format("2006-01-02"), w.End.Format("2006-01-02"))
	}
}
