package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/dsemenov/ledgerlens/internal/analysis"
	"github.com/dsemenov/ledgerlens/internal/config"
	"github.com/dsemenov/ledgerlens/internal/ledger"
	"github.com/dsemenov/ledgerlens/internal/logger"
	"github.com/dsemenov/ledgerlens/internal/mlmodel"
	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.LogLevel)

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "inspect":
		runInspect(cfg, log)
	case "analyze":
		runAnalyze(cfg, log)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("LedgerLens CLI")
	fmt.Println("\nUsage:")
	fmt.Println("  cli <command> [options]")
	fmt.Println("\nCommands:")
	fmt.Println("  inspect   Show the loaded model artifacts and training metrics")
	fmt.Println("  analyze   Run the analysis pipeline on a local CSV")
	fmt.Println("  help      Show this help message")
	fmt.Println("\nRun 'cli <command> -h' for more information on a command.")
}

func runInspect(cfg *config.Config, log zerolog.Logger) {
	fs := flag.NewFlagSet("inspect", flag.ExitOnError)
	assets := fs.String("assets", cfg.AssetsLocation, "ML assets directory or gs:// prefix")
	fs.Parse(os.Args[2:])

	artifacts, err := mlmodel.Load(context.Background(), *assets)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load ML artifacts")
	}

	fmt.Printf("Model: %s (%d features)\n", artifacts.Model.ModelType, len(artifacts.Model.FeatureNames))
	fmt.Printf("Scaler: Amount(mean=%.4f std=%.4f) Time(mean=%.4f std=%.4f)\n\n",
		artifacts.Scaler.Amount.Mean, artifacts.Scaler.Amount.Std,
		artifacts.Scaler.Time.Mean, artifacts.Scaler.Time.Std)

	m := artifacts.Metrics
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Metric", "Value"})
	table.Append([]string{"True negatives", fmt.Sprintf("%d", m.TN)})
	table.Append([]string{"False positives", fmt.Sprintf("%d", m.FP)})
	table.Append([]string{"False negatives", fmt.Sprintf("%d", m.FN)})
	table.Append([]string{"True positives", fmt.Sprintf("%d", m.TP)})
	table.Append([]string{"Accuracy", fmt.Sprintf("%.4f", m.Accuracy)})
	table.Append([]string{"Precision", fmt.Sprintf("%.4f", m.Precision)})
	table.Append([]string{"Recall", fmt.Sprintf("%.4f", m.Recall)})
	table.Append([]string{"F1 score", fmt.Sprintf("%.4f", m.F1Score)})
	table.Append([]string{"Specificity", fmt.Sprintf("%.4f", m.Specificity)})
	table.Append([]string{"MCC", fmt.Sprintf("%.4f", m.MCC)})
	table.Render()
}

func runAnalyze(cfg *config.Config, log zerolog.Logger) {
	fs := flag.NewFlagSet("analyze", flag.ExitOnError)
	assets := fs.String("assets", cfg.AssetsLocation, "ML assets directory or gs:// prefix")
	csvPath := fs.String("csv", "", "Path to the ledger CSV")
	fs.Parse(os.Args[2:])

	if *csvPath == "" {
		log.Fatal().Msg("-csv is required")
	}

	ctx := context.Background()

	artifacts, err := mlmodel.Load(ctx, *assets)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load ML artifacts")
	}

	f, err := os.Open(*csvPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", *csvPath).Msg("Failed to open CSV")
	}
	defer f.Close()

	l, err := ledger.ParseCSV(f)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to parse CSV")
	}

	result, err := analysis.NewAnalyzer(artifacts).Analyze(ctx, l)
	if err != nil {
		log.Fatal().Err(err).Msg("Analysis failed")
	}

	fmt.Printf("Rows: %d   Anomalies: %d   Total spend: $%.2f\n\n",
		len(l.Rows), len(result.UserAnomalies), result.Expenditure.TotalSpend)

	if result.Expenditure.Error != "" {
		fmt.Printf("Expenditure analysis unavailable: %s\n", result.Expenditure.Error)
		return
	}

	cats := make([]string, 0, len(result.Expenditure.SpendByCategory))
	for cat := range result.Expenditure.SpendByCategory {
		cats = append(cats, cat)
	}
	sort.Strings(cats)

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Category", "Spend", "Savings suggestion"})
	for _, cat := range cats {
		table.Append([]string{
			cat,
			fmt.Sprintf("$%.2f", result.Expenditure.SpendByCategory[cat]),
			result.Expenditure.SavingsPlan[cat],
		})
	}
	table.Render()
}
