package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"taramap/internal/analysis"
	"taramap/internal/config"
	"taramap/internal/domain"
	"taramap/internal/logging"
	"taramap/internal/outputter"
)

func main() {
	var (
		debug     bool
		modelPath string
		tablesDir string
		outPath   string
		timeout   time.Duration
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd := &cobra.Command{
		Use:   "taramap",
		Short: "taramap - automotive TARA attack path and risk analysis",
		Long:  "Enumerates attack paths, scores attack feasibility, and derives risk-acceptance decisions for an automotive system model",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalysis(ctx, modelPath, tablesDir, outPath, timeout, debug)
		},
		SilenceUsage: true,
	}

	rootCmd.Flags().StringVar(&modelPath, "model", "", "Path to the system model YAML (components, threats, request)")
	rootCmd.Flags().StringVar(&tablesDir, "tables", "", "Directory with table overrides (scoring.yaml, profiles.yaml, ...)")
	rootCmd.Flags().StringVar(&outPath, "out", "", "Result JSON filename (default: timestamped under results/)")
	rootCmd.Flags().DurationVar(&timeout, "timeout", 0, "Analysis deadline (0 = none); partial results are kept on expiry")
	rootCmd.Flags().BoolVar(&debug, "debug", false, "Enable debug logging (verbose output)")
	_ = rootCmd.MarkFlagRequired("model")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runAnalysis(ctx context.Context, modelPath, tablesDir, outPath string, timeout time.Duration, debug bool) error {
	// .env is optional; flags and env vars win
	_ = godotenv.Load()

	logging.SetLogLevel(logging.LogLevelInfo)
	if debug {
		logging.SetLogLevel(logging.LogLevelDebug)
	}

	tables, err := config.Load(tablesDir)
	if err != nil {
		return fmt.Errorf("error loading engine tables: %w", err)
	}

	req, err := analysis.LoadModelFile(modelPath)
	if err != nil {
		return fmt.Errorf("error loading model: %w", err)
	}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	result, err := analysis.New(tables).Run(ctx, *req)
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			return fmt.Errorf("invalid request: %w", verr)
		}
		return fmt.Errorf("analysis failed: %w", err)
	}

	fmt.Print(outputter.FormatSummary(result))

	if err := outputter.SaveResultsToFile(result, outPath); err != nil {
		logging.LogWarn("Failed to save analysis results", map[string]interface{}{"error": err.Error()})
	}

	return nil
}
