package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dsemenov/ledgerlens/internal/analysis"
	"github.com/dsemenov/ledgerlens/internal/api/handlers"
	"github.com/dsemenov/ledgerlens/internal/api/middleware"
	"github.com/dsemenov/ledgerlens/internal/assistant"
	"github.com/dsemenov/ledgerlens/internal/audit"
	"github.com/dsemenov/ledgerlens/internal/config"
	"github.com/dsemenov/ledgerlens/internal/ledger"
	"github.com/dsemenov/ledgerlens/internal/logger"
	"github.com/dsemenov/ledgerlens/internal/mlmodel"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	ctx := context.Background()

	// Artifacts are the process-wide immutable state; refusing to start
	// without them beats serving wrong predictions.
	artifacts, err := mlmodel.Load(ctx, cfg.AssetsLocation)
	if err != nil {
		log.Fatal().Err(err).Str("location", cfg.AssetsLocation).Msg("Failed to load ML artifacts")
	}
	log.Info().
		Str("location", cfg.AssetsLocation).
		Int("features", len(artifacts.Model.FeatureNames)).
		Msg("Model, metrics, and scaler loaded")

	analyzer := analysis.NewAnalyzer(artifacts)
	current := analysis.NewCurrentLedger()

	// Language model is optional; without a key the NL endpoints degrade
	// to explicit error payloads instead of guessing.
	var generator assistant.Generator
	if cfg.GeminiAPIKey != "" {
		gemini, err := assistant.NewGeminiGenerator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create Gemini client")
		}
		generator = gemini
	} else {
		log.Warn().Msg("No Gemini API key configured - /query and /simulate will return service errors")
	}

	interpreter := assistant.NewInterpreter(generator, cfg.LLMTimeout)
	executor := assistant.NewExecutor(savingsPlanner)
	simulator := assistant.NewSimulator(generator, spendSummarizer, cfg.LLMTimeout)

	// Audit history: in-memory store, optional BigQuery mirror. When the
	// mirror exists it also answers the runs listing, so history survives
	// restarts.
	store := audit.NewMemoryStore()
	var sink audit.Sink
	var history audit.History
	if cfg.BQProject != "" {
		bqSink, err := audit.NewBigQuerySink(ctx, cfg.BQProject, cfg.BQDataset)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create BigQuery audit sink")
		}
		defer bqSink.Close()
		sink = bqSink
		history = bqSink
	}

	recorder := audit.NewRecorder(cfg.AuditBufferSize, store, sink, log)
	recorderCtx, cancelRecorder := context.WithCancel(ctx)
	defer cancelRecorder()
	recorder.Start(recorderCtx)

	analysisHandler := handlers.NewAnalysisHandler(analyzer, current, recorder, log)
	assistantHandler := handlers.NewAssistantHandler(interpreter, executor, simulator, current, log)
	runsHandler := handlers.NewRunsHandler(store, history, log)

	mux := http.NewServeMux()

	mux.HandleFunc("/analyze", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			analysisHandler.Analyze(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, middleware.CategoryBadRequest, "Method not allowed")
		}
	})

	mux.HandleFunc("/confusion-matrix", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			analysisHandler.ConfusionMatrix(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, middleware.CategoryBadRequest, "Method not allowed")
		}
	})

	mux.HandleFunc("/query", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			assistantHandler.Query(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, middleware.CategoryBadRequest, "Method not allowed")
		}
	})

	mux.HandleFunc("/simulate", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			assistantHandler.Simulate(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, middleware.CategoryBadRequest, "Method not allowed")
		}
	})

	mux.HandleFunc("/api/runs", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			runsHandler.ListRuns(w, r)
		} else {
			middleware.WriteError(w, http.StatusMethodNotAllowed, middleware.CategoryBadRequest, "Method not allowed")
		}
	})

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		middleware.WriteJSON(w, http.StatusOK, map[string]string{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	handler := middleware.Recovery(log)(
		middleware.Logger(log)(
			middleware.RequestID(
				middleware.CORS(mux),
			),
		),
	)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handler,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting API server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	// Stop the recorder last so in-flight audit records drain.
	cancelRecorder()
	recorder.Stop()

	log.Info().Msg("Server exited")
}

// savingsPlanner adapts the expenditure aggregator for the query executor.
func savingsPlanner(l *ledger.Ledger) (float64, map[string]string, error) {
	report, err := analysis.Aggregate(l)
	if err != nil {
		return 0, nil, err
	}
	return analysis.PotentialMonthlySavings(report), report.SavingsPlan, nil
}

// spendSummarizer adapts the expenditure aggregator for the simulator.
func spendSummarizer(l *ledger.Ledger) (float64, map[string]float64, error) {
	report, err := analysis.Aggregate(l)
	if err != nil {
		return 0, nil, err
	}
	return report.TotalSpend, report.SpendByCategory, nil
}
