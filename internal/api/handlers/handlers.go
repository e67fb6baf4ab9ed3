package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/dsemenov/ledgerlens/internal/analysis"
	"github.com/dsemenov/ledgerlens/internal/api/middleware"
	"github.com/dsemenov/ledgerlens/internal/assistant"
	"github.com/dsemenov/ledgerlens/internal/audit"
	"github.com/dsemenov/ledgerlens/internal/ledger"
	"github.com/rs/zerolog"
)

const maxUploadBytes = 32 << 20 // 32 MiB

// AnalysisHandler serves the CSV upload endpoints.
type AnalysisHandler struct {
	analyzer *analysis.Analyzer
	current  *analysis.CurrentLedger
	recorder *audit.Recorder
	log      zerolog.Logger
}

func NewAnalysisHandler(analyzer *analysis.Analyzer, current *analysis.CurrentLedger, recorder *audit.Recorder, log zerolog.Logger) *AnalysisHandler {
	return &AnalysisHandler{
		analyzer: analyzer,
		current:  current,
		recorder: recorder,
		log:      log,
	}
}

// Analyze handles POST /analyze: multipart CSV in, combined
// {model_performance, user_anomalies, expenditure_analysis} out.
func (h *AnalysisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	started := time.Now()

	l, filename, ok := h.readLedgerUpload(w, r)
	if !ok {
		return
	}

	result, err := h.analyzer.Analyze(ctx, l)
	if err != nil {
		h.record(filename, l, 0, started, err)
		respondPipelineError(w, h.log, err)
		return
	}

	// Publish the annotated ledger so /query and /simulate have data.
	h.current.Set(l)
	h.record(filename, l, len(result.UserAnomalies), started, nil)

	middleware.WriteJSON(w, http.StatusOK, result)
}

// ConfusionMatrix handles POST /confusion-matrix: a CSV with ground-truth
// Class labels in, a rendered matrix image plus the raw counts out.
func (h *AnalysisHandler) ConfusionMatrix(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	l, _, ok := h.readLedgerUpload(w, r)
	if !ok {
		return
	}

	matrix, err := h.analyzer.BuildConfusionMatrix(ctx, l)
	if err != nil {
		var insufficient *analysis.InsufficientClassesError
		if errors.As(err, &insufficient) {
			middleware.WriteError(w, http.StatusBadRequest, middleware.CategoryBadRequest,
				"Not enough class variety to build a 2x2 confusion matrix. Include both normal and anomalous rows.")
			return
		}
		respondPipelineError(w, h.log, err)
		return
	}

	image, err := analysis.RenderConfusionMatrixPNG(matrix)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to render confusion matrix")
		middleware.WriteError(w, http.StatusInternalServerError, middleware.CategoryInternal,
			"Failed to render confusion matrix image")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]any{
		"image":  image,
		"matrix": matrix,
	})
}

func (h *AnalysisHandler) readLedgerUpload(w http.ResponseWriter, r *http.Request) (*ledger.Ledger, string, bool) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, middleware.CategoryBadRequest,
			"Invalid multipart request or file too large")
		return nil, "", false
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, middleware.CategoryBadRequest,
			"No file part in the request")
		return nil, "", false
	}
	defer file.Close()

	if header.Filename == "" {
		middleware.WriteError(w, http.StatusBadRequest, middleware.CategoryBadRequest,
			"No file selected")
		return nil, "", false
	}

	l, err := ledger.ParseCSV(file)
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, middleware.CategoryBadRequest, err.Error())
		return nil, "", false
	}

	return l, header.Filename, true
}

func (h *AnalysisHandler) record(filename string, l *ledger.Ledger, anomalies int, started time.Time, runErr error) {
	if h.recorder == nil {
		return
	}

	finished := time.Now()
	record := &audit.AnalysisRecord{
		Filename:     filename,
		RowCount:     len(l.Rows),
		AnomalyCount: anomalies,
		Status:       audit.RunStatusSucceeded,
		StartedAt:    started,
		FinishedAt:   &finished,
	}
	if runErr != nil {
		record.Status = audit.RunStatusFailed
		record.Error = runErr.Error()
	}

	// Fire-and-forget: a full queue drops the record with a warning, it
	// never stalls or fails the request.
	if err := h.recorder.Publish(record); err != nil {
		h.log.Warn().Err(err).Msg("Failed to publish analysis record")
	}
}

// AssistantHandler serves the natural-language endpoints.
type AssistantHandler struct {
	interpreter *assistant.Interpreter
	executor    *assistant.Executor
	simulator   *assistant.Simulator
	current     *analysis.CurrentLedger
	log         zerolog.Logger
}

func NewAssistantHandler(interpreter *assistant.Interpreter, executor *assistant.Executor, simulator *assistant.Simulator, current *analysis.CurrentLedger, log zerolog.Logger) *AssistantHandler {
	return &AssistantHandler{
		interpreter: interpreter,
		executor:    executor,
		simulator:   simulator,
		current:     current,
		log:         log,
	}
}

// Query handles POST /query: {query} in, {response, data} out.
func (h *AssistantHandler) Query(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Query string `json:"query"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Query == "" {
		middleware.WriteError(w, http.StatusBadRequest, middleware.CategoryBadRequest,
			"Request body must be JSON with a non-empty 'query' field")
		return
	}

	l := h.current.Get()
	if l == nil {
		middleware.WriteError(w, http.StatusBadRequest, middleware.CategoryBadRequest,
			"No ledger has been analyzed yet. Upload a CSV to /analyze first.")
		return
	}

	intent, err := h.interpreter.Interpret(r.Context(), req.Query)
	if err != nil {
		respondAssistantError(w, h.log, err)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, h.executor.Execute(intent, l))
}

// Simulate handles POST /simulate: {scenario} in, simulation JSON out.
func (h *AssistantHandler) Simulate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Scenario string `json:"scenario"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Scenario == "" {
		middleware.WriteError(w, http.StatusBadRequest, middleware.CategoryBadRequest,
			"Request body must be JSON with a non-empty 'scenario' field")
		return
	}

	l := h.current.Get()
	if l == nil {
		middleware.WriteError(w, http.StatusBadRequest, middleware.CategoryBadRequest,
			"No ledger has been analyzed yet. Upload a CSV to /analyze first.")
		return
	}

	result, err := h.simulator.Simulate(r.Context(), req.Scenario, l)
	if err != nil {
		respondAssistantError(w, h.log, err)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, result)
}

// RunsHandler serves the analysis history listing.
type RunsHandler struct {
	store  audit.Store
	mirror audit.History
	log    zerolog.Logger
}

// NewRunsHandler wires the listing sources. mirror may be nil when no
// durable history is configured; listings then come from the in-memory
// store only.
func NewRunsHandler(store audit.Store, mirror audit.History, log zerolog.Logger) *RunsHandler {
	return &RunsHandler{store: store, mirror: mirror, log: log}
}

// ListRuns handles GET /api/runs. The durable mirror is preferred when
// configured; if it fails the in-memory store answers instead, so the
// listing degrades rather than erroring.
func (h *RunsHandler) ListRuns(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	records, err := h.listRecords(r.Context(), limit)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list analysis runs")
		middleware.WriteError(w, http.StatusInternalServerError, middleware.CategoryInternal,
			"Failed to list analysis runs")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]any{
		"runs":  records,
		"count": len(records),
	})
}

func (h *RunsHandler) listRecords(ctx context.Context, limit int) ([]*audit.AnalysisRecord, error) {
	if h.mirror != nil {
		records, err := h.mirror.ListRecent(ctx, limit)
		if err == nil {
			return records, nil
		}
		h.log.Warn().Err(err).Msg("Durable run history unavailable, answering from memory")
	}
	return h.store.ListRecords(ctx, limit)
}

// respondPipelineError maps analysis pipeline failures onto structured
// error payloads: schema and malformed-row problems are user-correctable
// 400s, everything else is a 500 with the underlying message attached.
func respondPipelineError(w http.ResponseWriter, log zerolog.Logger, err error) {
	var schemaErr *ledger.SchemaError
	if errors.As(err, &schemaErr) {
		middleware.WriteSchemaError(w, schemaErr.Error(), schemaErr.Missing)
		return
	}

	var rowErr *ledger.MalformedRowError
	if errors.As(err, &rowErr) {
		middleware.WriteError(w, http.StatusBadRequest, middleware.CategoryMalformedRow, rowErr.Error())
		return
	}

	log.Error().Err(err).Msg("Analysis pipeline failed")
	middleware.WriteError(w, http.StatusInternalServerError, middleware.CategoryInternal,
		"An error occurred during processing: "+err.Error())
}

// respondAssistantError maps language-model failures: an unavailable or
// unconfigured service is a 503, a contract-violating completion is a 502.
// Neither is ever silently substituted with a guessed answer.
func respondAssistantError(w http.ResponseWriter, log zerolog.Logger, err error) {
	var svcErr *assistant.ServiceError
	if errors.As(err, &svcErr) {
		log.Warn().Err(err).Msg("Language model service unavailable")
		middleware.WriteError(w, http.StatusServiceUnavailable, middleware.CategoryExternalService, svcErr.Error())
		return
	}

	var interpErr *assistant.InterpretationError
	if errors.As(err, &interpErr) {
		log.Warn().Str("raw", interpErr.Raw).Msg("Model completion failed the output contract")
		middleware.WriteError(w, http.StatusBadGateway, middleware.CategoryInterpretation, interpErr.Error())
		return
	}

	var rowErr *ledger.MalformedRowError
	if errors.As(err, &rowErr) {
		middleware.WriteError(w, http.StatusBadRequest, middleware.CategoryMalformedRow, rowErr.Error())
		return
	}

	log.Error().Err(err).Msg("Assistant request failed")
	middleware.WriteError(w, http.StatusInternalServerError, middleware.CategoryInternal,
		"An error occurred during processing: "+err.Error())
}
