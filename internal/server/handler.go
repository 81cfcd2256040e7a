// internal/server/handler.go
package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"wozo-chatbot/internal/chatbot/conversation"
	"wozo-chatbot/internal/chatbot/escalation"
	"wozo-chatbot/internal/chatbot/faq"
	"wozo-chatbot/internal/chatbot/respond"
	"wozo-chatbot/internal/common/config"
	stderrors "wozo-chatbot/internal/common/errors"
	"wozo-chatbot/internal/common/logger"
	"wozo-chatbot/internal/common/metrics"
	"wozo-chatbot/internal/common/observability"
	"wozo-chatbot/internal/common/validation"
	"wozo-chatbot/internal/models"
)

const maxBodyBytes = 64 << 10

// Handler serves the chatbot HTTP API. The recorder, tracker and notifier
// collaborators are optional; a nil collaborator is simply skipped.
type Handler struct {
	config     *config.Config
	source     faq.Source
	responder  *respond.Handler
	recorder   *conversation.Recorder
	tracker    *conversation.Tracker
	notifier   *escalation.Notifier
	obs        *observability.Observability
	errHandler *stderrors.ErrorHandler
	logger     logger.Logger
}

func NewHandler(
	cfg *config.Config,
	source faq.Source,
	responder *respond.Handler,
	recorder *conversation.Recorder,
	tracker *conversation.Tracker,
	notifier *escalation.Notifier,
	obs *observability.Observability,
	log logger.Logger,
) *Handler {
	return &Handler{
		config:     cfg,
		source:     source,
		responder:  responder,
		recorder:   recorder,
		tracker:    tracker,
		notifier:   notifier,
		obs:        obs,
		errHandler: stderrors.NewErrorHandler(log),
		logger:     log.WithFields(map[string]interface{}{"component": "server"}),
	}
}

// Routes builds the full handler chain: API routes, operational endpoints,
// CORS.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/message", h.HandleMessage)
	mux.HandleFunc("GET /api/unanswered", h.HandleUnanswered)
	mux.HandleFunc("GET /health", h.handleHealth)
	mux.HandleFunc("GET /ready", h.handleReady)
	mux.Handle("GET /metrics", promhttp.Handler())
	return CORS(h.config.Server.AllowedOrigins)(mux)
}

// HandleMessage answers one user question: validate, fetch the knowledge
// base, match, then hand the transcript to the best-effort collaborators.
func (h *Handler) HandleMessage(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		h.fail(w, r, stderrors.NewInvalidRequestError("unreadable body"))
		return
	}

	if result := validation.ValidateMessageRequest(body); !result.Valid {
		h.fail(w, r, stderrors.NewInvalidRequestError(strings.Join(result.GetErrorMessages(), "; ")))
		return
	}

	var input respond.Input
	if err := json.Unmarshal(body, &input); err != nil {
		h.fail(w, r, stderrors.NewInvalidRequestError(err.Error()))
		return
	}

	input.Message = strings.TrimSpace(input.Message)
	if input.Message == "" {
		h.fail(w, r, stderrors.NewEmptyMessageError())
		return
	}

	rows, err := h.source.Fetch(r.Context())
	if err != nil {
		h.fail(w, r, stderrors.NewFAQFetchFailedError(h.source.Name(), err))
		return
	}

	output, err := h.responder.Execute(r.Context(), &input, rows)
	if err != nil {
		h.fail(w, r, stderrors.NewInternalError(err))
		return
	}

	h.recordOutcome(r, &input, output, time.Since(start))
	h.dispatchCollaborators(&input, output)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(output)
}

// HandleUnanswered exposes the most frequent unanswered queries for curators.
func (h *Handler) HandleUnanswered(w http.ResponseWriter, r *http.Request) {
	if h.tracker == nil {
		h.fail(w, r, stderrors.NewInvalidRequestError("fallback tracking is not enabled"))
		return
	}

	limit := int64(10)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.ParseInt(raw, 10, 64); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	entries, err := h.tracker.Top(r.Context(), limit)
	if err != nil {
		h.fail(w, r, stderrors.NewExternalServiceError("redis", err))
		return
	}

	type unansweredEntry struct {
		Query string  `json:"query"`
		Count float64 `json:"count"`
	}
	out := make([]unansweredEntry, 0, len(entries))
	for _, e := range entries {
		query, _ := e.Member.(string)
		out = append(out, unansweredEntry{Query: query, Count: e.Score})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{"unanswered": out})
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

// handleReady checks that the knowledge base is actually reachable.
func (h *Handler) handleReady(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if _, err := h.source.Fetch(r.Context()); err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"status": "not ready",
			"error":  err.Error(),
		})
		return
	}

	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status": "ready",
		"time":   time.Now().Format(time.RFC3339),
	})
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err *stderrors.StandardError) {
	metrics.MessagesTotal.WithLabelValues("error").Inc()
	if h.obs != nil {
		h.obs.RecordMessageProcessed(r.Context(), "error")
	}
	h.errHandler.WriteError(w, r, err)
}

func (h *Handler) recordOutcome(r *http.Request, input *respond.Input, output *respond.Output, elapsed time.Duration) {
	result := "fallback"
	if output.Found {
		result = "found"
	}

	metrics.MessagesTotal.WithLabelValues("ok").Inc()
	metrics.MatchesTotal.WithLabelValues(result).Inc()
	metrics.MatchScore.Observe(output.MatchScore)
	metrics.RequestDuration.WithLabelValues("/api/message").Observe(elapsed.Seconds())

	if h.obs != nil {
		h.obs.RecordMessageProcessed(r.Context(), result)
		h.obs.RecordMessageDuration(r.Context(), elapsed, result)
	}

	h.logger.Info("message processed", map[string]interface{}{
		"userId":     input.UserID,
		"found":      output.Found,
		"intent":     output.Intent,
		"matchScore": output.MatchScore,
		"durationMs": elapsed.Milliseconds(),
	})
}

// dispatchCollaborators fans the exchange out to the fire-and-forget side
// effects. The response has already been computed; nothing here can fail it.
func (h *Handler) dispatchCollaborators(input *respond.Input, output *respond.Output) {
	if h.recorder != nil {
		transcript := []models.TranscriptMessage{
			models.NewTranscriptMessage(models.SpeakerUser, input.Message),
			models.NewTranscriptMessage(models.SpeakerBot, output.Answer),
		}
		metadata := map[string]interface{}{
			"found":       output.Found,
			"match_score": output.MatchScore,
		}
		if output.Intent != "" {
			metadata["intent"] = output.Intent
		}
		h.recorder.Record(input.UserID, transcript, metadata)
	}

	if !output.Found {
		if h.tracker != nil {
			h.tracker.Track(input.Message)
		}
		if h.notifier != nil {
			h.notifier.NotifyUnanswered(input.UserID, input.Message)
		}
	}
}
