package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/wgomg/versa/internal/config"
	"github.com/wgomg/versa/internal/poems"
	"github.com/wgomg/versa/internal/scoring"
	"github.com/wgomg/versa/internal/utils"
	"github.com/wgomg/versa/internal/utils/httputils"
)

const maxTopLimit = 100

type Scorer interface {
	Analyze(ctx context.Context, text string) (*scoring.Result, error)
	Ready() bool
}

type Handler struct {
	logger *utils.Logger
	scorer Scorer
	poems  *poems.Service
	cfg    *config.Config
}

func NewHandler(
	logger *utils.Logger,
	scorer Scorer,
	poemService *poems.Service,
	cfg *config.Config,
) *Handler {
	return &Handler{
		logger: logger,
		scorer: scorer,
		poems:  poemService,
		cfg:    cfg,
	}
}

func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	httputils.JSONResponse(w, http.StatusOK, HealthResponse{
		Status:        "ok",
		EmbedderReady: h.scorer.Ready(),
	})
}

func (h *Handler) HandleScore(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reqID := utils.RequestID(ctx)

	if _, err := httputils.LogRequestBody(r, h.logger, reqID); err != nil {
		h.logger.Error(reqID, "Failed to read request body: %v", err)
		httputils.HandleError(w, err)
		return
	}

	var payload ScoreRequest
	if err := httputils.DecodeJSON(w, r, &payload); err != nil {
		h.logger.Error(reqID, "JSON decode error: %v", err)
		httputils.HandleError(w, err)
		return
	}

	h.logger.Info(reqID, "Scoring poem (%d words)", utils.CountWords(payload.Poem))

	result, err := h.scorer.Analyze(ctx, payload.Poem)
	status := http.StatusOK
	switch {
	case errors.Is(err, scoring.ErrEmptyPoem):
		status = http.StatusBadRequest
	case errors.Is(err, scoring.ErrProviderUnavailable):
		status = http.StatusServiceUnavailable
	case err != nil:
		h.logger.Error(reqID, "Scoring failed: %v", err)
		httputils.HandleError(w, err)
		return
	}

	if err := httputils.JSONResponse(w, status, result); err != nil {
		h.logger.Error(reqID, "Error sending response: %v", err)
	}
}

func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reqID := utils.RequestID(ctx)

	if _, err := httputils.LogRequestBody(r, h.logger, reqID); err != nil {
		h.logger.Error(reqID, "Failed to read request body: %v", err)
		httputils.HandleError(w, err)
		return
	}

	var sub poems.Submission
	if err := httputils.DecodeJSON(w, r, &sub); err != nil {
		h.logger.Error(reqID, "JSON decode error: %v", err)
		httputils.HandleError(w, err)
		return
	}

	submitted, err := h.poems.Submit(ctx, sub)
	status := http.StatusCreated
	switch {
	case errors.Is(err, poems.ErrInvalidSubmission):
		h.logger.Info(reqID, "Rejected submission: %v", err)
		httputils.HandleError(w, httputils.NewHTTPError(http.StatusBadRequest, err.Error()))
		return
	case errors.Is(err, scoring.ErrEmptyPoem):
		status = http.StatusBadRequest
	case errors.Is(err, scoring.ErrProviderUnavailable):
		status = http.StatusServiceUnavailable
	case errors.Is(err, poems.ErrNotSaved):
		status = http.StatusBadGateway
	case err != nil:
		h.logger.Error(reqID, "Submission failed: %v", err)
		httputils.HandleError(w, err)
		return
	}

	if err := httputils.JSONResponse(w, status, submitted); err != nil {
		h.logger.Error(reqID, "Error sending response: %v", err)
	}
}

func (h *Handler) HandleTop(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reqID := utils.RequestID(ctx)

	limit, err := httputils.QueryInt(r, "limit", h.cfg.Store.LeaderboardLimit)
	if err != nil {
		httputils.HandleError(w, err)
		return
	}
	limit = min(limit, maxTopLimit)

	top, err := h.poems.Top(ctx, limit)
	if err != nil {
		h.logger.Error(reqID, "Failed to load leaderboard: %v", err)
		httputils.HandleError(w, httputils.NewHTTPError(http.StatusBadGateway, "Unable to load poems"))
		return
	}

	if err := httputils.JSONResponse(w, http.StatusOK, TopResponse{Poems: top}); err != nil {
		h.logger.Error(reqID, "Error sending response: %v", err)
	}
}

func (h *Handler) HandleSchema(w http.ResponseWriter, r *http.Request) {
	reqID := utils.RequestID(r.Context())

	schemas, err := buildSchemas()
	if err != nil {
		h.logger.Error(reqID, "Failed to build schemas: %v", err)
		httputils.HandleError(w, err)
		return
	}

	if err := httputils.JSONResponse(w, http.StatusOK, schemas); err != nil {
		h.logger.Error(reqID, "Error sending response: %v", err)
	}
}
