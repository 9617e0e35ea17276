package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MertalpTasdelen/yeninesilevim/internal/api/dto"
	"github.com/MertalpTasdelen/yeninesilevim/internal/infrastructure/storage"
)

// RunsHandler handles report run history HTTP requests.
type RunsHandler struct {
	*Base
}

// NewRunsHandler creates a new runs handler.
func NewRunsHandler(repo storage.Repository) *RunsHandler {
	return &RunsHandler{
		Base: NewBase(repo),
	}
}

// List handles GET /api/runs - returns recent report runs.
func (h *RunsHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := ParseIntParam(r, "limit", 20)

	runs, err := h.repo.ListReportRuns(limit)
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}

	response := dto.ReportRunListResponse{
		Runs:  make([]dto.ReportRunResponse, 0, len(runs)),
		Count: len(runs),
	}
	for _, run := range runs {
		response.Runs = append(response.Runs, toReportRunResponse(&run))
	}

	h.WriteJSON(w, http.StatusOK, response)
}

// Get handles GET /api/runs/{id} - returns a single report run by ID.
func (h *RunsHandler) Get(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	if idStr == "" {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("run ID is required"))
		return
	}

	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("invalid run ID"))
		return
	}

	run, err := h.repo.GetReportRun(id)
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}
	if run == nil {
		h.WriteError(w, http.StatusNotFound, dto.NotFoundError("report run"))
		return
	}

	h.WriteJSON(w, http.StatusOK, toReportRunResponse(run))
}

func toReportRunResponse(run *storage.ReportRun) dto.ReportRunResponse {
	response := dto.ReportRunResponse{
		ID:             run.ID,
		StartDate:      run.StartDate,
		EndDate:        run.EndDate,
		LegacyWindows:  run.LegacyWindows,
		SaleCount:      run.SaleCount,
		OrderCount:     run.OrderCount,
		ErrorCount:     run.ErrorCount,
		Degraded:       run.Degraded,
		TotalNetProfit: run.TotalNetProfit,
		StartedAt:      run.StartedAt.Format(time.RFC3339),
	}

	if run.CompletedAt != nil {
		completed := run.CompletedAt.Format(time.RFC3339)
		response.CompletedAt = &completed
	}

	return response
}
