package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/MertalpTasdelen/yeninesilevim/internal/api/dto"
	"github.com/MertalpTasdelen/yeninesilevim/internal/application/report"
)

// ReportsHandler handles reconciliation report HTTP requests.
type ReportsHandler struct {
	*Base
	service *report.Service
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(service *report.Service) *ReportsHandler {
	return &ReportsHandler{
		Base:    &Base{},
		service: service,
	}
}

// RunProfit handles GET /api/reports/profit?start=&end= - runs a
// reconciliation synchronously and returns the full report. The call
// blocks for the whole three-stage sweep.
func (h *ReportsHandler) RunProfit(w http.ResponseWriter, r *http.Request) {
	start, ok := ParseDateParam(r, "start")
	if !ok {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("start date is required (2006-01-02)"))
		return
	}
	end, ok := ParseDateParam(r, "end")
	if !ok {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("end date is required (2006-01-02)"))
		return
	}
	if end.Before(start) {
		h.WriteError(w, http.StatusBadRequest, dto.ValidationError("end date before start date"))
		return
	}

	rep, err := h.service.RunSync(r.Context(), report.Request{Start: start, End: end})
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}

	h.WriteJSON(w, http.StatusOK, toProfitReportResponse(rep))
}

// StartJob handles POST /api/reports - starts a report job.
func (h *ReportsHandler) StartJob(w http.ResponseWriter, r *http.Request) {
	var req dto.StartReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("invalid request body"))
		return
	}

	start, err := time.Parse("2006-01-02", req.Start)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, dto.ValidationError("invalid start date"))
		return
	}
	end, err := time.Parse("2006-01-02", req.End)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, dto.ValidationError("invalid end date"))
		return
	}

	jobID, err := h.service.Start(r.Context(), report.Request{
		Start:         start,
		End:           end,
		LegacyWindows: req.LegacyWindows,
	})
	if err != nil {
		h.WriteError(w, http.StatusConflict, dto.ConflictError(err.Error()))
		return
	}

	h.WriteJSON(w, http.StatusAccepted, dto.StartReportResponse{
		JobID:  jobID,
		Status: string(report.StatusPending),
	})
}

// GetJob handles GET /api/reports/{jobId} - gets report job status.
func (h *ReportsHandler) GetJob(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobId")
	if jobID == "" {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("job ID is required"))
		return
	}

	job, err := h.service.Get(jobID)
	if err != nil {
		h.WriteError(w, http.StatusNotFound, dto.NotFoundError("report job"))
		return
	}

	h.WriteJSON(w, http.StatusOK, toReportJobResponse(job))
}

// ListJobs handles GET /api/reports - lists all report jobs.
func (h *ReportsHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	jobs := h.service.List()

	response := dto.ReportJobListResponse{
		Jobs:  make([]dto.ReportJobResponse, 0, len(jobs)),
		Count: len(jobs),
	}
	for _, job := range jobs {
		response.Jobs = append(response.Jobs, toReportJobResponse(job))
	}

	h.WriteJSON(w, http.StatusOK, response)
}

// CancelJob handles DELETE /api/reports/{jobId} - cancels a running job.
func (h *ReportsHandler) CancelJob(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobId")
	if jobID == "" {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("job ID is required"))
		return
	}

	if err := h.service.Cancel(jobID); err != nil {
		h.WriteError(w, http.StatusConflict, dto.ConflictError(err.Error()))
		return
	}

	h.WriteJSON(w, http.StatusOK, dto.MessageResponse{Message: "report job cancelled"})
}

func toProfitReportResponse(rep *report.Report) *dto.ProfitReportResponse {
	response := &dto.ProfitReportResponse{
		Start:          rep.Start.Format("2006-01-02"),
		End:            rep.End.Format("2006-01-02"),
		Lines:          make([]dto.ReconciledLineResponse, 0, len(rep.Lines)),
		Pivot:          make([]dto.PivotRowResponse, 0, len(rep.Pivot)),
		TotalNetProfit: rep.TotalNetProfit,
		Degraded:       rep.Degraded,
		SalesTruncated: rep.SalesTruncated,
		GeneratedAt:    rep.GeneratedAt.Format(time.RFC3339),
	}

	for _, line := range rep.Lines {
		response.Lines = append(response.Lines, dto.ReconciledLineResponse{
			Barcode:       line.Barcode,
			OrderNumber:   line.OrderNumber,
			SellerRevenue: line.SellerRevenue,
			PurchasePrice: line.PurchasePrice,
			ShippingFee:   line.ShippingFee,
			NetProfit:     line.NetProfit,
			CargoFound:    line.CargoFound,
			ProductFound:  line.ProductFound,
		})
	}

	for _, row := range rep.Pivot {
		response.Pivot = append(response.Pivot, dto.PivotRowResponse{
			OrderNumber:    row.OrderNumber,
			LineCount:      row.LineCount,
			SellerRevenue:  row.SellerRevenue,
			PurchasePrice:  row.PurchasePrice,
			ShippingFee:    row.ShippingFee,
			NetProfit:      row.NetProfit,
			TotalNetProfit: row.TotalNetProfit,
		})
	}

	for _, w := range rep.MissingPeriods {
		response.MissingPeriods = append(response.MissingPeriods,
			w.Start.Format("2006-01-02")+"/"+w.End.Format("2006-01-02"))
	}

	for _, fe := range rep.Errors {
		response.Errors = append(response.Errors, dto.FetchErrorResponse{
			Stage:     fe.Stage,
			Window:    fe.Window,
			InvoiceID: fe.InvoiceID,
			Page:      fe.Page,
			Detail:    fe.Detail,
		})
	}

	return response
}

func toReportJobResponse(job *report.Job) dto.ReportJobResponse {
	response := dto.ReportJobResponse{
		JobID:     job.ID,
		Status:    string(job.Status),
		Phase:     job.Phase,
		Start:     job.Request.Start.Format("2006-01-02"),
		End:       job.Request.End.Format("2006-01-02"),
		StartedAt: job.StartedAt.Format(time.RFC3339),
	}

	if job.CompletedAt != nil {
		completed := job.CompletedAt.Format(time.RFC3339)
		response.CompletedAt = &completed
	}
	if job.Report != nil {
		response.Report = toProfitReportResponse(job.Report)
	}
	if job.Error != nil {
		errMsg := job.Error.Error()
		response.Error = &errMsg
	}

	return response
}
