package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"billaudit/internal/csvexport"
	"billaudit/internal/service"
)

// AnalyzeRequest is the request body for bill analysis.
type AnalyzeRequest struct {
	Bill             string `json:"bill" binding:"required"`
	AfterCareSummary string `json:"after_care_summary"`
}

// AnalysisHandler handles bill analysis endpoints.
type AnalysisHandler struct {
	analysisService service.AnalysisService
	log             zerolog.Logger
}

// NewAnalysisHandler creates a new AnalysisHandler.
func NewAnalysisHandler(analysisService service.AnalysisService, log zerolog.Logger) *AnalysisHandler {
	return &AnalysisHandler{analysisService: analysisService, log: log}
}

// Analyze handles POST /api/v1/bill/analyze
func (h *AnalysisHandler) Analyze(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "bill text is required")
		return
	}

	result, err := h.analysisService.AnalyzeBill(c.Request.Context(), req.Bill, req.AfterCareSummary)
	if err != nil {
		HandleError(c, h.log, err)
		return
	}

	RespondOK(c, result)
}

// AnalyzeExport handles POST /api/v1/bill/analyze/export, running the same
// analysis and streaming the per-instance results as CSV.
func (h *AnalysisHandler) AnalyzeExport(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "bill text is required")
		return
	}

	result, err := h.analysisService.AnalyzeBill(c.Request.Context(), req.Bill, req.AfterCareSummary)
	if err != nil {
		HandleError(c, h.log, err)
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="bill_analysis.csv"`)
	c.Status(http.StatusOK)

	if _, err := c.Writer.Write(csvexport.BOM); err != nil {
		return
	}
	w := csvexport.NewWriter(c.Writer)
	if err := w.WriteHeader(); err != nil {
		return
	}
	if err := w.WriteAnalysis(result); err != nil {
		return
	}
	w.Flush()
}
