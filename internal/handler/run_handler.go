package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"docvet/internal/csvexport"
	"docvet/internal/domain"
	"docvet/internal/service"
)

const (
	defaultRunLimit = 20
	maxRunLimit     = 100
)

// RunHandler exposes stored validation run history.
type RunHandler struct {
	validationService service.ValidationService
}

// NewRunHandler creates a new RunHandler.
func NewRunHandler(validationService service.ValidationService) *RunHandler {
	return &RunHandler{validationService: validationService}
}

// List handles GET /api/v1/runs
func (h *RunHandler) List(c *gin.Context) {
	limit := parseLimit(c)
	runs, err := h.validationService.ListRuns(c.Request.Context(), limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	if runs == nil {
		runs = []domain.RunSummary{}
	}
	RespondList(c, runs, ListMeta{Total: len(runs), Limit: limit})
}

// GetByID handles GET /api/v1/runs/:id
func (h *RunHandler) GetByID(c *gin.Context) {
	run, ok := h.lookup(c)
	if !ok {
		return
	}
	RespondOK(c, run)
}

// Export handles GET /api/v1/runs/:id/export
// It streams the run as a CSV attachment, one row per rule outcome.
func (h *RunHandler) Export(c *gin.Context) {
	summary, ok := h.lookup(c)
	if !ok {
		return
	}

	run := &domain.RunResult{
		ID:         summary.ID,
		StartedAt:  summary.StartedAt,
		FinishedAt: summary.FinishedAt,
		Passed:     summary.Passed,
	}
	if len(summary.Reports) > 0 {
		if err := json.Unmarshal(summary.Reports, &run.Reports); err != nil {
			HandleError(c, fmt.Errorf("decoding stored reports: %w", err))
			return
		}
	}

	var buf bytes.Buffer
	buf.Write(csvexport.BOM)
	w := csvexport.NewWriter(&buf)
	if err := w.WriteHeader(); err != nil {
		HandleError(c, err)
		return
	}
	if err := w.WriteRun(run); err != nil {
		HandleError(c, err)
		return
	}
	w.Flush()
	if err := w.Error(); err != nil {
		HandleError(c, err)
		return
	}

	filename := csvexport.BuildFilename("docvet_run_"+summary.ID.String(), summary.StartedAt)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

func (h *RunHandler) lookup(c *gin.Context) (*domain.RunSummary, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid run ID")
		return nil, false
	}
	run, err := h.validationService.GetRun(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return nil, false
	}
	return run, true
}

func parseLimit(c *gin.Context) int {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultRunLimit)))
	if limit <= 0 || limit > maxRunLimit {
		limit = defaultRunLimit
	}
	return limit
}
