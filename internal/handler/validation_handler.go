package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"docvet/internal/domain"
	"docvet/internal/service"
)

// defaultDocumentID names request bodies that carry no ?id= parameter.
const defaultDocumentID = "request"

// KindView is the API representation of a registered document kind.
type KindView struct {
	Name   string        `json:"name"`
	Label  string        `json:"label"`
	Format domain.Format `json:"format"`
	Rules  []string      `json:"rules"`
}

// ValidationHandler handles validation endpoints.
type ValidationHandler struct {
	validationService service.ValidationService
	maxBodyBytes      int64
}

// NewValidationHandler creates a new ValidationHandler.
func NewValidationHandler(validationService service.ValidationService, maxBodyBytes int64) *ValidationHandler {
	return &ValidationHandler{validationService: validationService, maxBodyBytes: maxBodyBytes}
}

// Validate handles POST /api/v1/validate/:kind
// The request body is the raw document. A passing report is returned with 200,
// a failing one with 422.
func (h *ValidationHandler) Validate(c *gin.Context) {
	body := c.Request.Body
	if h.maxBodyBytes > 0 {
		body = http.MaxBytesReader(c.Writer, body, h.maxBodyBytes)
	}
	raw, err := io.ReadAll(body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			RespondError(c, http.StatusRequestEntityTooLarge, "DOCUMENT_TOO_LARGE", "document exceeds maximum allowed size")
			return
		}
		RespondError(c, http.StatusBadRequest, "INVALID_BODY", "could not read request body")
		return
	}
	if len(raw) == 0 {
		RespondError(c, http.StatusBadRequest, "EMPTY_DOCUMENT", "request body must contain the document")
		return
	}

	id := c.DefaultQuery("id", defaultDocumentID)
	report, err := h.validationService.ValidateBytes(c.Request.Context(), c.Param("kind"), id, raw)
	if err != nil {
		HandleError(c, err)
		return
	}

	status := http.StatusOK
	if !report.Passed {
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, APIResponse{Success: report.Passed, Data: report})
}

// Kinds handles GET /api/v1/kinds
func (h *ValidationHandler) Kinds(c *gin.Context) {
	kinds := h.validationService.Kinds()
	views := make([]KindView, 0, len(kinds))
	for _, k := range kinds {
		views = append(views, KindView{
			Name:   k.Name,
			Label:  k.Label,
			Format: k.Format,
			Rules:  k.Rules.Names(),
		})
	}
	RespondOK(c, views)
}
