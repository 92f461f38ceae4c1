package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/course-authoring-service/internal/models"
	"github.com/SAP-F-2025/course-authoring-service/internal/ordering"
	"github.com/SAP-F-2025/course-authoring-service/internal/services"
	"github.com/SAP-F-2025/course-authoring-service/internal/utils"
)

const (
	xlsxContentType     = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	maxImportSize       = 10 << 20
	defaultFailedListed = 50
)

type AuthoringHandler struct {
	BaseHandler
	authoring    services.AuthoringService
	importExport services.ImportExportService
}

func NewAuthoringHandler(
	authoring services.AuthoringService,
	importExport services.ImportExportService,
	logger utils.Logger,
) *AuthoringHandler {
	return &AuthoringHandler{
		BaseHandler:  NewBaseHandler(logger),
		authoring:    authoring,
		importExport: importExport,
	}
}

// ===== DRAFTS =====

// GetDraft returns the caller's draft in progress
// @Summary Get draft
// @Tags drafts
// @Produce json
// @Success 200 {object} SuccessResponse{data=models.CourseForm}
// @Failure 404 {object} ErrorResponse
// @Router /drafts [get]
func (h *AuthoringHandler) GetDraft(c *gin.Context) {
	form, err := h.authoring.GetDraft(c.Request.Context(), h.extractActor(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Draft retrieved", Data: form})
}

// SaveDraft stores the form as the caller's draft
// @Summary Save draft
// @Tags drafts
// @Accept json
// @Produce json
// @Param draft body models.CourseForm true "Course form"
// @Success 200 {object} SuccessResponse
// @Failure 400 {object} ErrorResponse
// @Router /drafts [put]
func (h *AuthoringHandler) SaveDraft(c *gin.Context) {
	var form models.CourseForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	if err := h.authoring.SaveDraft(c.Request.Context(), h.extractActor(c), &form); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Draft saved"})
}

// DiscardDraft clears everything stored for the caller
// @Summary Discard draft
// @Tags drafts
// @Success 204
// @Router /drafts [delete]
func (h *AuthoringHandler) DiscardDraft(c *gin.Context) {
	if err := h.authoring.DiscardDraft(c.Request.Context(), h.extractActor(c)); err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ValidateDraft reports validation failures per module without publishing.
// The request body is validated when present, otherwise the stored draft.
// @Summary Validate draft
// @Tags drafts
// @Accept json
// @Produce json
// @Param draft body models.CourseForm false "Course form"
// @Success 200 {object} SuccessResponse{data=services.ValidationReport}
// @Router /drafts/validate [post]
func (h *AuthoringHandler) ValidateDraft(c *gin.Context) {
	ctx := c.Request.Context()

	var form *models.CourseForm
	if c.Request.Body != nil && c.Request.Body != http.NoBody {
		form = &models.CourseForm{}
		if err := c.ShouldBindJSON(form); errors.Is(err, io.EOF) {
			form = nil
		} else if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{
				Message: "Invalid request payload",
				Details: err.Error(),
			})
			return
		}
	}
	if form == nil {
		stored, err := h.authoring.GetDraft(ctx, h.extractActor(c))
		if err != nil {
			h.handleServiceError(c, err)
			return
		}
		form = stored
	}

	report, err := h.authoring.ValidateDraft(ctx, form)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Draft validated", Data: report})
}

// PublishDraft creates the course from the caller's draft
// @Summary Publish draft
// @Tags drafts
// @Produce json
// @Success 201 {object} SuccessResponse{data=models.Course}
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse
// @Router /drafts/publish [post]
func (h *AuthoringHandler) PublishDraft(c *gin.Context) {
	course, err := h.authoring.PublishDraft(c.Request.Context(), h.extractActor(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusCreated, "Course published", course, "course_id", course.ID)
}

// LastPublished returns, once, the id of the course the caller just published
// @Summary Take last published course id
// @Tags drafts
// @Produce json
// @Success 200 {object} SuccessResponse
// @Failure 404 {object} ErrorResponse
// @Router /drafts/last-published [get]
func (h *AuthoringHandler) LastPublished(c *gin.Context) {
	id, err := h.authoring.TakeLastPublished(c.Request.Context(), h.extractActor(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Last published course", Data: gin.H{"course_id": id}})
}

// ImportDraft replaces the caller's draft with an uploaded workbook
// @Summary Import draft
// @Tags drafts
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "xlsx workbook"
// @Success 200 {object} SuccessResponse{data=models.ImportSummary}
// @Failure 400 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /drafts/import [post]
func (h *AuthoringHandler) ImportDraft(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "File is required",
			Details: err.Error(),
		})
		return
	}
	if header.Size > maxImportSize {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "File too large",
			Details: fmt.Sprintf("maximum size is %d bytes", maxImportSize),
		})
		return
	}

	file, err := header.Open()
	if err != nil {
		h.RespondWithError(c, http.StatusInternalServerError, "Failed to read upload", err)
		return
	}
	defer file.Close()

	summary, err := h.importExport.ImportDraft(c.Request.Context(), h.extractActor(c), file, header.Filename)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	if summary.Status == models.ImportValidationFailed {
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Message: "Workbook has invalid cells",
			Details: summary,
		})
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Draft imported", Data: summary})
}

// ExportDraft downloads the caller's draft as a workbook
// @Summary Export draft
// @Tags drafts
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} file
// @Failure 404 {object} ErrorResponse
// @Router /drafts/export [get]
func (h *AuthoringHandler) ExportDraft(c *gin.Context) {
	data, err := h.importExport.ExportDraft(c.Request.Context(), h.extractActor(c))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="course-draft.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, data)
}

// ===== COURSES =====

// LoadCourse returns an existing course as an editable form
// @Summary Load course into editor
// @Tags courses
// @Produce json
// @Param id path uint true "Course ID"
// @Success 200 {object} SuccessResponse{data=models.CourseForm}
// @Failure 404 {object} ErrorResponse
// @Router /courses/{id}/form [get]
func (h *AuthoringHandler) LoadCourse(c *gin.Context) {
	courseID, ok := ParseUintParam(c, "id")
	if !ok {
		return
	}

	form, err := h.authoring.LoadCourse(c.Request.Context(), courseID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Course retrieved", Data: form})
}

// SyncCourse pushes an edited course entity by entity
// @Summary Sync course
// @Tags courses
// @Accept json
// @Produce json
// @Param id path uint true "Course ID"
// @Param course body models.CourseForm true "Edited course form"
// @Success 200 {object} SuccessResponse{data=services.SyncResult}
// @Failure 400 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse{details=SyncErrorDetails}
// @Router /courses/{id}/sync [put]
func (h *AuthoringHandler) SyncCourse(c *gin.Context) {
	courseID, ok := ParseUintParam(c, "id")
	if !ok {
		return
	}

	var form models.CourseForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request payload",
			Details: err.Error(),
		})
		return
	}

	result, err := h.authoring.SyncCourse(c.Request.Context(), h.extractActor(c), courseID, &form)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	h.RespondWithSuccess(c, http.StatusOK, "Course synced", result, "course_id", courseID, "steps", result.Steps)
}

// MoveModule swaps a module with its neighbour
// @Summary Move module
// @Tags courses
// @Produce json
// @Param id path uint true "Course ID"
// @Param module_id path uint true "Module ID"
// @Param direction query string true "up or down"
// @Success 200 {object} SuccessResponse{data=[]models.Module}
// @Failure 409 {object} ErrorResponse{details=[]models.Module}
// @Router /courses/{id}/modules/{module_id}/move [post]
func (h *AuthoringHandler) MoveModule(c *gin.Context) {
	courseID, ok := ParseUintParam(c, "id")
	if !ok {
		return
	}
	moduleID, ok := ParseUintParam(c, "module_id")
	if !ok {
		return
	}

	modules, err := h.authoring.MoveModule(c.Request.Context(), h.extractActor(c), courseID, moduleID, c.Query("direction"))
	h.respondWithSiblings(c, "Module moved", modules, err)
}

// MoveQuestion swaps a question with its neighbour in the module's quiz
// @Summary Move question
// @Tags courses
// @Produce json
// @Param id path uint true "Course ID"
// @Param module_id path uint true "Module ID"
// @Param question_id path uint true "Question ID"
// @Param direction query string true "up or down"
// @Success 200 {object} SuccessResponse{data=[]models.Question}
// @Failure 409 {object} ErrorResponse{details=[]models.Question}
// @Router /courses/{id}/modules/{module_id}/questions/{question_id}/move [post]
func (h *AuthoringHandler) MoveQuestion(c *gin.Context) {
	ids, ok := parsePath(c, "id", "module_id", "question_id")
	if !ok {
		return
	}

	questions, err := h.authoring.MoveQuestion(c.Request.Context(), h.extractActor(c), ids[0], ids[1], ids[2], c.Query("direction"))
	h.respondWithSiblings(c, "Question moved", questions, err)
}

// MoveOption swaps an option with its neighbour in the question
// @Summary Move option
// @Tags courses
// @Produce json
// @Param id path uint true "Course ID"
// @Param module_id path uint true "Module ID"
// @Param question_id path uint true "Question ID"
// @Param option_id path uint true "Option ID"
// @Param direction query string true "up or down"
// @Success 200 {object} SuccessResponse{data=[]models.Option}
// @Failure 409 {object} ErrorResponse{details=[]models.Option}
// @Router /courses/{id}/modules/{module_id}/questions/{question_id}/options/{option_id}/move [post]
func (h *AuthoringHandler) MoveOption(c *gin.Context) {
	ids, ok := parsePath(c, "id", "module_id", "question_id", "option_id")
	if !ok {
		return
	}

	options, err := h.authoring.MoveOption(c.Request.Context(), h.extractActor(c), ids[0], ids[1], ids[2], ids[3], c.Query("direction"))
	h.respondWithSiblings(c, "Option moved", options, err)
}

// DeleteModule deletes a module; the remaining modules are renumbered
// @Summary Delete module
// @Tags courses
// @Produce json
// @Param id path uint true "Course ID"
// @Param module_id path uint true "Module ID"
// @Success 200 {object} SuccessResponse{data=[]models.Module}
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse{details=[]models.Module}
// @Router /courses/{id}/modules/{module_id} [delete]
func (h *AuthoringHandler) DeleteModule(c *gin.Context) {
	ids, ok := parsePath(c, "id", "module_id")
	if !ok {
		return
	}

	modules, err := h.authoring.DeleteModule(c.Request.Context(), h.extractActor(c), ids[0], ids[1])
	h.respondWithSiblings(c, "Module deleted", modules, err)
}

// DeleteQuestion deletes a question; the rest of the quiz is renumbered
// @Summary Delete question
// @Tags courses
// @Produce json
// @Param id path uint true "Course ID"
// @Param module_id path uint true "Module ID"
// @Param question_id path uint true "Question ID"
// @Success 200 {object} SuccessResponse{data=[]models.Question}
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse{details=[]models.Question}
// @Router /courses/{id}/modules/{module_id}/questions/{question_id} [delete]
func (h *AuthoringHandler) DeleteQuestion(c *gin.Context) {
	ids, ok := parsePath(c, "id", "module_id", "question_id")
	if !ok {
		return
	}

	questions, err := h.authoring.DeleteQuestion(c.Request.Context(), h.extractActor(c), ids[0], ids[1], ids[2])
	h.respondWithSiblings(c, "Question deleted", questions, err)
}

// DeleteOption deletes an option; the rest of the question is renumbered
// @Summary Delete option
// @Tags courses
// @Produce json
// @Param id path uint true "Course ID"
// @Param module_id path uint true "Module ID"
// @Param question_id path uint true "Question ID"
// @Param option_id path uint true "Option ID"
// @Success 200 {object} SuccessResponse{data=[]models.Option}
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse{details=[]models.Option}
// @Router /courses/{id}/modules/{module_id}/questions/{question_id}/options/{option_id} [delete]
func (h *AuthoringHandler) DeleteOption(c *gin.Context) {
	ids, ok := parsePath(c, "id", "module_id", "question_id", "option_id")
	if !ok {
		return
	}

	options, err := h.authoring.DeleteOption(c.Request.Context(), h.extractActor(c), ids[0], ids[1], ids[2], ids[3])
	h.respondWithSiblings(c, "Option deleted", options, err)
}

// respondWithSiblings answers a reorder or delete with the sibling list. A
// discarded reorder still carries the server's list, as a 409.
func (h *AuthoringHandler) respondWithSiblings(c *gin.Context, message string, siblings interface{}, err error) {
	if errors.Is(err, ordering.ErrReorderDiscarded) {
		h.LogWarn(c, "Reorder discarded", "error", err)
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "Reorder could not be completed; showing the server's order",
			Details: siblings,
			Code:    "REORDER_DISCARDED",
		})
		return
	}
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: message, Data: siblings})
}

// ListFailedSyncs lists syncs that stopped part way, newest first
// @Summary List failed syncs
// @Tags courses
// @Produce json
// @Param limit query int false "Maximum entries"
// @Success 200 {object} SuccessResponse{data=[]models.SyncCheckpoint}
// @Router /syncs/failed [get]
func (h *AuthoringHandler) ListFailedSyncs(c *gin.Context) {
	checkpoints, err := h.authoring.ListFailedSyncs(c.Request.Context(), ParseLimitQuery(c, defaultFailedListed))
	if err != nil {
		h.handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Failed syncs", Data: checkpoints})
}

// ===== ERROR MAPPING =====

func (h *AuthoringHandler) handleServiceError(c *gin.Context, err error) {
	var validationErrors services.ValidationErrors
	if errors.As(err, &validationErrors) {
		courseErrs, moduleErrs := validationErrors.ByModule()
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: gin.H{
				"course_errors": courseErrs,
				"module_errors": moduleErrs,
				"modules":       validationErrors.ModuleIndexes(),
			},
			Code: "VALIDATION_FAILED",
		})
		return
	}

	if stepErr, ok := services.IsSyncStopped(err); ok {
		details := SyncErrorDetails{
			Stage:    string(stepErr.Stage),
			Path:     stepErr.Path,
			ParentID: stepErr.ParentID,
			Cause:    stepErr.Err.Error(),
		}
		if stepErr.Checkpoint != nil {
			details.CompletedSteps = stepErr.Checkpoint.Len()
		}
		h.LogWarn(c, "Sync stopped", "stage", details.Stage, "path", details.Path, "error", stepErr.Err)
		c.JSON(http.StatusBadGateway, ErrorResponse{
			Message: "Sync stopped; entities created so far are reused on retry",
			Details: details,
			Code:    "SYNC_STOPPED",
		})
		return
	}

	switch {
	case services.IsValidation(err):
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid request",
			Details: err.Error(),
		})
	case errors.Is(err, services.ErrDraftNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "No draft in progress",
		})
	case services.IsNotFound(err):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Resource not found",
			Details: err.Error(),
		})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, ErrorResponse{
			Message: "Access denied",
		})
	case services.IsUnauthorized(err):
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Message: "Course API rejected the credentials",
		})
	case services.IsConflict(err):
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "Conflict",
			Details: err.Error(),
		})
	case services.IsUpstream(err):
		h.LogError(c, err, "Course API call failed")
		c.JSON(http.StatusBadGateway, ErrorResponse{
			Message: "Course API request failed",
			Details: err.Error(),
			Code:    "UPSTREAM_ERROR",
		})
	default:
		h.LogError(c, err, "Unhandled service error")
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Message: "Internal server error",
		})
	}
}
