package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/course-authoring-service/internal/utils"
)

// ErrorResponse is the body of every non-2xx answer
type ErrorResponse struct {
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
	Code    string      `json:"code,omitempty"`
}

type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// SyncErrorDetails locates the step a partial sync stopped at
type SyncErrorDetails struct {
	Stage          string `json:"stage"`
	Path           string `json:"path"`
	ParentID       uint   `json:"parent_id"`
	CompletedSteps int    `json:"completed_steps"`
	Cause          string `json:"cause"`
}

// BaseHandler gives handlers request-scoped logging and the shared response helpers
type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

// requestLogger tags the handler logger with who asked for what.
func (h *BaseHandler) requestLogger(c *gin.Context) utils.Logger {
	return h.logger.With(
		"request_id", utils.RequestIDFromContext(c),
		"actor", h.extractActor(c),
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
	)
}

func (h *BaseHandler) LogInfo(c *gin.Context, message string, fields ...interface{}) {
	h.requestLogger(c).InfoContext(c.Request.Context(), message, fields...)
}

func (h *BaseHandler) LogWarn(c *gin.Context, message string, fields ...interface{}) {
	h.requestLogger(c).WarnContext(c.Request.Context(), message, fields...)
}

func (h *BaseHandler) LogError(c *gin.Context, err error, message string, fields ...interface{}) {
	h.requestLogger(c).LogError(err, message, append(fields, "client_ip", c.ClientIP())...)
}

func (h *BaseHandler) extractActor(c *gin.Context) string {
	return c.GetString(ContextActorKey)
}

// RespondWithError writes an ErrorResponse; details, when given, go in verbatim
func (h *BaseHandler) RespondWithError(c *gin.Context, statusCode int, message string, err error, details ...interface{}) {
	resp := ErrorResponse{Message: message}
	if len(details) > 0 {
		resp.Details = details[0]
	}

	if err != nil {
		h.LogError(c, err, message, "status_code", statusCode)
	} else {
		h.LogWarn(c, message, "status_code", statusCode)
	}
	c.JSON(statusCode, resp)
}

func (h *BaseHandler) RespondWithSuccess(c *gin.Context, statusCode int, message string, data interface{}, fields ...interface{}) {
	h.LogInfo(c, message, append([]interface{}{"status_code", statusCode}, fields...)...)
	c.JSON(statusCode, SuccessResponse{Message: message, Data: data})
}
