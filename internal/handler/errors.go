package handler

import (
	"errors"
	"io"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/shamroze153/FM-Portal/internal/domain"
	"github.com/shamroze153/FM-Portal/pkg/response"
)

// respondError maps domain errors to 404/400/409 and everything else to 500
func respondError(c *gin.Context, span trace.Span, err error, action string) {
	span.RecordError(err)
	span.SetStatus(codes.Error, action)

	switch {
	case domain.IsNotFoundError(err):
		response.NotFound(c, err.Error())
	case domain.IsValidationError(err):
		response.Validation(c, err.Error())
	case domain.IsConflictError(err):
		response.Conflict(c, err.Error())
	default:
		response.InternalError(c, err)
	}
}

// badRequest records msg on the span and writes a 400
func badRequest(c *gin.Context, span trace.Span, msg string) {
	span.SetStatus(codes.Error, msg)
	response.BadRequest(c, msg, "")
}

// bindJSON binds the body into req or writes a 400
func bindJSON(c *gin.Context, span trace.Span, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		span.RecordError(err)
		response.BadRequest(c, "Invalid request body", err.Error())
		span.SetStatus(codes.Error, "Invalid request body")
		return false
	}
	return true
}

// bindOptionalJSON is bindJSON for endpoints whose body may be absent.
// An empty body, chunked or not, leaves req at its zero value.
func bindOptionalJSON(c *gin.Context, span trace.Span, req any) bool {
	err := c.ShouldBindJSON(req)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}
	span.RecordError(err)
	response.BadRequest(c, "Invalid request body", err.Error())
	span.SetStatus(codes.Error, "Invalid request body")
	return false
}

// intParam parses a positive integer path parameter
func intParam(c *gin.Context, name string) (int, bool) {
	v, err := strconv.Atoi(c.Param(name))
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}
