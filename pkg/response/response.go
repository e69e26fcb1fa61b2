// Package response writes the JSON envelope shared by every dispatch API reply.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error codes carried in ErrorData.Code
const (
	CodeBadRequest       = "BAD_REQUEST"
	CodeValidation       = "VALIDATION_ERROR"
	CodeNotFound         = "NOT_FOUND"
	CodeConflict         = "CONFLICT"
	CodeUnauthorized     = "UNAUTHORIZED"
	CodeForbidden        = "FORBIDDEN"
	CodeIdempotencyReuse = "IDEMPOTENCY_KEY_REUSED"
	CodeInProgress       = "REQUEST_IN_PROGRESS"
	CodeInternal         = "INTERNAL_ERROR"
)

// Response is the JSON envelope for every API reply
type Response struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorData `json:"error,omitempty"`
	Meta    *ListMeta  `json:"meta,omitempty"`
}

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// ListMeta accompanies list payloads
type ListMeta struct {
	Total int `json:"total"`
}

func ok(c *gin.Context, status int, data any, meta *ListMeta) {
	c.JSON(status, Response{Success: true, Data: data, Meta: meta})
}

// Success writes 200 with data
func Success(c *gin.Context, data any) { ok(c, http.StatusOK, data, nil) }

// Created writes 201 with the new resource
func Created(c *gin.Context, data any) { ok(c, http.StatusCreated, data, nil) }

// List writes 200 with a total count
func List(c *gin.Context, data any, total int) {
	ok(c, http.StatusOK, data, &ListMeta{Total: total})
}

func failure(code, message, details string) Response {
	return Response{Error: &ErrorData{Code: code, Message: message, Details: details}}
}

// Fail writes a failed envelope
func Fail(c *gin.Context, status int, code, message, details string) {
	c.JSON(status, failure(code, message, details))
}

// Abort writes a failed envelope and stops the middleware chain
func Abort(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, failure(code, message, ""))
}

func BadRequest(c *gin.Context, message, details string) {
	Fail(c, http.StatusBadRequest, CodeBadRequest, message, details)
}

func Validation(c *gin.Context, message string) {
	Fail(c, http.StatusBadRequest, CodeValidation, message, "")
}

func NotFound(c *gin.Context, message string) {
	Fail(c, http.StatusNotFound, CodeNotFound, message, "")
}

func Conflict(c *gin.Context, message string) {
	Fail(c, http.StatusConflict, CodeConflict, message, "")
}

// InternalError hides err from the client; it is attached to the context for
// the request logger and tracing middleware.
func InternalError(c *gin.Context, err error) {
	_ = c.Error(err)
	Fail(c, http.StatusInternalServerError, CodeInternal, "Internal Server Error", "")
}
