// Package response renders the one JSON envelope every endpoint answers
// with: {"success": true, "data": ...} on the happy path, or
// {"success": false, "error": {"code": ..., "message": ...}} on failure.
package response

import (
	"github.com/gin-gonic/gin"

	"pinkblueberry/internal/domain"
)

type successEnvelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data"`
}

type failureEnvelope struct {
	Success bool      `json:"success"`
	Error   errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func Success(c *gin.Context, status int, data interface{}) {
	c.JSON(status, successEnvelope{Success: true, Data: data})
}

func Error(c *gin.Context, status int, code, message string) {
	c.JSON(status, failureEnvelope{Error: errorBody{Code: code, Message: message}})
}

// DomainError renders a code-bearing domain error so handlers never restate
// its code and message by hand.
func DomainError(c *gin.Context, status int, err *domain.DomainError) {
	Error(c, status, err.Code, err.Message)
}
