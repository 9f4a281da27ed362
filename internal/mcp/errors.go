package mcp

import (
	"fmt"

	"github.com/emielsteerneman/tdpsearch/internal/apperrors"
)

// JSON-RPC and MCP-specific error codes, per the protocol's reserved range.
const (
	ErrCodeInvalidParams  = -32602
	ErrCodeMethodNotFound = -32601
	ErrCodeInternalError  = -32603
)

// MCPError is a JSON-RPC-shaped MCP protocol error.
type MCPError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("mcp error %d: %s", e.Code, e.Message)
}

// NewInvalidParamsError builds an MCPError for malformed tool input.
func NewInvalidParamsError(msg string) *MCPError {
	return &MCPError{Code: ErrCodeInvalidParams, Message: msg}
}

// NewMethodNotFoundError builds an MCPError for an unknown tool name.
func NewMethodNotFoundError(name string) *MCPError {
	return &MCPError{Code: ErrCodeMethodNotFound, Message: fmt.Sprintf("unknown tool %q", name)}
}

// MapError classifies a search-facade error into an MCPError by its
// apperrors.Kind: caller-mistake kinds become InvalidParams, everything
// else is Internal.
func MapError(err error) *MCPError {
	if err == nil {
		return nil
	}
	switch apperrors.KindOf(err) {
	case apperrors.KindEmptyQuery, apperrors.KindInvalidInput:
		return NewInvalidParamsError(err.Error())
	default:
		return &MCPError{Code: ErrCodeInternalError, Message: err.Error()}
	}
}
