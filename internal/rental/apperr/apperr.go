package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// ===== Error model =====
// assets/disposals/dbmng で同じものを重複定義していたので共通化した

type Code string

const (
	CodeInvalidArgument   Code = "INVALID_ARGUMENT"
	CodeInvalidTransition Code = "INVALID_TRANSITION"
	CodeNotFound          Code = "NOT_FOUND"
	CodeConflict          Code = "CONFLICT"
	CodeBusy              Code = "BUSY"
	CodePersistence       Code = "PERSISTENCE"
	CodeAuditWrite        Code = "AUDIT_WRITE"
	CodeInternal          Code = "INTERNAL"
)

type APIError struct {
	Code    Code
	Message string
}

func (e *APIError) Error() string { return fmt.Sprintf("%s: %s", e.Code, e.Message) }

func ErrInvalid(msg string) *APIError     { return &APIError{Code: CodeInvalidArgument, Message: msg} }
func ErrTransition(msg string) *APIError  { return &APIError{Code: CodeInvalidTransition, Message: msg} }
func ErrNotFound(msg string) *APIError    { return &APIError{Code: CodeNotFound, Message: msg} }
func ErrConflict(msg string) *APIError    { return &APIError{Code: CodeConflict, Message: msg} }
func ErrBusy(msg string) *APIError        { return &APIError{Code: CodeBusy, Message: msg} }
func ErrPersistence(msg string) *APIError { return &APIError{Code: CodePersistence, Message: msg} }
func ErrInternal(msg string) *APIError    { return &APIError{Code: CodeInternal, Message: msg} }

func ToHTTPStatus(err error) int {
	var api *APIError
	if errors.As(err, &api) {
		switch api.Code {
		case CodeInvalidArgument:
			return http.StatusBadRequest
		case CodeInvalidTransition:
			return http.StatusConflict
		case CodeNotFound:
			return http.StatusNotFound
		case CodeConflict:
			return http.StatusConflict
		case CodeBusy:
			return http.StatusTooManyRequests
		case CodePersistence:
			return http.StatusBadGateway
		default:
			return http.StatusInternalServerError
		}
	}
	return http.StatusInternalServerError
}

// ===== handler向けDTO =====

type ErrDTO struct {
	Error struct {
		Code    Code   `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func Body(code Code, msg string) ErrDTO {
	var e ErrDTO
	e.Error.Code = code
	e.Error.Message = msg
	return e
}

func BodyFrom(err error) ErrDTO {
	var api *APIError
	if errors.As(err, &api) {
		return Body(api.Code, api.Message)
	}
	return Body(CodeInternal, err.Error())
}
