package library

import (
	"errors"
	"fmt"
	"net/http"
)

// 全機能共通のエラー分類。
// 各featureパッケージで個別定義すると重複するので、ここに一本化する。
type Code string

const (
	CodeValidation          Code = "VALIDATION"
	CodeMissingField        Code = "MISSING_FIELD"
	CodeCorruptState        Code = "CORRUPT_STATE"
	CodeNotFound            Code = "NOT_FOUND"
	CodeNoCopiesAvailable   Code = "NO_COPIES_AVAILABLE"
	CodeBorrowLimitExceeded Code = "BORROW_LIMIT_EXCEEDED"
	CodeNotBorrowed         Code = "NOT_BORROWED"
	CodeDuplicateUsername   Code = "DUPLICATE_USERNAME"
	CodeInvalidArgument     Code = "INVALID_ARGUMENT"
	CodeConflict            Code = "CONFLICT"
	CodeInternal            Code = "INTERNAL"
)

type APIError struct {
	Code    Code
	Message string
}

func (e *APIError) Error() string { return fmt.Sprintf("%s: %s", e.Code, e.Message) }

func ErrValidation(msg string) *APIError   { return &APIError{Code: CodeValidation, Message: msg} }
func ErrMissingField(msg string) *APIError { return &APIError{Code: CodeMissingField, Message: msg} }
func ErrCorruptState(msg string) *APIError { return &APIError{Code: CodeCorruptState, Message: msg} }
func ErrNotFound(msg string) *APIError     { return &APIError{Code: CodeNotFound, Message: msg} }
func ErrInvalid(msg string) *APIError      { return &APIError{Code: CodeInvalidArgument, Message: msg} }
func ErrConflict(msg string) *APIError     { return &APIError{Code: CodeConflict, Message: msg} }
func ErrInternal(msg string) *APIError     { return &APIError{Code: CodeInternal, Message: msg} }

func ErrNoCopiesAvailable(msg string) *APIError {
	return &APIError{Code: CodeNoCopiesAvailable, Message: msg}
}

func ErrBorrowLimitExceeded(msg string) *APIError {
	return &APIError{Code: CodeBorrowLimitExceeded, Message: msg}
}

func ErrNotBorrowed(msg string) *APIError {
	return &APIError{Code: CodeNotBorrowed, Message: msg}
}

func ErrDuplicateUsername(msg string) *APIError {
	return &APIError{Code: CodeDuplicateUsername, Message: msg}
}

// ToHTTPStatus はAPIErrorのコードをHTTPステータスへ写す。
// ワークフローの前提条件違反（在庫なし・貸出上限など）は 409 に寄せる。
func ToHTTPStatus(err error) int {
	var api *APIError
	if errors.As(err, &api) {
		switch api.Code {
		case CodeValidation, CodeMissingField, CodeInvalidArgument:
			return http.StatusBadRequest
		case CodeNotFound:
			return http.StatusNotFound
		case CodeNoCopiesAvailable, CodeBorrowLimitExceeded, CodeNotBorrowed,
			CodeDuplicateUsername, CodeConflict:
			return http.StatusConflict
		default:
			return http.StatusInternalServerError
		}
	}
	return http.StatusInternalServerError
}

// CodeOf は分類コードを取り出す。APIError以外は INTERNAL 扱い。
func CodeOf(err error) Code {
	var api *APIError
	if errors.As(err, &api) {
		return api.Code
	}
	return CodeInternal
}
