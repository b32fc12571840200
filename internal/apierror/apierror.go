/*
Copyright 2024 Blnk Finance Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package apierror

import (
	"errors"
	"fmt"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/sirupsen/logrus"

	"github.com/jerry-enebeli/commissions"
	"github.com/jerry-enebeli/commissions/internal/backups"
	"github.com/jerry-enebeli/commissions/internal/files"
	"github.com/jerry-enebeli/commissions/ledger"
	"github.com/jerry-enebeli/commissions/mapping"
	"github.com/jerry-enebeli/commissions/statement"
)

type ErrorCode string

const (
	ErrNotFound       ErrorCode = "NOT_FOUND"
	ErrConflict       ErrorCode = "CONFLICT"
	ErrInvalidInput   ErrorCode = "INVALID_INPUT"
	ErrUnprocessable  ErrorCode = "UNPROCESSABLE"
	ErrInternalServer ErrorCode = "INTERNAL_SERVER_ERROR"
)

type APIError struct {
	Code    ErrorCode   `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func (e APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewAPIError(code ErrorCode, message string, details interface{}) APIError {
	if details != nil {
		logrus.Error(details)
	}
	return APIError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// FromError maps a domain error onto an API error code.
func FromError(err error) APIError {
	var apiErr APIError
	var parseErr *statement.ParseError
	var incomplete *mapping.IncompleteError
	var invalid validation.Errors

	switch {
	case errors.As(err, &apiErr):
		return apiErr
	case errors.Is(err, ledger.ErrRecordNotFound),
		errors.Is(err, commissions.ErrMappingNotFound):
		return NewAPIError(ErrNotFound, err.Error(), nil)
	case errors.Is(err, ledger.ErrNothingToUndo),
		errors.Is(err, commissions.ErrDuplicateRecord):
		return NewAPIError(ErrConflict, err.Error(), nil)
	case errors.Is(err, ledger.ErrUnknownField),
		errors.Is(err, ledger.ErrZeroAmount),
		errors.Is(err, ledger.ErrInvalidAmount),
		errors.Is(err, commissions.ErrNoFiles),
		errors.Is(err, commissions.ErrMissingCarrier),
		errors.Is(err, commissions.ErrNothingToCommit):
		return NewAPIError(ErrInvalidInput, err.Error(), nil)
	case errors.As(err, &invalid):
		return NewAPIError(ErrInvalidInput, "validation failed", invalid)
	case errors.Is(err, files.ErrNoExtractor),
		errors.Is(err, backups.ErrS3NotConfigured):
		return NewAPIError(ErrUnprocessable, err.Error(), nil)
	case errors.As(err, &incomplete):
		return NewAPIError(ErrUnprocessable, err.Error(), incomplete.Missing)
	case errors.As(err, &parseErr):
		return NewAPIError(ErrUnprocessable, err.Error(), nil)
	default:
		return NewAPIError(ErrInternalServer, "internal server error", err.Error())
	}
}

func MapErrorToHTTPStatus(err error) int {
	var apiErr APIError
	if !errors.As(err, &apiErr) {
		apiErr = FromError(err)
	}
	switch apiErr.Code {
	case ErrNotFound:
		return http.StatusNotFound
	case ErrConflict:
		return http.StatusConflict
	case ErrInvalidInput:
		return http.StatusBadRequest
	case ErrUnprocessable:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
