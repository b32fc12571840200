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

package apierror_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/stretchr/testify/assert"

	"github.com/jerry-enebeli/commissions"
	"github.com/jerry-enebeli/commissions/internal/apierror"
	"github.com/jerry-enebeli/commissions/internal/files"
	"github.com/jerry-enebeli/commissions/ledger"
	"github.com/jerry-enebeli/commissions/mapping"
	"github.com/jerry-enebeli/commissions/statement"
)

func TestNewAPIError(t *testing.T) {
	details := "Some internal error details"
	apiErr := apierror.NewAPIError(apierror.ErrInternalServer, "Something went wrong", details)

	assert.Equal(t, apierror.ErrInternalServer, apiErr.Code)
	assert.Equal(t, "Something went wrong", apiErr.Message)
	assert.Equal(t, details, apiErr.Details)
	assert.Equal(t, "INTERNAL_SERVER_ERROR: Something went wrong", apiErr.Error())
}

func TestMapErrorToHTTPStatus(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"api not found", apierror.NewAPIError(apierror.ErrNotFound, "Resource not found", nil), http.StatusNotFound},
		{"record not found", fmt.Errorf("record 9: %w", ledger.ErrRecordNotFound), http.StatusNotFound},
		{"nothing to undo", ledger.ErrNothingToUndo, http.StatusConflict},
		{"zero amount", fmt.Errorf("record 1: %w", ledger.ErrZeroAmount), http.StatusBadRequest},
		{"unknown field", ledger.ErrUnknownField, http.StatusBadRequest},
		{"missing carrier", commissions.ErrMissingCarrier, http.StatusBadRequest},
		{"nothing to commit", commissions.ErrNothingToCommit, http.StatusBadRequest},
		{"invalid mapping", validation.Errors{"amount": errors.New("cannot be blank")}, http.StatusBadRequest},
		{"duplicate record", commissions.ErrDuplicateRecord, http.StatusConflict},
		{"mapping not found", fmt.Errorf("acme: %w", commissions.ErrMappingNotFound), http.StatusNotFound},
		{"no extractor", fmt.Errorf("statement.pdf: %w", files.ErrNoExtractor), http.StatusUnprocessableEntity},
		{"mapping incomplete", &mapping.IncompleteError{Missing: []string{"amount"}}, http.StatusUnprocessableEntity},
		{"parse error", &statement.ParseError{Reason: "document is empty"}, http.StatusUnprocessableEntity},
		{"unknown", errors.New("disk on fire"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, apierror.MapErrorToHTTPStatus(tt.err))
		})
	}
}

func TestFromError_KeepsAPIError(t *testing.T) {
	original := apierror.NewAPIError(apierror.ErrConflict, "busy", nil)
	assert.Equal(t, original, apierror.FromError(fmt.Errorf("wrapped: %w", original)))
}
