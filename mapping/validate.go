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

package mapping

import (
	"errors"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/jerry-enebeli/commissions/model"
)

// ErrMappingIncomplete is matched by every IncompleteError.
var ErrMappingIncomplete = errors.New("column mapping incomplete")

// RequiredFields must be mapped before a file can be previewed or imported.
var RequiredFields = []string{model.FieldAmount}

// IncompleteError names the required canonical fields left unmapped.
type IncompleteError struct {
	Missing []string
}

func (e *IncompleteError) Error() string {
	return fmt.Sprintf("%s: %s unmapped", ErrMappingIncomplete, strings.Join(e.Missing, ", "))
}

func (e *IncompleteError) Unwrap() error {
	return ErrMappingIncomplete
}

// Validate checks that the required fields are mapped and that every mapped
// column is one of headers or a hidden metadata key.
func Validate(m model.ColumnMapping, headers []string) error {
	var missing []string
	for _, field := range RequiredFields {
		if err := validation.Validate(m.Get(field), validation.Required); err != nil {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return &IncompleteError{Missing: missing}
	}

	allowed := make([]interface{}, 0, len(headers)+2)
	for _, h := range headers {
		allowed = append(allowed, h)
	}
	allowed = append(allowed, model.StatementDateKey, model.SectionKey)
	known := validation.In(allowed...).Error("is not a column of this statement")

	return validation.ValidateStruct(&m,
		validation.Field(&m.PaymentDate, known),
		validation.Field(&m.ClientName, known),
		validation.Field(&m.PolicyNumber, known),
		validation.Field(&m.PolicyType, known),
		validation.Field(&m.CommissionType, known),
		validation.Field(&m.Agent, known),
		validation.Field(&m.Amount, known),
	)
}
