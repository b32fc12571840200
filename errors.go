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

package commissions

import (
	"errors"
	"fmt"
)

var (
	ErrNoFiles         = errors.New("no files to import")
	ErrMissingCarrier  = errors.New("carrier is required")
	ErrDuplicateRecord = errors.New("record duplicates an existing ledger entry")
	ErrMappingNotFound = errors.New("no saved mapping for carrier")
	ErrNothingToCommit = errors.New("no candidates to commit")
)

// ClassificationServiceError wraps a failed column classification. It is
// logged and replaced by an empty mapping; callers never receive it.
type ClassificationServiceError struct {
	File string
	Err  error
}

func (e *ClassificationServiceError) Error() string {
	return fmt.Sprintf("column classification failed for %s: %v", e.File, e.Err)
}

func (e *ClassificationServiceError) Unwrap() error {
	return e.Err
}
