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

package model

// Status constants for a single file inside an import batch.
const (
	FileStatusParsed   = "parsed"
	FileStatusImported = "imported"
	FileStatusFailed   = "failed"
)

// FileResult reports what happened to one file of a batch.
type FileResult struct {
	Name               string               `json:"name"`
	Carrier            string               `json:"carrier"`
	Status             string               `json:"status"`
	MultiSection       bool                 `json:"multiSection"`
	Headers            []string             `json:"headers,omitempty"`
	Mapping            ColumnMapping        `json:"mapping"`
	Candidates         []DuplicateCandidate `json:"candidates,omitempty"`
	ZeroAmountFiltered int                  `json:"zeroAmountFiltered"`
	SectionSkipped     map[string]int       `json:"sectionSkipped,omitempty"`
	Imported           int                  `json:"imported"`
	Skipped            int                  `json:"skipped"`
	Error              string               `json:"error,omitempty"`
	Err                error                `json:"-"`
}

// Failed reports whether the file ended in an isolated error.
func (f FileResult) Failed() bool {
	return f.Status == FileStatusFailed
}

// BatchResult aggregates the per-file results of one import call.
type BatchResult struct {
	BatchID            string       `json:"batchId"`
	Files              []FileResult `json:"files"`
	Imported           int          `json:"imported"`
	Skipped            int          `json:"skipped"`
	Failed             int          `json:"failed"`
	ZeroAmountFiltered int          `json:"zeroAmountFiltered"`
}

// ImportProgress is reported to the caller after each file finishes.
type ImportProgress struct {
	BatchID string     `json:"batchId"`
	Index   int        `json:"index"`
	Total   int        `json:"total"`
	File    FileResult `json:"file"`
}
