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

package statement

import (
	"fmt"
	"strings"

	"github.com/jerry-enebeli/commissions/model"
)

// ParseError reports a document that is neither a usable table nor a
// multi-section statement.
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("unable to parse statement: %s", e.Reason)
}

// Document is a parsed statement ready for column mapping.
type Document struct {
	MultiSection bool
	Headers      []string
	Rows         []model.Row
	Skipped      map[string]int
}

// SampleRow returns the first data row, or an empty row when there is none.
func (d Document) SampleRow() model.Row {
	if len(d.Rows) == 0 {
		return model.Row{}
	}
	return d.Rows[0]
}

// Parse classifies text and extracts its rows.
func Parse(text string) (Document, error) {
	if strings.TrimSpace(text) == "" {
		return Document{}, &ParseError{Reason: "document is empty"}
	}

	if IsMultiSection(text) {
		ext := ExtractSections(text)
		if len(ext.Rows) == 0 {
			return Document{}, &ParseError{Reason: "no commission detail rows found"}
		}
		return Document{MultiSection: true, Headers: ext.Headers, Rows: ext.Rows, Skipped: ext.Skipped}, nil
	}

	headers, rows := ParseTabular(text)
	if len(headers) == 0 {
		return Document{}, &ParseError{Reason: "no header row found"}
	}
	if len(rows) == 0 {
		return Document{}, &ParseError{Reason: "no data rows found"}
	}
	return Document{Headers: headers, Rows: rows}, nil
}

// ParseTabular treats the first non-blank line as the header row and zips
// every later non-blank line against it.
func ParseTabular(text string) ([]string, []model.Row) {
	var headers []string
	var rows []model.Row

	for _, line := range splitLines(text) {
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := Tokenize(line)
		if headers == nil {
			headers = fields
			continue
		}
		rows = append(rows, zip(headers, fields))
	}

	return headers, rows
}
