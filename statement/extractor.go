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
	"regexp"
	"strings"

	"github.com/jerry-enebeli/commissions/model"
)

// policyIDPattern matches the start of carrier policy identifiers such as
// AB1234567, AB1234567-01 or H1000001.
var policyIDPattern = regexp.MustCompile(`^[A-Z]{1,2}\d+`)

// headerTolerance is how many trailing columns a detail row may be short of its header.
const headerTolerance = 2

// Extraction is the output of a multi-section walk.
type Extraction struct {
	Headers []string
	Rows    []model.Row
	// Skipped counts policy-shaped rows seen in sections that are not extracted.
	Skipped map[string]int
}

type sectionState struct {
	statementDate string
	section       string
	headers       []string
	awaitHeader   bool
}

// ExtractSections walks a multi-section statement and returns the detail
// rows of the Commission Detail section. Advance Detail and Miscellaneous
// rows are parsed for structure and counted in Skipped but never emitted.
func ExtractSections(text string) Extraction {
	out := Extraction{Skipped: map[string]int{}}
	state := sectionState{}

	for _, raw := range splitLines(text) {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}

		if date, ok := statementDate(line); ok {
			state.statementDate = date
			continue
		}

		if title, ok := sectionTitle(line); ok {
			state.section = title
			state.headers = nil
			state.awaitHeader = true
			continue
		}

		if state.awaitHeader {
			state.headers = Tokenize(line)
			state.awaitHeader = false
			if state.section == SectionCommissionDetail && out.Headers == nil {
				out.Headers = append([]string(nil), state.headers...)
			}
			continue
		}

		if state.section == "" || state.headers == nil {
			continue
		}

		fields := Tokenize(line)
		if !isDetailRow(fields, len(state.headers)) {
			continue
		}

		if state.section != SectionCommissionDetail {
			out.Skipped[state.section]++
			continue
		}

		row := zip(state.headers, fields)
		row[model.StatementDateKey] = state.statementDate
		row[model.SectionKey] = state.section
		out.Rows = append(out.Rows, row)
	}

	return out
}

func isDetailRow(fields model.RawRow, headerCount int) bool {
	if len(fields) == 0 || !policyIDPattern.MatchString(fields[0]) {
		return false
	}
	return len(fields) >= headerCount-headerTolerance
}
