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
)

// Section titles recognized in multi-section carrier statements.
const (
	SectionCommissionDetail = "Commission Detail"
	SectionAdvanceDetail    = "Advance Detail"
	SectionMiscellaneous    = "Miscellaneous Earnings / Non-Earnings"
)

// SectionTitles lists the recognized titles in the order they are matched.
var SectionTitles = []string{
	SectionCommissionDetail,
	SectionAdvanceDetail,
	SectionMiscellaneous,
}

const policyNumberHeader = "Policy Number"

var statementDatePattern = regexp.MustCompile(`STATEMENT DATE\s*:\s*(\d{2}/\d{2}/\d{4})`)

// IsMultiSection reports whether text is an annotated multi-section
// statement rather than a flat table.
func IsMultiSection(text string) bool {
	if !statementDatePattern.MatchString(text) {
		return false
	}
	if !strings.Contains(text, policyNumberHeader) {
		return false
	}
	for _, title := range SectionTitles {
		if strings.Contains(text, title) {
			return true
		}
	}
	return false
}

// statementDate returns the MM/DD/YYYY date carried by a marker line.
func statementDate(line string) (string, bool) {
	m := statementDatePattern.FindStringSubmatch(line)
	if len(m) < 2 {
		return "", false
	}
	return m[1], true
}

// sectionTitle reports whether line is a section title on its own. Empty
// trailing cells from spreadsheet exports are ignored; a data row that only
// mentions a title is not a title.
func sectionTitle(line string) (string, bool) {
	line = strings.TrimSpace(strings.TrimRight(line, ", \t"))
	for _, title := range SectionTitles {
		if line == title {
			return title, true
		}
	}
	return "", false
}
