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

// Package statement turns commission statement text into zipped rows. It
// recognizes flat delimited tables and multi-section carrier statements.
package statement

import (
	"strings"

	"github.com/jerry-enebeli/commissions/model"
)

// Tokenize splits one line of delimited text into fields. A double quote
// toggles quoted mode and commas inside quotes do not separate fields. An
// unbalanced quote stays in effect until the end of the line.
func Tokenize(line string) model.RawRow {
	fields := model.RawRow{}
	var current strings.Builder
	inQuotes := false

	for _, ch := range line {
		switch {
		case ch == '"':
			inQuotes = !inQuotes
			current.WriteRune(ch)
		case ch == ',' && !inQuotes:
			fields = append(fields, cleanField(current.String()))
			current.Reset()
		default:
			current.WriteRune(ch)
		}
	}
	fields = append(fields, cleanField(current.String()))

	return fields
}

// cleanField strips the surrounding quote characters and whitespace.
func cleanField(field string) string {
	field = strings.TrimSpace(field)
	field = strings.TrimPrefix(field, `"`)
	field = strings.TrimSuffix(field, `"`)
	return strings.TrimSpace(field)
}

// SerializeRow writes fields as one comma separated line with every field
// quoted. Embedded quotes are doubled.
func SerializeRow(fields []string) string {
	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
	}
	return strings.Join(quoted, ",")
}

// zip pairs values with headers by position. Missing trailing values become
// empty strings and surplus values are dropped.
func zip(headers []string, values model.RawRow) model.Row {
	row := make(model.Row, len(headers))
	for i, h := range headers {
		if i < len(values) {
			row[h] = values[i]
		} else {
			row[h] = ""
		}
	}
	return row
}

// splitLines splits text on any newline convention.
func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.Split(text, "\n")
}
