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

package classifier

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	hjson "github.com/hjson/hjson-go/v4"
	"github.com/texttheater/golang-levenshtein/levenshtein"

	"github.com/jerry-enebeli/commissions/model"
)

// maxSnapDistance is the largest edit distance at which a suggested column
// is still snapped onto a real header.
const maxSnapDistance = 2

// minSnapLength is the shortest suggestion or header that may be matched
// by edit distance. Shorter names like Date and Rate sit within
// maxSnapDistance of each other.
const minSnapLength = 5

// decode reads the service body leniently: strict JSON first, then a
// repaired body, then Hjson.
func decode(body []byte) (map[string]interface{}, error) {
	var fields map[string]interface{}
	if err := json.Unmarshal(body, &fields); err == nil && fields != nil {
		return fields, nil
	}

	if repaired, err := jsonrepair.RepairJSON(string(body)); err == nil {
		if err := json.Unmarshal([]byte(repaired), &fields); err == nil && fields != nil {
			return fields, nil
		}
	}

	if err := hjson.Unmarshal(body, &fields); err == nil && fields != nil {
		return fields, nil
	}
	return nil, errors.New("response is not a JSON object")
}

// Snap turns the raw suggestion into a mapping whose every column exists.
// A suggestion matches a header exactly, then case-insensitively, then by
// the single closest header within maxSnapDistance edits; otherwise the
// field is left unmapped.
func Snap(fields map[string]interface{}, headers []string) model.ColumnMapping {
	var m model.ColumnMapping
	for _, field := range model.CanonicalFields {
		raw, ok := fields[field]
		if !ok || raw == nil {
			continue
		}
		suggestion := strings.TrimSpace(fmt.Sprint(raw))
		if suggestion == "" {
			continue
		}
		m = m.With(field, snapColumn(suggestion, headers))
	}
	return m
}

func snapColumn(suggestion string, headers []string) string {
	candidates := append([]string{model.StatementDateKey, model.SectionKey}, headers...)

	for _, h := range candidates {
		if h == suggestion {
			return h
		}
	}
	for _, h := range candidates {
		if strings.EqualFold(h, suggestion) {
			return h
		}
	}

	lowered := []rune(strings.ToLower(suggestion))
	if len(lowered) < minSnapLength {
		return ""
	}
	best, bestDistance, tied := "", maxSnapDistance+1, false
	for _, h := range headers {
		header := []rune(strings.ToLower(h))
		if len(header) < minSnapLength {
			continue
		}
		d := levenshtein.DistanceForStrings(lowered, header, levenshtein.DefaultOptions)
		switch {
		case d < bestDistance:
			best, bestDistance, tied = h, d, false
		case d == bestDistance:
			tied = true
		}
	}
	if tied {
		return ""
	}
	return best
}
