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
	"strings"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jerry-enebeli/commissions/model"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		line string
		want model.RawRow
	}{
		{"plain", "a,b,c", model.RawRow{"a", "b", "c"}},
		{"trimmed", "  a , b ,c  ", model.RawRow{"a", "b", "c"}},
		{"quoted comma", `"DOE, JOHN",H123,"1,250.00"`, model.RawRow{"DOE, JOHN", "H123", "1,250.00"}},
		{"empty fields", "a,,c,", model.RawRow{"a", "", "c", ""}},
		{"unbalanced quote swallows rest", `a,"b,c,d`, model.RawRow{"a", "b,c,d"}},
		{"quoted padding", `" x ",y`, model.RawRow{"x", "y"}},
		{"single field", "only", model.RawRow{"only"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Tokenize(tt.line))
		})
	}
}

func TestTokenizeRoundTrip(t *testing.T) {
	gofakeit.Seed(42)
	for i := 0; i < 200; i++ {
		n := gofakeit.Number(1, 8)
		fields := make([]string, n)
		for j := range fields {
			switch gofakeit.Number(0, 3) {
			case 0:
				fields[j] = gofakeit.Name()
			case 1:
				fields[j] = gofakeit.Street() + ", " + gofakeit.City()
			case 2:
				fields[j] = ""
			default:
				fields[j] = gofakeit.Numerify("##,###.##")
			}
		}

		assert.Equal(t, model.RawRow(fields), Tokenize(SerializeRow(fields)))
	}
}

func TestIsMultiSection(t *testing.T) {
	multi := "STATEMENT DATE : 01/15/2024\nCommission Detail\nPolicy Number,Insured Name\n"
	assert.True(t, IsMultiSection(multi))

	assert.False(t, IsMultiSection("Date,Policy,Client,Amount\n2024-01-01,H123,JOHN,25"))
	assert.False(t, IsMultiSection("Commission Detail\nPolicy Number,Insured Name\n"), "missing date marker")
	assert.False(t, IsMultiSection("STATEMENT DATE : 1/15/2024\nCommission Detail\nPolicy Number\n"), "date must be MM/DD/YYYY")
	assert.False(t, IsMultiSection("STATEMENT DATE : 01/15/2024\nPolicy Number,Insured Name\n"), "missing section title")
	assert.False(t, IsMultiSection("STATEMENT DATE : 01/15/2024\nAdvance Detail\nPolicy,Name\n"), "missing policy number header")
	assert.True(t, IsMultiSection("STATEMENT DATE : 01/15/2024\nMiscellaneous Earnings / Non-Earnings\nPolicy Number,Amount\n"))
}

func TestExtractSectionsScenarioB(t *testing.T) {
	text := strings.Join([]string{
		"ACME LIFE INSURANCE COMPANY",
		"STATEMENT DATE : 01/15/2024",
		"",
		"Commission Detail",
		"Policy Number,Insured Name,Comm. Total",
		"H1000001,JANE SMITH,100.00",
	}, "\n")

	ext := ExtractSections(text)
	require.Len(t, ext.Rows, 1)
	row := ext.Rows[0]
	assert.Equal(t, "01/15/2024", row[model.StatementDateKey])
	assert.Equal(t, SectionCommissionDetail, row[model.SectionKey])
	assert.Equal(t, "H1000001", row["Policy Number"])
	assert.Equal(t, "JANE SMITH", row["Insured Name"])
	assert.Equal(t, "100.00", row["Comm. Total"])
	assert.Equal(t, []string{"Policy Number", "Insured Name", "Comm. Total"}, ext.Headers)
}

func TestExtractSectionsSkipsOtherSections(t *testing.T) {
	text := strings.Join([]string{
		"STATEMENT DATE : 02/01/2024",
		"Commission Detail",
		"Policy Number,Insured Name,Premium,Rate,Comm. Total",
		"AB100,JOHN DOE,1000,10,100.00",
		"AB101,SHORT ROW,500",
		"AB102,TOO SHORT",
		"Page 1 of 2",
		"Policy Number,Insured Name,Premium,Rate,Comm. Total",
		"Advance Detail",
		"Policy Number,Insured Name,Advance",
		"AB200,MARY ROE,300.00",
		"Miscellaneous Earnings / Non-Earnings",
		"Policy Number,Description,Amount",
		"AB300,BONUS,50.00",
		"STATEMENT DATE : 03/01/2024",
		"Commission Detail",
		"Policy Number,Insured Name,Comm. Total",
		"AB103,LATE ROW,20.00",
	}, "\n")

	ext := ExtractSections(text)
	require.Len(t, ext.Rows, 3)

	assert.Equal(t, "AB100", ext.Rows[0]["Policy Number"])
	assert.Equal(t, "02/01/2024", ext.Rows[0][model.StatementDateKey])

	// three of five columns is within tolerance; trailing columns zip to empty
	assert.Equal(t, "AB101", ext.Rows[1]["Policy Number"])
	assert.Equal(t, "", ext.Rows[1]["Rate"])
	assert.Equal(t, "", ext.Rows[1]["Comm. Total"])

	assert.Equal(t, "AB103", ext.Rows[2]["Policy Number"])
	assert.Equal(t, "03/01/2024", ext.Rows[2][model.StatementDateKey])

	assert.Equal(t, 1, ext.Skipped[SectionAdvanceDetail])
	assert.Equal(t, 1, ext.Skipped[SectionMiscellaneous])
}

func TestExtractSectionsTitleMentionsInRows(t *testing.T) {
	text := strings.Join([]string{
		"STATEMENT DATE : 04/01/2024",
		"Commission Detail,,,",
		"Policy Number,Insured Name,Description,Comm. Total",
		"AB100,JOHN DOE,Advance Detail Recovery,-10.00",
		"AB101,JANE ROE,Renewal,20.00",
		"Totals for Commission Detail,,,10.00",
	}, "\n")

	ext := ExtractSections(text)
	require.Len(t, ext.Rows, 2)
	assert.Equal(t, "Advance Detail Recovery", ext.Rows[0]["Description"])
	assert.Equal(t, "AB101", ext.Rows[1]["Policy Number"])
	assert.Empty(t, ext.Skipped)
}

func TestExtractSectionsSuffixedPolicyNumbers(t *testing.T) {
	text := strings.Join([]string{
		"STATEMENT DATE : 04/01/2024",
		"Commission Detail",
		"Policy Number,Insured Name,Comm. Total",
		"AB1234567-01,JOHN DOE,15.00",
		"AB1234567A,JANE ROE,25.00",
		"Total,,40.00",
	}, "\n")

	ext := ExtractSections(text)
	require.Len(t, ext.Rows, 2)
	assert.Equal(t, "AB1234567-01", ext.Rows[0]["Policy Number"])
	assert.Equal(t, "AB1234567A", ext.Rows[1]["Policy Number"])
}

func TestParseTabular(t *testing.T) {
	text := "Date,Policy,Client,Amount\n\n2024-01-01,H123,JOHN DOE,25.50\r\n2024-01-02,H124\n"

	headers, rows := ParseTabular(text)
	assert.Equal(t, []string{"Date", "Policy", "Client", "Amount"}, headers)
	require.Len(t, rows, 2)
	assert.Equal(t, model.Row{"Date": "2024-01-01", "Policy": "H123", "Client": "JOHN DOE", "Amount": "25.50"}, rows[0])
	assert.Equal(t, model.Row{"Date": "2024-01-02", "Policy": "H124", "Client": "", "Amount": ""}, rows[1])
}

func TestParse(t *testing.T) {
	t.Run("tabular", func(t *testing.T) {
		doc, err := Parse("Date,Policy,Amount\n2024-01-01,H1,10")
		require.NoError(t, err)
		assert.False(t, doc.MultiSection)
		assert.Len(t, doc.Rows, 1)
		assert.Equal(t, "H1", doc.SampleRow()["Policy"])
	})

	t.Run("multi-section", func(t *testing.T) {
		doc, err := Parse("STATEMENT DATE : 01/15/2024\nCommission Detail\nPolicy Number,Comm. Total\nH1000001,100.00")
		require.NoError(t, err)
		assert.True(t, doc.MultiSection)
		assert.Len(t, doc.Rows, 1)
	})

	errCases := map[string]string{
		"empty":             "   \n\n",
		"header only":       "Date,Policy,Amount\n",
		"no detail rows":    "STATEMENT DATE : 01/15/2024\nCommission Detail\nPolicy Number,Comm. Total\nTOTAL,100.00",
		"advance rows only": "STATEMENT DATE : 01/15/2024\nAdvance Detail\nPolicy Number,Advance\nAB1,10.00",
	}
	for name, text := range errCases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(text)
			var parseErr *ParseError
			assert.ErrorAs(t, err, &parseErr)
		})
	}
}
