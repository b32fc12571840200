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
	"io"
	"strings"

	"github.com/jerry-enebeli/commissions/model"
	"github.com/jerry-enebeli/commissions/statement"
)

// ExportHeader is the first line of every CSV export.
const ExportHeader = "Date,Carrier,Client,Policy,Type,CommType,Agent,Amount,BusinessType"

// ExportLine renders one record. Text fields are quoted with embedded quotes
// doubled; the amount is a bare number.
func ExportLine(r model.CommissionRecord) string {
	return statement.SerializeRow([]string{
		r.PaymentDate,
		r.Carrier,
		r.ClientName,
		r.PolicyNumber,
		r.PolicyType,
		r.CommissionType,
		r.Agent,
	}) + "," + r.Amount.String() + "," + statement.SerializeRow([]string{string(r.BusinessType)})
}

// ExportCSV renders records under ExportHeader, one line each, newline separated.
func ExportCSV(records []model.CommissionRecord) []byte {
	lines := make([]string, 0, len(records)+1)
	lines = append(lines, ExportHeader)
	for _, r := range records {
		lines = append(lines, ExportLine(r))
	}
	return []byte(strings.Join(lines, "\n"))
}

// WriteCSV writes the export of records to w.
func WriteCSV(w io.Writer, records []model.CommissionRecord) error {
	_, err := w.Write(ExportCSV(records))
	return err
}

// Export renders the records matching filter.
func (e *Engine) Export(filter model.RecordFilter) []byte {
	return ExportCSV(e.Records(filter))
}
