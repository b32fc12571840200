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
	"bytes"
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wacul/ptr"

	"github.com/jerry-enebeli/commissions/ledger"
	"github.com/jerry-enebeli/commissions/model"
	"github.com/jerry-enebeli/commissions/policy"
)

func add(t *testing.T, e *Engine, carrier, date, policyNumber, client, agent, commType, amount string) model.CommissionRecord {
	t.Helper()
	r, err := e.AddRecord(context.Background(), carrier, model.MappedRecord{
		PaymentDate:    date,
		PolicyNumber:   policyNumber,
		ClientName:     client,
		Agent:          agent,
		CommissionType: commType,
		Amount:         amount,
	}, false)
	require.NoError(t, err)
	return r
}

func seededEngine(t *testing.T) *Engine {
	t.Helper()
	e := newTestEngine(t)
	add(t, e, "Humana", "2024-01-05", "H100", "Jane Doe", "Sam Agent", "New", "120")
	add(t, e, "Humana", "2024-02-05", "H100", "Jane Doe", "Sam Agent", "Chargeback", "-40")
	add(t, e, "Americo", "3/1/2024", "L200", "John Roe", "Pat Agent", "FYC", "300")
	add(t, e, "Ambetter", "2024-04-10", "A300", "", "Sam Agent", "Renewal", "15.25")
	return e
}

func TestAddRecord(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	r := add(t, e, " Humana ", "", "H1", "doe,  jane", "", "", "$25.50")
	assert.Equal(t, int64(1), r.ID)
	assert.Equal(t, "2024-06-01", r.PaymentDate)
	assert.Equal(t, "Humana", r.Carrier)
	assert.Equal(t, "DOE JANE", r.ClientName)
	assert.Equal(t, model.BusinessMedicare, r.BusinessType)

	_, err := e.AddRecord(ctx, "HUMANA", model.MappedRecord{PolicyNumber: "h1", Amount: "25.5"}, false)
	assert.ErrorIs(t, err, ErrDuplicateRecord)
	assert.Equal(t, 1, e.Book().Snapshot().Len())
	assert.Equal(t, 1, e.Book().UndoDepth())

	forced, err := e.AddRecord(ctx, "HUMANA", model.MappedRecord{PolicyNumber: "h1", Amount: "25.5"}, true)
	require.NoError(t, err)
	assert.Equal(t, int64(2), forced.ID)

	_, err = e.AddRecord(ctx, "Humana", model.MappedRecord{PolicyNumber: "H2", Amount: "0.00"}, false)
	assert.ErrorIs(t, err, ledger.ErrZeroAmount)
	_, err = e.AddRecord(ctx, " ", model.MappedRecord{PolicyNumber: "H2", Amount: "1"}, false)
	assert.ErrorIs(t, err, ErrMissingCarrier)
}

func TestFilterRecords(t *testing.T) {
	e := seededEngine(t)

	tests := []struct {
		name   string
		filter model.RecordFilter
		want   []string
	}{
		{"no filter", model.RecordFilter{}, []string{"H100", "H100", "L200", "A300"}},
		{"search client", model.RecordFilter{Search: "jane"}, []string{"H100", "H100"}},
		{"search agent", model.RecordFilter{Search: "pat"}, []string{"L200"}},
		{"search carrier", model.RecordFilter{Search: "ambet"}, []string{"A300"}},
		{"carrier exact", model.RecordFilter{Carrier: "Humana"}, []string{"H100", "H100"}},
		{"commission type", model.RecordFilter{CommissionType: "FYC"}, []string{"L200"}},
		{"agent", model.RecordFilter{Agent: "SAM AGENT"}, []string{"H100", "H100", "A300"}},
		{"business line", model.RecordFilter{BusinessType: model.BusinessACA}, []string{"A300"}},
		{"date range", model.RecordFilter{StartDate: "2024-02-01", EndDate: "2024-03-31"}, []string{"H100", "L200"}},
		{"us date bounds", model.RecordFilter{StartDate: "3/1/2024"}, []string{"L200", "A300"}},
		{"combined", model.RecordFilter{Agent: "SAM AGENT", EndDate: "2024-01-31"}, []string{"H100"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := []string{}
			for _, r := range e.Records(tt.filter) {
				got = append(got, r.PolicyNumber)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFilterRecords_UndatedRecordsFallOutsideRanges(t *testing.T) {
	records := []model.CommissionRecord{{PolicyNumber: "X", Amount: decimal.NewFromInt(1)}}
	assert.Len(t, FilterRecords(records, model.RecordFilter{}), 1)
	assert.Empty(t, FilterRecords(records, model.RecordFilter{EndDate: "2024-12-31"}))
}

func TestReport(t *testing.T) {
	e := seededEngine(t)

	report := e.Report(model.RecordFilter{})
	assert.Equal(t, "395.25", report.Net.String())
	assert.Equal(t, "435.25", report.Commissions.String())
	assert.Equal(t, "40", report.Chargebacks.String())
	assert.Equal(t, 4, report.Transactions)
	assert.Equal(t, 2, report.Clients)
	assert.Equal(t, "80", report.ByBusiness[model.BusinessMedicare].String())
	assert.Equal(t, "300", report.ByBusiness[model.BusinessLife].String())
	assert.Equal(t, "15.25", report.ByBusiness[model.BusinessACA].String())

	empty := e.Report(model.RecordFilter{Carrier: "Nobody"})
	assert.True(t, empty.Net.IsZero())
	assert.Equal(t, 0, empty.Transactions)
}

func TestPoliciesAndSummary(t *testing.T) {
	e := seededEngine(t)

	policies := e.Policies(policy.Criteria{})
	require.Len(t, policies, 3)
	var order []string
	for _, p := range policies {
		order = append(order, p.PolicyNumber)
	}
	assert.Equal(t, []string{"L200", "H100", "A300"}, order)
	assert.Equal(t, model.StatusAtRisk, policies[1].Status)
	assert.Equal(t, "SAM AGENT", policies[1].Agent)

	life := e.Policies(policy.Criteria{BusinessType: model.BusinessLife})
	require.Len(t, life, 1)
	assert.Equal(t, "L200", life[0].PolicyNumber)

	summary := e.Summary(policy.Criteria{})
	assert.Equal(t, 3, summary.Policies)
	assert.Equal(t, 1, summary.ByStatus[model.StatusAtRisk])
	assert.Equal(t, "33.3", summary.ChargebackRate.String())
}

func TestEngineMerges(t *testing.T) {
	e := seededEngine(t)
	ctx := context.Background()

	updated, err := e.Edit(ctx, 4, model.RecordPatch{Carrier: ptr.String("Americo")})
	require.NoError(t, err)
	assert.Equal(t, model.BusinessLife, updated.BusinessType)

	n, err := e.BulkEdit(ctx, model.NewIDSet(1, 2), "agent", "NEW AGENT")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.NoError(t, e.Delete(ctx, 3))
	n, err = e.BulkDelete(ctx, model.NewIDSet(1, 99))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 2, e.Book().Snapshot().Len())

	label, err := e.Undo(ctx)
	require.NoError(t, err)
	assert.Equal(t, "deleted 1 record", label)
	label, err = e.Undo(ctx)
	require.NoError(t, err)
	assert.Equal(t, "deleted record 3", label)
	assert.Equal(t, 4, e.Book().Snapshot().Len())
}

func TestExportCSV(t *testing.T) {
	records := []model.CommissionRecord{
		{
			PaymentDate:    "2024-01-01",
			Carrier:        "Humana",
			ClientName:     `JOHN "JJ" DOE`,
			PolicyNumber:   "H1",
			PolicyType:     "PPO",
			CommissionType: "New",
			Agent:          "SAM",
			Amount:         decimal.RequireFromString("25.50"),
			BusinessType:   model.BusinessMedicare,
		},
		{PaymentDate: "2024-01-02", Carrier: "Acme", PolicyNumber: "X9", Amount: decimal.RequireFromString("-10")},
	}

	want := "Date,Carrier,Client,Policy,Type,CommType,Agent,Amount,BusinessType\n" +
		`"2024-01-01","Humana","JOHN ""JJ"" DOE","H1","PPO","New","SAM",25.5,"Medicare"` + "\n" +
		`"2024-01-02","Acme","","X9","","","",-10,""`
	assert.Equal(t, want, string(ExportCSV(records)))

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))
	assert.Equal(t, ExportHeader, buf.String())
}

func TestEngineExport(t *testing.T) {
	e := seededEngine(t)
	out := string(e.Export(model.RecordFilter{Carrier: "Americo"}))
	assert.Equal(t, ExportHeader+"\n"+`"2024-03-01","Americo","JOHN ROE","L200","","FYC","PAT AGENT",300,"Life"`, out)
}

func TestMappingStore(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()
	store := e.Mappings()

	all, err := store.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	assert.Error(t, store.Save(ctx, "", simpleMapping))
	assert.Error(t, store.Save(ctx, "Humana", model.ColumnMapping{PolicyNumber: "Policy"}))

	require.NoError(t, store.Save(ctx, " Humana ", simpleMapping))
	n, err := store.SaveAll(ctx, map[string]model.ColumnMapping{"Oscar": {Amount: "Paid"}})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	carriers, err := store.Carriers(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Humana", "Oscar"}, carriers)

	reopened := NewMappingStore(e.store)
	got, ok, err := reopened.Get(ctx, "Humana")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, simpleMapping, got)

	require.NoError(t, store.Delete(ctx, "Oscar"))
	assert.ErrorIs(t, store.Delete(ctx, "Oscar"), ErrMappingNotFound)
}

func TestLoadMappingsFile(t *testing.T) {
	path := t.TempDir() + "/mappings.yaml"
	require.NoError(t, writeFile(path, "Humana:\n  paymentDate: Date\n  amount: Amount\n"))

	mappings, err := LoadMappingsFile(path)
	require.NoError(t, err)
	assert.Equal(t, model.ColumnMapping{PaymentDate: "Date", Amount: "Amount"}, mappings["Humana"])
}
