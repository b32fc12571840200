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
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jerry-enebeli/commissions/config"
	"github.com/jerry-enebeli/commissions/internal/cache"
	"github.com/jerry-enebeli/commissions/model"
)

const serviceURL = "http://classifier.test/map"

var headers = []string{"Pay Date", "Insured Name", "Policy #", "Plan", "Comm Type", "Writing Agent", "Comm Amount"}

func newTestClient(c cache.Cache) *Client {
	return NewClient(config.ClassifierConfig{Url: serviceURL, ApiKey: "secret", Timeout: 2, MaxRetries: 2}, c)
}

func TestClassify_SnapsSuggestions(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder(http.MethodPost, serviceURL, func(r *http.Request) (*http.Response, error) {
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		var req Request
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, headers, req.Headers)
		return httpmock.NewStringResponse(http.StatusOK, `{
			"paymentDate": "pay date",
			"clientName": "Insured Name",
			"policyNumber": "Policy",
			"policyType": "",
			"commissionType": null,
			"agent": "Totally Different",
			"amount": "Comm Amnt"
		}`), nil
	})

	m, err := newTestClient(nil).Classify(context.Background(), Request{Headers: headers})
	require.NoError(t, err)
	assert.Equal(t, model.ColumnMapping{
		PaymentDate:  "Pay Date",
		ClientName:   "Insured Name",
		PolicyNumber: "Policy #",
		Amount:       "Comm Amount",
	}, m)
}

func TestClassify_RepairsMalformedBody(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder(http.MethodPost, serviceURL,
		httpmock.NewStringResponder(http.StatusOK, `{'amount': 'Comm Amount', 'agent': 'Writing Agent',}`))

	m, err := newTestClient(nil).Classify(context.Background(), Request{Headers: headers})
	require.NoError(t, err)
	assert.Equal(t, "Comm Amount", m.Amount)
	assert.Equal(t, "Writing Agent", m.Agent)
}

func TestClassify_RetriesServerErrors(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder(http.MethodPost, serviceURL,
		httpmock.NewStringResponder(http.StatusServiceUnavailable, "busy").
			Then(httpmock.NewStringResponder(http.StatusOK, `{"amount":"Comm Amount"}`)))

	m, err := newTestClient(nil).Classify(context.Background(), Request{Headers: headers})
	require.NoError(t, err)
	assert.Equal(t, "Comm Amount", m.Amount)
	assert.Equal(t, 2, httpmock.GetTotalCallCount())
}

func TestClassify_ClientErrorIsNotRetried(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder(http.MethodPost, serviceURL, httpmock.NewStringResponder(http.StatusBadRequest, "bad"))

	_, err := newTestClient(nil).Classify(context.Background(), Request{Headers: headers})
	assert.Error(t, err)
	assert.Equal(t, 1, httpmock.GetTotalCallCount())
}

func TestClassify_InvalidContent(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder(http.MethodPost, serviceURL, httpmock.NewStringResponder(http.StatusOK, `[1, 2]`))

	_, err := newTestClient(nil).Classify(context.Background(), Request{Headers: headers})
	assert.ErrorContains(t, err, "invalid classifier response")
	assert.Equal(t, 1, httpmock.GetTotalCallCount())
}

func TestClassify_TransportFailure(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder(http.MethodPost, serviceURL, httpmock.NewErrorResponder(errors.New("connection refused")))

	client := NewClient(config.ClassifierConfig{Url: serviceURL, Timeout: 1, MaxRetries: 0}, nil)
	_, err := client.Classify(context.Background(), Request{Headers: headers})
	assert.ErrorContains(t, err, "connection refused")
}

func TestClassify_CachesAcceptedMapping(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder(http.MethodPost, serviceURL, httpmock.NewStringResponder(http.StatusOK, `{"amount":"Comm Amount"}`))

	client := newTestClient(cache.New(nil))
	for i := 0; i < 3; i++ {
		m, err := client.Classify(context.Background(), Request{Headers: headers})
		require.NoError(t, err)
		assert.Equal(t, "Comm Amount", m.Amount)
	}
	assert.Equal(t, 1, httpmock.GetTotalCallCount())
}

func TestClassify_Disabled(t *testing.T) {
	client := NewClient(config.ClassifierConfig{}, nil)
	_, err := client.Classify(context.Background(), Request{Headers: headers})
	assert.ErrorIs(t, err, ErrDisabled)
}

func TestSignature(t *testing.T) {
	a := Signature(Request{Headers: []string{"A", "B"}})
	assert.Equal(t, a, Signature(Request{Headers: []string{"A", "B"}, SampleRow: map[string]string{"A": "1"}}))
	assert.NotEqual(t, a, Signature(Request{Headers: []string{"B", "A"}}))
	assert.NotEqual(t, a, Signature(Request{Headers: []string{"A", "B"}, IsMultiSection: true}))
}

func TestSnap_ShortAndAmbiguousNames(t *testing.T) {
	tests := []struct {
		name       string
		suggestion string
		headers    []string
		want       string
	}{
		{"short suggestion", "Date", []string{"Rate", "Policy"}, ""},
		{"short header", "Dates", []string{"Rate", "Policy"}, ""},
		{"case only", "date", []string{"Rate", "Date"}, "Date"},
		{"tie", "Comm Amt", []string{"Comm Amt1", "Comm Amt2"}, ""},
		{"single closest", "Comm Amnt", []string{"Comm Amount", "Comm Type"}, "Comm Amount"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Snap(map[string]interface{}{"paymentDate": tt.suggestion}, tt.headers)
			assert.Equal(t, tt.want, m.PaymentDate)
		})
	}
}

func TestSnap_HiddenKeys(t *testing.T) {
	m := Snap(map[string]interface{}{"paymentDate": "_statementDate"}, []string{"Policy Number"})
	assert.Equal(t, model.StatementDateKey, m.PaymentDate)
}
