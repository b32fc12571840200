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

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jerry-enebeli/commissions/model"
)

func TestImportFlagsMapping(t *testing.T) {
	f := &importFlags{columns: map[string]string{"amount": "Comm Amt", "policyNumber": "Policy #"}}
	m, err := f.mapping()
	require.NoError(t, err)
	assert.Equal(t, &model.ColumnMapping{Amount: "Comm Amt", PolicyNumber: "Policy #"}, m)

	none, err := (&importFlags{}).mapping()
	require.NoError(t, err)
	assert.Nil(t, none)

	_, err = (&importFlags{columns: map[string]string{"premium": "Prem"}}).mapping()
	assert.EqualError(t, err, `unknown field "premium" in --map`)
}

func TestOpenInputs(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "humana.csv")
	require.NoError(t, os.WriteFile(path, []byte("Policy,Amount\nH1,10\n"), 0o644))

	f := &importFlags{saveMapping: true}
	inputs, closeAll, err := f.openInputs([]string{path})
	require.NoError(t, err)
	defer closeAll()
	require.Len(t, inputs, 1)
	assert.Equal(t, "humana.csv", inputs[0].Name)
	assert.True(t, inputs[0].SaveMapping)
	assert.Nil(t, inputs[0].Mapping)

	_, _, err = f.openInputs([]string{path, filepath.Join(dir, "missing.csv")})
	assert.Error(t, err)
}

func TestParseID(t *testing.T) {
	id, err := parseID("42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	_, err = parseID("x")
	assert.Error(t, err)
}

func TestPrintJSONAndMask(t *testing.T) {
	cmd := &cobra.Command{}
	var out bytes.Buffer
	cmd.SetOut(&out)

	require.NoError(t, printJSON(cmd, map[string]string{"key": mask("secret"), "empty": mask("")}))
	assert.Equal(t, "{\n    \"empty\": \"\",\n    \"key\": \"****\"\n}\n", out.String())
}
