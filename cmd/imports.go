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
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jerry-enebeli/commissions"
	"github.com/jerry-enebeli/commissions/model"
)

type importFlags struct {
	carrier        string
	skipDuplicates bool
	saveMapping    bool
	columns        map[string]string
}

func (f *importFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.carrier, "carrier", "", "carrier the statements come from")
	cmd.Flags().BoolVar(&f.skipDuplicates, "skip-duplicates", false, "leave out records already in the ledger or repeated in the batch")
	cmd.Flags().BoolVar(&f.saveMapping, "save-mapping", false, "remember the column mapping used for the carrier")
	cmd.Flags().StringToStringVar(&f.columns, "map", nil, "column mapping as field=Column, e.g. --map amount=\"Comm Amt\"")
}

func (f *importFlags) mapping() (*model.ColumnMapping, error) {
	if len(f.columns) == 0 {
		return nil, nil
	}
	var m model.ColumnMapping
	for field, column := range f.columns {
		if !isCanonicalField(field) {
			return nil, fmt.Errorf("unknown field %q in --map", field)
		}
		m = m.With(field, column)
	}
	return &m, nil
}

func isCanonicalField(field string) bool {
	for _, f := range model.CanonicalFields {
		if f == field {
			return true
		}
	}
	return false
}

// openInputs opens every path as one statement. The returned func closes them.
func (f *importFlags) openInputs(paths []string) ([]commissions.FileInput, func(), error) {
	override, err := f.mapping()
	if err != nil {
		return nil, nil, err
	}

	var opened []*os.File
	closeAll := func() {
		for _, file := range opened {
			file.Close()
		}
	}

	inputs := make([]commissions.FileInput, 0, len(paths))
	for _, path := range paths {
		file, err := os.Open(path)
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		opened = append(opened, file)
		inputs = append(inputs, commissions.FileInput{
			Name:        filepath.Base(path),
			Reader:      file,
			Mapping:     override,
			SaveMapping: f.saveMapping,
		})
	}
	return inputs, closeAll, nil
}

func logProgress(p model.ImportProgress) {
	entry := logrus.WithFields(logrus.Fields{
		"batch":  p.BatchID,
		"file":   p.File.Name,
		"status": p.File.Status,
	})
	if p.File.Failed() {
		entry.Warnf("[%d/%d] %s", p.Index, p.Total, p.File.Error)
		return
	}
	entry.Infof("[%d/%d] %d candidates", p.Index, p.Total, len(p.File.Candidates))
}

func runImport(a *app, cmd *cobra.Command, f *importFlags, paths []string, preview bool) error {
	e, err := a.Engine(cmd.Context())
	if err != nil {
		return err
	}
	inputs, closeAll, err := f.openInputs(paths)
	if err != nil {
		return err
	}
	defer closeAll()

	batch, err := e.ImportBatch(cmd.Context(), inputs, commissions.ImportOptions{
		Carrier:        f.carrier,
		SkipDuplicates: f.skipDuplicates,
		Preview:        preview,
		Progress:       logProgress,
	})
	if err != nil {
		return err
	}
	return printJSON(cmd, batch)
}

func importCommands(a *app) *cobra.Command {
	f := &importFlags{}
	cmd := &cobra.Command{
		Use:   "import <file>...",
		Short: "import commission statements into the ledger",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(a, cmd, f, args, false)
		},
	}
	f.register(cmd)
	return cmd
}

func previewCommands(a *app) *cobra.Command {
	f := &importFlags{}
	cmd := &cobra.Command{
		Use:   "preview <file>...",
		Short: "parse statements and flag duplicates without writing the ledger",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(a, cmd, f, args, true)
		},
	}
	f.register(cmd)
	return cmd
}
