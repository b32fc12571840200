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
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/jerry-enebeli/commissions/dedupe"
	"github.com/jerry-enebeli/commissions/internal/classifier"
	"github.com/jerry-enebeli/commissions/internal/files"
	"github.com/jerry-enebeli/commissions/internal/notification"
	"github.com/jerry-enebeli/commissions/ledger"
	"github.com/jerry-enebeli/commissions/mapping"
	"github.com/jerry-enebeli/commissions/model"
	"github.com/jerry-enebeli/commissions/statement"
)

// FileInput is one statement of an import batch. Mapping overrides both the
// saved carrier mapping and the classifier.
type FileInput struct {
	Name        string
	Reader      io.Reader
	Carrier     string
	Mapping     *model.ColumnMapping
	SaveMapping bool
}

// ImportOptions control a batch. Carrier applies to files that name none.
type ImportOptions struct {
	Carrier        string
	SkipDuplicates bool
	Preview        bool
	Progress       func(model.ImportProgress)
}

// ImportBatch processes files one at a time in input order. A file that
// fails is reported in its own result and the batch carries on; the
// returned error is only for a batch that could not start.
//
// In preview mode nothing is written: each file's candidates are classified
// against the ledger plus the candidates earlier files of the batch would add.
func (e *Engine) ImportBatch(ctx context.Context, inputs []FileInput, opts ImportOptions) (model.BatchResult, error) {
	if len(inputs) == 0 {
		return model.BatchResult{}, ErrNoFiles
	}

	batch := model.BatchResult{
		BatchID: model.GenerateUUIDWithSuffix("batch"),
		Files:   make([]model.FileResult, 0, len(inputs)),
	}

	ctx, span := tracer.Start(ctx, "import.batch")
	defer span.End()
	span.SetAttributes(
		attribute.String("batch.id", batch.BatchID),
		attribute.Int("batch.files", len(inputs)),
		attribute.Bool("batch.preview", opts.Preview),
	)

	var pending []model.CommissionRecord
	var failures []string
	for i, in := range inputs {
		result := e.importFile(ctx, batch.BatchID, in, opts, pending)

		if opts.Preview && !result.Failed() {
			for _, c := range result.Candidates {
				if opts.SkipDuplicates && c.IsDuplicate {
					continue
				}
				pending = append(pending, c.CommissionRecord)
			}
		}

		batch.Files = append(batch.Files, result)
		batch.Imported += result.Imported
		batch.Skipped += result.Skipped
		batch.ZeroAmountFiltered += result.ZeroAmountFiltered
		if result.Failed() {
			batch.Failed++
			failures = append(failures, fmt.Sprintf("%s: %s", result.Name, result.Error))
		}

		if opts.Progress != nil {
			opts.Progress(model.ImportProgress{
				BatchID: batch.BatchID,
				Index:   i + 1,
				Total:   len(inputs),
				File:    result,
			})
		}
	}

	logrus.WithFields(logrus.Fields{
		"batch":    batch.BatchID,
		"files":    len(inputs),
		"imported": batch.Imported,
		"skipped":  batch.Skipped,
		"failed":   batch.Failed,
		"filtered": batch.ZeroAmountFiltered,
	}).Info("import batch finished")

	if batch.Failed > 0 {
		notification.NotifyError(fmt.Errorf("import batch %s: %d of %d files failed: %s",
			batch.BatchID, batch.Failed, len(inputs), strings.Join(failures, "; ")))
	}
	return batch, nil
}

// Commit appends previewed candidates. They are classified again against
// the ledger as it is at commit time.
func (e *Engine) Commit(ctx context.Context, candidates []model.DuplicateCandidate, skipDuplicates bool) (ledger.AppendResult, error) {
	if len(candidates) == 0 {
		return ledger.AppendResult{}, ErrNothingToCommit
	}
	records := make([]model.CommissionRecord, len(candidates))
	for i, c := range candidates {
		records[i] = c.CommissionRecord
	}
	_, result, err := e.book.AppendRecords(ctx, records, skipDuplicates, nil)
	return result, err
}

func (e *Engine) importFile(ctx context.Context, batchID string, in FileInput, opts ImportOptions, pending []model.CommissionRecord) model.FileResult {
	ctx, span := tracer.Start(ctx, "import.file")
	defer span.End()

	carrier := strings.TrimSpace(in.Carrier)
	if carrier == "" {
		carrier = strings.TrimSpace(opts.Carrier)
	}
	span.SetAttributes(attribute.String("file.name", in.Name), attribute.String("file.carrier", carrier))

	result := model.FileResult{Name: in.Name, Carrier: carrier}
	log := logrus.WithFields(logrus.Fields{"batch": batchID, "file": in.Name, "carrier": carrier})

	fail := func(err error) model.FileResult {
		span.RecordError(err)
		result.Status = model.FileStatusFailed
		result.Err = err
		result.Error = err.Error()
		log.Warnf("file import failed: %v", err)
		return result
	}

	if err := ctx.Err(); err != nil {
		return fail(err)
	}
	if carrier == "" {
		return fail(ErrMissingCarrier)
	}

	mapped, err := e.readFile(ctx, in, carrier, &result)
	if err != nil {
		return fail(err)
	}

	records, filtered := e.normalizer.NormalizeAll(carrier, mapped)
	result.ZeroAmountFiltered = filtered

	if opts.Preview {
		existing := append(e.book.Snapshot().Records(), pending...)
		result.Candidates = dedupe.Classify(records, existing)
		result.Status = model.FileStatusParsed
	} else {
		candidates, appended, err := e.book.AppendRecords(ctx, records, opts.SkipDuplicates, nil)
		if err != nil {
			return fail(err)
		}
		result.Candidates = candidates
		result.Imported = appended.Imported
		result.Skipped = appended.Skipped
		result.Status = model.FileStatusImported
	}

	if in.SaveMapping && !result.Mapping.IsEmpty() {
		if err := e.mappings.Save(ctx, carrier, result.Mapping); err != nil {
			log.Warnf("saving carrier mapping failed: %v", err)
		}
	}

	log.WithFields(logrus.Fields{
		"rows":     len(mapped),
		"filtered": filtered,
		"imported": result.Imported,
		"skipped":  result.Skipped,
	}).Info("file processed")
	return result
}

// readFile turns an upload into mapped records. Structured payloads are
// already mapped; text goes through statement parsing and column mapping.
func (e *Engine) readFile(ctx context.Context, in FileInput, carrier string, result *model.FileResult) ([]model.MappedRecord, error) {
	doc, err := files.Read(ctx, in.Name, in.Reader, e.extractor)
	if err != nil {
		return nil, err
	}

	if doc.Kind == files.KindStructured {
		for i := range doc.Records {
			if strings.TrimSpace(doc.Records[i].PaymentDate) == "" {
				doc.Records[i].PaymentDate = e.today()
			}
		}
		return doc.Records, nil
	}

	parsed, err := statement.Parse(doc.Text)
	if err != nil {
		return nil, err
	}
	result.MultiSection = parsed.MultiSection
	result.Headers = parsed.Headers
	result.SectionSkipped = parsed.Skipped

	m := e.resolveMapping(ctx, in, carrier, parsed)
	result.Mapping = m
	if err := mapping.Validate(m, parsed.Headers); err != nil {
		return nil, err
	}

	mapped := mapping.ApplyAll(m, parsed.Rows)
	if m.PaymentDate == "" {
		today := e.today()
		for i := range mapped {
			mapped[i].PaymentDate = today
		}
	}
	return mapped, nil
}

// resolveMapping prefers the caller's mapping, then the carrier's saved
// mapping when it fits these headers, then the classifier's suggestion.
func (e *Engine) resolveMapping(ctx context.Context, in FileInput, carrier string, doc statement.Document) model.ColumnMapping {
	if in.Mapping != nil {
		return *in.Mapping
	}

	saved, ok, err := e.mappings.Get(ctx, carrier)
	if err != nil {
		logrus.WithField("carrier", carrier).Warnf("reading saved mapping failed: %v", err)
	} else if ok && mapping.Validate(saved, doc.Headers) == nil {
		return saved
	}

	return e.suggestMapping(ctx, in.Name, doc)
}

// suggestMapping never fails: any classifier problem yields an empty mapping.
func (e *Engine) suggestMapping(ctx context.Context, name string, doc statement.Document) model.ColumnMapping {
	if e.classifier == nil {
		return model.ColumnMapping{}
	}

	m, err := e.classifier.Classify(ctx, classifier.Request{
		Headers:        doc.Headers,
		SampleRow:      doc.SampleRow(),
		IsMultiSection: doc.MultiSection,
	})
	if err != nil {
		logrus.WithField("file", name).Warn(&ClassificationServiceError{File: name, Err: err})
		return model.ColumnMapping{}
	}
	return m
}
