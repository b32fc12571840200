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

package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/jerry-enebeli/commissions/database"
	"github.com/jerry-enebeli/commissions/dedupe"
	"github.com/jerry-enebeli/commissions/model"
)

// DefaultKey is the blob key the book persists under.
const DefaultKey = "ledger"

var tracer = otel.Tracer("commissions.ledger")

// Mutex serializes writers across processes. Acquire returns a release func.
type Mutex interface {
	Acquire(ctx context.Context) (func(context.Context) error, error)
}

// Book owns the current ledger and its undo history. All merges go through
// it one at a time; each is persisted before it becomes visible.
type Book struct {
	mu         sync.Mutex
	store      database.BlobStore
	key        string
	classifier BusinessClassifier
	lock       Mutex
	depth      int

	ledger  Ledger
	history History
	loaded  bool
}

type BookOption func(*Book)

// WithLock makes every merge hold m and reload the stored state first.
func WithLock(m Mutex) BookOption {
	return func(b *Book) { b.lock = m }
}

func WithKey(key string) BookOption {
	return func(b *Book) { b.key = key }
}

func WithHistoryDepth(depth int) BookOption {
	return func(b *Book) { b.depth = depth }
}

func NewBook(store database.BlobStore, classifier BusinessClassifier, opts ...BookOption) *Book {
	b := &Book{
		store:      store,
		key:        DefaultKey,
		classifier: classifier,
		depth:      DefaultHistoryDepth,
	}
	for _, opt := range opts {
		opt(b)
	}
	b.history = NewHistory(b.depth)
	return b
}

type persistedState struct {
	Records []model.CommissionRecord `json:"records"`
	History []json.RawMessage        `json:"history"`
}

type persistedChange struct {
	Label   string                   `json:"label"`
	Records []model.CommissionRecord `json:"records"`
}

// Load reads the stored ledger and history. A missing blob is an empty book.
func (b *Book) Load(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.load(ctx)
}

func (b *Book) load(ctx context.Context) error {
	raw, err := b.store.Get(ctx, b.key)
	if errors.Is(err, database.ErrNotFound) {
		b.ledger, b.history, b.loaded = Ledger{}, NewHistory(b.depth), true
		return nil
	}
	if err != nil {
		return err
	}

	ledger, history, err := decodeState(raw, b.depth)
	if err != nil {
		return err
	}
	b.ledger, b.history, b.loaded = ledger, history, true
	return nil
}

func decodeState(raw []byte, depth int) (Ledger, History, error) {
	history := NewHistory(depth)

	// a bare array is a ledger saved without history
	if trimmed := bytes.TrimSpace(raw); len(trimmed) > 0 && trimmed[0] == '[' {
		var records []model.CommissionRecord
		if err := json.Unmarshal(trimmed, &records); err != nil {
			return Ledger{}, history, fmt.Errorf("error decoding ledger: %w", err)
		}
		return New(records), history, nil
	}

	var state persistedState
	if err := json.Unmarshal(raw, &state); err != nil {
		return Ledger{}, history, fmt.Errorf("error decoding ledger: %w", err)
	}
	for _, entry := range state.History {
		var change persistedChange
		// older books stored bare snapshots without a label
		if trimmed := bytes.TrimSpace(entry); len(trimmed) > 0 && trimmed[0] == '[' {
			if err := json.Unmarshal(trimmed, &change.Records); err != nil {
				return Ledger{}, history, fmt.Errorf("error decoding ledger history: %w", err)
			}
		} else if err := json.Unmarshal(entry, &change); err != nil {
			return Ledger{}, history, fmt.Errorf("error decoding ledger history: %w", err)
		}
		history = history.Push(change.Label, New(change.Records))
	}
	return New(state.Records), history, nil
}

func encodeState(l Ledger, h History) ([]byte, error) {
	state := persistedState{Records: l.records, History: make([]json.RawMessage, 0, h.Len())}
	if state.Records == nil {
		state.Records = []model.CommissionRecord{}
	}
	for _, c := range h.changes {
		records := c.Before.records
		if records == nil {
			records = []model.CommissionRecord{}
		}
		raw, err := json.Marshal(persistedChange{Label: c.Label, Records: records})
		if err != nil {
			return nil, err
		}
		state.History = append(state.History, raw)
	}
	return json.Marshal(state)
}

// Snapshot returns the current ledger value.
func (b *Book) Snapshot() Ledger {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.ledger
}

// UndoDepth returns how many merges can currently be undone.
func (b *Book) UndoDepth() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.history.Len()
}

// Changes describes the undoable changes, most recent first.
func (b *Book) Changes() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.history.Labels()
}

func countOf(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

func (b *Book) Append(ctx context.Context, candidates []model.DuplicateCandidate, skipDuplicates bool) (AppendResult, error) {
	var result AppendResult
	err := b.mutate(ctx, "append", func(l Ledger) (Ledger, string, error) {
		next, r, err := l.Append(candidates, skipDuplicates)
		result = r
		return next, "imported " + countOf(r.Imported, "record"), err
	})
	return result, err
}

// AppendRecords classifies records against the ledger as it stands under the
// writer lock and appends them. A non-nil check sees the classified
// candidates first and may veto the append by returning an error.
func (b *Book) AppendRecords(ctx context.Context, records []model.CommissionRecord, skipDuplicates bool, check func([]model.DuplicateCandidate) error) ([]model.DuplicateCandidate, AppendResult, error) {
	var candidates []model.DuplicateCandidate
	var result AppendResult
	err := b.mutate(ctx, "append", func(l Ledger) (Ledger, string, error) {
		candidates = dedupe.Classify(records, l.records)
		if check != nil {
			if err := check(candidates); err != nil {
				return l, "", err
			}
		}
		next, r, err := l.Append(candidates, skipDuplicates)
		result = r
		return next, "imported " + countOf(r.Imported, "record"), err
	})
	return candidates, result, err
}

func (b *Book) Edit(ctx context.Context, id int64, patch model.RecordPatch) (model.CommissionRecord, error) {
	var updated model.CommissionRecord
	err := b.mutate(ctx, "edit", func(l Ledger) (Ledger, string, error) {
		next, r, err := l.Edit(id, patch, b.classifier)
		updated = r
		return next, fmt.Sprintf("edited record %d", id), err
	})
	return updated, err
}

func (b *Book) Delete(ctx context.Context, id int64) error {
	return b.mutate(ctx, "delete", func(l Ledger) (Ledger, string, error) {
		next, err := l.Delete(id)
		return next, fmt.Sprintf("deleted record %d", id), err
	})
}

func (b *Book) BulkEdit(ctx context.Context, ids model.IDSet, field, value string) (int, error) {
	var changed int
	err := b.mutate(ctx, "bulk_edit", func(l Ledger) (Ledger, string, error) {
		next, n, err := l.BulkEdit(ids, field, value, b.classifier)
		changed = n
		return next, fmt.Sprintf("set %s on %s", field, countOf(n, "record")), err
	})
	return changed, err
}

func (b *Book) BulkDelete(ctx context.Context, ids model.IDSet) (int, error) {
	var removed int
	err := b.mutate(ctx, "bulk_delete", func(l Ledger) (Ledger, string, error) {
		next, n := l.BulkDelete(ids)
		removed = n
		return next, "deleted " + countOf(n, "record"), nil
	})
	return removed, err
}

// Undo replaces the ledger with the one before the most recent change and
// returns that change's description. There is no redo.
func (b *Book) Undo(ctx context.Context) (string, error) {
	ctx, span := tracer.Start(ctx, "ledger.undo")
	defer span.End()

	var label string
	err := b.withWriter(ctx, func() error {
		change, rest, ok := b.history.Pop()
		if !ok {
			return ErrNothingToUndo
		}
		if err := b.persist(ctx, change.Before, rest); err != nil {
			span.RecordError(err)
			return err
		}
		logrus.WithFields(logrus.Fields{
			"change":    change.Label,
			"records":   change.Before.Len(),
			"remaining": rest.Len(),
		}).Info("ledger restored from undo history")
		b.ledger, b.history = change.Before, rest
		label = change.Label
		return nil
	})
	return label, err
}

func (b *Book) mutate(ctx context.Context, name string, op func(Ledger) (Ledger, string, error)) error {
	ctx, span := tracer.Start(ctx, "ledger."+name)
	defer span.End()

	return b.withWriter(ctx, func() error {
		next, label, err := op(b.ledger)
		if err != nil {
			span.RecordError(err)
			return err
		}

		history := b.history.Push(label, b.ledger)
		if err := b.persist(ctx, next, history); err != nil {
			span.RecordError(err)
			return err
		}
		span.SetAttributes(attribute.Int("ledger.records", next.Len()))
		logrus.WithFields(logrus.Fields{"op": name, "records": next.Len()}).Debug("ledger updated")
		b.ledger, b.history = next, history
		return nil
	})
}

// withWriter runs fn holding the in-process mutex and, when configured, the
// cross-process lock. State is reloaded under the lock so fn sees the latest
// persisted ledger.
func (b *Book) withWriter(ctx context.Context, fn func() error) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.lock != nil {
		release, err := b.lock.Acquire(ctx)
		if err != nil {
			return fmt.Errorf("error acquiring ledger lock: %w", err)
		}
		defer func() {
			if err := release(ctx); err != nil {
				logrus.Warnf("ledger lock release failed: %v", err)
			}
		}()
		if err := b.load(ctx); err != nil {
			return err
		}
	} else if !b.loaded {
		if err := b.load(ctx); err != nil {
			return err
		}
	}

	return fn()
}

func (b *Book) persist(ctx context.Context, l Ledger, h History) error {
	raw, err := encodeState(l, h)
	if err != nil {
		return err
	}
	if err := b.store.Put(ctx, b.key, raw); err != nil {
		return fmt.Errorf("error saving ledger: %w", err)
	}
	return nil
}
