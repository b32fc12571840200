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
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"

	"github.com/jerry-enebeli/commissions/database"
	"github.com/jerry-enebeli/commissions/model"
)

// MappingsKey is the blob key saved carrier mappings live under.
const MappingsKey = "mappings"

// MappingStore keeps one ColumnMapping per carrier so repeat statements from
// the same carrier import without asking the classifier.
type MappingStore struct {
	mu    sync.Mutex
	store database.BlobStore
	key   string
}

func NewMappingStore(store database.BlobStore) *MappingStore {
	return &MappingStore{store: store, key: MappingsKey}
}

// All returns every saved mapping keyed by carrier.
func (m *MappingStore) All(ctx context.Context) (map[string]model.ColumnMapping, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.load(ctx)
}

// Carriers lists the carriers with a saved mapping, sorted.
func (m *MappingStore) Carriers(ctx context.Context) ([]string, error) {
	all, err := m.All(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(all))
	for carrier := range all {
		out = append(out, carrier)
	}
	sort.Strings(out)
	return out, nil
}

// Get returns the mapping saved for carrier.
func (m *MappingStore) Get(ctx context.Context, carrier string) (model.ColumnMapping, bool, error) {
	all, err := m.All(ctx)
	if err != nil {
		return model.ColumnMapping{}, false, err
	}
	mapping, ok := all[strings.TrimSpace(carrier)]
	return mapping, ok, nil
}

// Save stores mapping for carrier, replacing any earlier one. The amount
// column must be mapped.
func (m *MappingStore) Save(ctx context.Context, carrier string, mapping model.ColumnMapping) error {
	carrier = strings.TrimSpace(carrier)
	err := validation.Errors{
		"carrier": validation.Validate(carrier, validation.Required),
		"amount":  validation.Validate(mapping.Amount, validation.Required),
	}.Filter()
	if err != nil {
		return fmt.Errorf("invalid mapping: %w", err)
	}

	return m.update(ctx, func(all map[string]model.ColumnMapping) error {
		all[carrier] = mapping
		return nil
	})
}

// SaveAll stores several mappings in one write.
func (m *MappingStore) SaveAll(ctx context.Context, mappings map[string]model.ColumnMapping) (int, error) {
	for carrier, mapping := range mappings {
		if strings.TrimSpace(carrier) == "" || mapping.Amount == "" {
			return 0, fmt.Errorf("invalid mapping for %q: carrier and amount are required", carrier)
		}
	}
	err := m.update(ctx, func(all map[string]model.ColumnMapping) error {
		for carrier, mapping := range mappings {
			all[strings.TrimSpace(carrier)] = mapping
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(mappings), nil
}

// Delete removes the mapping saved for carrier.
func (m *MappingStore) Delete(ctx context.Context, carrier string) error {
	carrier = strings.TrimSpace(carrier)
	return m.update(ctx, func(all map[string]model.ColumnMapping) error {
		if _, ok := all[carrier]; !ok {
			return fmt.Errorf("%s: %w", carrier, ErrMappingNotFound)
		}
		delete(all, carrier)
		return nil
	})
}

func (m *MappingStore) update(ctx context.Context, fn func(map[string]model.ColumnMapping) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	all, err := m.load(ctx)
	if err != nil {
		return err
	}
	if err := fn(all); err != nil {
		return err
	}

	raw, err := json.Marshal(all)
	if err != nil {
		return err
	}
	if err := m.store.Put(ctx, m.key, raw); err != nil {
		return fmt.Errorf("error saving mappings: %w", err)
	}
	return nil
}

func (m *MappingStore) load(ctx context.Context) (map[string]model.ColumnMapping, error) {
	all := map[string]model.ColumnMapping{}
	raw, err := m.store.Get(ctx, m.key)
	if errors.Is(err, database.ErrNotFound) {
		return all, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error loading mappings: %w", err)
	}
	if err := json.Unmarshal(raw, &all); err != nil {
		return nil, fmt.Errorf("error decoding mappings: %w", err)
	}
	return all, nil
}

// LoadMappingsFile reads carrier mappings from YAML, keyed by carrier.
func LoadMappingsFile(path string) (map[string]model.ColumnMapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading mappings file: %w", err)
	}
	var mappings map[string]model.ColumnMapping
	if err := yaml.Unmarshal(data, &mappings); err != nil {
		return nil, fmt.Errorf("error decoding mappings file: %w", err)
	}
	return mappings, nil
}
