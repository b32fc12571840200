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

// Package commissions reconciles carrier commission statements into a single
// ledger and derives per-policy financial health from it.
package commissions

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"

	"github.com/jerry-enebeli/commissions/config"
	"github.com/jerry-enebeli/commissions/database"
	"github.com/jerry-enebeli/commissions/internal/cache"
	"github.com/jerry-enebeli/commissions/internal/classifier"
	"github.com/jerry-enebeli/commissions/internal/files"
	redlock "github.com/jerry-enebeli/commissions/internal/lock"
	redis_db "github.com/jerry-enebeli/commissions/internal/redis-db"
	"github.com/jerry-enebeli/commissions/ledger"
	"github.com/jerry-enebeli/commissions/mapping"
	"github.com/jerry-enebeli/commissions/model"
)

var tracer = otel.Tracer("commissions")

// ColumnClassifier suggests a ColumnMapping for an unfamiliar statement layout.
type ColumnClassifier interface {
	Classify(ctx context.Context, req classifier.Request) (model.ColumnMapping, error)
}

// Engine wires the import pipeline to the ledger. It is safe for concurrent
// use; merges are serialized by the underlying Book.
type Engine struct {
	store      database.BlobStore
	book       *ledger.Book
	normalizer *mapping.Normalizer
	mappings   *MappingStore
	classifier ColumnClassifier
	extractor  files.TextExtractor
	now        func() time.Time
	bookOpts   []ledger.BookOption
	closers    []io.Closer
}

type Option func(*Engine)

func WithClassifier(c ColumnClassifier) Option {
	return func(e *Engine) { e.classifier = c }
}

func WithExtractor(x files.TextExtractor) Option {
	return func(e *Engine) { e.extractor = x }
}

// WithClock replaces time.Now, which supplies the default payment date.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func WithBookOptions(opts ...ledger.BookOption) Option {
	return func(e *Engine) { e.bookOpts = append(e.bookOpts, opts...) }
}

// NewEngine builds an engine over store. Call Load before first use to read
// the persisted ledger eagerly; otherwise it is read on the first merge.
func NewEngine(store database.BlobStore, registry mapping.Registry, opts ...Option) *Engine {
	e := &Engine{
		store:      store,
		normalizer: mapping.NewNormalizer(registry),
		mappings:   NewMappingStore(store),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.book = ledger.NewBook(store, e.normalizer, e.bookOpts...)
	return e
}

// New builds an engine from configuration: the configured blob store, the
// registry, the classification and extraction services, and a Redis writer
// lock when Redis is configured.
func New(ctx context.Context, cnf *config.Configuration) (*Engine, error) {
	store, err := database.NewDataSource(cnf)
	if err != nil {
		return nil, fmt.Errorf("error opening data source: %w", err)
	}

	registry, err := RegistryFromConfig(cnf.Registry)
	if err != nil {
		return nil, err
	}

	var opts []Option
	var closers []io.Closer
	if c, ok := store.(io.Closer); ok {
		closers = append(closers, c)
	}

	if cnf.Classifier.Url != "" {
		mappingCache, err := cache.NewCache(cnf)
		if err != nil {
			logrus.Warnf("classifier cache disabled: %v", err)
		}
		opts = append(opts, WithClassifier(classifier.NewClient(cnf.Classifier, mappingCache)))
	}

	if extractor := files.NewHTTPExtractor(cnf.Extractor); extractor != nil {
		opts = append(opts, WithExtractor(extractor))
	}

	bookOpts := []ledger.BookOption{ledger.WithHistoryDepth(cnf.Ledger.HistoryDepth)}
	if cnf.Redis.Dns != "" {
		client, err := redis_db.NewRedisClient([]string{cnf.Redis.Dns}, cnf.Redis.SkipTLSVerify)
		if err != nil {
			return nil, fmt.Errorf("error connecting to redis: %w", err)
		}
		closers = append(closers, client)
		timeout := time.Duration(cnf.Ledger.LockTimeout) * time.Second
		bookOpts = append(bookOpts, ledger.WithLock(redlock.NewLocker(client.Client(), cnf.ProjectKey()+":ledger-lock", timeout, timeout)))
	}
	opts = append(opts, WithBookOptions(bookOpts...))

	e := NewEngine(store, registry, opts...)
	e.closers = closers
	if err := e.Load(ctx); err != nil {
		_ = e.Close()
		return nil, err
	}
	return e, nil
}

// RegistryFromConfig merges the YAML registry file and the inline tables
// over the built-in defaults, in that order.
func RegistryFromConfig(cnf config.RegistryConfig) (mapping.Registry, error) {
	registry := mapping.DefaultRegistry()
	if cnf.File != "" {
		fromFile, err := mapping.LoadRegistryFile(cnf.File)
		if err != nil {
			return mapping.Registry{}, err
		}
		registry = fromFile
	}
	return registry.Merge(mapping.Registry{
		Medicare:               cnf.Medicare,
		ACA:                    cnf.ACA,
		Life:                   cnf.Life,
		CommissionTypeKeywords: cnf.CommissionTypeKeywords,
		PolicyTypeKeywords:     cnf.PolicyTypeKeywords,
	}), nil
}

// Load reads the persisted ledger.
func (e *Engine) Load(ctx context.Context) error {
	return e.book.Load(ctx)
}

// Close releases the store and Redis connections opened by New.
func (e *Engine) Close() error {
	var firstErr error
	for _, c := range e.closers {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (e *Engine) Book() *ledger.Book {
	return e.book
}

func (e *Engine) Normalizer() *mapping.Normalizer {
	return e.normalizer
}

func (e *Engine) Mappings() *MappingStore {
	return e.mappings
}

// Carriers lists the carriers the registry classifies.
func (e *Engine) Carriers() []string {
	return e.normalizer.Registry().Carriers()
}

func (e *Engine) today() string {
	return e.now().Format("2006-01-02")
}
