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

// Package classifier calls the external column classification service that
// suggests a ColumnMapping for an unfamiliar statement layout.
package classifier

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/jerry-enebeli/commissions/config"
	"github.com/jerry-enebeli/commissions/internal/cache"
	"github.com/jerry-enebeli/commissions/internal/request"
	"github.com/jerry-enebeli/commissions/model"
)

var tracer = otel.Tracer("commissions.classifier")

// ErrDisabled is returned when no service URL is configured.
var ErrDisabled = errors.New("column classifier is not configured")

// Request is the payload sent to the service.
type Request struct {
	Headers        []string          `json:"headers"`
	SampleRow      map[string]string `json:"sampleRow"`
	IsMultiSection bool              `json:"isMultiSection"`
}

// Client is the HTTP adapter for the classification service.
type Client struct {
	url        string
	apiKey     string
	timeout    time.Duration
	maxRetries int
	cache      cache.Cache
	cacheTTL   time.Duration
}

// NewClient builds a client from configuration. c may be nil to disable
// caching of accepted mappings.
func NewClient(cfg config.ClassifierConfig, c cache.Cache) *Client {
	ttl := time.Duration(cfg.CacheTTL) * time.Second
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Client{
		url:        cfg.Url,
		apiKey:     cfg.ApiKey,
		timeout:    time.Duration(cfg.Timeout) * time.Second,
		maxRetries: cfg.MaxRetries,
		cache:      c,
		cacheTTL:   ttl,
	}
}

// Signature identifies a header layout for caching.
func Signature(req Request) string {
	h := sha256.New()
	h.Write([]byte(strings.Join(req.Headers, "\x1f")))
	if req.IsMultiSection {
		h.Write([]byte{1})
	}
	return "classifier:" + hex.EncodeToString(h.Sum(nil))
}

// Classify asks the service for a mapping. Every mapped column in the result
// is one of req.Headers or a hidden metadata key.
func (c *Client) Classify(ctx context.Context, req Request) (model.ColumnMapping, error) {
	if c.url == "" {
		return model.ColumnMapping{}, ErrDisabled
	}

	ctx, span := tracer.Start(ctx, "classifier.classify")
	defer span.End()
	span.SetAttributes(attribute.Int("classifier.headers", len(req.Headers)))

	key := Signature(req)
	if c.cache != nil {
		var cached model.ColumnMapping
		found, err := c.cache.Get(ctx, key, &cached)
		if err != nil {
			logrus.Warnf("classifier cache read failed: %v", err)
		} else if found {
			span.AddEvent("cache hit")
			return cached, nil
		}
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), uint64(c.maxRetries)), ctx)
	mapping, err := backoff.RetryWithData(func() (model.ColumnMapping, error) {
		return c.call(ctx, req)
	}, policy)
	if err != nil {
		span.RecordError(err)
		return model.ColumnMapping{}, err
	}

	if c.cache != nil && !mapping.IsEmpty() {
		if err := c.cache.Set(ctx, key, mapping, c.cacheTTL); err != nil {
			logrus.Warnf("classifier cache write failed: %v", err)
		}
	}
	return mapping, nil
}

func (c *Client) call(ctx context.Context, req Request) (model.ColumnMapping, error) {
	payload, err := request.ToJsonReq(req)
	if err != nil {
		return model.ColumnMapping{}, backoff.Permanent(err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, payload)
	if err != nil {
		return model.ColumnMapping{}, backoff.Permanent(err)
	}
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	_, body, err := request.Send(httpReq, c.timeout)
	if err != nil {
		var statusErr *request.StatusError
		if errors.As(err, &statusErr) && statusErr.StatusCode < 500 && statusErr.StatusCode != http.StatusTooManyRequests {
			return model.ColumnMapping{}, backoff.Permanent(err)
		}
		return model.ColumnMapping{}, err
	}

	fields, err := decode(body)
	if err != nil {
		return model.ColumnMapping{}, backoff.Permanent(fmt.Errorf("invalid classifier response: %w", err))
	}
	return Snap(fields, req.Headers), nil
}
