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

package files

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jerry-enebeli/commissions/config"
	"github.com/jerry-enebeli/commissions/internal/request"
)

// HTTPExtractor posts the raw document to a text extraction service and
// expects {"text": "..."} back.
type HTTPExtractor struct {
	url     string
	apiKey  string
	timeout time.Duration
}

type extractResponse struct {
	Text string `json:"text"`
}

// NewHTTPExtractor returns nil when no service URL is configured.
func NewHTTPExtractor(cfg config.ExtractorConfig) *HTTPExtractor {
	if cfg.Url == "" {
		return nil
	}
	return &HTTPExtractor{
		url:     cfg.Url,
		apiKey:  cfg.ApiKey,
		timeout: time.Duration(cfg.Timeout) * time.Second,
	}
}

func (e *HTTPExtractor) ExtractText(ctx context.Context, name, mimeType string, data []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.url, bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mimeType)
	req.Header.Set("X-Filename", name)
	if e.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+e.apiKey)
	}

	var resp extractResponse
	if _, err := request.Call(req, e.timeout, &resp); err != nil {
		return "", fmt.Errorf("text extraction failed: %w", err)
	}
	if resp.Text == "" {
		return "", errors.New("text extraction returned no text")
	}
	return resp.Text, nil
}
