// Package e2e runs the Gherkin acceptance features against the POS HTTP API.
package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// TestContext carries the HTTP client and the last response between steps.
type TestContext struct {
	baseURL    string
	adminToken string
	client     *http.Client
	clear      func(ctx context.Context) error

	lastStatus int
	lastBody   []byte
}

// NewTestContext targets baseURL. clear empties the POS store between
// scenarios; when nil the admin route is used with adminToken.
func NewTestContext(baseURL, adminToken string, clear func(ctx context.Context) error) *TestContext {
	tc := &TestContext{
		baseURL:    strings.TrimRight(baseURL, "/"),
		adminToken: adminToken,
		client:     &http.Client{Timeout: 10 * time.Second},
		clear:      clear,
	}
	if tc.clear == nil {
		tc.clear = tc.clearViaAdmin
	}
	return tc
}

// Clear removes every POS.
func (tc *TestContext) Clear(ctx context.Context) error {
	return tc.clear(ctx)
}

func (tc *TestContext) clearViaAdmin(ctx context.Context) error {
	if err := tc.do(ctx, http.MethodDelete, "/admin/pos", nil, map[string]string{"X-Admin-Token": tc.adminToken}); err != nil {
		return err
	}
	if tc.lastStatus != http.StatusNoContent {
		return fmt.Errorf("clear: expected 204, got %d: %s", tc.lastStatus, tc.lastBody)
	}
	return nil
}

func (tc *TestContext) GET(ctx context.Context, path string) error {
	return tc.do(ctx, http.MethodGet, path, nil, nil)
}

func (tc *TestContext) POST(ctx context.Context, path string, body any) error {
	return tc.do(ctx, http.MethodPost, path, body, nil)
}

func (tc *TestContext) PUT(ctx context.Context, path string, body any) error {
	return tc.do(ctx, http.MethodPut, path, body, nil)
}

// LastStatus returns the status code of the most recent response.
func (tc *TestContext) LastStatus() int {
	return tc.lastStatus
}

// DecodeLast unmarshals the most recent response body into v.
func (tc *TestContext) DecodeLast(v any) error {
	if err := json.Unmarshal(tc.lastBody, v); err != nil {
		return fmt.Errorf("decode response %q: %w", tc.lastBody, err)
	}
	return nil
}

// ExpectStatus fails unless the most recent response had the given status.
func (tc *TestContext) ExpectStatus(status int) error {
	if tc.lastStatus != status {
		return fmt.Errorf("expected status %d, got %d: %s", status, tc.lastStatus, tc.lastBody)
	}
	return nil
}

func (tc *TestContext) do(ctx context.Context, method, path string, body any, headers map[string]string) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, tc.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := tc.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	tc.lastStatus = resp.StatusCode
	tc.lastBody, err = io.ReadAll(resp.Body)
	return err
}
