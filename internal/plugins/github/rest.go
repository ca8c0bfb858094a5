/*
Copyright 2026 The finest-grained-auth-proxy Authors.

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

package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/delight-co/finest-grained-auth-proxy/internal/httpclient"
)

const (
	acceptV3 = "application/vnd.github.v3+json"
	// githubAPIVersion matches the X-GitHub-Api-Version header prow/github/client.go
	// sends on every request.
	githubAPIVersion = "2022-11-28"
)

// restError is returned when the GitHub REST API answers with a non-2xx
// status; its Error() is the message that ends up in the command's stderr
// per spec.md's error-handling table ("Upstream REST non-2xx").
type restError struct {
	StatusCode int
	Body       string
}

func (e *restError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Body)
}

// restClient is a minimal bearer-token REST client grounded on
// prow/github/client.go's doRequest: Authorization header construction,
// the standard Accept media type, and the X-GitHub-Api-Version header.
type restClient struct {
	apiBase string
	token   string
}

func newRESTClient(apiBase, token string) *restClient {
	if apiBase == "" {
		apiBase = defaultAPIBase
	}
	return &restClient{apiBase: apiBase, token: token}
}

func (c *restClient) do(ctx context.Context, method, path string, body interface{}, into interface{}) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.apiBase+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", acceptV3)
	req.Header["X-GitHub-Api-Version"] = []string{githubAPIVersion}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	client := httpclient.GetOrNew(10 * time.Second)
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &restError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}
	if into != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, into); err != nil {
			return fmt.Errorf("decode response body: %w", err)
		}
	}
	return nil
}

func (c *restClient) get(ctx context.Context, path string, into interface{}) error {
	return c.do(ctx, http.MethodGet, path, nil, into)
}

func (c *restClient) patch(ctx context.Context, path string, body interface{}, into interface{}) error {
	return c.do(ctx, http.MethodPatch, path, body, into)
}

// decodeJSONBody decodes a response body after the caller has branched on
// the status code itself (the health probe decodes JSON only on success and
// reads the raw body as error text otherwise, unlike do's
// always-read-then-branch shape).
func decodeJSONBody(resp *http.Response, into interface{}) error {
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, into)
}
