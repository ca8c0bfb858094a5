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
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/delight-co/finest-grained-auth-proxy/internal/config"
	"github.com/delight-co/finest-grained-auth-proxy/internal/httpclient"
	"github.com/delight-co/finest-grained-auth-proxy/internal/plugin"
	"github.com/delight-co/finest-grained-auth-proxy/internal/secret"
)

const healthCheckTimeout = 10 * time.Second

// healthCheck implements spec.md 4.11's GitHub probe: GET /user per
// configured credential, mapping status and rate-limit headers into a
// status record.
func healthCheck(cfg config.Plugin) []plugin.StatusRecord {
	pc := pluginConfig(cfg)
	records := make([]plugin.StatusRecord, 0, len(cfg.Credentials))
	for _, cred := range cfg.Credentials {
		records = append(records, probeCredential(cred, pc))
	}
	return records
}

func probeCredential(cred config.Credential, pc Config) plugin.StatusRecord {
	rec := plugin.StatusRecord{
		"masked_token": secret.MaskValue(cred.Token, secret.DefaultMaskPrefix),
		"resources":    cred.Resources,
	}
	if cred.Token == "" {
		rec["valid"] = false
		rec["error"] = "no token configured"
		return rec
	}

	ctx, cancel := context.WithTimeout(context.Background(), healthCheckTimeout)
	defer cancel()

	apiBase := defaultAPIBase
	if pc.UpstreamBase != "" && pc.UpstreamBase != defaultUpstreamBase {
		apiBase = pc.UpstreamBase + "/api/v3"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiBase+"/user", nil)
	if err != nil {
		rec["valid"] = false
		rec["error"] = err.Error()
		return rec
	}
	req.Header.Set("Authorization", "Bearer "+cred.Token)
	req.Header.Set("Accept", acceptV3)
	req.Header["X-GitHub-Api-Version"] = []string{githubAPIVersion}

	client := httpclient.GetOrNew(healthCheckTimeout)
	resp, err := client.Do(req)
	if err != nil {
		rec["valid"] = false
		rec["error"] = err.Error()
		return rec
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		rec["valid"] = false
		rec["error"] = fmt.Sprintf("HTTP %d: %s", resp.StatusCode, string(body))
		return rec
	}

	var user struct {
		Login string `json:"login"`
	}
	_ = decodeJSONBody(resp, &user)

	rec["valid"] = true
	rec["user"] = user.Login
	rec["scopes"] = resp.Header.Get("X-OAuth-Scopes")
	rec["rate_limit_remaining"] = resp.Header.Get("X-RateLimit-Remaining")
	return rec
}
