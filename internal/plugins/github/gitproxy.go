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
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/delight-co/finest-grained-auth-proxy/internal/config"
	"github.com/delight-co/finest-grained-auth-proxy/internal/plugin"
)

// gitProxyTimeout is the fixed 60s timeout spec.md 4.10 assigns the git
// smart-HTTP reverse proxy, separate from the configurable cli/http
// timeouts since this path never touches the subprocess executor.
const gitProxyTimeout = 60 * time.Second

const gitUserAgent = "git/2.40.0"

// gitProxyRoutes contributes the two routes of spec.md 4.10: GET and POST
// on /git/{owner}/{repo}.git/{rest...}.
func gitProxyRoutes(cfg config.Plugin) []plugin.Route {
	pc := pluginConfig(cfg)
	handler := gitProxyHandler(cfg, pc)
	return []plugin.Route{
		{Method: http.MethodGet, Pattern: "/git/{owner}/{repo}.git/{rest...}", Handler: handler},
		{Method: http.MethodPost, Pattern: "/git/{owner}/{repo}.git/{rest...}", Handler: handler},
	}
}

func gitProxyHandler(cfg config.Plugin, pc Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner := r.PathValue("owner")
		repo := r.PathValue("repo")
		rest := r.PathValue("rest")
		resourceStr := owner + "/" + repo

		cred, ok := selectCredential(resourceStr, cfg.Credentials, pc)
		if !ok {
			http.Error(w, "No credential for git on "+resourceStr, http.StatusForbidden)
			return
		}

		upstreamURL := fmt.Sprintf("%s/%s/%s.git/%s", pc.upstreamBase(), owner, repo, rest)
		if r.URL.RawQuery != "" {
			upstreamURL += "?" + r.URL.RawQuery
		}

		ctx, cancel := context.WithTimeout(r.Context(), gitProxyTimeout)
		defer cancel()

		req, err := http.NewRequestWithContext(ctx, r.Method, upstreamURL, r.Body)
		if err != nil {
			http.Error(w, "failed to build upstream request", http.StatusBadGateway)
			return
		}
		for _, h := range []string{"Content-Type", "Accept", "Content-Encoding"} {
			if v := r.Header.Get(h); v != "" {
				req.Header.Set(h, v)
			}
		}
		auth := base64.StdEncoding.EncodeToString([]byte("x-access-token:" + cred.Entry.Token))
		req.Header.Set("Authorization", "Basic "+auth)
		req.Header.Set("User-Agent", gitUserAgent)

		client := &http.Client{Timeout: gitProxyTimeout}
		resp, err := client.Do(req)
		if err != nil {
			http.Error(w, "upstream request failed", http.StatusBadGateway)
			return
		}
		defer resp.Body.Close()

		if ct := resp.Header.Get("Content-Type"); ct != "" {
			w.Header().Set("Content-Type", ct)
		}
		if cc := resp.Header.Get("Cache-Control"); cc != "" {
			w.Header().Set("Cache-Control", cc)
		}
		w.WriteHeader(resp.StatusCode)
		_, _ = io.Copy(w, resp.Body)
	}
}
