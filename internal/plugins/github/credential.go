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
	"github.com/delight-co/finest-grained-auth-proxy/internal/config"
	"github.com/delight-co/finest-grained-auth-proxy/internal/credential"
	"github.com/delight-co/finest-grained-auth-proxy/internal/plugin"
)

func hasToken(c config.Credential) bool { return c.Token != "" }

// selectCredential implements spec.md 4.5 for the GitHub plugin: only
// credentials carrying a non-empty Token are considered, and the resulting
// env overlay carries GH_TOKEN (and GH_HOST when the upstream isn't the
// default github.com, per spec.md's external-interfaces table).
func selectCredential(resourceStr string, creds []config.Credential, cfg Config) (*plugin.Credential, bool) {
	entry, ok := credential.Select(resourceStr, creds, hasToken)
	if !ok {
		return nil, false
	}
	overlay := map[string]string{"GH_TOKEN": entry.Token}
	if host := apiHost(cfg); host != "" {
		overlay["GH_HOST"] = host
	}
	return &plugin.Credential{Entry: *entry, Env: overlay}, true
}

// apiHost returns the GH_HOST override, empty when the upstream is the
// default github.com (gh itself defaults there, so no override is needed).
func apiHost(cfg Config) string {
	if cfg.UpstreamBase == "" || cfg.UpstreamBase == defaultUpstreamBase {
		return ""
	}
	return cfg.UpstreamBase
}
