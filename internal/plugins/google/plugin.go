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

// Package google implements the Google Workspace plugin: credential
// selection over a keyring password and optional account, and a health
// probe that shells out to the wrapped CLI's "auth list" subcommand
// (spec.md component C15).
//
// Unlike the GitHub plugin, Google has no intercepted commands or extra
// routes — every invocation falls through to the subprocess executor, so
// this plugin implements only plugin.Plugin and plugin.HealthProvider.
package google

import (
	"github.com/delight-co/finest-grained-auth-proxy/internal/config"
	"github.com/delight-co/finest-grained-auth-proxy/internal/credential"
	"github.com/delight-co/finest-grained-auth-proxy/internal/plugin"
)

// PluginName is the config key and stable plugin identifier.
const PluginName = "google"

// Plugin implements plugin.Plugin and plugin.HealthProvider for the Google
// Workspace CLI.
type Plugin struct{}

// New constructs the Google plugin. Registered with the plugin registry
// under PluginName.
func New() plugin.Plugin { return &Plugin{} }

func (p *Plugin) Name() string { return PluginName }

// Tools lists the external binary name this plugin handles: the Google
// Workspace CLI, "gog".
func (p *Plugin) Tools() []string { return []string{"gog"} }

func hasKeyringPassword(c config.Credential) bool { return c.KeyringPassword != "" }

// SelectCredential implements spec.md 4.5 for Google: a credential is
// considered only if it carries a non-empty keyring_password. The env
// overlay carries GOG_KEYRING_PASSWORD always and GOG_ACCOUNT when the
// credential names one, per spec.md section 6's environment variable table.
func (p *Plugin) SelectCredential(resourceStr string, cfg config.Plugin) (*plugin.Credential, bool) {
	entry, ok := credential.Select(resourceStr, cfg.Credentials, hasKeyringPassword)
	if !ok {
		return nil, false
	}
	overlay := map[string]string{"GOG_KEYRING_PASSWORD": entry.KeyringPassword}
	if entry.Account != "" {
		overlay["GOG_ACCOUNT"] = entry.Account
	}
	return &plugin.Credential{Entry: *entry, Env: overlay}, true
}

// HealthCheck implements C15's probe.
func (p *Plugin) HealthCheck(cfg config.Plugin) []plugin.StatusRecord {
	return healthCheck(cfg)
}
