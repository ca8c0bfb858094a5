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

// Package github implements the GitHub plugin: credential selection,
// intercepted issue/pr body-edit commands, the discussion and sub-issue
// GraphQL command trees, the git smart-HTTP reverse proxy, and the health
// probe — spec.md sections 4.8 through 4.11 (components C9-C14).
//
// Grounded on prow/github/client.go (REST request shape, header
// construction, rate-limit header names) and
// _examples/original_source/fgap/plugins/github/*.py for the exact
// subcommand surface spec.md only summarizes.
package github

import (
	"github.com/delight-co/finest-grained-auth-proxy/internal/config"
	"github.com/delight-co/finest-grained-auth-proxy/internal/plugin"
)

// PluginName is the config key and stable plugin identifier.
const PluginName = "github"

// Config is the GitHub plugin's plugin-specific configuration, decoded out
// of config.Plugin.RawConfig. UpstreamBase is the supplemental field
// recovered from original_source/ (SPEC_FULL.md section 4): the git proxy's
// upstream is configurable rather than hard-coded to github.com.
type Config struct {
	UpstreamBase string `json:"upstream_base,omitempty"`
}

const defaultUpstreamBase = "https://github.com"
const defaultAPIBase = "https://api.github.com"
const defaultGraphQLEndpoint = "https://api.github.com/graphql"

func (c Config) upstreamBase() string {
	if c.UpstreamBase != "" {
		return c.UpstreamBase
	}
	return defaultUpstreamBase
}

// Plugin implements plugin.Plugin, plugin.CommandProvider,
// plugin.RouteProvider and plugin.HealthProvider for GitHub.
type Plugin struct{}

// New constructs the GitHub plugin. Registered with the plugin registry
// under PluginName.
func New() plugin.Plugin { return &Plugin{} }

func (p *Plugin) Name() string { return PluginName }

// Tools lists the external binary names this plugin handles. Only "gh" is
// named in spec.md; kept as a single-element slice so a future CLI rename
// doesn't require touching callers that range over it.
func (p *Plugin) Tools() []string { return []string{"gh"} }

// SelectCredential implements spec.md 4.5: a GitHub credential is
// considered only if it carries a non-empty Token.
func (p *Plugin) SelectCredential(resourceStr string, cfg config.Plugin) (*plugin.Credential, bool) {
	return selectCredential(resourceStr, cfg.Credentials, pluginConfig(cfg))
}

// Commands returns the intercepted first-argument command table: "issue",
// "pr", "discussion", "sub-issue". Everything else falls through to the gh
// subprocess.
func (p *Plugin) Commands() map[string]plugin.CommandHandler {
	return map[string]plugin.CommandHandler{
		"issue":      issueCommand,
		"pr":         prCommand,
		"discussion": discussionCommand,
		"sub-issue":  subIssueCommand,
	}
}

// Routes contributes the git smart-HTTP reverse proxy routes (C13).
func (p *Plugin) Routes(cfg config.Plugin) []plugin.Route {
	return gitProxyRoutes(cfg)
}

// HealthCheck implements C14: GET /user per credential.
func (p *Plugin) HealthCheck(cfg config.Plugin) []plugin.StatusRecord {
	return healthCheck(cfg)
}

func pluginConfig(cfg config.Plugin) Config {
	var c Config
	_ = plugin.DecodePluginConfig(cfg, &c)
	return c
}
