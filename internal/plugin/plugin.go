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

// Package plugin defines the plugin capability contract from spec.md
// section 4.6 and the registry from 4.7, grounded on prow/plugins/plugins.go's
// registration pattern (there: package-level maps keyed by plugin name,
// populated by Register* calls; here: a single Registry instantiating one
// configured constructor per plugin name).
package plugin

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/delight-co/finest-grained-auth-proxy/internal/config"
	"github.com/delight-co/finest-grained-auth-proxy/internal/executor"
)

// CommandResult is what an intercepted command handler returns. Absent
// (Handled == false) means "fall through to the wrapped subprocess", per
// spec.md's Fallthrough glossary entry.
type CommandResult struct {
	Handled bool
	Result  executor.Result
}

// NotHandled is the sentinel "fall through" result every command handler
// returns when it declines this particular invocation.
var NotHandled = CommandResult{Handled: false}

// Handled wraps a result as an intercepted (non-fallthrough) response.
func Handled(res executor.Result) CommandResult {
	return CommandResult{Handled: true, Result: res}
}

// CommandHandler implements one intercepted first-argument command.
// args excludes the command word itself (e.g. for "issue edit 1 --old a
// --new b", args is ["edit", "1", "--old", "a", "--new", "b"] when "issue"
// is the command key, or ["1", "--old", ...] when "edit" is nested a level
// deeper — each plugin owns how it subdivides its own command tree).
type CommandHandler func(args []string, resourceStr string, cred *Credential) CommandResult

// Route is one HTTP route a plugin contributes beyond /cli, /health and
// /auth/status (spec.md 4.10's git smart-HTTP proxy is the only one named
// in this spec).
type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
}

// StatusRecord is one credential's health-check result, per spec.md's
// Auth-status envelope (section 3).
type StatusRecord map[string]interface{}

// Credential is what a plugin's SelectCredential hands back to the router:
// the matched config entry plus the env overlay to spawn the subprocess
// with, precomputed here because only the owning plugin knows which env
// vars its wrapped CLI expects (GH_TOKEN vs GOG_KEYRING_PASSWORD).
type Credential struct {
	Entry config.Credential
	Env   map[string]string
}

// Plugin is the contract every plugin type must satisfy.
type Plugin interface {
	// Name is the stable identifier used as the config key.
	Name() string
	// Tools is the external binary names this plugin handles.
	Tools() []string
	// SelectCredential implements spec.md 4.5 for this plugin's
	// plugin-specific preconditions and secret field.
	SelectCredential(resourceStr string, cfg config.Plugin) (*Credential, bool)
}

// CommandProvider is the optional capability for plugins that intercept
// some first-argument commands instead of always falling through.
type CommandProvider interface {
	Commands() map[string]CommandHandler
}

// RouteProvider is the optional capability for plugins that contribute
// extra HTTP routes (the GitHub plugin's git smart-HTTP proxy).
type RouteProvider interface {
	Routes(cfg config.Plugin) []Route
}

// HealthProvider is the optional capability for plugins that can report
// per-credential health status for /auth/status.
type HealthProvider interface {
	HealthCheck(cfg config.Plugin) []StatusRecord
}

// Constructor builds a plugin instance. Registered constructors are only
// invoked for plugin names actually present in the loaded config, per
// spec.md 4.7's "discovery is config-driven".
type Constructor func() Plugin

// Registry is the in-process catalog of plugin types (C6). Duplicate
// registration of the same constructor under the same name is idempotent;
// two different constructors claiming the same name is an error, mirroring
// spec.md 4.7.
type Registry struct {
	constructors map[string]Constructor
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{constructors: map[string]Constructor{}}
}

// Register adds a plugin constructor under name. Calling it again with a
// constructor for a different plugin name collision is an error.
func (r *Registry) Register(name string, ctor Constructor) error {
	if existing, ok := r.constructors[name]; ok {
		// Compare the instantiated plugin's own Name() as a cheap way to
		// tell "the same registration repeated" from "two plugin classes
		// fighting over one config key" without requiring Constructor to
		// be comparable.
		if existing().Name() == ctor().Name() {
			return nil
		}
		return fmt.Errorf("plugin name %q already registered to a different plugin class", name)
	}
	r.constructors[name] = ctor
	return nil
}

// Instantiate builds one Plugin per key present in cfg.Plugins that also
// has a registered constructor. Plugins named in config but unknown to the
// registry are ignored, per spec.md 4.7 ("Unknown plugins are ignored").
func (r *Registry) Instantiate(cfg *config.Config) (map[string]Plugin, error) {
	out := make(map[string]Plugin, len(cfg.Plugins))
	for name := range cfg.Plugins {
		ctor, ok := r.constructors[name]
		if !ok {
			continue
		}
		out[name] = ctor()
	}
	return out, nil
}

// DecodePluginConfig is a small helper plugins use to pull their own
// plugin-specific fields (beyond Credentials) out of config.Plugin's raw
// bytes into a plugin-specific struct.
func DecodePluginConfig(cfg config.Plugin, into interface{}) error {
	if len(cfg.RawConfig) == 0 {
		return nil
	}
	return json.Unmarshal(cfg.RawConfig, into)
}
