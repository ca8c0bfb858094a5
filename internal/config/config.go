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

// Package config defines the on-disk configuration tree for the proxy and
// the strict file-mode check required before it is trusted.
//
// Parsing (lenient JSON-with-comments) is an external collaborator per
// spec.md section 1; this package holds the shape the loader populates, the
// secret struct tags on it, and the file-mode check (CheckFileMode). The
// secret collection itself lives in internal/secret.
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// requiredMode is the only file mode the proxy will trust a config file at.
// Anything that grants group or other bits is rejected at load time.
const requiredMode = 0o600

// Config is the root of the on-disk configuration tree.
type Config struct {
	Port     int               `json:"port,omitempty"`
	Timeouts Timeouts          `json:"timeouts,omitempty"`
	Plugins  map[string]Plugin `json:"plugins,omitempty"`
}

// Timeouts holds the two configurable deadlines named in spec.md section 3.
type Timeouts struct {
	HTTP int `json:"http,omitempty"`
	CLI  int `json:"cli,omitempty"`
}

const (
	defaultHTTPTimeoutSeconds = 30
	defaultCLITimeoutSeconds  = 60
)

// HTTPTimeoutSeconds returns the configured HTTP timeout, defaulting per spec.md.
func (t Timeouts) HTTPTimeoutSeconds() int {
	if t.HTTP <= 0 {
		return defaultHTTPTimeoutSeconds
	}
	return t.HTTP
}

// CLITimeoutSeconds returns the configured CLI timeout, defaulting per spec.md.
func (t Timeouts) CLITimeoutSeconds() int {
	if t.CLI <= 0 {
		return defaultCLITimeoutSeconds
	}
	return t.CLI
}

// Plugin is a plugin-specific configuration blob: a credential list plus
// whatever else that plugin type needs. The router and registry never look
// inside RawConfig; only the owning plugin decodes it.
type Plugin struct {
	Credentials []Credential    `json:"credentials,omitempty"`
	RawConfig   json.RawMessage `json:"-"`
}

// UnmarshalJSON keeps RawConfig as the verbatim bytes for this plugin entry
// so plugin-specific fields (token, keyring_password, upstream_base, ...)
// survive without this package needing to know every plugin's schema.
func (p *Plugin) UnmarshalJSON(data []byte) error {
	var shape struct {
		Credentials []Credential `json:"credentials,omitempty"`
	}
	if err := json.Unmarshal(data, &shape); err != nil {
		return err
	}
	p.Credentials = shape.Credentials
	p.RawConfig = append(json.RawMessage(nil), data...)
	return nil
}

// MarshalJSON re-emits the original bytes so round-tripping through this
// type (as the secret masker's traversal does) sees every plugin-specific
// field, not just Credentials.
func (p Plugin) MarshalJSON() ([]byte, error) {
	if len(p.RawConfig) > 0 {
		return p.RawConfig, nil
	}
	return json.Marshal(struct {
		Credentials []Credential `json:"credentials,omitempty"`
	}{p.Credentials})
}

// Credential is one plugin-specific, resource-scoped secret entry. Order is
// significant: callers write specific resource patterns first and "*" last.
type Credential struct {
	Resources []string `json:"resources"`

	// GitHub plugin field.
	Token string `json:"token,omitempty" secret:"true"`

	// Google plugin fields.
	KeyringPassword string `json:"keyring_password,omitempty" secret:"true"`
	Account         string `json:"account,omitempty"`

	// Raw carries the full credential object so plugin-specific secret
	// fields beyond the ones named above (client_secret, refresh_token,
	// password) are still visible to the secret collector.
	Raw json.RawMessage `json:"-"`
}

func (c *Credential) UnmarshalJSON(data []byte) error {
	type alias Credential
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*c = Credential(a)
	c.Raw = append(json.RawMessage(nil), data...)
	return nil
}

func (c Credential) MarshalJSON() ([]byte, error) {
	if len(c.Raw) > 0 {
		return c.Raw, nil
	}
	type alias Credential
	return json.Marshal(alias(c))
}

// CheckFileMode enforces spec.md section 3's "strict file-mode enforcement
// (owner read/write only)" invariant. It is the one piece of the external
// loader's job this package takes responsibility for, since the secret
// masker's safety depends on it never being skipped.
func CheckFileMode(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat config file: %w", err)
	}
	if mode := info.Mode().Perm(); mode != requiredMode {
		return fmt.Errorf("config file %s has mode %04o, want %04o (owner read/write only)", path, mode, requiredMode)
	}
	return nil
}
