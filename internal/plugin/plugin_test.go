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

package plugin

import (
	"testing"

	"github.com/delight-co/finest-grained-auth-proxy/internal/config"
)

type stubPlugin struct{ name string }

func (s *stubPlugin) Name() string    { return s.name }
func (s *stubPlugin) Tools() []string { return []string{s.name} }
func (s *stubPlugin) SelectCredential(resourceStr string, cfg config.Plugin) (*Credential, bool) {
	return nil, false
}

func TestRegistryRepeatedRegistrationIsIdempotent(t *testing.T) {
	r := NewRegistry()
	ctor := func() Plugin { return &stubPlugin{name: "gh"} }
	if err := r.Register("gh", ctor); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if err := r.Register("gh", ctor); err != nil {
		t.Fatalf("second register of the same class should be idempotent: %v", err)
	}
}

func TestRegistryConflictingRegistrationErrors(t *testing.T) {
	r := NewRegistry()
	if err := r.Register("gh", func() Plugin { return &stubPlugin{name: "gh"} }); err != nil {
		t.Fatalf("register: %v", err)
	}
	err := r.Register("gh", func() Plugin { return &stubPlugin{name: "gh-other"} })
	if err == nil {
		t.Fatal("expected an error registering a conflicting plugin class under the same name")
	}
}

func TestRegistryInstantiateOnlyConfiguredPlugins(t *testing.T) {
	r := NewRegistry()
	_ = r.Register("gh", func() Plugin { return &stubPlugin{name: "gh"} })
	_ = r.Register("google", func() Plugin { return &stubPlugin{name: "google"} })

	cfg := &config.Config{
		Plugins: map[string]config.Plugin{
			"gh": {},
		},
	}
	instances, err := r.Instantiate(cfg)
	if err != nil {
		t.Fatalf("instantiate: %v", err)
	}
	if len(instances) != 1 {
		t.Fatalf("got %d instances, want 1", len(instances))
	}
	if _, ok := instances["gh"]; !ok {
		t.Errorf("expected gh plugin instantiated")
	}
}

func TestRegistryIgnoresUnknownConfiguredPlugin(t *testing.T) {
	r := NewRegistry()
	_ = r.Register("gh", func() Plugin { return &stubPlugin{name: "gh"} })

	cfg := &config.Config{
		Plugins: map[string]config.Plugin{
			"something-unregistered": {},
		},
	}
	instances, err := r.Instantiate(cfg)
	if err != nil {
		t.Fatalf("instantiate: %v", err)
	}
	if len(instances) != 0 {
		t.Fatalf("got %d instances, want 0", len(instances))
	}
}

func TestDecodePluginConfig(t *testing.T) {
	cfg := config.Plugin{RawConfig: []byte(`{"credentials":[],"upstream_base":"https://example.com"}`)}
	var into struct {
		UpstreamBase string `json:"upstream_base"`
	}
	if err := DecodePluginConfig(cfg, &into); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if into.UpstreamBase != "https://example.com" {
		t.Errorf("got %q, want https://example.com", into.UpstreamBase)
	}
}
