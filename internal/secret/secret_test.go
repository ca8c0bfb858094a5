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

package secret

import (
	"encoding/json"
	"testing"

	"k8s.io/apimachinery/pkg/util/sets"

	"github.com/delight-co/finest-grained-auth-proxy/internal/config"
)

func TestCollectFromConfig(t *testing.T) {
	cfg := &config.Config{
		Plugins: map[string]config.Plugin{
			"github": {
				Credentials: []config.Credential{
					{Resources: []string{"acme/repo1"}, Token: "ghp_abc123"},
					{Resources: []string{"*"}, Token: ""},
				},
			},
			"google": {
				Credentials: []config.Credential{
					{Resources: []string{"*"}, KeyringPassword: "kr-secret"},
				},
			},
		},
	}

	got := Collect(cfg)
	want := sets.New[string]("ghp_abc123", "kr-secret")
	if !want.Equal(got) {
		t.Errorf("Collect() = %v, want %v", got, want)
	}
}

// TestCollectFindsUnmodeledRawFields confirms jsonSecretKeys applies to
// fields that only survive as json.RawMessage (client_secret has no named
// Go struct field on config.Credential), not just Token/KeyringPassword.
func TestCollectFindsUnmodeledRawFields(t *testing.T) {
	var cfg config.Config
	raw := []byte(`{"plugins":{"github":{"credentials":[
		{"resources":["*"],"token":"T","client_secret":"S"}
	]}}}`)
	if err := json.Unmarshal(raw, &cfg); err != nil {
		t.Fatalf("unmarshal config: %v", err)
	}

	got := Collect(&cfg)
	want := sets.New[string]("T", "S")
	if !want.Equal(got) {
		t.Errorf("Collect() = %v, want %v", got, want)
	}
}

func TestCollectEmptyStringsExcluded(t *testing.T) {
	cfg := &config.Config{
		Plugins: map[string]config.Plugin{
			"github": {Credentials: []config.Credential{{Resources: []string{"*"}, Token: ""}}},
		},
	}
	if got := Collect(cfg); got.Len() != 0 {
		t.Errorf("Collect() = %v, want empty", got)
	}
}

func TestMask(t *testing.T) {
	secrets := sets.New[string]("ghp_abc123")
	got := Mask("loaded ghp_abc123", secrets)
	if got != "loaded ***" {
		t.Errorf("Mask() = %q, want %q", got, "loaded ***")
	}
}

func TestMaskLongestFirst(t *testing.T) {
	secrets := sets.New[string]("ab", "abcdef")
	got := Mask("prefix abcdef suffix", secrets)
	if got != "prefix *** suffix" {
		t.Errorf("Mask() = %q, want %q", got, "prefix *** suffix")
	}
}

func TestMaskNoSecrets(t *testing.T) {
	if got := Mask("nothing to see here", sets.New[string]()); got != "nothing to see here" {
		t.Errorf("Mask() = %q, want unchanged", got)
	}
}

func TestMaskValue(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"short", "***"},
		{"exactly8", "***"},
		{"this-is-a-long-token", "this-is-***"},
	}
	for _, tc := range cases {
		if got := MaskValue(tc.in, DefaultMaskPrefix); got != tc.want {
			t.Errorf("MaskValue(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestMaskEmail(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"no-at-sign", "no-at-sign"},
		{"ab@example.com", "***@example.com"},
		{"alice@example.com", "al***@example.com"},
		{"x@y", "***@y"},
	}
	for _, tc := range cases {
		if got := MaskEmail(tc.in); got != tc.want {
			t.Errorf("MaskEmail(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestMaskEmailPreservesDomain(t *testing.T) {
	got := MaskEmail("x@y")
	if got != "***@y" {
		t.Errorf("MaskEmail(%q) = %q, domain not preserved", "x@y", got)
	}
}

func TestMaskEmailsInText(t *testing.T) {
	in := "contact alice@example.com or bob@example.org for help"
	want := "contact al***@example.com or bo***@example.org for help"
	if got := MaskEmailsInText(in); got != want {
		t.Errorf("MaskEmailsInText() = %q, want %q", got, want)
	}
}
