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

package credential

import (
	"testing"

	"github.com/delight-co/finest-grained-auth-proxy/internal/config"
)

func tokenNonEmpty(c config.Credential) bool { return c.Token != "" }

func TestSelectFirstMatchWins(t *testing.T) {
	creds := []config.Credential{
		{Token: "A", Resources: []string{"acme/repo1"}},
		{Token: "B", Resources: []string{"acme/*"}},
		{Token: "C", Resources: []string{"*"}},
	}

	cases := []struct {
		resource string
		want     string
	}{
		{"acme/repo1", "A"},
		{"acme/repo2", "B"},
		{"other/repo", "C"},
	}
	for _, tc := range cases {
		got, ok := Select(tc.resource, creds, tokenNonEmpty)
		if !ok {
			t.Fatalf("Select(%q) found nothing", tc.resource)
		}
		if got.Token != tc.want {
			t.Errorf("Select(%q).Token = %q, want %q", tc.resource, got.Token, tc.want)
		}
	}
}

func TestSelectNoMatch(t *testing.T) {
	creds := []config.Credential{{Token: "T", Resources: []string{"specific/only"}}}
	if _, ok := Select("other/repo", creds, tokenNonEmpty); ok {
		t.Errorf("Select() found a match, want none")
	}
}

func TestSelectSkipsCredentialsMissingSecret(t *testing.T) {
	creds := []config.Credential{
		{Token: "", Resources: []string{"*"}},
		{Token: "REAL", Resources: []string{"*"}},
	}
	got, ok := Select("anything", creds, tokenNonEmpty)
	if !ok || got.Token != "REAL" {
		t.Errorf("Select() = %+v, %v, want REAL credential", got, ok)
	}
}
