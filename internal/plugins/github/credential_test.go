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
	"testing"

	"github.com/delight-co/finest-grained-auth-proxy/internal/config"
)

func TestSelectCredentialSetsGHToken(t *testing.T) {
	creds := []config.Credential{
		{Token: "A", Resources: []string{"acme/repo1"}},
		{Token: "B", Resources: []string{"*"}},
	}
	cred, ok := selectCredential("acme/repo1", creds, Config{})
	if !ok {
		t.Fatal("expected a credential match")
	}
	if cred.Env["GH_TOKEN"] != "A" {
		t.Errorf("got GH_TOKEN=%q, want A", cred.Env["GH_TOKEN"])
	}
	if _, hasHost := cred.Env["GH_HOST"]; hasHost {
		t.Error("did not expect GH_HOST for the default upstream")
	}
}

func TestSelectCredentialSetsGHHostForCustomUpstream(t *testing.T) {
	creds := []config.Credential{{Token: "A", Resources: []string{"*"}}}
	cred, ok := selectCredential("acme/repo1", creds, Config{UpstreamBase: "https://github.example.com"})
	if !ok {
		t.Fatal("expected a credential match")
	}
	if cred.Env["GH_HOST"] != "https://github.example.com" {
		t.Errorf("got GH_HOST=%q", cred.Env["GH_HOST"])
	}
}

func TestSelectCredentialSkipsEntriesWithoutToken(t *testing.T) {
	creds := []config.Credential{
		{Resources: []string{"*"}},
		{Token: "B", Resources: []string{"*"}},
	}
	cred, ok := selectCredential("acme/repo1", creds, Config{})
	if !ok {
		t.Fatal("expected a credential match")
	}
	if cred.Env["GH_TOKEN"] != "B" {
		t.Errorf("got GH_TOKEN=%q, want B", cred.Env["GH_TOKEN"])
	}
}

func TestSelectCredentialNoMatch(t *testing.T) {
	creds := []config.Credential{{Token: "A", Resources: []string{"specific/only"}}}
	if _, ok := selectCredential("other/repo", creds, Config{}); ok {
		t.Error("expected no credential match")
	}
}
