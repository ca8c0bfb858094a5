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

package google

import (
	"testing"

	"github.com/delight-co/finest-grained-auth-proxy/internal/config"
)

func TestSelectCredentialRequiresKeyringPassword(t *testing.T) {
	p := &Plugin{}
	cfg := config.Plugin{Credentials: []config.Credential{
		{Resources: []string{"*"}},
	}}
	if _, ok := p.SelectCredential("default", cfg); ok {
		t.Error("expected no credential without a keyring_password")
	}
}

func TestSelectCredentialSetsEnvOverlay(t *testing.T) {
	p := &Plugin{}
	cfg := config.Plugin{Credentials: []config.Credential{
		{KeyringPassword: "pw", Account: "user@example.com", Resources: []string{"*"}},
	}}
	cred, ok := p.SelectCredential("default", cfg)
	if !ok {
		t.Fatal("expected a credential match")
	}
	if cred.Env["GOG_KEYRING_PASSWORD"] != "pw" {
		t.Errorf("got GOG_KEYRING_PASSWORD=%q", cred.Env["GOG_KEYRING_PASSWORD"])
	}
	if cred.Env["GOG_ACCOUNT"] != "user@example.com" {
		t.Errorf("got GOG_ACCOUNT=%q", cred.Env["GOG_ACCOUNT"])
	}
}

func TestSelectCredentialOmitsAccountWhenUnset(t *testing.T) {
	p := &Plugin{}
	cfg := config.Plugin{Credentials: []config.Credential{
		{KeyringPassword: "pw", Resources: []string{"*"}},
	}}
	cred, ok := p.SelectCredential("default", cfg)
	if !ok {
		t.Fatal("expected a credential match")
	}
	if _, hasAccount := cred.Env["GOG_ACCOUNT"]; hasAccount {
		t.Error("did not expect GOG_ACCOUNT without a configured account")
	}
}
