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
	"github.com/delight-co/finest-grained-auth-proxy/internal/plugin"
)

var testCredential = plugin.Credential{
	Entry: config.Credential{Token: "test-token", Resources: []string{"*"}},
	Env:   map[string]string{"GH_TOKEN": "test-token"},
}

func TestParseFlagsValuesAndBools(t *testing.T) {
	fs, errRes := parseFlags([]string{"42", "--old", "a", "--new", "b", "--replace-all"}, editBoolFlags)
	if errRes != nil {
		t.Fatalf("unexpected error result: %+v", errRes)
	}
	if len(fs.args) != 1 || fs.args[0] != "42" {
		t.Errorf("got positional args %v, want [42]", fs.args)
	}
	old, ok := fs.get("old")
	if !ok || old != "a" {
		t.Errorf("got old=%q ok=%v", old, ok)
	}
	if !fs.bool("replace-all") {
		t.Error("expected replace-all to be true")
	}
}

func TestParseFlagsMissingValueErrors(t *testing.T) {
	_, errRes := parseFlags([]string{"--old"}, nil)
	if errRes == nil {
		t.Fatal("expected an error result for a flag missing its value")
	}
	if errRes.Result.Stderr != "--old requires a value" {
		t.Errorf("got stderr %q", errRes.Result.Stderr)
	}
}
