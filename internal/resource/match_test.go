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

package resource

import "testing"

func TestMatch(t *testing.T) {
	cases := []struct {
		name     string
		pattern  string
		resource string
		want     bool
	}{
		{"wildcard matches anything", "*", "acme/repo1", true},
		{"prefix wildcard matches same org", "acme/*", "acme/repo2", true},
		{"prefix wildcard rejects other org", "acme/*", "other/repo", false},
		{"prefix wildcard requires a slash in resource", "acme/*", "acme", false},
		{"exact match", "acme/repo1", "acme/repo1", true},
		{"exact match is case-insensitive", "ACME/Repo1", "acme/repo1", true},
		{"glob question mark", "acme/repo?", "acme/repo1", true},
		{"glob character class", "acme/repo[0-9]", "acme/repo5", true},
		{"glob character class rejects", "acme/repo[0-9]", "acme/repoX", false},
		{"no match", "specific/only", "other/repo", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Match(tc.pattern, tc.resource); got != tc.want {
				t.Errorf("Match(%q, %q) = %v, want %v", tc.pattern, tc.resource, got, tc.want)
			}
		})
	}
}
