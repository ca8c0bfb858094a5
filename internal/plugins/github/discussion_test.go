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

import "testing"

func TestDiscussionCommandRequiresSubcommand(t *testing.T) {
	res := discussionCommand(nil, "o/r", &testCredential)
	if !res.Handled || res.Result.ExitCode != 1 {
		t.Fatalf("expected a handled failure, got %+v", res)
	}
}

func TestDiscussionCommandInvalidResource(t *testing.T) {
	res := discussionCommand([]string{"list"}, "no-slash", &testCredential)
	if !res.Handled || res.Result.ExitCode != 1 {
		t.Fatalf("expected a handled failure for an invalid resource, got %+v", res)
	}
}

func TestDiscussionCommandRequiresCredential(t *testing.T) {
	res := discussionCommand([]string{"list"}, "o/r", nil)
	if !res.Handled || res.Result.ExitCode != 1 {
		t.Fatalf("expected a handled failure without a credential, got %+v", res)
	}
}
