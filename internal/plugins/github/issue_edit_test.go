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

func TestSubstituteBodyUniqueOccurrence(t *testing.T) {
	updated, failure := substituteBody("before change", "before", "after", false)
	if failure != "" {
		t.Fatalf("unexpected failure: %s", failure)
	}
	if updated != "after change" {
		t.Errorf("got %q, want %q", updated, "after change")
	}
}

func TestSubstituteBodyNotFound(t *testing.T) {
	_, failure := substituteBody("hello world", "missing", "x", false)
	if failure != "old string not found in body" {
		t.Errorf("got failure %q", failure)
	}
}

func TestSubstituteBodyMultipleWithoutReplaceAll(t *testing.T) {
	_, failure := substituteBody("aaa bbb aaa", "aaa", "ccc", false)
	want := "old string found 2 times in body (use --replace-all to replace all occurrences)"
	if failure != want {
		t.Errorf("got failure %q, want %q", failure, want)
	}
}

func TestSubstituteBodyReplaceAll(t *testing.T) {
	updated, failure := substituteBody("aaa bbb aaa", "aaa", "ccc", true)
	if failure != "" {
		t.Fatalf("unexpected failure: %s", failure)
	}
	if updated != "ccc bbb ccc" {
		t.Errorf("got %q, want %q", updated, "ccc bbb ccc")
	}
}

func TestSplitResourceValid(t *testing.T) {
	owner, repo, ok := splitResource("acme/widgets")
	if !ok || owner != "acme" || repo != "widgets" {
		t.Errorf("got owner=%q repo=%q ok=%v", owner, repo, ok)
	}
}

func TestSplitResourceInvalid(t *testing.T) {
	if _, _, ok := splitResource("no-slash"); ok {
		t.Error("expected invalid resource without a slash to fail")
	}
}

func TestEditObjectFallsThroughWithoutOldAndNew(t *testing.T) {
	res := editObject([]string{"42", "--title", "New title"}, "o/r", &testCredential, objectKindPR, true)
	if res.Handled {
		t.Error("expected fallthrough when --old/--new are absent")
	}
}

func TestEditObjectRejectsTitleOnIssue(t *testing.T) {
	res := editObject([]string{"42", "--old", "a", "--new", "b", "--title", "x"}, "o/r", &testCredential, objectKindIssue, false)
	if !res.Handled || res.Result.ExitCode != 1 {
		t.Fatalf("expected a handled failure result, got %+v", res)
	}
}
