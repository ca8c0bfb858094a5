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
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/delight-co/finest-grained-auth-proxy/internal/plugin"
)

// editBoolFlags is shared by issue edit, pr edit, and the comment edit
// variants: --replace-all is the only flag that takes no value.
var editBoolFlags = map[string]bool{"replace-all": true}

// issueCommand implements spec.md 4.8's "issue" subtree: "edit" and
// "comment edit" are intercepted, everything else falls through.
func issueCommand(args []string, resourceStr string, cred *plugin.Credential) plugin.CommandResult {
	if len(args) == 0 {
		return plugin.NotHandled
	}
	switch args[0] {
	case "edit":
		return editObject(args[1:], resourceStr, cred, objectKindIssue, false)
	case "comment":
		if len(args) >= 2 && args[1] == "edit" {
			return editComment(args[2:], resourceStr, cred, objectKindIssue)
		}
		return plugin.NotHandled
	default:
		return plugin.NotHandled
	}
}

// prCommand implements spec.md 4.8's "pr" subtree: "edit" additionally
// accepts --title, "comment edit" is identical in shape to the issue one.
func prCommand(args []string, resourceStr string, cred *plugin.Credential) plugin.CommandResult {
	if len(args) == 0 {
		return plugin.NotHandled
	}
	switch args[0] {
	case "edit":
		return editObject(args[1:], resourceStr, cred, objectKindPR, true)
	case "comment":
		if len(args) >= 2 && args[1] == "edit" {
			return editComment(args[2:], resourceStr, cred, objectKindPR)
		}
		return plugin.NotHandled
	default:
		return plugin.NotHandled
	}
}

type objectKind int

const (
	objectKindIssue objectKind = iota
	objectKindPR
)

func (k objectKind) label() string {
	if k == objectKindPR {
		return "pull request"
	}
	return "issue"
}

// restPathFor returns the REST path for fetching/patching an issue or PR.
// GitHub's issue endpoints also serve PRs (the number space is shared), so
// both kinds PATCH through /issues/<n>; only GraphQL distinguishes them.
func restPathFor(owner, repo string, number int) string {
	return fmt.Sprintf("/repos/%s/%s/issues/%d", owner, repo, number)
}

func commentRESTPath(owner, repo string, commentID int) string {
	return fmt.Sprintf("/repos/%s/%s/issues/comments/%d", owner, repo, commentID)
}

type bodyHolder struct {
	Body  *string `json:"body,omitempty"`
	Title *string `json:"title,omitempty"`
}

type bodyResponse struct {
	Body string `json:"body"`
}

// editObject implements the body-edit algorithm of spec.md 4.8 for
// "issue edit" / "pr edit". allowTitle gates whether --title is accepted.
func editObject(args []string, resourceStr string, cred *plugin.Credential, kind objectKind, allowTitle bool) plugin.CommandResult {
	if cred == nil {
		return fail("no credential selected")
	}
	boolFlags := editBoolFlags
	fs, errRes := parseFlags(args, boolFlags)
	if errRes != nil {
		return *errRes
	}
	if len(fs.args) == 0 {
		return fail(fmt.Sprintf("%s number is required", kind.label()))
	}
	number, err := strconv.Atoi(fs.args[0])
	if err != nil {
		return fail(fmt.Sprintf("invalid %s number %q", kind.label(), fs.args[0]))
	}
	old, hasOld := fs.get("old")
	newVal, hasNew := fs.get("new")
	if !hasOld || !hasNew {
		return plugin.NotHandled
	}
	replaceAll := fs.bool("replace-all")
	title, hasTitle := fs.get("title")
	if hasTitle && !allowTitle {
		return fail("--title is only valid for pr edit")
	}

	owner, repo, ok := splitResource(resourceStr)
	if !ok {
		return fail(fmt.Sprintf("invalid resource %q", resourceStr))
	}

	client := newRESTClient(defaultAPIBase, cred.Entry.Token)
	ctx := context.Background()
	var current bodyResponse
	if err := client.get(ctx, restPathFor(owner, repo, number), &current); err != nil {
		return fail(err.Error())
	}

	updated, failure := substituteBody(current.Body, old, newVal, replaceAll)
	if failure != "" {
		return fail(failure)
	}

	patch := bodyHolder{Body: &updated}
	if hasTitle {
		patch.Title = &title
	}
	if err := client.patch(ctx, restPathFor(owner, repo, number), patch, nil); err != nil {
		return fail(err.Error())
	}
	return ok(fmt.Sprintf("Updated %s #%d", kind.label(), number))
}

// editComment implements spec.md 4.8's "issue/pr comment edit" variant: same
// substitution algorithm, a comment REST endpoint instead of the object's.
func editComment(args []string, resourceStr string, cred *plugin.Credential, kind objectKind) plugin.CommandResult {
	if cred == nil {
		return fail("no credential selected")
	}
	fs, errRes := parseFlags(args, editBoolFlags)
	if errRes != nil {
		return *errRes
	}
	if len(fs.args) == 0 {
		return fail("comment id is required")
	}
	commentID, err := strconv.Atoi(fs.args[0])
	if err != nil {
		return fail(fmt.Sprintf("invalid comment id %q", fs.args[0]))
	}
	old, hasOld := fs.get("old")
	newVal, hasNew := fs.get("new")
	if !hasOld || !hasNew {
		return plugin.NotHandled
	}
	replaceAll := fs.bool("replace-all")

	owner, repo, ok := splitResource(resourceStr)
	if !ok {
		return fail(fmt.Sprintf("invalid resource %q", resourceStr))
	}

	client := newRESTClient(defaultAPIBase, cred.Entry.Token)
	ctx := context.Background()
	var current bodyResponse
	if err := client.get(ctx, commentRESTPath(owner, repo, commentID), &current); err != nil {
		return fail(err.Error())
	}

	updated, failure := substituteBody(current.Body, old, newVal, replaceAll)
	if failure != "" {
		return fail(failure)
	}

	if err := client.patch(ctx, commentRESTPath(owner, repo, commentID), bodyHolder{Body: &updated}, nil); err != nil {
		return fail(err.Error())
	}
	return ok(fmt.Sprintf("Updated comment #%d", commentID))
}

// substituteBody implements spec.md 4.8 step 4: count occurrences of old,
// fail on zero or on multiple-without-replace-all, else substitute.
func substituteBody(body, old, newVal string, replaceAll bool) (string, string) {
	count := strings.Count(body, old)
	switch {
	case count == 0:
		return "", "old string not found in body"
	case count >= 2 && !replaceAll:
		return "", fmt.Sprintf("old string found %d times in body (use --replace-all to replace all occurrences)", count)
	case replaceAll:
		return strings.ReplaceAll(body, old, newVal), ""
	default:
		return strings.Replace(body, old, newVal, 1), ""
	}
}

// splitResource parses a GitHub "owner/repo" resource string.
func splitResource(resourceStr string) (owner, repo string, ok bool) {
	owner, repo, found := strings.Cut(resourceStr, "/")
	if !found || owner == "" || repo == "" {
		return "", "", false
	}
	return owner, repo, true
}
