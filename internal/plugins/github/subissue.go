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

	"github.com/shurcooL/githubv4"
	"golang.org/x/sync/semaphore"

	"github.com/delight-co/finest-grained-auth-proxy/internal/plugin"
)

// maxConcurrentNodeIDResolutions bounds the concurrent GraphQL lookups a
// single "sub-issue reorder" call can issue while resolving up to four node
// ids (parent, child, --before, --after), per SPEC_FULL.md's supplemental
// concurrency note.
const maxConcurrentNodeIDResolutions = 4

// subIssueCommand implements spec.md 4.9's sub-issue subtree. Every call
// carries the GraphQL-Features: sub_issues header.
func subIssueCommand(args []string, resourceStr string, cred *plugin.Credential) plugin.CommandResult {
	if cred == nil {
		return fail("no credential selected")
	}
	if len(args) == 0 {
		return fail("sub-issue subcommand is required")
	}
	owner, repo, okResource := splitResource(resourceStr)
	if !okResource {
		return fail(fmt.Sprintf("invalid resource %q", resourceStr))
	}
	headers := map[string]string{"GraphQL-Features": subIssuesFeatureHeader}
	client := newGraphQLClient(cred.Entry.Token, defaultGraphQLEndpoint, headers)
	ctx := context.Background()

	switch args[0] {
	case "list":
		return subIssueList(ctx, client, owner, repo, args[1:])
	case "parent":
		return subIssueParent(ctx, client, owner, repo, args[1:])
	case "add":
		return subIssueAdd(ctx, client, owner, repo, args[1:])
	case "remove":
		return subIssueRemove(ctx, client, owner, repo, args[1:])
	case "reorder":
		return subIssueReorder(ctx, client, owner, repo, args[1:])
	default:
		return fail(fmt.Sprintf("unknown sub-issue subcommand %q", args[0]))
	}
}

func subIssueList(ctx context.Context, client *githubv4.Client, owner, repo string, args []string) plugin.CommandResult {
	if len(args) == 0 {
		return fail("issue number is required")
	}
	number, err := strconv.Atoi(args[0])
	if err != nil {
		return fail(fmt.Sprintf("invalid issue number %q", args[0]))
	}
	var q struct {
		Repository struct {
			Issue struct {
				SubIssues struct {
					Nodes []struct {
						Number int
						Title  string
						State  string
					}
				} `graphql:"subIssues(first: 50)"`
			} `graphql:"issue(number: $number)"`
		} `graphql:"repository(owner: $owner, name: $name)"`
	}
	vars := map[string]interface{}{
		"owner":  githubv4.String(owner),
		"name":   githubv4.String(repo),
		"number": githubv4.Int(number),
	}
	if err := client.Query(ctx, &q, vars); err != nil {
		return fail(err.Error())
	}
	var b strings.Builder
	for _, si := range q.Repository.Issue.SubIssues.Nodes {
		fmt.Fprintf(&b, "%d\t%s\t%s\n", si.Number, si.Title, si.State)
	}
	return okStdout(b.String())
}

func subIssueParent(ctx context.Context, client *githubv4.Client, owner, repo string, args []string) plugin.CommandResult {
	if len(args) == 0 {
		return fail("issue number is required")
	}
	number, err := strconv.Atoi(args[0])
	if err != nil {
		return fail(fmt.Sprintf("invalid issue number %q", args[0]))
	}
	var q struct {
		Repository struct {
			Issue struct {
				ParentIssue struct {
					Number int
					Title  string
				}
			} `graphql:"issue(number: $number)"`
		} `graphql:"repository(owner: $owner, name: $name)"`
	}
	vars := map[string]interface{}{
		"owner":  githubv4.String(owner),
		"name":   githubv4.String(repo),
		"number": githubv4.Int(number),
	}
	if err := client.Query(ctx, &q, vars); err != nil {
		return fail(err.Error())
	}
	if q.Repository.Issue.ParentIssue.Number == 0 {
		return okStdout("No parent issue\n")
	}
	return okStdout(fmt.Sprintf("%d\t%s\n", q.Repository.Issue.ParentIssue.Number, q.Repository.Issue.ParentIssue.Title))
}

// resolveNodeIDs resolves up to N owner/repo#number references concurrently,
// bounded by a semaphore sized maxConcurrentNodeIDResolutions, grounded on
// SPEC_FULL.md's supplemental concurrency note for sub-issue reorder (up to
// four node ids: parent, child, --before, --after).
func resolveNodeIDs(ctx context.Context, client *githubv4.Client, owner, repo string, numbers []int) ([]string, error) {
	sem := semaphore.NewWeighted(maxConcurrentNodeIDResolutions)
	ids := make([]string, len(numbers))
	errs := make([]error, len(numbers))
	done := make(chan int, len(numbers))
	for i, n := range numbers {
		i, n := i, n
		if err := sem.Acquire(ctx, 1); err != nil {
			return nil, err
		}
		go func() {
			defer sem.Release(1)
			id, err := issueNodeID(ctx, client, owner, repo, n)
			ids[i] = id
			errs[i] = err
			done <- i
		}()
	}
	for range numbers {
		<-done
	}
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return ids, nil
}

func subIssueAdd(ctx context.Context, client *githubv4.Client, owner, repo string, args []string) plugin.CommandResult {
	parent, child, ok := parseParentChild(args)
	if !ok {
		return fail("parent and child issue numbers are required")
	}
	ids, err := resolveNodeIDs(ctx, client, owner, repo, []int{parent, child})
	if err != nil {
		return fail(err.Error())
	}
	var m struct {
		AddSubIssue struct {
			Issue struct{ Number int }
		} `graphql:"addSubIssue(input: $input)"`
	}
	input := githubv4.AddSubIssueInput{IssueID: githubv4.ID(ids[0]), SubIssueID: githubv4.ID(ids[1])}
	if err := client.Mutate(ctx, &m, input, nil); err != nil {
		return fail(err.Error())
	}
	return ok(fmt.Sprintf("Added #%d as a sub-issue of #%d", child, parent))
}

func subIssueRemove(ctx context.Context, client *githubv4.Client, owner, repo string, args []string) plugin.CommandResult {
	parent, child, ok := parseParentChild(args)
	if !ok {
		return fail("parent and child issue numbers are required")
	}
	ids, err := resolveNodeIDs(ctx, client, owner, repo, []int{parent, child})
	if err != nil {
		return fail(err.Error())
	}
	var m struct {
		RemoveSubIssue struct {
			Issue struct{ Number int }
		} `graphql:"removeSubIssue(input: $input)"`
	}
	input := githubv4.RemoveSubIssueInput{IssueID: githubv4.ID(ids[0]), SubIssueID: githubv4.ID(ids[1])}
	if err := client.Mutate(ctx, &m, input, nil); err != nil {
		return fail(err.Error())
	}
	return ok(fmt.Sprintf("Removed #%d as a sub-issue of #%d", child, parent))
}

func subIssueReorder(ctx context.Context, client *githubv4.Client, owner, repo string, args []string) plugin.CommandResult {
	fs, errRes := parseFlags(args, nil)
	if errRes != nil {
		return *errRes
	}
	if len(fs.args) < 2 {
		return fail("parent and child issue numbers are required")
	}
	parent, err := strconv.Atoi(fs.args[0])
	if err != nil {
		return fail(fmt.Sprintf("invalid parent issue number %q", fs.args[0]))
	}
	child, err := strconv.Atoi(fs.args[1])
	if err != nil {
		return fail(fmt.Sprintf("invalid child issue number %q", fs.args[1]))
	}
	beforeStr, hasBefore := fs.get("before")
	afterStr, hasAfter := fs.get("after")
	if !hasBefore && !hasAfter {
		return fail("at least one of --before or --after is required")
	}

	numbers := []int{parent, child}
	var beforeIdx, afterIdx = -1, -1
	if hasBefore {
		n, err := strconv.Atoi(beforeStr)
		if err != nil {
			return fail(fmt.Sprintf("invalid --before issue number %q", beforeStr))
		}
		beforeIdx = len(numbers)
		numbers = append(numbers, n)
	}
	if hasAfter {
		n, err := strconv.Atoi(afterStr)
		if err != nil {
			return fail(fmt.Sprintf("invalid --after issue number %q", afterStr))
		}
		afterIdx = len(numbers)
		numbers = append(numbers, n)
	}

	ids, err := resolveNodeIDs(ctx, client, owner, repo, numbers)
	if err != nil {
		return fail(err.Error())
	}

	var m struct {
		ReprioritizeSubIssue struct {
			Issue struct{ Number int }
		} `graphql:"reprioritizeSubIssue(input: $input)"`
	}
	input := githubv4.ReprioritizeSubIssueInput{IssueID: githubv4.ID(ids[0]), SubIssueID: githubv4.ID(ids[1])}
	if beforeIdx >= 0 {
		b := githubv4.ID(ids[beforeIdx])
		input.BeforeID = &b
	}
	if afterIdx >= 0 {
		a := githubv4.ID(ids[afterIdx])
		input.AfterID = &a
	}
	if err := client.Mutate(ctx, &m, input, nil); err != nil {
		return fail(err.Error())
	}
	return ok(fmt.Sprintf("Reordered #%d relative to #%d", child, parent))
}

func parseParentChild(args []string) (parent, child int, ok bool) {
	if len(args) < 2 {
		return 0, 0, false
	}
	p, err1 := strconv.Atoi(args[0])
	c, err2 := strconv.Atoi(args[1])
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return p, c, true
}
