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

	"github.com/delight-co/finest-grained-auth-proxy/internal/plugin"
)

// discussionCommand implements spec.md 4.9's discussion subtree. Every
// subcommand is intercepted; there is no fallthrough case.
func discussionCommand(args []string, resourceStr string, cred *plugin.Credential) plugin.CommandResult {
	if cred == nil {
		return fail("no credential selected")
	}
	if len(args) == 0 {
		return fail("discussion subcommand is required")
	}
	owner, repo, okResource := splitResource(resourceStr)
	if !okResource {
		return fail(fmt.Sprintf("invalid resource %q", resourceStr))
	}
	client := newGraphQLClient(cred.Entry.Token, defaultGraphQLEndpoint, nil)
	ctx := context.Background()

	switch args[0] {
	case "list":
		return discussionList(ctx, client, owner, repo)
	case "view":
		return discussionView(ctx, client, owner, repo, args[1:])
	case "create":
		return discussionCreate(ctx, client, owner, repo, args[1:])
	case "edit":
		return discussionEdit(ctx, client, owner, repo, args[1:])
	case "close":
		return discussionSetClosed(ctx, client, owner, repo, args[1:], true)
	case "reopen":
		return discussionSetClosed(ctx, client, owner, repo, args[1:], false)
	case "delete":
		return discussionDelete(ctx, client, owner, repo, args[1:])
	case "comment":
		return discussionComment(ctx, client, owner, repo, args[1:])
	case "answer":
		return discussionSetAnswer(ctx, client, args[1:], true)
	case "unanswer":
		return discussionSetAnswer(ctx, client, args[1:], false)
	case "poll":
		if len(args) >= 2 && args[1] == "vote" {
			return discussionPollVote(ctx, client, args[2:])
		}
		return fail("unknown poll subcommand")
	default:
		return fail(fmt.Sprintf("unknown discussion subcommand %q", args[0]))
	}
}

func discussionList(ctx context.Context, client *githubv4.Client, owner, repo string) plugin.CommandResult {
	var q struct {
		Repository struct {
			Discussions struct {
				Nodes []struct {
					Number   int
					Title    string
					Category struct {
						Name string
					}
					Comments struct {
						TotalCount int
					}
					Author struct {
						Login string
					}
				}
			} `graphql:"discussions(first: 30, orderBy: {field: CREATED_AT, direction: DESC})"`
		} `graphql:"repository(owner: $owner, name: $name)"`
	}
	vars := map[string]interface{}{"owner": githubv4.String(owner), "name": githubv4.String(repo)}
	if err := client.Query(ctx, &q, vars); err != nil {
		return fail(err.Error())
	}
	// Includes comment count and author login alongside number/title/category,
	// per the original implementation's discussion-list render function.
	var b strings.Builder
	for _, d := range q.Repository.Discussions.Nodes {
		fmt.Fprintf(&b, "%d\t%s\t%s\t%s\t%d\n", d.Number, d.Title, d.Category.Name, d.Author.Login, d.Comments.TotalCount)
	}
	return okStdout(b.String())
}

func discussionView(ctx context.Context, client *githubv4.Client, owner, repo string, args []string) plugin.CommandResult {
	if len(args) == 0 {
		return fail("discussion number is required")
	}
	number, err := strconv.Atoi(args[0])
	if err != nil {
		return fail(fmt.Sprintf("invalid discussion number %q", args[0]))
	}
	var q struct {
		Repository struct {
			Discussion struct {
				Title    string
				Body     string
				Comments struct {
					Nodes []struct {
						Body   string
						Author struct {
							Login string
						}
					}
				} `graphql:"comments(first: 50)"`
			} `graphql:"discussion(number: $number)"`
		} `graphql:"repository(owner: $owner, name: $name)"`
	}
	vars := map[string]interface{}{
		"owner":  githubv4.String(owner),
		"name":   githubv4.String(repo),
		"number": githubv4.Int(number),
	}
	if err := client.Query(ctx, &q, vars); err != nil {
		return fail(fmt.Sprintf("discussion #%d not found", number))
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n%s\n", q.Repository.Discussion.Title, q.Repository.Discussion.Body)
	for _, c := range q.Repository.Discussion.Comments.Nodes {
		fmt.Fprintf(&b, "\n--- %s ---\n%s\n", c.Author.Login, c.Body)
	}
	return okStdout(b.String())
}

func discussionCategoryID(ctx context.Context, client *githubv4.Client, owner, repo, category string) (string, string, error) {
	var q struct {
		Repository struct {
			DiscussionCategories struct {
				Nodes []struct {
					ID   githubv4.ID
					Name string
					Slug string
				}
			} `graphql:"discussionCategories(first: 25)"`
		} `graphql:"repository(owner: $owner, name: $name)"`
	}
	vars := map[string]interface{}{"owner": githubv4.String(owner), "name": githubv4.String(repo)}
	if err := client.Query(ctx, &q, vars); err != nil {
		return "", "", err
	}
	want := strings.ToLower(category)
	var available []string
	for _, c := range q.Repository.DiscussionCategories.Nodes {
		available = append(available, c.Name)
		if strings.ToLower(c.Name) == want || strings.ToLower(c.Slug) == want {
			return fmt.Sprintf("%v", c.ID), "", nil
		}
	}
	return "", fmt.Sprintf("unknown category %q (available: %s)", category, strings.Join(available, ", ")), nil
}

func discussionCreate(ctx context.Context, client *githubv4.Client, owner, repo string, args []string) plugin.CommandResult {
	fs, errRes := parseFlags(args, nil)
	if errRes != nil {
		return *errRes
	}
	title, hasTitle := fs.get("title")
	body, hasBody := fs.get("body")
	category, hasCategory := fs.get("category")
	if !hasTitle || !hasBody || !hasCategory {
		return fail("--title, --body and --category are all required")
	}

	repoID, err := repositoryNodeID(ctx, client, owner, repo)
	if err != nil {
		return fail(err.Error())
	}
	categoryID, notFound, err := discussionCategoryID(ctx, client, owner, repo, category)
	if err != nil {
		return fail(err.Error())
	}
	if notFound != "" {
		return fail(notFound)
	}

	var m struct {
		CreateDiscussion struct {
			Discussion struct {
				Number int
			}
		} `graphql:"createDiscussion(input: $input)"`
	}
	input := githubv4.CreateDiscussionInput{
		RepositoryID: githubv4.ID(repoID),
		CategoryID:   githubv4.ID(categoryID),
		Title:        githubv4.String(title),
		Body:         githubv4.String(body),
	}
	if err := client.Mutate(ctx, &m, input, nil); err != nil {
		return fail(err.Error())
	}
	return ok(fmt.Sprintf("Created discussion #%d", m.CreateDiscussion.Discussion.Number))
}

func discussionEdit(ctx context.Context, client *githubv4.Client, owner, repo string, args []string) plugin.CommandResult {
	fs, errRes := parseFlags(args, nil)
	if errRes != nil {
		return *errRes
	}
	if len(fs.args) == 0 {
		return fail("discussion number is required")
	}
	number, err := strconv.Atoi(fs.args[0])
	if err != nil {
		return fail(fmt.Sprintf("invalid discussion number %q", fs.args[0]))
	}
	title, hasTitle := fs.get("title")
	body, hasBody := fs.get("body")
	if !hasTitle && !hasBody {
		return fail("at least one of --title or --body is required")
	}
	id, err := discussionNodeID(ctx, client, owner, repo, number)
	if err != nil {
		return fail(err.Error())
	}
	var m struct {
		UpdateDiscussion struct {
			Discussion struct {
				Number int
			}
		} `graphql:"updateDiscussion(input: $input)"`
	}
	input := githubv4.UpdateDiscussionInput{DiscussionID: githubv4.ID(id)}
	if hasTitle {
		t := githubv4.String(title)
		input.Title = &t
	}
	if hasBody {
		b := githubv4.String(body)
		input.Body = &b
	}
	if err := client.Mutate(ctx, &m, input, nil); err != nil {
		return fail(err.Error())
	}
	return ok(fmt.Sprintf("Updated discussion #%d", number))
}

func discussionSetClosed(ctx context.Context, client *githubv4.Client, owner, repo string, args []string, closed bool) plugin.CommandResult {
	if len(args) == 0 {
		return fail("discussion number is required")
	}
	number, err := strconv.Atoi(args[0])
	if err != nil {
		return fail(fmt.Sprintf("invalid discussion number %q", args[0]))
	}
	id, err := discussionNodeID(ctx, client, owner, repo, number)
	if err != nil {
		return fail(err.Error())
	}
	if closed {
		var m struct {
			CloseDiscussion struct {
				Discussion struct{ Number int }
			} `graphql:"closeDiscussion(input: $input)"`
		}
		if err := client.Mutate(ctx, &m, githubv4.CloseDiscussionInput{DiscussionID: githubv4.ID(id)}, nil); err != nil {
			return fail(err.Error())
		}
		return ok(fmt.Sprintf("Closed discussion #%d", number))
	}
	var m struct {
		ReopenDiscussion struct {
			Discussion struct{ Number int }
		} `graphql:"reopenDiscussion(input: $input)"`
	}
	if err := client.Mutate(ctx, &m, githubv4.ReopenDiscussionInput{DiscussionID: githubv4.ID(id)}, nil); err != nil {
		return fail(err.Error())
	}
	return ok(fmt.Sprintf("Reopened discussion #%d", number))
}

func discussionDelete(ctx context.Context, client *githubv4.Client, owner, repo string, args []string) plugin.CommandResult {
	if len(args) == 0 {
		return fail("discussion number is required")
	}
	number, err := strconv.Atoi(args[0])
	if err != nil {
		return fail(fmt.Sprintf("invalid discussion number %q", args[0]))
	}
	id, err := discussionNodeID(ctx, client, owner, repo, number)
	if err != nil {
		return fail(err.Error())
	}
	var m struct {
		DeleteDiscussion struct {
			Discussion struct{ Number int }
		} `graphql:"deleteDiscussion(input: $input)"`
	}
	if err := client.Mutate(ctx, &m, githubv4.DeleteDiscussionInput{ID: githubv4.ID(id)}, nil); err != nil {
		return fail(err.Error())
	}
	return ok(fmt.Sprintf("Deleted discussion #%d", number))
}

func discussionComment(ctx context.Context, client *githubv4.Client, owner, repo string, args []string) plugin.CommandResult {
	fs, errRes := parseFlags(args, nil)
	if errRes != nil {
		return *errRes
	}
	if len(fs.args) > 0 && fs.args[0] == "edit" {
		return discussionCommentEdit(ctx, client, args[1:])
	}
	if len(fs.args) > 0 && fs.args[0] == "delete" {
		return discussionCommentDelete(ctx, client, args[1:])
	}
	if len(fs.args) == 0 {
		return fail("discussion number is required")
	}
	number, err := strconv.Atoi(fs.args[0])
	if err != nil {
		return fail(fmt.Sprintf("invalid discussion number %q", fs.args[0]))
	}
	body, hasBody := fs.get("body")
	if !hasBody {
		return fail("--body is required")
	}
	replyTo, hasReplyTo := fs.get("reply-to")

	id, err := discussionNodeID(ctx, client, owner, repo, number)
	if err != nil {
		return fail(err.Error())
	}
	var m struct {
		AddDiscussionComment struct {
			Comment struct {
				ID githubv4.ID
			}
		} `graphql:"addDiscussionComment(input: $input)"`
	}
	input := githubv4.AddDiscussionCommentInput{DiscussionID: githubv4.ID(id), Body: githubv4.String(body)}
	if hasReplyTo {
		r := githubv4.ID(replyTo)
		input.ReplyToID = &r
	}
	if err := client.Mutate(ctx, &m, input, nil); err != nil {
		return fail(err.Error())
	}
	return ok(fmt.Sprintf("Commented on discussion #%d", number))
}

func discussionCommentEdit(ctx context.Context, client *githubv4.Client, args []string) plugin.CommandResult {
	fs, errRes := parseFlags(args, nil)
	if errRes != nil {
		return *errRes
	}
	if len(fs.args) == 0 {
		return fail("comment id is required")
	}
	body, hasBody := fs.get("body")
	if !hasBody {
		return fail("--body is required")
	}
	var m struct {
		UpdateDiscussionComment struct {
			Comment struct{ ID githubv4.ID }
		} `graphql:"updateDiscussionComment(input: $input)"`
	}
	input := githubv4.UpdateDiscussionCommentInput{CommentID: githubv4.ID(fs.args[0]), Body: githubv4.String(body)}
	if err := client.Mutate(ctx, &m, input, nil); err != nil {
		return fail(err.Error())
	}
	return ok(fmt.Sprintf("Updated comment %s", fs.args[0]))
}

func discussionCommentDelete(ctx context.Context, client *githubv4.Client, args []string) plugin.CommandResult {
	if len(args) == 0 {
		return fail("comment id is required")
	}
	var m struct {
		DeleteDiscussionComment struct {
			Comment struct{ ID githubv4.ID }
		} `graphql:"deleteDiscussionComment(input: $input)"`
	}
	input := githubv4.DeleteDiscussionCommentInput{ID: githubv4.ID(args[0])}
	if err := client.Mutate(ctx, &m, input, nil); err != nil {
		return fail(err.Error())
	}
	return ok(fmt.Sprintf("Deleted comment %s", args[0]))
}

func discussionSetAnswer(ctx context.Context, client *githubv4.Client, args []string, answer bool) plugin.CommandResult {
	if len(args) == 0 {
		return fail("comment id is required")
	}
	id := args[0]
	if answer {
		var m struct {
			MarkDiscussionCommentAsAnswer struct {
				Discussion struct{ Number int }
			} `graphql:"markDiscussionCommentAsAnswer(input: $input)"`
		}
		if err := client.Mutate(ctx, &m, githubv4.MarkDiscussionCommentAsAnswerInput{ID: githubv4.ID(id)}, nil); err != nil {
			return fail(err.Error())
		}
		return ok(fmt.Sprintf("Marked comment %s as answer", id))
	}
	var m struct {
		UnmarkDiscussionCommentAsAnswer struct {
			Discussion struct{ Number int }
		} `graphql:"unmarkDiscussionCommentAsAnswer(input: $input)"`
	}
	if err := client.Mutate(ctx, &m, githubv4.UnmarkDiscussionCommentAsAnswerInput{ID: githubv4.ID(id)}, nil); err != nil {
		return fail(err.Error())
	}
	return ok(fmt.Sprintf("Unmarked comment %s as answer", id))
}

func discussionPollVote(ctx context.Context, client *githubv4.Client, args []string) plugin.CommandResult {
	if len(args) == 0 {
		return fail("poll option id is required")
	}
	var m struct {
		AddDiscussionPollVote struct {
			PollOption struct {
				Title      string
				TotalVotes int
			}
		} `graphql:"addDiscussionPollVote(input: $input)"`
	}
	input := githubv4.AddDiscussionPollVoteInput{PollOptionID: githubv4.ID(args[0])}
	if err := client.Mutate(ctx, &m, input, nil); err != nil {
		return fail(err.Error())
	}
	return ok(fmt.Sprintf("%s: %d votes", m.AddDiscussionPollVote.PollOption.Title, m.AddDiscussionPollVote.PollOption.TotalVotes))
}

// discussionNodeID resolves a discussion's number to its GraphQL node id.
func discussionNodeID(ctx context.Context, client *githubv4.Client, owner, repo string, number int) (string, error) {
	var q struct {
		Repository struct {
			Discussion struct {
				ID githubv4.ID
			} `graphql:"discussion(number: $number)"`
		} `graphql:"repository(owner: $owner, name: $name)"`
	}
	vars := map[string]interface{}{
		"owner":  githubv4.String(owner),
		"name":   githubv4.String(repo),
		"number": githubv4.Int(number),
	}
	if err := client.Query(ctx, &q, vars); err != nil {
		return "", fmt.Errorf("discussion #%d not found", number)
	}
	return fmt.Sprintf("%v", q.Repository.Discussion.ID), nil
}
