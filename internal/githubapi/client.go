package githubapi

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	gh "github.com/google/go-github/v66/github"
	logger "github.com/sirupsen/logrus"
)

const (
	defaultAPIURL = "https://api.github.com"
	perPage       = 100
)

// Client wraps the GitHub API for one repository.
type Client struct {
	client *gh.Client
	owner  string
	repo   string
}

// NewClient creates a client for the given "owner/repo" slug. A non-default
// apiURL switches the client to an enterprise endpoint.
func NewClient(token, repository, apiURL string) (*Client, error) {
	owner, repo, ok := strings.Cut(repository, "/")
	if !ok || owner == "" || repo == "" {
		return nil, fmt.Errorf("invalid repository %q, expected owner/repo", repository)
	}

	client := gh.NewClient(nil).WithAuthToken(token)
	if apiURL != "" && apiURL != defaultAPIURL {
		var err error
		client, err = client.WithEnterpriseURLs(apiURL, apiURL)
		if err != nil {
			return nil, fmt.Errorf("failed to configure enterprise URL %q: %w", apiURL, err)
		}
	}

	return &Client{client: client, owner: owner, repo: repo}, nil
}

// PullRequest fetches the pull request metadata.
func (c *Client) PullRequest(ctx context.Context, number int) (*gh.PullRequest, error) {
	pr, _, err := c.client.PullRequests.Get(ctx, c.owner, c.repo, number)
	if err != nil {
		return nil, fmt.Errorf("failed to get pull request #%d: %w", number, err)
	}
	return pr, nil
}

// PullRequestDiff fetches the unified diff for a pull request.
func (c *Client) PullRequestDiff(ctx context.Context, number int) (string, error) {
	diff, _, err := c.client.PullRequests.GetRaw(ctx, c.owner, c.repo, number, gh.RawOptions{Type: gh.Diff})
	if err != nil {
		return "", fmt.Errorf("failed to get diff for pull request #%d: %w", number, err)
	}
	return diff, nil
}

// LinkedIssueNumber finds the first issue linked to a pull request,
// preferring cross-reference timeline events and falling back to closing
// keywords in the PR body. Returns 0 when no linked issue exists.
func (c *Client) LinkedIssueNumber(ctx context.Context, pr *gh.PullRequest) (int, error) {
	number := pr.GetNumber()

	opts := &gh.ListOptions{PerPage: perPage}
	for {
		events, resp, err := c.client.Issues.ListIssueTimeline(ctx, c.owner, c.repo, number, opts)
		if err != nil {
			logger.Warnf("githubapi: failed to list timeline for PR #%d: %v", number, err)
			break
		}

		for _, event := range events {
			if event.GetEvent() != "cross-referenced" {
				continue
			}
			issue := event.GetSource().GetIssue()
			if issue == nil || issue.IsPullRequest() {
				continue
			}
			logger.Debugf("githubapi: PR #%d cross-references issue #%d", number, issue.GetNumber())
			return issue.GetNumber(), nil
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	if linked := linkedIssueFromBody(pr.GetBody()); linked > 0 {
		logger.Debugf("githubapi: PR #%d body references issue #%d", number, linked)
		return linked, nil
	}
	return 0, nil
}

var closingKeywordPattern = regexp.MustCompile(`(?i)(?:close|closes|closed|fix|fixes|fixed|resolve|resolves|resolved)[\s:]*#(\d+)`)

// linkedIssueFromBody scans a PR body for closing keywords like
// "Closes #123". Returns 0 when no reference is found.
func linkedIssueFromBody(body string) int {
	match := closingKeywordPattern.FindStringSubmatch(body)
	if match == nil {
		return 0
	}
	number, err := strconv.Atoi(match[1])
	if err != nil {
		return 0
	}
	return number
}

// IssueBody fetches an issue's body. A nil body comes back as the empty
// string.
func (c *Client) IssueBody(ctx context.Context, number int) (string, error) {
	issue, _, err := c.client.Issues.Get(ctx, c.owner, c.repo, number)
	if err != nil {
		return "", fmt.Errorf("failed to get issue #%d: %w", number, err)
	}
	return issue.GetBody(), nil
}

// PostComment posts a comment on the given pull request or issue.
func (c *Client) PostComment(ctx context.Context, number int, body string) error {
	if body == "" {
		logger.Warn("githubapi: empty comment body, not posting")
		return nil
	}
	_, _, err := c.client.Issues.CreateComment(ctx, c.owner, c.repo, number, &gh.IssueComment{Body: gh.String(body)})
	if err != nil {
		return fmt.Errorf("failed to post comment on #%d: %w", number, err)
	}
	return nil
}

// FileContent fetches and decodes one file's content at the given ref.
func (c *Client) FileContent(ctx context.Context, path, ref string) (string, error) {
	fileContent, _, _, err := c.client.Repositories.GetContents(
		ctx, c.owner, c.repo, path,
		&gh.RepositoryContentGetOptions{Ref: ref},
	)
	if err != nil {
		return "", fmt.Errorf("failed to get file %q at %s: %w", path, ref, err)
	}
	if fileContent == nil {
		return "", fmt.Errorf("path %q is a directory, not a file", path)
	}

	content, err := fileContent.GetContent()
	if err != nil {
		return "", fmt.Errorf("failed to decode file content for %q: %w", path, err)
	}
	return content, nil
}
