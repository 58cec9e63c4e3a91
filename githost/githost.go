// Package githost wraps the GitHub REST API behind the small surface the
// workflows consume. Payloads are parsed into typed records once, here at
// the boundary.
package githost

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/go-github/v69/github"
)

// ErrPullRequestNotFound reports a pull request number that does not
// resolve on the hosting side.
var ErrPullRequestNotFound = errors.New("pull request not found")

// RejectedError carries the hosting API's validation message when pull
// request creation is refused (duplicate branch, empty diff). It is the
// one expected, operator-recoverable failure in the publication workflow.
type RejectedError struct {
	Message string
}

func (e *RejectedError) Error() string { return "pull request rejected: " + e.Message }

// PullRequest is the subset of hosting metadata the workflows need.
type PullRequest struct {
	Number     int
	HeadBranch string
	URL        string
}

// ReviewComment is one inline comment on a pull request diff. Position is
// -1 when the hosting API no longer reports one.
type ReviewComment struct {
	Path     string
	Position int
	Body     string
}

// Client talks to one repository on GitHub.
type Client struct {
	gh    *github.Client
	owner string
	repo  string
}

func NewClient(token, owner, repo string) *Client {
	return &Client{
		gh:    github.NewClient(nil).WithAuthToken(token),
		owner: owner,
		repo:  repo,
	}
}

// CreatePullRequest opens a pull request from head into base and returns
// its URL. Validation refusals come back as *RejectedError.
func (c *Client) CreatePullRequest(ctx context.Context, title, head, base string) (string, error) {
	pr, resp, err := c.gh.PullRequests.Create(ctx, c.owner, c.repo, &github.NewPullRequest{
		Title: github.Ptr(title),
		Head:  github.Ptr(head),
		Base:  github.Ptr(base),
	})
	if err != nil {
		var ghErr *github.ErrorResponse
		if errors.As(err, &ghErr) && resp != nil && resp.StatusCode == http.StatusUnprocessableEntity {
			return "", &RejectedError{Message: ghErr.Message}
		}
		return "", fmt.Errorf("create pull request: %w", err)
	}
	return pr.GetHTMLURL(), nil
}

func (c *Client) GetPullRequest(ctx context.Context, number int) (PullRequest, error) {
	pr, resp, err := c.gh.PullRequests.Get(ctx, c.owner, c.repo, number)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return PullRequest{}, fmt.Errorf("%w: #%d", ErrPullRequestNotFound, number)
		}
		return PullRequest{}, fmt.Errorf("get pull request #%d: %w", number, err)
	}
	return PullRequest{
		Number:     pr.GetNumber(),
		HeadBranch: pr.GetHead().GetRef(),
		URL:        pr.GetHTMLURL(),
	}, nil
}

// ListReviewComments returns inline comments in the hosting API's own order.
func (c *Client) ListReviewComments(ctx context.Context, number int) ([]ReviewComment, error) {
	comments, _, err := c.gh.PullRequests.ListComments(ctx, c.owner, c.repo, number, nil)
	if err != nil {
		return nil, fmt.Errorf("list review comments: %w", err)
	}
	out := make([]ReviewComment, 0, len(comments))
	for _, rc := range comments {
		pos := -1
		if rc.Position != nil {
			pos = *rc.Position
		}
		out = append(out, ReviewComment{Path: rc.GetPath(), Position: pos, Body: rc.GetBody()})
	}
	return out, nil
}

// OverallReviewBody returns the first non-empty review body on the pull
// request, or "" when no review carries one. No body is not an error.
func (c *Client) OverallReviewBody(ctx context.Context, number int) (string, error) {
	reviews, _, err := c.gh.PullRequests.ListReviews(ctx, c.owner, c.repo, number, nil)
	if err != nil {
		return "", fmt.Errorf("list reviews: %w", err)
	}
	for _, r := range reviews {
		if body := r.GetBody(); body != "" {
			return body, nil
		}
	}
	return "", nil
}

// ListChangedFiles returns the names of all files touched by the pull
// request, in the hosting API's own order.
func (c *Client) ListChangedFiles(ctx context.Context, number int) ([]string, error) {
	files, _, err := c.gh.PullRequests.ListFiles(ctx, c.owner, c.repo, number, nil)
	if err != nil {
		return nil, fmt.Errorf("list changed files: %w", err)
	}
	names := make([]string, 0, len(files))
	for _, f := range files {
		names = append(names, f.GetFilename())
	}
	return names, nil
}

// CreateIssueComment posts a comment on the pull request's discussion thread.
func (c *Client) CreateIssueComment(ctx context.Context, number int, body string) error {
	_, _, err := c.gh.Issues.CreateComment(ctx, c.owner, c.repo, number, &github.IssueComment{
		Body: github.Ptr(body),
	})
	if err != nil {
		return fmt.Errorf("create comment: %w", err)
	}
	return nil
}
