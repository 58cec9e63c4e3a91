package workflow

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"autocontentgen/generator"
	"autocontentgen/githost"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeRepo struct {
	root       string
	ops        []string
	branches   []string
	checkedOut []string
	staged     []string
	commits    []string
	pushed     []string
	fetched    []string
	removed    bool

	checkoutErr error
	pushErr     error
}

func (r *fakeRepo) Root() string  { return r.root }
func (r *fakeRepo) Remove() error { r.removed = true; return nil }

func (r *fakeRepo) CreateBranch(name string) error {
	r.ops = append(r.ops, "branch")
	r.branches = append(r.branches, name)
	return nil
}

func (r *fakeRepo) CheckoutRemote(branch string) error {
	r.ops = append(r.ops, "checkout")
	if r.checkoutErr != nil {
		return r.checkoutErr
	}
	r.checkedOut = append(r.checkedOut, branch)
	return nil
}

func (r *fakeRepo) Stage(rel string) error {
	r.ops = append(r.ops, "stage")
	r.staged = append(r.staged, rel)
	return nil
}

func (r *fakeRepo) Commit(message string) error {
	r.ops = append(r.ops, "commit")
	r.commits = append(r.commits, message)
	return nil
}

func (r *fakeRepo) Push(_ context.Context, branch string) error {
	r.ops = append(r.ops, "push")
	if r.pushErr != nil {
		return r.pushErr
	}
	r.pushed = append(r.pushed, branch)
	return nil
}

func (r *fakeRepo) Fetch(_ context.Context, branch string) error {
	r.ops = append(r.ops, "fetch")
	r.fetched = append(r.fetched, branch)
	return nil
}

type fakeCloner struct {
	repo  *fakeRepo
	err   error
	calls int
}

func (c *fakeCloner) Clone(context.Context) (Repo, error) {
	c.calls++
	if c.err != nil {
		return nil, c.err
	}
	return c.repo, nil
}

func newFakeRepo(t *testing.T) (*fakeRepo, *fakeCloner) {
	t.Helper()
	repo := &fakeRepo{root: t.TempDir()}
	return repo, &fakeCloner{repo: repo}
}

type fakeSynth struct {
	article *generator.Article
	err     error
	seen    [][]string
}

func (s *fakeSynth) Synthesize(_ context.Context, names []string) (*generator.Article, error) {
	s.seen = append(s.seen, names)
	if s.err != nil {
		return nil, s.err
	}
	return s.article, nil
}

type fakeEngine struct {
	result *generator.RevisionResult
	err    error
	seen   []generator.ReviewContext
}

func (e *fakeEngine) Revise(_ context.Context, rc generator.ReviewContext) (*generator.RevisionResult, error) {
	e.seen = append(e.seen, rc)
	if e.err != nil {
		return nil, e.err
	}
	return e.result, nil
}

type fakeHost struct {
	pr    githost.PullRequest
	prErr error

	comments []githost.ReviewComment
	overall  string
	files    []string

	createURL     string
	createErr     error
	createdTitles []string
	createdHeads  []string

	issueComments []string
}

func (h *fakeHost) CreatePullRequest(_ context.Context, title, head, _ string) (string, error) {
	h.createdTitles = append(h.createdTitles, title)
	h.createdHeads = append(h.createdHeads, head)
	if h.createErr != nil {
		return "", h.createErr
	}
	return h.createURL, nil
}

func (h *fakeHost) GetPullRequest(_ context.Context, _ int) (githost.PullRequest, error) {
	if h.prErr != nil {
		return githost.PullRequest{}, h.prErr
	}
	return h.pr, nil
}

func (h *fakeHost) ListReviewComments(_ context.Context, _ int) ([]githost.ReviewComment, error) {
	return h.comments, nil
}

func (h *fakeHost) OverallReviewBody(_ context.Context, _ int) (string, error) {
	return h.overall, nil
}

func (h *fakeHost) ListChangedFiles(_ context.Context, _ int) ([]string, error) {
	return h.files, nil
}

func (h *fakeHost) CreateIssueComment(_ context.Context, _ int, body string) error {
	h.issueComments = append(h.issueComments, body)
	return nil
}
