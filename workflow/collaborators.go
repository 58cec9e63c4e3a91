// Package workflow orchestrates the two content pipelines: publishing a
// freshly generated article as a pull request, and applying review
// feedback to an open pull request as a follow-up commit.
package workflow

import (
	"context"

	"autocontentgen/generator"
	"autocontentgen/githost"
)

// Host is the hosting-API surface the workflows consume.
type Host interface {
	CreatePullRequest(ctx context.Context, title, head, base string) (string, error)
	GetPullRequest(ctx context.Context, number int) (githost.PullRequest, error)
	ListReviewComments(ctx context.Context, number int) ([]githost.ReviewComment, error)
	OverallReviewBody(ctx context.Context, number int) (string, error)
	ListChangedFiles(ctx context.Context, number int) ([]string, error)
	CreateIssueComment(ctx context.Context, number int, body string) error
}

// Repo is one isolated working copy of the target repository.
type Repo interface {
	Root() string
	Remove() error
	CreateBranch(name string) error
	CheckoutRemote(branch string) error
	Stage(rel string) error
	Commit(message string) error
	Push(ctx context.Context, branch string) error
	Fetch(ctx context.Context, branch string) error
}

// Cloner creates a fresh working copy for one run.
type Cloner interface {
	Clone(ctx context.Context) (Repo, error)
}

// ClonerFunc adapts a plain clone function, such as gitrepo.Cloner.Clone,
// to the Cloner interface.
type ClonerFunc func(ctx context.Context) (Repo, error)

func (f ClonerFunc) Clone(ctx context.Context) (Repo, error) { return f(ctx) }

// Synthesizer produces a new article; satisfied by generator.Writer.
type Synthesizer interface {
	Synthesize(ctx context.Context, existingNames []string) (*generator.Article, error)
}

// Engine revises an article from review feedback; satisfied by
// generator.Editor.
type Engine interface {
	Revise(ctx context.Context, rc generator.ReviewContext) (*generator.RevisionResult, error)
}

// Result is the outcome of one workflow run as reported to the trigger
// layer. Rejected covers the recoverable hosting-side validation refusal;
// Skipped covers the no-markdown-changed short circuit.
type Result struct {
	URL      string
	Rejected bool
	Skipped  bool
	Message  string
}
