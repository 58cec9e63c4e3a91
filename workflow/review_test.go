package workflow

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autocontentgen/generator"
	"autocontentgen/githost"
	"autocontentgen/gitrepo"
)

const priorDoc = "---\ntitle: \"Oolong Myths\"\n---\nold body\n"

func seedPost(t *testing.T, root, rel string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Join(root, filepath.Dir(rel)), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, rel), []byte(priorDoc), 0o644))
}

func TestReviserRun(t *testing.T) {
	repo, cloner := newFakeRepo(t)
	seedPost(t, repo.root, "_posts/oolong-myths.md")

	engine := &fakeEngine{result: &generator.RevisionResult{
		RevisedBody: "---\ntitle: \"Oolong Myths\"\n---\nnew body\n",
		Rationale:   "Clarified the fermentation claim.",
	}}
	host := &fakeHost{
		pr: githost.PullRequest{Number: 7, HeadBranch: "blog-post-20240601120000"},
		comments: []githost.ReviewComment{
			{Path: "_posts/oolong-myths.md", Position: 5, Body: "Fix this claim."},
			{Path: "_posts/oolong-myths.md", Position: -1, Body: "Tone this down."},
		},
		overall: "Nearly there.",
		files:   []string{"public/images/posts/oolong-myths.png", "_posts/oolong-myths.md"},
	}

	r, err := NewReviser(engine, cloner, host, discardLogger())
	require.NoError(t, err)

	res, err := r.Run(context.Background(), 7)
	require.NoError(t, err)
	assert.False(t, res.Skipped)

	// The engine received the committed content and the feedback verbatim,
	// in retrieval order.
	require.Len(t, engine.seen, 1)
	rc := engine.seen[0]
	assert.Equal(t, priorDoc, rc.PriorContent)
	require.Len(t, rc.InlineComments, 2)
	assert.Equal(t, 5, rc.InlineComments[0].Position)
	assert.Equal(t, generator.UnknownPosition, rc.InlineComments[1].Position)
	assert.Equal(t, "Nearly there.", rc.OverallComment)

	// File overwritten wholesale with the revised document.
	got, err := os.ReadFile(filepath.Join(repo.root, "_posts/oolong-myths.md"))
	require.NoError(t, err)
	assert.Equal(t, engine.result.RevisedBody, string(got))

	// Checked out the PR's head branch, committed with the rationale as
	// the message, fetched before pushing, then replied on the thread.
	assert.Equal(t, []string{"blog-post-20240601120000"}, repo.checkedOut)
	assert.Equal(t, []string{"Clarified the fermentation claim."}, repo.commits)
	assert.Equal(t, []string{"checkout", "stage", "commit", "fetch", "push"}, repo.ops)
	assert.Equal(t, []string{"blog-post-20240601120000"}, repo.pushed)
	assert.Equal(t, []string{"Clarified the fermentation claim."}, host.issueComments)
	assert.True(t, repo.removed)
}

func TestReviserRunNoMarkdownChanged(t *testing.T) {
	repo, cloner := newFakeRepo(t)
	engine := &fakeEngine{}
	host := &fakeHost{
		pr:    githost.PullRequest{Number: 3, HeadBranch: "blog-post-x"},
		files: []string{"public/images/posts/x.png", "README.txt"},
	}

	r, err := NewReviser(engine, cloner, host, discardLogger())
	require.NoError(t, err)

	res, err := r.Run(context.Background(), 3)
	require.NoError(t, err)
	assert.True(t, res.Skipped)

	// Short-circuits before cloning and never touches the generation
	// collaborator.
	assert.Empty(t, engine.seen)
	assert.Zero(t, cloner.calls)
	assert.Empty(t, repo.ops)
	assert.Empty(t, host.issueComments)
}

func TestReviserRunRevisesFirstMarkdownFileOnly(t *testing.T) {
	repo, cloner := newFakeRepo(t)
	seedPost(t, repo.root, "_posts/first.md")
	seedPost(t, repo.root, "_posts/second.md")

	engine := &fakeEngine{result: &generator.RevisionResult{RevisedBody: "revised", Rationale: "why"}}
	host := &fakeHost{
		pr:    githost.PullRequest{Number: 9, HeadBranch: "blog-post-x"},
		files: []string{"_posts/first.md", "_posts/second.md"},
	}

	r, err := NewReviser(engine, cloner, host, discardLogger())
	require.NoError(t, err)

	_, err = r.Run(context.Background(), 9)
	require.NoError(t, err)

	first, err := os.ReadFile(filepath.Join(repo.root, "_posts/first.md"))
	require.NoError(t, err)
	assert.Equal(t, "revised", string(first))

	second, err := os.ReadFile(filepath.Join(repo.root, "_posts/second.md"))
	require.NoError(t, err)
	assert.Equal(t, priorDoc, string(second))
}

func TestReviserRunPullRequestNotFound(t *testing.T) {
	_, cloner := newFakeRepo(t)
	host := &fakeHost{prErr: githost.ErrPullRequestNotFound}

	r, err := NewReviser(&fakeEngine{}, cloner, host, discardLogger())
	require.NoError(t, err)

	_, err = r.Run(context.Background(), 404)
	assert.ErrorIs(t, err, githost.ErrPullRequestNotFound)
	assert.Zero(t, cloner.calls)
}

func TestReviserRunBranchNotFound(t *testing.T) {
	repo, cloner := newFakeRepo(t)
	repo.checkoutErr = gitrepo.ErrBranchNotFound

	engine := &fakeEngine{}
	host := &fakeHost{
		pr:    githost.PullRequest{Number: 5, HeadBranch: "gone"},
		files: []string{"_posts/x.md"},
	}

	r, err := NewReviser(engine, cloner, host, discardLogger())
	require.NoError(t, err)

	_, err = r.Run(context.Background(), 5)
	assert.ErrorIs(t, err, gitrepo.ErrBranchNotFound)
	assert.Empty(t, engine.seen)
	assert.True(t, repo.removed)
}

func TestReviserRunPushFailureSkipsReply(t *testing.T) {
	repo, cloner := newFakeRepo(t)
	seedPost(t, repo.root, "_posts/x.md")
	repo.pushErr = errors.New("non-fast-forward")

	engine := &fakeEngine{result: &generator.RevisionResult{RevisedBody: "r", Rationale: "why"}}
	host := &fakeHost{
		pr:    githost.PullRequest{Number: 2, HeadBranch: "blog-post-x"},
		files: []string{"_posts/x.md"},
	}

	r, err := NewReviser(engine, cloner, host, discardLogger())
	require.NoError(t, err)

	_, err = r.Run(context.Background(), 2)
	require.Error(t, err)
	// The reply must only happen after a successful push.
	assert.Empty(t, host.issueComments)
}
