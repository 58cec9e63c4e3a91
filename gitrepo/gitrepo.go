// Package gitrepo drives isolated git working copies with go-git. Every
// workflow run gets a fresh clone in a process-unique directory, so
// concurrent runs never share local state.
package gitrepo

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	git "github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	githttp "github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/google/uuid"
)

// ErrBranchNotFound reports a remote branch that no longer exists; pull
// request metadata pointing at it is stale.
var ErrBranchNotFound = errors.New("remote branch not found")

// authorName is the fixed bot identity used for every commit.
const authorName = "GPT-Blog-Writer"

// Cloner produces one isolated working copy per call.
type Cloner struct {
	URL      string
	Username string
	Token    string
	Email    string
}

func (c Cloner) auth() *githttp.BasicAuth {
	return &githttp.BasicAuth{Username: c.Username, Password: c.Token}
}

// Clone checks out the repository's default branch into a fresh temporary
// directory. Directories are never reused across runs.
func (c Cloner) Clone(ctx context.Context) (*Workdir, error) {
	dir := filepath.Join(os.TempDir(), "acg-"+uuid.NewString())
	repo, err := git.PlainCloneContext(ctx, dir, false, &git.CloneOptions{
		URL:  c.URL,
		Auth: c.auth(),
	})
	if err != nil {
		return nil, fmt.Errorf("clone %s: %w", c.URL, err)
	}
	return &Workdir{repo: repo, root: dir, auth: c.auth(), email: c.Email}, nil
}

// Workdir wraps one cloned working copy.
type Workdir struct {
	repo  *git.Repository
	root  string
	auth  *githttp.BasicAuth
	email string
}

// Root is the absolute path of the working copy on disk.
func (w *Workdir) Root() string { return w.root }

// Remove deletes the working copy from disk.
func (w *Workdir) Remove() error { return os.RemoveAll(w.root) }

// CreateBranch creates a local branch at HEAD and checks it out.
func (w *Workdir) CreateBranch(name string) error {
	wt, err := w.repo.Worktree()
	if err != nil {
		return fmt.Errorf("worktree: %w", err)
	}
	err = wt.Checkout(&git.CheckoutOptions{
		Branch: plumbing.NewBranchReferenceName(name),
		Create: true,
	})
	if err != nil {
		return fmt.Errorf("create branch %s: %w", name, err)
	}
	return nil
}

// CheckoutRemote creates a local branch at the remote branch tip and
// checks it out.
func (w *Workdir) CheckoutRemote(branch string) error {
	ref, err := w.repo.Reference(plumbing.NewRemoteReferenceName("origin", branch), true)
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return fmt.Errorf("%w: %s", ErrBranchNotFound, branch)
		}
		return fmt.Errorf("resolve origin/%s: %w", branch, err)
	}
	wt, err := w.repo.Worktree()
	if err != nil {
		return fmt.Errorf("worktree: %w", err)
	}
	err = wt.Checkout(&git.CheckoutOptions{
		Hash:   ref.Hash(),
		Branch: plumbing.NewBranchReferenceName(branch),
		Create: true,
	})
	if err != nil {
		return fmt.Errorf("checkout %s: %w", branch, err)
	}
	return nil
}

// Stage adds a path, relative to the working copy root, to the index.
func (w *Workdir) Stage(rel string) error {
	wt, err := w.repo.Worktree()
	if err != nil {
		return fmt.Errorf("worktree: %w", err)
	}
	if _, err := wt.Add(rel); err != nil {
		return fmt.Errorf("stage %s: %w", rel, err)
	}
	return nil
}

// Commit records the staged changes under the fixed bot identity with the
// configured notification email.
func (w *Workdir) Commit(message string) error {
	wt, err := w.repo.Worktree()
	if err != nil {
		return fmt.Errorf("worktree: %w", err)
	}
	sig := &object.Signature{Name: authorName, Email: w.email, When: time.Now()}
	if _, err := wt.Commit(message, &git.CommitOptions{Author: sig, Committer: sig}); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Push publishes the branch to origin.
func (w *Workdir) Push(ctx context.Context, branch string) error {
	spec := gitconfig.RefSpec(fmt.Sprintf("refs/heads/%s:refs/heads/%s", branch, branch))
	err := w.repo.PushContext(ctx, &git.PushOptions{
		RemoteName: "origin",
		RefSpecs:   []gitconfig.RefSpec{spec},
		Auth:       w.auth,
	})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return fmt.Errorf("push %s: %w", branch, err)
	}
	return nil
}

// Fetch refreshes the remote tracking ref for the branch. Already up to
// date counts as success.
func (w *Workdir) Fetch(ctx context.Context, branch string) error {
	spec := gitconfig.RefSpec(fmt.Sprintf("+refs/heads/%s:refs/remotes/origin/%s", branch, branch))
	err := w.repo.FetchContext(ctx, &git.FetchOptions{
		RemoteName: "origin",
		RefSpecs:   []gitconfig.RefSpec{spec},
		Auth:       w.auth,
	})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return fmt.Errorf("fetch %s: %w", branch, err)
	}
	return nil
}
