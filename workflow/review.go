package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"autocontentgen/generator"
	"autocontentgen/githost"
)

// Reviser runs the revision-publication pipeline: gather review feedback
// for a pull request, revise the article it touches, commit the result to
// the same branch, and reply with the model's rationale.
type Reviser struct {
	editor Engine
	cloner Cloner
	host   Host
	logger *slog.Logger
}

func NewReviser(editor Engine, cloner Cloner, host Host, logger *slog.Logger) (*Reviser, error) {
	if editor == nil || cloner == nil || host == nil {
		return nil, errors.New("editor, cloner, and host are required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Reviser{editor: editor, cloner: cloner, host: host, logger: logger}, nil
}

// Run processes review feedback for pull request #number. When no
// Markdown file changed, the run short-circuits to a no-op success
// without calling the generation collaborator.
func (r *Reviser) Run(ctx context.Context, number int) (*Result, error) {
	pr, err := r.host.GetPullRequest(ctx, number)
	if err != nil {
		return nil, err
	}

	comments, err := r.host.ListReviewComments(ctx, number)
	if err != nil {
		return nil, err
	}
	overall, err := r.host.OverallReviewBody(ctx, number)
	if err != nil {
		return nil, err
	}

	files, err := r.host.ListChangedFiles(ctx, number)
	if err != nil {
		return nil, err
	}
	markdown := markdownFiles(files)
	if len(markdown) == 0 {
		r.logger.Info("no markdown files changed, nothing to revise", "pr", number)
		return &Result{Skipped: true}, nil
	}
	if len(markdown) > 1 {
		// Known limitation: only the first changed file gets revised.
		r.logger.Warn("multiple markdown files changed, revising the first",
			"pr", number, "count", len(markdown))
	}
	target := markdown[0]

	wd, err := r.cloner.Clone(ctx)
	if err != nil {
		return nil, err
	}
	defer wd.Remove()

	if err := wd.CheckoutRemote(pr.HeadBranch); err != nil {
		return nil, err
	}

	abs := filepath.Join(wd.Root(), target)
	prior, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", target, err)
	}

	revision, err := r.editor.Revise(ctx, generator.ReviewContext{
		PriorContent:   string(prior),
		InlineComments: inlineComments(comments),
		OverallComment: overall,
	})
	if err != nil {
		return nil, err
	}
	r.logger.Info("revised article", "pr", number, "file", target)

	if err := os.WriteFile(abs, []byte(revision.RevisedBody), 0o644); err != nil {
		return nil, fmt.Errorf("write %s: %w", target, err)
	}
	if err := wd.Stage(target); err != nil {
		return nil, err
	}
	if err := wd.Commit(revision.Rationale); err != nil {
		return nil, err
	}

	// Refresh the remote ref right before pushing: the head branch may
	// have moved since the clone, and this is the one step that mutates
	// an existing branch.
	if err := wd.Fetch(ctx, pr.HeadBranch); err != nil {
		return nil, err
	}
	if err := wd.Push(ctx, pr.HeadBranch); err != nil {
		return nil, err
	}
	r.logger.Info("pushed revision", "branch", pr.HeadBranch)

	if err := r.host.CreateIssueComment(ctx, number, revision.Rationale); err != nil {
		return nil, err
	}
	return &Result{}, nil
}

func markdownFiles(files []string) []string {
	var out []string
	for _, f := range files {
		if strings.HasSuffix(f, ".md") {
			out = append(out, f)
		}
	}
	return out
}

func inlineComments(comments []githost.ReviewComment) []generator.InlineComment {
	out := make([]generator.InlineComment, 0, len(comments))
	for _, c := range comments {
		out = append(out, generator.InlineComment{
			Path:     c.Path,
			Position: c.Position,
			Body:     c.Body,
		})
	}
	return out
}
