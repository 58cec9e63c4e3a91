package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"autocontentgen/githost"
)

// imagesDir is the repository-relative directory where post images live.
const imagesDir = "public/images/posts"

const (
	baseBranch    = "main"
	branchPrefix  = "blog-post-"
	commitMessage = "Add new blog post"
)

// Publisher runs the branch-publication pipeline: synthesize an article,
// commit it with its cover image to a new branch, and open a pull request.
type Publisher struct {
	writer   Synthesizer
	cloner   Cloner
	host     Host
	postsDir string
	client   *http.Client
	logger   *slog.Logger
	now      func() time.Time
}

func NewPublisher(writer Synthesizer, cloner Cloner, host Host, postsDir string, logger *slog.Logger) (*Publisher, error) {
	if writer == nil || cloner == nil || host == nil {
		return nil, errors.New("writer, cloner, and host are required")
	}
	if postsDir == "" {
		return nil, errors.New("posts directory is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{
		writer:   writer,
		cloner:   cloner,
		host:     host,
		postsDir: postsDir,
		client:   &http.Client{Timeout: 2 * time.Minute},
		logger:   logger,
		now:      time.Now,
	}, nil
}

// Run executes the pipeline end to end. Every step failure aborts the
// run. A hosting-side validation refusal after the push is reported as a
// non-error Result so the operator can resolve it and re-trigger.
func (p *Publisher) Run(ctx context.Context) (*Result, error) {
	wd, err := p.cloner.Clone(ctx)
	if err != nil {
		return nil, err
	}
	defer wd.Remove()
	p.logger.Info("cloned repository", "dir", wd.Root())

	names, err := listFileNames(filepath.Join(wd.Root(), p.postsDir))
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	article, err := p.writer.Synthesize(ctx, names)
	if err != nil {
		return nil, err
	}
	p.logger.Info("synthesized article", "title", article.Title, "slug", article.Slug)

	postRel := filepath.Join(p.postsDir, article.Slug+".md")
	if err := os.WriteFile(filepath.Join(wd.Root(), postRel), []byte(article.Body), 0o644); err != nil {
		return nil, fmt.Errorf("write post: %w", err)
	}

	// The image URL is short-lived; fetch it before any git work.
	imageRel := filepath.Join(imagesDir, article.Slug+".png")
	if err := downloadImage(ctx, p.client, article.ImageURL, filepath.Join(wd.Root(), imageRel)); err != nil {
		return nil, err
	}
	p.logger.Info("downloaded cover image", "path", imageRel)

	branch := branchPrefix + p.now().UTC().Format("20060102150405")
	if err := wd.CreateBranch(branch); err != nil {
		return nil, err
	}
	if err := wd.Stage(postRel); err != nil {
		return nil, err
	}
	if err := wd.Stage(imageRel); err != nil {
		return nil, err
	}
	if err := wd.Commit(commitMessage); err != nil {
		return nil, err
	}
	if err := wd.Push(ctx, branch); err != nil {
		return nil, err
	}
	p.logger.Info("pushed branch", "branch", branch)

	url, err := p.host.CreatePullRequest(ctx, article.Title, branch, baseBranch)
	if err != nil {
		var rejected *githost.RejectedError
		if errors.As(err, &rejected) {
			p.logger.Warn("pull request rejected", "message", rejected.Message)
			return &Result{Rejected: true, Message: rejected.Message}, nil
		}
		return nil, err
	}

	p.logger.Info("opened pull request", "url", url)
	return &Result{URL: url}, nil
}

// listFileNames returns the file names in dir, content unread. The
// synthesis prompt infers past topics from names alone.
func listFileNames(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}
