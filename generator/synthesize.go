package generator

import (
	"context"
	"errors"
	"path"
	"strings"
	"time"

	"autocontentgen/frontmatter"
)

// ErrMissingTitle reports generated front matter without a usable title;
// no file can be named from such a document.
var ErrMissingTitle = errors.New("front matter has no title")

// Writer produces a brand-new article plus its cover image.
type Writer struct {
	llm        LLMClient
	model      string
	imageModel string
	now        func() time.Time
}

func NewWriter(llm LLMClient, model, imageModel string) (*Writer, error) {
	if llm == nil {
		return nil, errors.New("llm client is required")
	}
	return &Writer{llm: llm, model: model, imageModel: imageModel, now: time.Now}, nil
}

// Synthesize asks the model for a post on a topic not implied by the
// given existing file names, then derives the slug and rewrites the image
// paths in the returned document to point at the slug-named asset.
func (w *Writer) Synthesize(ctx context.Context, existingNames []string) (*Article, error) {
	conv := Conversation{}.
		Append(RoleSystem, writerPrompt(w.now())).
		Append(RoleUser, strings.Join(existingNames, "\n"))

	raw, err := w.llm.Complete(ctx, w.model, conv)
	if err != nil {
		return nil, err
	}

	doc, err := frontmatter.Parse(raw)
	if err != nil {
		return nil, err
	}
	title, ok := doc.Get("title")
	if !ok || strings.TrimSpace(title) == "" {
		return nil, ErrMissingTitle
	}
	slug, err := Slugify(title)
	if err != nil {
		return nil, err
	}

	imagePath := path.Join(imagePublicDir, slug+".png")
	doc.Set("coverImage", imagePath)
	doc.SetNested("ogImage", "url", imagePath)
	body, err := doc.Encode()
	if err != nil {
		return nil, err
	}

	imageURL, err := w.llm.GenerateImage(ctx, w.imageModel, imagePromptPrefix+title)
	if err != nil {
		return nil, err
	}

	return &Article{
		Title:    title,
		Slug:     slug,
		Body:     body,
		ImageURL: imageURL,
	}, nil
}
