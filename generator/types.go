package generator

// Article is the result of one synthesis run. It is constructed once,
// never mutated, and consumed by the publication workflow.
type Article struct {
	Title string
	Slug  string
	// Body is the full document: front-matter block plus Markdown content.
	Body string
	// ImageURL points at the generated cover image. The host expires it
	// quickly, so it must be downloaded promptly.
	ImageURL string
}

// InlineComment is one line-level review comment. Position is
// UnknownPosition when the hosting API no longer reports one, e.g. for a
// comment on a since-changed line.
type InlineComment struct {
	Path     string
	Position int
	Body     string
}

// ReviewContext is the input to the revision engine. InlineComments keep
// the hosting API's retrieval order; nothing is reordered or deduplicated.
type ReviewContext struct {
	PriorContent   string
	InlineComments []InlineComment
	OverallComment string
}

// RevisionResult holds a complete replacement document, never a diff; the
// publication workflow overwrites the target file wholesale.
type RevisionResult struct {
	RevisedBody string
	Rationale   string
}
