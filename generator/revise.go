package generator

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// UnknownPosition marks inline comments whose diff position the hosting
// API no longer reports.
const UnknownPosition = -1

// Editor applies review feedback to an existing post. It treats the prior
// content as opaque text; front-matter handling happens downstream.
type Editor struct {
	llm   LLMClient
	model string
	now   func() time.Time
}

func NewEditor(llm LLMClient, model string) (*Editor, error) {
	if llm == nil {
		return nil, errors.New("llm client is required")
	}
	return &Editor{llm: llm, model: model, now: time.Now}, nil
}

// Revise runs two completions over one growing conversation: the revised
// document first, then an explanation of the changes. The second call
// depends on the accumulated conversation state, so the order is fixed.
func (e *Editor) Revise(ctx context.Context, rc ReviewContext) (*RevisionResult, error) {
	conv := Conversation{}.
		Append(RoleSystem, editorPrompt(e.now())).
		Append(RoleUser, rc.PriorContent)
	for _, c := range rc.InlineComments {
		conv = conv.Append(RoleUser, fmt.Sprintf("Comment on line %d: %s", c.Position, c.Body))
	}
	conv = conv.Append(RoleUser, rc.OverallComment)

	revised, err := e.llm.Complete(ctx, e.model, conv)
	if err != nil {
		return nil, err
	}

	conv = conv.Append(RoleUser, explainInstruction)
	rationale, err := e.llm.Complete(ctx, e.model, conv)
	if err != nil {
		return nil, err
	}

	return &RevisionResult{RevisedBody: revised, Rationale: rationale}, nil
}
