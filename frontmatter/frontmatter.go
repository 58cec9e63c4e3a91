// Package frontmatter parses and rewrites the YAML metadata block at the
// top of a Markdown document. Only the first marker-bounded block is ever
// touched; everything after its closing marker passes through byte for byte.
package frontmatter

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const marker = "---"

// ErrMissingFrontMatter reports a document without a marker-bounded block.
// Callers cannot derive a title or file name from such a document.
var ErrMissingFrontMatter = errors.New("front matter block not found")

// Document is a parsed Markdown file: the fields of its first front-matter
// block plus the untouched remainder of the text.
type Document struct {
	fields *yaml.Node // mapping node of the first block, order preserved
	prefix string     // text before the opening marker, usually empty
	body   string     // everything after the closing marker line
}

// Parse splits doc at the first pair of lines containing exactly the
// three-hyphen marker and decodes the block between them.
func Parse(doc string) (*Document, error) {
	openStart, openEnd, ok := findMarkerLine(doc, 0)
	if !ok || openEnd >= len(doc) {
		return nil, ErrMissingFrontMatter
	}
	closeStart, closeEnd, ok := findMarkerLine(doc, openEnd+1)
	if !ok {
		return nil, ErrMissingFrontMatter
	}

	var root yaml.Node
	if err := yaml.Unmarshal([]byte(doc[openEnd+1:closeStart]), &root); err != nil {
		return nil, fmt.Errorf("parse front matter: %w", err)
	}
	if len(root.Content) == 0 || root.Content[0].Kind != yaml.MappingNode {
		return nil, ErrMissingFrontMatter
	}

	body := ""
	if closeEnd < len(doc) {
		body = doc[closeEnd:]
	}
	return &Document{
		fields: root.Content[0],
		prefix: doc[:openStart],
		body:   body,
	}, nil
}

// findMarkerLine locates the next line whose trimmed content equals the
// marker, returning the byte offsets of the line start and of its
// terminating newline (or len(doc) when the line ends the document).
func findMarkerLine(doc string, from int) (start, end int, ok bool) {
	for i := from; i <= len(doc); {
		lineEnd := len(doc)
		if j := strings.IndexByte(doc[i:], '\n'); j >= 0 {
			lineEnd = i + j
		}
		if strings.TrimSpace(doc[i:lineEnd]) == marker {
			return i, lineEnd, true
		}
		if lineEnd == len(doc) {
			break
		}
		i = lineEnd + 1
	}
	return 0, 0, false
}

// Body returns the document content after the closing marker.
func (d *Document) Body() string { return d.body }

// Get returns the scalar value of a top-level field. Keys match
// case-insensitively.
func (d *Document) Get(key string) (string, bool) {
	v := d.valueNode(key)
	if v == nil || v.Kind != yaml.ScalarNode {
		return "", false
	}
	return v.Value, true
}

// Set replaces the value of an existing top-level scalar field. The codec
// only rewrites fields, it never adds them; absent keys are reported via
// the return value.
func (d *Document) Set(key, value string) bool {
	v := d.valueNode(key)
	if v == nil || v.Kind != yaml.ScalarNode {
		return false
	}
	v.SetString(value)
	return true
}

// SetNested replaces key.sub when key maps to a nested object containing
// sub, e.g. ogImage.url.
func (d *Document) SetNested(key, sub, value string) bool {
	v := d.valueNode(key)
	if v == nil || v.Kind != yaml.MappingNode {
		return false
	}
	for i := 0; i+1 < len(v.Content); i += 2 {
		if strings.EqualFold(v.Content[i].Value, sub) {
			v.Content[i+1].SetString(value)
			return true
		}
	}
	return false
}

// Fields decodes the block into a plain map, mainly for inspection.
func (d *Document) Fields() map[string]any {
	var out map[string]any
	_ = d.fields.Decode(&out)
	return out
}

func (d *Document) valueNode(key string) *yaml.Node {
	for i := 0; i+1 < len(d.fields.Content); i += 2 {
		if strings.EqualFold(d.fields.Content[i].Value, key) {
			return d.fields.Content[i+1]
		}
	}
	return nil
}

// Encode re-serializes the document. Every string value in the block is
// emitted double-quoted so dates and titles containing colons stay
// unambiguous; the body is reattached untouched.
func (d *Document) Encode() (string, error) {
	quoteStrings(d.fields)

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(d.fields); err != nil {
		return "", fmt.Errorf("encode front matter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("encode front matter: %w", err)
	}

	return d.prefix + marker + "\n" + buf.String() + marker + d.body, nil
}

// quoteStrings forces double-quoted style on string values, leaving
// mapping keys alone.
func quoteStrings(n *yaml.Node) {
	switch n.Kind {
	case yaml.MappingNode:
		for i := 0; i+1 < len(n.Content); i += 2 {
			quoteStrings(n.Content[i+1])
		}
	case yaml.SequenceNode, yaml.DocumentNode:
		for _, c := range n.Content {
			quoteStrings(c)
		}
	case yaml.ScalarNode:
		if n.Tag == "" || n.Tag == "!!str" {
			n.Style = yaml.DoubleQuotedStyle
		}
	}
}
