// Package htmlmark serializes tracked documents as escaped HTML span markup.
//
// The persisted form is the review surface's native representation: plain
// text runs interleaved with change wrappers, document order preserved:
//
//	unchanged text<span class="change" data-group-id="…"><del>old</del><ins>new</ins></span>more text
//
// Text is always escaped, so round-tripping reproduces literal content and
// never structural markup.
package htmlmark

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/Youngleechen/writeedit"
)

// Compile-time interface verification.
var _ writeedit.MarkupCodec = (*Codec)(nil)

// ErrMalformed is returned when markup cannot be parsed into a valid tracked
// document. Callers recover by recomputing the diff from the text pair.
var ErrMalformed = errors.New("malformed tracked markup")

// Codec implements writeedit.MarkupCodec with HTML span markup.
type Codec struct{}

// NewCodec creates a new Codec.
func NewCodec() *Codec {
	return &Codec{}
}

// Serialize renders the document as escaped span markup.
func (c *Codec) Serialize(doc *writeedit.TrackedDocument) string {
	var sb strings.Builder
	for _, n := range doc.Nodes {
		switch n.Kind {
		case writeedit.NodeText:
			sb.WriteString(escapeText(n.Text))
		case writeedit.NodeChange:
			fmt.Fprintf(&sb, `<span class="change" data-group-id="%s">`, html.EscapeString(n.Group.ID))
			if n.Group.Deleted != "" {
				sb.WriteString("<del>")
				sb.WriteString(escapeText(n.Group.Deleted))
				sb.WriteString("</del>")
			}
			if n.Group.Inserted != "" {
				sb.WriteString("<ins>")
				sb.WriteString(escapeText(n.Group.Inserted))
				sb.WriteString("</ins>")
			}
			sb.WriteString("</span>")
		}
	}
	return sb.String()
}

// escapeText escapes document text for markup. Carriage returns are written
// as character references: the HTML input preprocessor normalizes literal CR
// and CRLF to LF, which would corrupt CRLF documents on round-trip, but a
// reference decodes back to U+000D untouched.
func escapeText(s string) string {
	return strings.ReplaceAll(html.EscapeString(s), "\r", "&#13;")
}

// Parse rebuilds a tracked document from serialized markup. Unrecognized
// elements degrade to their text content; structure that cannot be read as a
// tracked document (nested change spans, stray markup inside one) returns
// ErrMalformed.
func (c *Codec) Parse(markup string) (*writeedit.TrackedDocument, error) {
	ctx := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(strings.NewReader(markup), ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	doc := &writeedit.TrackedDocument{}
	for _, n := range nodes {
		if err := appendNode(doc, n); err != nil {
			return nil, err
		}
	}

	if errs := writeedit.ValidateDocument(doc); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, errs[0])
	}
	return doc, nil
}

func appendNode(doc *writeedit.TrackedDocument, n *html.Node) error {
	switch {
	case n.Type == html.TextNode:
		appendText(doc, n.Data)
	case n.Type == html.ElementNode && isChangeSpan(n):
		group, err := parseChangeSpan(n)
		if err != nil {
			return err
		}
		if group != nil {
			doc.Nodes = append(doc.Nodes, writeedit.Node{Kind: writeedit.NodeChange, Group: group})
		}
	case n.Type == html.ElementNode:
		// Hand-written or corrupted wrapper: keep the literal text.
		appendText(doc, textContent(n))
	}
	return nil
}

func appendText(doc *writeedit.TrackedDocument, text string) {
	if text == "" {
		return
	}
	if l := len(doc.Nodes); l > 0 && doc.Nodes[l-1].Kind == writeedit.NodeText {
		doc.Nodes[l-1].Text += text
		return
	}
	doc.Nodes = append(doc.Nodes, writeedit.Node{Kind: writeedit.NodeText, Text: text})
}

func parseChangeSpan(n *html.Node) (*writeedit.ChangeGroup, error) {
	group := &writeedit.ChangeGroup{ID: attr(n, "data-group-id")}
	if group.ID == "" {
		group.ID = writeedit.NewGroupID()
	}

	for child := n.FirstChild; child != nil; child = child.NextSibling {
		switch {
		case child.Type == html.TextNode:
			if strings.TrimSpace(child.Data) != "" {
				return nil, fmt.Errorf("%w: stray text inside change span", ErrMalformed)
			}
		case child.Type == html.ElementNode && child.DataAtom == atom.Del:
			group.Deleted += flatText(child)
		case child.Type == html.ElementNode && child.DataAtom == atom.Ins:
			group.Inserted += flatText(child)
		case child.Type == html.ElementNode && isChangeSpan(child):
			return nil, fmt.Errorf("%w: nested change span", ErrMalformed)
		}
	}

	if group.Deleted == "" && group.Inserted == "" {
		return nil, nil
	}
	return group, nil
}

func isChangeSpan(n *html.Node) bool {
	if n.DataAtom != atom.Span {
		return false
	}
	for _, field := range strings.Fields(attr(n, "class")) {
		if field == "change" {
			return true
		}
	}
	return false
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// flatText returns the concatenated text of a deleted/inserted span, which
// holds escaped text only, no nested structure.
func flatText(n *html.Node) string {
	var sb strings.Builder
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == html.TextNode {
			sb.WriteString(child.Data)
		}
	}
	return sb.String()
}

// textContent returns all text beneath a node, in document order.
func textContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var sb strings.Builder
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		sb.WriteString(textContent(child))
	}
	return sb.String()
}
