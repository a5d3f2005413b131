package htmlmark_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Youngleechen/writeedit"
	"github.com/Youngleechen/writeedit/htmlmark"
)

func TestCodec_Serialize(t *testing.T) {
	t.Parallel()

	doc := &writeedit.TrackedDocument{Nodes: []writeedit.Node{
		{Kind: writeedit.NodeText, Text: "one "},
		{Kind: writeedit.NodeChange, Group: &writeedit.ChangeGroup{ID: "g1", Deleted: "two", Inserted: "three"}},
		{Kind: writeedit.NodeText, Text: " four"},
	}}

	got := htmlmark.NewCodec().Serialize(doc)
	want := `one <span class="change" data-group-id="g1"><del>two</del><ins>three</ins></span> four`
	assert.Equal(t, want, got)
}

func TestCodec_Serialize_OmitsEmptySides(t *testing.T) {
	t.Parallel()

	doc := &writeedit.TrackedDocument{Nodes: []writeedit.Node{
		{Kind: writeedit.NodeChange, Group: &writeedit.ChangeGroup{ID: "ins", Inserted: "added"}},
		{Kind: writeedit.NodeChange, Group: &writeedit.ChangeGroup{ID: "del", Deleted: "removed"}},
	}}

	got := htmlmark.NewCodec().Serialize(doc)
	want := `<span class="change" data-group-id="ins"><ins>added</ins></span>` +
		`<span class="change" data-group-id="del"><del>removed</del></span>`
	assert.Equal(t, want, got)
}

func TestCodec_RoundTrip(t *testing.T) {
	t.Parallel()

	codec := htmlmark.NewCodec()
	doc := &writeedit.TrackedDocument{Nodes: []writeedit.Node{
		{Kind: writeedit.NodeText, Text: "I "},
		{Kind: writeedit.NodeChange, Group: &writeedit.ChangeGroup{ID: "a", Deleted: "kno", Inserted: "know"}},
		{Kind: writeedit.NodeText, Text: " "},
		{Kind: writeedit.NodeChange, Group: &writeedit.ChangeGroup{ID: "b", Deleted: "whom", Inserted: "who"}},
		{Kind: writeedit.NodeText, Text: " I am"},
	}}

	parsed, err := codec.Parse(codec.Serialize(doc))
	require.NoError(t, err)

	assert.Equal(t, doc.Nodes, parsed.Nodes)
	assert.Equal(t, doc.CleanText(), parsed.CleanText())
	assert.Equal(t, doc.OriginalText(), parsed.OriginalText())
}

func TestCodec_RoundTrip_EscapesMarkupCharacters(t *testing.T) {
	t.Parallel()

	codec := htmlmark.NewCodec()
	doc := &writeedit.TrackedDocument{Nodes: []writeedit.Node{
		{Kind: writeedit.NodeText, Text: `a < b && "c"`},
		{Kind: writeedit.NodeChange, Group: &writeedit.ChangeGroup{ID: "g", Deleted: "<del>", Inserted: "<ins>"}},
	}}

	markup := codec.Serialize(doc)
	assert.NotContains(t, markup, `a < b`)

	parsed, err := codec.Parse(markup)
	require.NoError(t, err)
	assert.Equal(t, `a < b && "c"`, parsed.Nodes[0].Text)
	assert.Equal(t, "<del>", parsed.Nodes[1].Group.Deleted)
	assert.Equal(t, "<ins>", parsed.Nodes[1].Group.Inserted)
}

func TestCodec_RoundTrip_PreservesCarriageReturns(t *testing.T) {
	t.Parallel()

	// CRLF files are read verbatim, so line endings reach the codec as-is.
	// The HTML parser normalizes literal CR to LF; the codec must not let
	// that alter the document, or a freshly restored session would compare
	// unequal to the markup it was restored from.
	codec := htmlmark.NewCodec()
	doc := &writeedit.TrackedDocument{Nodes: []writeedit.Node{
		{Kind: writeedit.NodeText, Text: "line one\r\nline two\r\n"},
		{Kind: writeedit.NodeChange, Group: &writeedit.ChangeGroup{ID: "g", Deleted: "old\r\n", Inserted: "new\r\n"}},
	}}

	markup := codec.Serialize(doc)
	assert.NotContains(t, markup, "\r")

	parsed, err := codec.Parse(markup)
	require.NoError(t, err)
	assert.Equal(t, doc.Nodes, parsed.Nodes)
	assert.Equal(t, markup, codec.Serialize(parsed))
}

func TestCodec_Parse_PlainText(t *testing.T) {
	t.Parallel()

	doc, err := htmlmark.NewCodec().Parse("just plain text")
	require.NoError(t, err)
	require.Len(t, doc.Nodes, 1)
	assert.Equal(t, "just plain text", doc.CleanText())
}

func TestCodec_Parse_UnknownElementDegradesToText(t *testing.T) {
	t.Parallel()

	doc, err := htmlmark.NewCodec().Parse("before <b>bold <em>nested</em></b> after")
	require.NoError(t, err)

	assert.Equal(t, "before bold nested after", doc.CleanText())
	assert.Empty(t, doc.Groups())
}

func TestCodec_Parse_MissingGroupIDGetsOne(t *testing.T) {
	t.Parallel()

	doc, err := htmlmark.NewCodec().Parse(`<span class="change"><ins>x</ins></span>`)
	require.NoError(t, err)

	require.Len(t, doc.Groups(), 1)
	assert.NotEmpty(t, doc.Groups()[0].ID)
	assert.Equal(t, "x", doc.Groups()[0].Inserted)
}

func TestCodec_Parse_EmptyChangeSpanSkipped(t *testing.T) {
	t.Parallel()

	doc, err := htmlmark.NewCodec().Parse(`a<span class="change" data-group-id="g"></span>b`)
	require.NoError(t, err)

	assert.Empty(t, doc.Groups())
	assert.Equal(t, "ab", doc.CleanText())
}

func TestCodec_Parse_NestedChangeSpanIsMalformed(t *testing.T) {
	t.Parallel()

	markup := `<span class="change"><span class="change"><ins>x</ins></span></span>`
	_, err := htmlmark.NewCodec().Parse(markup)
	assert.ErrorIs(t, err, htmlmark.ErrMalformed)
}

func TestCodec_Parse_StrayTextInsideChangeSpanIsMalformed(t *testing.T) {
	t.Parallel()

	_, err := htmlmark.NewCodec().Parse(`<span class="change">loose text</span>`)
	assert.ErrorIs(t, err, htmlmark.ErrMalformed)
}

func TestCodec_Parse_WhitespaceInsideChangeSpanTolerated(t *testing.T) {
	t.Parallel()

	markup := `<span class="change" data-group-id="g"> <del>a</del> <ins>b</ins> </span>`
	doc, err := htmlmark.NewCodec().Parse(markup)
	require.NoError(t, err)

	require.Len(t, doc.Groups(), 1)
	assert.Equal(t, "a", doc.Groups()[0].Deleted)
	assert.Equal(t, "b", doc.Groups()[0].Inserted)
}

func TestCodec_Parse_Empty(t *testing.T) {
	t.Parallel()

	doc, err := htmlmark.NewCodec().Parse("")
	require.NoError(t, err)
	assert.Empty(t, doc.Nodes)
}
