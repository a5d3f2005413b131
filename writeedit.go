// Package writeedit provides domain types for tracked-changes document review.
package writeedit

import (
	"context"
	"errors"
	"time"
)

// OpType represents the type of an edit operation.
type OpType int

// Edit operation types.
const (
	OpEqual OpType = iota
	OpInsert
	OpDelete
)

// Operation is one run of an edit script: a contiguous span of text that is
// unchanged, inserted, or deleted between the original and edited versions.
type Operation struct {
	Type OpType
	Text string
}

// ChangeGroup is the reviewable unit: a bundle of adjacent deleted and/or
// inserted text accepted or rejected as one action. At least one of Deleted
// and Inserted is non-empty; an empty group is never materialized.
type ChangeGroup struct {
	ID       string // stable identity for attaching review controls
	Deleted  string // text removed from the original, "" if pure insertion
	Inserted string // replacement text, "" if pure deletion
}

// NodeKind represents the type of a tracked document node.
type NodeKind int

// Node kinds.
const (
	NodeText NodeKind = iota
	NodeChange
)

// Node is a single element of a tracked document: either a plain unchanged
// text run or a change group.
type Node struct {
	Kind  NodeKind
	Text  string       // set when Kind == NodeText
	Group *ChangeGroup // set when Kind == NodeChange
}

// TrackedDocument interleaves unchanged text runs with change groups, in
// document order. Concatenating runs with the inserted side of every group
// yields the clean text; runs with the deleted side yield the original.
type TrackedDocument struct {
	Nodes []Node
}

// DocumentInfo summarizes a stored document for listings.
type DocumentInfo struct {
	ID        string
	Preview   string
	UpdatedAt time.Time
}

// StoredDocument is the persisted form of a review: the minimal fields needed
// to round-trip a session. TrackedMarkup, when non-empty, restores the exact
// review state; otherwise the diff is recomputed from the text pair.
type StoredDocument struct {
	ID            string
	OriginalText  string
	EditedText    string
	CleanText     string
	TrackedMarkup string
	UpdatedAt     time.Time
}

// ErrNotFound is returned by stores when no document has the requested id.
var ErrNotFound = errors.New("document not found")

// WordDiffer computes a word-level edit script between two strings.
type WordDiffer interface {
	// Diff returns a minimal script of Equal/Insert/Delete runs whose
	// equal+delete text concatenates to original and equal+insert to edited.
	Diff(original, edited string) []Operation
}

// MarkupCodec serializes tracked documents to a stable markup form and back.
type MarkupCodec interface {
	// Serialize renders the document as escaped markup that round-trips
	// through Parse.
	Serialize(doc *TrackedDocument) string
	// Parse rebuilds a document from serialized markup. Unrecognized
	// structure degrades to plain text; markup that cannot be made sense of
	// returns an error.
	Parse(markup string) (*TrackedDocument, error)
}

// DocumentStore persists review sessions.
type DocumentStore interface {
	Save(ctx context.Context, doc StoredDocument) error
	Load(ctx context.Context, id string) (*StoredDocument, error)
	List(ctx context.Context) ([]DocumentInfo, error)
}

// Editor produces an AI-edited version of a text according to an instruction.
type Editor interface {
	Edit(ctx context.Context, text, instruction string) (string, error)
}
