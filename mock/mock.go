// Package mock provides test doubles for writeedit interfaces.
package mock

import (
	"context"

	"github.com/Youngleechen/writeedit"
)

// Compile-time interface verification.
var (
	_ writeedit.WordDiffer    = (*WordDiffer)(nil)
	_ writeedit.MarkupCodec   = (*MarkupCodec)(nil)
	_ writeedit.DocumentStore = (*DocumentStore)(nil)
	_ writeedit.Editor        = (*Editor)(nil)
)

// WordDiffer is a mock implementation of writeedit.WordDiffer.
type WordDiffer struct {
	DiffFn func(original, edited string) []writeedit.Operation
}

func (d *WordDiffer) Diff(original, edited string) []writeedit.Operation {
	return d.DiffFn(original, edited)
}

// MarkupCodec is a mock implementation of writeedit.MarkupCodec.
type MarkupCodec struct {
	SerializeFn func(doc *writeedit.TrackedDocument) string
	ParseFn     func(markup string) (*writeedit.TrackedDocument, error)
}

func (c *MarkupCodec) Serialize(doc *writeedit.TrackedDocument) string {
	return c.SerializeFn(doc)
}

func (c *MarkupCodec) Parse(markup string) (*writeedit.TrackedDocument, error) {
	return c.ParseFn(markup)
}

// DocumentStore is a mock implementation of writeedit.DocumentStore.
type DocumentStore struct {
	SaveFn func(ctx context.Context, doc writeedit.StoredDocument) error
	LoadFn func(ctx context.Context, id string) (*writeedit.StoredDocument, error)
	ListFn func(ctx context.Context) ([]writeedit.DocumentInfo, error)
}

func (s *DocumentStore) Save(ctx context.Context, doc writeedit.StoredDocument) error {
	return s.SaveFn(ctx, doc)
}

func (s *DocumentStore) Load(ctx context.Context, id string) (*writeedit.StoredDocument, error) {
	return s.LoadFn(ctx, id)
}

func (s *DocumentStore) List(ctx context.Context) ([]writeedit.DocumentInfo, error) {
	return s.ListFn(ctx)
}

// Editor is a mock implementation of writeedit.Editor.
type Editor struct {
	EditFn func(ctx context.Context, text, instruction string) (string, error)
}

func (e *Editor) Edit(ctx context.Context, text, instruction string) (string, error) {
	return e.EditFn(ctx, text, instruction)
}
