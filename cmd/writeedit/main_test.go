package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Youngleechen/writeedit"
	"github.com/Youngleechen/writeedit/htmlmark"
	"github.com/Youngleechen/writeedit/mock"
	"github.com/Youngleechen/writeedit/toml"
	"github.com/Youngleechen/writeedit/worddiff"
)

func newTestApp() (*App, *[]tea.Model) {
	var ran []tea.Model
	app := &App{
		Store: &mock.DocumentStore{
			SaveFn: func(ctx context.Context, doc writeedit.StoredDocument) error { return nil },
		},
		Differ: worddiff.NewDiffer(),
		Codec:  htmlmark.NewCodec(),
		Config: toml.Default(),
		RunProgram: func(m tea.Model) error {
			ran = append(ran, m)
			return nil
		},
	}
	return app, &ran
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestApp_Diff(t *testing.T) {
	t.Parallel()

	app, ran := newTestApp()
	original := writeFile(t, "a.txt", "one two three")
	edited := writeFile(t, "b.txt", "one three")

	require.NoError(t, app.Diff(original, edited))
	assert.Len(t, *ran, 1)
}

func TestApp_Diff_MissingFile(t *testing.T) {
	t.Parallel()

	app, _ := newTestApp()
	err := app.Diff(filepath.Join(t.TempDir(), "missing.txt"), filepath.Join(t.TempDir(), "also.txt"))
	assert.Error(t, err)
}

func TestApp_Edit(t *testing.T) {
	t.Parallel()

	app, ran := newTestApp()
	var gotText, gotInstruction string
	app.Editor = &mock.Editor{
		EditFn: func(ctx context.Context, text, instruction string) (string, error) {
			gotText, gotInstruction = text, instruction
			return "edited version", nil
		},
	}
	path := writeFile(t, "doc.txt", "original version")

	require.NoError(t, app.Edit(context.Background(), path, "tighten this up"))
	assert.Equal(t, "original version", gotText)
	assert.Equal(t, "tighten this up", gotInstruction)
	assert.Len(t, *ran, 1)
}

func TestApp_Edit_WithoutEditor(t *testing.T) {
	t.Parallel()

	app, _ := newTestApp()
	path := writeFile(t, "doc.txt", "text")

	err := app.Edit(context.Background(), path, "anything")
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestApp_Edit_EditorFailure(t *testing.T) {
	t.Parallel()

	app, ran := newTestApp()
	app.Editor = &mock.Editor{
		EditFn: func(ctx context.Context, text, instruction string) (string, error) {
			return "", assert.AnError
		},
	}
	path := writeFile(t, "doc.txt", "text")

	err := app.Edit(context.Background(), path, "anything")
	assert.ErrorIs(t, err, assert.AnError)
	assert.Empty(t, *ran)
}

func TestApp_Resume(t *testing.T) {
	t.Parallel()

	app, ran := newTestApp()
	stored := &writeedit.StoredDocument{
		ID:            "doc-1",
		OriginalText:  "one two",
		EditedText:    "one three",
		TrackedMarkup: `one <span class="change" data-group-id="g"><del>two</del><ins>three</ins></span>`,
	}
	app.Store = &mock.DocumentStore{
		LoadFn: func(ctx context.Context, id string) (*writeedit.StoredDocument, error) {
			assert.Equal(t, "doc-1", id)
			return stored, nil
		},
	}

	require.NoError(t, app.Resume(context.Background(), "doc-1"))
	assert.Len(t, *ran, 1)
}

func TestApp_Resume_NotFound(t *testing.T) {
	t.Parallel()

	app, _ := newTestApp()
	app.Store = &mock.DocumentStore{
		LoadFn: func(ctx context.Context, id string) (*writeedit.StoredDocument, error) {
			return nil, writeedit.ErrNotFound
		},
	}

	err := app.Resume(context.Background(), "nope")
	assert.ErrorIs(t, err, writeedit.ErrNotFound)
}

func TestApp_List(t *testing.T) {
	t.Parallel()

	app, _ := newTestApp()
	app.Store = &mock.DocumentStore{
		ListFn: func(ctx context.Context) ([]writeedit.DocumentInfo, error) {
			return []writeedit.DocumentInfo{
				{ID: "recent", Preview: "line one\nline two", UpdatedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)},
				{ID: "older", Preview: "other doc", UpdatedAt: time.Date(2026, 2, 1, 9, 30, 0, 0, time.UTC)},
			}, nil
		},
	}

	var sb strings.Builder
	require.NoError(t, app.List(context.Background(), &sb))

	out := sb.String()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "ID")
	assert.Contains(t, lines[1], "recent")
	assert.Contains(t, lines[1], "line one line two") // newlines flattened
	assert.Contains(t, lines[2], "older")
}

func TestApp_List_Empty(t *testing.T) {
	t.Parallel()

	app, _ := newTestApp()
	app.Store = &mock.DocumentStore{
		ListFn: func(ctx context.Context) ([]writeedit.DocumentInfo, error) {
			return nil, nil
		},
	}

	var sb strings.Builder
	require.NoError(t, app.List(context.Background(), &sb))
	assert.Contains(t, sb.String(), "ID")
}
