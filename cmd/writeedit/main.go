// Command writeedit reviews AI-assisted document edits as tracked changes.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/Youngleechen/writeedit"
	"github.com/Youngleechen/writeedit/bubbletea"
	"github.com/Youngleechen/writeedit/gemini"
	"github.com/Youngleechen/writeedit/htmlmark"
	"github.com/Youngleechen/writeedit/lipgloss"
	"github.com/Youngleechen/writeedit/sqlite"
	"github.com/Youngleechen/writeedit/toml"
	"github.com/Youngleechen/writeedit/worddiff"
)

const usage = `Usage: writeedit <command>

Commands:
  edit <file> <instruction>       AI-edit a file and review the changes
  review <original> <edited>      diff two files and review the changes
  resume <id>                     reopen a saved review
  list                            show saved reviews`

// ErrMissingAPIKey is returned when the edit command runs without credentials.
var ErrMissingAPIKey = errors.New("GEMINI_API_KEY not set")

// App encapsulates the application logic for testing.
type App struct {
	Store  writeedit.DocumentStore
	Editor writeedit.Editor
	Differ writeedit.WordDiffer
	Codec  writeedit.MarkupCodec
	Theme  writeedit.Theme
	Logger zerolog.Logger
	Config toml.Config

	// RunProgram runs the review UI; injectable for tests.
	RunProgram func(m tea.Model) error
}

// Edit applies the instruction to the file's text via the AI editor, then
// opens the tracked-changes review.
func (a *App) Edit(ctx context.Context, path, instruction string) error {
	if a.Editor == nil {
		return ErrMissingAPIKey
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	original := string(data)

	edited, err := a.Editor.Edit(ctx, original, instruction)
	if err != nil {
		return fmt.Errorf("ai edit: %w", err)
	}

	return a.Review(uuid.NewString(), original, edited, "")
}

// Diff opens a review of two existing files.
func (a *App) Diff(originalPath, editedPath string) error {
	original, err := os.ReadFile(originalPath)
	if err != nil {
		return err
	}
	edited, err := os.ReadFile(editedPath)
	if err != nil {
		return err
	}
	return a.Review(uuid.NewString(), string(original), string(edited), "")
}

// Resume reopens a saved review, restoring its exact state from markup.
func (a *App) Resume(ctx context.Context, id string) error {
	doc, err := a.Store.Load(ctx, id)
	if err != nil {
		return err
	}
	return a.Review(doc.ID, doc.OriginalText, doc.EditedText, doc.TrackedMarkup)
}

// List prints saved reviews, most recent first.
func (a *App) List(ctx context.Context, w io.Writer) error {
	infos, err := a.Store.List(ctx)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tUPDATED\tPREVIEW")
	for _, info := range infos {
		preview := strings.ReplaceAll(info.Preview, "\n", " ")
		fmt.Fprintf(tw, "%s\t%s\t%s\n", info.ID, info.UpdatedAt.Format("2006-01-02 15:04"), preview)
	}
	return tw.Flush()
}

// Review wires a session and runs the interactive surface.
func (a *App) Review(id, original, edited, markup string) error {
	scheduler := writeedit.NewScheduler(a.Differ, writeedit.WithSyncThreshold(a.Config.DiffThreshold))
	sess := writeedit.NewSession(scheduler, a.Codec)

	m := bubbletea.NewEditorModel(sess, original, edited, markup,
		bubbletea.WithTheme(a.Theme),
		bubbletea.WithStore(a.Store, id),
		bubbletea.WithLogger(a.Logger),
		bubbletea.WithAutosaveDelay(a.Config.AutosaveDelay.Duration),
	)
	return a.RunProgram(m)
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	if len(os.Args) < 2 {
		return errors.New(usage)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := toml.Load(toml.DefaultPath())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := newLogger(cfg.LogPath)

	store, err := sqlite.Open(cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer store.Close()

	app := &App{
		Store:  store,
		Differ: worddiff.NewDiffer(),
		Codec:  htmlmark.NewCodec(),
		Theme:  lipgloss.DefaultTheme(),
		Logger: logger,
		Config: cfg,
		RunProgram: func(m tea.Model) error {
			_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
			return err
		},
	}

	switch os.Args[1] {
	case "edit":
		if len(os.Args) < 4 {
			return errors.New("usage: writeedit edit <file> <instruction>")
		}
		if key := os.Getenv("GEMINI_API_KEY"); key != "" {
			client, err := gemini.NewClient(ctx, key)
			if err != nil {
				return err
			}
			defer client.Close()
			app.Editor = gemini.NewEditor(client, cfg.Model)
		}
		return app.Edit(ctx, os.Args[2], strings.Join(os.Args[3:], " "))
	case "review":
		if len(os.Args) != 4 {
			return errors.New("usage: writeedit review <original> <edited>")
		}
		return app.Diff(os.Args[2], os.Args[3])
	case "resume":
		if len(os.Args) != 3 {
			return errors.New("usage: writeedit resume <id>")
		}
		return app.Resume(ctx, os.Args[2])
	case "list":
		return app.List(ctx, os.Stdout)
	default:
		return fmt.Errorf("unknown command %q\n\n%s", os.Args[1], usage)
	}
}

// newLogger writes to a rotated log file. The terminal belongs to the TUI,
// so nothing logs to stderr while a review is open.
func newLogger(path string) zerolog.Logger {
	return zerolog.New(&lumberjack.Logger{
		Filename:   path,
		MaxSize:    5, // megabytes
		MaxBackups: 2,
	}).With().Timestamp().Logger()
}
