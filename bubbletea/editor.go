// Package bubbletea provides the interactive tracked-changes review surface
// using the Bubble Tea framework.
package bubbletea

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/rs/zerolog"

	"github.com/Youngleechen/writeedit"
)

// editorMode distinguishes reviewing (navigating change groups) from editing
// (typing directly into the surface).
type editorMode int

const (
	modeReview editorMode = iota
	modeEdit
)

// DefaultAutosaveDelay is the inactivity interval after which a dirty
// session is persisted. Mutations never save directly; they only arm this
// debounce.
const DefaultAutosaveDelay = 2 * time.Second

// diffReadyMsg delivers a scheduled diff result to the model.
type diffReadyMsg struct {
	res writeedit.DiffResult
}

// savedMsg reports the outcome of a persistence attempt. markup is the
// serialized state that was actually written, used as the new dirty baseline.
type savedMsg struct {
	markup string
	err    error
}

// autosaveMsg fires after the debounce interval; stale generations are ignored.
type autosaveMsg struct {
	gen int
}

// EditorModel is the Bubble Tea model for reviewing and editing a tracked
// document.
type EditorModel struct {
	session *writeedit.Session
	store   writeedit.DocumentStore
	logger  zerolog.Logger

	docID    string
	original string
	edited   string
	markup   string

	viewport  viewport.Model
	keymap    KeyMap
	styles    docStyles
	wrapStyle lipgloss.Style
	renderer  *lipgloss.Renderer

	mode        editorMode
	activeIdx   int
	showClean   bool
	width       int
	ready       bool
	status      string
	pendingQuit bool

	autosaveDelay time.Duration
	saveGen       int
}

// EditorOption configures an EditorModel.
type EditorOption func(*editorConfig)

type editorConfig struct {
	renderer      *lipgloss.Renderer
	theme         writeedit.Theme
	keymap        *KeyMap
	store         writeedit.DocumentStore
	docID         string
	autosaveDelay time.Duration
	logger        *zerolog.Logger
}

// WithRenderer sets a custom lipgloss renderer for the model.
func WithRenderer(r *lipgloss.Renderer) EditorOption {
	return func(cfg *editorConfig) {
		cfg.renderer = r
	}
}

// WithTheme sets the theme for the model.
func WithTheme(t writeedit.Theme) EditorOption {
	return func(cfg *editorConfig) {
		cfg.theme = t
	}
}

// WithKeyMap overrides the default key bindings.
func WithKeyMap(km KeyMap) EditorOption {
	return func(cfg *editorConfig) {
		cfg.keymap = &km
	}
}

// WithStore enables persistence for the given document id.
func WithStore(store writeedit.DocumentStore, docID string) EditorOption {
	return func(cfg *editorConfig) {
		cfg.store = store
		cfg.docID = docID
	}
}

// WithAutosaveDelay overrides the autosave debounce interval.
func WithAutosaveDelay(d time.Duration) EditorOption {
	return func(cfg *editorConfig) {
		cfg.autosaveDelay = d
	}
}

// WithLogger sets the logger for recoverable faults (malformed markup,
// failed saves). The TUI owns the terminal, so these never print to stderr.
func WithLogger(l zerolog.Logger) EditorOption {
	return func(cfg *editorConfig) {
		cfg.logger = &l
	}
}

// NewEditorModel creates an editor for an original/edited text pair. When
// markup from a previous session is supplied it restores the exact review
// state instead of rediffing.
func NewEditorModel(session *writeedit.Session, original, edited, markup string, opts ...EditorOption) EditorModel {
	cfg := &editorConfig{autosaveDelay: DefaultAutosaveDelay}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.renderer == nil {
		cfg.renderer = lipgloss.DefaultRenderer()
	}
	var styles writeedit.Styles
	if cfg.theme != nil {
		styles = cfg.theme.Styles()
	}
	km := DefaultKeyMap()
	if cfg.keymap != nil {
		km = *cfg.keymap
	}
	logger := zerolog.Nop()
	if cfg.logger != nil {
		logger = *cfg.logger
	}

	return EditorModel{
		session:       session,
		store:         cfg.store,
		logger:        logger,
		docID:         cfg.docID,
		original:      original,
		edited:        edited,
		markup:        markup,
		keymap:        km,
		styles:        newDocStyles(cfg.renderer, styles),
		renderer:      cfg.renderer,
		autosaveDelay: cfg.autosaveDelay,
	}
}

// Init implements tea.Model by loading the document into the session.
func (m EditorModel) Init() tea.Cmd {
	ch, err := m.session.Load(m.original, m.edited, m.markup)
	if err != nil {
		m.logger.Warn().Err(err).Msg("saved markup unreadable, recomputing diff")
	}
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		return diffReadyMsg{res: <-ch}
	}
}

// Update implements tea.Model.
func (m EditorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case diffReadyMsg:
		if m.session.Apply(m.original, msg.res) {
			if msg.res.Fallback {
				m.status = "diff failed — showing edited text without changes"
			}
			m.refresh()
		}
		return m, nil

	case savedMsg:
		if msg.err != nil {
			m.logger.Error().Err(msg.err).Str("doc", m.docID).Msg("save failed")
			m.status = "save failed: " + msg.err.Error()
			return m, nil
		}
		m.session.MarkSaved(msg.markup)
		m.status = "saved"
		return m, nil

	case autosaveMsg:
		if msg.gen == m.saveGen && m.store != nil && m.session.Dirty() {
			return m, m.saveCmd()
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.wrapStyle = m.renderer.NewStyle().Width(msg.Width)
		height := msg.Height - 2 // status + help lines
		if height < 1 {
			height = 1
		}
		if !m.ready {
			m.viewport = viewport.New(msg.Width, height)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = height
		}
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		if m.mode == modeEdit {
			return m.updateEdit(msg)
		}
		return m.updateReview(msg)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m EditorModel) updateReview(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if !key.Matches(msg, m.keymap.Quit) {
		m.pendingQuit = false
	}

	switch {
	case key.Matches(msg, m.keymap.Quit):
		if m.session.Dirty() && !m.pendingQuit {
			m.pendingQuit = true
			m.status = "unsaved changes — press again to quit"
			return m, nil
		}
		return m, tea.Quit

	case key.Matches(msg, m.keymap.NextGroup):
		m.moveGroup(1)
	case key.Matches(msg, m.keymap.PrevGroup):
		m.moveGroup(-1)

	case key.Matches(msg, m.keymap.Accept):
		return m.resolveActive(true)
	case key.Matches(msg, m.keymap.Reject):
		return m.resolveActive(false)
	case key.Matches(msg, m.keymap.AcceptAll):
		return m.resolveAll(true)
	case key.Matches(msg, m.keymap.RejectAll):
		return m.resolveAll(false)

	case key.Matches(msg, m.keymap.EnterEdit):
		if m.session.State() == writeedit.StateLoaded && !m.showClean {
			m.mode = modeEdit
			m.status = ""
			m.refresh()
		}
	case key.Matches(msg, m.keymap.CleanView):
		m.showClean = !m.showClean
		m.refresh()

	case key.Matches(msg, m.keymap.Save):
		if m.store != nil {
			m.saveGen++
			return m, m.saveCmd()
		}

	default:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m EditorModel) updateEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = modeReview
		m.refresh()
		return m, nil
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyBackspace:
		return m.mutated(m.session.DeleteBackward())
	case tea.KeyDelete:
		return m.mutated(m.session.DeleteForward())
	case tea.KeyEnter:
		return m.mutated(m.session.Insert("\n"))
	case tea.KeySpace:
		return m.mutated(m.session.Insert(" "))
	case tea.KeyRunes:
		return m.mutated(m.session.Insert(string(msg.Runes)))
	case tea.KeyLeft:
		m.session.SetCaret(m.session.Caret() - 1)
	case tea.KeyRight:
		m.session.SetCaret(m.session.Caret() + 1)
	case tea.KeyHome:
		m.session.SetCaret(0)
	case tea.KeyEnd:
		m.session.SetCaret(m.session.Document().CleanLength())
	case tea.KeyCtrlS:
		if m.store != nil {
			m.saveGen++
			return m, m.saveCmd()
		}
	}
	m.refresh()
	return m, nil
}

// mutated refreshes after a structural mutation and arms the autosave
// debounce. A writeedit.ErrBusy from a reentrant call is dropped.
func (m EditorModel) mutated(err error) (tea.Model, tea.Cmd) {
	if err != nil {
		m.refresh()
		return m, nil
	}
	m.status = ""
	m.refresh()
	if m.store == nil {
		return m, nil
	}
	m.saveGen++
	gen := m.saveGen
	return m, tea.Tick(m.autosaveDelay, func(time.Time) tea.Msg {
		return autosaveMsg{gen: gen}
	})
}

func (m EditorModel) resolveActive(accept bool) (tea.Model, tea.Cmd) {
	groups := m.groups()
	if len(groups) == 0 {
		return m, nil
	}
	m.activeIdx = clamp(m.activeIdx, 0, len(groups)-1)
	id := groups[m.activeIdx].ID
	var err error
	if accept {
		err = m.session.Accept(id)
	} else {
		err = m.session.Reject(id)
	}
	model, cmd := m.mutated(err)
	em := model.(EditorModel)
	em.activeIdx = clamp(em.activeIdx, 0, len(em.groups())-1)
	return em, cmd
}

func (m EditorModel) resolveAll(accept bool) (tea.Model, tea.Cmd) {
	var err error
	for _, g := range m.groups() {
		if accept {
			err = m.session.Accept(g.ID)
		} else {
			err = m.session.Reject(g.ID)
		}
		if err != nil {
			break
		}
	}
	m.activeIdx = 0
	return m.mutated(err)
}

func (m *EditorModel) moveGroup(delta int) {
	groups := m.groups()
	if len(groups) == 0 {
		return
	}
	m.activeIdx = clamp(m.activeIdx+delta, 0, len(groups)-1)
	m.refresh()
}

func (m *EditorModel) groups() []*writeedit.ChangeGroup {
	doc := m.session.Document()
	if doc == nil {
		return nil
	}
	return doc.Groups()
}

func (m *EditorModel) saveCmd() tea.Cmd {
	doc := writeedit.StoredDocument{
		ID:            m.docID,
		OriginalText:  m.session.Original(),
		EditedText:    m.edited,
		CleanText:     m.session.CleanText(),
		TrackedMarkup: m.session.Markup(),
	}
	store := m.store
	return func() tea.Msg {
		err := store.Save(context.Background(), doc)
		return savedMsg{markup: doc.TrackedMarkup, err: err}
	}
}

func (m *EditorModel) refresh() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.wrapStyle.Render(m.renderContent()))
}

func (m *EditorModel) renderContent() string {
	doc := m.session.Document()
	if doc == nil {
		return "Computing changes…"
	}
	if m.showClean {
		return renderClean(doc.CleanText(), -1, m.styles)
	}
	caret := -1
	if m.mode == modeEdit {
		caret = m.session.Caret()
	}
	activeID := ""
	if m.mode == modeReview {
		if groups := doc.Groups(); len(groups) > 0 {
			activeID = groups[clamp(m.activeIdx, 0, len(groups)-1)].ID
		}
	}
	return renderTracked(doc, activeID, caret, m.styles)
}

// View implements tea.Model.
func (m EditorModel) View() string {
	if !m.ready {
		return "Loading..."
	}
	return m.viewport.View() + "\n" + m.statusLine() + "\n" + m.helpLine()
}

func (m EditorModel) statusLine() string {
	groups := m.groups()

	var left strings.Builder
	switch {
	case m.showClean:
		left.WriteString(" CLEAN ")
	case m.mode == modeEdit:
		left.WriteString(" EDIT ")
	default:
		left.WriteString(" REVIEW ")
	}
	if len(groups) > 0 {
		fmt.Fprintf(&left, "· change %d/%d ", clamp(m.activeIdx, 0, len(groups)-1)+1, len(groups))
	} else if m.session.Document() != nil {
		left.WriteString("· no changes ")
	}
	if m.status != "" {
		left.WriteString("· " + m.status + " ")
	}

	right := " "
	if m.session.Dirty() {
		right = " ● unsaved "
	}

	leftStr := runewidth.Truncate(left.String(), maxInt(m.width-runewidth.StringWidth(right), 0), "…")
	pad := m.width - runewidth.StringWidth(leftStr) - runewidth.StringWidth(right)
	if pad < 0 {
		pad = 0
	}
	line := leftStr + strings.Repeat(" ", pad)
	return m.styles.statusBar.Render(line) + m.styles.statusDirty.Render(right)
}

func (m EditorModel) helpLine() string {
	var h string
	if m.mode == modeEdit {
		h = " type to insert · backspace/del tracked delete · ←/→ move · esc review · ctrl+s save"
	} else {
		h = " tab/n next · a accept · r reject · A/R all · e edit · c clean view · s save · q quit"
	}
	return m.styles.help.Render(runewidth.Truncate(h, maxInt(m.width, 0), "…"))
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
