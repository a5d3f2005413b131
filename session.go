package writeedit

import (
	"errors"
	"fmt"
	"unicode/utf8"
)

// SessionState represents the review session lifecycle.
type SessionState int

// Session states.
const (
	StateIdle     SessionState = iota // no document loaded
	StateLoaded                       // document rendered and interactive
	StateMutating                     // a structural mutation is in progress
)

// Session errors.
var (
	// ErrNotLoaded is returned when an operation requires a loaded document.
	ErrNotLoaded = errors.New("no document loaded")
	// ErrBusy is returned when a mutation arrives while another is still in
	// progress. Callers drop the operation; it indicates a reentrant call in
	// single-threaded code, not a user-facing condition.
	ErrBusy = errors.New("mutation in progress")
	// ErrNoSuchGroup is returned when no change group has the requested id.
	ErrNoSuchGroup = errors.New("no such change group")
)

// Session owns the review state for one open document: the tracked document,
// the caret as a clean-text rune offset, and the markup baseline used for
// unsaved-change detection. It is single-goroutine; reentrancy is guarded by
// the Mutating state, not a lock.
type Session struct {
	scheduler *Scheduler
	codec     MarkupCodec

	state    SessionState
	original string
	doc      *TrackedDocument
	baseline string // serialized markup at load and after each save
	caret    int
}

// NewSession creates a Session using the given scheduler and markup codec.
func NewSession(scheduler *Scheduler, codec MarkupCodec) *Session {
	return &Session{scheduler: scheduler, codec: codec}
}

// Load opens a document for review. When saved markup is supplied and parses,
// the prior review state is restored byte-for-byte without rediffing and the
// returned channel is nil. Otherwise the diff is scheduled and the caller
// applies the result with Apply when it arrives; a non-nil error alongside a
// non-nil channel reports malformed markup that was recovered by recomputing.
func (s *Session) Load(original, edited, markup string) (<-chan DiffResult, error) {
	if markup != "" {
		doc, err := s.codec.Parse(markup)
		if err == nil {
			s.install(original, doc)
			return nil, nil
		}
		return s.scheduler.Schedule(original, edited), fmt.Errorf("restore markup: %w", err)
	}
	return s.scheduler.Schedule(original, edited), nil
}

// Apply installs a scheduled diff result. Results issued before a newer
// request are stale and silently discarded; Apply reports whether the result
// was installed.
func (s *Session) Apply(original string, r DiffResult) bool {
	if s.scheduler.Stale(r) {
		return false
	}
	s.install(original, r.Doc)
	return true
}

func (s *Session) install(original string, doc *TrackedDocument) {
	s.original = original
	s.doc = doc
	s.caret = 0
	s.baseline = s.codec.Serialize(doc)
	s.state = StateLoaded
}

// Unload discards the session state.
func (s *Session) Unload() {
	s.state = StateIdle
	s.doc = nil
	s.original = ""
	s.baseline = ""
	s.caret = 0
}

// State returns the current session state.
func (s *Session) State() SessionState {
	return s.state
}

// Document returns the tracked document, or nil when nothing is loaded.
func (s *Session) Document() *TrackedDocument {
	return s.doc
}

// Original returns the original text the review was opened with.
func (s *Session) Original() string {
	return s.original
}

// CleanText returns the canonical plain text of the current review state.
func (s *Session) CleanText() string {
	if s.doc == nil {
		return ""
	}
	return s.doc.CleanText()
}

// Markup returns the serialized form of the current tracked document.
func (s *Session) Markup() string {
	if s.doc == nil {
		return ""
	}
	return s.codec.Serialize(s.doc)
}

// Dirty reports whether the document differs from the baseline captured at
// load and at the last save. Mutating back to the exact baseline state reads
// as clean again.
func (s *Session) Dirty() bool {
	if s.doc == nil {
		return false
	}
	return s.codec.Serialize(s.doc) != s.baseline
}

// MarkSaved records the markup that was successfully persisted as the new
// baseline. Saves are asynchronous: passing the markup that was actually
// written keeps mutations made during the save correctly dirty. A failed
// save must not call this, so no work is ever lost.
func (s *Session) MarkSaved(markup string) {
	if s.doc != nil {
		s.baseline = markup
	}
}

// Caret returns the caret as a clean-text rune offset.
func (s *Session) Caret() int {
	return s.caret
}

// SetCaret moves the caret, clamped to the clean text bounds. Moving the
// caret is not a mutation and never marks the session dirty.
func (s *Session) SetCaret(offset int) {
	if s.doc == nil {
		return
	}
	s.caret = clamp(offset, 0, s.doc.CleanLength())
}

// Accept collapses a change group into its inserted text.
func (s *Session) Accept(id string) error {
	return s.resolve(id, true)
}

// Reject collapses a change group into its deleted text.
func (s *Session) Reject(id string) error {
	return s.resolve(id, false)
}

func (s *Session) resolve(id string, accept bool) error {
	return s.mutate(func() error {
		start, g := s.groupStart(id)
		if g == nil {
			return ErrNoSuchGroup
		}
		insLen := utf8.RuneCountInString(g.Inserted)
		newLen := insLen
		if accept {
			s.doc.Accept(id)
		} else {
			s.doc.Reject(id)
			newLen = utf8.RuneCountInString(g.Deleted)
		}
		// Keep the caret at the same clean-text-equivalent position: offsets
		// past the group shift by the group's length change, offsets inside
		// it clamp to the collapsed text.
		switch {
		case s.caret >= start+insLen:
			s.caret += newLen - insLen
		case s.caret > start+newLen:
			s.caret = start + newLen
		}
		return nil
	})
}

// Insert records typed or pasted text at the caret. The text becomes (or
// extends) an insert-only change group so the edit itself stays reviewable.
func (s *Session) Insert(text string) error {
	if text == "" {
		return nil
	}
	return s.mutate(func() error {
		s.doc.InsertAt(s.caret, text)
		s.caret += utf8.RuneCountInString(text)
		return nil
	})
}

// DeleteBackward records a backspace at the caret. The removed rune is
// tracked as a deletion, not erased, unless it was itself inserted.
func (s *Session) DeleteBackward() error {
	return s.mutate(func() error {
		if _, ok := s.doc.DeleteBackwardAt(s.caret); ok {
			s.caret--
		}
		return nil
	})
}

// DeleteForward records a forward delete at the caret.
func (s *Session) DeleteForward() error {
	return s.mutate(func() error {
		s.doc.DeleteForwardAt(s.caret)
		return nil
	})
}

// mutate runs one structural mutation under the reentrancy guard, then clamps
// the caret to the new clean text bounds.
func (s *Session) mutate(fn func() error) error {
	switch s.state {
	case StateIdle:
		return ErrNotLoaded
	case StateMutating:
		return ErrBusy
	}
	s.state = StateMutating
	defer func() { s.state = StateLoaded }()

	err := fn()
	s.caret = clamp(s.caret, 0, s.doc.CleanLength())
	return err
}

// groupStart returns the clean-text rune offset of a group's inserted span
// and the group itself, or nil when the id is unknown.
func (s *Session) groupStart(id string) (int, *ChangeGroup) {
	cum := 0
	for i := range s.doc.Nodes {
		n := &s.doc.Nodes[i]
		if n.Kind == NodeChange && n.Group.ID == id {
			return cum, n.Group
		}
		cum += cleanRuneLen(n)
	}
	return 0, nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
