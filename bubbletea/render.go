package bubbletea

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Youngleechen/writeedit"
)

// docStyles holds resolved lipgloss styles for the review surface.
type docStyles struct {
	plain          lipgloss.Style
	inserted       lipgloss.Style
	deleted        lipgloss.Style
	activeInserted lipgloss.Style
	activeDeleted  lipgloss.Style
	statusBar      lipgloss.Style
	statusDirty    lipgloss.Style
	help           lipgloss.Style
}

func newDocStyles(r *lipgloss.Renderer, st writeedit.Styles) docStyles {
	mk := func(p writeedit.ColorPair) lipgloss.Style {
		s := r.NewStyle()
		if p.Foreground != "" {
			s = s.Foreground(lipgloss.Color(p.Foreground))
		}
		if p.Background != "" {
			s = s.Background(lipgloss.Color(p.Background))
		}
		return s
	}
	return docStyles{
		plain:          mk(st.Plain),
		inserted:       mk(st.Inserted),
		deleted:        mk(st.Deleted).Strikethrough(true),
		activeInserted: mk(st.ActiveInserted),
		activeDeleted:  mk(st.ActiveDeleted).Strikethrough(true),
		statusBar:      mk(st.StatusBar),
		statusDirty:    mk(st.StatusDirty).Bold(true),
		help:           mk(st.Help),
	}
}

// renderTracked renders the tracked document with deletions struck through
// and insertions highlighted. The group with activeID gets the active styles.
// A non-negative caret draws a visible caret at that clean-text rune offset.
func renderTracked(doc *writeedit.TrackedDocument, activeID string, caret int, ds docStyles) string {
	var sb strings.Builder
	cum := 0
	caretDrawn := caret < 0

	for _, n := range doc.Nodes {
		switch n.Kind {
		case writeedit.NodeText:
			cum = writeSpan(&sb, n.Text, ds.plain, caret, cum, &caretDrawn)
		case writeedit.NodeChange:
			del, ins := ds.deleted, ds.inserted
			if n.Group.ID == activeID {
				del, ins = ds.activeDeleted, ds.activeInserted
			}
			if n.Group.Deleted != "" {
				// Deleted text has no clean offset; the caret never lands here.
				sb.WriteString(del.Render(n.Group.Deleted))
			}
			if n.Group.Inserted != "" {
				cum = writeSpan(&sb, n.Group.Inserted, ins, caret, cum, &caretDrawn)
			}
		}
	}

	if !caretDrawn {
		sb.WriteString(ds.plain.Reverse(true).Render(" "))
	}
	return sb.String()
}

// renderClean renders the clean text only, with an optional caret.
func renderClean(text string, caret int, ds docStyles) string {
	var sb strings.Builder
	caretDrawn := caret < 0
	writeSpan(&sb, text, ds.plain, caret, 0, &caretDrawn)
	if !caretDrawn {
		sb.WriteString(ds.plain.Reverse(true).Render(" "))
	}
	return sb.String()
}

// writeSpan renders one styled span, splitting it around the caret rune when
// the caret falls inside. Returns the clean offset after the span.
func writeSpan(sb *strings.Builder, text string, style lipgloss.Style, caret, cum int, caretDrawn *bool) int {
	r := []rune(text)
	end := cum + len(r)
	if *caretDrawn || caret < cum || caret >= end {
		sb.WriteString(style.Render(text))
		return end
	}
	at := caret - cum
	if at > 0 {
		sb.WriteString(style.Render(string(r[:at])))
	}
	ch := string(r[at])
	if ch == "\n" {
		// A caret on a newline renders as a reverse space before the break.
		sb.WriteString(style.Reverse(true).Render(" "))
		sb.WriteString("\n")
	} else {
		sb.WriteString(style.Reverse(true).Render(ch))
	}
	if at+1 < len(r) {
		sb.WriteString(style.Render(string(r[at+1:])))
	}
	*caretDrawn = true
	return end
}
