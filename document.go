package writeedit

import (
	"strings"

	"github.com/google/uuid"
)

// NewGroupID returns a fresh stable identity for a change group.
func NewGroupID() string {
	return uuid.NewString()
}

// CleanText returns the canonical plain text: unchanged runs plus the
// inserted side of every change group. Pure; safe to call at any time.
func (d *TrackedDocument) CleanText() string {
	var sb strings.Builder
	for _, n := range d.Nodes {
		switch n.Kind {
		case NodeText:
			sb.WriteString(n.Text)
		case NodeChange:
			sb.WriteString(n.Group.Inserted)
		}
	}
	return sb.String()
}

// OriginalText returns the pre-edit projection: unchanged runs plus the
// deleted side of every change group.
func (d *TrackedDocument) OriginalText() string {
	var sb strings.Builder
	for _, n := range d.Nodes {
		switch n.Kind {
		case NodeText:
			sb.WriteString(n.Text)
		case NodeChange:
			sb.WriteString(n.Group.Deleted)
		}
	}
	return sb.String()
}

// CleanLength returns the length of the clean text in runes.
func (d *TrackedDocument) CleanLength() int {
	total := 0
	for i := range d.Nodes {
		total += cleanRuneLen(&d.Nodes[i])
	}
	return total
}

// Groups returns all change groups in document order.
func (d *TrackedDocument) Groups() []*ChangeGroup {
	var groups []*ChangeGroup
	for _, n := range d.Nodes {
		if n.Kind == NodeChange {
			groups = append(groups, n.Group)
		}
	}
	return groups
}

// Group returns the change group with the given id, or nil.
func (d *TrackedDocument) Group(id string) *ChangeGroup {
	for _, n := range d.Nodes {
		if n.Kind == NodeChange && n.Group.ID == id {
			return n.Group
		}
	}
	return nil
}

// Accept collapses the group into its inserted text, discarding the deletion.
// Returns false if no group has the given id.
func (d *TrackedDocument) Accept(id string) bool {
	return d.collapse(id, true)
}

// Reject collapses the group into its deleted text, discarding the insertion.
func (d *TrackedDocument) Reject(id string) bool {
	return d.collapse(id, false)
}

func (d *TrackedDocument) collapse(id string, keepInserted bool) bool {
	for i := range d.Nodes {
		n := d.Nodes[i]
		if n.Kind != NodeChange || n.Group.ID != id {
			continue
		}
		text := n.Group.Inserted
		if !keepInserted {
			text = n.Group.Deleted
		}
		if text == "" {
			d.splice(i, 1)
		} else {
			d.Nodes[i] = Node{Kind: NodeText, Text: text}
		}
		d.normalize()
		return true
	}
	return false
}

// InsertAt records typed or pasted text at a clean-text rune offset. The text
// is never spliced in as plain text: it lands in the inserted span of a change
// group so the edit stays reviewable. An offset inside or at the end of an
// existing inserted span extends that group; anywhere else a new insert-only
// group is created. Returns the group that received the text.
func (d *TrackedDocument) InsertAt(offset int, text string) *ChangeGroup {
	if text == "" {
		return nil
	}
	cum := 0
	for i := range d.Nodes {
		n := &d.Nodes[i]
		l := cleanRuneLen(n)
		if offset > cum+l {
			cum += l
			continue
		}
		at := offset - cum
		if n.Kind == NodeChange {
			if n.Group.Inserted == "" {
				// Deletion-only group; the offset binds to the next node.
				continue
			}
			if at > 0 {
				r := []rune(n.Group.Inserted)
				n.Group.Inserted = string(r[:at]) + text + string(r[at:])
				return n.Group
			}
			// The start of an inserted span mints a new group before it.
			g := &ChangeGroup{ID: NewGroupID(), Inserted: text}
			d.splice(i, 0, Node{Kind: NodeChange, Group: g})
			return g
		}
		r := []rune(n.Text)
		g := &ChangeGroup{ID: NewGroupID(), Inserted: text}
		before, after := string(r[:at]), string(r[at:])
		repl := make([]Node, 0, 3)
		if before != "" {
			repl = append(repl, Node{Kind: NodeText, Text: before})
		}
		repl = append(repl, Node{Kind: NodeChange, Group: g})
		if after != "" {
			repl = append(repl, Node{Kind: NodeText, Text: after})
		}
		d.splice(i, 1, repl...)
		return g
	}
	// Past the last node (empty document or trailing deletion-only groups).
	g := &ChangeGroup{ID: NewGroupID(), Inserted: text}
	d.Nodes = append(d.Nodes, Node{Kind: NodeChange, Group: g})
	return g
}

// DeleteBackwardAt records a backspace at a clean-text rune offset: the rune
// before the offset is removed from the clean view. Returns the removed rune
// and whether anything was removed.
func (d *TrackedDocument) DeleteBackwardAt(offset int) (string, bool) {
	if offset <= 0 {
		return "", false
	}
	return d.deleteRuneAt(offset - 1)
}

// DeleteForwardAt records a forward delete at a clean-text rune offset.
func (d *TrackedDocument) DeleteForwardAt(offset int) (string, bool) {
	return d.deleteRuneAt(offset)
}

// deleteRuneAt removes the clean-text rune at offset. A rune belonging to an
// unchanged run is wrapped in a delete group (extending an adjacent group so
// repeated keystrokes accumulate); a rune that was itself inserted is removed
// from its span, since it was never part of the original.
func (d *TrackedDocument) deleteRuneAt(offset int) (string, bool) {
	cum := 0
	for i := range d.Nodes {
		n := &d.Nodes[i]
		l := cleanRuneLen(n)
		if offset >= cum+l {
			cum += l
			continue
		}
		at := offset - cum
		if n.Kind == NodeChange {
			r := []rune(n.Group.Inserted)
			ch := string(r[at])
			n.Group.Inserted = string(r[:at]) + string(r[at+1:])
			d.normalize()
			return ch, true
		}
		r := []rune(n.Text)
		ch := string(r[at])
		before, after := string(r[:at]), string(r[at+1:])
		switch {
		case after == "" && i+1 < len(d.Nodes) && d.Nodes[i+1].Kind == NodeChange:
			n.Text = before
			g := d.Nodes[i+1].Group
			g.Deleted = ch + g.Deleted
		case before == "" && i > 0 && d.Nodes[i-1].Kind == NodeChange:
			n.Text = after
			g := d.Nodes[i-1].Group
			g.Deleted += ch
		default:
			g := &ChangeGroup{ID: NewGroupID(), Deleted: ch}
			repl := make([]Node, 0, 3)
			if before != "" {
				repl = append(repl, Node{Kind: NodeText, Text: before})
			}
			repl = append(repl, Node{Kind: NodeChange, Group: g})
			if after != "" {
				repl = append(repl, Node{Kind: NodeText, Text: after})
			}
			d.splice(i, 1, repl...)
		}
		d.normalize()
		return ch, true
	}
	return "", false
}

// cleanRuneLen returns a node's contribution to the clean text, in runes.
// Deleted text contributes nothing.
func cleanRuneLen(n *Node) int {
	if n.Kind == NodeText {
		return len([]rune(n.Text))
	}
	return len([]rune(n.Group.Inserted))
}

// splice replaces count nodes starting at i with repl.
func (d *TrackedDocument) splice(i, count int, repl ...Node) {
	out := make([]Node, 0, len(d.Nodes)-count+len(repl))
	out = append(out, d.Nodes[:i]...)
	out = append(out, repl...)
	out = append(out, d.Nodes[i+count:]...)
	d.Nodes = out
}

// normalize merges adjacent text runs and drops empty runs and empty groups.
func (d *TrackedDocument) normalize() {
	out := d.Nodes[:0]
	for _, n := range d.Nodes {
		if n.Kind == NodeText {
			if n.Text == "" {
				continue
			}
			if len(out) > 0 && out[len(out)-1].Kind == NodeText {
				out[len(out)-1].Text += n.Text
				continue
			}
		} else if n.Group == nil || (n.Group.Deleted == "" && n.Group.Inserted == "") {
			continue
		}
		out = append(out, n)
	}
	d.Nodes = out
}
