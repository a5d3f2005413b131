package writeedit

import "strings"

// Format converts an edit script into a tracked document. Equal runs become
// plain text nodes; every maximal run of consecutive Insert/Delete operations
// is bundled into a single change group, so a deletion immediately followed
// by an insertion reads as one replacement the reviewer resolves with one
// action. Groups at the very start or end of the document are valid.
func Format(ops []Operation) *TrackedDocument {
	doc := &TrackedDocument{}
	var deleted, inserted strings.Builder

	flush := func() {
		if deleted.Len() == 0 && inserted.Len() == 0 {
			return
		}
		doc.Nodes = append(doc.Nodes, Node{
			Kind: NodeChange,
			Group: &ChangeGroup{
				ID:       NewGroupID(),
				Deleted:  deleted.String(),
				Inserted: inserted.String(),
			},
		})
		deleted.Reset()
		inserted.Reset()
	}

	for _, op := range ops {
		if op.Text == "" {
			continue
		}
		switch op.Type {
		case OpEqual:
			flush()
			doc.Nodes = append(doc.Nodes, Node{Kind: NodeText, Text: op.Text})
		case OpDelete:
			deleted.WriteString(op.Text)
		case OpInsert:
			inserted.WriteString(op.Text)
		}
	}
	flush()

	doc.normalize()
	return doc
}
