package writeedit

import "fmt"

// ValidationReason identifies why a tracked document node is invalid.
type ValidationReason string

// Validation error reasons.
const (
	ErrEmptyGroup   ValidationReason = "empty_group"
	ErrMissingGroup ValidationReason = "missing_group"
	ErrEmptyRun     ValidationReason = "empty_run"
)

// ValidationError describes a single structural failure in a tracked document.
type ValidationError struct {
	Node   int              // Index of the offending node
	Reason ValidationReason // Why this node is invalid
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	switch e.Reason {
	case ErrEmptyGroup:
		return fmt.Sprintf("node %d: change group has neither deleted nor inserted text", e.Node)
	case ErrMissingGroup:
		return fmt.Sprintf("node %d: change node has no group", e.Node)
	case ErrEmptyRun:
		return fmt.Sprintf("node %d: empty text run", e.Node)
	default:
		return fmt.Sprintf("node %d: unknown validation failure", e.Node)
	}
}

// ValidateDocument checks the structural invariants of a tracked document:
// every change node carries a group, no group is empty on both sides, and no
// text run is empty. Returns a slice of validation errors, or nil if the
// document is valid.
func ValidateDocument(doc *TrackedDocument) []ValidationError {
	var errs []ValidationError
	for i, n := range doc.Nodes {
		switch n.Kind {
		case NodeText:
			if n.Text == "" {
				errs = append(errs, ValidationError{Node: i, Reason: ErrEmptyRun})
			}
		case NodeChange:
			if n.Group == nil {
				errs = append(errs, ValidationError{Node: i, Reason: ErrMissingGroup})
				continue
			}
			if n.Group.Deleted == "" && n.Group.Inserted == "" {
				errs = append(errs, ValidationError{Node: i, Reason: ErrEmptyGroup})
			}
		}
	}
	return errs
}
