package writeedit

// ColorPair represents a foreground and background color combination.
// Colors should be hex strings in "#RRGGBB" format (e.g., "#ff0000" for red).
// Empty strings are valid and indicate no color override (use terminal default).
type ColorPair struct {
	Foreground string
	Background string
}

// Styles contains color pairs for all visual elements of the review surface.
type Styles struct {
	Plain          ColorPair // Unchanged text runs
	Inserted       ColorPair // Inserted spans
	Deleted        ColorPair // Deleted spans (rendered struck through)
	ActiveInserted ColorPair // Inserted span of the focused change group
	ActiveDeleted  ColorPair // Deleted span of the focused change group
	StatusBar      ColorPair // Status line
	StatusDirty    ColorPair // Unsaved-changes indicator in the status line
	Help           ColorPair // Key help line
}

// Theme provides styles for rendering the review surface.
// Different implementations can provide light/dark variants.
type Theme interface {
	Styles() Styles
}
