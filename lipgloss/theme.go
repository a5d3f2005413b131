// Package lipgloss provides theme implementations using the Lipgloss styling library.
package lipgloss

import "github.com/Youngleechen/writeedit"

// Compile-time interface verification.
var _ writeedit.Theme = (*Theme)(nil)

// Theme implements writeedit.Theme with Lipgloss-compatible colors.
type Theme struct {
	styles writeedit.Styles
}

// Styles returns the color styles for this theme.
func (t *Theme) Styles() writeedit.Styles {
	return t.styles
}

// DefaultTheme returns the default theme (dark background optimized).
func DefaultTheme() *Theme {
	return DarkTheme()
}

// DarkTheme returns a theme optimized for dark terminal backgrounds.
func DarkTheme() *Theme {
	return &Theme{
		styles: writeedit.Styles{
			Plain: writeedit.ColorPair{
				Foreground: "#cdd6f4", // Soft white
			},
			Inserted: writeedit.ColorPair{
				Foreground: "#a6e3a1", // Green
			},
			Deleted: writeedit.ColorPair{
				Foreground: "#f38ba8", // Red
			},
			ActiveInserted: writeedit.ColorPair{
				Foreground: "#1e1e2e", // Dark text
				Background: "#a6e3a1", // Bright green
			},
			ActiveDeleted: writeedit.ColorPair{
				Foreground: "#1e1e2e", // Dark text
				Background: "#f38ba8", // Bright red
			},
			StatusBar: writeedit.ColorPair{
				Foreground: "#cdd6f4",
				Background: "#313244", // Dark surface
			},
			StatusDirty: writeedit.ColorPair{
				Foreground: "#f9e2af", // Yellow
				Background: "#313244",
			},
			Help: writeedit.ColorPair{
				Foreground: "#6c7086", // Muted gray
			},
		},
	}
}

// LightTheme returns a theme optimized for light terminal backgrounds.
func LightTheme() *Theme {
	return &Theme{
		styles: writeedit.Styles{
			Plain: writeedit.ColorPair{
				Foreground: "#4c4f69",
			},
			Inserted: writeedit.ColorPair{
				Foreground: "#40a02b", // Green
			},
			Deleted: writeedit.ColorPair{
				Foreground: "#d20f39", // Red
			},
			ActiveInserted: writeedit.ColorPair{
				Foreground: "#eff1f5",
				Background: "#40a02b",
			},
			ActiveDeleted: writeedit.ColorPair{
				Foreground: "#eff1f5",
				Background: "#d20f39",
			},
			StatusBar: writeedit.ColorPair{
				Foreground: "#4c4f69",
				Background: "#ccd0da",
			},
			StatusDirty: writeedit.ColorPair{
				Foreground: "#df8e1d",
				Background: "#ccd0da",
			},
			Help: writeedit.ColorPair{
				Foreground: "#8c8fa1",
			},
		},
	}
}
