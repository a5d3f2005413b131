package lipgloss_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Youngleechen/writeedit"
	"github.com/Youngleechen/writeedit/lipgloss"
)

func TestDefaultTheme(t *testing.T) {
	t.Parallel()

	t.Run("implements Theme interface", func(t *testing.T) {
		t.Parallel()

		var _ writeedit.Theme = lipgloss.DefaultTheme()
	})

	t.Run("returns styles with inserted span coloring", func(t *testing.T) {
		t.Parallel()

		styles := lipgloss.DefaultTheme().Styles()
		assert.NotEmpty(t, styles.Inserted.Foreground)
	})

	t.Run("returns styles with deleted span coloring", func(t *testing.T) {
		t.Parallel()

		styles := lipgloss.DefaultTheme().Styles()
		assert.NotEmpty(t, styles.Deleted.Foreground)
	})

	t.Run("active spans are highlighted with a background", func(t *testing.T) {
		t.Parallel()

		styles := lipgloss.DefaultTheme().Styles()
		assert.NotEmpty(t, styles.ActiveInserted.Background)
		assert.NotEmpty(t, styles.ActiveDeleted.Background)
	})

	t.Run("status bar has a background", func(t *testing.T) {
		t.Parallel()

		styles := lipgloss.DefaultTheme().Styles()
		assert.NotEmpty(t, styles.StatusBar.Background)
	})
}

func TestLightTheme(t *testing.T) {
	t.Parallel()

	dark := lipgloss.DarkTheme().Styles()
	light := lipgloss.LightTheme().Styles()

	assert.NotEmpty(t, light.Inserted.Foreground)
	assert.NotEmpty(t, light.Deleted.Foreground)
	assert.NotEqual(t, dark.Plain.Foreground, light.Plain.Foreground)
}
