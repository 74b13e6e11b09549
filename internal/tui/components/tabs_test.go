package components

import (
	"strings"
	"testing"

	"charm.land/lipgloss/v2"
	"github.com/stretchr/testify/assert"
)

func TestTab_Title(t *testing.T) {
	assert.Equal(t, "Pipeline", Tab{Label: "Pipeline"}.Title())
	assert.Equal(t, "Pipeline ⟳ 3", Tab{Label: "Pipeline", Saving: 3}.Title())
}

func TestRenderTabs(t *testing.T) {
	InitStyles()
	tabs := []Tab{{Label: "Pipeline", Saving: 2}, {Label: "Dashboard"}}

	out := RenderTabs(tabs, 0, 80, "")
	assert.Contains(t, out, "Pipeline ⟳ 2")
	assert.Contains(t, out, "Dashboard")
	assert.Len(t, strings.Split(out, "\n"), 3)

	withNote := RenderTabs(tabs, 1, 80, "saved")
	assert.Contains(t, withNote, "saved")
	assert.Equal(t, lipgloss.Width(out), lipgloss.Width(withNote))
}
