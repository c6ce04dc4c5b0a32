package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	editorPane := paneStyle.Render(titleStyle.Render("DESCRIPTION") + "\n" + m.editor.View())

	diagram := m.diagram
	if m.width > 0 {
		// Keep the diagram within the right-hand half.
		maxWidth := m.width/2 - paneStyle.GetHorizontalFrameSize()
		diagram = lipgloss.NewStyle().MaxWidth(maxWidth).Render(diagram)
	}
	diagramPane := paneStyle.Render(titleStyle.Render("DIAGRAM") + "\n" + strings.TrimRight(diagram, "\n"))

	body := lipgloss.JoinHorizontal(lipgloss.Top, editorPane, diagramPane)

	status := statusStyle.Render(m.statusMsg)
	if m.err != nil {
		status = errorStyle.Render("save failed: " + m.err.Error())
	}
	help := helpStyle.Render("ctrl+s save • esc quit")

	return body + "\n" + status + "\n" + help
}
