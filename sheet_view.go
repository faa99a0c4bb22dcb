package main

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/olivier-w/snapkit/internal/bind"
	"github.com/olivier-w/snapkit/internal/gesture"
)

func (m sheetModel) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 || m.sheet == nil {
		return "\n  snapkit\n"
	}

	openPos := 2.0
	closedPos := float64(m.height) - 4

	// Dependent visuals driven off the animated scalar: backdrop dim and
	// the open-progress bar both follow the same bound source value.
	openness := bind.Eased(closedPos, openPos, 0, 1, bind.EaseOutQuad, true)
	backdrop := bind.Color(closedPos, openPos, backdropClosed, backdropOpen)

	value := m.state.value
	top := int(math.Round(value))
	if top < 0 {
		top = 0
	}
	if top > m.height {
		top = m.height
	}

	var b strings.Builder
	backdropStyle := lipgloss.NewStyle().
		Background(lipgloss.Color(backdrop(value).Hex())).
		Width(m.width)
	for row := 0; row < top; row++ {
		line := ""
		if row == 1 {
			line = "  snapkit — drag the sheet with j/k, release with enter"
		}
		b.WriteString(backdropStyle.Render(line))
		b.WriteString("\n")
	}

	if top < m.height {
		b.WriteString(m.renderSheet(openness(value)))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func (m sheetModel) renderSheet(openness float64) string {
	grip := gripStyle.Render("━━━━")

	status := m.status()
	statusLine := statusStyle.Render(fmt.Sprintf("status %s  ·  snap %s", status, m.state.settledID))
	if m.state.reduced {
		statusLine += helpStyle.Render("  ·  reduced motion")
	}

	bar := fmt.Sprintf("open %s %3.0f%%", m.progress.ViewAs(openness), openness*100)

	help := helpStyle.Render("j/k drag · enter release · esc cancel · o/h/c snap · r motion · q quit")
	if status == gesture.Dragging {
		help = helpStyle.Render("drag past the bottom edge to dismiss")
	}

	content := strings.Join([]string{grip, "", statusLine, bar, "", help}, "\n")

	innerWidth := m.width - 4
	if innerWidth < 20 {
		innerWidth = 20
	}
	top := int(math.Round(m.state.value))
	sheetHeight := m.height - top - 2
	if sheetHeight < 1 {
		sheetHeight = 1
	}

	return sheetStyle.
		Width(innerWidth).
		Height(sheetHeight).
		Render(content)
}

var (
	backdropClosed, _ = colorful.Hex("#16161d")
	backdropOpen, _   = colorful.Hex("#3c3f58")

	sheetStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.AdaptiveColor{Light: "#999999", Dark: "#555555"}).
			Padding(0, 2).
			MarginLeft(1)
	gripStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#BBBBBB", Dark: "#444444"}).
			Align(lipgloss.Center)
	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#555555", Dark: "#BBBBBB"})
	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#999999", Dark: "#666666"})
)
