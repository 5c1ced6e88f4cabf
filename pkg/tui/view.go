package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

const minWidth = 40
const minHeight = 10

func listWidth(w int) int {
	return max(w/3, 24)
}

func detailWidth(w int) int {
	return max(w-listWidth(w)-1, 20)
}

// View implements tea.Model.
func (m Model) View() string {
	w := max(m.width, minWidth)
	h := max(m.height, minHeight)

	if m.showHelpModal {
		return placeOverlay(m.renderHelpModal(), w, h)
	}
	if m.showDeleteConfirm {
		return placeOverlay(m.renderDeleteModal(), w, h)
	}
	if m.isImporting {
		return placeOverlay(m.renderImportModal(), w, h)
	}

	var b strings.Builder

	b.WriteString(m.renderHeader(w))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", w))
	b.WriteString("\n")

	headerLines := 2
	footerLines := 2
	searchActive := m.isSearching || m.searchQuery != ""
	if searchActive {
		headerLines++
		b.WriteString(m.renderSearchBar(w))
		b.WriteString("\n")
	}
	contentHeight := h - headerLines - footerLines

	leftWidth := listWidth(w)
	rightWidth := detailWidth(w)
	leftPanel := m.renderListPanel(leftWidth, contentHeight)
	rightPanel := m.renderDetailPanel(rightWidth, contentHeight)

	sepColor := ColorGrayDim
	if m.focusedPane == panePlans {
		sepColor = ColorPurple
	}
	sep := lipgloss.NewStyle().Foreground(sepColor).Render("│")
	for i := range contentHeight {
		b.WriteString(getLine(leftPanel, i, leftWidth))
		b.WriteString(sep)
		b.WriteString(getLine(rightPanel, i, rightWidth))
		b.WriteString("\n")
	}

	b.WriteString(strings.Repeat("─", w))
	b.WriteString("\n")
	b.WriteString(m.renderFooter(w))

	return b.String()
}

func (m Model) renderHeader(width int) string {
	title := HeaderStyle.Render("planlog")

	completed := 0
	for _, g := range m.goals {
		if g.IsComplete() {
			completed++
		}
	}
	stats := HeaderCountStyle.Render(fmt.Sprintf("%d/%d goals completed", completed, len(m.goals)))

	status := ""
	if m.statusMsg != "" && time.Now().Before(m.statusTimeout) {
		status = StatusMsgStyle.Render(m.statusMsg) + "  "
	}

	gap := max(width-lipgloss.Width(title)-lipgloss.Width(stats)-lipgloss.Width(status), 1)
	return title + strings.Repeat(" ", gap) + status + stats
}

func (m Model) renderSearchBar(width int) string {
	left := SearchBarStyle.Render(" / " + m.searchQuery)
	if m.isSearching {
		left += SearchBarStyle.Render("█")
	}
	count := ""
	if m.searchQuery != "" {
		count = SearchCountStyle.Render(fmt.Sprintf(" %d matches", len(m.rows)))
	}
	pad := max(width-lipgloss.Width(left)-lipgloss.Width(count), 1)
	return left + strings.Repeat(" ", pad) + count
}

func (m Model) renderListPanel(width, height int) string {
	var lines []string

	listHeight := max(height-1, 1)

	if len(m.rows) == 0 {
		if m.searchQuery != "" {
			lines = append(lines, FooterStyle.Render("No goals match."))
		} else {
			lines = append(lines, FooterStyle.Render("No goals yet. Press 'a' or 'I'."))
		}
	}

	// Scrolling window
	start, end := 0, len(m.rows)
	if len(m.rows) > listHeight {
		start = max(m.cursor-listHeight/2, 0)
		end = start + listHeight
		if end > len(m.rows) {
			end = len(m.rows)
			start = max(end-listHeight, 0)
		}
	}

	for i := start; i < end; i++ {
		lines = append(lines, m.renderRow(m.rows[i], i == m.cursor, width))
	}

	for len(lines) < listHeight {
		lines = append(lines, "")
	}

	pathLine := lipgloss.NewStyle().Foreground(ColorGrayDim).Render(fileHyperlink(m.store.CollectionPath()))
	lines = append(lines, pathLine)

	return strings.Join(lines, "\n")
}

func (m Model) renderRow(row GoalRow, selected bool, width int) string {
	icon := StatusStyle(row.Status).Render(StatusIcon(row.Status))
	pct := ProgressStyle.Render(fmt.Sprintf("%3d%%", row.Progress))

	name := row.Title
	nameWidth := width - 2 - 5
	if nameWidth > 1 && lipgloss.Width(name) > nameWidth {
		r := []rune(name)
		if len(r) > nameWidth-1 {
			name = string(r[:nameWidth-1]) + "…"
		}
	}

	line := icon + " " + name
	gap := max(width-lipgloss.Width(line)-lipgloss.Width(pct), 1)
	line += strings.Repeat(" ", gap) + pct

	if selected {
		if m.focusedPane == paneGoals {
			return SelectedStyle.Render(line)
		}
		return lipgloss.NewStyle().Bold(true).Render(line)
	}
	return NormalStyle.Render(line)
}

func (m Model) renderDetailPanel(width, height int) string {
	g := m.selectedGoal()
	if g == nil {
		return FooterStyle.Render(" Select a goal to view its plans")
	}

	bar := " " + ProgressStyle.Render(ProgressBar(g.Progress, max(width-2, 1)))

	cursor := -1
	if m.focusedPane == panePlans {
		cursor = m.planCursor
	}
	md := GoalMarkdown(g, m.store.Now(), cursor)

	rendered := md
	if m.glamourRenderer != nil {
		if out, err := m.glamourRenderer.Render(md); err == nil {
			rendered = out
		}
	}
	rendered = strings.TrimRight(rendered, "\n ")
	lines := strings.Split(rendered, "\n")

	scroll := max(min(m.detailScroll, len(lines)-1), 0)
	lines = lines[scroll:]

	bodyHeight := max(height-1, 1)
	if len(lines) > bodyHeight {
		lines = lines[:bodyHeight]
	}
	for len(lines) < bodyHeight {
		lines = append(lines, "")
	}
	lines = append(lines, bar)

	return strings.Join(lines, "\n")
}

func (m Model) renderFooter(width int) string {
	switch m.input {
	case inputGoalTitle, inputLog, inputLogDate:
		return InputPromptStyle.Render("> ") + m.textInput.View()
	}

	help := m.keys.ShortHelp()
	switch {
	case m.isSearching:
		help = "type to search  enter/↓ keep filter  esc clear"
	case m.searchQuery != "" && m.focusedPane == paneGoals:
		help = "esc clear filter  ↑↓ nav  tab plans  / refine"
	case m.focusedPane == panePlans:
		help = "↑↓ select plan  space toggle  l log  pgup/pgdn scroll  esc/tab goals  ? help"
	}
	return FooterStyle.Render(help)
}

func (m Model) renderHelpModal() string {
	var b strings.Builder

	b.WriteString(ModalTitleStyle.Render("Keyboard Shortcuts"))
	b.WriteString("\n\n")

	keyStyle := lipgloss.NewStyle().Foreground(ColorBlue).Width(16)
	descStyle := lipgloss.NewStyle().Foreground(ColorWhite)

	for _, binding := range m.keys.FullHelp() {
		b.WriteString(keyStyle.Render(binding[0]))
		b.WriteString(descStyle.Render(binding[1]))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(FooterStyle.Render("Press Esc or ? to close"))

	return ModalStyle.Render(b.String())
}

func (m Model) renderDeleteModal() string {
	var b strings.Builder

	b.WriteString(ModalTitleStyle.Render("Delete Goal"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("Delete '%s' with all its plans and log entries?\n\n", m.deleteTitle))
	b.WriteString(lipgloss.NewStyle().Foreground(ColorGreen).Render("[y]") + " Yes  ")
	b.WriteString(lipgloss.NewStyle().Foreground(ColorRed).Render("[n]") + " No")

	return ModalStyle.Render(b.String())
}

func (m Model) renderImportModal() string {
	var b strings.Builder

	b.WriteString(ModalTitleStyle.Render("Import Goal"))
	b.WriteString("\n\n")
	b.WriteString(m.importBox.View())
	b.WriteString("\n\n")
	if m.importErr != "" {
		b.WriteString(ErrorStyle.Render(m.importErr))
		b.WriteString("\n\n")
	}
	b.WriteString(FooterStyle.Render("ctrl+s import  esc cancel"))

	return ModalStyle.Render(b.String())
}

// fileHyperlink wraps a file path in an OSC 8 terminal hyperlink so it's clickable.
func fileHyperlink(path string) string {
	url := "file://" + path
	return fmt.Sprintf("\x1b]8;;%s\x1b\\%s\x1b]8;;\x1b\\", url, path)
}

// Helper functions

func getLine(block string, idx int, width int) string {
	lines := strings.Split(block, "\n")
	if idx < len(lines) {
		line := lines[idx]
		lineWidth := lipgloss.Width(line)
		if lineWidth < width {
			return line + strings.Repeat(" ", width-lineWidth)
		}
		return line
	}
	return strings.Repeat(" ", width)
}

func placeOverlay(modal string, width, height int) string {
	modalLines := strings.Split(modal, "\n")

	topPadding := max((height-len(modalLines))/2, 0)
	leftPadding := max((width-lipgloss.Width(modalLines[0]))/2, 0)

	var result strings.Builder
	for range topPadding {
		result.WriteString("\n")
	}
	for _, line := range modalLines {
		result.WriteString(strings.Repeat(" ", leftPadding))
		result.WriteString(line)
		result.WriteString("\n")
	}
	return result.String()
}
