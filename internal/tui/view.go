package tui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
)

func (m *model) View() string {
	switch m.stage {
	case stageInput:
		return m.viewInput()
	case stagePDFPrompt:
		return m.viewPathPrompt()
	case stageLoading:
		return m.viewLoading()
	case stageDisplay:
		return m.viewDisplay()
	default:
		return ""
	}
}

func (m *model) viewInput() string {
	parts := []string{
		m.heroView(),
		sectionHeaderStyle.Render("Paste or type text"),
		m.input.View(),
	}
	parts = append(parts, m.messageLines()...)
	parts = append(parts, m.keyLegendView(inputHints))
	return joinNonEmpty(parts)
}

func (m *model) viewPathPrompt() string {
	parts := []string{
		m.heroView(),
		sectionHeaderStyle.Render("Open a PDF"),
		m.pathInput.View(),
		helperStyle.Render(fmt.Sprintf("Only the first %d pages are read. Enter to load, Esc to go back.", m.config.MaxPages)),
	}
	return joinNonEmpty(parts)
}

func (m *model) viewLoading() string {
	label := m.loadingLabel
	if label == "" {
		label = "Working…"
	}
	return joinNonEmpty([]string{
		m.heroView(),
		helperStyle.Render(fmt.Sprintf("%s %s", m.spinner.View(), label)),
	})
}

func (m *model) viewDisplay() string {
	m.refreshViewportIfDirty()
	parts := []string{m.heroView(), m.viewport.View(), m.statusBarView()}
	parts = append(parts, m.messageLines()...)
	if m.helpVisible {
		parts = append(parts, m.helpView())
	} else {
		parts = append(parts, m.keyLegendView(displayHints))
	}
	return joinNonEmpty(parts)
}

func (m *model) messageLines() []string {
	var lines []string
	if m.errorMessage != "" {
		lines = append(lines, errorStyle.Render(m.errorMessage))
	}
	if m.warnMessage != "" {
		lines = append(lines, warningStyle.Render(m.warnMessage))
	}
	if m.infoMessage != "" {
		message := m.infoMessage
		if m.busy() {
			message = fmt.Sprintf("%s %s", m.spinner.View(), message)
		}
		lines = append(lines, helperStyle.Render(message))
	}
	if m.fontNote != "" {
		lines = append(lines, helperStyle.Render(m.fontNote))
	}
	return lines
}

func (m *model) heroView() string {
	title := heroTitleStyle.Render("ReadEase")
	meta := []string{taglineStyle.Render(heroTagline)}
	if m.config.Simplifier != nil {
		meta = append(meta, helperStyle.Render("Model: "+m.config.Simplifier.Name()))
	}
	if m.session.Source != "" {
		meta = append(meta, helperStyle.Render("Source: "+m.session.Source))
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, strings.Join(meta, "  "))
}

// buildDisplayContent returns the reading view and the line where the
// emphasized sentence starts, or -1 when nothing is emphasized.
func (m *model) buildDisplayContent() (string, int) {
	cb := &contentBuilder{}
	wrap := m.wrapWidth(2)
	focusLine := -1

	res, ok := m.session.Result()
	if !ok {
		cb.WriteString(helperStyle.Render("Simplified text will appear here."))
		return cb.String(), focusLine
	}

	cb.WriteString(sectionHeaderStyle.Render("Simplified Text"))
	cb.WriteRune('\n')
	if res.OK() {
		cb.WriteString(readingStyle.Render(wordwrap.String(res.Display(), wrap)))
	} else {
		cb.WriteString(errorStyle.Render(wordwrap.String(res.Display(), wrap)))
	}
	cb.WriteRune('\n')
	cb.WriteRune('\n')

	cb.WriteString(sectionHeaderStyle.Render("Focus Reading Mode"))
	cb.WriteRune('\n')
	units := m.session.Navigator.Render()
	if len(units) == 0 {
		cb.WriteString(helperStyle.Render("No sentences to focus on."))
		return cb.String(), focusLine
	}
	sentenceWrap := wrap - utf8.RuneCountInString(focusMarker)
	if sentenceWrap < 10 {
		sentenceWrap = 10
	}
	for i, unit := range units {
		body := wordwrap.String(unit.Text, sentenceWrap)
		if unit.Emphasized {
			focusLine = cb.Line()
			lines := strings.Split(body, "\n")
			for j, line := range lines {
				prefix := focusMarkerPadding
				if j == 0 {
					prefix = focusMarker
				}
				lines[j] = prefix + focusSentenceStyle.Render(line)
			}
			cb.WriteString(strings.Join(lines, "\n"))
		} else {
			cb.WriteString(dimSentenceStyle.Render(indentMultiline(body, focusMarkerPadding)))
		}
		if i < len(units)-1 {
			cb.WriteRune('\n')
		}
	}
	return cb.String(), focusLine
}

func (m *model) statusBarView() string {
	stats := []string{}
	nav := m.session.Navigator
	if idx, ok := nav.Cursor(); ok {
		stats = append(stats, fmt.Sprintf("Sentence %d/%d", idx+1, nav.Len()))
	} else {
		stats = append(stats, "No sentences")
	}
	if m.fontPath != "" {
		stats = append(stats, "Font ready")
	}
	stats = append(stats, m.jobStatusBadges()...)
	return statusBarStyle.Render(strings.Join(stats, "  •  "))
}

func (m *model) jobStatusBadges() []string {
	var badges []string
	for _, kind := range []jobKind{jobKindSimplify, jobKindPDF, jobKindFont, jobKindExport} {
		if snap, ok := m.activeJobs[kind]; ok && snap.Status == jobStatusRunning {
			badges = append(badges, fmt.Sprintf("%s…", kind))
		}
	}
	return badges
}

type keyHint struct {
	Key         string
	Description string
}

var inputHints = []keyHint{
	{"Ctrl+S", "Simplify"},
	{"Ctrl+O", "Open PDF"},
	{"Esc", "Back / quit"},
}

var displayHints = []keyHint{
	{"←/→", "Previous/next sentence"},
	{"Home/End", "First or last"},
	{"e", "Edit text"},
	{"s", "Simplify again"},
	{"x", "Export HTML"},
	{"?", "More help"},
}

func (m *model) keyLegendView(hints []keyHint) string {
	const columns = 3
	var rows []string
	for i := 0; i < len(hints); i += columns {
		end := i + columns
		if end > len(hints) {
			end = len(hints)
		}
		var cells []string
		for _, hint := range hints[i:end] {
			key := keyStyle.Render(hint.Key)
			desc := keyDescStyle.Render(" " + hint.Description + "  ")
			cells = append(cells, lipgloss.JoinHorizontal(lipgloss.Top, key, desc))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return legendBoxStyle.Render(strings.Join(rows, "\n"))
}

func (m *model) helpView() string {
	lines := []string{
		sectionHeaderStyle.Render("Reading keys"),
		helperStyle.Render("• ← / h / p and → / l / n / space move the focus one sentence."),
		helperStyle.Render("• Home / g and End / G jump to the first or last sentence."),
		helperStyle.Render(fmt.Sprintf("• x writes an OpenDyslexic page to %s.", m.config.ExportPath)),
		helperStyle.Render("• e returns to the editor, q or Ctrl+C quits."),
	}
	return legendBoxStyle.Render(strings.Join(lines, "\n"))
}

func joinNonEmpty(parts []string) string {
	filtered := make([]string, 0, len(parts))
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			continue
		}
		filtered = append(filtered, part)
	}
	return strings.Join(filtered, "\n\n")
}

type contentBuilder struct {
	builder strings.Builder
	lines   int
}

func (cb *contentBuilder) WriteString(s string) {
	cb.builder.WriteString(s)
	cb.lines += strings.Count(s, "\n")
}

func (cb *contentBuilder) WriteRune(r rune) {
	cb.builder.WriteRune(r)
	if r == '\n' {
		cb.lines++
	}
}

func (cb *contentBuilder) String() string {
	return cb.builder.String()
}

func (cb *contentBuilder) Line() int {
	return cb.lines
}

func indentMultiline(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}

func (m *model) wrapWidth(padding int) int {
	width := m.viewport.Width
	if width <= 0 {
		width = 80
	}
	available := width - padding
	if available < 20 {
		available = 20
	}
	return available
}
