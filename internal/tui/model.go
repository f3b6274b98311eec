package tui

import (
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/readease/internal/document"
	"github.com/csheth/readease/internal/export"
	"github.com/csheth/readease/internal/focus"
	"github.com/csheth/readease/internal/fontcache"
	"github.com/csheth/readease/internal/session"
	"github.com/csheth/readease/internal/simplify"
)

// Config wires runtime options into the TUI program.
type Config struct {
	Simplifier *simplify.Simplifier
	Tokenizer  focus.Tokenizer
	// Fonts is optional; without it exports use the fallback typeface.
	Fonts *fontcache.Cache
	// ExportPath is where x writes the HTML reading view.
	ExportPath string
	// InitialPDF is loaded into the input on start when set.
	InitialPDF string
	MaxPages   int
}

// New returns a tea.Model ready to be mounted into a Program.
func New(config Config) tea.Model {
	if config.ExportPath == "" {
		config.ExportPath = defaultExportPath
	}
	if config.MaxPages <= 0 {
		config.MaxPages = document.DefaultMaxPages
	}

	input := textarea.New()
	input.Placeholder = "Paste or type the text you want simplified…"
	input.ShowLineNumbers = false
	input.CharLimit = 0
	input.MaxHeight = 0
	input.SetWidth(76)
	input.SetHeight(10)
	input.Focus()

	pathInput := textinput.New()
	pathInput.Placeholder = pathPromptHint
	pathInput.CharLimit = 512
	pathInput.Width = 70

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	vp := viewport.New(80, 20)
	vp.MouseWheelEnabled = true

	return &model{
		config:     config,
		stage:      stageInput,
		session:    session.New(config.Tokenizer),
		input:      input,
		pathInput:  pathInput,
		spinner:    spin,
		viewport:   vp,
		jobs:       newJobBus(),
		activeJobs: map[jobKind]jobSnapshot{},
	}
}

type model struct {
	config  Config
	stage   stage
	session *session.State

	input     textarea.Model
	pathInput textinput.Model
	spinner   spinner.Model
	viewport  viewport.Model
	layout    pageLayout

	jobs       *jobBus
	activeJobs map[jobKind]jobSnapshot

	fontPath      string
	fontNote      string
	loadingLabel  string
	infoMessage   string
	warnMessage   string
	errorMessage  string
	helpVisible   bool
	viewportDirty bool
	focusLine     int
}

func (m *model) Init() tea.Cmd {
	cmds := []tea.Cmd{textarea.Blink}
	if m.config.Fonts != nil {
		cmds = append(cmds, m.jobs.Start(jobKindFont, fontJob(m.config.Fonts)))
	}
	if strings.TrimSpace(m.config.InitialPDF) != "" {
		cmds = append(cmds, m.startPDF(m.config.InitialPDF))
	}
	return tea.Batch(cmds...)
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil
	case spinner.TickMsg:
		if m.stage == stageLoading || m.busy() {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	case jobSignalMsg:
		m.activeJobs[msg.Snapshot.Kind] = msg.Snapshot
		return m, nil
	case jobResultEnvelope:
		delete(m.activeJobs, msg.Snapshot.Kind)
		if msg.Payload == nil {
			return m, nil
		}
		return m.Update(msg.Payload)
	case simplifyResultMsg:
		m.applySimplifyResult(msg)
		return m, nil
	case pdfResultMsg:
		return m, m.applyPDFResult(msg)
	case fontResultMsg:
		if msg.err != nil {
			log.Printf("[fontcache] font unavailable: %v", msg.err)
			m.fontNote = "OpenDyslexic unavailable; exports fall back to Arial."
			return m, nil
		}
		m.fontPath = msg.path
		m.fontNote = ""
		return m, nil
	case exportResultMsg:
		if msg.err != nil {
			m.errorMessage = msg.err.Error()
			return m, nil
		}
		m.errorMessage = ""
		m.infoMessage = fmt.Sprintf("Exported reading view to %s.", msg.path)
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		return m.handleKey(msg)
	case tea.MouseMsg:
		if m.stage == stageDisplay {
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	switch m.stage {
	case stageInput:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	case stagePDFPrompt:
		var cmd tea.Cmd
		m.pathInput, cmd = m.pathInput.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *model) handleKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.stage {
	case stageInput:
		return m.handleInputKey(key)
	case stagePDFPrompt:
		return m.handlePathKey(key)
	case stageLoading:
		// One request at a time; keys wait until the result lands.
		return m, nil
	case stageDisplay:
		return m.handleDisplayKey(key)
	}
	return m, nil
}

func (m *model) handleInputKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "ctrl+s":
		return m, m.actionSimplify()
	case "ctrl+o":
		m.stage = stagePDFPrompt
		m.input.Blur()
		m.pathInput.SetValue("")
		return m, m.pathInput.Focus()
	case "esc":
		if _, ok := m.session.Result(); ok {
			m.stage = stageDisplay
			m.input.Blur()
			m.markViewportDirty()
			return m, nil
		}
		return m, tea.Quit
	}
	if m.warnMessage != "" {
		m.warnMessage = ""
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(key)
	return m, cmd
}

func (m *model) handlePathKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.Type {
	case tea.KeyEsc:
		m.stage = stageInput
		m.pathInput.Blur()
		return m, m.input.Focus()
	case tea.KeyEnter:
		path := strings.TrimSpace(m.pathInput.Value())
		m.pathInput.Blur()
		if path == "" {
			m.stage = stageInput
			m.warnMessage = "Enter a path to a PDF file."
			return m, m.input.Focus()
		}
		return m, m.startPDF(path)
	}
	var cmd tea.Cmd
	m.pathInput, cmd = m.pathInput.Update(key)
	return m, cmd
}

func (m *model) handleDisplayKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	nav := m.session.Navigator
	switch key.String() {
	case "left", "h", "p":
		m.moveFocus(nav.Previous())
		return m, nil
	case "right", "l", "n", " ":
		m.moveFocus(nav.Next())
		return m, nil
	case "home", "g":
		m.moveFocus(nav.First())
		return m, nil
	case "end", "G":
		m.moveFocus(nav.Last())
		return m, nil
	case "e", "i":
		m.stage = stageInput
		m.errorMessage = ""
		return m, m.input.Focus()
	case "ctrl+s", "s":
		return m, m.actionSimplify()
	case "x":
		return m, m.actionExport()
	case "?":
		m.helpVisible = !m.helpVisible
		return m, nil
	case "q", "esc":
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(key)
	return m, cmd
}

// actionSimplify sends the current input to the model. Blank input is
// answered with a warning and no request.
func (m *model) actionSimplify() tea.Cmd {
	text := m.input.Value()
	if strings.TrimSpace(text) == "" {
		m.stage = stageInput
		m.warnMessage = warnEmptyInput
		m.errorMessage = ""
		return m.input.Focus()
	}
	m.session.Input = text
	m.stage = stageLoading
	m.loadingLabel = "Simplifying text…"
	m.warnMessage = ""
	m.errorMessage = ""
	m.infoMessage = ""
	m.input.Blur()
	return tea.Batch(m.spinner.Tick, m.jobs.Start(jobKindSimplify, simplifyJob(m.config.Simplifier, text)))
}

func (m *model) actionExport() tea.Cmd {
	res, ok := m.session.Result()
	if !ok || !res.OK() {
		m.warnMessage = "Nothing to export yet."
		return nil
	}
	page := export.Page{
		Title:      exportTitle(m.session.Source),
		FontPath:   m.fontPath,
		Simplified: m.session.Simplified(),
		Units:      m.session.Navigator.Render(),
	}
	m.infoMessage = fmt.Sprintf("Exporting to %s…", m.config.ExportPath)
	return m.jobs.Start(jobKindExport, exportJob(m.config.Fonts, m.config.ExportPath, page))
}

func (m *model) startPDF(path string) tea.Cmd {
	m.stage = stageLoading
	m.loadingLabel = fmt.Sprintf("Reading %s…", filepath.Base(path))
	m.warnMessage = ""
	m.errorMessage = ""
	return tea.Batch(m.spinner.Tick, m.jobs.Start(jobKindPDF, pdfJob(path, m.config.MaxPages)))
}

func (m *model) applySimplifyResult(msg simplifyResultMsg) {
	if errors.Is(msg.err, simplify.ErrEmptyInput) {
		m.stage = stageInput
		m.warnMessage = warnEmptyInput
		m.input.Focus()
		return
	}
	m.session.Apply(msg.result)
	m.stage = stageDisplay
	m.helpVisible = false
	m.viewport.GotoTop()
	m.markViewportDirty()
	if !msg.result.OK() {
		m.errorMessage = ""
		m.infoMessage = "Press e to edit the text and try again."
		return
	}
	m.infoMessage = fmt.Sprintf("%d sentences ready. Use ←/→ to move the focus.", m.session.Navigator.Len())
}

func (m *model) applyPDFResult(msg pdfResultMsg) tea.Cmd {
	m.stage = stageInput
	if msg.err != nil {
		m.input.SetValue("")
		m.session.Source = ""
		m.errorMessage = pdfErrorMessage(msg.err)
		m.infoMessage = ""
		return m.input.Focus()
	}
	m.input.SetValue(msg.extraction.Text)
	m.session.Source = msg.path
	m.errorMessage = ""
	info := fmt.Sprintf("Loaded %d page(s) from %s. Press Ctrl+S to simplify.", msg.extraction.Pages, filepath.Base(msg.path))
	if msg.extraction.Truncated() {
		info = fmt.Sprintf("Loaded the first %d of %d pages from %s. Press Ctrl+S to simplify.",
			msg.extraction.Pages, msg.extraction.TotalPages, filepath.Base(msg.path))
	}
	m.infoMessage = info
	if strings.TrimSpace(msg.extraction.Text) == "" {
		m.warnMessage = "No extractable text found in that PDF."
	}
	return m.input.Focus()
}

func pdfErrorMessage(err error) string {
	msg := err.Error()
	if errors.Is(err, document.ErrNotPDF) || !strings.HasPrefix(msg, "could not process PDF") {
		return "Could not process PDF: " + msg
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}

func exportTitle(source string) string {
	if source == "" {
		return "ReadEase"
	}
	return "ReadEase · " + filepath.Base(source)
}

func (m *model) moveFocus(moved bool) {
	if !moved {
		return
	}
	m.markViewportDirty()
}

func (m *model) busy() bool {
	return len(m.activeJobs) > 0
}

func (m *model) resize(width, height int) {
	m.layout.Update(width, height)
	m.viewport.Width = m.layout.viewportWidth
	m.viewport.Height = m.layout.viewportHeight
	m.input.SetWidth(m.layout.viewportWidth)
	m.input.SetHeight(m.layout.inputHeight)
	m.pathInput.Width = m.layout.viewportWidth - 4
	m.markViewportDirty()
}

func (m *model) markViewportDirty() {
	m.viewportDirty = true
}

func (m *model) refreshViewportIfDirty() {
	if m.viewportDirty {
		m.refreshViewport()
	}
}

func (m *model) refreshViewport() {
	m.viewportDirty = false
	content, focusLine := m.buildDisplayContent()
	m.focusLine = focusLine
	m.viewport.SetContent(content)
	m.scrollToFocus()
}

// scrollToFocus keeps the emphasized sentence inside the viewport.
func (m *model) scrollToFocus() {
	if m.focusLine < 0 || m.viewport.Height <= 0 {
		return
	}
	top := m.viewport.YOffset
	bottom := top + m.viewport.Height - 1
	switch {
	case m.focusLine < top:
		m.viewport.SetYOffset(m.focusLine)
	case m.focusLine > bottom:
		m.viewport.SetYOffset(m.focusLine - m.viewport.Height + 1)
	}
}
