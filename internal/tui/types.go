package tui

type stage int

const (
	stageInput stage = iota
	stagePDFPrompt
	stageLoading
	stageDisplay
)

const heroTagline = "Short sentences. One at a time."

const (
	minViewportWidth          = 40
	viewportHorizontalPadding = 4
	maxInputHeight            = 16
	minInputHeight            = 3
)

const (
	warnEmptyInput     = "Please enter or upload text first."
	pathPromptHint     = "Path to a PDF (first pages are read)…"
	defaultExportPath  = "readease.html"
	focusMarker        = "▸ "
	focusMarkerPadding = "  "
)
