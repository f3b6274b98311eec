package tui

// Rows used by the hero, status bar, messages and key legend.
const chromeHeight = 9

type pageLayout struct {
	windowWidth    int
	windowHeight   int
	viewportWidth  int
	viewportHeight int
	inputHeight    int
}

func (l *pageLayout) Update(width, height int) {
	l.windowWidth = width
	l.windowHeight = height

	inner := width - viewportHorizontalPadding
	if inner < minViewportWidth {
		inner = minViewportWidth
	}
	l.viewportWidth = inner

	usable := height - chromeHeight
	if usable < 6 {
		usable = 6
	}
	l.viewportHeight = usable

	input := usable - 2
	if input < minInputHeight {
		input = minInputHeight
	}
	if input > maxInputHeight {
		input = maxInputHeight
	}
	l.inputHeight = input
}

func (l pageLayout) ready() bool {
	return l.windowWidth > 0 && l.windowHeight > 0
}
