package tuitest

import (
	"bytes"
	"io"
)

// termQuery pairs a terminal capability query with the reply a real terminal
// would send. termenv and bubbletea block on some of these at start-up.
type termQuery struct {
	query []byte
	reply []byte
}

var defaultQueries = []termQuery{
	{[]byte("\x1b[6n"), []byte("\x1b[1;1R")},
	{[]byte("\x1b]10;?\x07"), []byte("\x1b]10;rgb:cccc/cccc/cccc\x07")},
	{[]byte("\x1b]10;?\x1b\\"), []byte("\x1b]10;rgb:cccc/cccc/cccc\x1b\\")},
	{[]byte("\x1b]11;?\x07"), []byte("\x1b]11;rgb:0000/0000/0000\x07")},
	{[]byte("\x1b]11;?\x1b\\"), []byte("\x1b]11;rgb:0000/0000/0000\x1b\\")},
	{[]byte("\x1b[c"), []byte("\x1b[?62;22c")},
}

const (
	responderWindow = 256
	responderTail   = 64
)

type terminalResponder struct {
	w       io.Writer
	queries []termQuery
	buf     []byte
	replies int
}

func newTerminalResponder(w io.Writer) *terminalResponder {
	return &terminalResponder{w: w, queries: defaultQueries, buf: make([]byte, 0, 128)}
}

// Process answers every query found in chunk. A short tail is kept so queries
// split across reads are still detected.
func (tr *terminalResponder) Process(chunk []byte) {
	tr.buf = append(tr.buf, chunk...)
	for tr.answerNext() {
	}
	if len(tr.buf) > responderWindow {
		tr.buf = tr.buf[len(tr.buf)-responderTail:]
	}
}

// answerNext replies to the earliest pending query so replies keep the order
// the program asked in.
func (tr *terminalResponder) answerNext() bool {
	first, end := -1, 0
	var reply []byte
	for _, q := range tr.queries {
		idx := bytes.Index(tr.buf, q.query)
		if idx < 0 {
			continue
		}
		if first < 0 || idx < first {
			first, end, reply = idx, idx+len(q.query), q.reply
		}
	}
	if first < 0 {
		return false
	}
	tr.buf = tr.buf[end:]
	_, _ = tr.w.Write(reply)
	tr.replies++
	return true
}
