package tuitest

import "testing"

func TestParseFramesSplitsOnClear(t *testing.T) {
	raw := []byte("\x1b[2J\x1b[H\x1b[1mReadEase\x1b[0m   \r\n\x1b[2J\x1b[HSentence 1/3\r\n\r\n")
	frames := parseFrames(raw)
	if len(frames) != 2 {
		t.Fatalf("expected 2 frames, got %d: %#v", len(frames), frames)
	}
	if frames[0].Plain != "ReadEase" {
		t.Fatalf("unexpected first frame: %q", frames[0].Plain)
	}
	rec := &Recording{Raw: raw, Frames: frames}
	last, ok := rec.FinalFrame()
	if !ok || last.Plain != "Sentence 1/3" {
		t.Fatalf("unexpected final frame: %#v", last)
	}
}

func TestRecordingContainsFallsBackToRawStream(t *testing.T) {
	rec := &Recording{Raw: []byte("\x1b[?25lPlease enter \x1b[38;5;214mor upload\x1b[0m text first.")}
	if !rec.Contains("Please enter or upload text first.") {
		t.Fatalf("expected text in stripped stream: %q", rec.Plain())
	}
	if rec.Contains("Sentence") {
		t.Fatal("unexpected match")
	}
	var empty *Recording
	if empty.Contains("x") {
		t.Fatal("nil recording must not match")
	}
}
