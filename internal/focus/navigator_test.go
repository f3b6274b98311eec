package focus

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

var splitOnPeriod = TokenizerFunc(func(text string) []string {
	parts := strings.SplitAfter(text, ".")
	return parts
})

func newABC(t *testing.T) *Navigator {
	t.Helper()
	nav := NewNavigator(splitOnPeriod)
	nav.Initialize("A. B. C.")
	if got := nav.Sentences(); !cmp.Equal(got, []string{"A.", "B.", "C."}) {
		t.Fatalf("unexpected sentences: %#v", got)
	}
	return nav
}

func cursorOf(t *testing.T, nav *Navigator) int {
	t.Helper()
	idx, ok := nav.Cursor()
	if !ok {
		t.Fatal("cursor undefined on a non-empty sequence")
	}
	return idx
}

func TestPreviousAtStartIsNoop(t *testing.T) {
	nav := newABC(t)
	if nav.Previous() {
		t.Fatal("previous at index 0 should report no move")
	}
	if got := cursorOf(t, nav); got != 0 {
		t.Fatalf("cursor = %d, want 0", got)
	}
}

func TestNextAtEndIsNoop(t *testing.T) {
	nav := newABC(t)
	nav.Next()
	nav.Next()
	if got := cursorOf(t, nav); got != 2 {
		t.Fatalf("cursor = %d, want 2", got)
	}
	if nav.Next() {
		t.Fatal("next at the last sentence should report no move")
	}
	if got := cursorOf(t, nav); got != 2 {
		t.Fatalf("cursor = %d, want 2", got)
	}
}

func TestNextEmphasizesFollowingSentence(t *testing.T) {
	nav := newABC(t)
	if !nav.Next() {
		t.Fatal("next should move from 0")
	}
	want := []Unit{
		{Index: 0, Text: "A.", Emphasized: false},
		{Index: 1, Text: "B.", Emphasized: true},
		{Index: 2, Text: "C.", Emphasized: false},
	}
	if diff := cmp.Diff(want, nav.Render()); diff != "" {
		t.Fatalf("render mismatch (-want +got):\n%s", diff)
	}
}

func TestEmptySequence(t *testing.T) {
	nav := NewNavigator(splitOnPeriod)
	nav.Initialize("   ")
	if units := nav.Render(); len(units) != 0 {
		t.Fatalf("expected no units, got %#v", units)
	}
	if nav.Next() || nav.Previous() || nav.First() || nav.Last() {
		t.Fatal("moves on an empty sequence must be no-ops")
	}
	if _, ok := nav.Cursor(); ok {
		t.Fatal("cursor should be undefined for an empty sequence")
	}
	if _, ok := nav.Current(); ok {
		t.Fatal("current should be undefined for an empty sequence")
	}
}

func TestRenderIsIdempotent(t *testing.T) {
	nav := newABC(t)
	nav.Next()
	first := nav.Render()
	second := nav.Render()
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("render changed between calls:\n%s", diff)
	}
}

func TestCursorStaysInRange(t *testing.T) {
	nav := NewNavigator(splitOnPeriod)
	nav.Initialize("One. Two. Three. Four. Five.")
	rng := rand.New(rand.NewSource(7))
	for step := 0; step < 500; step++ {
		before := cursorOf(t, nav)
		var moved bool
		if rng.Intn(2) == 0 {
			moved = nav.Next()
		} else {
			moved = nav.Previous()
		}
		after := cursorOf(t, nav)
		if after < 0 || after > nav.Len()-1 {
			t.Fatalf("step %d: cursor %d out of range", step, after)
		}
		if moved == (before == after) {
			t.Fatalf("step %d: moved=%v but cursor went %d -> %d", step, moved, before, after)
		}
		emphasized := 0
		for _, unit := range nav.Render() {
			if unit.Emphasized {
				emphasized++
				if unit.Index != after {
					t.Fatalf("step %d: emphasized %d, cursor %d", step, unit.Index, after)
				}
			}
		}
		if emphasized != 1 {
			t.Fatalf("step %d: %d emphasized units", step, emphasized)
		}
	}
}

func TestInitializeDropsBlankSegmentsAndResets(t *testing.T) {
	nav := NewNavigator(LineTokenizer)
	nav.Initialize("first\n\n   \nsecond\nthird")
	nav.Last()
	if got := cursorOf(t, nav); got != 2 {
		t.Fatalf("cursor = %d, want 2", got)
	}
	nav.Initialize("new text\nagain")
	if got := cursorOf(t, nav); got != 0 {
		t.Fatalf("initialize should reset cursor, got %d", got)
	}
	if current, _ := nav.Current(); current != "new text" {
		t.Fatalf("unexpected current sentence %q", current)
	}
}

func TestFirstAndLast(t *testing.T) {
	nav := newABC(t)
	if !nav.Last() || cursorOf(t, nav) != 2 {
		t.Fatal("last should jump to index 2")
	}
	if nav.Last() {
		t.Fatal("last at the end should be a no-op")
	}
	if !nav.First() || cursorOf(t, nav) != 0 {
		t.Fatal("first should jump to index 0")
	}
}
