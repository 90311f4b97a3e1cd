package board

import (
	"testing"
)

func TestHasCompletedLine_EachLine(t *testing.T) {
	for i, line := range Lines {
		var marked [Size]bool
		for _, idx := range line {
			marked[idx] = true
		}
		if !HasCompletedLine(marked) {
			t.Errorf("Line %d (%v) fully marked should be a win", i, line)
		}
	}
}

func TestHasCompletedLine_NoLine(t *testing.T) {
	var empty [Size]bool
	if HasCompletedLine(empty) {
		t.Error("An empty grid should not be a win")
	}

	// Four of five cells in row 0 is not a completed line.
	partial := [Size]bool{}
	for _, idx := range []int{0, 1, 2, 3} {
		partial[idx] = true
	}
	if HasCompletedLine(partial) {
		t.Error("A partially marked row should not be a win")
	}

	// Scattered marks that never align.
	scattered := [Size]bool{}
	for _, idx := range []int{0, 7, 10, 18, 21, 14} {
		scattered[idx] = true
	}
	if HasCompletedLine(scattered) {
		t.Error("Scattered marks should not be a win")
	}
}

func TestHasCompletedLine_AllMarked(t *testing.T) {
	var marked [Size]bool
	for i := range marked {
		marked[i] = true
	}
	if !HasCompletedLine(marked) {
		t.Error("A fully marked grid should be a win")
	}
}

func TestIndexOf(t *testing.T) {
	cells := []int{10, 20, 30, 20, 40}

	if idx := IndexOf(cells, 30); idx != 2 {
		t.Errorf("Expected index 2 for 30, got %d", idx)
	}

	// First occurrence wins when the board repeats a number.
	if idx := IndexOf(cells, 20); idx != 1 {
		t.Errorf("Expected first occurrence index 1 for 20, got %d", idx)
	}

	if idx := IndexOf(cells, 99); idx != -1 {
		t.Errorf("Expected -1 for a missing number, got %d", idx)
	}
}
