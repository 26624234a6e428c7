package spy

import (
	"iter"
	"slices"
)

// Tracked is the part of a spy's interface a [Sandbox] operates on. Both
// [Spy] and [Replacer] implement it.
type Tracked interface {
	Called() bool
	CallCount() int
	Reset()
}

// Restorer is implemented by tracked entries that can undo a replacement,
// e.g., [Replacer].
type Restorer interface {
	Restore()
	// SlotName names the slot that Restore writes to.
	SlotName() string
}

type tracked struct {
	entries []Tracked
}

func (t *tracked) append(e Tracked) int {
	t.entries = append(t.entries, e)
	return len(t.entries) - 1
}

func (t *tracked) clone() []Tracked { return slices.Clone(t.entries) }

func (t *tracked) clear() int {
	n := len(t.entries)
	t.entries = nil
	return n
}

// remove deletes the last occurrence of e. Returns false if e isn't tracked,
// e.g., when the sandbox was flushed concurrently.
func (t *tracked) remove(e Tracked) bool {
	for i := len(t.entries) - 1; i >= 0; i-- {
		if t.entries[i] == e {
			t.entries = slices.Delete(t.entries, i, i+1)
			return true
		}
	}
	return false
}

func all(entries []Tracked) iter.Seq2[int, Tracked] {
	return func(yield func(int, Tracked) bool) {
		for i, e := range entries {
			if !yield(i, e) {
				return
			}
		}
	}
}
