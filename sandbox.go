package spy

import (
	"iter"
	"slices"
	"sync"

	"go.uber.org/zap"
)

// Sandbox keeps track of spies created through it, allowing all of them to
// be reset or restored in one operation.
//
// Create spies in the sandbox using [NewIn], [OnIn], [OnFieldIn], and
// [ReplaceIn].
//
// A Sandbox is safe for concurrent use.
type Sandbox struct {
	logger *zap.Logger

	mu      sync.Mutex
	entries tracked
}

// Option configures a [Sandbox].
type Option func(*Sandbox)

// WithLogger sets the logger receiving debug messages about tracked spies.
// The default logger discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(sb *Sandbox) {
		if l != nil {
			sb.logger = l
		}
	}
}

// NewSandbox creates an empty sandbox.
func NewSandbox(opts ...Option) *Sandbox {
	sb := &Sandbox{logger: zap.NewNop()}
	for _, o := range opts {
		o(sb)
	}
	return sb
}

// NewIn creates a spy like [New], and adds it to the sandbox.
func NewIn[F any](sb *Sandbox, delegate F) *Spy[F] {
	s := New(delegate)
	sb.track(s, zap.Stringer("type", s.type_))
	return s
}

// ReplaceIn replaces the function in slot like [Replace], and adds the
// replacer to the sandbox.
func ReplaceIn[F any](sb *Sandbox, slot Slot[F], delegate F) *Replacer[F] {
	r := Replace(slot, delegate)
	sb.track(r, zap.String("slot", r.SlotName()))
	return r
}

// OnIn is the sandboxed version of [On].
func OnIn[F any](sb *Sandbox, target *F, delegate F) *Replacer[F] {
	return ReplaceIn(sb, PointerSlot(target), delegate)
}

// OnFieldIn is the sandboxed version of [OnField].
func OnFieldIn[F any](sb *Sandbox, target any, name string, delegate F) *Replacer[F] {
	return ReplaceIn(sb, FieldSlot[F](target, name), delegate)
}

func (sb *Sandbox) track(e Tracked, fields ...zap.Field) {
	sb.mu.Lock()
	i := sb.entries.append(e)
	sb.mu.Unlock()
	sb.logger.Debug("spy: tracking", append(fields, zap.Int("index", i))...)
}

// Spies returns the tracked spies in the order they were created.
func (sb *Sandbox) Spies() []Tracked {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	return sb.entries.clone()
}

// All iterates over the tracked spies in the order they were created. The
// iteration works on a snapshot, so the sandbox may be modified while
// iterating.
func (sb *Sandbox) All() iter.Seq2[int, Tracked] { return all(sb.Spies()) }

// Len returns the number of tracked spies.
func (sb *Sandbox) Len() int {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	return len(sb.entries.entries)
}

// Reset resets all tracked spies.
func (sb *Sandbox) Reset() {
	for _, e := range sb.All() {
		e.Reset()
	}
}

// Restore restores all tracked replacers, and removes them from the sandbox.
// Replacers are restored in reverse order of creation, so when the same slot
// has been replaced more than once, it ends up with the value it had before
// the first replacement. Spies that don't replace anything stay in the
// sandbox.
//
// If restoring a replacer panics, the panic propagates. That replacer, and
// all replacers not yet restored, stay in the sandbox.
func (sb *Sandbox) Restore() {
	restored := 0
	for _, e := range slices.Backward(sb.Spies()) {
		r, ok := e.(Restorer)
		if !ok {
			continue
		}
		r.Restore()
		sb.mu.Lock()
		sb.entries.remove(e)
		sb.mu.Unlock()
		restored++
		sb.logger.Debug("spy: restored", zap.String("slot", r.SlotName()))
	}
	sb.logger.Debug("spy: restore complete",
		zap.Int("restored", restored),
		zap.Int("remaining", sb.Len()))
}

// Flush removes all spies from the sandbox without restoring anything. Call
// [Sandbox.Restore] first if replaced functions should be restored.
func (sb *Sandbox) Flush() {
	sb.mu.Lock()
	n := sb.entries.clear()
	sb.mu.Unlock()
	sb.logger.Debug("spy: flushed", zap.Int("count", n))
}
