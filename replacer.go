package spy

// Replacer is a [Spy] installed in a [Slot] in place of the original
// function. The original is captured when the replacer is created, and
// written back by [Replacer.Restore].
type Replacer[F any] struct {
	*Spy[F]
	slot     Slot[F]
	original F
}

// Replace installs a new spy in slot, and returns the replacer. The value
// currently in the slot, which may be nil, is kept as the original.
func Replace[F any](slot Slot[F], delegate F) *Replacer[F] {
	r := &Replacer[F]{
		Spy:      New(delegate),
		slot:     slot,
		original: slot.Get(),
	}
	slot.Set(r.Func())
	return r
}

// On replaces the function in the variable target points to.
//
//	var now = time.Now
//
//	r := spy.On(&now, nil).Returns(time.Unix(0, 0))
//	defer r.Restore()
func On[F any](target *F, delegate F) *Replacer[F] {
	return Replace(PointerSlot(target), delegate)
}

// OnField replaces the function stored in the exported field name of the
// struct target points to. See [FieldSlot].
func OnField[F any](target any, name string, delegate F) *Replacer[F] {
	return Replace(FieldSlot[F](target, name), delegate)
}

// Restore writes the original function back to the slot. Calls made through
// the original are no longer recorded.
//
// Restore doesn't check what the slot currently holds. If other code has
// written to the slot since the replacement, that value is overwritten.
func (r *Replacer[F]) Restore() { r.slot.Set(r.original) }

// Passthrough makes the original function the delegate, so calls are both
// recorded and forwarded. If the original was nil, the delegate is removed.
func (r *Replacer[F]) Passthrough() *Replacer[F] {
	r.SetDelegate(r.original)
	return r
}

// Returns works as [Spy.Returns], but returns the replacer.
func (r *Replacer[F]) Returns(values ...any) *Replacer[F] {
	r.Spy.Returns(values...)
	return r
}

// Original returns the function that was in the slot when the replacement
// was made.
func (r *Replacer[F]) Original() F { return r.original }

// SlotName returns the name of the slot the spy was installed in.
func (r *Replacer[F]) SlotName() string { return r.slot.Name() }
