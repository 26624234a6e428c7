// Package spy creates test spies: functions that record how they were
// called, and optionally delegate to another implementation.
//
// A spy wraps any function type. Use [New] to create a free standing spy, and
// pass the result of [Spy.Func] wherever the code under test expects a
// function.
//
// When the function to intercept is already stored somewhere, e.g., a func
// field on a struct or a package level variable, [On] and [OnField] install
// a spy in its place, and [Replacer.Restore] puts the original back. The
// storage location is represented by a [Slot], so custom storage can be
// supported by implementing the interface and calling [Replace].
//
// A [Sandbox] keeps track of spies created through it, so a test can reset
// or restore all of them at once.
package spy
