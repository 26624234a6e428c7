package spy

import (
	"fmt"
	"reflect"
	"slices"
	"sync"
)

// Spy records calls to a function of type F. The function itself is returned
// by [Spy.Func].
//
// When called, the spy first records the arguments. It then calls the
// delegate, if one is set, and returns its results. Without a delegate it
// returns the values configured with [Spy.Returns], or zero values.
//
// A Spy is safe for concurrent use.
type Spy[F any] struct {
	type_ reflect.Type
	fn    F

	mu       sync.Mutex
	calls    calls
	delegate reflect.Value
	results  []reflect.Value
}

// New creates a spy for function type F. The delegate may be nil.
//
// Panics if F is not a function type.
func New[F any](delegate F) *Spy[F] {
	t := reflect.TypeFor[F]()
	if t.Kind() != reflect.Func {
		panic(fmt.Sprintf("spy: New: %s is not a function type", t))
	}
	s := &Spy[F]{type_: t}
	s.SetDelegate(delegate)
	s.fn = reflect.MakeFunc(t, s.call).Interface().(F)
	return s
}

// Func returns the spy function. The same function value is returned on every
// call.
func (s *Spy[F]) Func() F { return s.fn }

func (s *Spy[F]) call(in []reflect.Value) []reflect.Value {
	// Record before calling the delegate. A delegate that panics still
	// counts as a call.
	s.mu.Lock()
	s.calls.add(recordArgs(s.type_, in))
	delegate, results := s.delegate, s.results
	s.mu.Unlock()

	if delegate.IsValid() {
		if s.type_.IsVariadic() {
			return delegate.CallSlice(in)
		}
		return delegate.Call(in)
	}
	if results != nil {
		return slices.Clone(results)
	}
	return zeroResults(s.type_)
}

// Invoke calls the spy with untyped arguments, and returns the results as
// untyped values. A nil argument is passed as the zero value of the
// parameter. Arguments to a variadic parameter are passed one by one, not as
// a slice.
//
// Invoke goes through the same path as the function returned by
// [Spy.Func]; the call is recorded in the same call list.
func (s *Spy[F]) Invoke(args ...any) []any {
	t := s.type_
	fixed := t.NumIn()
	if t.IsVariadic() {
		fixed--
	}
	if len(args) < fixed || (!t.IsVariadic() && len(args) > fixed) {
		panic(fmt.Sprintf(
			"spy: Invoke: %s called with %d arguments",
			t, len(args),
		))
	}
	in := make([]reflect.Value, len(args))
	for i, a := range args {
		var paramType reflect.Type
		if i < fixed {
			paramType = t.In(i)
		} else {
			paramType = t.In(fixed).Elem()
		}
		in[i] = valueOf("Invoke", a, paramType)
	}
	out := reflect.ValueOf(s.fn).Call(in)
	res := make([]any, len(out))
	for i, v := range out {
		res[i] = v.Interface()
	}
	return res
}

// Called returns whether the spy has been called since it was created, or
// last reset.
func (s *Spy[F]) Called() bool { return s.CallCount() > 0 }

// CallCount returns the number of recorded calls.
func (s *Spy[F]) CallCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls.count()
}

// GetCall returns the call with index i. Returns nil if i is out of range.
func (s *Spy[F]) GetCall(i int) *Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls.nth(i)
}

// Calls returns a copy of all recorded calls, in the order they were made.
func (s *Spy[F]) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls.snapshot()
}

// Reset clears recorded calls. The delegate and return values are kept.
func (s *Spy[F]) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls.reset()
}

// SetDelegate replaces the delegate. A nil fn removes it.
func (s *Spy[F]) SetDelegate(fn F) {
	v := reflect.ValueOf(fn)
	if v.IsNil() {
		v = reflect.Value{}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delegate = v
}

// Returns sets the values returned when no delegate is set. There must be
// exactly one value per function result; nil means the zero value of the
// result type.
//
// Returns the spy itself, allowing
//
//	s := spy.New[func() string](nil).Returns("hello")
func (s *Spy[F]) Returns(values ...any) *Spy[F] {
	t := s.type_
	if len(values) != t.NumOut() {
		panic(fmt.Sprintf(
			"spy: Returns: %s has %d results, got %d values",
			t, t.NumOut(), len(values),
		))
	}
	results := make([]reflect.Value, len(values))
	for i, v := range values {
		results[i] = valueOf("Returns", v, t.Out(i))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = results
	return s
}

// recordArgs converts the arguments of a call to the values stored in the
// [Call]. The variadic slice is expanded.
func recordArgs(t reflect.Type, in []reflect.Value) []any {
	fixed := in
	var rest reflect.Value
	if t.IsVariadic() {
		fixed, rest = in[:len(in)-1], in[len(in)-1]
	}
	args := make([]any, 0, len(in))
	for _, v := range fixed {
		args = append(args, v.Interface())
	}
	if rest.IsValid() {
		for i := range rest.Len() {
			args = append(args, rest.Index(i).Interface())
		}
	}
	return args
}

func zeroResults(t reflect.Type) []reflect.Value {
	res := make([]reflect.Value, t.NumOut())
	for i := range res {
		res[i] = reflect.Zero(t.Out(i))
	}
	return res
}

// valueOf returns v as a reflect.Value of type t. Panics if v isn't
// assignable to t.
func valueOf(op string, v any, t reflect.Type) reflect.Value {
	res := reflect.New(t).Elem()
	if v == nil {
		return res
	}
	rv := reflect.ValueOf(v)
	if !rv.Type().AssignableTo(t) {
		panic(fmt.Sprintf(
			"spy: %s: value of type %s is not assignable to %s",
			op, rv.Type(), t,
		))
	}
	res.Set(rv)
	return res
}
