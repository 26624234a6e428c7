package spy_test

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/gost-dom/spy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpyRecordsArguments(t *testing.T) {
	s := spy.New[func(...any)](nil)
	f := s.Func()

	f(1, 2, 3)
	f("a", "b", "c")

	require.Equal(t, 2, s.CallCount())
	if diff := cmp.Diff([]any{1, 2, 3}, s.GetCall(0).Args); diff != "" {
		t.Errorf("first call args mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]any{"a", "b", "c"}, s.GetCall(1).Args); diff != "" {
		t.Errorf("second call args mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 0, s.GetCall(0).Index)
	assert.Equal(t, 1, s.GetCall(1).Index)
}

func TestSpyRecordsTypedArguments(t *testing.T) {
	s := spy.New[func(string, int, ...bool) error](nil)
	f := s.Func()

	f("x", 42)
	f("y", 7, true, false)

	want := []spy.Call{
		{Index: 0, Args: []any{"x", 42}},
		{Index: 1, Args: []any{"y", 7, true, false}},
	}
	if diff := cmp.Diff(want, s.Calls()); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}
}

func TestSpyGetCallOutOfRange(t *testing.T) {
	s := spy.New[func()](nil)
	s.Func()()

	assert.Nil(t, s.GetCall(1))
	assert.Nil(t, s.GetCall(-1))
	assert.NotNil(t, s.GetCall(0))
}

func TestSpyCallsDelegate(t *testing.T) {
	s := spy.New(func(thing bool) string {
		if thing {
			return "a"
		}
		return "b"
	})
	f := s.Func()

	assert.Equal(t, "a", f(true))
	assert.Equal(t, "b", f(false))
	assert.Equal(t, 2, s.CallCount())
}

func TestSpyCallsVariadicDelegate(t *testing.T) {
	s := spy.New(func(sep string, parts ...string) int { return len(parts) })

	assert.Equal(t, 3, s.Func()(",", "a", "b", "c"))
	assert.Equal(t, []any{",", "a", "b", "c"}, s.GetCall(0).Args)
}

func TestSpyReturnsFixedValue(t *testing.T) {
	f := spy.New[func() string](nil).Returns("hi").Func()
	assert.Equal(t, "hi", f())
	assert.Equal(t, "hi", f())
}

func TestSpyReturnsZeroValuesByDefault(t *testing.T) {
	f := spy.New[func() (int, string, error)](nil).Func()
	n, s, err := f()
	assert.Zero(t, n)
	assert.Zero(t, s)
	assert.NoError(t, err)
}

func TestSpyReturnsNilAsZeroValue(t *testing.T) {
	errFail := errors.New("fail")
	f := spy.New[func() (*int, error)](nil).Returns(nil, errFail).Func()
	p, err := f()
	assert.Nil(t, p)
	assert.Same(t, errFail, err)
}

func TestSpyDelegateTakesPrecedenceOverReturns(t *testing.T) {
	s := spy.New(func(x int) int { return x * 2 }).Returns(-1)
	assert.Equal(t, 8, s.Func()(4))

	s.SetDelegate(nil)
	assert.Equal(t, -1, s.Func()(4))
}

func TestSpyReturnsPanicsOnMismatch(t *testing.T) {
	s := spy.New[func() (int, error)](nil)
	assert.PanicsWithValue(t,
		"spy: Returns: func() (int, error) has 2 results, got 1 values",
		func() { s.Returns(1) })
	assert.PanicsWithValue(t,
		"spy: Returns: value of type string is not assignable to int",
		func() { s.Returns("1", nil) })
}

func TestNewPanicsOnNonFunctionType(t *testing.T) {
	assert.PanicsWithValue(t,
		"spy: New: int is not a function type",
		func() { spy.New(0) })
}

func TestSpyCalled(t *testing.T) {
	s := spy.New[func()](nil)
	assert.False(t, s.Called())
	s.Func()()
	assert.True(t, s.Called())
}

func TestSpyCallCount(t *testing.T) {
	s := spy.New[func()](nil)
	f := s.Func()

	assert.Equal(t, 0, s.CallCount())
	f()
	assert.Equal(t, 1, s.CallCount())
	f()
	f()
	assert.Equal(t, 3, s.CallCount())
}

func TestSpyReset(t *testing.T) {
	s := spy.New(func() string { return "delegated" })
	f := s.Func()
	f()
	f()
	require.Equal(t, 2, s.CallCount())

	s.Reset()
	assert.False(t, s.Called())
	assert.Equal(t, 0, s.CallCount())
	assert.Nil(t, s.GetCall(0))
	assert.Equal(t, "delegated", f(), "Reset should keep the delegate")
	assert.Equal(t, 0, s.GetCall(0).Index)
}

func TestSpyResetKeepsReturnValue(t *testing.T) {
	s := spy.New[func() int](nil).Returns(7)
	s.Func()()
	s.Reset()
	assert.Equal(t, 7, s.Func()())
}

func TestSpySetDelegate(t *testing.T) {
	s := spy.New[func(string) string](nil)
	s.SetDelegate(func(arg string) string {
		assert.Equal(t, "hi", arg)
		return "yo"
	})
	assert.Equal(t, "yo", s.Func()("hi"))

	s.SetDelegate(func(string) string { return "last" })
	assert.Equal(t, "last", s.Func()("hi"))
}

func TestSpyRecordsCallWhenDelegatePanics(t *testing.T) {
	s := spy.New(func(int) { panic("boom") })

	assert.PanicsWithValue(t, "boom", func() { s.Func()(1) })
	assert.Equal(t, 1, s.CallCount())
	assert.Equal(t, []any{1}, s.GetCall(0).Args)
}

func TestSpyInvoke(t *testing.T) {
	s := spy.New(func(a int, err error, rest ...string) (string, error) {
		return fmt.Sprint(a, rest), err
	})

	res := s.Invoke(1, nil, "x", "y")
	assert.Equal(t, []any{"1 [x y]", nil}, res)
	assert.Equal(t, []any{1, nil, "x", "y"}, s.GetCall(0).Args)

	s.Func()(2, nil)
	assert.Equal(t, 2, s.CallCount(), "Invoke and Func share the call list")
}

func TestSpyInvokePanicsOnWrongArgumentCount(t *testing.T) {
	s := spy.New[func(int, int)](nil)
	assert.PanicsWithValue(t,
		"spy: Invoke: func(int, int) called with 1 arguments",
		func() { s.Invoke(1) })
	assert.Equal(t, 0, s.CallCount())
}

func TestSpyDelegateCanCallBackIntoSpy(t *testing.T) {
	var s *spy.Spy[func() int]
	s = spy.New(func() int { return s.CallCount() })
	assert.Equal(t, 1, s.Func()())
	assert.Equal(t, 2, s.Func()())
}

func TestSpyConcurrentCalls(t *testing.T) {
	s := spy.New[func(int)](nil)
	f := s.Func()

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			f(i)
		}()
	}
	wg.Wait()

	calls := s.Calls()
	require.Len(t, calls, 50)
	seen := make(map[any]bool)
	for i, c := range calls {
		assert.Equal(t, i, c.Index)
		seen[c.Args[0]] = true
	}
	assert.Len(t, seen, 50)
}

func TestSpyReturnedCallsAreCopies(t *testing.T) {
	s := spy.New[func(int, int)](nil)
	s.Func()(1, 2)

	s.GetCall(0).Args[0] = 99
	s.Calls()[0].Args[1] = 98

	assert.Equal(t, []any{1, 2}, s.GetCall(0).Args)
	assert.Equal(t, []any{1, 2}, s.Calls()[0].Args)
}
