package spy

import "slices"

// Call is the record of a single invocation of a spy. Calls returned by a
// spy are copies; modifying them doesn't affect the recorded call.
type Call struct {
	// Index is the position of the call in the spy's call list.
	Index int
	// Args are the arguments in the order they were passed. Variadic
	// arguments are expanded, one element each.
	Args []any
}

type calls struct {
	calls []Call
}

func (c *calls) add(args []any) {
	c.calls = append(c.calls, Call{
		Index: len(c.calls),
		Args:  args,
	})
}

func (c *calls) count() int { return len(c.calls) }

func (c *calls) nth(n int) *Call {
	if n >= 0 && n < len(c.calls) {
		res := c.calls[n]
		res.Args = slices.Clone(res.Args)
		return &res
	}
	return nil
}

func (c *calls) snapshot() []Call {
	res := make([]Call, len(c.calls))
	for i, call := range c.calls {
		res[i] = Call{Index: call.Index, Args: slices.Clone(call.Args)}
	}
	return res
}

func (c *calls) reset() { c.calls = nil }
