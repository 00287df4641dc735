package flow

import (
	"strconv"
	"strings"
)

// IDAllocator issues strictly increasing integer node IDs as strings.
//
// The zero value is ready to use and issues "1" first. An allocator is not
// safe for concurrent use; the editor session owns it and calls it from its
// single writer goroutine.
type IDAllocator struct {
	last int
}

// NewIDAllocator returns an allocator whose first ID is "1".
func NewIDAllocator() *IDAllocator { return &IDAllocator{} }

// Next returns the next ID.
func (a *IDAllocator) Next() string {
	a.last++
	return strconv.Itoa(a.last)
}

// Peek returns the integer the next call to Next will issue.
func (a *IDAllocator) Peek() int { return a.last + 1 }

// Reseed moves the allocator past every numeric ID in ids, so the next ID is
// max(numeric ids)+1, or 1 when none are numeric.
//
// Reseed must run after any bulk load (storage hydration, import) and before
// the next node is created. An ID counts as numeric when it starts with a
// run of decimal digits, optionally after whitespace and a sign: "12" and
// "12abc" both count as 12, "n3" does not count.
func (a *IDAllocator) Reseed(ids []string) {
	maxID := 0
	for _, id := range ids {
		if n := LeadingInt(id); n > maxID {
			maxID = n
		}
	}
	a.last = maxID
}

// Observe moves the allocator past id when id is numeric and not below the
// next value, so an id added from outside the allocator is never issued
// again.
func (a *IDAllocator) Observe(id string) {
	if n := LeadingInt(id); n > a.last {
		a.last = n
	}
}

// LeadingInt parses the leading integer of s, returning 0 when s has none
// or the value does not fit in an int.
func LeadingInt(s string) int {
	s = strings.TrimLeft(s, " \t\n\r")
	sign := ""
	if s != "" && (s[0] == '-' || s[0] == '+') {
		sign, s = s[:1], s[1:]
	}
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0
	}
	n, err := strconv.Atoi(sign + s[:end])
	if err != nil {
		return 0
	}
	return n
}
