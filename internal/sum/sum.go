// Package sum holds three interchangeable ways to add up the integers 1..n.
// Every variant returns 0 for n <= 0.
package sum

// Formula uses Gauss' closed form n(n+1)/2.
// Time O(1), space O(1).
func Formula(n int) int {
	if n <= 0 {
		return 0
	}
	return n * (n + 1) / 2
}

// Iterative adds the terms one by one.
// Time O(n), space O(1).
func Iterative(n int) int {
	total := 0
	for i := 1; i <= n; i++ {
		total += i
	}
	return total
}

// Recursive computes n + Recursive(n-1).
// Time O(n), space O(n) for the call stack, so keep n modest.
func Recursive(n int) int {
	if n <= 0 {
		return 0
	}
	return n + Recursive(n-1)
}

// Variant names a sum implementation, used by the CLI.
type Variant struct {
	Name       string
	Complexity string
	Fn         func(int) int
}

func Variants() []Variant {
	return []Variant{
		{Name: "formula", Complexity: "O(1) time, O(1) space", Fn: Formula},
		{Name: "iterative", Complexity: "O(n) time, O(1) space", Fn: Iterative},
		{Name: "recursive", Complexity: "O(n) time, O(n) space", Fn: Recursive},
	}
}
