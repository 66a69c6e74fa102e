// Package selection turns the operator's comma-separated episode numbers
// into indices of the included and excluded lists.
//
// Numbers are 1-based as shown on screen; resolved indices are 0-based.
// Resolution never fails. Problems are returned as diagnostics:
//   - a token that is not an integer discards the whole line (MalformedError)
//   - a number outside the list is dropped on its own (RangeError)
//
//	idx, problems := selection.Resolve("1, 99", 3)
//	// idx == []int{0}, problems[0] is a *RangeError for 99
package selection
