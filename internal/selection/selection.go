package selection

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/handiism/nebula-downloader/internal/model"
)

// MalformedError reports a selection line that contains a non-integer token.
// The whole line is discarded.
type MalformedError struct {
	Line  string
	Token string
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("invalid selection %q: %q is not a number", e.Line, e.Token)
}

// RangeError reports a single number that does not address an entry of the list.
type RangeError struct {
	// Number is the 1-based number as typed.
	Number int
	// Len is the length of the list it was resolved against.
	Len int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("invalid episode number %d (list has %d)", e.Number, e.Len)
}

// Resolve parses raw and returns the valid 0-based indices for a list of
// length n, in entry order with duplicates collapsed.
//
// Blank input yields no indices and no diagnostics.
func Resolve(raw string, n int) ([]int, []error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	var numbers []int
	for _, tok := range strings.Split(raw, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		num, err := strconv.Atoi(tok)
		if err != nil {
			return nil, []error{&MalformedError{Line: raw, Token: tok}}
		}
		numbers = append(numbers, num)
	}

	var (
		indices  []int
		problems []error
		seen     = make(map[int]bool, len(numbers))
	)
	for _, num := range numbers {
		i := num - 1
		if i < 0 || i >= n {
			problems = append(problems, &RangeError{Number: num, Len: n})
			continue
		}
		if seen[i] {
			continue
		}
		seen[i] = true
		indices = append(indices, i)
	}

	return indices, problems
}

// Selection is the resolved operator choice for one channel.
type Selection struct {
	Excluded []*model.Episode
	Included []*model.Episode

	// Problems holds every diagnostic produced while resolving both lines.
	Problems []error
}

// Empty reports whether nothing was selected on either list.
func (s Selection) Empty() bool {
	return len(s.Excluded) == 0 && len(s.Included) == 0
}

// Count returns the number of selected episodes.
func (s Selection) Count() int {
	return len(s.Excluded) + len(s.Included)
}

// ResolveRequest resolves both lines of req against their own lists.
func ResolveRequest(req model.SelectionRequest, excluded, included []*model.Episode) Selection {
	var sel Selection

	idx, problems := Resolve(req.Excluded, len(excluded))
	for _, i := range idx {
		sel.Excluded = append(sel.Excluded, excluded[i])
	}
	sel.addProblems("excluded", problems)

	idx, problems = Resolve(req.Included, len(included))
	for _, i := range idx {
		sel.Included = append(sel.Included, included[i])
	}
	sel.addProblems("included", problems)

	return sel
}

func (s *Selection) addProblems(list string, problems []error) {
	for _, p := range problems {
		s.Problems = append(s.Problems, fmt.Errorf("%s episodes: %w", list, p))
	}
}
