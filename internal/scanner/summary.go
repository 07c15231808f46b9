package scanner

import (
	"fmt"
	"sort"
	"strings"
)

// Summary accumulates per-word counts of findings with an applicable fix
// across the whole run.
type Summary struct {
	counts map[string]int
}

// NewSummary creates an empty Summary.
func NewSummary() *Summary {
	return &Summary{counts: make(map[string]int)}
}

// Update records one occurrence of wrongword.
func (s *Summary) Update(wrongword string) {
	s.counts[wrongword]++
}

// String renders the counts sorted by word, one per line, with the count
// right-aligned to a 15-column field.
func (s *Summary) String() string {
	words := make([]string, 0, len(s.counts))
	for word := range s.counts {
		words = append(words, word)
	}
	sort.Strings(words)

	lines := make([]string, 0, len(words))
	for _, word := range words {
		width := 15 - len(word)
		if width < 1 {
			width = 1
		}
		lines = append(lines, fmt.Sprintf("%s%*d", word, width, s.counts[word]))
	}
	return strings.Join(lines, "\n")
}
