// Package dictionary builds the misspelling lookup table and the word
// exemption sets consumed by the scanner.
//
// Dictionary sources are plain UTF-8 text, one entry per line, with the
// grammar:
//
//	wrong->correction[,reason]
//
// The correction may itself be a comma-separated candidate list. An entry
// with no comma at all is applied automatically in write mode; a trailing
// comma or an attached reason disables automatic fixing.
package dictionary

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Misspelling is one dictionary entry. Data holds the lowercase
// correction candidates joined by commas. Fix reports whether the
// correction may be applied without confirmation. A non-empty Reason
// implies Fix is false and is displayed instead of fixing.
//
// Interactive mode mutates Fix and Data for the remainder of the run, so
// entries are shared by pointer.
type Misspelling struct {
	Data   string
	Fix    bool
	Reason string
}

// Dictionary maps a lowercase misspelled word to its entry. Later
// sources overwrite earlier ones for the same key.
type Dictionary map[string]*Misspelling

// WordSet is a case-sensitive set of words.
type WordSet map[string]struct{}

// Add inserts a word into the set.
func (s WordSet) Add(word string) {
	s[word] = struct{}{}
}

// Has reports whether word is in the set.
func (s WordSet) Has(word string) bool {
	_, ok := s[word]
	return ok
}

// ParseWordLists builds a WordSet from comma-separated word lists, one
// list per element. Surrounding whitespace on each word is trimmed.
func ParseWordLists(lists []string) WordSet {
	words := make(WordSet)
	for _, list := range lists {
		for _, word := range strings.Split(list, ",") {
			word = strings.TrimSpace(word)
			if word != "" {
				words.Add(word)
			}
		}
	}
	return words
}

// LoadWordFile adds the words from filename (one per line) to words.
func LoadWordFile(filename string, words WordSet) error {
	f, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open ignore-words file: %w", err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		word := strings.TrimSpace(sc.Text())
		if word != "" {
			words.Add(word)
		}
	}
	return sc.Err()
}

// Build reads dictionary entries from r into dict, skipping keys present
// in ignore. name is used in error messages only.
func Build(r io.Reader, name string, dict Dictionary, ignore WordSet) error {
	sc := bufio.NewScanner(r)
	lineno := 0
	for sc.Scan() {
		lineno++
		line := sc.Text()
		if line == "" {
			continue
		}

		key, data, found := strings.Cut(line, "->")
		if !found {
			return fmt.Errorf("%s:%d: invalid dictionary entry %q: missing \"->\"", name, lineno, line)
		}

		key = strings.ToLower(key)
		if ignore.Has(key) {
			continue
		}
		data = strings.TrimSpace(strings.ToLower(data))

		entry := &Misspelling{}
		comma := strings.LastIndex(data, ",")
		switch {
		case comma < 0:
			entry.Fix = true
			entry.Data = data
		case comma == len(data)-1:
			entry.Data = data[:comma]
		default:
			entry.Data = data[:comma]
			entry.Reason = strings.TrimSpace(data[comma+1:])
		}

		dict[key] = entry
	}
	return sc.Err()
}

// LoadFile reads one dictionary file into dict.
func LoadFile(filename string, dict Dictionary, ignore WordSet) error {
	f, err := os.Open(filename)
	if err != nil {
		return fmt.Errorf("failed to open dictionary file: %w", err)
	}
	defer f.Close()
	return Build(f, filename, dict, ignore)
}

// LoadExcludeFile reads lines to exclude from scanning. Lines are stored
// verbatim, terminators included, and matched exactly against input
// lines.
func LoadExcludeFile(filename string, excludeLines map[string]struct{}) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read exclude file: %w", err)
	}
	for _, line := range SplitLines(string(data)) {
		excludeLines[line] = struct{}{}
	}
	return nil
}

// SplitLines splits text into lines keeping the terminators attached.
// Recognizes "\n", "\r\n" and lone "\r" so rewritten files keep their
// newline convention byte for byte.
func SplitLines(text string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '\n':
			lines = append(lines, text[start:i+1])
			start = i + 1
		case '\r':
			if i+1 < len(text) && text[i+1] == '\n' {
				i++
			}
			lines = append(lines, text[start:i+1])
			start = i + 1
		}
	}
	if start < len(text) {
		lines = append(lines, text[start:])
	}
	return lines
}
