package scanner

import (
	"regexp"

	"github.com/cclauss/codespell/internal/dictionary"
)

// DefaultWordPattern matches candidate words: runs of alphanumerics,
// underscore, hyphen, apostrophe (plain or curly) and backtick.
const DefaultWordPattern = "[\\p{L}\\p{N}_\\-'’`]+"

// DefaultURIPattern matches URIs for a fixed scheme set and simple
// local@domain email addresses. While characters like ( or " are fine as
// a starting break, they may occur unescaped in URIs, so the endpoint is
// any run of non-whitespace.
const DefaultURIPattern = `\b(?:https?|[ts]?ftp|file|git|smb)://[^\s]+` +
	`|\b[\w.%+-]+@[\w.-]+\b`

// Match is one candidate word occurrence within a line. Offsets are byte
// positions in the text the word was extracted from.
type Match struct {
	Start int
	End   int
	Word  string
}

// Extractor finds candidate words in a line and exempts URI-embedded
// words from consideration.
type Extractor struct {
	word   *regexp.Regexp
	ignore *regexp.Regexp // optional; matched spans are treated as whitespace
	uri    *regexp.Regexp
}

// NewExtractor creates an Extractor. ignore may be nil to disable the
// ignore pattern.
func NewExtractor(word, uri *regexp.Regexp, ignore *regexp.Regexp) *Extractor {
	return &Extractor{word: word, ignore: ignore, uri: uri}
}

// ignoreSub replaces every ignore-pattern match with a single space so
// the matched spans produce no candidate words. The substituted text is
// used for extraction only; callers display the original line.
func (e *Extractor) ignoreSub(text string) string {
	if e.ignore == nil {
		return text
	}
	return e.ignore.ReplaceAllString(text, " ")
}

// Words returns the candidate word matches in text, in order. Offsets
// refer to the ignore-substituted text.
func (e *Extractor) Words(text string) []Match {
	text = e.ignoreSub(text)
	idx := e.word.FindAllStringIndex(text, -1)
	matches := make([]Match, 0, len(idx))
	for _, span := range idx {
		matches = append(matches, Match{
			Start: span[0],
			End:   span[1],
			Word:  text[span[0]:span[1]],
		})
	}
	return matches
}

// WordStrings returns just the matched literals, for callers that do not
// need positions (filename checking, URI sub-tokenization).
func (e *Extractor) WordStrings(text string) []string {
	matches := e.Words(text)
	words := make([]string, 0, len(matches))
	for _, m := range matches {
		words = append(words, m.Word)
	}
	return words
}

// EraseURIs replaces every URI/email span in line with a single space.
// Used when the wildcard "*" exempts all URI content: spans are erased
// before tokenizing so no word inside a URI is ever flagged, while the
// same literal outside a URI still is.
func (e *Extractor) EraseURIs(line string) string {
	return e.uri.ReplaceAllString(line, " ")
}

// ApplyURIIgnores removes URI-exempted words from matches. For each
// URI/email span in line, each sub-word present in uriIgnoreWords
// suppresses exactly one match: the occurrence at that position inside
// the span when offsets line up, otherwise the first remaining match of
// the same literal. One-for-one removal, so a word appearing both inside
// and outside a URI keeps its non-URI occurrence flagged.
func (e *Extractor) ApplyURIIgnores(matches []Match, line string, uriIgnoreWords dictionary.WordSet) []Match {
	if len(uriIgnoreWords) == 0 {
		return matches
	}
	for _, span := range e.uri.FindAllStringIndex(line, -1) {
		for _, uriMatch := range e.Words(line[span[0]:span[1]]) {
			if !uriIgnoreWords.Has(uriMatch.Word) {
				continue
			}
			matches = removeMatch(matches, uriMatch.Word, span[0]+uriMatch.Start)
		}
	}
	return matches
}

// removeMatch drops the match of word at byte offset start. When no
// match sits exactly there (the ignore-pattern substitution may have
// shifted offsets), the first match of the same literal is dropped
// instead.
func removeMatch(matches []Match, word string, start int) []Match {
	byValue := -1
	for i, m := range matches {
		if m.Word != word {
			continue
		}
		if m.Start == start {
			return append(matches[:i:i], matches[i+1:]...)
		}
		if byValue < 0 {
			byValue = i
		}
	}
	if byValue < 0 {
		return matches
	}
	return append(matches[:byValue:byValue], matches[byValue+1:]...)
}
