package scanner

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/gofrs/flock"

	"github.com/cclauss/codespell/internal/dictionary"
	"github.com/cclauss/codespell/internal/display"
)

// Context is the number of surrounding lines shown around a finding.
type Context struct {
	Before int
	After  int
}

// Options holds the per-run scanning switches.
type Options struct {
	// WriteChanges rewrites files in place when a fix applies.
	WriteChanges bool
	// CheckFilenames also tokenizes and checks the filename itself.
	CheckFilenames bool
	// Quiet suppresses categories of output.
	Quiet QuietLevel
	// Context, when non-nil, prints surrounding lines for findings.
	Context *Context
	// Summary, when non-nil, accumulates per-word fix counts.
	Summary *Summary
}

// Config wires a Scanner together.
type Config struct {
	Dictionary     dictionary.Dictionary
	ExcludeLines   map[string]struct{}
	URIIgnoreWords dictionary.WordSet
	Extractor      *Extractor
	Opener         *FileOpener
	Prompter       *Prompter
	Palette        *display.Palette
	Options        Options

	// Stdout and Stderr default to the process streams; Stdin feeds the
	// "-" pseudo-file.
	Stdout io.Writer
	Stderr io.Writer
	Stdin  io.Reader
}

// Scanner drives per-file, per-line detection, reporting and optional
// rewriting. Processing is strictly sequential so reported findings and
// interactive prompts come in a deterministic order.
type Scanner struct {
	dict         dictionary.Dictionary
	excludeLines map[string]struct{}
	uriIgnore    dictionary.WordSet
	extractor    *Extractor
	opener       *FileOpener
	prompter     *Prompter
	palette      *display.Palette
	opts         Options

	stdout io.Writer
	stderr io.Writer
	stdin  io.Reader
}

// New creates a Scanner from cfg.
func New(cfg Config) *Scanner {
	s := &Scanner{
		dict:         cfg.Dictionary,
		excludeLines: cfg.ExcludeLines,
		uriIgnore:    cfg.URIIgnoreWords,
		extractor:    cfg.Extractor,
		opener:       cfg.Opener,
		prompter:     cfg.Prompter,
		palette:      cfg.Palette,
		opts:         cfg.Options,
		stdout:       cfg.Stdout,
		stderr:       cfg.Stderr,
		stdin:        cfg.Stdin,
	}
	if s.stdout == nil {
		s.stdout = os.Stdout
	}
	if s.stderr == nil {
		s.stderr = os.Stderr
	}
	if s.stdin == nil {
		s.stdin = os.Stdin
	}
	if s.excludeLines == nil {
		s.excludeLines = make(map[string]struct{})
	}
	if s.uriIgnore == nil {
		s.uriIgnore = make(dictionary.WordSet)
	}
	return s
}

// isTextFile sniffs the first 1024 bytes for a zero byte.
func isTextFile(filename string) (bool, error) {
	f, err := os.Open(filename)
	if err != nil {
		return false, err
	}
	defer f.Close()

	buf := make([]byte, 1024)
	n, err := f.Read(buf)
	if err != nil && err != io.EOF {
		return false, err
	}
	return !bytes.Contains(buf[:n], []byte{0}), nil
}

// File scans one file (or stdin for "-") and returns the number of
// non-suppressed findings. Unreadable and binary files yield zero
// findings; only a decode failure in hard encoding detection mode is
// returned as an error, which aborts the run.
func (s *Scanner) File(filename string) (int, error) {
	badCount := 0
	var lines []string
	changed := false
	encoding := Encodings[0]

	if filename == "-" {
		data, err := io.ReadAll(s.stdin)
		if err != nil {
			return badCount, nil
		}
		lines = dictionary.SplitLines(string(data))
	} else {
		if s.opts.CheckFilenames {
			badCount += s.checkFilename(filename)
		}

		// ignore irregular files
		info, err := os.Stat(filename)
		if err != nil || !info.Mode().IsRegular() {
			return badCount, nil
		}

		text, err := isTextFile(filename)
		if err != nil {
			if errors.Is(err, fs.ErrPermission) {
				fmt.Fprintf(s.stderr, "WARNING: permission denied: %s\n", filename)
			}
			return badCount, nil
		}
		if !text {
			if !s.opts.Quiet.Has(QuietBinaryFile) {
				fmt.Fprintf(s.stderr, "WARNING: Binary file: %s\n", filename)
			}
			return badCount, nil
		}

		lines, encoding, err = s.opener.Open(filename)
		if err != nil {
			if s.opener.UseChardet {
				return badCount, err
			}
			return badCount, nil
		}
	}

	for i := range lines {
		line := lines[i]
		if _, excluded := s.excludeLines[line]; excluded {
			continue
		}

		fixedWords := make(map[string]struct{})
		askedFor := make(map[string]struct{})
		contextShown := false

		// If all URI spelling errors are ignored, erase URIs before
		// extracting words. Otherwise apply ignores after extraction,
		// so a URI ignore word occurring both inside and outside a URI
		// is still flagged once.
		if s.uriIgnore.Has("*") {
			line = s.extractor.EraseURIs(line)
		}
		matches := s.extractor.Words(line)
		if !s.uriIgnore.Has("*") {
			matches = s.extractor.ApplyURIIgnores(matches, line, s.uriIgnore)
		}

		for _, m := range matches {
			word := m.Word
			lword := strings.ToLower(word)
			entry, ok := s.dict[lword]
			if !ok {
				continue
			}

			fix := entry.Fix
			fixword := FixCase(word, entry.Data)

			if s.prompter != nil && s.prompter.Mode() != 0 {
				if _, asked := askedFor[lword]; !asked {
					if s.opts.Context != nil {
						contextShown = true
						s.printContext(lines, i)
					}
					fix, fixword = s.prompter.Ask(lines[i], m, entry)
					askedFor[lword] = struct{}{}
				}
			}

			if s.opts.Summary != nil && fix {
				s.opts.Summary.Update(lword)
			}

			if _, done := fixedWords[word]; done {
				// The whole-word substitution below already replaced
				// every occurrence of this literal on the line.
				continue
			}

			if s.opts.WriteChanges && fix {
				changed = true
				pattern := regexp.MustCompile(`\b` + regexp.QuoteMeta(word) + `\b`)
				lines[i] = pattern.ReplaceAllString(lines[i], fixword)
				fixedWords[word] = struct{}{}
				continue
			}

			// A declined fix in choose mode was already offered to the
			// user, so stay silent about it.
			if s.prompter != nil && s.prompter.Mode().Has(InteractiveChoose) &&
				!fix && entry.Reason == "" {
				continue
			}

			var creason string
			if entry.Reason != "" {
				if s.opts.Quiet.Has(QuietDisabledFixes) {
					continue
				}
				creason = "  | " + s.palette.File(entry.Reason)
			} else if s.opts.Quiet.Has(QuietNonAutomaticFixes) {
				continue
			}

			badCount++

			if !contextShown && s.opts.Context != nil {
				contextShown = true
				s.printContext(lines, i)
			}

			cline := s.palette.File(strconv.Itoa(i + 1))
			cwrong := s.palette.Wrong(word)
			cright := s.palette.Fix(fixword)
			if filename != "-" {
				fmt.Fprintf(s.stdout, "%s:%s: %s ==> %s%s\n",
					s.palette.File(filename), cline, cwrong, cright, creason)
			} else {
				fmt.Fprintf(s.stdout, "%s: %s\n\t%s ==> %s%s\n",
					cline, strings.TrimSpace(line), cwrong, cright, creason)
			}
		}
	}

	if changed {
		if filename == "-" {
			// Never write the stdin pseudo-file to disk; echo the
			// corrected buffer instead.
			fmt.Fprintln(s.stdout, "---")
			for _, line := range lines {
				fmt.Fprint(s.stdout, line)
			}
		} else {
			if !s.opts.Quiet.Has(QuietFixes) {
				fmt.Fprintf(s.stderr, "%s %s\n", s.palette.Fix("FIXED:"), filename)
			}
			if err := s.writeBack(filename, lines, encoding); err != nil {
				fmt.Fprintf(s.stderr, "WARNING: failed to write changes: %s: %v\n", filename, err)
			}
		}
	}
	return badCount, nil
}

// checkFilename runs the word check over the filename itself. Findings
// are reported and counted like line findings but never written back.
func (s *Scanner) checkFilename(filename string) int {
	badCount := 0
	for _, word := range s.extractor.WordStrings(filename) {
		lword := strings.ToLower(word)
		entry, ok := s.dict[lword]
		if !ok {
			continue
		}
		fixword := FixCase(word, entry.Data)

		if s.opts.Summary != nil && entry.Fix {
			s.opts.Summary.Update(lword)
		}

		var creason string
		if entry.Reason != "" {
			if s.opts.Quiet.Has(QuietDisabledFixes) {
				continue
			}
			creason = "  | " + s.palette.File(entry.Reason)
		} else if s.opts.Quiet.Has(QuietNonAutomaticFixes) {
			continue
		}

		badCount++
		fmt.Fprintf(s.stdout, "%s: %s ==> %s%s\n",
			s.palette.File(filename), s.palette.Wrong(word), s.palette.Fix(fixword), creason)
	}
	return badCount
}

// printContext prints the configured window around lines[index], marking
// the finding's line with ">" and the rest with ":".
func (s *Scanner) printContext(lines []string, index int) {
	ctx := s.opts.Context
	for i := index - ctx.Before; i <= index+ctx.After; i++ {
		if i < 0 || i >= len(lines) {
			continue
		}
		marker := ":"
		if i == index {
			marker = ">"
		}
		fmt.Fprintf(s.stdout, "%s %s\n", marker, strings.TrimRight(lines[i], " \t\r\n\v\f"))
	}
}

// writeBack persists the line buffer in its original encoding, holding
// an advisory lock so concurrent runs do not interleave writes.
func (s *Scanner) writeBack(filename string, lines []string, encoding string) error {
	data, err := EncodeLines(lines, encoding)
	if err != nil {
		return err
	}

	lock := flock.New(filename)
	if err := lock.Lock(); err != nil {
		return err
	}
	defer lock.Unlock()

	return os.WriteFile(filename, data, 0o644)
}
