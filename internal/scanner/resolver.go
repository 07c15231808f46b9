package scanner

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cclauss/codespell/internal/dictionary"
	"github.com/cclauss/codespell/internal/display"
)

// capitalize upper-cases the first rune and lower-cases the rest.
func capitalize(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	return strings.ToUpper(string(r[0])) + strings.ToLower(string(r[1:]))
}

// FixCase adjusts the correction string to the case shape of the matched
// word. A capitalized word capitalizes each comma-separated candidate and
// rejoins them with ", "; an all-uppercase word upper-cases the whole
// correction; anything else is returned unchanged.
func FixCase(word, fixword string) string {
	if word == capitalize(word) {
		parts := strings.Split(fixword, ",")
		for i, part := range parts {
			parts[i] = capitalize(strings.TrimSpace(part))
		}
		return strings.Join(parts, ", ")
	}
	if word == strings.ToUpper(word) {
		return strings.ToUpper(fixword)
	}
	// both lower case, or no idea
	return fixword
}

// Prompter resolves fix decisions, blocking on stdin when interactive
// bits are set. Interactive answers mutate the dictionary entry for the
// remainder of the run, so a choice made in one file carries forward.
type Prompter struct {
	mode    InteractiveMode
	in      *bufio.Reader
	out     io.Writer
	palette *display.Palette
}

// NewPrompter creates a Prompter reading answers from in and writing
// prompts to out.
func NewPrompter(mode InteractiveMode, in io.Reader, out io.Writer, palette *display.Palette) *Prompter {
	return &Prompter{
		mode:    mode,
		in:      bufio.NewReader(in),
		out:     out,
		palette: palette,
	}
}

// Mode returns the interactivity bitmask.
func (p *Prompter) Mode() InteractiveMode {
	return p.mode
}

func (p *Prompter) readLine() string {
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		// EOF counts as a blank answer.
		return ""
	}
	return strings.TrimSpace(line)
}

// Ask decides whether to fix the matched word and returns the decision
// together with the case-adjusted display text. line is the original
// line, used to show the occurrence with the wrong word highlighted.
func (p *Prompter) Ask(line string, m Match, entry *dictionary.Misspelling) (bool, string) {
	if p.mode <= 0 {
		return entry.Fix, FixCase(m.Word, entry.Data)
	}

	// Offsets refer to the ignore-substituted text, which can be longer
	// than the original line, so clamp before slicing.
	start := min(m.Start, len(line))
	end := min(m.End, len(line))
	lineUI := line[:start] + p.palette.Wrong(m.Word) + line[end:]

	if entry.Fix && p.mode.Has(InteractiveConfirm) {
		fixword := FixCase(m.Word, entry.Data)
		for {
			fmt.Fprintf(p.out, "%s\t%s ==> %s (Y/n) ", lineUI, m.Word, fixword)
			answer := strings.ToUpper(p.readLine())
			if answer == "" {
				answer = "Y"
			}
			if answer == "Y" {
				break
			}
			if answer == "N" {
				entry.Fix = false
				break
			}
			fmt.Fprintln(p.out, "Say 'y' or 'n'")
		}
	} else if p.mode.Has(InteractiveChoose) && entry.Reason == "" {
		// Not disabled, just more than one possible fix: ask which
		// word to use.
		options := strings.Split(entry.Data, ",")
		for i, opt := range options {
			options[i] = strings.TrimSpace(opt)
		}
		if len(options) < 2 {
			return entry.Fix, FixCase(m.Word, entry.Data)
		}
		var chosen string
		for chosen == "" {
			fmt.Fprintf(p.out, "%s Choose an option (blank for none):", lineUI)
			for i, opt := range options {
				fmt.Fprintf(p.out, " %d) %s", i, FixCase(m.Word, opt))
			}
			fmt.Fprint(p.out, ": ")

			answer := p.readLine()
			if answer == "" {
				break
			}
			i, err := strconv.Atoi(answer)
			if err != nil || i < 0 || i >= len(options) {
				fmt.Fprintf(p.out, "Not a valid option\n\n")
				continue
			}
			chosen = options[i]
		}
		if chosen != "" {
			entry.Fix = true
			entry.Data = chosen
		}
	}

	return entry.Fix, FixCase(m.Word, entry.Data)
}
