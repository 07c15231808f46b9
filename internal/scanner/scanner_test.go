package scanner

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cclauss/codespell/internal/dictionary"
	"github.com/cclauss/codespell/internal/display"
)

type testRun struct {
	scanner *Scanner
	stdout  *bytes.Buffer
	stderr  *bytes.Buffer
}

func newTestRun(t *testing.T, dict dictionary.Dictionary, mutate func(*Config)) *testRun {
	t.Helper()

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	palette := display.NewPalette(false)
	cfg := Config{
		Dictionary: dict,
		Extractor: NewExtractor(
			regexp.MustCompile(DefaultWordPattern),
			regexp.MustCompile(DefaultURIPattern),
			nil,
		),
		Opener:   &FileOpener{Quiet: 0, Stderr: stderr},
		Prompter: NewPrompter(0, strings.NewReader(""), stdout, palette),
		Palette:  palette,
		Stdout:   stdout,
		Stderr:   stderr,
		Stdin:    strings.NewReader(""),
	}
	if mutate != nil {
		mutate(&cfg)
	}
	return &testRun{scanner: New(cfg), stdout: stdout, stderr: stderr}
}

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func autoDict(entries map[string]string) dictionary.Dictionary {
	dict := make(dictionary.Dictionary)
	for wrong, right := range entries {
		dict[wrong] = &dictionary.Misspelling{Data: right, Fix: true}
	}
	return dict
}

// TestFileReportsFinding checks the basic report format and count
func TestFileReportsFinding(t *testing.T) {
	run := newTestRun(t, autoDict(map[string]string{"teh": "the"}), nil)
	path := writeTemp(t, "see teh cat\n")

	n, err := run.scanner.File(path)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Contains(t, run.stdout.String(), path+":1: teh ==> the")
}

// TestFileWriteModeFixesAllOccurrencesOnLine checks the whole-word
// substitution replaces every occurrence once
func TestFileWriteModeFixesAllOccurrencesOnLine(t *testing.T) {
	run := newTestRun(t, autoDict(map[string]string{"teh": "the"}), func(cfg *Config) {
		cfg.Options.WriteChanges = true
	})
	path := writeTemp(t, "teh teh\n")

	n, err := run.scanner.File(path)
	require.NoError(t, err)
	assert.Equal(t, 0, n, "applied fixes are not findings")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "the the\n", string(data))
	assert.Contains(t, run.stderr.String(), "FIXED: "+path)
}

// TestFileWriteModePreservesCase checks case-shape preservation in the
// rewritten line
func TestFileWriteModePreservesCase(t *testing.T) {
	run := newTestRun(t, autoDict(map[string]string{"teh": "the"}), func(cfg *Config) {
		cfg.Options.WriteChanges = true
	})
	path := writeTemp(t, "Teh cat. TEH CAT. teh cat.\n")

	_, err := run.scanner.File(path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "The cat. THE CAT. the cat.\n", string(data))
}

// TestFileReasonBlocksFix checks a reasoned entry reports but never
// rewrites
func TestFileReasonBlocksFix(t *testing.T) {
	dict := dictionary.Dictionary{
		"teh": &dictionary.Misspelling{Data: "the", Reason: "context needed"},
	}
	run := newTestRun(t, dict, func(cfg *Config) {
		cfg.Options.WriteChanges = true
	})
	path := writeTemp(t, "teh teh\n")

	n, err := run.scanner.File(path)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "teh teh\n", string(data), "line must be unchanged")
	assert.Contains(t, run.stdout.String(), "teh ==> the  | context needed")
}

// TestFileRoundTripWhenNothingFixed checks a scan without fixes leaves
// the file bytes untouched
func TestFileRoundTripWhenNothingFixed(t *testing.T) {
	dict := dictionary.Dictionary{
		"teh": &dictionary.Misspelling{Data: "the", Fix: false},
	}
	content := "teh first\r\nsecond line\rthird\n"
	run := newTestRun(t, dict, func(cfg *Config) {
		cfg.Options.WriteChanges = true
	})
	path := writeTemp(t, content)

	_, err := run.scanner.File(path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, content, string(data), "declined fixes must not rewrite the file")
}

// TestFileExcludeLine checks verbatim exclude lines yield zero findings
func TestFileExcludeLine(t *testing.T) {
	run := newTestRun(t, autoDict(map[string]string{"teh": "the"}), func(cfg *Config) {
		cfg.ExcludeLines = map[string]struct{}{"teh excluded line\n": {}}
	})
	path := writeTemp(t, "teh excluded line\nteh reported line\n")

	n, err := run.scanner.File(path)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Contains(t, run.stdout.String(), ":2:")
	assert.NotContains(t, run.stdout.String(), ":1:")
}

// TestFileURIIgnoreWildcard checks "*" exempts all URI content
func TestFileURIIgnoreWildcard(t *testing.T) {
	uriIgnore := make(dictionary.WordSet)
	uriIgnore.Add("*")
	run := newTestRun(t, autoDict(map[string]string{"teh": "the"}), func(cfg *Config) {
		cfg.URIIgnoreWords = uriIgnore
	})
	path := writeTemp(t, "link http://x.com/teh here\nplain teh here\n")

	n, err := run.scanner.File(path)
	require.NoError(t, err)
	assert.Equal(t, 1, n, "only the non-URI occurrence is flagged")
	assert.Contains(t, run.stdout.String(), ":2:")
}

// TestFileURIIgnoreOneForOne checks the specific-word URI exemption
// suppresses exactly one occurrence per URI hit
func TestFileURIIgnoreOneForOne(t *testing.T) {
	uriIgnore := make(dictionary.WordSet)
	uriIgnore.Add("foo")
	run := newTestRun(t, autoDict(map[string]string{"foo": "food"}), func(cfg *Config) {
		cfg.URIIgnoreWords = uriIgnore
	})
	path := writeTemp(t, "see http://x.com/foo and foo\n")

	n, err := run.scanner.File(path)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

// TestFileQuietNonAutomaticFixes checks quiet bit 8 hides declined
// entries with no reason
func TestFileQuietNonAutomaticFixes(t *testing.T) {
	dict := dictionary.Dictionary{
		"wich": &dictionary.Misspelling{Data: "which, witch", Fix: false},
	}
	run := newTestRun(t, dict, func(cfg *Config) {
		cfg.Options.Quiet = QuietNonAutomaticFixes
	})
	path := writeTemp(t, "wich one\n")

	n, err := run.scanner.File(path)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Empty(t, run.stdout.String())
}

// TestFileQuietDisabledFixes checks quiet bit 4 hides reasoned entries
func TestFileQuietDisabledFixes(t *testing.T) {
	dict := dictionary.Dictionary{
		"cant": &dictionary.Misspelling{Data: "can't", Reason: "disabled because cant is a word"},
	}
	run := newTestRun(t, dict, func(cfg *Config) {
		cfg.Options.Quiet = QuietDisabledFixes
	})
	path := writeTemp(t, "cant see\n")

	n, err := run.scanner.File(path)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Empty(t, run.stdout.String())
}

// TestFileBinarySkipped checks the zero-byte sniff skips binary files
func TestFileBinarySkipped(t *testing.T) {
	run := newTestRun(t, autoDict(map[string]string{"teh": "the"}), nil)
	path := writeTemp(t, "teh\x00binary")

	n, err := run.scanner.File(path)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Contains(t, run.stderr.String(), "WARNING: Binary file: "+path)
}

// TestFileBinaryWarningSuppressed checks quiet bit 2 silences the
// binary warning
func TestFileBinaryWarningSuppressed(t *testing.T) {
	run := newTestRun(t, autoDict(map[string]string{"teh": "the"}), func(cfg *Config) {
		cfg.Options.Quiet = QuietBinaryFile
	})
	path := writeTemp(t, "teh\x00binary")

	_, err := run.scanner.File(path)
	require.NoError(t, err)
	assert.Empty(t, run.stderr.String())
}

// TestFileMissingFileYieldsZero checks unreadable files degrade to zero
// findings
func TestFileMissingFileYieldsZero(t *testing.T) {
	run := newTestRun(t, autoDict(map[string]string{"teh": "the"}), nil)
	n, err := run.scanner.File(filepath.Join(t.TempDir(), "nope.txt"))
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

// TestFileCheckFilenames checks filename findings are reported but the
// file itself is never renamed
func TestFileCheckFilenames(t *testing.T) {
	run := newTestRun(t, autoDict(map[string]string{"teh": "the"}), func(cfg *Config) {
		cfg.Options.CheckFilenames = true
		cfg.Options.WriteChanges = true
	})
	dir := t.TempDir()
	path := filepath.Join(dir, "teh.notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("clean content\n"), 0o644))

	n, err := run.scanner.File(path)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Contains(t, run.stdout.String(), path+": teh ==> the")

	_, statErr := os.Stat(path)
	assert.NoError(t, statErr, "the file must not be renamed")
}

// TestFileContextWindow checks surrounding lines print once per line
func TestFileContextWindow(t *testing.T) {
	run := newTestRun(t, autoDict(map[string]string{"teh": "the"}), func(cfg *Config) {
		cfg.Options.Context = &Context{Before: 1, After: 1}
	})
	path := writeTemp(t, "before\nteh teh twice\nafter\n")

	n, err := run.scanner.File(path)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	out := run.stdout.String()
	assert.Contains(t, out, ": before\n> teh teh twice\n: after\n")
	assert.Equal(t, 1, strings.Count(out, "> teh teh twice"),
		"context prints once per line even with several findings")
}

// TestFileStdinEchoesCorrections checks "-" writes the corrected buffer
// to stdout behind a separator instead of touching disk
func TestFileStdinEchoesCorrections(t *testing.T) {
	run := newTestRun(t, autoDict(map[string]string{"teh": "the"}), func(cfg *Config) {
		cfg.Options.WriteChanges = true
		cfg.Stdin = strings.NewReader("teh cat\nsecond line\n")
	})

	n, err := run.scanner.File("-")
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Contains(t, run.stdout.String(), "---\nthe cat\nsecond line\n")
}

// TestFileSummaryCountsAppliedFixes checks the summary accumulator
func TestFileSummaryCountsAppliedFixes(t *testing.T) {
	summary := NewSummary()
	run := newTestRun(t, autoDict(map[string]string{"teh": "the", "wich": "which"}), func(cfg *Config) {
		cfg.Options.Summary = summary
	})
	path := writeTemp(t, "teh wich teh\n")

	_, err := run.scanner.File(path)
	require.NoError(t, err)

	out := summary.String()
	assert.Contains(t, out, "teh")
	assert.Contains(t, out, "wich")
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "teh"), "summary is sorted by word")
	assert.True(t, strings.HasSuffix(lines[0], "2"), "teh counted twice")
}

// TestFileInteractiveSessionCarriesAcrossFiles checks a confirm-mode
// decline persists to later files
func TestFileInteractiveSessionCarriesAcrossFiles(t *testing.T) {
	dict := autoDict(map[string]string{"teh": "the"})
	run := newTestRun(t, dict, func(cfg *Config) {
		cfg.Options.WriteChanges = true
		cfg.Prompter = NewPrompter(InteractiveConfirm,
			strings.NewReader("n\n"), &bytes.Buffer{}, display.NewPalette(false))
	})
	first := writeTemp(t, "teh one\n")
	second := writeTemp(t, "teh two\n")

	_, err := run.scanner.File(first)
	require.NoError(t, err)
	_, err = run.scanner.File(second)
	require.NoError(t, err)

	data, err := os.ReadFile(second)
	require.NoError(t, err)
	assert.Equal(t, "teh two\n", string(data),
		"the declined fix must stay declined in later files")
	assert.False(t, dict["teh"].Fix)
}

// TestSummarySortedOutput checks the report format of Summary
func TestSummarySortedOutput(t *testing.T) {
	s := NewSummary()
	s.Update("wich")
	s.Update("abandonned")
	s.Update("wich")

	lines := strings.Split(s.String(), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "abandonned"))
	assert.True(t, strings.HasPrefix(lines[1], "wich"))
}
