// Package cmd wires the command line to the scanning engine: flag
// parsing, config-file merging, pattern compilation, dictionary loading
// and the file walk.
package cmd

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/cclauss/codespell/internal/config"
	"github.com/cclauss/codespell/internal/dictionary"
	"github.com/cclauss/codespell/internal/display"
	"github.com/cclauss/codespell/internal/scanner"
	"github.com/cclauss/codespell/internal/walker"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// ErrFound reports that at least one non-suppressed misspelling was
// found; the CLI maps it to its own exit status.
var ErrFound = errors.New("misspellings found")

// ErrUsage reports a usage or configuration error detected before
// scanning started. The message and help text have already been printed.
var ErrUsage = errors.New("usage error")

// NewRootCommand creates the root cobra command for codespell
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "codespell [file-or-directory]...",
		Short: "Check source trees for common misspellings",
		Long: `Codespell scans text files for words present in a curated dictionary of
common misspellings and reports or fixes them.

Files and directories given as arguments are scanned recursively; with no
arguments the current directory is scanned. Words appearing inside URIs
and email addresses can be exempted, whole lines can be excluded, and
with --write-changes fixes are applied in place.

Configuration is read from pyproject.toml ([tool.codespell]) and
.codespell.yaml if present. Command-line flags override configuration
file settings.`,
		Version:       Version,
		Args:          cobra.ArbitraryArgs,
		RunE:          runScan,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := cmd.Flags()
	flags.BoolP("write-changes", "w", false, "write changes in place if possible")
	flags.StringArrayP("dictionary", "D", nil,
		"custom dictionary file with spelling corrections; \"-\" selects the builtin dictionaries; may be repeated")
	flags.String("builtin", dictionary.DefaultBuiltins,
		"comma-separated list of builtin dictionaries to include (when \"-D -\" or no \"-D\" is passed); options are:"+
			dictionary.BuiltinHelp())
	flags.String("ignore-regex", "",
		"regular expression for patterns to ignore by treating them as whitespace")
	flags.StringArrayP("ignore-words", "I", nil,
		"file with words to ignore, one word per line; may be repeated")
	flags.StringArrayP("ignore-words-list", "L", nil,
		"comma-separated list of words to ignore; may be repeated")
	flags.StringArray("uri-ignore-words-list", nil,
		"comma-separated list of words to ignore inside URIs and emails only; \"*\" ignores all URI content")
	flags.StringP("regex", "r", "",
		"regular expression used to find words; cannot be combined with --write-changes")
	flags.String("uri-regex", "",
		"regular expression used to find URIs and emails")
	flags.BoolP("summary", "s", false, "print summary of fixes")
	flags.Bool("count", false, "print the number of errors as the last line of stderr")
	flags.StringArrayP("skip", "S", nil,
		"comma-separated list of files to skip; accepts globs; may be repeated")
	flags.StringP("exclude-file", "x", "",
		"file with lines to exclude from checking, matched verbatim")
	flags.IntP("interactive", "i", 0,
		"interactive mode when writing changes: 1 confirm, 2 choose among fixes, 3 both")
	flags.IntP("quiet-level", "q", int(scanner.DefaultQuietLevel),
		"bitmask suppressing messages: 1 encoding warnings, 2 binary-file warnings, 4 disabled fixes, 8 non-automatic fixes, 16 fixed-file notices, 32 config-file report")
	flags.BoolP("hard-encoding-detection", "e", false,
		"detect each file's encoding statistically instead of trying utf-8 then iso-8859-1")
	flags.BoolP("check-filenames", "f", false, "check file names as well")
	flags.BoolP("check-hidden", "H", false,
		"check hidden files and directories (those starting with \".\") as well")
	flags.IntP("after-context", "A", 0, "print LINES of trailing context")
	flags.IntP("before-context", "B", 0, "print LINES of leading context")
	flags.IntP("context", "C", 0, "print LINES of surrounding context")
	flags.BoolP("enable-colors", "c", false, "enable colors even when not printing to a terminal")
	flags.BoolP("disable-colors", "d", false, "disable colors even when printing to a terminal")
	flags.String("config", "", "path to a YAML config file")
	flags.String("toml", "", "path to a pyproject.toml file")

	return cmd
}

// usageErrorf prints the error and the command help, then returns
// ErrUsage so main can map it to the usage exit status.
func usageErrorf(cmd *cobra.Command, format string, a ...any) error {
	fmt.Fprintf(cmd.ErrOrStderr(), "ERROR: "+format+"\n", a...)
	_ = cmd.Usage()
	return ErrUsage
}

// applyConfig copies config-file values onto flags the user did not set
// on the command line.
func applyConfig(cmd *cobra.Command, cfg *config.File) {
	flags := cmd.Flags()
	set := func(name string, values ...string) {
		if flags.Changed(name) {
			return
		}
		for _, value := range values {
			_ = flags.Set(name, value)
		}
	}

	if cfg.Skip != nil {
		set("skip", *cfg.Skip)
	}
	if cfg.Builtin != nil {
		set("builtin", *cfg.Builtin)
	}
	if len(cfg.Dictionary) > 0 {
		set("dictionary", cfg.Dictionary...)
	}
	if len(cfg.IgnoreWords) > 0 {
		set("ignore-words", cfg.IgnoreWords...)
	}
	if cfg.IgnoreWordsList != nil {
		set("ignore-words-list", *cfg.IgnoreWordsList)
	}
	if cfg.URIIgnoreWordsList != nil {
		set("uri-ignore-words-list", *cfg.URIIgnoreWordsList)
	}
	if cfg.ExcludeFile != nil {
		set("exclude-file", *cfg.ExcludeFile)
	}
	if cfg.Regex != nil {
		set("regex", *cfg.Regex)
	}
	if cfg.URIRegex != nil {
		set("uri-regex", *cfg.URIRegex)
	}
	if cfg.IgnoreRegex != nil {
		set("ignore-regex", *cfg.IgnoreRegex)
	}
	if cfg.QuietLevel != nil {
		set("quiet-level", strconv.Itoa(*cfg.QuietLevel))
	}
	if cfg.Interactive != nil {
		set("interactive", strconv.Itoa(*cfg.Interactive))
	}
	if cfg.WriteChanges != nil {
		set("write-changes", strconv.FormatBool(*cfg.WriteChanges))
	}
	if cfg.CheckFilenames != nil {
		set("check-filenames", strconv.FormatBool(*cfg.CheckFilenames))
	}
	if cfg.CheckHidden != nil {
		set("check-hidden", strconv.FormatBool(*cfg.CheckHidden))
	}
	if cfg.HardEncodingDetection != nil {
		set("hard-encoding-detection", strconv.FormatBool(*cfg.HardEncodingDetection))
	}
	if cfg.Summary != nil {
		set("summary", strconv.FormatBool(*cfg.Summary))
	}
	if cfg.Count != nil {
		set("count", strconv.FormatBool(*cfg.Count))
	}
	if cfg.Context != nil {
		set("context", strconv.Itoa(*cfg.Context))
	}
	if cfg.BeforeContext != nil {
		set("before-context", strconv.Itoa(*cfg.BeforeContext))
	}
	if cfg.AfterContext != nil {
		set("after-context", strconv.Itoa(*cfg.AfterContext))
	}
}

// runScan implements the whole run: configuration, dictionary build,
// walk, scan, summary.
func runScan(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	stdout := cmd.OutOrStdout()
	stderr := cmd.ErrOrStderr()

	tomlPath, _ := flags.GetString("toml")
	yamlPath, _ := flags.GetString("config")
	cfg, usedCfgFiles, err := config.Load(tomlPath, yamlPath)
	if err != nil {
		return usageErrorf(cmd, "%v", err)
	}
	applyConfig(cmd, cfg)

	quietInt, _ := flags.GetInt("quiet-level")
	quiet := scanner.QuietLevel(quietInt)

	if !quiet.Has(scanner.QuietConfigFiles) && len(usedCfgFiles) > 0 {
		fmt.Fprintln(stdout, "Used config files:")
		for i, cfgFile := range usedCfgFiles {
			fmt.Fprintf(stdout, "    %d: %s\n", i+1, cfgFile)
		}
	}

	writeChanges, _ := flags.GetBool("write-changes")
	wordPattern, _ := flags.GetString("regex")
	if wordPattern != "" && writeChanges {
		return usageErrorf(cmd, "--write-changes cannot be used together with --regex")
	}
	if wordPattern == "" {
		wordPattern = scanner.DefaultWordPattern
	}
	wordRegex, err := regexp.Compile(wordPattern)
	if err != nil {
		return usageErrorf(cmd, "invalid --regex %q (%v)", wordPattern, err)
	}

	var ignoreRegex *regexp.Regexp
	if pattern, _ := flags.GetString("ignore-regex"); pattern != "" {
		ignoreRegex, err = regexp.Compile(pattern)
		if err != nil {
			return usageErrorf(cmd, "invalid --ignore-regex %q (%v)", pattern, err)
		}
	}

	uriPattern, _ := flags.GetString("uri-regex")
	if uriPattern == "" {
		uriPattern = scanner.DefaultURIPattern
	}
	uriRegex, err := regexp.Compile(uriPattern)
	if err != nil {
		return usageErrorf(cmd, "invalid --uri-regex %q (%v)", uriPattern, err)
	}

	ignoreLists, _ := flags.GetStringArray("ignore-words-list")
	ignoreWords := dictionary.ParseWordLists(ignoreLists)
	ignoreFiles, _ := flags.GetStringArray("ignore-words")
	for _, ignoreFile := range ignoreFiles {
		if _, err := os.Stat(ignoreFile); err != nil {
			return usageErrorf(cmd, "cannot find ignore-words file: %s", ignoreFile)
		}
		if err := dictionary.LoadWordFile(ignoreFile, ignoreWords); err != nil {
			return usageErrorf(cmd, "%v", err)
		}
	}

	uriIgnoreLists, _ := flags.GetStringArray("uri-ignore-words-list")
	uriIgnoreWords := dictionary.ParseWordLists(uriIgnoreLists)

	dictFiles, _ := flags.GetStringArray("dictionary")
	if len(dictFiles) == 0 {
		dictFiles = []string{"-"}
	}
	builtinList, _ := flags.GetString("builtin")
	dict := make(dictionary.Dictionary)
	for _, dictFile := range dictFiles {
		if dictFile == "-" {
			if err := dictionary.LoadBuiltins(builtinList, dict, ignoreWords); err != nil {
				return usageErrorf(cmd, "%v", err)
			}
			continue
		}
		if _, err := os.Stat(dictFile); err != nil {
			return usageErrorf(cmd, "cannot find dictionary file: %s", dictFile)
		}
		if err := dictionary.LoadFile(dictFile, dict, ignoreWords); err != nil {
			// A malformed entry aborts the run during dictionary load.
			return err
		}
	}

	enableColors, _ := flags.GetBool("enable-colors")
	disableColors, _ := flags.GetBool("disable-colors")
	if flags.Changed("enable-colors") && flags.Changed("disable-colors") {
		return usageErrorf(cmd, "cannot use both --enable-colors and --disable-colors")
	}
	colors := display.StdoutIsTerminal()
	if enableColors {
		colors = true
	} else if disableColors {
		colors = false
	}
	palette := display.NewPalette(colors)

	var summary *scanner.Summary
	if wantSummary, _ := flags.GetBool("summary"); wantSummary {
		summary = scanner.NewSummary()
	}

	context, err := contextFromFlags(cmd)
	if err != nil {
		return err
	}

	excludeLines := make(map[string]struct{})
	if excludeFile, _ := flags.GetString("exclude-file"); excludeFile != "" {
		if err := dictionary.LoadExcludeFile(excludeFile, excludeLines); err != nil {
			return usageErrorf(cmd, "%v", err)
		}
	}

	skipPatterns, _ := flags.GetStringArray("skip")
	skips, err := walker.CompileSkips(skipPatterns)
	if err != nil {
		return usageErrorf(cmd, "%v", err)
	}

	interactiveInt, _ := flags.GetInt("interactive")
	hardDetection, _ := flags.GetBool("hard-encoding-detection")
	checkFilenames, _ := flags.GetBool("check-filenames")
	checkHidden, _ := flags.GetBool("check-hidden")
	wantCount, _ := flags.GetBool("count")

	opener := &scanner.FileOpener{
		UseChardet: hardDetection,
		Quiet:      quiet,
		Stderr:     stderr,
	}
	prompter := scanner.NewPrompter(
		scanner.InteractiveMode(interactiveInt), cmd.InOrStdin(), stdout, palette)

	scan := scanner.New(scanner.Config{
		Dictionary:     dict,
		ExcludeLines:   excludeLines,
		URIIgnoreWords: uriIgnoreWords,
		Extractor:      scanner.NewExtractor(wordRegex, uriRegex, ignoreRegex),
		Opener:         opener,
		Prompter:       prompter,
		Palette:        palette,
		Options: scanner.Options{
			WriteChanges:   writeChanges,
			CheckFilenames: checkFilenames,
			Quiet:          quiet,
			Context:        context,
			Summary:        summary,
		},
		Stdout: stdout,
		Stderr: stderr,
		Stdin:  cmd.InOrStdin(),
	})

	targets := args
	if len(targets) == 0 {
		targets = []string{"."}
	}

	walk := &walker.Walker{Skips: skips, CheckHidden: checkHidden}
	badCount := 0
	err = walk.Walk(targets, func(path string) error {
		n, err := scan.File(path)
		badCount += n
		return err
	})
	if err != nil {
		return err
	}

	if summary != nil {
		fmt.Fprintf(stdout, "\n-------8<-------\nSUMMARY:\n%s\n", summary)
	}
	if wantCount {
		fmt.Fprintln(stderr, badCount)
	}
	if badCount > 0 {
		return ErrFound
	}
	return nil
}

// contextFromFlags resolves -C/-A/-B into a context window. -C conflicts
// with -A and -B; negative values clamp to zero.
func contextFromFlags(cmd *cobra.Command) (*scanner.Context, error) {
	flags := cmd.Flags()
	both := flags.Changed("context")
	before := flags.Changed("before-context")
	after := flags.Changed("after-context")

	if both && (before || after) {
		return nil, usageErrorf(cmd,
			"--context/-C cannot be used together with --before-context/-B or --after-context/-A")
	}
	if both {
		n, _ := flags.GetInt("context")
		return &scanner.Context{Before: max(0, n), After: max(0, n)}, nil
	}
	if before || after {
		b, _ := flags.GetInt("before-context")
		a, _ := flags.GetInt("after-context")
		return &scanner.Context{Before: max(0, b), After: max(0, a)}, nil
	}
	return nil, nil
}
