// Package config loads scanner options from configuration files.
//
// Two sources are supported: a YAML file (.codespell.yaml by default, or
// the --config path) and the [tool.codespell] table of a pyproject.toml.
// Fields left unset in a file keep their zero pointers so the command
// layer can tell "not configured" from "configured to the default";
// command-line flags override anything a file sets.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// DefaultYAMLFile is the config file looked up in the working directory.
const DefaultYAMLFile = ".codespell.yaml"

// DefaultTOMLFile is the pyproject file looked up in the working
// directory.
const DefaultTOMLFile = "pyproject.toml"

// File holds the options a configuration file may set. All fields are
// optional.
type File struct {
	// Skip is a comma-separated list of glob patterns to skip.
	Skip *string `yaml:"skip" toml:"skip"`

	// Builtin selects the builtin dictionaries, comma-separated.
	Builtin *string `yaml:"builtin" toml:"builtin"`

	// Dictionary lists custom dictionary files; "-" selects builtins.
	Dictionary []string `yaml:"dictionary" toml:"dictionary"`

	// IgnoreWords lists files with words to ignore, one per line.
	IgnoreWords []string `yaml:"ignore-words" toml:"ignore-words"`

	// IgnoreWordsList is a comma-separated list of words to ignore.
	IgnoreWordsList *string `yaml:"ignore-words-list" toml:"ignore-words-list"`

	// URIIgnoreWordsList is a comma-separated list of words ignored
	// inside URIs and emails only; "*" ignores all URI content.
	URIIgnoreWordsList *string `yaml:"uri-ignore-words-list" toml:"uri-ignore-words-list"`

	// ExcludeFile names a file of verbatim lines to exclude.
	ExcludeFile *string `yaml:"exclude-file" toml:"exclude-file"`

	// Regex overrides the word-boundary pattern.
	Regex *string `yaml:"regex" toml:"regex"`

	// URIRegex overrides the URI/email pattern.
	URIRegex *string `yaml:"uri-regex" toml:"uri-regex"`

	// IgnoreRegex sets a pattern whose matches are treated as spaces.
	IgnoreRegex *string `yaml:"ignore-regex" toml:"ignore-regex"`

	// QuietLevel is the output-suppression bitmask.
	QuietLevel *int `yaml:"quiet-level" toml:"quiet-level"`

	// Interactive is the interactivity bitmask for write mode.
	Interactive *int `yaml:"interactive" toml:"interactive"`

	// WriteChanges enables in-place rewriting.
	WriteChanges *bool `yaml:"write-changes" toml:"write-changes"`

	// CheckFilenames also checks file names.
	CheckFilenames *bool `yaml:"check-filenames" toml:"check-filenames"`

	// CheckHidden includes hidden files and directories.
	CheckHidden *bool `yaml:"check-hidden" toml:"check-hidden"`

	// HardEncodingDetection uses statistical charset detection.
	HardEncodingDetection *bool `yaml:"hard-encoding-detection" toml:"hard-encoding-detection"`

	// Summary prints the per-word fix summary after the run.
	Summary *bool `yaml:"summary" toml:"summary"`

	// Count prints the finding total as the last line of stderr.
	Count *bool `yaml:"count" toml:"count"`

	// Context prints N lines of surrounding context.
	Context *int `yaml:"context" toml:"context"`

	// BeforeContext prints N lines of leading context.
	BeforeContext *int `yaml:"before-context" toml:"before-context"`

	// AfterContext prints N lines of trailing context.
	AfterContext *int `yaml:"after-context" toml:"after-context"`
}

// LoadYAML reads a YAML config file. A missing file is not an error and
// reports used=false.
func LoadYAML(path string) (*File, bool, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &File{}, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, false, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return &f, true, nil
}

// LoadTOML reads the [tool.codespell] table from a pyproject-style TOML
// file. A missing file is not an error; a present file without the table
// reports used=false.
func LoadTOML(path string) (*File, bool, error) {
	var doc struct {
		Tool struct {
			Codespell *File `toml:"codespell"`
		} `toml:"tool"`
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return &File{}, false, nil
	}
	if _, err := toml.DecodeFile(path, &doc); err != nil {
		return nil, false, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if doc.Tool.Codespell == nil {
		return &File{}, false, nil
	}
	return doc.Tool.Codespell, true, nil
}

// Merge overlays src onto dst: any field src sets wins.
func Merge(dst, src *File) {
	if src.Skip != nil {
		dst.Skip = src.Skip
	}
	if src.Builtin != nil {
		dst.Builtin = src.Builtin
	}
	if len(src.Dictionary) > 0 {
		dst.Dictionary = src.Dictionary
	}
	if len(src.IgnoreWords) > 0 {
		dst.IgnoreWords = src.IgnoreWords
	}
	if src.IgnoreWordsList != nil {
		dst.IgnoreWordsList = src.IgnoreWordsList
	}
	if src.URIIgnoreWordsList != nil {
		dst.URIIgnoreWordsList = src.URIIgnoreWordsList
	}
	if src.ExcludeFile != nil {
		dst.ExcludeFile = src.ExcludeFile
	}
	if src.Regex != nil {
		dst.Regex = src.Regex
	}
	if src.URIRegex != nil {
		dst.URIRegex = src.URIRegex
	}
	if src.IgnoreRegex != nil {
		dst.IgnoreRegex = src.IgnoreRegex
	}
	if src.QuietLevel != nil {
		dst.QuietLevel = src.QuietLevel
	}
	if src.Interactive != nil {
		dst.Interactive = src.Interactive
	}
	if src.WriteChanges != nil {
		dst.WriteChanges = src.WriteChanges
	}
	if src.CheckFilenames != nil {
		dst.CheckFilenames = src.CheckFilenames
	}
	if src.CheckHidden != nil {
		dst.CheckHidden = src.CheckHidden
	}
	if src.HardEncodingDetection != nil {
		dst.HardEncodingDetection = src.HardEncodingDetection
	}
	if src.Summary != nil {
		dst.Summary = src.Summary
	}
	if src.Count != nil {
		dst.Count = src.Count
	}
	if src.Context != nil {
		dst.Context = src.Context
	}
	if src.BeforeContext != nil {
		dst.BeforeContext = src.BeforeContext
	}
	if src.AfterContext != nil {
		dst.AfterContext = src.AfterContext
	}
}

// Load reads the default TOML and YAML files plus any explicitly named
// ones, merged in precedence order: pyproject.toml, then --toml, then
// .codespell.yaml, then --config. It returns the merged result and the
// list of files that actually contributed configuration. An explicitly
// named file that does not exist is an error; the defaults are optional.
func Load(tomlPath, yamlPath string) (*File, []string, error) {
	merged := &File{}
	var used []string

	tomlFiles := []string{DefaultTOMLFile}
	if tomlPath != "" {
		tomlFiles = append(tomlFiles, tomlPath)
	}
	for i, path := range tomlFiles {
		if i > 0 {
			if _, err := os.Stat(path); os.IsNotExist(err) {
				return nil, nil, fmt.Errorf("cannot find toml file: %s", path)
			}
		}
		f, ok, err := LoadTOML(path)
		if err != nil {
			return nil, nil, err
		}
		if ok {
			Merge(merged, f)
			used = append(used, path)
		}
	}

	yamlFiles := []string{DefaultYAMLFile}
	if yamlPath != "" {
		yamlFiles = append(yamlFiles, yamlPath)
	}
	for i, path := range yamlFiles {
		if i > 0 {
			if _, err := os.Stat(path); os.IsNotExist(err) {
				return nil, nil, fmt.Errorf("cannot find config file: %s", path)
			}
		}
		f, ok, err := LoadYAML(path)
		if err != nil {
			return nil, nil, err
		}
		if ok {
			Merge(merged, f)
			used = append(used, path)
		}
	}

	return merged, used, nil
}
