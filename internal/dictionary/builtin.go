package dictionary

import (
	"embed"
	"fmt"
	"sort"
	"strings"
)

//go:embed data/dictionary*.txt
var builtinFS embed.FS

// Builtin describes one dictionary shipped inside the binary.
type Builtin struct {
	// Name is the identifier accepted by --builtin.
	Name string
	// Desc is the one-line help text for the dictionary.
	Desc string
	// suffix selects the embedded data file, data/dictionary<suffix>.txt.
	suffix string
}

// Builtins lists the available builtin dictionaries in help order.
var Builtins = []Builtin{
	{"clear", "for unambiguous errors", ""},
	{"rare", "for rare (but valid) words that are likely to be errors", "_rare"},
	{"informal", "for making informal words more formal", "_informal"},
	{"usage", "for replacing phrasing with recommended terms", "_usage"},
	{"code", "for words from code and/or mathematics that are likely to be typos in other contexts (such as uint)", "_code"},
	{"names", "for valid proper names that might be typos", "_names"},
	{"en-GB_to_en-US", "for corrections from en-GB to en-US", "_en-GB_to_en-US"},
}

// DefaultBuiltins is the builtin selection used when --builtin is not
// given.
const DefaultBuiltins = "clear,rare"

// LoadBuiltins loads the named builtin dictionaries into dict. selection
// is a comma-separated list of builtin names; names are deduplicated and
// loaded in sorted order so later names overwrite earlier ones
// deterministically. An unknown name is an error.
func LoadBuiltins(selection string, dict Dictionary, ignore WordSet) error {
	seen := make(map[string]struct{})
	var names []string
	for _, name := range strings.Split(selection, ",") {
		if _, dup := seen[name]; !dup {
			seen[name] = struct{}{}
			names = append(names, name)
		}
	}
	sort.Strings(names)

	for _, name := range names {
		builtin, ok := lookupBuiltin(name)
		if !ok {
			return fmt.Errorf("unknown builtin dictionary: %s", name)
		}
		path := fmt.Sprintf("data/dictionary%s.txt", builtin.suffix)
		f, err := builtinFS.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open builtin dictionary %s: %w", name, err)
		}
		err = Build(f, path, dict, ignore)
		f.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

func lookupBuiltin(name string) (Builtin, bool) {
	for _, b := range Builtins {
		if b.Name == name {
			return b, true
		}
	}
	return Builtin{}, false
}

// BuiltinHelp returns the --builtin help text listing each dictionary.
func BuiltinHelp() string {
	var sb strings.Builder
	for _, b := range Builtins {
		fmt.Fprintf(&sb, "\n- %q %s", b.Name, b.Desc)
	}
	return sb.String()
}
