// Package scanner implements the line-oriented scanning and correction
// engine: word and URI extraction, dictionary lookup with case-preserving
// correction, interactive disambiguation, and in-place rewriting.
package scanner

// QuietLevel is a bitmask suppressing categories of informational and
// warning output. The bit values are part of the CLI contract and must
// not change.
type QuietLevel int

const (
	// QuietEncoding suppresses warnings about encoding fallback.
	QuietEncoding QuietLevel = 1 << iota
	// QuietBinaryFile suppresses warnings about skipped binary files.
	QuietBinaryFile
	// QuietDisabledFixes omits findings whose fix is disabled by a
	// dictionary reason.
	QuietDisabledFixes
	// QuietNonAutomaticFixes omits findings that are not applied
	// automatically.
	QuietNonAutomaticFixes
	// QuietFixes suppresses the per-file FIXED notices.
	QuietFixes
	// QuietConfigFiles suppresses the used-config-file report.
	QuietConfigFiles
)

// DefaultQuietLevel matches the shipped default of -q 34
// (binary-file warnings and config-file report suppressed).
const DefaultQuietLevel = QuietBinaryFile | QuietConfigFiles

// Has reports whether all bits in flag are set.
func (q QuietLevel) Has(flag QuietLevel) bool {
	return q&flag == flag
}

// InteractiveMode is the interactivity bitmask for write mode.
type InteractiveMode int

const (
	// InteractiveConfirm asks for confirmation before automatic fixes.
	InteractiveConfirm InteractiveMode = 1 << iota
	// InteractiveChoose asks the user to pick one fix when several
	// candidates exist.
	InteractiveChoose
)

// Has reports whether all bits in flag are set.
func (m InteractiveMode) Has(flag InteractiveMode) bool {
	return m&flag == flag
}
