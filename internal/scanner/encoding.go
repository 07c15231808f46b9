package scanner

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding/charmap"

	"github.com/cclauss/codespell/internal/dictionary"
)

// Encodings tried by the internal decoder, in order.
var Encodings = []string{"utf-8", "iso-8859-1"}

// FileOpener reads a file into lines, detecting its text encoding so the
// scanner can rewrite the file in the same encoding. Lines keep their
// terminators, which preserves the newline convention on write-back.
type FileOpener struct {
	// UseChardet switches from the fixed utf-8/iso-8859-1 ladder to
	// statistical charset detection.
	UseChardet bool
	// Quiet suppresses encoding fallback warnings via QuietEncoding.
	Quiet QuietLevel
	// Stderr receives warnings. Defaults to os.Stderr when nil.
	Stderr io.Writer
}

func (o *FileOpener) stderr() io.Writer {
	if o.Stderr != nil {
		return o.Stderr
	}
	return os.Stderr
}

// Open reads filename and returns its lines plus the detected encoding
// name.
func (o *FileOpener) Open(filename string) ([]string, string, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, "", err
	}
	if o.UseChardet {
		return o.decodeDetected(filename, data)
	}
	return o.decodeInternal(filename, data)
}

// decodeInternal walks the fixed encoding ladder: utf-8 first, then
// iso-8859-1, which accepts any byte sequence.
func (o *FileOpener) decodeInternal(filename string, data []byte) ([]string, string, error) {
	if utf8.Valid(data) {
		return dictionary.SplitLines(string(data)), "utf-8", nil
	}
	if !o.Quiet.Has(QuietEncoding) {
		fmt.Fprintf(o.stderr(), "WARNING: Cannot decode file using encoding \"utf-8\": %s\n", filename)
		fmt.Fprintf(o.stderr(), "WARNING: Trying next encoding \"iso-8859-1\"\n")
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return nil, "", fmt.Errorf("unknown encoding: %s", filename)
	}
	return dictionary.SplitLines(string(decoded)), "iso-8859-1", nil
}

// decodeDetected uses chardet to pick an encoding, failing loudly when
// the detected encoding cannot be decoded.
func (o *FileOpener) decodeDetected(filename string, data []byte) ([]string, string, error) {
	result, err := chardet.NewTextDetector().DetectBest(data)
	if err != nil {
		return nil, "", fmt.Errorf("could not detect encoding: %s: %w", filename, err)
	}
	enc := strings.ToLower(result.Charset)
	switch enc {
	case "utf-8", "ascii", "iso-8859-1", "windows-1252":
		lines, err := decodeAs(enc, data)
		if err != nil {
			return nil, "", fmt.Errorf("could not decode %s as detected encoding %s", filename, enc)
		}
		return lines, enc, nil
	default:
		return nil, "", fmt.Errorf("don't know how to handle encoding %s: %s", enc, filename)
	}
}

func decodeAs(enc string, data []byte) ([]string, error) {
	switch enc {
	case "utf-8", "ascii":
		if !utf8.Valid(data) {
			return nil, fmt.Errorf("invalid %s data", enc)
		}
		return dictionary.SplitLines(string(data)), nil
	case "iso-8859-1":
		decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
		if err != nil {
			return nil, err
		}
		return dictionary.SplitLines(string(decoded)), nil
	case "windows-1252":
		decoded, err := charmap.Windows1252.NewDecoder().Bytes(data)
		if err != nil {
			return nil, err
		}
		return dictionary.SplitLines(string(decoded)), nil
	default:
		return nil, fmt.Errorf("unsupported encoding %s", enc)
	}
}

// EncodeLines joins lines and encodes them back to the encoding the file
// was read with, so a rewrite round-trips untouched bytes.
func EncodeLines(lines []string, enc string) ([]byte, error) {
	text := strings.Join(lines, "")
	switch enc {
	case "utf-8", "ascii", "":
		return []byte(text), nil
	case "iso-8859-1":
		return charmap.ISO8859_1.NewEncoder().Bytes([]byte(text))
	case "windows-1252":
		return charmap.Windows1252.NewEncoder().Bytes([]byte(text))
	default:
		return nil, fmt.Errorf("unsupported encoding %s", enc)
	}
}
