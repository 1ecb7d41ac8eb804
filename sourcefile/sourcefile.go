// Package sourcefile implements the line-offset indexing contract the
// lexer and parser assume an external collaborator provides: given a
// byte offset into a source buffer, find its line number, and given a
// line number, find its start/end byte offsets. The lexer itself only
// ever needs a raw byte buffer; this package exists for callers (the
// CLI's diagnostic printer) that need to turn a failure offset into a
// human-readable caret-annotated line.
package sourcefile

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// File wraps a source buffer and an index of line-start byte offsets,
// built once at construction, mirroring the way the teacher's
// token.Position tracks a line start per token but generalized here to
// a whole-file index computed up front instead of incrementally during
// lexing.
type File struct {
	name    string
	src     []byte
	offsets []int // offsets[i] is the byte offset of the start of line i (0-indexed)
}

// New indexes src's line starts and returns a File. name is used only
// for diagnostic output; it may be empty (e.g. for stdin).
func New(name string, src []byte) *File {
	offsets := []int{0}
	for i, b := range src {
		if b == '\n' {
			offsets = append(offsets, i+1)
		}
	}
	return &File{name: name, src: src, offsets: offsets}
}

// Name returns the file's display name.
func (f *File) Name() string { return f.name }

// Bytes returns the underlying source buffer.
func (f *File) Bytes() []byte { return f.src }

// LineCount returns the number of lines in the file.
func (f *File) LineCount() int { return len(f.offsets) }

// LineOffset returns the byte offset of the start of line i (0-indexed).
func (f *File) LineOffset(i int) int {
	if i < 0 || i >= len(f.offsets) {
		return -1
	}
	return f.offsets[i]
}

// LineEndOffset returns the byte offset one past the end of line i
// (0-indexed), excluding the trailing newline if present.
func (f *File) LineEndOffset(i int) int {
	start := f.LineOffset(i)
	if start < 0 {
		return -1
	}
	var end int
	if i+1 < len(f.offsets) {
		end = f.offsets[i+1]
	} else {
		end = len(f.src)
	}
	for end > start && (f.src[end-1] == '\n' || f.src[end-1] == '\r') {
		end--
	}
	return end
}

// Line returns the text of line i (0-indexed), excluding its newline.
func (f *File) Line(i int) string {
	start, end := f.LineOffset(i), f.LineEndOffset(i)
	if start < 0 || end < 0 {
		return ""
	}
	return string(f.src[start:end])
}

// LineNumberOfOffset returns the 0-indexed line number containing byte
// offset o, via binary search over the line-start index.
func (f *File) LineNumberOfOffset(o int) int {
	lo, hi := 0, len(f.offsets)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if f.offsets[mid] <= o {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo
}

// ColumnOfOffset returns the 0-indexed column of byte offset o within
// its line.
func (f *File) ColumnOfOffset(o int) int {
	line := f.LineNumberOfOffset(o)
	return o - f.LineOffset(line)
}

// Caret renders a two-line "source line" + "caret pointer" diagnostic
// snippet for the byte offset o, the shape the CLI's "parse" subcommand
// prints under a sticky error.
func (f *File) Caret(o int) string {
	line := f.LineNumberOfOffset(o)
	col := f.ColumnOfOffset(o)
	text := f.Line(line)
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", text)
	if col > len(text) {
		col = len(text)
	}
	b.WriteString(strings.Repeat(" ", col))
	b.WriteString("^")
	return b.String()
}

// Diagnostic pairs a File with a byte offset and message, used to
// aggregate per-file lex/parse failures across a batch CLI invocation.
type Diagnostic struct {
	File    string
	Offset  int
	Message string
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("%s: %s", d.File, d.Message)
}

// Batch accumulates one Diagnostic per failing input file into a single
// *multierror.Error, the shape the CLI's batch "lex"/"parse" modes
// report at the end of a run across multiple files.
type Batch struct {
	err *multierror.Error
}

// Add records a failure for the given file.
func (b *Batch) Add(file string, offset int, message string) {
	b.err = multierror.Append(b.err, Diagnostic{File: file, Offset: offset, Message: message})
}

// Err returns the accumulated error, or nil if Add was never called.
func (b *Batch) Err() error {
	if b.err == nil {
		return nil
	}
	return b.err.ErrorOrNil()
}
