// Package fqpath implements the document-path model used to address a
// FuncCAD document within a program: an ordered sequence of path segments
// relative to the program root.
package fqpath

import (
	"errors"
	"path/filepath"
	"strings"
)

// ErrImportNotInDir is returned when resolving an import would pop past the
// program root (too many ".." segments).
var ErrImportNotInDir = errors.New("import path is above the program root")

// FQPath is a "fully qualified" path to a document, relative to the entry
// point's directory. It is not interchangeable with a filesystem path: it is
// an ordered sequence of identifier segments, compared and hashed
// segmentwise.
type FQPath struct {
	segments []string
}

// New builds an FQPath from its segments. The result is not validated against
// any particular document set; callers that need a specific entry path
// should prefer FromEntryFile.
func New(segments ...string) FQPath {
	cp := make([]string, len(segments))
	copy(cp, segments)
	return FQPath{segments: cp}
}

// FromEntryFile derives the FQPath of a program's entry document from a host
// filesystem path: the parent directory becomes the program root and the
// file stem (name without extension) becomes the sole segment.
func FromEntryFile(path string) (root string, entry FQPath, ok bool) {
	dir := filepath.Dir(path)
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" || stem == "." || stem == string(filepath.Separator) {
		return "", FQPath{}, false
	}
	return dir, New(stem), true
}

// Segments returns the ordered path segments. The returned slice must not be
// mutated by the caller.
func (p FQPath) Segments() []string { return p.segments }

// Equal reports whether two FQPaths name the same document.
func (p FQPath) Equal(other FQPath) bool {
	if len(p.segments) != len(other.segments) {
		return false
	}
	for i := range p.segments {
		if p.segments[i] != other.segments[i] {
			return false
		}
	}
	return true
}

// Key returns a string uniquely identifying this path, suitable for use as a
// map key (FQPath itself is not comparable with == because it holds a slice).
func (p FQPath) Key() string { return strings.Join(p.segments, "/") }

// String joins the segments with "/", matching the on-disk import syntax.
func (p FQPath) String() string { return strings.Join(p.segments, "/") }

// ImportPath resolves a raw, slash-separated import string against the
// document that owns this path. It first drops this path's own last segment
// (the current document's own file name), then walks the import string token
// by token: ".." pops a segment, anything else pushes it verbatim. Popping an
// already-empty stack fails with ErrImportNotInDir.
func (p FQPath) ImportPath(rawImport string) (FQPath, error) {
	stack := make([]string, len(p.segments))
	copy(stack, p.segments)
	if len(stack) > 0 {
		stack = stack[:len(stack)-1]
	}

	for _, token := range strings.Split(rawImport, "/") {
		if token == ".." {
			if len(stack) == 0 {
				return FQPath{}, ErrImportNotInDir
			}
			stack = stack[:len(stack)-1]
			continue
		}
		stack = append(stack, token)
	}

	return New(stack...), nil
}

// Alias returns the lexical alias an import string is bound under: the last
// "/"-separated token, taken verbatim (the alias is purely a lexical suffix
// of the raw import string, independent of ".." resolution).
func Alias(rawImport string) string {
	parts := strings.Split(rawImport, "/")
	return parts[len(parts)-1]
}

// FilePath returns the on-disk path of the ".fc" document this FQPath names,
// rooted at base.
func (p FQPath) FilePath(base string) string {
	rel := filepath.Join(p.segments...) + ".fc"
	return filepath.Join(base, rel)
}
