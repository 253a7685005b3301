// Package docset loads an entire FuncCAD program: starting from an entry
// document, it follows import directives transitively and produces the
// DocSet the evaluator runs against. Grounded on original_source/src/lib.rs
// (parse_document, parse_all, parse_all_files, alloc_src).
package docset

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/andrewdelmar/funcad/pkg/ast"
	"github.com/andrewdelmar/funcad/pkg/fqpath"
	"github.com/andrewdelmar/funcad/pkg/parser"
)

// DocSet is every document reachable from a program's entry point, keyed by
// FQPath.Key() (FQPath itself isn't comparable with ==, since it wraps a
// slice).
type DocSet struct {
	docs map[string]*ast.Document
	// arena keeps every document's source bytes alive for the lifetime of
	// the DocSet, so that ast.Span.Text slices stay valid after parsing
	// returns (mirrors typed_arena::Arena<u8> in the source this package is
	// grounded on).
	arena *SourceArena
}

// SourceArena owns the raw source bytes backing every Span in a DocSet.
type SourceArena struct {
	buffers [][]byte
}

func (a *SourceArena) alloc(r io.Reader) ([]byte, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, parser.ErrIOFrom(err)
	}
	a.buffers = append(a.buffers, content)
	return content, nil
}

// Get returns the document at path, or (nil, false) if it was never parsed.
func (d *DocSet) Get(path fqpath.FQPath) (*ast.Document, bool) {
	doc, ok := d.docs[path.Key()]
	return doc, ok
}

// GetByKey returns the document keyed by an FQPath.Key() string. Used by
// pkg/eval, which keeps Scope comparable by storing a document's path as
// its Key() string rather than the FQPath value itself.
func (d *DocSet) GetByKey(key string) (*ast.Document, bool) {
	doc, ok := d.docs[key]
	return doc, ok
}

// Len returns the number of documents in the set.
func (d *DocSet) Len() int { return len(d.docs) }

// GetSourceFunc resolves an FQPath to a readable source file.
type GetSourceFunc func(path fqpath.FQPath) (io.Reader, error)

// ParseAll parses entry and every document it imports, transitively,
// returning the complete set. Imports are resolved against the document
// that declares them via fqpath.FQPath.ImportPath.
func ParseAll(entry fqpath.FQPath, getSource GetSourceFunc) (*DocSet, error) {
	set := &DocSet{docs: make(map[string]*ast.Document), arena: &SourceArena{}}

	toParse := []fqpath.FQPath{entry}
	queued := map[string]bool{entry.Key(): true}

	for len(toParse) > 0 {
		current := toParse[0]
		toParse = toParse[1:]

		if _, already := set.docs[current.Key()]; already {
			continue
		}

		src, err := getSource(current)
		if err != nil {
			return nil, err
		}
		content, err := set.arena.alloc(src)
		if err != nil {
			return nil, err
		}

		doc, err := parser.ParseDocument(content)
		if err != nil {
			return nil, err
		}
		set.docs[current.Key()] = doc

		for _, imp := range doc.Imports {
			importPath, err := current.ImportPath(imp.File)
			if err != nil {
				return nil, parser.ErrImportNotInDirFrom(imp)
			}
			if !queued[importPath.Key()] {
				queued[importPath.Key()] = true
				toParse = append(toParse, importPath)
			}
		}
	}

	return set, nil
}

// ParseAllFiles reads and parses entryFile and every document it imports
// (transitively) from disk. The entry file's parent directory becomes the
// program root for resolving import paths.
func ParseAllFiles(entryFile string) (*DocSet, error) {
	root, entry, ok := fqpath.FromEntryFile(entryFile)
	if !ok {
		return nil, parser.ErrInvalidMainFrom()
	}

	return ParseAll(entry, func(path fqpath.FQPath) (io.Reader, error) {
		diskPath := path.FilePath(root)
		f, err := os.Open(diskPath)
		if err != nil {
			return nil, parser.ErrIOFrom(fmt.Errorf("%s: %w", filepath.Clean(diskPath), err))
		}
		return f, nil
	})
}
