package book

import (
	_ "embed"

	"github.com/pkg/errors"
)

// defaultBookData is the opening book shipped inside the binary: an empty,
// uncompressed book by default (format byte 0, record count 0). A real
// deployment replaces internal/book/data/default_book.bin with the output of
// cmd/bookgen (see DESIGN.md) without touching any Go source.
//
//go:embed data/default_book.bin
var defaultBookData []byte

// Default returns the opening book embedded in the binary at build time.
// engine.NewWithBook(book.Default()) gives a Solver instant answers for
// every position the embedded book covers, falling back to search for the
// rest.
func Default() *OpeningBook {
	b, err := FromStaticBytes(defaultBookData)
	if err != nil {
		// The embedded book is a build artefact we control; a decode
		// failure means the binary was built wrong, not a runtime
		// condition callers can recover from.
		panic(errors.Wrap(err, "decoding embedded default opening book"))
	}
	return b
}
