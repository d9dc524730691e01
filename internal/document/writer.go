package document

import (
	"fmt"
	"path"

	"github.com/starford/docmirror/internal/storage"
)

// IndexName is the file name, without extension, of every source's root document.
const IndexName = "index"

// Writer persists documents into vault folders.
type Writer struct {
	store storage.Provider
}

// NewWriter creates a writer on top of store.
func NewWriter(store storage.Provider) *Writer {
	return &Writer{store: store}
}

// Save writes doc to <folder>/<name>.md and returns the vault-relative path.
// name is used verbatim; callers sanitize titles with Sanitize first.
func (w *Writer) Save(folder, name string, doc Document) (string, error) {
	content, err := doc.Markdown()
	if err != nil {
		return "", err
	}
	rel := path.Join(folder, name+".md")
	if err := w.store.Write(rel, content); err != nil {
		return "", fmt.Errorf("document: save %s: %w", rel, err)
	}
	return rel, nil
}
