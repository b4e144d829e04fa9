package index

import (
	"fmt"
	"path/filepath"
)

// Inverted is the in-memory inverted index: a mapping from lower-cased terms
// to compressed posting-list bytes, together with the per-document metadata
// sidecars. It is mutated only during build and load; querying treats it as
// read-only.
type Inverted struct {
	Postings map[string][]byte
	Lengths  map[int]int
	Names    map[int]string
	URLs     map[int]string
}

func New() *Inverted {
	return &Inverted{
		Postings: make(map[string][]byte),
		Lengths:  make(map[int]int),
		Names:    make(map[int]string),
		URLs:     make(map[int]string),
	}
}

// TotalDocs is the number of indexed documents, defined by the length
// sidecar.
func (x *Inverted) TotalDocs() int {
	return len(x.Lengths)
}

// TermCount is the number of unique terms.
func (x *Inverted) TermCount() int {
	return len(x.Postings)
}

// SizeBytes is the total size of the term keys plus their compressed
// posting-list payloads held in memory.
func (x *Inverted) SizeBytes() int64 {
	var n int64
	for term, data := range x.Postings {
		n += int64(len(term) + len(data))
	}
	return n
}

// DisplayName resolves the string shown to users for a docId: the URL when
// one was loaded, else the filename, else a [doc_N] placeholder.
func (x *Inverted) DisplayName(docID int) string {
	if url, ok := x.URLs[docID]; ok {
		return url
	}
	if name, ok := x.Names[docID]; ok {
		return name
	}
	return fmt.Sprintf("[doc_%d]", docID)
}

// DocPath resolves the source file path for a docId under dataDir, falling
// back to <docId>.txt when the name is unknown.
func (x *Inverted) DocPath(dataDir string, docID int) string {
	if name, ok := x.Names[docID]; ok {
		return filepath.Join(dataDir, name)
	}
	return filepath.Join(dataDir, fmt.Sprintf("%d.txt", docID))
}
