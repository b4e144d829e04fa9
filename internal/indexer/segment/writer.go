// Package segment reads and writes the on-disk index: the binary inverted
// posting file and the whitespace-separated metadata sidecars.
package segment

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"os"
	"sort"

	"github.com/fts-lab/searchcore/internal/indexer/index"
)

// WriteIndex atomically writes the binary inverted-index file: a
// concatenation of frames, each framing one term and its compressed posting
// payload with uint32 little-endian length prefixes. It writes to a .tmp
// file first and renames on success.
func WriteIndex(path string, inv *index.Inverted) error {
	tmpPath := path + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("creating index file: %w", err)
	}
	defer f.Close()

	terms := make([]string, 0, len(inv.Postings))
	for term := range inv.Postings {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	w := bufio.NewWriter(f)
	var lenBuf [4]byte
	for _, term := range terms {
		payload := inv.Postings[term]
		binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(term)))
		if _, err := w.Write(lenBuf[:]); err != nil {
			return fmt.Errorf("writing term length: %w", err)
		}
		if _, err := w.WriteString(term); err != nil {
			return fmt.Errorf("writing term %q: %w", term, err)
		}
		binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(payload)))
		if _, err := w.Write(lenBuf[:]); err != nil {
			return fmt.Errorf("writing payload length: %w", err)
		}
		if _, err := w.Write(payload); err != nil {
			return fmt.Errorf("writing payload for term %q: %w", term, err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flushing index file: %w", err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("syncing index file: %w", err)
	}
	f.Close()
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("renaming index file: %w", err)
	}
	return nil
}

// WriteLengths writes the doc_lengths sidecar: one "docId length" line per
// document, in docId order.
func WriteLengths(path string, lengths map[int]int) error {
	return writeIntKeyed(path, intKeys(lengths), func(w *bufio.Writer, id int) error {
		_, err := fmt.Fprintf(w, "%d %d\n", id, lengths[id])
		return err
	})
}

// WriteNames writes the doc_names sidecar: one "docId filename" line per
// document, in docId order.
func WriteNames(path string, names map[int]string) error {
	return writeIntKeyed(path, intKeys(names), func(w *bufio.Writer, id int) error {
		_, err := fmt.Fprintf(w, "%d %s\n", id, names[id])
		return err
	})
}

func intKeys[V any](m map[int]V) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

func writeIntKeyed(path string, ids []int, emit func(*bufio.Writer, int) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	for _, id := range ids {
		if err := emit(w, id); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flushing %s: %w", path, err)
	}
	return nil
}
