// Package index holds the posting-list codec and the in-memory inverted
// index with its document metadata.
package index

import (
	"fmt"

	"github.com/fts-lab/searchcore/internal/indexer/vbyte"
	pkgerrors "github.com/fts-lab/searchcore/pkg/errors"
)

// maxDocID bounds the plausible docId range accepted by Validate.
const maxDocID = 1_000_000_000

// Posting is a (docId, frequency) pair. Within a posting list postings are
// ordered by docId ascending with each docId unique and frequency >= 1.
type Posting struct {
	DocID     int
	Frequency int
}

// Compress delta-encodes a docId-sorted posting list over VByte. The gap to
// the previous docId and the frequency are written as consecutive values.
// An out-of-order docId or a non-positive frequency is an error.
func Compress(postings []Posting) ([]byte, error) {
	if len(postings) == 0 {
		return nil, nil
	}
	out := make([]byte, 0, len(postings)*3)
	last := 0
	var err error
	for _, p := range postings {
		if p.DocID < last {
			return nil, pkgerrors.Newf(pkgerrors.ErrInvalidPostingList,
				"index", "docId %d after %d", p.DocID, last)
		}
		if p.Frequency <= 0 {
			return nil, pkgerrors.Newf(pkgerrors.ErrInvalidPostingList,
				"index", "non-positive frequency %d for docId %d", p.Frequency, p.DocID)
		}
		if out, err = vbyte.Append(out, p.DocID-last); err != nil {
			return nil, err
		}
		if out, err = vbyte.Append(out, p.Frequency); err != nil {
			return nil, err
		}
		last = p.DocID
	}
	return out, nil
}

// Decompress reverses Compress. Any VByte error surfaces as a decompression
// error.
func Decompress(data []byte) ([]Posting, error) {
	if len(data) == 0 {
		return nil, nil
	}
	postings := make([]Posting, 0, len(data)/2)
	off := 0
	last := 0
	for off < len(data) {
		delta, err := vbyte.Decode(data, &off)
		if err != nil {
			return nil, fmt.Errorf("decompressing posting list: %w", err)
		}
		freq, err := vbyte.Decode(data, &off)
		if err != nil {
			return nil, fmt.Errorf("decompressing posting list: %w", err)
		}
		last += delta
		postings = append(postings, Posting{DocID: last, Frequency: freq})
	}
	return postings, nil
}

// Validate reports whether data is a well-formed compressed posting list:
// every value decodes, frequencies are positive, and every resolved docId
// stays within [0, maxDocID].
func Validate(data []byte) bool {
	if len(data) == 0 {
		return true
	}
	off := 0
	last := 0
	for off < len(data) {
		delta, err := vbyte.Decode(data, &off)
		if err != nil || delta < 0 {
			return false
		}
		freq, err := vbyte.Decode(data, &off)
		if err != nil || freq <= 0 {
			return false
		}
		last += delta
		if last < 0 || last > maxDocID {
			return false
		}
	}
	return true
}

// EstimateCompressedSize returns the exact byte size Compress would produce
// for the given list, without allocating the encoding.
func EstimateCompressedSize(postings []Posting) int {
	total := 0
	last := 0
	for _, p := range postings {
		total += vbyte.Size(p.DocID - last)
		total += vbyte.Size(p.Frequency)
		last = p.DocID
	}
	return total
}
