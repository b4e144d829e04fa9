package segment

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	pkgerrors "github.com/fts-lab/searchcore/pkg/errors"
)

// ReadIndex reads the binary inverted-index file frame-by-frame into a
// term -> compressed-bytes map. End of file at a frame boundary terminates
// the list; end of file inside a frame is a corruption error.
func ReadIndex(path string) (map[string][]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening index file: %w", err)
	}
	defer f.Close()

	postings := make(map[string][]byte)
	r := bufio.NewReader(f)
	var lenBuf [4]byte
	for {
		if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
			if errors.Is(err, io.EOF) {
				return postings, nil
			}
			return nil, pkgerrors.Newf(pkgerrors.ErrCorruptIndexFile,
				"segment", "reading term length: %v", err)
		}
		termLen := binary.LittleEndian.Uint32(lenBuf[:])
		term := make([]byte, termLen)
		if _, err := io.ReadFull(r, term); err != nil {
			return nil, pkgerrors.Newf(pkgerrors.ErrCorruptIndexFile,
				"segment", "reading term: %v", err)
		}
		if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
			return nil, pkgerrors.Newf(pkgerrors.ErrCorruptIndexFile,
				"segment", "reading payload length for term %q: %v", term, err)
		}
		payloadLen := binary.LittleEndian.Uint32(lenBuf[:])
		payload := make([]byte, payloadLen)
		if _, err := io.ReadFull(r, payload); err != nil {
			return nil, pkgerrors.Newf(pkgerrors.ErrCorruptIndexFile,
				"segment", "reading payload for term %q: %v", term, err)
		}
		postings[string(term)] = payload
	}
}

// LoadLengths reads the mandatory doc_lengths sidecar: a whitespace-separated
// stream of docId/length pairs.
func LoadLengths(path string) (map[int]int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	lengths := make(map[int]int)
	sc := bufio.NewScanner(f)
	sc.Split(bufio.ScanWords)
	for sc.Scan() {
		id, err := strconv.Atoi(sc.Text())
		if err != nil {
			slog.Warn("skipping unparseable docId in lengths file", "path", path, "token", sc.Text())
			continue
		}
		if !sc.Scan() {
			slog.Warn("dangling docId at end of lengths file", "path", path, "doc_id", id)
			break
		}
		length, err := strconv.Atoi(sc.Text())
		if err != nil {
			slog.Warn("skipping unparseable length", "path", path, "doc_id", id, "token", sc.Text())
			continue
		}
		lengths[id] = length
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return lengths, nil
}

// LoadNames reads the doc_names sidecar. The value runs to end of line after
// a leading-whitespace trim, so filenames may contain spaces.
func LoadNames(path string) (map[int]string, error) {
	return loadIntKeyedLines(path)
}

// LoadURLs reads the optional urls sidecar; empty lines are skipped.
func LoadURLs(path string) (map[int]string, error) {
	return loadIntKeyedLines(path)
}

func loadIntKeyedLines(path string) (map[int]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	values := make(map[int]string)
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := sc.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		sep := strings.IndexAny(line, " \t")
		if sep < 0 {
			slog.Warn("skipping unparseable line", "path", path, "line", line)
			continue
		}
		id, err := strconv.Atoi(line[:sep])
		if err != nil {
			slog.Warn("skipping unparseable line", "path", path, "line", line)
			continue
		}
		value := strings.TrimLeft(line[sep+1:], " \t")
		if value == "" {
			continue
		}
		values[id] = value
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return values, nil
}
