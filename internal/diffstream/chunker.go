package diffstream

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// recordMarker starts a file-change record in a unified diff.
const recordMarker = "diff --git "

// ChunkSuffix is the file extension of persisted chunk files.
const ChunkSuffix = ".diff"

// ErrNoChunksProduced signals that a non-blank diff stream yielded zero
// chunks, which means the input was not a diff at all.
var ErrNoChunksProduced = errors.New("no chunks produced from diff")

var markerPathRe = regexp.MustCompile(`^diff --git a/(.*?) b/`)

// SplitRecords partitions a diff stream into file-change records. Every line
// up to the first marker belongs to the first record, so a non-blank stream
// with no markers becomes a single record. Concatenating the returned
// records reproduces the input exactly. A blank stream yields nil.
func SplitRecords(diff string) []string {
	if strings.TrimSpace(diff) == "" {
		return nil
	}
	var records []string
	var current strings.Builder
	for _, line := range strings.SplitAfter(diff, "\n") {
		if strings.HasPrefix(line, recordMarker) && current.Len() > 0 {
			records = append(records, current.String())
			current.Reset()
		}
		current.WriteString(line)
	}
	if current.Len() > 0 {
		records = append(records, current.String())
	}
	return records
}

// PathFromRecord extracts the file path a record touches, preferring the
// "+++ b/" annotation and falling back to the marker line. Returns "" when
// neither is present.
func PathFromRecord(record string) string {
	for _, line := range strings.Split(record, "\n") {
		if strings.HasPrefix(line, "+++ b/") {
			return strings.TrimRight(strings.TrimPrefix(line, "+++ b/"), "\r")
		}
	}
	if m := markerPathRe.FindStringSubmatch(record); m != nil {
		return m[1]
	}
	return ""
}

// WriteChunks splits the diff stream into records and writes each one to dir
// as an independent chunk file named by its 1-based emission order,
// zero-padded, with a .diff suffix. Returns the number of chunks written.
// The caller is responsible for dir being empty beforehand.
func WriteChunks(diff, dir string) (int, error) {
	records := SplitRecords(diff)
	for i, record := range records {
		name := ChunkName(i + 1)
		if err := os.WriteFile(filepath.Join(dir, name), []byte(record), 0o644); err != nil {
			return i, fmt.Errorf("writing chunk %s: %w", name, err)
		}
	}
	return len(records), nil
}

// ChunkName returns the filename for the chunk with the given 1-based
// sequence number.
func ChunkName(seq int) string {
	return fmt.Sprintf("%03d%s", seq, ChunkSuffix)
}

// ListChunks returns the chunk files in dir in ascending sequence order.
// Files whose name is not a sequence number with the chunk suffix are
// ignored. Order is numeric, not lexical: chunk 1000 sorts after 999.
func ListChunks(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading chunks directory: %w", err)
	}
	type chunk struct {
		seq  int
		path string
	}
	var chunks []chunk
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ChunkSuffix) {
			continue
		}
		seq, err := strconv.Atoi(strings.TrimSuffix(e.Name(), ChunkSuffix))
		if err != nil {
			continue
		}
		chunks = append(chunks, chunk{seq: seq, path: filepath.Join(dir, e.Name())})
	}
	sort.Slice(chunks, func(i, j int) bool { return chunks[i].seq < chunks[j].seq })
	paths := make([]string, 0, len(chunks))
	for _, c := range chunks {
		paths = append(paths, c.path)
	}
	return paths, nil
}
