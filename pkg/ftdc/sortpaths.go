package ftdc

import (
	"io"
	"sort"
)

// fileInfoIterator is satisfied by any pull-based source of FileInfo,
// terminated by io.EOF.
type fileInfoIterator interface {
	Next() (FileInfo, error)
}

// sortedFileEntry is one slot in a sortedFiles replay: either a FileInfo
// that parsed cleanly, or an error a earlier stage hit while producing
// it (an unreadable directory, a malformed filename). Error entries
// carry no timestamp, so they sort last rather than aborting the whole
// archive on one bad entry.
type sortedFileEntry struct {
	info FileInfo
	err  error
}

// sortedFiles drains a fileInfoIterator and replays it in ascending
// (Timestamp, UID) order, with any errors encountered along the way
// replayed last, in the order they were seen. FTDC writes files in
// creation order already, but a directory listing is not guaranteed to
// preserve that order, and downstream stages (the hostname filter in
// particular) depend on chronological replay.
type sortedFiles struct {
	entries []sortedFileEntry
	idx     int
}

func newSortedFiles(src fileInfoIterator) *sortedFiles {
	var entries []sortedFileEntry
	for {
		fi, err := src.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			entries = append(entries, sortedFileEntry{err: err})
			continue
		}
		entries = append(entries, sortedFileEntry{info: fi})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.err != nil || b.err != nil {
			return a.err == nil && b.err != nil
		}
		if !a.info.Timestamp.Equal(b.info.Timestamp) {
			return a.info.Timestamp.Before(b.info.Timestamp)
		}
		return a.info.UID < b.info.UID
	})

	return &sortedFiles{entries: entries}
}

func (s *sortedFiles) Next() (FileInfo, error) {
	if s.idx >= len(s.entries) {
		return FileInfo{}, io.EOF
	}
	e := s.entries[s.idx]
	s.idx++
	return e.info, e.err
}
