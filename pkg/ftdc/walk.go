package ftdc

import (
	"io"
	"os"
	"path/filepath"
)

// walkFrame is one level of the depth-first directory stack.
type walkFrame struct {
	dir     string
	entries []os.DirEntry
	idx     int
}

// walker yields every regular metrics file under a root directory,
// depth-first, without recursion: a small stack of open directory
// listings stands in for the call stack. "interim" files are skipped
// silently; anything else that fails to parse as a metrics file name is
// surfaced as an error so a malformed archive is never decoded
// partially without the caller knowing.
type walker struct {
	stack []walkFrame
}

func newWalker(root string) (*walker, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, errIO(err)
	}
	return &walker{stack: []walkFrame{{dir: root, entries: entries}}}, nil
}

// Next returns the next FileInfo in directory order, or io.EOF once the
// whole tree has been visited.
func (w *walker) Next() (FileInfo, error) {
	for len(w.stack) > 0 {
		top := &w.stack[len(w.stack)-1]

		if top.idx >= len(top.entries) {
			w.stack = w.stack[:len(w.stack)-1]
			continue
		}

		entry := top.entries[top.idx]
		top.idx++
		path := filepath.Join(top.dir, entry.Name())

		if entry.IsDir() {
			sub, err := os.ReadDir(path)
			if err != nil {
				return FileInfo{}, errIO(err)
			}
			w.stack = append(w.stack, walkFrame{dir: path, entries: sub})
			continue
		}

		if !entry.Type().IsRegular() {
			continue
		}

		info, ok, err := parseFileInfo(path)
		if err != nil {
			return FileInfo{}, err
		}
		if !ok {
			continue
		}
		return info, nil
	}

	return FileInfo{}, io.EOF
}
