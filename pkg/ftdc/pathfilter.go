package ftdc

// pathTimeFilter drops files whose own timestamp falls outside the
// requested time window, expanded by pathMargin on both sides. A file's
// timestamp only marks when FTDC started writing it, and the chunks
// inside can run for hours afterwards, so the margin trades a bit of
// over-reading for never missing a chunk that belongs in the window.
type pathTimeFilter struct {
	src    fileInfoIterator
	window TimeWindow
}

func newPathTimeFilter(src fileInfoIterator, window TimeWindow) *pathTimeFilter {
	return &pathTimeFilter{src: src, window: window}
}

func (f *pathTimeFilter) Next() (FileInfo, error) {
	for {
		fi, err := f.src.Next()
		if err != nil {
			return FileInfo{}, err
		}
		if f.window.containsWithMargin(fi.Timestamp, pathMargin) {
			return fi, nil
		}
	}
}

var _ fileInfoIterator = (*pathTimeFilter)(nil)
