package ftdc

// Iterator pulls successive MetricsChunk values out of an FTDC archive
// rooted at a directory, applying an optional hostname and time window
// filter. It is single-threaded and pull-based end to end: nothing is
// decoded until Next is called, and at most one metrics file is ever
// open at a time.
type Iterator struct {
	files  *fileStream
	chunks docIterator
}

// Open discovers every metrics file under root, applies filter, and
// returns an Iterator ready to decode chunks on demand. Files are
// visited in ascending (timestamp, uid) order, matching FTDC's own
// write order.
func Open(root string, filter Filter) (*Iterator, error) {
	w, err := newWalker(root)
	if err != nil {
		return nil, err
	}

	sorted := newSortedFiles(w)

	window := filter.window()
	paths := newPathTimeFilter(sorted, window)
	files := newFileStream(paths)

	var docs docIterator = files
	docs = newHostnameFilter(docs, filter.Hostname)
	docs = newDocTimeFilter(docs, window)
	docs = newChunkSelector(docs)

	return &Iterator{files: files, chunks: docs}, nil
}

// Next decodes and returns the next MetricsChunk matching the filter
// given to Open. It returns io.EOF, and only io.EOF, once the archive is
// exhausted.
func (it *Iterator) Next() (MetricsChunk, error) {
	doc, err := it.chunks.Next()
	if err != nil {
		return MetricsChunk{}, err
	}

	data, err := documentMetricsChunkData(doc)
	if err != nil {
		return MetricsChunk{}, err
	}

	return decodeChunk(data)
}

// Close releases the file currently held open by the iterator, if any.
func (it *Iterator) Close() error {
	return it.files.Close()
}
