package ftdc

import "go.mongodb.org/mongo-driver/bson"

// docTimeFilter drops documents whose "_id" timestamp falls outside the
// requested window. Unlike pathTimeFilter it applies no margin: by this
// stage every document is already in memory, so there is no cost to
// checking the exact boundary.
type docTimeFilter struct {
	src    docIterator
	window TimeWindow
}

func newDocTimeFilter(src docIterator, window TimeWindow) *docTimeFilter {
	return &docTimeFilter{src: src, window: window}
}

func (f *docTimeFilter) Next() (bson.Raw, error) {
	for {
		doc, err := f.src.Next()
		if err != nil {
			return nil, err
		}

		ts, err := documentTimestamp(doc)
		if err != nil {
			return nil, err
		}

		if f.window.Contains(ts) {
			return doc, nil
		}
	}
}
