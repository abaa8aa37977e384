package ftdc

import "go.mongodb.org/mongo-driver/bson"

// chunkSelector drops every document except MetricsChunk documents.
// Metadata and PeriodicMetadata documents have already done their job
// upstream (driving the hostname filter's state) by the time a document
// reaches this stage.
type chunkSelector struct {
	src docIterator
}

func newChunkSelector(src docIterator) *chunkSelector {
	return &chunkSelector{src: src}
}

func (s *chunkSelector) Next() (bson.Raw, error) {
	for {
		doc, err := s.src.Next()
		if err != nil {
			return nil, err
		}

		kind, err := documentKind(doc)
		if err != nil {
			return nil, err
		}

		if kind == KindMetricsChunk {
			return doc, nil
		}
	}
}
