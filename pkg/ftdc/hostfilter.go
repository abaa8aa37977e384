package ftdc

import "go.mongodb.org/mongo-driver/bson"

// hostnameFilter keeps only the documents belonging to one host. FTDC
// files interleave metadata for multiple hosts only at Metadata document
// boundaries: a Metadata document announces the host all following
// documents belong to, until the next one. The filter is therefore
// stateful by construction, not merely a per-document predicate.
type hostnameFilter struct {
	src      docIterator
	hostname string
	matching bool
}

func newHostnameFilter(src docIterator, hostname string) *hostnameFilter {
	// An empty hostname means "no filtering": everything matches.
	return &hostnameFilter{src: src, hostname: hostname, matching: hostname == ""}
}

func (f *hostnameFilter) Next() (bson.Raw, error) {
	if f.hostname == "" {
		return f.src.Next()
	}

	for {
		doc, err := f.src.Next()
		if err != nil {
			return nil, err
		}

		kind, err := documentKind(doc)
		if err != nil {
			return nil, err
		}

		if kind == KindMetadata {
			host, err := documentHostname(doc)
			if err != nil {
				return nil, err
			}
			f.matching = host == f.hostname
		}

		if f.matching {
			return doc, nil
		}
	}
}
