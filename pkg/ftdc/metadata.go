package ftdc

import "go.mongodb.org/mongo-driver/bson"

// Metadata identifies the server a metrics chunk was captured from,
// read from the reference document's serverStatus sub-document.
type Metadata struct {
	Host    string
	Process string
	Version string
}

// metadataFromReferenceDocument reads serverStatus.{host,process,version}
// from a reference document, following the same common.serverStatus
// fallback as serverStatusDocument.
func metadataFromReferenceDocument(doc bson.Raw) (Metadata, error) {
	ss, err := serverStatusDocument(doc)
	if err != nil {
		return Metadata{}, err
	}

	host, err := lookupString(ss, "host")
	if err != nil {
		return Metadata{}, err
	}
	process, err := lookupString(ss, "process")
	if err != nil {
		return Metadata{}, err
	}
	version, err := lookupString(ss, "version")
	if err != nil {
		return Metadata{}, err
	}

	return Metadata{Host: host, Process: process, Version: version}, nil
}

func lookupString(doc bson.Raw, key string) (string, error) {
	rv, err := doc.LookupErr(key)
	if err != nil {
		return "", errKeyAccess(&KeyAccessError{Kind: classifyLookupErr(err), Key: key})
	}
	s, ok := rv.StringValueOK()
	if !ok {
		return "", errKeyAccess(&KeyAccessError{Kind: KeyWrongType, Key: key})
	}
	return s, nil
}
