package ftdc

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsoncore"
)

// DocumentKind classifies a top-level FTDC BSON document by its "type"
// field.
type DocumentKind int32

const (
	KindMetadata         DocumentKind = 0
	KindMetricsChunk     DocumentKind = 1
	KindPeriodicMetadata DocumentKind = 2
)

// documentKind reads and validates the "type" field of a top-level FTDC
// document.
func documentKind(doc bson.Raw) (DocumentKind, error) {
	rv, err := doc.LookupErr("type")
	if err != nil {
		return 0, errKeyAccess(&KeyAccessError{Kind: classifyLookupErr(err), Key: "type"})
	}

	v, ok := rv.Int32OK()
	if !ok {
		return 0, errKeyAccess(&KeyAccessError{Kind: KeyWrongType, Key: "type"})
	}

	switch DocumentKind(v) {
	case KindMetadata, KindMetricsChunk, KindPeriodicMetadata:
		return DocumentKind(v), nil
	default:
		return 0, errUnknownDocumentKind(v)
	}
}

// documentTimestamp reads the "_id" field, which every FTDC document type
// carries as a BSON DateTime.
func documentTimestamp(doc bson.Raw) (time.Time, error) {
	rv, err := doc.LookupErr("_id")
	if err != nil {
		return time.Time{}, errKeyAccess(&KeyAccessError{Kind: classifyLookupErr(err), Key: "_id"})
	}

	ms, ok := rv.DateTimeOK()
	if !ok {
		return time.Time{}, errKeyAccess(&KeyAccessError{Kind: KeyWrongType, Key: "_id"})
	}

	return time.UnixMilli(ms).UTC(), nil
}

// documentHostname reads doc.[common.]hostInfo.system.hostname,
// preferring the MongoDB 8.0+ layout nested under "common" and falling
// back to the pre-8.0 flat layout when "common" is absent.
func documentHostname(doc bson.Raw) (string, error) {
	const key = "doc.hostInfo.system.hostname"

	if rv, err := doc.LookupErr("doc", "common", "hostInfo", "system", "hostname"); err == nil {
		if s, ok := rv.StringValueOK(); ok {
			return s, nil
		}
		return "", errKeyAccess(&KeyAccessError{Kind: KeyWrongType, Key: key})
	}

	rv, err := doc.LookupErr("doc", "hostInfo", "system", "hostname")
	if err != nil {
		return "", errKeyAccess(&KeyAccessError{Kind: classifyLookupErr(err), Key: key})
	}
	s, ok := rv.StringValueOK()
	if !ok {
		return "", errKeyAccess(&KeyAccessError{Kind: KeyWrongType, Key: key})
	}
	return s, nil
}

// documentMetricsChunkData reads the "data" binary field of a metrics
// chunk document.
func documentMetricsChunkData(doc bson.Raw) ([]byte, error) {
	rv, err := doc.LookupErr("data")
	if err != nil {
		return nil, errKeyAccess(&KeyAccessError{Kind: classifyLookupErr(err), Key: "data"})
	}

	_, data, ok := rv.BinaryOK()
	if !ok {
		return nil, errKeyAccess(&KeyAccessError{Kind: KeyWrongType, Key: "data"})
	}
	return data, nil
}

// serverStatusDocument locates the serverStatus sub-document used as the
// metadata reference document, preferring the "common"-nested layout used
// by MongoDB 8.0+ and falling back to the flat pre-8.0 layout.
func serverStatusDocument(doc bson.Raw) (bson.Raw, error) {
	if rv, err := doc.LookupErr("common", "serverStatus"); err == nil {
		if d, ok := rv.DocumentOK(); ok {
			return bson.Raw(d), nil
		}
		return nil, errKeyAccess(&KeyAccessError{Kind: KeyWrongType, Key: "serverStatus"})
	}

	rv, err := doc.LookupErr("serverStatus")
	if err != nil {
		return nil, errKeyAccess(&KeyAccessError{Kind: classifyLookupErr(err), Key: "serverStatus"})
	}
	d, ok := rv.DocumentOK()
	if !ok {
		return nil, errKeyAccess(&KeyAccessError{Kind: KeyWrongType, Key: "serverStatus"})
	}
	return bson.Raw(d), nil
}

// classifyLookupErr turns a bson.Raw lookup error into a KeyAccessKind.
// bson.Raw.LookupErr reports a missing key anywhere along the path the
// same way regardless of depth, so every such failure is treated as
// KeyMissing; anything else (a malformed document) is KeyOther.
func classifyLookupErr(err error) KeyAccessKind {
	if errors.Is(err, bsoncore.ErrElementNotFound) {
		return KeyMissing
	}
	return KeyOther
}
