package ftdc

import (
	"fmt"
)

// KeyAccessKind distinguishes why a BSON field access failed.
type KeyAccessKind int

const (
	KeyMissing KeyAccessKind = iota
	KeyWrongType
	KeyOther
)

func (k KeyAccessKind) String() string {
	switch k {
	case KeyMissing:
		return "missing"
	case KeyWrongType:
		return "wrong type"
	default:
		return "access error"
	}
}

// KeyAccessError reports a failed access to a named BSON field, carrying
// the offending key so callers can print a precise diagnostic.
type KeyAccessError struct {
	Kind KeyAccessKind
	Key  string
}

func (e *KeyAccessError) Error() string {
	return fmt.Sprintf("key access error: could not access the field with the %q key: %s", e.Key, e.Kind)
}

// DecodeErrorKind enumerates the taxonomy of errors the decoder can surface.
// These are kinds, not concrete Go types: every DecodeError carries one of
// them plus optional context (Name, Value, Cause).
type DecodeErrorKind int

const (
	KindIO DecodeErrorKind = iota
	KindDeserialize
	KindKeyAccess
	KindUnknownDocumentKind
	KindMetricCountMismatch
	KindMetricTimestampNotFound
	KindIntConversion
)

func (k DecodeErrorKind) String() string {
	switch k {
	case KindIO:
		return "io"
	case KindDeserialize:
		return "deserialize"
	case KindKeyAccess:
		return "key_access"
	case KindUnknownDocumentKind:
		return "unknown_document_kind"
	case KindMetricCountMismatch:
		return "metric_count_mismatch"
	case KindMetricTimestampNotFound:
		return "metric_timestamp_not_found"
	case KindIntConversion:
		return "int_conversion"
	default:
		return "unknown"
	}
}

// DecodeError is the error type returned by every component of the
// decoding pipeline. It always carries enough context to print a one-line
// diagnostic and, via Unwrap, composes with errors.Is/errors.As.
type DecodeError struct {
	Kind  DecodeErrorKind
	Name  string // metric name, for KindMetricTimestampNotFound
	Value int32  // unknown document kind value, for KindUnknownDocumentKind
	Cause error
}

func (e *DecodeError) Error() string {
	const prefix = "metric parse error:"

	switch e.Kind {
	case KindIO:
		return fmt.Sprintf("%s I/O error: %v", prefix, e.Cause)
	case KindDeserialize:
		return fmt.Sprintf("%s BSON deserialization error: %v", prefix, e.Cause)
	case KindKeyAccess:
		return fmt.Sprintf("%s could not read the document field: %v", prefix, e.Cause)
	case KindUnknownDocumentKind:
		return fmt.Sprintf("%s unknown document type: %d", prefix, e.Value)
	case KindMetricCountMismatch:
		return fmt.Sprintf("%s metrics count from the reference document and metrics count from samples do not match", prefix)
	case KindMetricTimestampNotFound:
		return fmt.Sprintf("%s the metric timestamps for the %q metric could not be found", prefix, e.Name)
	case KindIntConversion:
		return fmt.Sprintf("%s could not convert integer: %v", prefix, e.Cause)
	default:
		return fmt.Sprintf("%s unknown error", prefix)
	}
}

func (e *DecodeError) Unwrap() error { return e.Cause }

func errIO(cause error) error {
	return &DecodeError{Kind: KindIO, Cause: cause}
}

func errDeserialize(cause error) error {
	return &DecodeError{Kind: KindDeserialize, Cause: cause}
}

func errKeyAccess(cause *KeyAccessError) error {
	return &DecodeError{Kind: KindKeyAccess, Cause: cause}
}

func errUnknownDocumentKind(value int32) error {
	return &DecodeError{Kind: KindUnknownDocumentKind, Value: value}
}

func errMetricCountMismatch() error {
	return &DecodeError{Kind: KindMetricCountMismatch}
}

func errMetricTimestampNotFound(name string) error {
	return &DecodeError{Kind: KindMetricTimestampNotFound, Name: name}
}

func errIntConversion(cause error) error {
	return &DecodeError{Kind: KindIntConversion, Cause: cause}
}
