package ftdc

import (
	"math"
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
)

// schemaField is one leaf of the reference document's numeric schema:
// the dotted path to the field, the BSON type it was read as, and the
// field's own value in the reference document, bit-reinterpreted as a
// uint64 so it can seed delta reconstruction over the sample matrix.
type schemaField struct {
	Groups  []string
	Type    ValueType
	Initial uint64
}

// extractSchema walks a reference document depth-first and returns its
// numeric leaves in field order, expanding Timestamp fields into a
// "...time"/"...increment" pair and recursing into embedded documents
// and arrays. Any other BSON type (strings, ObjectIDs, null, binary,
// and so on) is skipped: FTDC only ever samples numeric fields.
func extractSchema(doc bson.Raw) ([]schemaField, error) {
	var fields []schemaField
	if err := walkSchema(doc, nil, &fields); err != nil {
		return nil, err
	}
	return fields, nil
}

func walkSchema(doc bson.Raw, prefix []string, out *[]schemaField) error {
	elements, err := doc.Elements()
	if err != nil {
		return errDeserialize(err)
	}

	for _, elem := range elements {
		key, err := elem.KeyErr()
		if err != nil {
			return errDeserialize(err)
		}
		value, err := elem.ValueErr()
		if err != nil {
			return errDeserialize(err)
		}

		path := appendPath(prefix, key)
		if err := walkSchemaValue(value, path, out); err != nil {
			return err
		}
	}

	return nil
}

// walkSchemaValue classifies a single BSON value and either appends one
// or two schema leaves or recurses into it, depending on its type.
func walkSchemaValue(value bson.RawValue, path []string, out *[]schemaField) error {
	if v, ok := value.Int32OK(); ok {
		*out = append(*out, schemaField{Groups: path, Type: ValueInt32, Initial: uint64(uint32(v))})
		return nil
	}
	if v, ok := value.Int64OK(); ok {
		*out = append(*out, schemaField{Groups: path, Type: ValueInt64, Initial: uint64(v)})
		return nil
	}
	if v, ok := value.DoubleOK(); ok {
		*out = append(*out, schemaField{Groups: path, Type: ValueDouble, Initial: math.Float64bits(v)})
		return nil
	}
	if v, ok := value.BooleanOK(); ok {
		var n uint64
		if v {
			n = 1
		}
		*out = append(*out, schemaField{Groups: path, Type: ValueBoolean, Initial: n})
		return nil
	}
	if v, ok := value.DateTimeOK(); ok {
		*out = append(*out, schemaField{Groups: path, Type: ValueDateTime, Initial: uint64(v)})
		return nil
	}
	if t, i, ok := value.TimestampOK(); ok {
		base := path[len(path)-1]
		prefix := path[:len(path)-1]
		*out = append(*out,
			schemaField{Groups: appendPath(prefix, base+"time"), Type: ValueUInt32, Initial: uint64(t)},
			schemaField{Groups: appendPath(prefix, base+"increment"), Type: ValueUInt32, Initial: uint64(i)},
		)
		return nil
	}
	if sub, ok := value.DocumentOK(); ok {
		return walkSchema(bson.Raw(sub), path, out)
	}
	if arr, ok := value.ArrayOK(); ok {
		elems, err := bson.Raw(arr).Elements()
		if err != nil {
			return errDeserialize(err)
		}
		for idx, e := range elems {
			v, err := e.ValueErr()
			if err != nil {
				return errDeserialize(err)
			}
			sub, ok := v.DocumentOK()
			if !ok {
				// Only document-typed array elements carry numeric
				// schema fields; everything else is skipped.
				continue
			}
			if err := walkSchema(bson.Raw(sub), appendPath(path, strconv.Itoa(idx)), out); err != nil {
				return err
			}
		}
		return nil
	}

	// Unsupported type: not sampled, skip silently.
	return nil
}

// appendPath returns prefix with key appended, without aliasing prefix's
// backing array.
func appendPath(prefix []string, key string) []string {
	path := make([]string, len(prefix)+1)
	copy(path, prefix)
	path[len(prefix)] = key
	return path
}
