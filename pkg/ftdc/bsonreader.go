package ftdc

import (
	"encoding/binary"
	"io"

	"go.mongodb.org/mongo-driver/bson"
)

// minDocumentLength is the smallest legal BSON document: a 4-byte length
// prefix and the single trailing 0x00.
const minDocumentLength = 5

// documentReader pulls successive top-level BSON documents out of a
// stream, one at a time, without buffering the whole file in memory.
type documentReader struct {
	r io.Reader
}

func newDocumentReader(r io.Reader) *documentReader {
	return &documentReader{r: r}
}

// Next returns the next document in the stream. It returns io.EOF, and
// only io.EOF, once the stream ends on a document boundary; any other
// failure, including a stream that ends mid-document, is a DecodeError.
func (dr *documentReader) Next() (bson.Raw, error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(dr.r, lenBuf[:]); err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, errIO(err)
	}

	length := binary.LittleEndian.Uint32(lenBuf[:])
	if length < minDocumentLength {
		return nil, errDeserialize(io.ErrUnexpectedEOF)
	}

	buf := make([]byte, length)
	copy(buf[:4], lenBuf[:])
	if _, err := io.ReadFull(dr.r, buf[4:]); err != nil {
		return nil, errIO(err)
	}

	doc := bson.Raw(buf)
	if err := doc.Validate(); err != nil {
		return nil, errDeserialize(err)
	}
	return doc, nil
}
