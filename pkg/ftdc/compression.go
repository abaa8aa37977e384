package ftdc

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/zlib"
)

// decompress reads a little-endian uint32 size hint followed by a zlib
// stream and inflates it to completion. The hint is advisory only: it sizes
// the destination buffer but inflation always runs to input EOF.
func decompress(r io.Reader) ([]byte, error) {
	hint, err := readUint32LE(r)
	if err != nil {
		return nil, errIO(err)
	}

	zr, err := zlib.NewReader(r)
	if err != nil {
		return nil, errIO(err)
	}
	defer zr.Close()

	buf := bytes.NewBuffer(make([]byte, 0, hint))
	if _, err := io.Copy(buf, zr); err != nil {
		return nil, errIO(err)
	}

	return buf.Bytes(), nil
}
