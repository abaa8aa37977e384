package ftdc

import (
	"encoding/binary"
	"errors"
	"io"
)

// maxVarUint64Bytes bounds the number of continuation bytes read for a
// single varint before giving up, per the FTDC sample-block encoding.
const maxVarUint64Bytes = 10

// readByte reads a single octet from r.
func readByte(r io.Reader) (byte, error) {
	var buf [1]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}

// readUint32LE reads a little-endian uint32 from r.
func readUint32LE(r io.Reader) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}

// readVarUint64 reads a base-128 varint: the high bit of each byte signals
// continuation, the low 7 bits form little-endian payload. It fails after
// maxVarUint64Bytes continuation bytes without a terminator.
func readVarUint64(r io.Reader) (uint64, error) {
	var value uint64
	var shift uint
	var n int

	for {
		if n > maxVarUint64Bytes-1 {
			return 0, errors.New("maximum bytes size for a variable u64 has been reached")
		}

		b, err := readByte(r)
		if err != nil {
			return 0, err
		}

		if b < 128 {
			return value + (uint64(b) << shift), nil
		}

		value += uint64(b&127) << shift
		shift += 7
		n++
	}
}
